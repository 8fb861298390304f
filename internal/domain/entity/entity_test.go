package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatIDSymmetric(t *testing.T) {
	pairs := [][2]string{{"alice", "bob"}, {"uid-9", "uid-10"}, {"Z", "a"}}
	for _, p := range pairs {
		ab, err := ChatID(p[0], p[1])
		require.NoError(t, err)
		ba, err := ChatID(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, ab, ba)
	}

	id, _ := ChatID("bob", "alice")
	assert.Equal(t, "alice_bob", id)
}

func TestChatIDRejectsInvalidPairs(t *testing.T) {
	_, err := ChatID("alice", "alice")
	assert.ErrorIs(t, err, ErrInvalidChatPair)
	_, err = ChatID("", "bob")
	assert.ErrorIs(t, err, ErrInvalidChatPair)
}

func TestMergeCartItemIncrementsExisting(t *testing.T) {
	now := time.Now()
	product := CartProduct{ProductID: "p1", Name: "Hoe", Price: 12.5, Category: "tools"}

	items, first, created := MergeCartItem(nil, "u1", product, 1, now)
	require.True(t, created)
	assert.Len(t, items, 1)

	items, second, created := MergeCartItem(items, "u1", product, 2, now.Add(time.Minute))
	assert.False(t, created)
	assert.Len(t, items, 1)
	assert.Same(t, first, second)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, now.Add(time.Minute), items[0].UpdatedAt)

	items, _, created = MergeCartItem(items, "u1", CartProduct{ProductID: "p2", Price: 1}, 1, now)
	assert.True(t, created)
	assert.Len(t, items, 2)
}

func TestNewCartItemDefaults(t *testing.T) {
	item := NewCartItem("u1", CartProduct{ProductID: "p1"}, 1, time.Now())
	assert.Equal(t, "other", item.Category)
	assert.Equal(t, "other Supplier", item.Seller.Name)
	assert.Equal(t, "support@othermarket.com", item.Seller.Contact)
}

func TestCartTotal(t *testing.T) {
	items := []*CartItem{
		{Price: 0.1, Quantity: 3},
		{Price: 19.99, Quantity: 2},
	}
	assert.Equal(t, "40.28", CartTotal(items).StringFixed(2))

	summary := SummarizeCart(items)
	assert.Equal(t, 5, summary.ItemCount)
	assert.Equal(t, "40.28", summary.Total)

	assert.Equal(t, "0.00", SummarizeCart(nil).Total)
}

func TestYieldPerAcre(t *testing.T) {
	assert.Equal(t, 33.33, YieldPerAcre(100, 3))
	assert.Equal(t, 0.67, YieldPerAcre(2, 3))
	assert.Equal(t, 2.5, YieldPerAcre(10, 4))
	assert.Equal(t, 0.0, YieldPerAcre(10, 0))

	y := &FarmYield{TotalYield: 100, Acreage: 4}
	y.Recompute()
	assert.Equal(t, 25.0, y.YieldPerAcre)
	y.TotalYield = 90
	y.Recompute()
	assert.Equal(t, 22.5, y.YieldPerAcre)
	y.Acreage = 7
	y.Recompute()
	assert.Equal(t, 12.86, y.YieldPerAcre)
}

func TestBuildYieldReport(t *testing.T) {
	records := []*FarmYield{
		{CropType: "Maize", Year: 2023, Acreage: 2, TotalYield: 10, YieldPerAcre: 5},
		{CropType: "Maize", Year: 2024, Acreage: 2, TotalYield: 14, YieldPerAcre: 7},
		{CropType: "Cassava", Year: 2024, Acreage: 1, TotalYield: 6, YieldPerAcre: 6},
	}
	r := BuildYieldReport(records)

	assert.Equal(t, 5.0, r.TotalAcreage)
	assert.Equal(t, 30.0, r.TotalYield)
	assert.Equal(t, 6.0, r.AverageYieldPerAcre)
	assert.Equal(t, []string{"Cassava", "Maize"}, r.CropTypes)
	assert.Equal(t, []int{2024, 2023}, r.Years)
	require.Len(t, r.ByCrop, 2)
	assert.Equal(t, CropYieldSummary{CropType: "Maize", Records: 2, AverageYieldPerAcre: 6}, r.ByCrop[1])

	empty := BuildYieldReport(nil)
	assert.Equal(t, 0.0, empty.AverageYieldPerAcre)
	assert.Empty(t, empty.Records)
}

func TestProgressMappingRoundTrip(t *testing.T) {
	prev := -1
	for _, label := range ProgressLabels {
		v, ok := ProgressValue(label)
		require.True(t, ok)
		assert.Greater(t, v, prev, "values must increase with the label order")
		assert.Equal(t, label, LabelForProgress(v))
		prev = v
	}

	_, ok := ProgressValue("Halfway")
	assert.False(t, ok)
}

func TestLabelForProgressIsTotalAndMonotonic(t *testing.T) {
	order := map[ProgressLabel]int{}
	for i, l := range ProgressLabels {
		order[l] = i
	}
	prev := 0
	for n := -10; n <= 150; n++ {
		label := LabelForProgress(n)
		idx, ok := order[label]
		require.True(t, ok, fmt.Sprintf("progress %d has no label", n))
		assert.GreaterOrEqual(t, idx, prev)
		prev = idx
	}
	assert.Equal(t, ProgressJustBeginning, LabelForProgress(10))
	assert.Equal(t, ProgressAlmostDone, LabelForProgress(75))
	assert.Equal(t, ProgressComplete, LabelForProgress(76))
}

func TestPushRecent(t *testing.T) {
	list := PushRecent(nil, "a", MaxRecentlyViewed)
	assert.Equal(t, []string{"a"}, list)

	list = PushRecent([]string{"a", "b", "c"}, "c", MaxRecentlyViewed)
	assert.Equal(t, []string{"c", "a", "b"}, list)

	var full []string
	for i := 0; i < MaxRecentlyViewed; i++ {
		full = append(full, fmt.Sprintf("u%d", i))
	}
	list = PushRecent(full, "new", MaxRecentlyViewed)
	assert.Len(t, list, MaxRecentlyViewed)
	assert.Equal(t, "new", list[0])
	assert.NotContains(t, list, "u9")

	original := []string{"x", "y"}
	_ = PushRecent(original, "y", MaxRecentlyViewed)
	assert.Equal(t, []string{"x", "y"}, original)
}

func TestTaskFilterSortAndProgress(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []*Task{
		{ID: "1", Status: TaskStatusPending, Priority: PriorityLow, DueDate: base.Add(48 * time.Hour)},
		{ID: "2", Status: TaskStatusCompleted, Priority: PriorityMedium, DueDate: base},
		{ID: "3", Status: TaskStatusInProgress, Priority: PriorityHigh, DueDate: base.Add(24 * time.Hour)},
	}

	assert.Len(t, FilterTasks(tasks, TaskFilterAll), 3)
	assert.Len(t, FilterTasks(tasks, TaskFilterPending), 1)
	assert.Len(t, FilterTasks(tasks, TaskFilterCompleted), 1)

	ids := func() []string {
		var out []string
		for _, task := range tasks {
			out = append(out, task.ID)
		}
		return out
	}

	SortTasks(tasks, TaskSortDate)
	assert.Equal(t, []string{"2", "3", "1"}, ids())
	SortTasks(tasks, TaskSortPriority)
	assert.Equal(t, []string{"3", "2", "1"}, ids())
	SortTasks(tasks, TaskSortStatus)
	assert.Equal(t, []string{"2", "3", "1"}, ids())

	assert.Equal(t, 33, OverallProgress(tasks))
	assert.Equal(t, 0, OverallProgress(nil))
}

func TestWeatherCondition(t *testing.T) {
	cases := map[int]string{
		0: "Clear sky", 2: "Partly cloudy", 45: "Foggy/cloudy", 61: "Rainy",
		71: "Snowy", 95: "Thunderstorm", 120: "Unknown",
	}
	for code, want := range cases {
		assert.Equal(t, want, WeatherCondition(code), "code %d", code)
	}
}

func TestProductSellerDefaults(t *testing.T) {
	p := &Product{}
	p.ApplySellerDefaults(&User{Email: "kofi@farm.gh", PhoneNumber: "+233", Username: "kofi"})
	assert.Equal(t, DefaultFarmName, p.FarmLocation.Name)
	assert.Equal(t, UnknownLocation, p.FarmLocation.City)
	assert.Equal(t, UnknownLocation, p.FarmLocation.State)
	assert.Equal(t, "kofi@farm.gh", p.ContactInfo.Email)
	assert.Equal(t, "kofi", p.SellerUsername)

	q := &Product{ContactInfo: ContactInfo{Email: "own@x.io"}}
	q.ApplySellerDefaults(&User{Email: "kofi@farm.gh", FarmName: "Green Acres"})
	assert.Equal(t, "Green Acres", q.FarmLocation.Name)
	assert.Equal(t, "own@x.io", q.ContactInfo.Email)
}

func TestAuthorName(t *testing.T) {
	assert.Equal(t, "kofi", (&User{Username: "kofi", DisplayName: "Kofi A"}).AuthorName())
	assert.Equal(t, "Kofi A", (&User{DisplayName: "Kofi A"}).AuthorName())
	assert.Equal(t, AnonymousAuthorName, (&User{}).AuthorName())
	var nilUser *User
	assert.Equal(t, AnonymousAuthorName, nilUser.AuthorName())
}

func TestCropDetectionAnnotate(t *testing.T) {
	low := &CropDetection{Prediction: "Late_blight", Confidence: 0.2}
	low.Annotate()
	assert.Equal(t, "Warning: Low confidence detection (20%). Results may not be reliable.", low.Warning)
	assert.Empty(t, low.Note)
	assert.Equal(t, "Late blight", low.Label)
	assert.Equal(t, "Very low", low.ConfidenceLabel)
	assert.NotEmpty(t, low.Treatment)

	mid := &CropDetection{Prediction: "Common_Rust", Confidence: 0.55}
	mid.Annotate()
	assert.Empty(t, mid.Warning)
	assert.Equal(t, "Note: Moderate confidence (55%). Additional verification recommended.", mid.Note)
	assert.Equal(t, "Low", mid.ConfidenceLabel)

	high := &CropDetection{Prediction: "healthy", Confidence: 0.93}
	high.Annotate()
	assert.Empty(t, high.Warning)
	assert.Empty(t, high.Note)
	assert.True(t, high.Healthy)
	assert.Equal(t, "High", high.ConfidenceLabel)

	unknown := &CropDetection{Prediction: "Mystery", Confidence: 0.7}
	unknown.Annotate()
	assert.Equal(t, "Moderate", unknown.ConfidenceLabel)
	assert.Empty(t, unknown.Description)
}
