package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

type FarmYield struct {
	ID              string    `json:"id" firestore:"-"`
	UserID          string    `json:"user_id" firestore:"userId"`
	FarmName        string    `json:"farm_name" firestore:"farmName"`
	Year            int       `json:"year" firestore:"year"`
	CropType        string    `json:"crop_type" firestore:"cropType"`
	Acreage         float64   `json:"acreage" firestore:"acreage"`
	TotalYield      float64   `json:"total_yield" firestore:"totalYield"`
	YieldPerAcre    float64   `json:"yield_per_acre" firestore:"yieldPerAcre"`
	Irrigation      string    `json:"irrigation" firestore:"irrigation"`
	FertilizerUsed  string    `json:"fertilizer_used" firestore:"fertilizerUsed"`
	AdditionalNotes string    `json:"additional_notes" firestore:"additionalNotes"`
	CreatedAt       time.Time `json:"created_at" firestore:"createdAt"`
	LastUpdated     time.Time `json:"last_updated" firestore:"lastUpdated"`
}

// YieldPerAcre divides total by acreage, rounded half-up to 2 decimals.
func YieldPerAcre(total, acreage float64) float64 {
	if acreage <= 0 {
		return 0
	}
	v, _ := decimal.NewFromFloat(total).
		DivRound(decimal.NewFromFloat(acreage), 8).
		Round(2).
		Float64()
	return v
}

// Recompute refreshes the derived per-acre field.
func (y *FarmYield) Recompute() {
	y.YieldPerAcre = YieldPerAcre(y.TotalYield, y.Acreage)
}

type CropYieldSummary struct {
	CropType            string  `json:"crop_type"`
	Records             int     `json:"records"`
	AverageYieldPerAcre float64 `json:"average_yield_per_acre"`
}

type YieldReport struct {
	Records             []*FarmYield       `json:"records"`
	TotalAcreage        float64            `json:"total_acreage"`
	TotalYield          float64            `json:"total_yield"`
	AverageYieldPerAcre float64            `json:"average_yield_per_acre"`
	CropTypes           []string           `json:"crop_types"`
	Years               []int              `json:"years"`
	ByCrop              []CropYieldSummary `json:"by_crop"`
}

func round2(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}

// BuildYieldReport aggregates records. Crop types are sorted by name and
// years newest first.
func BuildYieldReport(records []*FarmYield) *YieldReport {
	acreage := decimal.Zero
	total := decimal.Zero
	years := map[int]struct{}{}
	type cropAgg struct {
		sum   decimal.Decimal
		count int
	}
	crops := map[string]*cropAgg{}

	for _, r := range records {
		acreage = acreage.Add(decimal.NewFromFloat(r.Acreage))
		total = total.Add(decimal.NewFromFloat(r.TotalYield))
		years[r.Year] = struct{}{}
		agg, ok := crops[r.CropType]
		if !ok {
			agg = &cropAgg{sum: decimal.Zero}
			crops[r.CropType] = agg
		}
		agg.sum = agg.sum.Add(decimal.NewFromFloat(r.YieldPerAcre))
		agg.count++
	}

	report := &YieldReport{
		Records:      records,
		TotalAcreage: round2(acreage),
		TotalYield:   round2(total),
		CropTypes:    []string{},
		Years:        []int{},
		ByCrop:       []CropYieldSummary{},
	}
	if report.Records == nil {
		report.Records = []*FarmYield{}
	}
	if acreage.IsPositive() {
		report.AverageYieldPerAcre = round2(total.DivRound(acreage, 8))
	}

	for crop := range crops {
		report.CropTypes = append(report.CropTypes, crop)
	}
	sort.Strings(report.CropTypes)
	for _, crop := range report.CropTypes {
		agg := crops[crop]
		report.ByCrop = append(report.ByCrop, CropYieldSummary{
			CropType:            crop,
			Records:             agg.count,
			AverageYieldPerAcre: round2(agg.sum.DivRound(decimal.NewFromInt(int64(agg.count)), 8)),
		})
	}

	for y := range years {
		report.Years = append(report.Years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(report.Years)))

	return report
}
