package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/service"
	"farmily/pkg/errors"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[string]*entity.User
	updates   []map[string]interface{}
	updateErr error
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]*entity.User{}}
	for _, u := range users {
		r.users[u.UID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.UID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, uid string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByIDs(ctx context.Context, uids []string) ([]*entity.User, error) {
	var out []*entity.User
	for _, id := range uids {
		if u, err := r.GetByID(ctx, id); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, uid string, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates = append(r.updates, fields)
	u, ok := r.users[uid]
	if !ok {
		return errors.NotFound("User", nil)
	}
	if v, ok := fields["displayName"].(string); ok {
		u.DisplayName = v
	}
	if v, ok := fields["phoneNumber"].(string); ok {
		u.PhoneNumber = v
	}
	if v, ok := fields["farmName"].(string); ok {
		u.FarmName = v
	}
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, afterUID string, limit int) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.users))
	for id := range r.users {
		if id > afterUID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		cp := *r.users[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) SetRecentlyViewed(_ context.Context, uid string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.RecentlyViewed = append([]string(nil), ids...)
	return nil
}

type fakeUsernameRepo struct {
	mu      sync.Mutex
	records map[string]string
	err     error
	// beforeReserve runs under the lock ahead of the uniqueness check.
	beforeReserve func(records map[string]string, username string)
}

func newFakeUsernameRepo() *fakeUsernameRepo {
	return &fakeUsernameRepo{records: map[string]string{}}
}

func (r *fakeUsernameRepo) Get(_ context.Context, uid string) (*entity.UsernameRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name, ok := r.records[uid]
	if !ok {
		return nil, errors.NotFound("Username", nil)
	}
	return &entity.UsernameRecord{UID: uid, Username: name}, nil
}

func (r *fakeUsernameRepo) FindByUID(ctx context.Context, uid string) (*entity.UsernameRecord, error) {
	return r.Get(ctx, uid)
}

func (r *fakeUsernameRepo) GetMany(_ context.Context, uids []string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]string{}
	for _, id := range uids {
		if name, ok := r.records[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (r *fakeUsernameRepo) IsTaken(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	for _, name := range r.records {
		if name == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUsernameRepo) Reserve(_ context.Context, record *entity.UsernameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.beforeReserve != nil {
		r.beforeReserve(r.records, record.Username)
	}
	for id, name := range r.records {
		if name == record.Username && id != record.UID {
			return errors.Conflict("Username already taken")
		}
	}
	r.records[record.UID] = record.Username
	return nil
}

func (r *fakeUsernameRepo) Change(_ context.Context, uid, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, name := range r.records {
		if name == username && id != uid {
			return errors.Conflict("Username already taken")
		}
	}
	r.records[uid] = username
	return nil
}

type fakeAuth struct {
	createErr error
	signInErr error
	created   []string
	deleted   []string
	revoked   []string
}

func (a *fakeAuth) CreateUser(_ context.Context, email, _, _ string) (string, error) {
	if a.createErr != nil {
		return "", a.createErr
	}
	uid := fmt.Sprintf("uid-%d", len(a.created)+1)
	a.created = append(a.created, email)
	return uid, nil
}

func (a *fakeAuth) DeleteUser(_ context.Context, uid string) error {
	a.deleted = append(a.deleted, uid)
	return nil
}

func (a *fakeAuth) SignIn(_ context.Context, email, _ string) (*service.AuthSession, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	return &service.AuthSession{UID: "uid-" + strings.Split(email, "@")[0], IDToken: "token"}, nil
}

func (a *fakeAuth) RevokeSessions(_ context.Context, uid string) error {
	a.revoked = append(a.revoked, uid)
	return nil
}

type fakeLimiter struct {
	deny    map[string]bool
	actions []string
}

func (l *fakeLimiter) Allow(key, action string) (bool, time.Duration) {
	l.actions = append(l.actions, action)
	if l.deny[action] {
		return false, 3 * time.Second
	}
	return true, 0
}

type fakeCartRepo struct {
	items  map[string]*entity.CartItem
	orders []*entity.Order
	next   int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{items: map[string]*entity.CartItem{}}
}

func (r *fakeCartRepo) ListByUser(_ context.Context, uid string) ([]*entity.CartItem, error) {
	var out []*entity.CartItem
	for _, item := range r.items {
		if item.UserID == uid {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCartRepo) GetByID(_ context.Context, id string) (*entity.CartItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Cart item", nil)
	}
	return item, nil
}

func (r *fakeCartRepo) Add(ctx context.Context, uid string, p entity.CartProduct, qty int) (*entity.CartItem, error) {
	items, _ := r.ListByUser(ctx, uid)
	_, item, created := entity.MergeCartItem(items, uid, p, qty, time.Now())
	if created {
		r.next++
		item.ID = fmt.Sprintf("item-%d", r.next)
		r.items[item.ID] = item
	}
	return item, nil
}

func (r *fakeCartRepo) UpdateQuantity(_ context.Context, id string, qty int) error {
	r.items[id].Quantity = qty
	return nil
}

func (r *fakeCartRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *fakeCartRepo) DeleteByUser(_ context.Context, uid string) (int, error) {
	n := 0
	for id, item := range r.items {
		if item.UserID == uid {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeCartRepo) Checkout(ctx context.Context, uid string, build func([]*entity.CartItem) (*entity.Order, error)) (*entity.Order, error) {
	items, _ := r.ListByUser(ctx, uid)
	order, err := build(items)
	if err != nil {
		return nil, err
	}
	r.next++
	order.ID = fmt.Sprintf("order-%d", r.next)
	r.orders = append(r.orders, order)
	for _, item := range items {
		delete(r.items, item.ID)
	}
	return order, nil
}

type fakeChatRepo struct {
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
	groups   []*entity.Group
	err      error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[string]*entity.Chat{}, messages: map[string][]*entity.Message{}}
}

func (r *fakeChatRepo) GetByID(_ context.Context, id string) (*entity.Chat, error) {
	c, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return c, nil
}

func (r *fakeChatRepo) ListByParticipant(_ context.Context, uid string) ([]*entity.Chat, error) {
	var out []*entity.Chat
	for _, c := range r.chats {
		if c.HasParticipant(uid) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastMessageTime.After(out[j].LastMessageTime) })
	return out, nil
}

func (r *fakeChatRepo) AppendMessage(_ context.Context, chatID string, participants []string, msg *entity.Message) error {
	if r.err != nil {
		return r.err
	}
	c, ok := r.chats[chatID]
	if !ok {
		c = &entity.Chat{ID: chatID, Participants: participants, CreatedAt: msg.Timestamp}
		r.chats[chatID] = c
	}
	c.LastMessage = msg.Text
	c.LastMessageTime = msg.Timestamp
	msg.ID = fmt.Sprintf("m%d", len(r.messages[chatID])+1)
	msg.ChatID = chatID
	r.messages[chatID] = append(r.messages[chatID], msg)
	return nil
}

func (r *fakeChatRepo) ListMessages(_ context.Context, chatID string, _ int) ([]*entity.Message, error) {
	return r.messages[chatID], nil
}

func (r *fakeChatRepo) WatchMessages(ctx context.Context, chatID string, fn func([]*entity.Message)) error {
	fn(r.messages[chatID])
	<-ctx.Done()
	return nil
}

func (r *fakeChatRepo) ListGroups(_ context.Context, uid string) ([]*entity.Group, error) {
	return r.groups, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	users []string
}

func (n *fakeNotifier) NotifyChatList(userID string, _ *entity.Chat) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, userID)
}

type fakePostRepo struct {
	posts    map[string]*entity.Post
	likes    map[string]bool
	comments map[string][]*entity.Comment
	next     int
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:    map[string]*entity.Post{},
		likes:    map[string]bool{},
		comments: map[string][]*entity.Comment{},
	}
}

func (r *fakePostRepo) Create(_ context.Context, post *entity.Post) error {
	r.next++
	post.ID = fmt.Sprintf("post-%d", r.next)
	r.posts[post.ID] = post
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id string) (*entity.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, errors.NotFound("Post", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) ListRecent(_ context.Context, limit int) ([]*entity.Post, error) {
	out := make([]*entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) UpdateContent(_ context.Context, id, content string) error {
	r.posts[id].Content = content
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) Like(_ context.Context, uid, postID string) (*entity.Post, error) {
	key := entity.LikeActivityID(uid, postID)
	if r.likes[key] {
		return nil, errors.Conflict("You have already liked this post")
	}
	p, ok := r.posts[postID]
	if !ok {
		return nil, errors.NotFound("Post", nil)
	}
	r.likes[key] = true
	p.Likes++
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) AddComment(_ context.Context, c *entity.Comment) error {
	p, ok := r.posts[c.PostID]
	if !ok {
		return errors.NotFound("Post", nil)
	}
	c.ID = fmt.Sprintf("c%d", len(r.comments[c.PostID])+1)
	r.comments[c.PostID] = append(r.comments[c.PostID], c)
	p.CommentCount++
	return nil
}

func (r *fakePostRepo) ListComments(_ context.Context, postID string) ([]*entity.Comment, error) {
	return r.comments[postID], nil
}

func (r *fakePostRepo) WatchRecent(ctx context.Context, limit int, fn func([]*entity.Post)) error {
	posts, _ := r.ListRecent(ctx, limit)
	fn(posts)
	<-ctx.Done()
	return nil
}

type fakeCommunityRepo struct {
	categories []*entity.Category
	questions  []*entity.ExpertQuestion
	statsErr   error
}

func (r *fakeCommunityRepo) ListCategories(context.Context) ([]*entity.Category, error) {
	return r.categories, nil
}

func (r *fakeCommunityRepo) CreateQuestion(_ context.Context, q *entity.ExpertQuestion) error {
	q.ID = fmt.Sprintf("q%d", len(r.questions)+1)
	r.questions = append(r.questions, q)
	return nil
}

func (r *fakeCommunityRepo) ListPinnedAnnouncements(context.Context, int) ([]*entity.Announcement, error) {
	return []*entity.Announcement{{ID: "a1", Title: "Field day", IsPinned: true}}, nil
}

func (r *fakeCommunityRepo) ListActiveMarketUpdates(context.Context, time.Time, int) ([]*entity.MarketUpdate, error) {
	return []*entity.MarketUpdate{}, nil
}

func (r *fakeCommunityRepo) GetStats(context.Context) (*entity.CommunityStats, error) {
	if r.statsErr != nil {
		return nil, r.statsErr
	}
	return &entity.CommunityStats{Members: 12}, nil
}

type fakeTaskRepo struct {
	tasks map[string]*entity.Task
	next  int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[string]*entity.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, t *entity.Task) error {
	r.next++
	t.ID = fmt.Sprintf("task-%d", r.next)
	r.tasks[t.ID] = t
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*entity.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, errors.NotFound("Task", nil)
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t *entity.Task) error {
	r.tasks[t.ID] = t
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	delete(r.tasks, id)
	return nil
}

func (r *fakeTaskRepo) ListByCreator(_ context.Context, uid string) ([]*entity.Task, error) {
	var out []*entity.Task
	for _, t := range r.tasks {
		if t.CreatedBy == uid {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

type fakeYieldRepo struct {
	records map[string]*entity.FarmYield
	next    int
}

func newFakeYieldRepo() *fakeYieldRepo {
	return &fakeYieldRepo{records: map[string]*entity.FarmYield{}}
}

func (r *fakeYieldRepo) Create(_ context.Context, y *entity.FarmYield) error {
	r.next++
	y.ID = fmt.Sprintf("y%d", r.next)
	r.records[y.ID] = y
	return nil
}

func (r *fakeYieldRepo) GetByID(_ context.Context, id string) (*entity.FarmYield, error) {
	y, ok := r.records[id]
	if !ok {
		return nil, errors.NotFound("Yield record", nil)
	}
	cp := *y
	return &cp, nil
}

func (r *fakeYieldRepo) Update(_ context.Context, y *entity.FarmYield) error {
	r.records[y.ID] = y
	return nil
}

func (r *fakeYieldRepo) Delete(_ context.Context, id string) error {
	delete(r.records, id)
	return nil
}

func (r *fakeYieldRepo) ListByUser(_ context.Context, uid string) ([]*entity.FarmYield, error) {
	var out []*entity.FarmYield
	for _, y := range r.records {
		if y.UserID == uid {
			out = append(out, y)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
	next     int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[string]*entity.Product{}}
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.next++
	p.ID = fmt.Sprintf("p%d", r.next)
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(context.Context) ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeProductRepo) ListBySeller(_ context.Context, sellerID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeFiles struct {
	uploads []string
	deleted []string
}

func (f *fakeFiles) UploadFile(_ context.Context, r io.Reader, contentType, folder string) (string, error) {
	data, _ := io.ReadAll(r)
	url := fmt.Sprintf("https://storage.googleapis.com/bucket/%s/%d-%d", folder, len(f.uploads)+1, len(data))
	f.uploads = append(f.uploads, contentType)
	return url, nil
}

func (f *fakeFiles) DeleteFile(_ context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

func (f *fakeFiles) OwnsURL(url string) bool {
	return strings.HasPrefix(url, "https://storage.googleapis.com/bucket/")
}

func (f *fakeFiles) GenerateSignedUploadURL(_ context.Context, _, folder string) (*service.SignedUpload, error) {
	return &service.SignedUpload{UploadURL: "https://signed/" + folder, Method: "PUT", ExpiresIn: 900}, nil
}

func (f *fakeFiles) Close() error { return nil }

type fakeMarket struct {
	products []*entity.MarketProduct
	err      error
}

func (m *fakeMarket) Products(context.Context, string) ([]*entity.MarketProduct, error) {
	return m.products, m.err
}

type fakeFarmRepo struct {
	farms  map[string]*entity.Farm
	fields map[string]*entity.Field
	next   int
}

func newFakeFarmRepo() *fakeFarmRepo {
	return &fakeFarmRepo{farms: map[string]*entity.Farm{}, fields: map[string]*entity.Field{}}
}

func (r *fakeFarmRepo) CreateFarm(_ context.Context, f *entity.Farm) error {
	r.next++
	f.ID = fmt.Sprintf("farm-%d", r.next)
	r.farms[f.ID] = f
	return nil
}

func (r *fakeFarmRepo) GetFarm(_ context.Context, id string) (*entity.Farm, error) {
	f, ok := r.farms[id]
	if !ok {
		return nil, errors.NotFound("Farm", nil)
	}
	return f, nil
}

func (r *fakeFarmRepo) ListFarms(_ context.Context, ownerID string) ([]*entity.Farm, error) {
	var out []*entity.Farm
	for _, f := range r.farms {
		if f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFarmRepo) AddField(_ context.Context, field *entity.Field) error {
	farm, ok := r.farms[field.FarmID]
	if !ok {
		return errors.NotFound("Farm", nil)
	}
	r.next++
	field.ID = fmt.Sprintf("field-%d", r.next)
	r.fields[field.ID] = field
	farm.FieldIDs = append(farm.FieldIDs, field.ID)
	return nil
}

func (r *fakeFarmRepo) GetField(_ context.Context, id string) (*entity.Field, error) {
	f, ok := r.fields[id]
	if !ok {
		return nil, errors.NotFound("Field", nil)
	}
	return f, nil
}

func (r *fakeFarmRepo) ListFields(_ context.Context, farmID string) ([]*entity.Field, error) {
	var out []*entity.Field
	for _, f := range r.fields {
		if f.FarmID == farmID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFarmRepo) AppendNote(_ context.Context, fieldID string, note entity.FieldNote) error {
	r.fields[fieldID].Notes = append(r.fields[fieldID].Notes, note)
	return nil
}

func (r *fakeFarmRepo) SetGrowthStage(_ context.Context, fieldID, stage string, date time.Time) error {
	f := r.fields[fieldID]
	d := date
	switch stage {
	case entity.StageSeeding:
		f.GrowthStages.Seeding.Date = &d
	case entity.StageEmergence:
		f.GrowthStages.Emergence.Date = &d
	case entity.StageVegetative:
		f.GrowthStages.Vegetative.Date = &d
	}
	return nil
}

func (r *fakeFarmRepo) AppendMetric(_ context.Context, fieldID, metric string, reading entity.MetricReading) error {
	f := r.fields[fieldID]
	switch metric {
	case entity.MetricMoisture:
		f.Metrics.Moisture = append(f.Metrics.Moisture, reading)
	case entity.MetricTemperature:
		f.Metrics.Temperature = append(f.Metrics.Temperature, reading)
	case entity.MetricRainfall:
		f.Metrics.Rainfall = append(f.Metrics.Rainfall, reading)
	}
	return nil
}
