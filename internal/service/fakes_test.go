package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/events"
	"github.com/snackparty/catering-api/internal/mailer"
	"github.com/snackparty/catering-api/internal/repository"
	"github.com/snackparty/catering-api/internal/storage"
)

// memState is an in-memory database. Transactions run against a clone that
// replaces the committed state only when the callback succeeds.
type memState struct {
	mu               sync.Mutex
	nextID           int64
	quotations       map[int64]domain.Quotation
	lines            map[int64][]domain.QuotationLine
	personalizations map[int64]domain.SnackPersonalization
	catalog          map[int64]domain.CatalogItem
	users            map[int64]domain.User
	products         map[int64]domain.InventoryProduct
	gallery          map[int64]domain.GalleryEvent
}

func newMemState() *memState {
	return &memState{
		nextID:           100,
		quotations:       map[int64]domain.Quotation{},
		lines:            map[int64][]domain.QuotationLine{},
		personalizations: map[int64]domain.SnackPersonalization{},
		catalog:          map[int64]domain.CatalogItem{},
		users:            map[int64]domain.User{},
		products:         map[int64]domain.InventoryProduct{},
		gallery:          map[int64]domain.GalleryEvent{},
	}
}

func (m *memState) clone() *memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := newMemState()
	c.nextID = m.nextID
	for k, v := range m.quotations {
		c.quotations[k] = v
	}
	for k, v := range m.lines {
		c.lines[k] = append([]domain.QuotationLine(nil), v...)
	}
	for k, v := range m.personalizations {
		c.personalizations[k] = v
	}
	for k, v := range m.catalog {
		v.Products = append([]domain.CatalogProduct(nil), v.Products...)
		c.catalog[k] = v
	}
	for k, v := range m.users {
		c.users[k] = v
	}
	for k, v := range m.products {
		c.products[k] = v
	}
	for k, v := range m.gallery {
		c.gallery[k] = v
	}
	return c
}

func (m *memState) replace(from *memState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = from.nextID
	m.quotations = from.quotations
	m.lines = from.lines
	m.personalizations = from.personalizations
	m.catalog = from.catalog
	m.users = from.users
	m.products = from.products
	m.gallery = from.gallery
}

func (m *memState) addUser(name, email string, role domain.Role) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u := domain.User{ID: m.nextID, FullName: name, Email: email, Role: role, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u
}

func (m *memState) addCatalogItem(name string, status domain.CatalogStatus) domain.CatalogItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	it := domain.CatalogItem{ID: m.nextID, Name: name, Type: domain.CatalogTypeBar, Status: status}
	m.catalog[it.ID] = it
	return it
}

func (m *memState) quotationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.quotations)
}

func (m *memState) lineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.lines {
		n += len(l)
	}
	return n
}

type memTxRunner struct {
	state *memState
}

func (r *memTxRunner) WithinTx(_ context.Context, fn func(repos repository.TxRepositories) error) error {
	tx := r.state.clone()
	err := fn(repository.TxRepositories{
		Quotations: &memQuotationRepo{state: tx},
		Catalog:    &memCatalogRepo{state: tx},
	})
	if err != nil {
		return err
	}
	r.state.replace(tx)
	return nil
}

type memQuotationRepo struct {
	state *memState
}

var _ repository.QuotationRepository = (*memQuotationRepo)(nil)

func (r *memQuotationRepo) Create(_ context.Context, q *domain.Quotation) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	q.ID = s.nextID
	q.CreatedAt = time.Now().Add(time.Duration(q.ID) * time.Millisecond)
	if q.Status == "" {
		q.Status = domain.QuotationStatusPending
	}
	s.quotations[q.ID] = *q
	return nil
}

func (r *memQuotationRepo) AddItem(_ context.Context, quotationID int64, line domain.QuotationLine) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[quotationID] = append(s.lines[quotationID], line)
	return nil
}

func (r *memQuotationRepo) hydrate(q domain.Quotation) domain.Quotation {
	if u, ok := r.state.users[q.UserID]; ok {
		q.Owner = &domain.QuotationOwner{FullName: u.FullName, Email: u.Email, Phone: u.Phone}
	}
	q.Items = nil
	for _, l := range r.state.lines[q.ID] {
		it := r.state.catalog[l.CatalogItemID]
		q.Items = append(q.Items, domain.QuotationItem{
			QuotationID:   q.ID,
			CatalogItemID: l.CatalogItemID,
			Name:          it.Name,
			Type:          it.Type,
			Quantity:      l.Quantity,
		})
	}
	q.Personalization = nil
	if p, ok := r.state.personalizations[q.ID]; ok {
		q.Personalization = &p
	}
	return q
}

func (r *memQuotationRepo) GetByID(_ context.Context, id int64, ownerID *int64) (*domain.Quotation, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotations[id]
	if !ok || (ownerID != nil && q.UserID != *ownerID) {
		return nil, pgx.ErrNoRows
	}
	out := r.hydrate(q)
	return &out, nil
}

func (r *memQuotationRepo) List(_ context.Context, filter repository.QuotationFilter) ([]domain.Quotation, int64, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []domain.Quotation
	for _, q := range s.quotations {
		if filter.OwnerID != nil && q.UserID != *filter.OwnerID {
			continue
		}
		if filter.Status != nil && q.Status != *filter.Status {
			continue
		}
		all = append(all, r.hydrate(q))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	start := filter.Offset
	if start > len(all) {
		start = len(all)
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memQuotationRepo) UpdateStatus(_ context.Context, id int64, status domain.QuotationStatus) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	q.Status = status
	s.quotations[id] = q
	return nil
}

func (r *memQuotationRepo) Delete(_ context.Context, id int64) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quotations[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.quotations, id)
	delete(s.lines, id)
	delete(s.personalizations, id)
	return nil
}

func (r *memQuotationRepo) UpsertPersonalization(_ context.Context, p domain.SnackPersonalization) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	p.UpdatedAt = time.Now()
	s.personalizations[p.QuotationID] = p
	return nil
}

func (r *memQuotationRepo) GetPersonalization(_ context.Context, quotationID int64) (*domain.SnackPersonalization, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.personalizations[quotationID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *memQuotationRepo) CountAll(context.Context) (int64, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.quotations)), nil
}

func (r *memQuotationRepo) CountByStatus(context.Context) ([]domain.StatusCount, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[domain.QuotationStatus]int64{}
	for _, q := range s.quotations {
		counts[q.Status]++
	}
	var out []domain.StatusCount
	for _, st := range domain.QuotationStatuses {
		if n := counts[st]; n > 0 {
			out = append(out, domain.StatusCount{Status: st, Count: n})
		}
	}
	return out, nil
}

func (r *memQuotationRepo) TopEventTypes(_ context.Context, limit int) ([]domain.EventTypeCount, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int64{}
	for _, q := range s.quotations {
		counts[q.EventType]++
	}
	var out []domain.EventTypeCount
	for k, v := range counts {
		out = append(out, domain.EventTypeCount{EventType: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].EventType < out[j].EventType
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memQuotationRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, q := range s.quotations {
		if !q.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type memCatalogRepo struct {
	state *memState
}

var _ repository.CatalogRepository = (*memCatalogRepo)(nil)

func (r *memCatalogRepo) List(_ context.Context, filter repository.CatalogFilter) ([]domain.CatalogItem, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CatalogItem, 0, len(s.catalog))
	for _, it := range s.catalog {
		if filter.Type != nil && it.Type != *filter.Type {
			continue
		}
		if filter.Popular != nil && it.IsPopular != *filter.Popular {
			continue
		}
		if filter.Status != nil && it.Status != *filter.Status {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsPopular != out[j].IsPopular {
			return out[i].IsPopular
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *memCatalogRepo) GetByID(_ context.Context, id int64) (*domain.CatalogItem, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.catalog[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &it, nil
}

func (r *memCatalogRepo) GetActiveItem(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	it, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it.Status != domain.CatalogStatusActive {
		return nil, pgx.ErrNoRows
	}
	return it, nil
}

func (r *memCatalogRepo) Create(_ context.Context, item *domain.CatalogItem) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	if item.Status == "" {
		item.Status = domain.CatalogStatusActive
	}
	s.catalog[item.ID] = *item
	return nil
}

func (r *memCatalogRepo) Update(_ context.Context, id int64, patch repository.CatalogPatch) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.catalog[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.Name != nil {
		it.Name = *patch.Name
	}
	if patch.Status != nil {
		it.Status = *patch.Status
	}
	if patch.IsPopular != nil {
		it.IsPopular = *patch.IsPopular
	}
	if patch.Type != nil {
		it.Type = *patch.Type
	}
	if patch.Description != nil {
		it.Description = patch.Description
	}
	if patch.Details != nil {
		it.Details = patch.Details
	}
	s.catalog[id] = it
	return nil
}

func (r *memCatalogRepo) Delete(_ context.Context, id int64) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalog[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.catalog, id)
	return nil
}

func (r *memCatalogRepo) AddProduct(_ context.Context, itemID, productID int64, quantity decimal.Decimal) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.catalog[itemID]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, p := range it.Products {
		if p.ProductID == productID {
			return repository.ErrDuplicate
		}
	}
	it.Products = append(it.Products, domain.CatalogProduct{CatalogItemID: itemID, ProductID: productID, Quantity: quantity})
	s.catalog[itemID] = it
	return nil
}

func (r *memCatalogRepo) RemoveProduct(_ context.Context, itemID, productID int64) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.catalog[itemID]
	if !ok {
		return pgx.ErrNoRows
	}
	for i, p := range it.Products {
		if p.ProductID == productID {
			it.Products = append(it.Products[:i], it.Products[i+1:]...)
			s.catalog[itemID] = it
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memCatalogRepo) SetImage(_ context.Context, id int64, imageURL string) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.catalog[id]
	if !ok {
		return pgx.ErrNoRows
	}
	it.ImageURL = &imageURL
	s.catalog[id] = it
	return nil
}

type memUserRepo struct {
	state *memState
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &u, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUserRepo) UpdateProfile(_ context.Context, id int64, patch repository.ProfilePatch) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.FullName != nil {
		u.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		u.Phone = patch.Phone
	}
	s.users[id] = u
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (r *memUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, int64, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, u := range s.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

// recordingDispatcher captures events synchronously.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) Wait() {}

func (d *recordingDispatcher) ofType(t events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []events.Event
	for _, e := range d.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// fakeSender records messages and returns a fixed result.
type fakeSender struct {
	mu     sync.Mutex
	sent   []mailer.Message
	result mailer.Result
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) mailer.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.result
}

func (f *fakeSender) Verify(context.Context) mailer.VerifyResult {
	return mailer.VerifyResult{OK: f.result.Success}
}

func (f *fakeSender) DebugInfo() mailer.DebugInfo {
	return mailer.DebugInfo{Provider: "fake"}
}

func (f *fakeSender) messages() []mailer.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mailer.Message(nil), f.sent...)
}

func (m *memState) addProduct(name string, current, minStock int64) domain.InventoryProduct {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p := domain.InventoryProduct{
		ID:           m.nextID,
		Name:         name,
		Category:     domain.CategoryFoods,
		CurrentStock: decimal.NewFromInt(current),
		MinStock:     decimal.NewFromInt(minStock),
		Unit:         domain.DefaultUnit,
	}
	m.products[p.ID] = p
	return p
}

type memInventoryRepo struct {
	state *memState
}

var _ repository.InventoryRepository = (*memInventoryRepo)(nil)

func (r *memInventoryRepo) List(_ context.Context, filter repository.InventoryFilter) ([]domain.InventoryProduct, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.InventoryProduct, 0, len(s.products))
	for _, p := range s.products {
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memInventoryRepo) ListLowStock(context.Context) ([]domain.InventoryProduct, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.InventoryProduct
	for _, p := range s.products {
		if p.IsLowStock() {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentStock.LessThan(out[j].CurrentStock) })
	return out, nil
}

func (r *memInventoryRepo) GetByID(_ context.Context, id int64) (*domain.InventoryProduct, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (r *memInventoryRepo) Create(_ context.Context, p *domain.InventoryProduct) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	p.ID = s.nextID
	p.UpdatedAt = time.Now()
	s.products[p.ID] = *p
	return nil
}

func (r *memInventoryRepo) Update(_ context.Context, p *domain.InventoryProduct) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[p.ID]; !ok {
		return pgx.ErrNoRows
	}
	s.products[p.ID] = *p
	return nil
}

func (r *memInventoryRepo) UpdateStock(_ context.Context, id int64, stock decimal.Decimal) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return pgx.ErrNoRows
	}
	p.CurrentStock = stock
	s.products[id] = p
	return nil
}

func (r *memInventoryRepo) Delete(_ context.Context, id int64) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.products, id)
	return nil
}

func (r *memInventoryRepo) CountAll(context.Context) (int64, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.products)), nil
}

func (r *memInventoryRepo) CountLowStock(ctx context.Context) (int64, error) {
	low, err := r.ListLowStock(ctx)
	return int64(len(low)), err
}

func (r *memInventoryRepo) SumStock(context.Context) (decimal.Decimal, error) {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := decimal.Zero
	for _, p := range s.products {
		sum = sum.Add(p.CurrentStock)
	}
	return sum, nil
}

type memGalleryRepo struct {
	state *memState
}

var _ repository.GalleryRepository = (*memGalleryRepo)(nil)

func (r *memGalleryRepo) sorted(filter repository.GalleryFilter) []domain.GalleryEvent {
	var out []domain.GalleryEvent
	for _, e := range r.state.gallery {
		if filter.EventType != nil && e.EventType != *filter.EventType {
			continue
		}
		if filter.Search != nil && !galleryMatches(e, *filter.Search) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return eventDate(out[i]).After(eventDate(out[j])) })
	return out
}

func galleryMatches(e domain.GalleryEvent, q string) bool {
	q = strings.ToLower(q)
	fields := []string{e.Title}
	if e.Description != nil {
		fields = append(fields, *e.Description)
	}
	if e.ClientName != nil {
		fields = append(fields, *e.ClientName)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func eventDate(e domain.GalleryEvent) time.Time {
	if e.EventDate == nil {
		return time.Time{}
	}
	return *e.EventDate
}

func (r *memGalleryRepo) List(_ context.Context, filter repository.GalleryFilter) ([]domain.GalleryEvent, int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	all := r.sorted(filter)
	total := int64(len(all))
	if filter.Offset >= len(all) {
		return []domain.GalleryEvent{}, total, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}

func (r *memGalleryRepo) Featured(_ context.Context, limit int) ([]domain.GalleryEvent, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	all := r.sorted(repository.GalleryFilter{})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r *memGalleryRepo) EventTypes(context.Context) ([]domain.EventTypeCount, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	counts := map[string]int64{}
	for _, e := range r.state.gallery {
		counts[e.EventType]++
	}
	out := make([]domain.EventTypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, domain.EventTypeCount{EventType: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].EventType < out[j].EventType
	})
	return out, nil
}

func (r *memGalleryRepo) GetByID(_ context.Context, id int64) (*domain.GalleryEvent, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	e, ok := r.state.gallery[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &e, nil
}

func (r *memGalleryRepo) Create(_ context.Context, e *domain.GalleryEvent) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	e.ID = s.nextID
	e.CreatedAt = time.Now()
	s.gallery[e.ID] = *e
	return nil
}

func (r *memGalleryRepo) Update(_ context.Context, id int64, patch repository.GalleryPatch) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.gallery[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if patch.Title != nil {
		e.Title = *patch.Title
	}
	if patch.EventType != nil {
		e.EventType = *patch.EventType
	}
	if patch.EventDate != nil {
		e.EventDate = patch.EventDate
	}
	if patch.Description != nil {
		e.Description = patch.Description
	}
	if patch.ClientName != nil {
		e.ClientName = patch.ClientName
	}
	if patch.ImageURL != nil {
		e.ImageURL = patch.ImageURL
	}
	s.gallery[id] = e
	return nil
}

func (r *memGalleryRepo) Delete(_ context.Context, id int64) error {
	s := r.state
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.gallery[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(s.gallery, id)
	return nil
}

func (r *memGalleryRepo) CountAll(context.Context) (int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return int64(len(r.state.gallery)), nil
}

func (r *memGalleryRepo) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	var n int64
	for _, e := range r.state.gallery {
		if !eventDate(e).Before(since) {
			n++
		}
	}
	return n, nil
}

// fakeImageStore keeps uploaded keys in memory.
type fakeImageStore struct {
	mu      sync.Mutex
	objects map[string]bool
	maxSize int64
}

func newFakeImageStore(maxSize int64) *fakeImageStore {
	return &fakeImageStore{objects: map[string]bool{}, maxSize: maxSize}
}

func (f *fakeImageStore) Upload(_ context.Context, in storage.UploadInput) (*storage.StoredImage, error) {
	if err := storage.ValidateImage(in.ContentType, in.Size, f.maxSize); err != nil {
		return nil, err
	}
	key := storage.ObjectKey(in.FileName)
	f.mu.Lock()
	f.objects[key] = true
	f.mu.Unlock()
	return &storage.StoredImage{URL: "http://img.test/" + key, PublicID: key}, nil
}

func (f *fakeImageStore) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.objects[publicID] {
		return storage.ErrObjectNotFound
	}
	delete(f.objects, publicID)
	return nil
}

func (f *fakeImageStore) MaxFileSize() int64 {
	return f.maxSize
}
