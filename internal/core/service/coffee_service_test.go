package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/brewbase/coffee-catalog/internal/core/domain"
	"github.com/brewbase/coffee-catalog/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

type stubCoffeeRepo struct {
	byID      map[string]*domain.Coffee
	rates     *stubRateRepo // consulted for ListByRating ordering
	seq       int
	insertErr error
	updateErr error
}

func newStubCoffeeRepo(rates *stubRateRepo) *stubCoffeeRepo {
	return &stubCoffeeRepo{byID: make(map[string]*domain.Coffee), rates: rates}
}

func (r *stubCoffeeRepo) Insert(_ context.Context, c *domain.Coffee) (*domain.Coffee, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("coffee_%d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCoffeeRepo) FindByID(_ context.Context, id string) (*domain.Coffee, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCoffeeNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCoffeeRepo) Update(_ context.Context, c *domain.Coffee) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCoffeeNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCoffeeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCoffeeNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCoffeeRepo) all() []ports.RatedCoffee {
	out := make([]ports.RatedCoffee, 0, len(r.byID))
	for _, c := range r.byID {
		agg, _ := r.rates.AggregateForCoffee(context.Background(), c.ID)
		out = append(out, ports.RatedCoffee{Coffee: *c, Rating: agg})
	}
	return out
}

func window(items []ports.RatedCoffee, offset, limit int) []ports.RatedCoffee {
	if offset > len(items) {
		return []ports.RatedCoffee{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (r *stubCoffeeRepo) List(_ context.Context, offset, limit int) ([]ports.RatedCoffee, int64, error) {
	items := r.all()
	sort.Slice(items, func(i, j int) bool { return items[i].Coffee.ID < items[j].Coffee.ID })
	return window(items, offset, limit), int64(len(items)), nil
}

// ListByRating mirrors the Mongo pipeline: aggregate rating descending,
// unrated last, ties broken by id ascending.
func (r *stubCoffeeRepo) ListByRating(_ context.Context, offset, limit int) ([]ports.RatedCoffee, int64, error) {
	items := r.all()
	sort.Slice(items, func(i, j int) bool {
		ki, kj := items[i].Rating.SortKey(), items[j].Rating.SortKey()
		if ki != kj {
			return ki > kj
		}
		return items[i].Coffee.ID < items[j].Coffee.ID
	})
	return window(items, offset, limit), int64(len(items)), nil
}

type stubRateRepo struct {
	byPair    map[string]*domain.Rate // coffeeID|authorID
	seq       int
	upsertErr error
	aggErr    error
}

func newStubRateRepo() *stubRateRepo {
	return &stubRateRepo{byPair: make(map[string]*domain.Rate)}
}

func (r *stubRateRepo) Upsert(_ context.Context, rate *domain.Rate) (*domain.Rate, error) {
	if r.upsertErr != nil {
		return nil, r.upsertErr
	}
	key := rate.CoffeeID + "|" + rate.AuthorID
	if existing, ok := r.byPair[key]; ok {
		existing.Value = rate.Value
		existing.UpdatedAt = rate.UpdatedAt
		clone := *existing
		return &clone, nil
	}
	r.seq++
	clone := *rate
	clone.ID = fmt.Sprintf("rate_%d", r.seq)
	r.byPair[key] = &clone
	out := clone
	return &out, nil
}

func (r *stubRateRepo) AggregateForCoffee(_ context.Context, coffeeID string) (domain.RatingAggregate, error) {
	if r.aggErr != nil {
		return domain.RatingAggregate{}, r.aggErr
	}
	var rates []domain.Rate
	for _, rt := range r.byPair {
		if rt.CoffeeID == coffeeID {
			rates = append(rates, *rt)
		}
	}
	return domain.AggregateRates(rates), nil
}

func (r *stubRateRepo) DeleteForCoffee(_ context.Context, coffeeID string) error {
	for key, rt := range r.byPair {
		if rt.CoffeeID == coffeeID {
			delete(r.byPair, key)
		}
	}
	return nil
}

func (r *stubRateRepo) countFor(coffeeID string) int {
	n := 0
	for _, rt := range r.byPair {
		if rt.CoffeeID == coffeeID {
			n++
		}
	}
	return n
}

type stubUserRepo struct {
	byUsername map[string]*domain.User
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byUsername: make(map[string]*domain.User)}
	for _, u := range users {
		r.byUsername[u.Username] = u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, exists := r.byUsername[u.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *u
	if clone.ID == "" {
		clone.ID = "u_" + u.Username
	}
	r.byUsername[clone.Username] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubPhotoStore struct {
	saved   map[string][]byte
	deleted []string
	seq     int
	saveErr error
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{saved: make(map[string][]byte)}
}

func (s *stubPhotoStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.seq++
	ref := fmt.Sprintf("photo_%d", s.seq)
	s.saved[ref] = data
	return ref, nil
}

func (s *stubPhotoStore) Load(_ context.Context, ref string) ([]byte, error) {
	data, ok := s.saved[ref]
	if !ok {
		return nil, domain.ErrPhotoNotFound
	}
	return data, nil
}

func (s *stubPhotoStore) Delete(_ context.Context, ref string) error {
	delete(s.saved, ref)
	s.deleted = append(s.deleted, ref)
	return nil
}

type stubRatingCache struct {
	entries     map[string]domain.RatingAggregate
	invalidated []string
	getErr      error
}

func newStubRatingCache() *stubRatingCache {
	return &stubRatingCache{entries: make(map[string]domain.RatingAggregate)}
}

func (c *stubRatingCache) Get(_ context.Context, coffeeID string) (*domain.RatingAggregate, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	agg, ok := c.entries[coffeeID]
	if !ok {
		return nil, nil
	}
	return &agg, nil
}

func (c *stubRatingCache) Set(_ context.Context, coffeeID string, agg domain.RatingAggregate) error {
	c.entries[coffeeID] = agg
	return nil
}

func (c *stubRatingCache) Invalidate(_ context.Context, coffeeID string) error {
	delete(c.entries, coffeeID)
	c.invalidated = append(c.invalidated, coffeeID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// pngBytes is a minimal payload http.DetectContentType identifies as image/png.
var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0, 0, 0, 0}

type fixture struct {
	coffees *stubCoffeeRepo
	rates   *stubRateRepo
	users   *stubUserRepo
	photos  *stubPhotoStore
	cache   *stubRatingCache
	svc     *CoffeeService
}

func newFixture(users ...*domain.User) *fixture {
	if len(users) == 0 {
		users = []*domain.User{
			{ID: "u_alice", Username: "alice", Role: domain.RoleUser},
			{ID: "u_bob", Username: "bob", Role: domain.RoleUser},
		}
	}
	rates := newStubRateRepo()
	f := &fixture{
		coffees: newStubCoffeeRepo(rates),
		rates:   rates,
		users:   newStubUserRepo(users...),
		photos:  newStubPhotoStore(),
		cache:   newStubRatingCache(),
	}
	f.svc = NewCoffeeService(f.coffees, f.rates, f.users, f.photos, f.cache, 1<<20, discardLogger)
	return f
}

func (f *fixture) mustCreate(t *testing.T, name, inventor string, photo *ports.PhotoInput) *domain.Coffee {
	t.Helper()
	c, err := f.svc.Create(context.Background(), ports.CreateCoffeeInput{
		Name:             name,
		Brand:            "Brewbase",
		Photo:            photo,
		InventorUsername: inventor,
	})
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	return c
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCoffeeService_Create_BindsInventor(t *testing.T) {
	f := newFixture()

	created := f.mustCreate(t, "Kona Dream", "alice", nil)

	got, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("round-trip get: %v", err)
	}
	if got.Coffee.Inventor.ID != "u_alice" {
		t.Errorf("inventor id = %q, want u_alice", got.Coffee.Inventor.ID)
	}
	if got.Coffee.PhotoRef != "" {
		t.Errorf("photo ref must be empty when no photo supplied, got %q", got.Coffee.PhotoRef)
	}
}

func TestCoffeeService_Create_WithPhoto(t *testing.T) {
	f := newFixture()

	created := f.mustCreate(t, "Kona Dream", "alice", &ports.PhotoInput{Filename: "kona.png", Data: pngBytes})

	if created.PhotoRef == "" {
		t.Fatal("photo ref must be set when a photo is supplied")
	}
	if _, ok := f.photos.saved[created.PhotoRef]; !ok {
		t.Fatalf("photo %q not stored", created.PhotoRef)
	}
}

func TestCoffeeService_Create_UnknownInventor(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), ports.CreateCoffeeInput{
		Name: "x", Brand: "y", InventorUsername: "ghost",
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCoffeeService_Create_RejectsPhotoType(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), ports.CreateCoffeeInput{
		Name: "x", Brand: "y", InventorUsername: "alice",
		Photo: &ports.PhotoInput{Filename: "notes.txt", Data: []byte("plain text, not an image")},
	})
	if !errors.Is(err, domain.ErrUnsupportedPhotoType) {
		t.Fatalf("expected ErrUnsupportedPhotoType, got %v", err)
	}
	if len(f.coffees.byID) != 0 {
		t.Error("no coffee may be persisted after photo rejection")
	}
	if len(f.photos.saved) != 0 {
		t.Error("no photo may be stored after rejection")
	}
}

func TestCoffeeService_Create_RejectsPhotoSize(t *testing.T) {
	f := newFixture()
	big := make([]byte, 2<<20)
	copy(big, pngBytes)

	_, err := f.svc.Create(context.Background(), ports.CreateCoffeeInput{
		Name: "x", Brand: "y", InventorUsername: "alice",
		Photo: &ports.PhotoInput{Filename: "huge.png", Data: big},
	})
	if !errors.Is(err, domain.ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}
}

func TestCoffeeService_Create_CompensatesPhotoOnInsertFailure(t *testing.T) {
	f := newFixture()
	f.coffees.insertErr = errors.New("db unavailable")

	_, err := f.svc.Create(context.Background(), ports.CreateCoffeeInput{
		Name: "x", Brand: "y", InventorUsername: "alice",
		Photo: &ports.PhotoInput{Filename: "a.png", Data: pngBytes},
	})
	if err == nil {
		t.Fatal("expected error when insert fails")
	}
	if len(f.photos.saved) != 0 {
		t.Error("uploaded photo must be deleted when the coffee insert fails")
	}
	if len(f.photos.deleted) != 1 {
		t.Errorf("expected 1 compensating delete, got %d", len(f.photos.deleted))
	}
}

func TestCoffeeService_Photo(t *testing.T) {
	f := newFixture()
	withPhoto := f.mustCreate(t, "Pictured", "alice", &ports.PhotoInput{Filename: "p.png", Data: pngBytes})
	bare := f.mustCreate(t, "Bare", "alice", nil)

	data, err := f.svc.Photo(context.Background(), withPhoto.ID)
	if err != nil {
		t.Fatalf("photo: %v", err)
	}
	if len(data) != len(pngBytes) {
		t.Errorf("expected %d bytes, got %d", len(pngBytes), len(data))
	}

	if _, err := f.svc.Photo(context.Background(), bare.ID); !errors.Is(err, domain.ErrPhotoNotFound) {
		t.Errorf("expected ErrPhotoNotFound, got %v", err)
	}
	if _, err := f.svc.Photo(context.Background(), "missing"); !errors.Is(err, domain.ErrCoffeeNotFound) {
		t.Errorf("expected ErrCoffeeNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Update / Remove
// ---------------------------------------------------------------------------

func TestCoffeeService_Update_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Update(context.Background(), ports.UpdateCoffeeInput{ID: "missing"})
	if !errors.Is(err, domain.ErrCoffeeNotFound) {
		t.Fatalf("expected ErrCoffeeNotFound, got %v", err)
	}
}

func TestCoffeeService_Update_PartialAndInventorImmutable(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Original", "alice", nil)

	name := "Renamed"
	updated, err := f.svc.Update(context.Background(), ports.UpdateCoffeeInput{ID: created.ID, Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name = %q, want Renamed", updated.Name)
	}
	if updated.Brand != "Brewbase" {
		t.Errorf("unset field must be untouched, brand = %q", updated.Brand)
	}
	if updated.Inventor.ID != "u_alice" {
		t.Errorf("inventor must never change, got %q", updated.Inventor.ID)
	}
}

func TestCoffeeService_Update_ReplacesPhoto(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Photogenic", "alice", &ports.PhotoInput{Filename: "old.png", Data: pngBytes})
	oldRef := created.PhotoRef

	updated, err := f.svc.Update(context.Background(), ports.UpdateCoffeeInput{
		ID:    created.ID,
		Photo: &ports.PhotoInput{Filename: "new.png", Data: pngBytes},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PhotoRef == oldRef {
		t.Fatal("photo ref must change on replacement")
	}
	found := false
	for _, d := range f.photos.deleted {
		if d == oldRef {
			found = true
		}
	}
	if !found {
		t.Errorf("old photo %q must be disposed after successful update", oldRef)
	}
}

func TestCoffeeService_Remove_NotFound(t *testing.T) {
	f := newFixture()
	if err := f.svc.Remove(context.Background(), "missing"); !errors.Is(err, domain.ErrCoffeeNotFound) {
		t.Fatalf("expected ErrCoffeeNotFound, got %v", err)
	}
}

func TestCoffeeService_Remove_Cascades(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Doomed", "alice", &ports.PhotoInput{Filename: "d.png", Data: pngBytes})

	if _, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: created.ID, Username: "bob", Value: 4}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	if err := f.svc.Remove(context.Background(), created.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrCoffeeNotFound) {
		t.Errorf("coffee must be gone, got %v", err)
	}
	if n := f.rates.countFor(created.ID); n != 0 {
		t.Errorf("rates must cascade, %d left", n)
	}
	if len(f.photos.saved) != 0 {
		t.Error("photo must be disposed with its coffee")
	}
}

// ---------------------------------------------------------------------------
// Rate
// ---------------------------------------------------------------------------

func TestCoffeeService_Rate_OutOfRange(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Scale", "alice", nil)

	_, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: created.ID, Username: "bob", Value: 6})
	if !errors.Is(err, domain.ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if n := f.rates.countFor(created.ID); n != 0 {
		t.Errorf("no rate may be persisted, found %d", n)
	}
}

func TestCoffeeService_Rate_UnknownCoffee(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: "missing", Username: "bob", Value: 3})
	if !errors.Is(err, domain.ErrCoffeeNotFound) {
		t.Fatalf("expected ErrCoffeeNotFound, got %v", err)
	}
}

func TestCoffeeService_Rate_UnknownUser(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "x", "alice", nil)
	_, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: created.ID, Username: "ghost", Value: 3})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCoffeeService_Rate_UpsertKeepsOneRowPerPair(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Repeat", "alice", nil)

	for _, v := range []int{2, 5, 3} {
		if _, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: created.ID, Username: "bob", Value: v}); err != nil {
			t.Fatalf("rate %d: %v", v, err)
		}
	}

	if n := f.rates.countFor(created.ID); n != 1 {
		t.Fatalf("expected exactly 1 rate for the pair, got %d", n)
	}
	agg, _ := f.rates.AggregateForCoffee(context.Background(), created.ID)
	if agg.Average != 3 {
		t.Errorf("last write wins: average = %f, want 3", agg.Average)
	}
}

func TestCoffeeService_Rate_InvalidatesCache(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Cached", "alice", nil)

	// Warm the cache with a read.
	if _, err := f.svc.Get(context.Background(), created.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: created.ID, Username: "bob", Value: 5}); err != nil {
		t.Fatalf("rate: %v", err)
	}

	// Read-after-write: the author sees their own rating immediately.
	got, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get after rate: %v", err)
	}
	if got.Rating.Count != 1 || got.Rating.Average != 5 {
		t.Errorf("expected aggregate {5,1}, got %+v", got.Rating)
	}
}

func TestCoffeeService_Get_ServesFromCache(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Warm", "alice", nil)

	f.cache.entries[created.ID] = domain.RatingAggregate{Average: 4.2, Count: 7}
	f.rates.aggErr = errors.New("must not be called on cache hit")

	got, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rating.Average != 4.2 || got.Rating.Count != 7 {
		t.Errorf("expected cached aggregate, got %+v", got.Rating)
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestCoffeeService_List_InvalidPagination(t *testing.T) {
	f := newFixture()

	for _, in := range []ports.ListCoffeesInput{{Offset: -1}, {Limit: -5}} {
		if _, err := f.svc.List(context.Background(), in); !errors.Is(err, domain.ErrInvalidPagination) {
			t.Errorf("input %+v: expected ErrInvalidPagination, got %v", in, err)
		}
		if _, err := f.svc.ListByRating(context.Background(), in); !errors.Is(err, domain.ErrInvalidPagination) {
			t.Errorf("by-rate input %+v: expected ErrInvalidPagination, got %v", in, err)
		}
	}
}

func TestCoffeeService_List_DefaultsAndCaps(t *testing.T) {
	f := newFixture()

	page, err := f.svc.List(context.Background(), ports.ListCoffeesInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != defaultLimit {
		t.Errorf("zero limit must default to %d, got %d", defaultLimit, page.Limit)
	}

	page, err = f.svc.List(context.Background(), ports.ListCoffeesInput{Limit: 5000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != maxLimit {
		t.Errorf("limit must be capped at %d, got %d", maxLimit, page.Limit)
	}
}

func TestCoffeeService_ListByRating_Ordering(t *testing.T) {
	f := newFixture()

	high := f.mustCreate(t, "High", "alice", nil)
	low := f.mustCreate(t, "Low", "alice", nil)
	unrated := f.mustCreate(t, "Unrated", "alice", nil)

	// High: 4.5 average; Low: 2.0; Unrated: none.
	rate := func(coffeeID, username string, v int) {
		t.Helper()
		if _, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: coffeeID, Username: username, Value: v}); err != nil {
			t.Fatalf("rate: %v", err)
		}
	}
	rate(high.ID, "alice", 4)
	rate(high.ID, "bob", 5)
	rate(low.ID, "bob", 2)

	page, err := f.svc.ListByRating(context.Background(), ports.ListCoffeesInput{})
	if err != nil {
		t.Fatalf("list by rating: %v", err)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}

	wantOrder := []string{high.ID, low.ID, unrated.ID}
	for i, want := range wantOrder {
		if page.Items[i].Coffee.ID != want {
			t.Errorf("position %d: got %s, want %s", i, page.Items[i].Coffee.ID, want)
		}
	}
	if page.Items[2].Rating.Count != 0 {
		t.Errorf("unrated coffee must carry the zero aggregate, got %+v", page.Items[2].Rating)
	}
}

func TestCoffeeService_ListByRating_TiesBrokenByID(t *testing.T) {
	f := newFixture()

	a := f.mustCreate(t, "A", "alice", nil)
	b := f.mustCreate(t, "B", "alice", nil)

	for _, id := range []string{a.ID, b.ID} {
		if _, err := f.svc.Rate(context.Background(), ports.RateCoffeeInput{CoffeeID: id, Username: "bob", Value: 3}); err != nil {
			t.Fatalf("rate: %v", err)
		}
	}

	// Same average: pagination must stay deterministic across calls.
	for i := 0; i < 3; i++ {
		page, err := f.svc.ListByRating(context.Background(), ports.ListCoffeesInput{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if page.Items[0].Coffee.ID != a.ID || page.Items[1].Coffee.ID != b.ID {
			t.Fatalf("tie-break by id not stable: got [%s %s]", page.Items[0].Coffee.ID, page.Items[1].Coffee.ID)
		}
	}
}

func TestCoffeeService_Get_Idempotent(t *testing.T) {
	f := newFixture()
	created := f.mustCreate(t, "Same", "alice", nil)

	first, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	second, err := f.svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads must return equal results: %+v vs %+v", first, second)
	}
}
