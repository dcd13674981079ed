package ride

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"sawari/internal/types"
)

type mockStorage struct {
	rides       map[types.ID]*Ride
	createCalls int
	updateCalls int
}

func newMockStorage() *mockStorage {
	return &mockStorage{rides: make(map[types.ID]*Ride)}
}

func (m *mockStorage) Create(_ context.Context, r *Ride) error {
	m.createCalls++
	cp := *r
	m.rides[r.ID] = &cp
	return nil
}

func (m *mockStorage) Update(_ context.Context, r *Ride) error {
	m.updateCalls++
	if _, ok := m.rides[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	cp := *r
	m.rides[r.ID] = &cp
	return nil
}

func (m *mockStorage) Get(_ context.Context, id types.ID) (*Ride, error) {
	r, ok := m.rides[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *r
	return &cp, nil
}

func (m *mockStorage) ListByDriver(_ context.Context, driverID types.ID) ([]*Ride, error) {
	var out []*Ride
	for _, r := range m.rides {
		if r.DriverID == driverID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStorage) RouteSuggestions(_ context.Context, _, _ string) ([]RouteSuggestion, error) {
	return nil, nil
}

type mockIndex struct {
	indexed []types.ID
	removed []types.ID
}

func (m *mockIndex) IndexRide(_ context.Context, r *Ride) error {
	m.indexed = append(m.indexed, r.ID)
	return nil
}

func (m *mockIndex) RemoveRide(_ context.Context, id types.ID) error {
	m.removed = append(m.removed, id)
	return nil
}

type mockInvalidator struct{ calls int }

func (m *mockInvalidator) InvalidateSearches(_ context.Context) { m.calls++ }

type identityCorrector struct{}

func (identityCorrector) CorrectIfImplausible(p types.Point, _ string) types.Point { return p }

func validPublishCommand() PublishCommand {
	return PublishCommand{
		DriverID:       "driver-1",
		Origin:         Location{Name: "Hyderabad", Point: types.Point{Lat: 17.38, Lng: 78.48}},
		Destination:    Location{Name: "Bangalore", Point: types.Point{Lat: 12.97, Lng: 77.59}},
		DateTime:       time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC),
		AvailableSeats: 3,
		PricePerSeat:   450,
		VehicleID:      "vehicle-1",
	}
}

func TestPublish(t *testing.T) {
	store := newMockStorage()
	index := &mockIndex{}
	cache := &mockInvalidator{}
	svc := &Service{store: store, corrector: identityCorrector{}, index: index, cache: cache}

	r, err := svc.Publish(context.Background(), validPublishCommand())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if r.ID == "" {
		t.Error("published ride has no ID")
	}
	if len(r.SearchKeywords) != 2 || r.SearchKeywords[0] != "hyderabad" {
		t.Errorf("SearchKeywords = %v, want [hyderabad bangalore]", r.SearchKeywords)
	}
	if store.createCalls != 1 {
		t.Errorf("store.Create called %d times, want 1", store.createCalls)
	}
	if len(index.indexed) != 1 || index.indexed[0] != r.ID {
		t.Errorf("index received %v, want [%s]", index.indexed, r.ID)
	}
	if cache.calls != 1 {
		t.Errorf("cache invalidated %d times, want 1", cache.calls)
	}
}

func TestPublishValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PublishCommand)
		wantErr error
	}{
		{"missing driver", func(c *PublishCommand) { c.DriverID = "" }, ErrBadRequest},
		{"missing origin name", func(c *PublishCommand) { c.Origin.Name = "" }, ErrBadRequest},
		{"missing destination name", func(c *PublishCommand) { c.Destination.Name = "" }, ErrBadRequest},
		{"missing vehicle", func(c *PublishCommand) { c.VehicleID = "" }, ErrVehicleRequired},
		{"negative seats", func(c *PublishCommand) { c.AvailableSeats = -1 }, ErrBadRequest},
		{"negative price", func(c *PublishCommand) { c.PricePerSeat = -5 }, ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStorage()
			svc := &Service{store: store}
			cmd := validPublishCommand()
			tt.mutate(&cmd)
			if _, err := svc.Publish(context.Background(), cmd); err != tt.wantErr {
				t.Errorf("Publish err = %v, want %v", err, tt.wantErr)
			}
			if store.createCalls != 0 {
				t.Error("store.Create called for an invalid command")
			}
		})
	}
}

func TestPublishCorrectsImplausibleCoordinates(t *testing.T) {
	store := newMockStorage()
	svc := &Service{store: store, corrector: fixedCorrector{to: types.Point{Lat: 17.38, Lng: 78.48}}}

	cmd := validPublishCommand()
	cmd.Origin.Point = types.Point{}
	r, err := svc.Publish(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if r.Origin.Point != (types.Point{Lat: 17.38, Lng: 78.48}) {
		t.Errorf("origin point = %+v, not corrected", r.Origin.Point)
	}
}

type fixedCorrector struct{ to types.Point }

func (f fixedCorrector) CorrectIfImplausible(types.Point, string) types.Point { return f.to }

func TestUpdate(t *testing.T) {
	store := newMockStorage()
	cache := &mockInvalidator{}
	svc := &Service{store: store, corrector: identityCorrector{}, index: &mockIndex{}, cache: cache}

	r, err := svc.Publish(context.Background(), validPublishCommand())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	newPrice := 500.0
	updated, err := svc.Update(context.Background(), "driver-1", r.ID, UpdateCommand{
		Origin:       &Location{Name: "Secunderabad", Point: types.Point{Lat: 17.44, Lng: 78.50}},
		PricePerSeat: &newPrice,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.PricePerSeat != 500 {
		t.Errorf("PricePerSeat = %v, want 500", updated.PricePerSeat)
	}
	if updated.SearchKeywords[0] != "secunderabad" {
		t.Errorf("keywords not recomputed after update: %v", updated.SearchKeywords)
	}
	if updated.Destination.Name != "Bangalore" {
		t.Errorf("unrelated field changed: %v", updated.Destination.Name)
	}
	if cache.calls != 2 {
		t.Errorf("cache invalidated %d times, want 2", cache.calls)
	}
}

func TestGet(t *testing.T) {
	store := newMockStorage()
	svc := &Service{store: store, corrector: identityCorrector{}}

	published, err := svc.Publish(context.Background(), validPublishCommand())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	got, err := svc.Get(context.Background(), published.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != published.ID || got.Origin.Name != "Hyderabad" {
		t.Errorf("Get returned %+v", got)
	}

	if _, err := svc.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("Get(unknown) err = %v, want ErrNotFound", err)
	}
}

func TestUpdateErrors(t *testing.T) {
	store := newMockStorage()
	svc := &Service{store: store, corrector: identityCorrector{}}

	r, err := svc.Publish(context.Background(), validPublishCommand())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	t.Run("unknown ride", func(t *testing.T) {
		if _, err := svc.Update(context.Background(), "driver-1", "nope", UpdateCommand{}); err != ErrNotFound {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("not the owner", func(t *testing.T) {
		if _, err := svc.Update(context.Background(), "driver-2", r.ID, UpdateCommand{}); err != ErrNotOwner {
			t.Errorf("err = %v, want ErrNotOwner", err)
		}
	})

	t.Run("negative seats", func(t *testing.T) {
		bad := -1
		if _, err := svc.Update(context.Background(), "driver-1", r.ID, UpdateCommand{AvailableSeats: &bad}); err != ErrBadRequest {
			t.Errorf("err = %v, want ErrBadRequest", err)
		}
	})

	t.Run("empty vehicle", func(t *testing.T) {
		empty := types.ID("")
		if _, err := svc.Update(context.Background(), "driver-1", r.ID, UpdateCommand{VehicleID: &empty}); err != ErrVehicleRequired {
			t.Errorf("err = %v, want ErrVehicleRequired", err)
		}
	})
}
