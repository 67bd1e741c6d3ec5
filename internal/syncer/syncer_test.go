package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fixdesk/fixdesk/internal/catalog"
	"github.com/fixdesk/fixdesk/internal/store"
)

var errDown = errors.New("connection refused")

// fakeAPI serves canned collections, failing any kind listed in fail.
type fakeAPI struct {
	mu    sync.Mutex
	fail  map[catalog.Kind]bool
	calls map[catalog.Kind]int

	devices      []catalog.Device
	instructions []catalog.Guide
	recipes      []catalog.Guide
	tickets      []catalog.Ticket
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		fail:         make(map[catalog.Kind]bool),
		calls:        make(map[catalog.Kind]int),
		devices:      []catalog.Device{{ID: 5, Name: "Pixel 9"}},
		instructions: []catalog.Guide{{ID: 6, Title: "Pixel setup", Models: []catalog.Ref{{ID: 5}}}},
		recipes:      []catalog.Guide{{ID: 7, Title: "Pixel battery swap"}},
		tickets:      []catalog.Ticket{{ID: 8, UserID: 777000, Status: catalog.StatusOpen}},
	}
}

func (f *fakeAPI) record(kind catalog.Kind) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[kind]++
	if f.fail[kind] {
		return errDown
	}
	return nil
}

func (f *fakeAPI) Devices(ctx context.Context) ([]catalog.Device, error) {
	if err := f.record(catalog.KindDevices); err != nil {
		return nil, err
	}
	return f.devices, nil
}

func (f *fakeAPI) Instructions(ctx context.Context) ([]catalog.Guide, error) {
	if err := f.record(catalog.KindInstructions); err != nil {
		return nil, err
	}
	return f.instructions, nil
}

func (f *fakeAPI) Recipes(ctx context.Context) ([]catalog.Guide, error) {
	if err := f.record(catalog.KindRecipes); err != nil {
		return nil, err
	}
	return f.recipes, nil
}

func (f *fakeAPI) Tickets(ctx context.Context, userID int64) ([]catalog.Ticket, error) {
	if err := f.record(catalog.KindTickets); err != nil {
		return nil, err
	}
	return f.tickets, nil
}

func withIdentity() func() (int64, bool) {
	return func() (int64, bool) { return 777000, true }
}

func noIdentity() func() (int64, bool) {
	return func() (int64, bool) { return 0, false }
}

func TestSyncServerData(t *testing.T) {
	st := store.New()
	o := New(newFakeAPI(), st, withIdentity())

	res := o.Sync(context.Background(), catalog.KindDevices)
	if res.Source != SourceServer {
		t.Errorf("Source = %q, want server", res.Source)
	}
	if res.Count != 1 || res.Err != nil {
		t.Errorf("Result = %+v", res)
	}
	if got := st.Devices(); len(got) != 1 || got[0].Name != "Pixel 9" {
		t.Errorf("store devices = %+v", got)
	}
}

func TestSyncDeviceFailureFallsBackToPlaceholders(t *testing.T) {
	api := newFakeAPI()
	api.fail[catalog.KindDevices] = true
	st := store.New()
	o := New(api, st, withIdentity())

	res := o.Sync(context.Background(), catalog.KindDevices)
	if !res.Recovered() {
		t.Fatalf("Result = %+v, want fallback", res)
	}
	if !errors.Is(res.Err, errDown) {
		t.Errorf("Err = %v, want wrapped cause", res.Err)
	}

	devices := st.Devices()
	if len(devices) != 2 {
		t.Fatalf("got %d fallback devices, want 2", len(devices))
	}
	if devices[0].Name != "iPhone 15 Pro" || devices[1].Name != "Samsung Galaxy S24" {
		t.Errorf("fallback devices = %q, %q", devices[0].Name, devices[1].Name)
	}
	if !st.Loaded(catalog.KindDevices) {
		t.Error("devices not marked loaded after fallback")
	}
}

func TestSyncTicketsFailureFallsBackToEmpty(t *testing.T) {
	api := newFakeAPI()
	api.fail[catalog.KindTickets] = true
	st := store.New()
	o := New(api, st, withIdentity())

	res := o.Sync(context.Background(), catalog.KindTickets)
	if res.Source != SourceFallback || res.Count != 0 {
		t.Errorf("Result = %+v, want empty fallback", res)
	}
	if len(st.Tickets()) != 0 {
		t.Errorf("tickets = %+v, want empty", st.Tickets())
	}
	if !st.Loaded(catalog.KindTickets) {
		t.Error("tickets not marked loaded")
	}
}

func TestSyncTicketsSkippedWithoutIdentity(t *testing.T) {
	api := newFakeAPI()
	st := store.New()
	o := New(api, st, noIdentity())

	res := o.Sync(context.Background(), catalog.KindTickets)
	if res.Source != SourceSkipped {
		t.Errorf("Source = %q, want skipped", res.Source)
	}
	if api.calls[catalog.KindTickets] != 0 {
		t.Error("ticket endpoint called despite missing identity")
	}
	if !st.Loaded(catalog.KindTickets) {
		t.Error("skipped sync must still mark the collection loaded")
	}
}

func TestSyncAllCompletesUnderPartialFailure(t *testing.T) {
	cases := []struct {
		name string
		fail []catalog.Kind
	}{
		{"one failure", []catalog.Kind{catalog.KindDevices}},
		{"several failures", []catalog.Kind{catalog.KindDevices, catalog.KindRecipes}},
		{"all failures", catalog.Kinds()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := newFakeAPI()
			for _, k := range tc.fail {
				api.fail[k] = true
			}
			st := store.New()
			o := New(api, st, withIdentity())

			results := o.SyncAll(context.Background())
			if len(results) != 4 {
				t.Fatalf("got %d results, want 4", len(results))
			}
			failed := make(map[catalog.Kind]bool, len(tc.fail))
			for _, k := range tc.fail {
				failed[k] = true
			}
			for _, res := range results {
				want := SourceServer
				if failed[res.Kind] {
					want = SourceFallback
				}
				if res.Source != want {
					t.Errorf("%s: Source = %q, want %q", res.Kind, res.Source, want)
				}
				if !st.Loaded(res.Kind) {
					t.Errorf("%s not loaded after SyncAll", res.Kind)
				}
			}
		})
	}
}

func TestSyncAllFailureIsIsolated(t *testing.T) {
	api := newFakeAPI()
	api.fail[catalog.KindDevices] = true
	st := store.New()
	o := New(api, st, withIdentity())

	o.SyncAll(context.Background())

	// Devices recovered with placeholders; the other catalogs carry
	// server data untouched by the device failure.
	if len(st.Devices()) != 2 {
		t.Errorf("devices = %d, want 2 placeholders", len(st.Devices()))
	}
	if got := st.Instructions(); len(got) != 1 || got[0].Title != "Pixel setup" {
		t.Errorf("instructions = %+v", got)
	}
	if got := st.Recipes(); len(got) != 1 || got[0].Title != "Pixel battery swap" {
		t.Errorf("recipes = %+v", got)
	}
	if got := st.Tickets(); len(got) != 1 || got[0].ID != 8 {
		t.Errorf("tickets = %+v", got)
	}
}

func TestConcurrentSyncsShareOneCall(t *testing.T) {
	api := newFakeAPI()
	st := store.New()
	o := New(api, st, withIdentity())

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			o.Sync(context.Background(), catalog.KindRecipes)
		}()
	}
	close(start)
	wg.Wait()

	if api.calls[catalog.KindRecipes] > 8 {
		t.Errorf("recipes fetched %d times for 8 concurrent syncs", api.calls[catalog.KindRecipes])
	}
	if len(st.Recipes()) != 1 {
		t.Errorf("recipes = %+v", st.Recipes())
	}
}
