package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"vitrine/internal/api"
	"vitrine/internal/catalog"
)

func TestMain(m *testing.M) {
	// Keep-alive connections from the shared default transport outlive the
	// tests; everything else must be gone.
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

// cartBackend is a stateful fake of the cart endpoints. Totals are computed
// server-side with a deliberate surcharge so any client-side arithmetic on
// item prices would be caught immediately.
type cartBackend struct {
	mu       sync.Mutex
	nextID   int
	items    []Item
	prices   map[int]float64
	surcharg float64

	gets    int
	posts   int
	patches int
	deletes int
	failGet bool
}

func newCartBackend(prices map[int]float64, surcharge float64) *cartBackend {
	return &cartBackend{nextID: 1, prices: prices, surcharg: surcharge}
}

func (b *cartBackend) total() float64 {
	var t float64
	for _, it := range b.items {
		t += b.prices[it.ProductID] * float64(it.Quantity)
	}
	if t > 0 {
		t += b.surcharg
	}
	return t
}

func (b *cartBackend) writeCart(w http.ResponseWriter) {
	_ = json.NewEncoder(w).Encode(Cart{Items: b.items, Total: b.total()})
}

func (b *cartBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/cart/":
		b.gets++
		if b.failGet {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"detail":"indisponible"}`))
			return
		}
		b.writeCart(w)

	case r.Method == http.MethodPost && r.URL.Path == "/cart/items":
		b.posts++
		var body struct {
			ProductID int `json:"product_id"`
			Quantity  int `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for i := range b.items {
			if b.items[i].ProductID == body.ProductID {
				b.items[i].Quantity += body.Quantity
				b.writeCart(w)
				return
			}
		}
		b.items = append(b.items, Item{
			ID:        b.nextID,
			ProductID: body.ProductID,
			Quantity:  body.Quantity,
			Product:   catalog.Product{ID: body.ProductID, Price: b.prices[body.ProductID]},
		})
		b.nextID++
		b.writeCart(w)

	case r.Method == http.MethodPatch && strings.HasPrefix(r.URL.Path, "/cart/items/"):
		b.patches++
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/cart/items/"))
		var body struct {
			Quantity int `json:"quantity"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		for i := range b.items {
			if b.items[i].ID == id {
				b.items[i].Quantity = body.Quantity
			}
		}
		b.writeCart(w)

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/cart/items/"):
		b.deletes++
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/cart/items/"))
		kept := b.items[:0]
		for _, it := range b.items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		b.items = kept
		b.writeCart(w)

	case r.Method == http.MethodDelete && r.URL.Path == "/cart/":
		b.deletes++
		b.items = nil
		b.writeCart(w)

	default:
		http.NotFound(w, r)
	}
}

func newTestStore(t *testing.T, backend http.Handler) *Store {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewStore(client, nil)
}

func TestAdd_EmptyCartServerTotal(t *testing.T) {
	backend := newCartBackend(map[int]float64{7: 19.5}, 0)
	store := newTestStore(t, backend)

	if err := store.Add(context.Background(), 7, 2); err != nil {
		t.Fatalf("Add: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].ProductID != 7 || items[0].Quantity != 2 {
		t.Errorf("item = %+v", items[0])
	}
	if got, want := store.Total(), 19.5*2; got != want {
		t.Errorf("total = %v, want %v", got, want)
	}
}

// The total must always be the server's number, even when it is not the sum
// of the visible line prices (tax, promotions, whatever the server decides).
func TestTotal_IsServerAuthoritative(t *testing.T) {
	backend := newCartBackend(map[int]float64{3: 10}, 4.99)
	store := newTestStore(t, backend)

	if err := store.Add(context.Background(), 3, 1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if got, want := store.Total(), 10+4.99; got != want {
		t.Errorf("total = %v, want server-computed %v", got, want)
	}

	if err := store.Update(context.Background(), store.Items()[0].ID, 3); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got, want := store.Total(), 30+4.99; got != want {
		t.Errorf("total after update = %v, want %v", got, want)
	}
}

func TestUpdate_QuantityBelowOneNeverFires(t *testing.T) {
	backend := newCartBackend(map[int]float64{1: 5}, 0)
	store := newTestStore(t, backend)

	if err := store.Add(context.Background(), 1, 2); err != nil {
		t.Fatal(err)
	}
	patchesBefore := backend.patches
	totalBefore := store.Total()

	for _, q := range []int{0, -1, -42} {
		err := store.Update(context.Background(), store.Items()[0].ID, q)
		if !errors.Is(err, ErrQuantityTooLow) {
			t.Errorf("Update(q=%d) = %v, want ErrQuantityTooLow", q, err)
		}
	}

	if backend.patches != patchesBefore {
		t.Error("rejected update must not issue a request")
	}
	if store.Total() != totalBefore || store.Len() != 1 {
		t.Error("rejected update must not mutate state")
	}
}

func TestAdd_QuantityBelowOneNeverFires(t *testing.T) {
	backend := newCartBackend(nil, 0)
	store := newTestStore(t, backend)

	if err := store.Add(context.Background(), 9, 0); !errors.Is(err, ErrQuantityTooLow) {
		t.Fatalf("Add = %v, want ErrQuantityTooLow", err)
	}
	if backend.posts != 0 {
		t.Error("rejected add must not issue a request")
	}
}

func TestFetch_FailureKeepsStaleState(t *testing.T) {
	backend := newCartBackend(map[int]float64{2: 8}, 0)
	store := newTestStore(t, backend)

	if err := store.Add(context.Background(), 2, 1); err != nil {
		t.Fatal(err)
	}

	backend.mu.Lock()
	backend.failGet = true
	backend.mu.Unlock()

	if err := store.Fetch(context.Background()); err == nil {
		t.Fatal("expected fetch error")
	}
	if store.Len() != 1 || store.Total() != 8 {
		t.Error("failed fetch must leave previous state untouched")
	}
	if store.Loading() {
		t.Error("loading flag must be reset after a failed fetch")
	}
}

func TestRemove_Resyncs(t *testing.T) {
	backend := newCartBackend(map[int]float64{1: 5, 2: 7}, 0)
	store := newTestStore(t, backend)

	ctx := context.Background()
	if err := store.Add(ctx, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(ctx, 2, 1); err != nil {
		t.Fatal(err)
	}

	var itemID int
	for _, it := range store.Items() {
		if it.ProductID == 1 {
			itemID = it.ID
		}
	}
	if err := store.Remove(ctx, itemID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if store.Len() != 1 || store.Total() != 7 {
		t.Errorf("after remove: len=%d total=%v", store.Len(), store.Total())
	}
}

func TestClear_LocalResetWithoutRefetch(t *testing.T) {
	backend := newCartBackend(map[int]float64{1: 5}, 0)
	store := newTestStore(t, backend)

	if err := store.Add(context.Background(), 1, 2); err != nil {
		t.Fatal(err)
	}
	getsBefore := backend.gets

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if store.Len() != 0 || store.Total() != 0 {
		t.Error("clear must reset local state")
	}
	if backend.gets != getsBefore {
		t.Error("clear must not refetch, the post-condition is known")
	}
}

func TestMutators_PropagateServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Stock insuffisant"}`))
	}))
	t.Cleanup(srv.Close)

	client, err := api.NewClient(api.Config{BaseURL: srv.URL}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(client, nil)

	err = store.Add(context.Background(), 1, 99)
	if !api.IsValidation(err) {
		t.Fatalf("want validation error, got %v", err)
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Detail != "Stock insuffisant" {
		t.Errorf("server detail must surface verbatim, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("failed mutation must not mutate state")
	}
}

func ExampleStore_Add() {
	backend := newCartBackend(map[int]float64{7: 10}, 0)
	srv := httptest.NewServer(backend)
	defer srv.Close()

	client, _ := api.NewClient(api.Config{BaseURL: srv.URL}, nil, nil)
	store := NewStore(client, nil)

	_ = store.Add(context.Background(), 7, 2)
	fmt.Println(store.Len(), store.Total())
	// Output: 1 20
}
