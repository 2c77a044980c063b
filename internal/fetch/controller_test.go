package fetch

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"vitrine/internal/catalog"
)

// The classic out-of-order bug: parameters change from A to B, B's response
// arrives first, A's response must be dropped when it finally lands.
func TestLastIssuedWins(t *testing.T) {
	c := NewController[string]()

	genA := c.Begin()
	genB := c.Begin()

	dataB := "response B"
	if !c.Complete(genB, &dataB, nil) {
		t.Fatal("latest request's outcome must apply")
	}

	dataA := "response A"
	if c.Complete(genA, &dataA, nil) {
		t.Fatal("superseded request's outcome must be discarded")
	}

	snap := c.Snapshot()
	if snap.Data == nil || *snap.Data != "response B" {
		t.Errorf("state = %+v, want response B", snap)
	}
	if snap.Loading {
		t.Error("loading must be cleared once the latest outcome landed")
	}
}

func TestStaleCompletionKeepsLoading(t *testing.T) {
	c := NewController[string]()

	genA := c.Begin()
	_ = c.Begin() // B issued, still in flight

	dataA := "stale"
	c.Complete(genA, &dataA, nil)

	snap := c.Snapshot()
	if !snap.Loading {
		t.Error("loading must stay set while the latest request is in flight")
	}
	if snap.Data != nil {
		t.Error("stale data must not be applied")
	}
}

func TestInOrderCompletion(t *testing.T) {
	c := NewController[int]()

	gen := c.Begin()
	v := 42
	if !c.Complete(gen, &v, nil) {
		t.Fatal("in-order completion must apply")
	}
	snap := c.Snapshot()
	if snap.Data == nil || *snap.Data != 42 || snap.Loading {
		t.Errorf("state = %+v", snap)
	}
}

func TestErrorOutcome(t *testing.T) {
	c := NewController[string]()

	gen := c.Begin()
	v := "partial"
	boom := errors.New("boom")
	c.Complete(gen, &v, boom)

	snap := c.Snapshot()
	if snap.Err == nil {
		t.Fatal("error must be recorded")
	}
	if snap.Data != nil {
		t.Error("a failed request must not leave data behind")
	}
}

func TestPreviousDataVisibleWhileReloading(t *testing.T) {
	c := NewController[string]()

	gen := c.Begin()
	v := "page 1"
	c.Complete(gen, &v, nil)

	c.Begin() // page 2 requested
	snap := c.Snapshot()
	if !snap.Loading {
		t.Error("must be loading")
	}
	if snap.Data == nil || *snap.Data != "page 1" {
		t.Error("previous data must stay visible during reload")
	}
}

// Page 1 (12 items of 40) then page 2: the new page replaces the list, it
// never appends.
func TestPagination_ReplacesNotAppends(t *testing.T) {
	c := NewController[catalog.ProductList]()

	page1 := &catalog.ProductList{Total: 40, Page: 1, Pages: 4}
	for i := 1; i <= 12; i++ {
		page1.Products = append(page1.Products, catalog.Product{ID: i})
	}
	c.Complete(c.Begin(), page1, nil)

	page2 := &catalog.ProductList{Total: 40, Page: 2, Pages: 4}
	for i := 13; i <= 24; i++ {
		page2.Products = append(page2.Products, catalog.Product{ID: i})
	}
	c.Complete(c.Begin(), page2, nil)

	snap := c.Snapshot()
	if len(snap.Data.Products) != 12 {
		t.Fatalf("got %d products, want 12 (replace, not append)", len(snap.Data.Products))
	}
	if snap.Data.Products[0].ID != 13 || snap.Data.Page != 2 {
		t.Errorf("displayed page = %+v", snap.Data.Page)
	}
}

func TestReset_InvalidatesInFlight(t *testing.T) {
	c := NewController[string]()

	gen := c.Begin()
	c.Reset()

	v := "late"
	if c.Complete(gen, &v, nil) {
		t.Fatal("completion after reset must be discarded")
	}
	if !c.Snapshot().Empty() {
		t.Error("state must be empty after reset")
	}
}

func TestConcurrentCompletions(t *testing.T) {
	c := NewController[int]()

	const n = 100
	gens := make([]uint64, n)
	for i := range gens {
		gens[i] = c.Begin()
	}

	var wg sync.WaitGroup
	for i := range gens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v := i
			c.Complete(gens[i], &v, nil)
		}(i)
	}
	wg.Wait()

	snap := c.Snapshot()
	// Whatever the arrival order, only the last issued generation may win.
	if snap.Data != nil && *snap.Data != n-1 {
		t.Errorf("applied generation %d's data %d, want only the last", snap.Generation, *snap.Data)
	}
}

func ExampleController_Complete() {
	c := NewController[string]()

	first := c.Begin()
	second := c.Begin()

	late, early := "second", "first"
	fmt.Println(c.Complete(second, &late, nil))
	fmt.Println(c.Complete(first, &early, nil))
	fmt.Println(*c.Snapshot().Data)
	// Output:
	// true
	// false
	// second
}
