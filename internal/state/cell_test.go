package state_test

import (
	"sync"
	"testing"

	"github.com/p-n-ai/pai-tutorials/internal/state"
)

func TestCell_GetBeforeSet(t *testing.T) {
	c := state.NewCell[string]()

	v, ok := c.Get()
	if ok {
		t.Errorf("Get() ok = true before Set, value %q", v)
	}
}

func TestCell_SetReplacesValue(t *testing.T) {
	c := state.NewCell[[]string]()

	c.Set([]string{"a", "b"})
	c.Set([]string{"c"})

	v, ok := c.Get()
	if !ok {
		t.Fatal("Get() ok = false after Set")
	}
	if len(v) != 1 || v[0] != "c" {
		t.Errorf("Get() = %v, want [c]", v)
	}
}

func TestCell_SubscribersNotifiedSynchronously(t *testing.T) {
	c := state.NewCell[int]()

	var order []string
	c.Subscribe(func(v int) { order = append(order, "first") })
	c.Subscribe(func(v int) { order = append(order, "second") })

	c.Set(1)

	// Both subscribers ran before Set returned.
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("notification order = %v, want [first second]", order)
	}
}

func TestCell_SubscriberSeesPublishedValue(t *testing.T) {
	c := state.NewCell[int]()

	var seen []int
	c.Subscribe(func(v int) {
		cur, _ := c.Get()
		if cur != v {
			t.Errorf("Get() inside subscriber = %d, want %d", cur, v)
		}
		seen = append(seen, v)
	})

	c.Set(1)
	c.Set(2)

	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

func TestCell_Unsubscribe(t *testing.T) {
	c := state.NewCell[int]()

	calls := 0
	cancel := c.Subscribe(func(int) { calls++ })
	c.Set(1)
	cancel()
	cancel() // second call is a no-op
	c.Set(2)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n := c.Subscribers(); n != 0 {
		t.Errorf("Subscribers() = %d, want 0", n)
	}
}

func TestCell_ConcurrentReaders(t *testing.T) {
	c := state.NewCell[int]()
	c.Set(0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				c.Set(i)
				return
			}
			c.Get()
		}(i)
	}
	wg.Wait()

	if _, ok := c.Get(); !ok {
		t.Error("Get() ok = false after concurrent Sets")
	}
}
