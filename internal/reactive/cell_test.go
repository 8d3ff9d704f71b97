package reactive

import (
	"sync"
	"testing"
)

func TestCellGetSet(t *testing.T) {
	c := NewCell(1)
	if got := c.Get(); got != 1 {
		t.Fatalf("Get() = %d, want 1", got)
	}

	c.Set(2)
	if got := c.Get(); got != 2 {
		t.Errorf("Get() after Set = %d, want 2", got)
	}
	if got := c.Version(); got != 1 {
		t.Errorf("Version() = %d, want 1", got)
	}

	c.Update(func(v int) int { return v * 10 })
	if got := c.Get(); got != 20 {
		t.Errorf("Get() after Update = %d, want 20", got)
	}
}

func TestCellSubscribeOrderAndUnsubscribe(t *testing.T) {
	c := NewCell("a")

	var calls []string
	unsubFirst := c.Subscribe(func(v string) { calls = append(calls, "first:"+v) })
	c.Subscribe(func(v string) { calls = append(calls, "second:"+v) })

	c.Set("b")
	unsubFirst()
	unsubFirst() // second call is a no-op
	c.Set("c")

	want := []string{"first:b", "second:b", "second:c"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestCellSubscriberSeesStoredValue(t *testing.T) {
	c := NewCell(0)
	var seen int
	c.Subscribe(func(int) { seen = c.Get() })

	c.Set(7)
	if seen != 7 {
		t.Errorf("subscriber read %d from Get, want 7", seen)
	}
}

func TestReadOnlyView(t *testing.T) {
	c := NewCell([]int{1, 2})
	v := c.ReadOnly()

	if _, ok := v.(*Cell[[]int]); ok {
		t.Fatal("ReadOnly() must not expose the writable cell")
	}

	var got []int
	v.Subscribe(func(xs []int) { got = xs })
	c.Set([]int{3})

	if len(v.Get()) != 1 || v.Get()[0] != 3 {
		t.Errorf("view Get() = %v, want [3]", v.Get())
	}
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("view subscriber got %v, want [3]", got)
	}
}

func TestComputed(t *testing.T) {
	a := NewCell(2)
	b := NewCell(3)

	sum := NewComputed(func() int { return a.Get() + b.Get() }, Watch[int](a.ReadOnly()), Watch[int](b))
	if got := sum.Get(); got != 5 {
		t.Fatalf("initial Get() = %d, want 5", got)
	}

	var published []int
	sum.Subscribe(func(v int) { published = append(published, v) })

	a.Set(10)
	b.Set(1)
	if got := sum.Get(); got != 11 {
		t.Errorf("Get() = %d, want 11", got)
	}
	if len(published) != 2 || published[0] != 13 || published[1] != 11 {
		t.Errorf("published = %v, want [13 11]", published)
	}

	sum.Stop()
	a.Set(100)
	if got := sum.Get(); got != 11 {
		t.Errorf("Get() after Stop = %d, want 11 (unchanged)", got)
	}
}

func TestCellConcurrentAccess(t *testing.T) {
	c := NewCell(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Update(func(v int) int { return v + 1 })
				_ = c.Get()
			}
		}()
	}
	wg.Wait()

	if got := c.Version(); got != 800 {
		t.Errorf("Version() = %d, want 800", got)
	}
}
