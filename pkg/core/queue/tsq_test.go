package queue

import (
	"sync"
	"testing"
)

func TestTSQPushPopLIFO(t *testing.T) {
	q := New[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	for i := 4; i >= 0; i-- {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = %v, %v; want %d, true", v, ok, i)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop() on empty queue returned ok=true")
	}
}

func TestTSQStealFIFOOrder(t *testing.T) {
	q := New[int]()
	for i := 0; i < 5; i++ {
		q.Push(i)
	}
	for i := 0; i < 5; i++ {
		v, ok := q.Steal()
		if !ok || v != i {
			t.Fatalf("Steal() = %v, %v; want %d, true", v, ok, i)
		}
	}
}

func TestTSQGrows(t *testing.T) {
	q := New[int]()
	n := initialCapacity * 4
	for i := 0; i < n; i++ {
		q.Push(i)
	}
	if q.Size() != int64(n) {
		t.Fatalf("Size() = %d; want %d", q.Size(), n)
	}
	for i := n - 1; i >= 0; i-- {
		v, ok := q.Pop()
		if !ok || v != i {
			t.Fatalf("Pop() = %v, %v; want %d, true", v, ok, i)
		}
	}
}

func TestTSQConcurrentStealNoDuplication(t *testing.T) {
	q := New[int]()
	const n = 10000
	for i := 0; i < n; i++ {
		q.Push(i)
	}

	seen := make([]int32, n)
	var seenMu sync.Mutex
	record := func(v int) {
		seenMu.Lock()
		seen[v]++
		seenMu.Unlock()
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v, ok := q.Steal()
				if !ok {
					if q.Empty() {
						return
					}
					continue
				}
				record(v)
			}
		}()
	}
	wg.Wait()

	for v, count := range seen {
		if count != 1 {
			t.Fatalf("item %d seen %d times; want exactly 1", v, count)
		}
	}
}

func TestGlobalFIFO(t *testing.T) {
	g := NewGlobal[string]()
	g.Push("a", "b", "c")
	for _, want := range []string{"a", "b", "c"} {
		got, ok := g.Pop()
		if !ok || got != want {
			t.Fatalf("Pop() = %q, %v; want %q, true", got, ok, want)
		}
	}
	if !g.Empty() {
		t.Fatal("Empty() = false after draining queue")
	}
}
