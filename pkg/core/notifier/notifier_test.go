package notifier

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCommitWaitWakesOnNotify(t *testing.T) {
	n := New()
	w := n.PrepareWait()

	woke := make(chan struct{})
	go func() {
		n.CommitWait(w)
		close(woke)
	}()

	// Give the waiter a moment to actually park before notifying, to
	// exercise the real wait path rather than racing it.
	time.Sleep(10 * time.Millisecond)
	n.Notify(false)

	select {
	case <-woke:
	case <-time.After(time.Second):
		t.Fatal("CommitWait did not return after Notify")
	}
}

func TestCancelWaitForwardsRacedToken(t *testing.T) {
	n := New()
	w1 := n.PrepareWait()
	w2 := n.PrepareWait()

	n.Notify(false) // should target w1, the oldest waiter

	// w1 cancels instead of committing; its already-delivered token
	// must be forwarded so w2 still wakes.
	n.CancelWait(w1)

	done := make(chan struct{})
	go func() {
		n.CommitWait(w2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("forwarded notify token was lost")
	}
}

func TestNotifyAllWakesEveryone(t *testing.T) {
	n := New()
	const k = 16
	var wg sync.WaitGroup
	var woken atomic.Int32
	for i := 0; i < k; i++ {
		w := n.PrepareWait()
		wg.Add(1)
		go func(w *Waiter) {
			defer wg.Done()
			n.CommitWait(w)
			woken.Add(1)
		}(w)
	}

	time.Sleep(10 * time.Millisecond)
	n.Notify(true)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify(true) did not wake all waiters")
	}
	if woken.Load() != k {
		t.Fatalf("woken = %d; want %d", woken.Load(), k)
	}
}

func TestNotifyNWakesAtMostN(t *testing.T) {
	n := New()
	waiters := make([]*Waiter, 4)
	for i := range waiters {
		waiters[i] = n.PrepareWait()
	}

	woken := n.NotifyN(2)
	if woken != 2 {
		t.Fatalf("NotifyN(2) woke %d; want 2", woken)
	}
	if n.NumWaiters() != 2 {
		t.Fatalf("NumWaiters() = %d; want 2 remaining", n.NumWaiters())
	}
}

func TestPrepareWaitCommitWaitNoLostWakeupUnderRace(t *testing.T) {
	// A worker that finds no work, then rechecks and finds none, must
	// still be woken by a Notify that raced in right after PrepareWait
	// returned, even though CommitWait hasn't been called yet.
	n := New()
	for trial := 0; trial < 200; trial++ {
		w := n.PrepareWait()
		go n.Notify(false)
		done := make(chan struct{})
		go func() {
			n.CommitWait(w)
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatalf("trial %d: lost wakeup", trial)
		}
	}
}
