// Package notifier implements an eventcount-style wakeup primitive for
// the executor's worker loop: a way for a worker that has found no work
// to park without missing a wakeup from a producer that races ahead of
// it, without the false-wakeup storms a plain condition variable causes
// once dozens of workers wait on it.
package notifier

import "sync"

// Waiter is a single worker's parking ticket. It is issued by
// PrepareWait and consumed by exactly one of CommitWait or CancelWait.
type Waiter struct {
	ch   chan struct{}
	prev *Waiter
	next *Waiter
}

// Notifier coordinates any number of waiting workers with any number of
// notifying producers. The protocol a worker follows is:
//
//	w := n.PrepareWait()
//	if foundWork() {
//	    n.CancelWait(w)
//	} else {
//	    n.CommitWait(w) // parks until Notify/NotifyN wakes it
//	}
//
// PrepareWait must be called, and the work-recheck must happen, before
// deciding to park: a Notify that lands between the recheck and the
// park would otherwise be lost. Registering the waiter first and
// rechecking after closes that window — a racing Notify sees the
// waiter already registered and wakes it instead of finding no one to
// notify.
type Notifier struct {
	mu      sync.Mutex
	waiters map[*Waiter]struct{}
	head    *Waiter
	tail    *Waiter
}

// New returns a Notifier with no waiters.
func New() *Notifier {
	return &Notifier{waiters: make(map[*Waiter]struct{})}
}

// PrepareWait registers the calling goroutine as a waiter and returns
// its ticket. Call this before the final recheck of the condition being
// waited on.
func (n *Notifier) PrepareWait() *Waiter {
	w := &Waiter{ch: make(chan struct{}, 1)}
	n.mu.Lock()
	w.prev = n.tail
	if n.tail != nil {
		n.tail.next = w
	} else {
		n.head = w
	}
	n.tail = w
	n.waiters[w] = struct{}{}
	n.mu.Unlock()
	return w
}

// CancelWait releases a ticket obtained from PrepareWait without
// parking: the caller found work during its recheck. If a Notify raced
// in and already queued a token for w, that token is forwarded to
// another waiter so the wakeup is not lost.
func (n *Notifier) CancelWait(w *Waiter) {
	n.mu.Lock()
	n.unlink(w)
	n.mu.Unlock()

	select {
	case <-w.ch:
		// A wakeup was already delivered to us; pass it along so it
		// isn't wasted.
		n.Notify(false)
	default:
	}
}

// CommitWait parks the calling goroutine until a matching Notify or
// NotifyN call wakes it, then releases the ticket.
func (n *Notifier) CommitWait(w *Waiter) {
	<-w.ch
	n.mu.Lock()
	n.unlink(w)
	n.mu.Unlock()
}

func (n *Notifier) unlink(w *Waiter) {
	if _, ok := n.waiters[w]; !ok {
		return
	}
	delete(n.waiters, w)
	if w.prev != nil {
		w.prev.next = w.next
	} else {
		n.head = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	} else {
		n.tail = w.prev
	}
	w.prev, w.next = nil, nil
}

// Notify wakes one waiter (or every waiter, if all is true). It is a
// no-op if no one is currently waiting; the caller is responsible for
// making the underlying condition visible before calling Notify so a
// waiter's post-wakeup recheck observes it.
func (n *Notifier) Notify(all bool) {
	n.mu.Lock()
	if all {
		w := n.head
		n.head, n.tail = nil, nil
		n.waiters = make(map[*Waiter]struct{})
		n.mu.Unlock()
		for w != nil {
			next := w.next
			w.prev, w.next = nil, nil
			signal(w)
			w = next
		}
		return
	}

	w := n.head
	if w == nil {
		n.mu.Unlock()
		return
	}
	n.unlink(w)
	n.mu.Unlock()
	signal(w)
}

// NotifyN wakes up to k waiters, oldest-registered first. It returns
// the number actually woken, which may be less than k if fewer workers
// were waiting.
func (n *Notifier) NotifyN(k int) int {
	if k <= 0 {
		return 0
	}
	n.mu.Lock()
	var woken []*Waiter
	for w := n.head; w != nil && len(woken) < k; {
		next := w.next
		n.unlink(w)
		woken = append(woken, w)
		w = next
	}
	n.mu.Unlock()

	for _, w := range woken {
		signal(w)
	}
	return len(woken)
}

// NumWaiters returns a snapshot count of parked workers.
func (n *Notifier) NumWaiters() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.waiters)
}

func signal(w *Waiter) {
	select {
	case w.ch <- struct{}{}:
	default:
	}
}
