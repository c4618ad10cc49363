package event

import (
	"context"
	"slices"
	"sync"
)

// Event is a subscribable stream of values. Subscribing returns the handle
// that removes exactly that listener.
type Event[T any] func(listener func(T)) Disposable

// Emitter is a fan-out broadcast. Subscribers only see values fired after they
// attach; nothing is buffered or replayed. The zero value is ready to use.
type Emitter[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]func(T)
	disposed  bool
}

// Event returns the subscribe side of the emitter.
func (e *Emitter[T]) Event() Event[T] {
	return e.subscribe
}

func (e *Emitter[T]) subscribe(listener func(T)) Disposable {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disposed {
		return Empty
	}
	if e.listeners == nil {
		e.listeners = make(map[uint64]func(T))
	}
	id := e.nextID
	e.nextID++
	e.listeners[id] = listener

	return ToDisposable(func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	})
}

// Fire delivers v to every listener attached at the time of the call, in
// subscription order. Listeners may detach themselves or others while being
// called.
func (e *Emitter[T]) Fire(v T) {
	e.mu.Lock()
	ids := make([]uint64, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	snapshot := make([]func(T), len(ids))
	for i, id := range ids {
		snapshot[i] = e.listeners[id]
	}
	e.mu.Unlock()

	for _, l := range snapshot {
		l(v)
	}
}

// ListenerCount returns the number of attached listeners.
func (e *Emitter[T]) ListenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Dispose detaches all listeners. Later subscriptions are ignored.
func (e *Emitter[T]) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposed = true
	e.listeners = nil
}

// Map derives an event whose values are fn applied to the source values.
func Map[I, O any](ev Event[I], fn func(I) O) Event[O] {
	return func(listener func(O)) Disposable {
		return ev(func(i I) { listener(fn(i)) })
	}
}

// Filter derives an event that forwards only the values keep accepts.
func Filter[T any](ev Event[T], keep func(T) bool) Event[T] {
	return func(listener func(T)) Disposable {
		return ev(func(v T) {
			if keep(v) {
				listener(v)
			}
		})
	}
}

// Any merges several events into one.
func Any[T any](events ...Event[T]) Event[T] {
	return func(listener func(T)) Disposable {
		ds := make([]Disposable, 0, len(events))
		for _, ev := range events {
			ds = append(ds, ev(listener))
		}
		return Combined(ds...)
	}
}

// Once derives an event that forwards only the first value and then detaches
// itself from the source.
func Once[T any](ev Event[T]) Event[T] {
	return func(listener func(T)) Disposable {
		var (
			mu    sync.Mutex
			fired bool
			inner Disposable
		)

		d := ev(func(v T) {
			mu.Lock()
			if fired {
				mu.Unlock()
				return
			}
			fired = true
			self := inner
			mu.Unlock()

			if self != nil {
				self.Dispose()
			}
			listener(v)
		})

		mu.Lock()
		inner = d
		alreadyFired := fired
		mu.Unlock()

		// The source fired on another goroutine before the handle was stored.
		if alreadyFired {
			d.Dispose()
		}

		return ToDisposable(func() {
			mu.Lock()
			fired = true
			mu.Unlock()
			d.Dispose()
		})
	}
}

// Listen subscribes listener to ev and records the handle in ds.
func Listen[T any](ev Event[T], listener func(T), ds *Disposables) Disposable {
	d := ev(listener)
	if ds != nil {
		ds.Add(d)
	}
	return d
}

// ListenOnce subscribes listener to the first value of ev and records the
// handle in ds.
func ListenOnce[T any](ev Event[T], listener func(T), ds *Disposables) Disposable {
	return Listen(Once(ev), listener, ds)
}

// Next blocks until ev fires once or ctx is done.
func Next[T any](ctx context.Context, ev Event[T]) (T, error) {
	ch := make(chan T, 1)
	d := Once(ev)(func(v T) { ch <- v })
	defer d.Dispose()

	select {
	case v := <-ch:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
