// Package event provides release-once handles and a small set of typed event
// combinators used to attach and reliably detach listeners.
package event

import "sync"

// Disposable is a handle to an acquired resource, typically a listener
// registration. Dispose releases it; calling Dispose more than once is a no-op.
type Disposable interface {
	Dispose()
}

type disposeFunc struct {
	once sync.Once
	fn   func()
}

func (d *disposeFunc) Dispose() {
	d.once.Do(func() {
		if d.fn != nil {
			d.fn()
		}
	})
}

// ToDisposable wraps a release action so that it runs at most once.
func ToDisposable(fn func()) Disposable {
	return &disposeFunc{fn: fn}
}

// Empty is a Disposable that releases nothing.
var Empty Disposable = ToDisposable(nil)

// Disposables is an ordered set of handles released together.
// It is not safe for concurrent use.
type Disposables []Disposable

// Add appends d to the set.
func (ds *Disposables) Add(d Disposable) {
	*ds = append(*ds, d)
}

// Dispose releases every handle in order and returns an empty set, so callers
// can release and clear in one step:
//
//	disposables = event.Dispose(disposables)
func Dispose(ds Disposables) Disposables {
	for _, d := range ds {
		if d != nil {
			d.Dispose()
		}
	}
	return Disposables{}
}

// Combined returns a single handle that releases all of ds.
func Combined(ds ...Disposable) Disposable {
	return ToDisposable(func() { Dispose(ds) })
}
