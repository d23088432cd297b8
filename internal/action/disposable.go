package action

import "sync"

// Disposable releases a registration or other held resource.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a func to the Disposable interface.
type DisposableFunc func()

// Dispose calls the wrapped func.
func (f DisposableFunc) Dispose() { f() }

// Combine aggregates several disposables into one. Nil entries are skipped,
// sub-disposables are released in registration order, and disposing the
// combined handle more than once is safe: each part runs exactly once.
func Combine(parts ...Disposable) Disposable {
	var once sync.Once
	return DisposableFunc(func() {
		once.Do(func() {
			for _, p := range parts {
				if p != nil {
					p.Dispose()
				}
			}
		})
	})
}
