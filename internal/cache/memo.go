package cache

import "golang.org/x/sync/singleflight"

// Memo caches the results of a computation per key. Concurrent callers of the
// same missing key share one computation.
type Memo[T any] struct {
	cache Cache[T]
	group singleflight.Group
}

func NewMemo[T any](c Cache[T]) *Memo[T] {
	return &Memo[T]{cache: c}
}

// Do returns the cached value for key or computes, stores and returns it.
// Errors are returned to every waiting caller and are not cached.
func (m *Memo[T]) Do(key string, compute func() (T, error)) (T, error) {
	if v, ok := m.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := m.group.Do(key, func() (any, error) {
		if v, ok := m.cache.Get(key); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return v, err
		}
		m.cache.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Value is Do for computations that cannot fail.
func (m *Memo[T]) Value(key string, compute func() T) T {
	v, _ := m.Do(key, func() (T, error) { return compute(), nil })
	return v
}
