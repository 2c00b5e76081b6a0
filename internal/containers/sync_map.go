package containers

import "sync"

// SyncMap is a typed wrapper around sync.Map.
type SyncMap[K comparable, V any] struct {
	inner sync.Map
}

// LoadOrCreate returns the value stored for key. When absent, create is
// invoked and its result stored, unless a concurrent caller stored a value
// first, in which case that value is returned instead.
func (s *SyncMap[K, V]) LoadOrCreate(key K, create func() V) V {
	if v, ok := s.inner.Load(key); ok {
		return v.(V)
	}
	v, _ := s.inner.LoadOrStore(key, create())
	return v.(V)
}

func (s *SyncMap[K, V]) Range(f func(key K, value V) bool) {
	s.inner.Range(func(key, value any) bool {
		return f(key.(K), value.(V))
	})
}
