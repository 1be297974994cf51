// Package mempool keeps sized buffers for the per-ROI masks and label maps the
// corner locator allocates for every page.
package mempool

import (
	"sync"
)

// sizedPool hands out zeroed []T buffers bucketed by size class.
type sizedPool[T any] struct {
	pools sync.Map // key: size class (int), value: *sync.Pool
}

var (
	boolPool  sizedPool[bool]
	int32Pool sizedPool[int32]
)

// sizeClass rounds n up to the next multiple of 1024 to reduce churn.
func sizeClass(n int) int {
	if n <= 1024 {
		return 1024
	}
	const step = 1024
	r := (n + step - 1) / step
	return r * step
}

func (s *sizedPool[T]) pool(cls int) *sync.Pool {
	pAny, _ := s.pools.LoadOrStore(cls, &sync.Pool{New: func() any {
		buf := make([]T, cls)
		return &buf
	}})
	return pAny.(*sync.Pool) //nolint:forcetypeassert // only *sync.Pool is stored
}

func (s *sizedPool[T]) get(n int) []T {
	cls := sizeClass(n)
	bp, ok := s.pool(cls).Get().(*[]T)
	if !ok || cap(*bp) < cls {
		return make([]T, n)
	}
	buf := (*bp)[:n]
	clear(buf)
	return buf
}

func (s *sizedPool[T]) put(buf []T) {
	if buf == nil {
		return
	}
	buf = buf[:cap(buf)]
	s.pool(sizeClass(cap(buf))).Put(&buf)
}

// GetBool returns a zeroed []bool of length n. Return it with PutBool.
func GetBool(n int) []bool { return boolPool.get(n) }

// PutBool returns a buffer to the pool. It is safe to pass a nil slice.
func PutBool(buf []bool) { boolPool.put(buf) }

// GetInt32 returns a zeroed []int32 of length n. Return it with PutInt32.
func GetInt32(n int) []int32 { return int32Pool.get(n) }

// PutInt32 returns a buffer to the pool. It is safe to pass a nil slice.
func PutInt32(buf []int32) { int32Pool.put(buf) }
