package mempool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeClass(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{"small size gets minimum", 1, 1024},
		{"zero size", 0, 1024},
		{"exactly 1024", 1024, 1024},
		{"just over 1024", 1025, 2048},
		{"odd number", 1500, 2048},
		{"large size", 10000, 10240},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sizeClass(tt.input))
		})
	}
}

func TestGetBool_ReturnsZeroedBuffer(t *testing.T) {
	buf := GetBool(3000)
	require.Len(t, buf, 3000)
	for i := range buf {
		buf[i] = true
	}
	PutBool(buf)

	again := GetBool(2500)
	require.Len(t, again, 2500)
	for _, v := range again {
		require.False(t, v)
	}
	PutBool(again)
	PutBool(nil)
}

func TestGetInt32_ReturnsZeroedBuffer(t *testing.T) {
	buf := GetInt32(100)
	require.Len(t, buf, 100)
	buf[7] = 42
	PutInt32(buf)

	again := GetInt32(100)
	assert.Equal(t, int32(0), again[7])
	PutInt32(again)
}

func TestPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for w := range 8 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for range 50 {
				b := GetBool(1000 + n*512)
				assert.Len(t, b, 1000+n*512)
				PutBool(b)
			}
		}(w)
	}
	wg.Wait()
}
