package image

import (
	"sync"
	"testing"
)

func TestPoolReuseClears(t *testing.T) {
	pool := NewPool(2)
	buf, err := pool.Get(4, 4, FormatRGBA8)
	if err != nil {
		t.Fatal(err)
	}
	buf.Fill(1, 2, 3, 4)
	pool.Put(buf)

	again, _ := pool.Get(4, 4, FormatRGBA8)
	if again != buf {
		t.Fatal("expected the pooled buffer back")
	}
	for _, v := range again.Data() {
		if v != 0 {
			t.Fatal("reused buffer not cleared")
		}
	}
}

func TestPoolBucketLimit(t *testing.T) {
	pool := NewPool(1)
	a, _ := NewImageBuf(2, 2, FormatRGBA8)
	b, _ := NewImageBuf(2, 2, FormatRGBA8)
	pool.Put(a)
	pool.Put(b)
	if pool.Len() != 1 {
		t.Errorf("Len = %d, want 1", pool.Len())
	}
}

func TestPoolRejectsPaddedBuffers(t *testing.T) {
	pool := NewPool(0)
	raw, _ := FromRaw(make([]byte, 64), 2, 2, FormatRGBA8, 32)
	pool.Put(raw)
	if pool.Len() != 0 {
		t.Error("padded buffer retained")
	}
}

func TestPoolConcurrent(t *testing.T) {
	pool := NewPool(4)
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				buf, err := pool.Get(8, 8, FormatRGBA8)
				if err != nil {
					t.Error(err)
					return
				}
				pool.Put(buf)
			}
		}()
	}
	wg.Wait()
}
