package image

import "sync"

// Pool is a thread-safe pool for reusing ImageBuf instances.
//
// Buffers are bucketed by dimensions and format. Icons come in a handful
// of sizes (16, 32, 64, ...), so extraction of a batch mostly hits warm
// buckets.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*ImageBuf
	maxSize int // max buffers per bucket, 0 = unlimited
}

type poolKey struct {
	width  int
	height int
	format Format
}

// NewPool creates a pool retaining at most maxPerBucket buffers per bucket.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*ImageBuf),
		maxSize: maxPerBucket,
	}
}

// Get returns a zeroed, tightly packed buffer of the requested shape.
func (p *Pool) Get(width, height int, format Format) (*ImageBuf, error) {
	key := poolKey{width: width, height: height, format: format}

	p.mu.Lock()
	bucket := p.buckets[key]
	if n := len(bucket); n > 0 {
		buf := bucket[n-1]
		p.buckets[key] = bucket[:n-1]
		p.mu.Unlock()
		buf.Clear()
		return buf, nil
	}
	p.mu.Unlock()

	return NewImageBuf(width, height, format)
}

// Put returns a buffer for reuse. Buffers that wrap foreign memory
// (non-packed stride) and overflow beyond the bucket limit are dropped.
func (p *Pool) Put(buf *ImageBuf) {
	if buf == nil || buf.stride != buf.format.RowBytes(buf.width) {
		return
	}

	key := poolKey{width: buf.width, height: buf.height, format: buf.format}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of idle buffers held by the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
