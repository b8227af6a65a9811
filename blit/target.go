package blit

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/iconmine/internal/cache"
)

// Pool errors.
var (
	// ErrBudgetExceeded is returned when a target is larger than the whole
	// budget.
	ErrBudgetExceeded = errors.New("blit: scratch budget exceeded")

	// ErrUnknownTarget is returned when releasing a target the pool does
	// not hold as in use, including a second release.
	ErrUnknownTarget = errors.New("blit: target not acquired from this pool")

	// ErrInvalidTarget is returned for non-positive target sizes or
	// formats other than RGBA8.
	ErrInvalidTarget = errors.New("blit: invalid target")
)

// DefaultBudget is the scratch memory budget of a pool created with 0.
const DefaultBudget = 64 << 20

// Target is an off-screen RGBA8 surface. Data holds Width*Height pixels in
// R, G, B, A byte order with tightly packed rows.
type Target struct {
	Width, Height int
	// Format is RGBA8Unorm or RGBA8UnormSrgb. It is the read/write
	// convention a GPU blit renders with; the stored bytes keep the
	// encoding of the source either way.
	Format gputypes.TextureFormat
	// Premultiplied is set by the blitter to match the source.
	Premultiplied bool
	Data          []byte
}

// Stride returns the bytes per row.
func (t *Target) Stride() int { return t.Width * 4 }

func (t *Target) size() uint64 { return uint64(len(t.Data)) }

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	BudgetBytes uint64
	UsedBytes   uint64 // in use plus idle
	InUse       int
	Idle        int
	Waiting     int // callers blocked in Acquire
	Acquired    uint64
	Released    uint64
	Evicted     uint64
	Waits       uint64
}

// String returns a human-readable summary.
func (s PoolStats) String() string {
	return fmt.Sprintf("Scratch[%d in use, %d idle, %d/%d KB, %d evictions]",
		s.InUse, s.Idle, s.UsedBytes/1024, s.BudgetBytes/1024, s.Evicted)
}

// Pool hands out scratch targets under a byte budget. Released targets are
// kept idle for reuse and evicted least recently used first when a new
// acquisition needs room. When in-use targets fill the budget, Acquire
// blocks until one is released.
//
// Pool is safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	cond     *sync.Cond
	budget   uint64
	used     uint64
	inUse    map[*Target]struct{}
	idle     cache.LRU[*Target]
	acquired uint64
	released uint64
	evicted  uint64
	waits    uint64
	waiting  int
}

// NewPool creates a pool with the given budget in bytes.
// A budget of 0 selects DefaultBudget.
func NewPool(budget uint64) *Pool {
	if budget == 0 {
		budget = DefaultBudget
	}
	p := &Pool{
		budget: budget,
		inUse:  make(map[*Target]struct{}),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Acquire returns a zeroed target. Every successful Acquire must be paired
// with Release. A caller holding a target must release it before acquiring
// another, or it may wait on itself.
func (p *Pool) Acquire(width, height int, format gputypes.TextureFormat) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTarget, width, height)
	}
	if format != gputypes.TextureFormatRGBA8Unorm && format != gputypes.TextureFormatRGBA8UnormSrgb {
		return nil, fmt.Errorf("%w: format %v", ErrInvalidTarget, format)
	}
	need := uint64(width) * uint64(height) * 4 //nolint:gosec // checked positive

	p.mu.Lock()
	defer p.mu.Unlock()

	if need > p.budget {
		return nil, fmt.Errorf("%w: need %d bytes, budget %d", ErrBudgetExceeded, need, p.budget)
	}

	for {
		if t, ok := p.idle.Find(func(t *Target) bool { return t.Width == width && t.Height == height }); ok {
			p.idle.Remove(t)
			t.Format = format
			t.Premultiplied = false
			clear(t.Data)
			p.inUse[t] = struct{}{}
			p.acquired++
			return t, nil
		}

		for p.used+need > p.budget {
			t, ok := p.idle.RemoveOldest()
			if !ok {
				break
			}
			p.used -= t.size()
			p.evicted++
		}
		if p.used+need <= p.budget {
			break
		}

		// Everything left is in use.
		p.waits++
		p.waiting++
		p.cond.Wait()
		p.waiting--
	}

	t := &Target{
		Width:  width,
		Height: height,
		Format: format,
		Data:   make([]byte, need),
	}
	p.used += need
	p.inUse[t] = struct{}{}
	p.acquired++
	return t, nil
}

// Release returns t to the pool.
func (p *Pool) Release(t *Target) error {
	if t == nil {
		return ErrUnknownTarget
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.inUse[t]; !ok {
		return ErrUnknownTarget
	}
	delete(p.inUse, t)
	p.idle.Touch(t)
	p.released++
	p.cond.Broadcast()
	return nil
}

// Trim drops every idle target.
func (p *Pool) Trim() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle.Drain(func(t *Target) { p.used -= t.size() })
	p.cond.Broadcast()
}

// Stats returns a snapshot of pool usage.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		BudgetBytes: p.budget,
		UsedBytes:   p.used,
		InUse:       len(p.inUse),
		Idle:        p.idle.Len(),
		Waiting:     p.waiting,
		Acquired:    p.acquired,
		Released:    p.released,
		Evicted:     p.evicted,
		Waits:       p.waits,
	}
}
