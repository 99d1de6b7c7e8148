package improc

import "sync"

// Pool is a thread-safe pool for reusing pixel buffers.
//
// Pool groups buffers by image type and dimensions, so that repeated filter
// invocations on same-sized images can reuse their output buffers instead of
// allocating new ones.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]PixelBuffer
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identical buffer specifications.
type poolKey struct {
	typ    ImageType
	width  int
	height int
}

// NewPool creates a pool retaining at most maxPerBucket buffers of each
// type and size. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]PixelBuffer),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a zeroed buffer from the pool or creates a new one.
// Returns an error only if the type or dimensions are invalid.
func (p *Pool) Get(t ImageType, width, height int) (PixelBuffer, error) {
	key := poolKey{typ: t, width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()
		return buf, nil
	}
	p.mu.Unlock()

	return New(t, width, height)
}

// Put returns a buffer to the pool. The buffer is cleared before it is
// stored. Nil buffers and buffers beyond the bucket capacity are discarded.
// The caller must not use buf after Put.
func (p *Pool) Put(buf PixelBuffer) {
	if IsNil(buf) {
		return
	}
	buf.reset()

	key := poolKey{typ: buf.Type(), width: buf.Width(), height: buf.Height()}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of buffers currently held by the pool.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, b := range p.buckets {
		n += len(b)
	}
	return n
}
