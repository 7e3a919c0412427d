package retrieval

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// PermitPool caps the number of outbound requests in flight across
// every caller sharing it.
type PermitPool struct {
	sem  *semaphore.Weighted
	size int
}

func NewPermitPool(size int) *PermitPool {
	if size < 1 {
		size = 1
	}
	return &PermitPool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

func (p *PermitPool) Size() int {
	return p.size
}

func (p *PermitPool) Acquire(ctx context.Context) error {
	return p.sem.Acquire(ctx, 1)
}

func (p *PermitPool) Release() {
	p.sem.Release(1)
}

// Do runs fn while holding one permit.
func (p *PermitPool) Do(ctx context.Context, fn func() error) error {
	if err := p.Acquire(ctx); err != nil {
		return err
	}
	defer p.Release()

	return fn()
}
