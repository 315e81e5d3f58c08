// Package store owns the process-wide embedded store.
//
// A Provider lazily builds the Store once: concurrent callers share a single
// in-flight load, a successful load is kept for the life of the process,
// and a failed load is reported to every waiter and attempted again on the
// next call.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm/logger"

	"github.com/yukinote/yuki/internal/database"
	"github.com/yukinote/yuki/internal/dataset"
	"github.com/yukinote/yuki/internal/snapshot"
)

// ErrNotReady is returned when the store is used before it has been loaded.
var ErrNotReady = errors.New("store is not ready")

// DatasetLoader produces a validated dataset image.
type DatasetLoader interface {
	Load(ctx context.Context) ([]byte, error)
}

// Options configures how the Store is built.
type Options struct {
	Loader          DatasetLoader
	Slot            snapshot.Slot
	LogLevel        logger.LogLevel
	ValidateAnswers bool
	// Now stamps saved quiz batches. Defaults to time.Now.
	Now func() time.Time
}

// Provider hands out the shared Store.
type Provider struct {
	opts  Options
	group singleflight.Group

	mu     sync.Mutex
	store  *Store
	closed bool
}

func NewProvider(opts Options) *Provider {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Provider{opts: opts}
}

// Acquire returns the Store, loading it on first use. Cancelling ctx stops
// the wait, not the load: other callers may still be waiting on it.
// After Close it returns ErrNotReady.
func (p *Provider) Acquire(ctx context.Context) (*Store, error) {
	if p.isClosed() {
		return nil, ErrNotReady
	}
	if s := p.current(); s != nil {
		return s, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := p.group.DoChan("store", func() (any, error) {
		if s := p.current(); s != nil {
			return s, nil
		}

		s, err := p.load(loadCtx)
		if err != nil {
			log.Printf("Store: initialization failed: %v", err)
			return nil, err
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			s.Close()
			return nil, ErrNotReady
		}
		p.store = s
		p.mu.Unlock()
		return s, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Store), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Current returns the loaded Store or ErrNotReady, without triggering a load.
func (p *Provider) Current() (*Store, error) {
	if s := p.current(); s != nil {
		return s, nil
	}
	return nil, ErrNotReady
}

// Ready reports whether the Store has been loaded.
func (p *Provider) Ready() bool {
	return p.current() != nil
}

// Reset removes the persisted snapshot so the next process start loads the
// dataset afresh. The running Store is left untouched.
func (p *Provider) Reset(ctx context.Context) error {
	if err := p.opts.Slot.Delete(ctx); err != nil {
		return fmt.Errorf("failed to reset snapshot: %w", err)
	}
	log.Printf("Store: persisted snapshot removed")
	return nil
}

// Close releases the Store if one was loaded. A load still in flight is
// discarded when it finishes.
func (p *Provider) Close() error {
	p.mu.Lock()
	s := p.store
	p.store = nil
	p.closed = true
	p.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.Close()
}

func (p *Provider) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Provider) current() *Store {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store
}

// load prefers the persisted snapshot over the bundled dataset.
func (p *Provider) load(ctx context.Context) (*Store, error) {
	image, found, err := p.opts.Slot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	source := SourceSnapshot
	if found {
		if err := dataset.ValidateSignature(image); err != nil {
			return nil, fmt.Errorf("persisted snapshot: %w", err)
		}
	} else {
		source = SourceDataset
		image, err = p.opts.Loader.Load(ctx)
		if err != nil {
			return nil, err
		}
	}

	db, err := database.Open(ctx, image, database.Options{LogLevel: p.opts.LogLevel})
	if err != nil {
		return nil, err
	}

	s := newStore(db, p.opts, source)
	s.EnsureSchema(ctx)

	log.Printf("Store: ready from %s (%d bytes)", source, len(image))
	return s, nil
}
