// Package builtin provides the tools the copywriting agent is given:
// trend search, product catalog lookup and emoji suggestion.
package builtin

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/chris/rednote/internal/db"
	"github.com/chris/rednote/internal/tool"
)

const (
	SearchWebName     = "search_web"
	QueryProductName  = "query_product_database"
	GenerateEmojiName = "generate_emoji"
)

// ProductLookup finds a catalog entry whose name occurs in query.
// *db.DB satisfies it.
type ProductLookup interface {
	FindProduct(query string) (*db.Product, error)
}

type Options struct {
	// Products backs query_product_database. Required.
	Products ProductLookup
	// SimulateLatency makes handlers pause like a remote call would.
	SimulateLatency bool
	// Rand drives the fallback emoji sample. Nil seeds from the clock.
	Rand *rand.Rand
}

// Register adds all builtin tools to r.
func Register(r *tool.Registry, opts Options) error {
	latency := func(d time.Duration) time.Duration {
		if opts.SimulateLatency {
			return d
		}
		return 0
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	search := &webSearch{delay: latency(time.Second)}
	products := &productQuery{lookup: opts.Products, delay: latency(500 * time.Millisecond)}
	emoji := &emojiPicker{rng: &lockedRand{rng: rng}, delay: latency(200 * time.Millisecond)}

	for _, t := range []struct {
		name, desc string
		schema     map[string]any
		h          tool.Handler
	}{
		{SearchWebName, searchWebDescription, searchWebSchema, search.handle},
		{QueryProductName, queryProductDescription, queryProductSchema, products.handle},
		{GenerateEmojiName, generateEmojiDescription, generateEmojiSchema, emoji.handle},
	} {
		if err := r.Register(t.name, t.desc, t.schema, t.h); err != nil {
			return err
		}
	}
	return nil
}

// pause waits for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// lockedRand serializes access to a *rand.Rand, which is not goroutine safe.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (l *lockedRand) perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Perm(n)
}
