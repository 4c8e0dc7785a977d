package tutorial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/p-n-ai/pai-tutorials/internal/assets/layout"
	"github.com/p-n-ai/pai-tutorials/internal/quiz"
	"github.com/p-n-ai/pai-tutorials/internal/state"
	"github.com/p-n-ai/pai-tutorials/internal/topics"
)

const defaultAssetBaseURL = "/assets"

var (
	// ErrMissingTopic is returned when Resolve is called without a topic.
	ErrMissingTopic = errors.New("topic id is required")
	// ErrSuperseded is returned by a resolve whose result was dropped
	// because a newer resolve started after it.
	ErrSuperseded = errors.New("resolve superseded by a newer request")
)

// ResolverConfig holds dependencies for the resolver.
type ResolverConfig struct {
	Loader       Loader
	AssetBaseURL string // prefix of content URLs (default "/assets")
}

// Resolver turns (course, topic) pairs into tutorials and owns the current
// tutorial. Only the most recently started resolve may publish.
type Resolver struct {
	loader  Loader
	base    string
	current *state.Cell[Tutorial]

	mu       sync.Mutex
	gen      uint64
	inflight context.CancelFunc
}

// NewResolver creates a resolver with no current tutorial.
func NewResolver(cfg ResolverConfig) *Resolver {
	base := cfg.AssetBaseURL
	if base == "" {
		base = defaultAssetBaseURL
	}
	return &Resolver{
		loader:  cfg.Loader,
		base:    base,
		current: state.NewCell[Tutorial](),
	}
}

// Resolve loads the outline and metadata of a topic, publishes the
// resulting tutorial as current and returns it. Starting a resolve cancels
// the one in flight; a resolve overtaken this way returns ErrSuperseded and
// publishes nothing.
func (r *Resolver) Resolve(ctx context.Context, course, topic string) (Tutorial, error) {
	if topic == "" {
		return Tutorial{}, ErrMissingTopic
	}
	if err := layout.CheckID("course", course); err != nil {
		return Tutorial{}, err
	}
	if err := layout.CheckID("topic", topic); err != nil {
		return Tutorial{}, err
	}

	ctx, gen := r.begin(ctx)
	defer r.finish(gen)

	var (
		outline []topics.Topic
		seo     SEO
		qz      *quiz.Quiz
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		outline, err = r.loader.Outline(gctx, course)
		return err
	})
	g.Go(func() error {
		var err error
		seo, err = r.loader.SEO(gctx, course, topic)
		return err
	})
	g.Go(func() error {
		q, err := r.loader.Quiz(gctx, course, topic)
		if err != nil {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			// A broken quiz hides the quiz, not the lesson.
			slog.Warn("skipping quiz", "course", course, "topic", topic, "error", err)
			return nil
		}
		qz = q
		return nil
	})

	if err := g.Wait(); err != nil {
		if r.stale(gen) {
			return Tutorial{}, ErrSuperseded
		}
		return Tutorial{}, fmt.Errorf("resolving %s/%s: %w", course, topic, err)
	}

	t := Tutorial{
		Course:  course,
		Topic:   topic,
		SEO:     seo,
		Content: layout.ContentURL(r.base, course, topic),
		Outline: outline,
		Quiz:    qz,
	}
	if !r.publish(gen, t) {
		return Tutorial{}, ErrSuperseded
	}

	slog.Debug("tutorial resolved", "course", course, "topic", topic, "outline", len(outline), "quiz", qz != nil)
	return t, nil
}

// Current returns the current tutorial, if one has been resolved.
func (r *Resolver) Current() (Tutorial, bool) {
	return r.current.Get()
}

// Subscribe registers fn for every newly published tutorial. fn runs
// synchronously inside Resolve and must not call Resolve.
func (r *Resolver) Subscribe(fn func(Tutorial)) (cancel func()) {
	return r.current.Subscribe(fn)
}

func (r *Resolver) begin(ctx context.Context) (context.Context, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inflight != nil {
		r.inflight()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.gen++
	r.inflight = cancel
	return ctx, r.gen
}

func (r *Resolver) finish(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen == r.gen && r.inflight != nil {
		r.inflight()
		r.inflight = nil
	}
}

func (r *Resolver) stale(gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return gen != r.gen
}

// publish sets t as current unless a newer resolve has started. The lock is
// held across Set so an older result can never land after a newer one.
func (r *Resolver) publish(gen uint64, t Tutorial) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if gen != r.gen {
		return false
	}
	r.current.Set(t)
	return true
}
