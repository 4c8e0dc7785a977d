package router

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/p-n-ai/pai-tutorials/internal/state"
	"github.com/p-n-ai/pai-tutorials/internal/tutorial"
)

// View is the view currently shown.
type View struct {
	Kind   ViewKind
	Course string
	Topic  string
	Err    error  // why the error view is shown, if known
	Path   string // path that led to the view; empty for the initial view
}

// Meta is the page metadata applied after a successful resolve.
type Meta struct {
	Title       string
	Description string
	Keywords    string
}

// Result describes the outcome of a navigation.
type Result struct {
	View     View
	Redirect string // non-empty when the client should be sent elsewhere
	Changed  bool   // false when the navigation was a no-op

	// Tutorial is the tutorial resolved by this navigation. It is only set
	// when the navigation landed on a topic view.
	Tutorial tutorial.Tutorial
}

// Resolver resolves a course topic into a tutorial.
type Resolver interface {
	Resolve(ctx context.Context, course, topic string) (tutorial.Tutorial, error)
}

// DispatcherConfig holds dependencies for the dispatcher.
type DispatcherConfig struct {
	Resolver Resolver
	AppName  string
}

// Dispatcher is the navigation state machine over the home, topic and
// error views.
type Dispatcher struct {
	resolver Resolver
	appName  string
	view     *state.Cell[View]
	meta     *state.Cell[Meta]

	// seq orders navigations by start; only the latest one may change the
	// view.
	mu  sync.Mutex
	seq uint64
}

// NewDispatcher creates a dispatcher showing the home view.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		resolver: cfg.Resolver,
		appName:  cfg.AppName,
		view:     state.NewCell[View](),
		meta:     state.NewCell[Meta](),
	}
	d.view.Set(View{Kind: ViewHome})
	d.meta.Set(Meta{Title: cfg.AppName})
	return d
}

// Navigate moves to the view for path. Every topic navigation resolves
// again, even for the topic already shown. A topic path without a course
// leaves the current view unchanged, as do cancelled navigations and
// navigations overtaken by a newer one. Resolve failures land on the error
// view.
func (d *Dispatcher) Navigate(ctx context.Context, path string) Result {
	route := Match(path)
	if route.Redirect == "" && route.Kind == ViewTopic && route.Course == "" {
		return Result{View: d.View()}
	}
	seq := d.begin()

	if route.Redirect != "" {
		return d.apply(seq, View{Kind: route.Kind, Path: route.Redirect}, nil, Result{Redirect: route.Redirect})
	}

	switch route.Kind {
	case ViewHome:
		return d.apply(seq, View{Kind: ViewHome, Path: path}, nil, Result{})
	case ViewError:
		return d.apply(seq, View{Kind: ViewError, Path: path}, nil, Result{})
	}

	t, err := d.resolver.Resolve(ctx, route.Course, route.Topic)
	if errors.Is(err, tutorial.ErrSuperseded) || ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return Result{View: d.View()}
	}
	if err != nil {
		slog.Warn("tutorial resolve failed",
			"course", route.Course,
			"topic", route.Topic,
			"error", err,
		)
		return d.apply(seq, View{Kind: ViewError, Course: route.Course, Topic: route.Topic, Err: err, Path: path}, nil, Result{})
	}

	meta := d.metaFor(t.SEO)
	return d.apply(seq, View{Kind: ViewTopic, Course: route.Course, Topic: route.Topic, Path: path}, &meta, Result{Tutorial: t})
}

func (d *Dispatcher) begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	return d.seq
}

// apply shows v (and meta, if given) unless a newer navigation has started,
// in which case the view is left to it and res reports a no-op.
func (d *Dispatcher) apply(seq uint64, v View, meta *Meta, res Result) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		return Result{View: d.View()}
	}
	if meta != nil {
		d.meta.Set(*meta)
	}
	d.view.Set(v)
	res.View = v
	res.Changed = true
	return res
}

// View returns the current view.
func (d *Dispatcher) View() View {
	v, _ := d.view.Get()
	return v
}

// Meta returns the current page metadata.
func (d *Dispatcher) Meta() Meta {
	m, _ := d.meta.Get()
	return m
}

// SubscribeView registers fn for view changes.
func (d *Dispatcher) SubscribeView(fn func(View)) (cancel func()) {
	return d.view.Subscribe(fn)
}

func (d *Dispatcher) metaFor(seo tutorial.SEO) Meta {
	title := d.appName
	if seo.Title != "" {
		title = seo.Title + " | " + d.appName
	}
	return Meta{Title: title, Description: seo.Description, Keywords: seo.Keywords}
}
