package engine

import (
	"context"
	"encoding/json"
	"io"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/analyzer"
	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/observability"
	"github.com/matzehuels/flowlayout/pkg/optimizer"
)

// Options configures [New]. Zero values select defaults.
type Options struct {
	// Cache stores positions of deterministic layouts and analyses. Nil
	// disables caching.
	Cache cache.Cache

	// Keyer builds cache keys. Defaults to cache.NewDefaultKeyer().
	Keyer cache.Keyer

	// CacheTTL is passed to every cache write. Zero keeps entries forever.
	CacheTTL time.Duration

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger

	// HistorySize bounds the layout history. Defaults to DefaultHistorySize.
	HistorySize int

	// OptimizeIterations is used when an Optimize call leaves
	// MaxIterations unset.
	OptimizeIterations int

	// DefaultAlgorithm fills configs that name no algorithm. Defaults to
	// hierarchical.
	DefaultAlgorithm layout.AlgorithmName
}

// Engine resolves configs, runs algorithms and keeps the committed history.
//
// Layout operations (Layout, Preview, Optimize, ApplyTemplate, Suggestions,
// Back and Forward) are serialised: a call waits for the one in flight, and
// gives up with a CANCELED error when its context ends first. Analyze and
// the read-only accessors never wait.
type Engine struct {
	sem chan struct{}

	mu         sync.RWMutex
	algorithms map[layout.AlgorithmName]layout.Algorithm
	order      []layout.AlgorithmName
	templates  *templateSet

	history *History
	events  emitter

	cache              cache.Cache
	keyer              cache.Keyer
	ttl                time.Duration
	logger             *log.Logger
	optimizeIterations int
	defaultAlgorithm   layout.AlgorithmName
}

// New returns an engine with the built-in algorithms and templates.
func New(opts Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Keyer == nil {
		opts.Keyer = cache.NewDefaultKeyer()
	}
	if opts.DefaultAlgorithm == "" {
		opts.DefaultAlgorithm = layout.NameHierarchical
	}

	e := &Engine{
		sem:                make(chan struct{}, 1),
		algorithms:         make(map[layout.AlgorithmName]layout.Algorithm),
		templates:          newTemplateSet(),
		history:            NewHistory(opts.HistorySize),
		cache:              opts.Cache,
		keyer:              opts.Keyer,
		ttl:                opts.CacheTTL,
		logger:             opts.Logger,
		optimizeIterations: opts.OptimizeIterations,
		defaultAlgorithm:   opts.DefaultAlgorithm,
	}
	for _, a := range layout.Builtins() {
		e.algorithms[a.Name()] = a
		e.order = append(e.order, a.Name())
	}
	for _, t := range BuiltinTemplates() {
		e.templates.add(t)
	}
	return e
}

// =============================================================================
// Registry
// =============================================================================

// Register adds a custom algorithm, replacing any algorithm of the same
// name.
func (e *Engine) Register(a layout.Algorithm) error {
	if a == nil || a.Name() == "" {
		return errors.New(errors.ErrCodeInvalidInput, "algorithm must have a name")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.algorithms[a.Name()]; !ok {
		e.order = append(e.order, a.Name())
	}
	e.algorithms[a.Name()] = a
	return nil
}

// Algorithm returns the registered algorithm with the given name.
func (e *Engine) Algorithm(name layout.AlgorithmName) (layout.Algorithm, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.algorithms[name]
	if !ok {
		names := make([]string, len(e.order))
		for i, n := range e.order {
			names[i] = string(n)
		}
		return nil, errors.New(errors.ErrCodeInvalidAlgorithm,
			"unknown layout algorithm %q (available: %s)", name, strings.Join(names, ", "))
	}
	return a, nil
}

// Algorithms returns the registered algorithms in registration order.
func (e *Engine) Algorithms() []layout.Algorithm {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]layout.Algorithm, len(e.order))
	for i, n := range e.order {
		out[i] = e.algorithms[n]
	}
	return out
}

// MergeConfig layers cfg over the algorithm's defaults over the global
// defaults. An empty algorithm name selects the engine default.
func (e *Engine) MergeConfig(cfg layout.Config) (layout.Config, error) {
	_, merged, err := e.resolve(cfg)
	return merged, err
}

func (e *Engine) resolve(cfg layout.Config) (layout.Algorithm, layout.Config, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = e.defaultAlgorithm
	}
	a, err := e.Algorithm(cfg.Algorithm)
	if err != nil {
		return nil, layout.Config{}, err
	}
	return a, layout.Merge(cfg, a.DefaultConfig(), layout.GlobalDefaults()), nil
}

// =============================================================================
// Templates
// =============================================================================

// Templates returns the known templates, built-ins first.
func (e *Engine) Templates() []Template {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.templates.list()
}

// Template returns the template with the given name.
func (e *Engine) Template(name string) (Template, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.templates.get(name)
}

// RegisterTemplate adds or replaces a template after checking that its
// config resolves and validates.
func (e *Engine) RegisterTemplate(t Template) error {
	if err := errors.ValidateTemplateName(t.Name); err != nil {
		return err
	}
	a, merged, err := e.resolve(t.Config)
	if err != nil {
		return err
	}
	if err := a.Validate(merged); err != nil {
		return errors.Wrap(errors.GetCode(err), err, "template %q", t.Name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates.add(t)
	return nil
}

// =============================================================================
// Events
// =============================================================================

// On registers fn for events of type t and returns a function that removes
// it.
func (e *Engine) On(t EventType, fn Listener) func() {
	return e.events.on(t, fn)
}

// =============================================================================
// Layout Operations
// =============================================================================

func (e *Engine) acquire(ctx context.Context) error {
	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return errors.Canceled(ctx)
	}
}

func (e *Engine) release() { <-e.sem }

// Layout computes a layout of g, records it in the history and emits
// layout:completed followed by one node:position:update per node and one
// edge:path:update per computed path.
//
// Config and validation errors fail before the graph is read and before
// layout:started is emitted. On any failure, waiting for a slot included,
// layout:failed is emitted and the history is left untouched.
func (e *Engine) Layout(ctx context.Context, g *graph.Graph, cfg layout.Config) (*layout.Result, error) {
	if err := e.acquire(ctx); err != nil {
		return nil, e.fail(err)
	}
	defer e.release()
	return e.layout(ctx, g, cfg)
}

// Preview computes a layout like [Engine.Layout] without recording it or
// emitting events.
func (e *Engine) Preview(ctx context.Context, g *graph.Graph, cfg layout.Config) (*layout.Result, error) {
	if err := e.acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release()

	a, merged, err := e.resolve(cfg)
	if err != nil {
		return nil, err
	}
	return e.compute(ctx, g, a, merged)
}

// ApplyTemplate runs [Engine.Layout] with the named template's config.
func (e *Engine) ApplyTemplate(ctx context.Context, g *graph.Graph, name string) (*layout.Result, error) {
	t, err := e.Template(name)
	if err != nil {
		return nil, err
	}
	return e.Layout(ctx, g, t.Config)
}

func (e *Engine) layout(ctx context.Context, g *graph.Graph, cfg layout.Config) (*layout.Result, error) {
	a, merged, err := e.resolve(cfg)
	if err != nil {
		return nil, e.fail(err)
	}
	if err := a.Validate(merged); err != nil {
		return nil, e.fail(err)
	}
	e.events.emit(Event{Type: EventLayoutStarted, Config: &merged})

	res, err := e.compute(ctx, g, a, merged)
	if err != nil {
		return nil, e.fail(err)
	}
	e.commit(g, res)
	return res, nil
}

// compute validates cfg and runs a against g, serving deterministic layouts
// from the cache when possible.
func (e *Engine) compute(ctx context.Context, g *graph.Graph, a layout.Algorithm, cfg layout.Config) (*layout.Result, error) {
	if err := a.Validate(cfg); err != nil {
		return nil, err
	}
	if err := errors.Canceled(ctx); err != nil {
		return nil, err
	}

	name := string(a.Name())
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, name, g.NodeCount())

	positions, cached, err := e.positions(ctx, g, a, cfg)
	if err == nil {
		err = checkComplete(g, a.Name(), positions)
	}
	duration := time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, name, duration, err)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("layout computed",
		"algorithm", name,
		"nodes", len(positions),
		"cached", cached,
		"duration", duration)
	return buildResult(g, cfg, positions, duration, 1), nil
}

func (e *Engine) positions(ctx context.Context, g *graph.Graph, a layout.Algorithm, cfg layout.Config) (map[string]layout.Position, bool, error) {
	var key string
	if e.cache != nil && layout.Deterministic(a.Name()) {
		key = e.keyer.LayoutKey(g.Hash(), cfg)
		data, hit, err := e.cache.Get(ctx, key)
		if err != nil {
			e.logger.Warn("layout cache read failed", "err", err)
		}
		if hit {
			var pos map[string]layout.Position
			if err := json.Unmarshal(data, &pos); err == nil {
				return pos, true, nil
			}
		}
	}

	pos, err := execute(ctx, a, g, cfg)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		data, err := json.Marshal(pos)
		if err == nil {
			err = e.cache.Set(ctx, key, data, e.ttl)
		}
		if err != nil {
			e.logger.Warn("layout cache write failed", "err", err)
		}
	}
	return pos, false, nil
}

// execute runs a and turns panics and uncoded errors into INTERNAL_ERROR.
func execute(ctx context.Context, a layout.Algorithm, g *graph.Graph, cfg layout.Config) (pos map[string]layout.Position, err error) {
	defer func() {
		if r := recover(); r != nil {
			pos = nil
			err = errors.New(errors.ErrCodeInternal, "%s layout panicked: %v", a.Name(), r)
		}
	}()
	pos, err = a.Execute(ctx, g, cfg)
	if err != nil && errors.GetCode(err) == "" {
		err = errors.Wrap(errors.ErrCodeInternal, err, "%s layout failed", a.Name())
	}
	return pos, err
}

// checkComplete rejects position maps that miss a node id.
func checkComplete(g *graph.Graph, name layout.AlgorithmName, positions map[string]layout.Position) error {
	for _, id := range g.NodeIDs() {
		if _, ok := positions[id]; !ok {
			return errors.New(errors.ErrCodeInternal, "%s layout returned no position for node %q", name, id)
		}
	}
	return nil
}

func buildResult(g *graph.Graph, cfg layout.Config, positions map[string]layout.Position, d time.Duration, iterations int) *layout.Result {
	ev := optimizer.Evaluate(g, positions)
	res := &layout.Result{
		NodePositions: positions,
		Config:        cfg,
		Metrics: &layout.Metrics{
			Duration:   d,
			Crossings:  ev.Crossings,
			Bounds:     ev.Bounds,
			Quality:    ev.Score,
			Iterations: iterations,
		},
	}
	if cfg.EdgePaths {
		res.EdgePaths = layout.StraightPaths(g, positions)
	}
	return res
}

func (e *Engine) commit(g *graph.Graph, res *layout.Result) {
	e.history.Push(res)
	e.events.emit(Event{Type: EventLayoutCompleted, Result: res})
	e.events.emitPositions(g.NodeIDs(), res)
}

func (e *Engine) fail(err error) error {
	e.logger.Debug("layout failed", "err", err)
	e.events.emit(Event{Type: EventLayoutFailed, Err: err})
	return err
}

// =============================================================================
// Optimize
// =============================================================================

// Optimized is the outcome of [Engine.Optimize].
type Optimized struct {
	Result    *layout.Result `json:"result" yaml:"result"`
	BaseScore float64        `json:"baseScore" yaml:"baseScore"`
	BestScore float64        `json:"bestScore" yaml:"bestScore"`
	Candidate int            `json:"candidate" yaml:"candidate"`
	Evaluated int            `json:"evaluated" yaml:"evaluated"`
}

// Optimize searches perturbations of cfg for a better scoring layout and
// commits the best one like [Engine.Layout]. The committed result carries the
// winning config.
func (e *Engine) Optimize(ctx context.Context, g *graph.Graph, cfg layout.Config, opts optimizer.Options) (*Optimized, error) {
	if err := e.acquire(ctx); err != nil {
		return nil, e.fail(err)
	}
	defer e.release()

	a, merged, err := e.resolve(cfg)
	if err != nil {
		return nil, e.fail(err)
	}
	if err := a.Validate(merged); err != nil {
		return nil, e.fail(err)
	}
	e.events.emit(Event{Type: EventLayoutStarted, Config: &merged})
	if opts.MaxIterations == 0 {
		opts.MaxIterations = e.optimizeIterations
	}

	name := string(a.Name())
	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, name, g.NodeCount())
	out, err := optimizer.Optimize(ctx, safeAlgorithm{a}, g, merged, opts)
	if err == nil {
		err = checkComplete(g, a.Name(), out.Best.Positions)
	}
	duration := time.Since(start)
	observability.Layout().OnLayoutComplete(ctx, name, duration, err)
	if err != nil {
		return nil, e.fail(err)
	}

	improvement := out.Best.Evaluation.Score - out.Base.Evaluation.Score
	observability.Layout().OnOptimize(ctx, name, out.Evaluated, improvement, duration)
	e.logger.Debug("layout optimized",
		"algorithm", name,
		"candidates", out.Evaluated,
		"best", out.Best.Index,
		"improvement", improvement,
		"duration", duration)

	res := buildResult(g, out.Best.Config, out.Best.Positions, duration, out.Evaluated)
	e.commit(g, res)
	return &Optimized{
		Result:    res,
		BaseScore: out.Base.Evaluation.Score,
		BestScore: out.Best.Evaluation.Score,
		Candidate: out.Best.Index,
		Evaluated: out.Evaluated,
	}, nil
}

// safeAlgorithm recovers panics of candidates run on optimizer goroutines.
type safeAlgorithm struct {
	layout.Algorithm
}

func (s safeAlgorithm) Execute(ctx context.Context, g *graph.Graph, cfg layout.Config) (map[string]layout.Position, error) {
	return execute(ctx, s.Algorithm, g, cfg)
}

// =============================================================================
// Analysis
// =============================================================================

// Analyze returns the topology analysis of g, from the cache when one is
// configured.
func (e *Engine) Analyze(ctx context.Context, g *graph.Graph) (*analyzer.Analysis, error) {
	if err := errors.Canceled(ctx); err != nil {
		return nil, err
	}

	var key string
	if e.cache != nil {
		key = e.keyer.AnalysisKey(g.Hash())
		if data, hit, err := e.cache.Get(ctx, key); err == nil && hit {
			var a analyzer.Analysis
			if err := json.Unmarshal(data, &a); err == nil {
				return &a, nil
			}
		}
	}

	start := time.Now()
	a := analyzer.Analyze(g)
	duration := time.Since(start)
	observability.Layout().OnAnalyze(ctx, a.NodeCount, duration)
	e.logger.Debug("graph analyzed", "nodes", a.NodeCount, "edges", a.EdgeCount, "duration", duration)

	if key != "" {
		if data, err := json.Marshal(a); err == nil {
			if err := e.cache.Set(ctx, key, data, e.ttl); err != nil {
				e.logger.Warn("analysis cache write failed", "err", err)
			}
		}
	}
	return a, nil
}

// =============================================================================
// History
// =============================================================================

// History returns the committed layouts oldest first.
func (e *Engine) History() []Entry {
	return e.history.Entries()
}

// Current returns the history entry under the cursor.
func (e *Engine) Current() (Entry, bool) {
	return e.history.Current()
}

// Back moves the history cursor one entry back and emits position updates
// for the restored layout. It fails with HISTORY_EMPTY at the oldest entry.
func (e *Engine) Back(ctx context.Context, g *graph.Graph) (Entry, error) {
	return e.browse(ctx, g, e.history.Back)
}

// Forward moves the history cursor one entry forward and emits position
// updates for the restored layout. It fails with HISTORY_EMPTY at the newest
// entry.
func (e *Engine) Forward(ctx context.Context, g *graph.Graph) (Entry, error) {
	return e.browse(ctx, g, e.history.Forward)
}

func (e *Engine) browse(ctx context.Context, g *graph.Graph, move func() (Entry, error)) (Entry, error) {
	if err := e.acquire(ctx); err != nil {
		return Entry{}, err
	}
	defer e.release()

	entry, err := move()
	if err != nil {
		return Entry{}, err
	}
	var ids []string
	if g != nil {
		ids = g.NodeIDs()
	} else {
		ids = slices.Sorted(maps.Keys(entry.Result.NodePositions))
	}
	e.events.emitPositions(ids, entry.Result)
	return entry, nil
}
