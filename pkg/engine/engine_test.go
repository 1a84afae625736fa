package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowlayout/pkg/analyzer"
	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/errors"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/graph/graphtest"
	"github.com/matzehuels/flowlayout/pkg/layout"
	"github.com/matzehuels/flowlayout/pkg/optimizer"
)

func approval() *graph.Graph {
	return graphtest.Build([]string{"start", "check", "approve", "reject", "end"},
		[2]string{"start", "check"},
		[2]string{"check", "approve"},
		[2]string{"check", "reject"},
		[2]string{"approve", "end"},
		[2]string{"reject", "end"})
}

func tree() *graph.Graph {
	return graphtest.Build([]string{"A", "B", "C", "D"},
		[2]string{"A", "B"}, [2]string{"A", "C"}, [2]string{"C", "D"})
}

// fakeAlgorithm lets tests control execution.
type fakeAlgorithm struct {
	layout.Algorithm
	name  layout.AlgorithmName
	run   func(g *graph.Graph) map[string]layout.Position
	calls atomic.Int32
}

func (f *fakeAlgorithm) Name() layout.AlgorithmName { return f.name }

func (f *fakeAlgorithm) DefaultConfig() layout.Config {
	return layout.Config{Algorithm: f.name}
}

func (f *fakeAlgorithm) Execute(_ context.Context, g *graph.Graph, _ layout.Config) (map[string]layout.Position, error) {
	f.calls.Add(1)
	return f.run(g), nil
}

func newFake(name layout.AlgorithmName, run func(g *graph.Graph) map[string]layout.Position) *fakeAlgorithm {
	return &fakeAlgorithm{Algorithm: layout.NewGrid(), name: name, run: run}
}

type recorder struct {
	events []Event
}

func (r *recorder) listen(e *Engine, types ...EventType) {
	for _, t := range types {
		e.On(t, func(ev Event) { r.events = append(r.events, ev) })
	}
}

func (r *recorder) types() []EventType {
	out := make([]EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func TestLayoutCommitsAndEmits(t *testing.T) {
	e := New(Options{})
	rec := &recorder{}
	rec.listen(e, EventLayoutStarted, EventLayoutCompleted, EventLayoutFailed, EventNodePositionUpdate, EventEdgePathUpdate)

	g := approval()
	res, err := e.Layout(context.Background(), g, layout.Config{Algorithm: layout.NameHierarchical, EdgePaths: true})
	require.NoError(t, err)

	assert.Len(t, res.NodePositions, 5)
	assert.Len(t, res.EdgePaths, 5)
	require.NotNil(t, res.Metrics)
	assert.Equal(t, 0, res.Metrics.Crossings)
	assert.Equal(t, layout.TopBottom, res.Config.Direction)

	cur, ok := e.Current()
	require.True(t, ok)
	assert.Same(t, res, cur.Result)
	assert.Len(t, e.History(), 1)

	types := rec.types()
	require.Len(t, types, 2+5+5)
	assert.Equal(t, EventLayoutStarted, types[0])
	assert.Equal(t, EventLayoutCompleted, types[1])
	for _, typ := range types[2:7] {
		assert.Equal(t, EventNodePositionUpdate, typ)
	}
	assert.Equal(t, "start", rec.events[2].NodeID)
	for _, typ := range types[7:] {
		assert.Equal(t, EventEdgePathUpdate, typ)
	}
}

func TestLayoutDefaultsToHierarchical(t *testing.T) {
	e := New(Options{})
	cfg, err := e.MergeConfig(layout.Config{})
	require.NoError(t, err)
	assert.Equal(t, layout.NameHierarchical, cfg.Algorithm)
	assert.NotNil(t, cfg.NodeSpacing)
	assert.NotNil(t, cfg.LevelSpacing)
}

func TestLayoutFailuresLeaveHistoryUntouched(t *testing.T) {
	ctx := context.Background()
	g := approval()

	tests := []struct {
		name string
		cfg  layout.Config
		code errors.Code
	}{
		{"unknown algorithm", layout.Config{Algorithm: "spiral"}, errors.ErrCodeInvalidAlgorithm},
		{"negative spacing", layout.Config{Algorithm: layout.NameGrid, NodeSpacing: &layout.Spacing{Horizontal: -1}}, errors.ErrCodeInvalidConfig},
		{"bad direction", layout.Config{Algorithm: layout.NameTree, Direction: "UP"}, errors.ErrCodeInvalidDirection},
		{"angle out of range", layout.Config{Algorithm: layout.NameCircular, Options: layout.Options{
			Circular: &layout.CircularOptions{StartAngle: layout.Float(400)},
		}}, errors.ErrCodeInvalidConfig},
		{"missing root", layout.Config{Algorithm: layout.NameTree, Options: layout.Options{
			Tree: &layout.TreeOptions{RootID: "nope"},
		}}, errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(Options{})
			first, err := e.Layout(ctx, g, layout.Config{Algorithm: layout.NameGrid})
			require.NoError(t, err)

			var failed []error
			e.On(EventLayoutFailed, func(ev Event) { failed = append(failed, ev.Err) })

			_, err = e.Layout(ctx, g, tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			require.Len(t, failed, 1)
			assert.Equal(t, err, failed[0])

			cur, ok := e.Current()
			require.True(t, ok)
			assert.Same(t, first, cur.Result)
			assert.Len(t, e.History(), 1)
		})
	}
}

func TestInvalidConfigEmitsOnlyFailed(t *testing.T) {
	ctx := context.Background()
	bad := layout.Config{Algorithm: layout.NameGrid, NodeSpacing: &layout.Spacing{Horizontal: -1}}

	e := New(Options{})
	rec := &recorder{}
	rec.listen(e, EventLayoutStarted, EventLayoutFailed)

	_, err := e.Layout(ctx, approval(), bad)
	require.Error(t, err)
	_, err = e.Optimize(ctx, approval(), bad, optimizer.Options{})
	require.Error(t, err)

	assert.Equal(t, []EventType{EventLayoutFailed, EventLayoutFailed}, rec.types())
}

func TestLayoutRecoversPanics(t *testing.T) {
	e := New(Options{})
	require.NoError(t, e.Register(newFake("boom", func(*graph.Graph) map[string]layout.Position {
		panic("index out of range")
	})))

	_, err := e.Layout(context.Background(), approval(), layout.Config{Algorithm: "boom"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
	assert.Empty(t, e.History())
}

func TestLayoutRejectsIncompleteResults(t *testing.T) {
	e := New(Options{})
	require.NoError(t, e.Register(newFake("lazy", func(*graph.Graph) map[string]layout.Position {
		return map[string]layout.Position{"start": {}}
	})))

	_, err := e.Layout(context.Background(), approval(), layout.Config{Algorithm: "lazy"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
	assert.Contains(t, err.Error(), "check")
}

func TestPreviewDoesNotCommit(t *testing.T) {
	e := New(Options{})
	var events int
	e.On(EventLayoutCompleted, func(Event) { events++ })
	e.On(EventNodePositionUpdate, func(Event) { events++ })

	res, err := e.Preview(context.Background(), approval(), layout.Config{Algorithm: layout.NameCircular})
	require.NoError(t, err)
	assert.Len(t, res.NodePositions, 5)
	assert.Empty(t, e.History())
	assert.Zero(t, events)
}

func TestApplyTemplate(t *testing.T) {
	ctx := context.Background()
	e := New(Options{})
	g := approval()

	for _, tpl := range e.Templates() {
		t.Run(tpl.Name, func(t *testing.T) {
			res, err := e.ApplyTemplate(ctx, g, tpl.Name)
			require.NoError(t, err)
			assert.Equal(t, tpl.Config.Algorithm, res.Config.Algorithm)
			assert.Len(t, res.NodePositions, 5)
		})
	}

	_, err := e.ApplyTemplate(ctx, g, "spiral-galaxy")
	assert.True(t, errors.Is(err, errors.ErrCodeTemplateNotFound))
}

func TestRegisterTemplate(t *testing.T) {
	e := New(Options{})

	err := e.RegisterTemplate(Template{Name: "wide-grid", Config: layout.Config{
		Algorithm: layout.NameGrid,
		Options:   layout.Options{Grid: &layout.GridOptions{Columns: 8}},
	}})
	require.NoError(t, err)
	tpl, err := e.Template("wide-grid")
	require.NoError(t, err)
	assert.Equal(t, 8, tpl.Config.Options.Grid.Columns)
	assert.Len(t, e.Templates(), len(BuiltinTemplates())+1)

	err = e.RegisterTemplate(Template{Name: "Bad Name", Config: layout.Config{Algorithm: layout.NameGrid}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	err = e.RegisterTemplate(Template{Name: "bad-grid", Config: layout.Config{
		Algorithm: layout.NameGrid,
		Options:   layout.Options{Grid: &layout.GridOptions{Columns: -1}},
	}})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestHistoryBrowsing(t *testing.T) {
	ctx := context.Background()
	e := New(Options{HistorySize: 3})
	g := approval()

	var results []*layout.Result
	for _, name := range []layout.AlgorithmName{layout.NameGrid, layout.NameTree, layout.NameCircular, layout.NameHierarchical, layout.NameGrid} {
		res, err := e.Layout(ctx, g, layout.Config{Algorithm: name})
		require.NoError(t, err)
		results = append(results, res)
	}

	hist := e.History()
	require.Len(t, hist, 3)
	assert.Same(t, results[2], hist[0].Result)
	assert.Same(t, results[4], hist[2].Result)

	var restored int
	e.On(EventNodePositionUpdate, func(Event) { restored++ })

	entry, err := e.Back(ctx, g)
	require.NoError(t, err)
	assert.Same(t, results[3], entry.Result)
	assert.Equal(t, 5, restored)

	_, err = e.Back(ctx, g)
	require.NoError(t, err)
	_, err = e.Back(ctx, g)
	assert.True(t, errors.Is(err, errors.ErrCodeHistoryEmpty))

	entry, err = e.Forward(ctx, g)
	require.NoError(t, err)
	assert.Same(t, results[3], entry.Result)

	// a new layout drops the entry after the cursor
	res, err := e.Layout(ctx, g, layout.Config{Algorithm: layout.NameTree})
	require.NoError(t, err)
	hist = e.History()
	require.Len(t, hist, 3)
	assert.Same(t, res, hist[2].Result)
	_, err = e.Forward(ctx, g)
	assert.True(t, errors.Is(err, errors.ErrCodeHistoryEmpty))
}

func TestHistoryIDsAreUnique(t *testing.T) {
	h := NewHistory(0)
	assert.Equal(t, DefaultHistorySize, h.Cap())

	seen := map[string]bool{}
	for range 30 {
		e := h.Push(&layout.Result{})
		assert.False(t, seen[e.ID.String()])
		seen[e.ID.String()] = true
	}
	assert.Equal(t, DefaultHistorySize, h.Len())
}

func TestSuggestionsForTree(t *testing.T) {
	e := New(Options{})
	got, err := e.Suggestions(context.Background(), tree())
	require.NoError(t, err)

	require.Len(t, got, 5)
	assert.Equal(t, layout.NameTree, got[0].Algorithm)
	assert.GreaterOrEqual(t, got[0].Confidence, categoryBonus+tierBonus)
	assert.Contains(t, got[0].Reason, "tree")
	assert.Contains(t, got[0].Reason, "parallel process")
	// the input carries no coordinates, so every node starts stacked
	assert.Contains(t, got[0].Resolves, optimizer.IssueOverlap)
	assert.Contains(t, got[0].Benefits, "no overlapping nodes")
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Confidence, got[i].Confidence)
	}
	for _, s := range got {
		assert.LessOrEqual(t, s.Confidence, 1.0)
		assert.Equal(t, s.Algorithm, s.Config.Algorithm)
	}
	assert.Empty(t, e.History(), "suggestions must not commit")
}

func TestSuggestionsForSmallCycle(t *testing.T) {
	e := New(Options{})
	g := graphtest.Chain("a", "b", "c", "d")
	g.Edges = append(g.Edges, graph.Edge{Source: "d", Target: "a"})

	got, err := e.Suggestions(context.Background(), g)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, layout.NameCircular, got[0].Algorithm)
}

func TestReview(t *testing.T) {
	e := New(Options{})
	var rec recorder
	rec.listen(e, EventLayoutStarted, EventLayoutCompleted, EventLayoutFailed)

	rv, err := e.Review(context.Background(), approval())
	require.NoError(t, err)
	require.NotNil(t, rv.Analysis.Process)
	assert.Equal(t, analyzer.ProcessParallel, rv.Analysis.Process.PrimaryType)
	assert.Equal(t, []string{"check"}, rv.Analysis.Process.Forks)

	require.NotEmpty(t, rv.Fixes)
	assert.Equal(t, optimizer.IssueOverlap, rv.Fixes[0].Issue)
	assert.Equal(t, 10, rv.Fixes[0].Priority)
	assert.True(t, rv.Fixes[0].AutoFixable)
	for i := 1; i < len(rv.Fixes); i++ {
		assert.GreaterOrEqual(t, rv.Fixes[i-1].Priority, rv.Fixes[i].Priority)
	}

	assert.Empty(t, rec.events, "review must not lay out")
	assert.Empty(t, e.History())
}

func TestReviewOfCleanLayout(t *testing.T) {
	e := New(Options{})
	g := graphtest.Chain("a", "b", "c")
	for i := range g.Nodes {
		g.Nodes[i].Y = float64(i) * 100
	}

	rv, err := e.Review(context.Background(), g)
	require.NoError(t, err)
	assert.Empty(t, rv.Fixes)
	assert.Empty(t, rv.Evaluation.Issues)
	assert.Equal(t, analyzer.ProcessSequential, rv.Analysis.Process.PrimaryType)
}

func TestOptimizeCommitsBest(t *testing.T) {
	e := New(Options{OptimizeIterations: 6})
	var completed int
	e.On(EventLayoutCompleted, func(Event) { completed++ })

	out, err := e.Optimize(context.Background(), approval(), layout.Config{Algorithm: layout.NameGrid}, optimizer.Options{})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, out.BestScore, out.BaseScore)
	assert.LessOrEqual(t, out.Evaluated, 7)
	assert.Equal(t, out.Evaluated, out.Result.Metrics.Iterations)
	assert.InDelta(t, out.BestScore, out.Result.Metrics.Quality, 1e-9)
	assert.Equal(t, 1, completed)

	cur, ok := e.Current()
	require.True(t, ok)
	assert.Same(t, out.Result, cur.Result)
}

func TestOptimizeInvalidConfig(t *testing.T) {
	e := New(Options{})
	_, err := e.Optimize(context.Background(), approval(),
		layout.Config{Algorithm: layout.NameGrid, LevelSpacing: layout.Float(-5)}, optimizer.Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
	assert.Empty(t, e.History())
}

func TestOperationsAreSerialised(t *testing.T) {
	e := New(Options{})
	rec := &recorder{}
	rec.listen(e, EventLayoutStarted, EventLayoutFailed)
	require.NoError(t, e.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := e.Layout(ctx, approval(), layout.Config{Algorithm: layout.NameGrid})
	assert.True(t, errors.Is(err, errors.ErrCodeCanceled))
	_, err = e.Optimize(ctx, approval(), layout.Config{Algorithm: layout.NameGrid}, optimizer.Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeCanceled))
	assert.Equal(t, []EventType{EventLayoutFailed, EventLayoutFailed}, rec.types())

	e.release()
	_, err = e.Layout(context.Background(), approval(), layout.Config{Algorithm: layout.NameGrid})
	assert.NoError(t, err)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(Options{})
	_, err := e.Layout(ctx, approval(), layout.Config{Algorithm: layout.NameHierarchical})
	assert.True(t, errors.Is(err, errors.ErrCodeCanceled))
	assert.Empty(t, e.History())

	_, err = e.Analyze(ctx, approval())
	assert.True(t, errors.Is(err, errors.ErrCodeCanceled))
}

func TestLayoutCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	e := New(Options{Cache: fc})
	grid := newFake(layout.NameGrid, nil)
	inner := layout.NewGrid()
	grid.run = func(g *graph.Graph) map[string]layout.Position {
		pos, _ := inner.Execute(ctx, g, layout.Merge(inner.DefaultConfig(), layout.GlobalDefaults()))
		return pos
	}
	require.NoError(t, e.Register(grid))

	g := approval()
	first, err := e.Layout(ctx, g, layout.Config{Algorithm: layout.NameGrid})
	require.NoError(t, err)
	second, err := e.Layout(ctx, g, layout.Config{Algorithm: layout.NameGrid})
	require.NoError(t, err)

	assert.Equal(t, int32(1), grid.calls.Load())
	assert.Equal(t, first.NodePositions, second.NodePositions)

	// a different config misses
	_, err = e.Layout(ctx, g, layout.Config{Algorithm: layout.NameGrid, Direction: layout.LeftRight})
	require.NoError(t, err)
	assert.Equal(t, int32(2), grid.calls.Load())
}

func TestAnalyzeCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	e := New(Options{Cache: fc})

	a1, err := e.Analyze(ctx, tree())
	require.NoError(t, err)
	a2, err := e.Analyze(ctx, tree())
	require.NoError(t, err)
	assert.Equal(t, a1, a2)
	assert.True(t, a2.IsTree)
}

func TestListenerUnsubscribe(t *testing.T) {
	e := New(Options{})
	var n int
	off := e.On(EventLayoutCompleted, func(Event) { n++ })

	_, err := e.Layout(context.Background(), tree(), layout.Config{Algorithm: layout.NameTree})
	require.NoError(t, err)
	off()
	_, err = e.Layout(context.Background(), tree(), layout.Config{Algorithm: layout.NameTree})
	require.NoError(t, err)

	assert.Equal(t, 1, n)
}

func TestRegister(t *testing.T) {
	e := New(Options{})
	assert.Len(t, e.Algorithms(), 5)

	assert.Error(t, e.Register(nil))
	require.NoError(t, e.Register(newFake("custom", func(g *graph.Graph) map[string]layout.Position {
		out := map[string]layout.Position{}
		for i, id := range g.NodeIDs() {
			out[id] = layout.Position{X: float64(i)}
		}
		return out
	})))
	assert.Len(t, e.Algorithms(), 6)

	res, err := e.Layout(context.Background(), tree(), layout.Config{Algorithm: "custom"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.NodePositions["D"].X)
}
