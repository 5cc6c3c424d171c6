package em

import (
	"context"
	"fmt"
	"testing"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testEn = []string{"the book", "the house", "a book", "a small house", "the small book"}
	testDe = []string{"das buch", "das haus", "ein buch", "ein kleines haus", "das kleine buch"}
)

func newTestCorpus(t *testing.T, en, fr []string) *corpus.Corpus {
	c, err := corpus.FromSentences(en, fr)
	require.Nil(t, err)
	return c
}

func newTestEngine(t *testing.T, c *corpus.Corpus, cfg Config, ob Observer) *Engine {
	e, err := NewEngine(c, cfg, ob)
	require.Nil(t, err)
	require.Nil(t, e.Initialize())
	return e
}

func testConfig(k int) Config {
	cfg := DefaultConfig()
	cfg.Iterations = k
	return cfg
}

func prob(e *Engine, c *corpus.Corpus, en, fr string) float64 {
	ei, _ := c.English.ID(en)
	fi, _ := c.Foreign.ID(fr)
	return e.Model().Prob(fi, ei)
}

func TestNewEngine_Fails(t *testing.T) {
	_, err := NewEngine(nil, DefaultConfig(), nil)
	assert.NotNil(t, err)
	c := newTestCorpus(t, testEn, testDe)
	_, err = NewEngine(c, testConfig(0), nil)
	assert.NotNil(t, err)
	cfg := DefaultConfig()
	cfg.Workers = 0
	_, err = NewEngine(c, cfg, nil)
	assert.NotNil(t, err)
	cfg = DefaultConfig()
	cfg.Epsilon = -1
	_, err = NewEngine(c, cfg, nil)
	assert.NotNil(t, err)
}

func TestScenarioA(t *testing.T) {
	c := newTestCorpus(t, []string{"the book"}, []string{"das buch"})
	e := newTestEngine(t, c, testConfig(1), nil)
	assert.Equal(t, Initialized, e.State())
	assert.Equal(t, 0.5, prob(e, c, "the", "das"))
	assert.Equal(t, 0.5, prob(e, c, "book", "das"))
	assert.Equal(t, 0.5, prob(e, c, "the", "buch"))
	assert.Equal(t, 0.5, prob(e, c, "book", "buch"))

	require.Nil(t, e.Run(context.Background()))
	assert.Equal(t, Converged, e.State())
	for f := 0; f < e.Model().Size(); f++ {
		assert.InDelta(t, 1.0, e.Model().RowSum(f), 1e-9)
	}
}

func TestScenarioB(t *testing.T) {
	c := newTestCorpus(t, []string{"the", "the", "the"}, []string{"das", "das", "das"})
	e := newTestEngine(t, c, testConfig(10), nil)
	require.Nil(t, e.Run(context.Background()))
	assert.InDelta(t, 1.0, prob(e, c, "the", "das"), 1e-3)
}

func TestScenarioB_Mixed(t *testing.T) {
	c := newTestCorpus(t, []string{"the book", "the house", "the car"}, []string{"das buch", "das haus", "das auto"})
	e := newTestEngine(t, c, testConfig(30), nil)
	require.Nil(t, e.Run(context.Background()))
	assert.InDelta(t, 1.0, prob(e, c, "the", "das"), 1e-3)
}

func TestScenarioC(t *testing.T) {
	c := newTestCorpus(t, []string{"the book", ""}, []string{"das buch", "ja nein"})
	e, err := NewEngine(c, DefaultConfig(), nil)
	require.Nil(t, err)
	err = e.Initialize()
	require.NotNil(t, err)
	assert.Equal(t, apperr.Initialization, apperr.KindOf(err))
	assert.Equal(t, []string{"ja", "nein"}, apperr.TokensOf(err))
	assert.Equal(t, Uninitialized, e.State())
	assert.NotNil(t, e.Run(context.Background()))
}

func TestProperties(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	ob := &statsObserver{}
	e := newTestEngine(t, c, testConfig(15), ob)
	m := e.Model()
	ob.check = func(st IterationStats) {
		for f := 0; f < m.Size(); f++ {
			assert.InDelta(t, 1.0, m.RowSum(f), 1e-9)
			for _, en := range m.Row(f) {
				assert.True(t, en.Prob >= 0 && en.Prob <= 1)
			}
		}
	}
	require.Nil(t, e.Run(context.Background()))
	assert.Equal(t, 15, len(ob.stats))
}

func TestDeterministic(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	e1 := newTestEngine(t, c, testConfig(20), nil)
	e2 := newTestEngine(t, c, testConfig(20), nil)
	require.Nil(t, e1.Run(context.Background()))
	require.Nil(t, e2.Run(context.Background()))
	assertSameTables(t, e1.Model(), e2.Model(), 0)
}

func TestParallelMatchesSequential(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	e1 := newTestEngine(t, c, testConfig(20), nil)
	cfg := testConfig(20)
	cfg.Workers = 3
	e2 := newTestEngine(t, c, cfg, nil)
	assert.Equal(t, 3, len(e2.shards))
	require.Nil(t, e1.Run(context.Background()))
	require.Nil(t, e2.Run(context.Background()))
	assertSameTables(t, e1.Model(), e2.Model(), 1e-12)
}

func TestShards(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	cfg := testConfig(1)
	cfg.Workers = 10
	e := newTestEngine(t, c, cfg, nil)
	assert.Equal(t, 5, len(e.shards))
	cfg.Workers = 2
	e = newTestEngine(t, c, cfg, nil)
	require.Equal(t, 2, len(e.shards))
	assert.Equal(t, 3, len(e.shards[0].pairs))
	assert.Equal(t, 2, len(e.shards[1].pairs))
}

func assertSameTables(t *testing.T, m1, m2 *model.Model, delta float64) {
	require.Equal(t, m1.Size(), m2.Size())
	for f := 0; f < m1.Size(); f++ {
		r1, r2 := m1.Row(f), m2.Row(f)
		require.Equal(t, len(r1), len(r2))
		for i := range r1 {
			assert.Equal(t, r1[i].English, r2[i].English)
			assert.InDelta(t, r1[i].Prob, r2[i].Prob, delta)
		}
	}
}

func TestEpsilonStopsEarly(t *testing.T) {
	c := newTestCorpus(t, []string{"the book"}, []string{"das buch"})
	cfg := testConfig(50)
	cfg.Epsilon = 1e-6
	ob := &statsObserver{}
	e := newTestEngine(t, c, cfg, ob)
	require.Nil(t, e.Run(context.Background()))
	assert.Equal(t, 1, len(ob.stats))
	assert.Equal(t, 1, e.Status().Iteration)
	assert.Equal(t, Converged, e.State())
}

func TestObserverCalls(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	cfg := testConfig(2)
	cfg.ProgressEvery = 2
	ob := &mockObserver{}
	ob.On("IterationStarted", mock.Anything, 2).Return()
	ob.On("PairsProcessed", mock.Anything, mock.Anything, 5).Return()
	ob.On("IterationDone", mock.Anything).Return()
	e := newTestEngine(t, c, cfg, ob)
	require.Nil(t, e.Run(context.Background()))

	ob.AssertNumberOfCalls(t, "IterationStarted", 2)
	ob.AssertNumberOfCalls(t, "IterationDone", 2)
	ob.AssertNumberOfCalls(t, "PairsProcessed", 6)
	ob.AssertCalled(t, "PairsProcessed", 1, 2, 5)
	ob.AssertCalled(t, "PairsProcessed", 2, 4, 5)
	ob.AssertCalled(t, "PairsProcessed", 2, 5, 5)
}

func TestNoProgressCallbacks(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	cfg := testConfig(1)
	cfg.ProgressEvery = 0
	ob := &mockObserver{}
	ob.On("IterationStarted", mock.Anything, mock.Anything).Return()
	ob.On("IterationDone", mock.Anything).Return()
	e := newTestEngine(t, c, cfg, ob)
	require.Nil(t, e.Run(context.Background()))
	ob.AssertNotCalled(t, "PairsProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestObserversFanOut(t *testing.T) {
	o1, o2 := &statsObserver{}, &statsObserver{}
	c := newTestCorpus(t, testEn, testDe)
	e := newTestEngine(t, c, testConfig(3), Observers{o1, o2})
	require.Nil(t, e.Run(context.Background()))
	assert.Equal(t, 3, len(o1.stats))
	assert.Equal(t, 3, len(o2.stats))
	assert.Equal(t, 5, o1.stats[0].Pairs)
	assert.True(t, o1.stats[0].MaxDelta > 0)
}

func TestCanceled(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	e := newTestEngine(t, c, testConfig(3), nil)
	ctx, cf := context.WithCancel(context.Background())
	cf()
	err := e.Run(ctx)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotNil(t, e.Export(&testExporter{}))
}

func TestCanceled_InsideIteration(t *testing.T) {
	for _, w := range []int{1, 2} {
		t.Run(fmt.Sprintf("workers %d", w), func(t *testing.T) {
			c := newTestCorpus(t, testEn, testDe)
			cfg := testConfig(3)
			cfg.ProgressEvery = 0
			cfg.Workers = w
			ctx, cf := context.WithCancel(context.Background())
			defer cf()
			ob := &mockObserver{}
			ob.On("IterationStarted", mock.Anything, mock.Anything).Run(func(mock.Arguments) { cf() }).Return()
			ob.On("IterationDone", mock.Anything).Return()
			e := newTestEngine(t, c, cfg, ob)

			err := e.Run(ctx)
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, context.Canceled))
			ob.AssertNumberOfCalls(t, "IterationStarted", 1)
			ob.AssertNotCalled(t, "IterationDone", mock.Anything)
		})
	}
}

func TestStateFlow(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	e, err := NewEngine(c, testConfig(2), nil)
	require.Nil(t, err)
	assert.Equal(t, Uninitialized, e.State())
	assert.NotNil(t, e.Run(context.Background()))
	assert.NotNil(t, e.Export(&testExporter{}))
	require.Nil(t, e.Initialize())
	assert.NotNil(t, e.Initialize())
	require.Nil(t, e.Run(context.Background()))
	assert.NotNil(t, e.Run(context.Background()))
	exp := &testExporter{}
	require.Nil(t, e.Export(exp))
	assert.True(t, exp.called)
	assert.Equal(t, Exported, e.State())
	assert.Equal(t, Status{State: Exported, Iteration: 2, Iterations: 2, MaxDelta: e.Status().MaxDelta}, e.Status())
}

func TestExportFails(t *testing.T) {
	c := newTestCorpus(t, testEn, testDe)
	e := newTestEngine(t, c, testConfig(1), nil)
	require.Nil(t, e.Run(context.Background()))
	err := e.Export(&testExporter{err: errors.New("olia")})
	assert.NotNil(t, err)
	assert.Equal(t, Converged, e.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ITERATING", Iterating.String())
	assert.Equal(t, "UNKNOWN", State(100).String())
	b, err := Exported.MarshalText()
	assert.Nil(t, err)
	assert.Equal(t, "EXPORTED", string(b))
}

type statsObserver struct {
	stats []IterationStats
	check func(IterationStats)
}

func (o *statsObserver) IterationStarted(int, int)    {}
func (o *statsObserver) PairsProcessed(int, int, int) {}
func (o *statsObserver) IterationDone(st IterationStats) {
	o.stats = append(o.stats, st)
	if o.check != nil {
		o.check(st)
	}
}

type mockObserver struct {
	mock.Mock
}

func (o *mockObserver) IterationStarted(iteration, iterations int) {
	o.Called(iteration, iterations)
}

func (o *mockObserver) PairsProcessed(iteration, done, total int) {
	o.Called(iteration, done, total)
}

func (o *mockObserver) IterationDone(st IterationStats) {
	o.Called(st)
}

type testExporter struct {
	called bool
	err    error
}

func (e *testExporter) Export(m *model.Model, c *corpus.Corpus) error {
	e.called = true
	return e.err
}
