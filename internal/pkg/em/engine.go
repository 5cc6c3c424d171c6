package em

import (
	"context"
	"sync"
	"time"

	"github.com/airenas/ibm1/internal/pkg/candidate"
	"github.com/airenas/ibm1/internal/pkg/cmdapp"
	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/model"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Exporter writes the final table
type Exporter interface {
	Export(m *model.Model, c *corpus.Corpus) error
}

// Status is a snapshot of the engine progress
type Status struct {
	State      State   `json:"state"`
	Iteration  int     `json:"iteration"`
	Iterations int     `json:"iterations"`
	MaxDelta   float64 `json:"maxDelta"`
}

// Engine runs IBM Model 1 EM estimation over the corpus
type Engine struct {
	cfg      Config
	corpus   *corpus.Corpus
	observer Observer

	model  *model.Model
	shards []shard

	lock      sync.RWMutex
	state     State
	iteration int
	maxDelta  float64
}

type shard struct {
	pairs []corpus.SentencePair
	acc   *model.Accumulators
}

// NewEngine creates engine, observer may be nil
func NewEngine(c *corpus.Corpus, cfg Config, observer Observer) (*Engine, error) {
	if c == nil {
		return nil, errors.New("no corpus")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "wrong EM config")
	}
	if observer == nil {
		observer = noObserver{}
	}
	return &Engine{cfg: cfg, corpus: c, observer: observer, state: Uninitialized}, nil
}

// Initialize builds candidate sets and sets the table uniformly
func (e *Engine) Initialize() error {
	if err := e.checkState(Uninitialized); err != nil {
		return err
	}
	cands, err := candidate.Build(e.corpus)
	if err != nil {
		return errors.Wrap(err, "can't build candidate sets")
	}
	cmdapp.Log.Infof("Candidate sets: %d foreign tokens, %d pairs", cands.Size(), cands.Pairs())
	m := model.New(cands)
	m.Names(e.corpus.Foreign.Word)
	if err := m.InitUniform(); err != nil {
		return errors.Wrap(err, "can't init t(e|f)")
	}
	e.model = m
	e.shards = makeShards(e.corpus.Pairs, e.cfg.Workers, m)
	e.setState(Initialized)
	return nil
}

func makeShards(pairs []corpus.SentencePair, workers int, m *model.Model) []shard {
	n := workers
	if n > len(pairs) {
		n = len(pairs)
	}
	if n < 1 {
		n = 1
	}
	res := make([]shard, n)
	size := (len(pairs) + n - 1) / n
	for i := range res {
		from, to := min(i*size, len(pairs)), min((i+1)*size, len(pairs))
		res[i] = shard{pairs: pairs[from:to], acc: m.NewAccumulators()}
	}
	return res
}

// Run performs EM iterations until the iteration budget is used or the table stops changing
func (e *Engine) Run(ctx context.Context) error {
	if err := e.checkState(Initialized); err != nil {
		return err
	}
	e.setState(Iterating)
	for it := 1; it <= e.cfg.Iterations; it++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "stopped before iteration %d", it)
		}
		st, err := e.iterate(ctx, it)
		if err != nil {
			return errors.Wrapf(err, "iteration %d failed", it)
		}
		if st.Skipped > 0 {
			cmdapp.Log.Warnf("Iteration %d: skipped %d english tokens with zero normalizer", it, st.Skipped)
		}
		if e.cfg.Epsilon > 0 && st.MaxDelta <= e.cfg.Epsilon {
			cmdapp.Log.Infof("Converged after %d iterations, max delta %g <= %g", it, st.MaxDelta, e.cfg.Epsilon)
			break
		}
	}
	e.setState(Converged)
	return nil
}

func (e *Engine) iterate(ctx context.Context, it int) (IterationStats, error) {
	start := time.Now()
	e.observer.IterationStarted(it, e.cfg.Iterations)
	e.model.ZeroAccumulators()
	skipped, err := e.accumulate(ctx, it)
	if err != nil {
		return IterationStats{}, err
	}
	for _, s := range e.shards {
		e.model.Merge(s.acc)
	}
	d, err := e.model.Normalize()
	if err != nil {
		return IterationStats{}, err
	}
	e.lock.Lock()
	e.iteration, e.maxDelta = it, d
	e.lock.Unlock()
	st := IterationStats{Iteration: it, Iterations: e.cfg.Iterations, Pairs: e.corpus.Len(),
		Skipped: skipped, MaxDelta: d, Duration: time.Since(start)}
	e.observer.IterationDone(st)
	return st, nil
}

func (e *Engine) accumulate(ctx context.Context, it int) (int, error) {
	pr := &progress{observer: e.observer, iteration: it, total: e.corpus.Len()}
	if len(e.shards) == 1 {
		return e.accumulateShard(ctx, &e.shards[0], pr)
	}
	skipped := make([]int, len(e.shards))
	g, gctx := errgroup.WithContext(ctx)
	for i := range e.shards {
		i := i
		g.Go(func() error {
			var err error
			skipped[i], err = e.accumulateShard(gctx, &e.shards[i], pr)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	res := 0
	for _, s := range skipped {
		res += s
	}
	return res, nil
}

// cancelCheckEvery is how many pairs a shard processes between context checks
const cancelCheckEvery = 256

func (e *Engine) accumulateShard(ctx context.Context, s *shard, pr *progress) (int, error) {
	s.acc.Zero()
	skipped, batch := 0, 0
	for i, p := range s.pairs {
		if i%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		skipped += e.model.AccumulateInto(s.acc, p)
		batch++
		if batch == e.cfg.ProgressEvery {
			pr.add(batch)
			batch = 0
		}
	}
	if batch > 0 && e.cfg.ProgressEvery > 0 {
		pr.add(batch)
	}
	return skipped, nil
}

// Export passes the converged table to the exporter
func (e *Engine) Export(exp Exporter) error {
	if err := e.checkState(Converged); err != nil {
		return err
	}
	if err := exp.Export(e.model, e.corpus); err != nil {
		return errors.Wrap(err, "can't export results")
	}
	e.setState(Exported)
	return nil
}

// Model returns the translation model, nil before Initialize
func (e *Engine) Model() *model.Model {
	return e.model
}

// State returns current engine state
func (e *Engine) State() State {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return e.state
}

// Status returns progress snapshot, safe for concurrent use
func (e *Engine) Status() Status {
	e.lock.RLock()
	defer e.lock.RUnlock()
	return Status{State: e.state, Iteration: e.iteration, Iterations: e.cfg.Iterations, MaxDelta: e.maxDelta}
}

func (e *Engine) checkState(want State) error {
	if st := e.State(); st != want {
		return errors.Errorf("wrong engine state %s, expected %s", st, want)
	}
	return nil
}

func (e *Engine) setState(st State) {
	e.lock.Lock()
	defer e.lock.Unlock()
	cmdapp.Log.Debugf("Engine state: %s -> %s", e.state, st)
	e.state = st
}

type progress struct {
	lock      sync.Mutex
	observer  Observer
	iteration int
	done      int
	total     int
}

func (p *progress) add(n int) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.done += n
	p.observer.PairsProcessed(p.iteration, p.done, p.total)
}
