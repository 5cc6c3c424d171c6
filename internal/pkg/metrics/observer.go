package metrics

import (
	"github.com/airenas/ibm1/internal/pkg/em"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ibm1"

// Observer collects engine progress into prometheus metrics
type Observer struct {
	Iterations   prometheus.Counter
	Pairs        prometheus.Counter
	Skipped      prometheus.Counter
	MaxDelta     prometheus.Gauge
	Iteration    prometheus.Gauge
	IterationDur prometheus.Histogram

	lastDone int
}

// NewObserver creates collectors and registers them to r
func NewObserver(r prometheus.Registerer) (*Observer, error) {
	res := &Observer{}
	res.Iterations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "iterations_total",
		Help:      "Completed EM iterations",
	})
	res.Pairs = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sentence_pairs_total",
		Help:      "Processed sentence pairs over all iterations",
	})
	res.Skipped = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skipped_tokens_total",
		Help:      "English tokens skipped because of zero normalizer",
	})
	res.MaxDelta = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "max_delta",
		Help:      "Largest t(e|f) change of the last iteration",
	})
	res.Iteration = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "iteration",
		Help:      "Currently running iteration",
	})
	res.IterationDur = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "iteration_duration_seconds",
		Help:      "EM iteration duration",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16),
	})
	for _, c := range []prometheus.Collector{res.Iterations, res.Pairs, res.Skipped, res.MaxDelta,
		res.Iteration, res.IterationDur} {
		if err := Register(r, c); err != nil {
			return nil, errors.Wrap(err, "can't register metric")
		}
	}
	return res, nil
}

// IterationStarted implements em.Observer
func (o *Observer) IterationStarted(iteration, iterations int) {
	o.lastDone = 0
	o.Iteration.Set(float64(iteration))
}

// PairsProcessed implements em.Observer
func (o *Observer) PairsProcessed(iteration, done, total int) {
	if done > o.lastDone {
		o.Pairs.Add(float64(done - o.lastDone))
		o.lastDone = done
	}
}

// IterationDone implements em.Observer
func (o *Observer) IterationDone(st em.IterationStats) {
	if st.Pairs > o.lastDone {
		o.Pairs.Add(float64(st.Pairs - o.lastDone))
	}
	o.lastDone = st.Pairs
	o.Iterations.Inc()
	o.Skipped.Add(float64(st.Skipped))
	o.MaxDelta.Set(st.MaxDelta)
	o.IterationDur.Observe(st.Duration.Seconds())
}

// WriteFile writes gathered metrics in text format for the node exporter textfile collector
func WriteFile(g prometheus.Gatherer, file string) error {
	return prometheus.WriteToTextfile(file, g)
}
