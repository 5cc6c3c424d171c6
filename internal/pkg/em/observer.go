package em

import "time"

// IterationStats keeps the result of one completed iteration
type IterationStats struct {
	Iteration  int
	Iterations int
	Pairs      int
	// Skipped is count of english tokens with zero normalizer
	Skipped  int
	MaxDelta float64
	Duration time.Duration
}

// Observer gets engine progress events. Calls are serialized by the engine
type Observer interface {
	IterationStarted(iteration, iterations int)
	PairsProcessed(iteration, done, total int)
	IterationDone(st IterationStats)
}

// Observers fans events out to several observers
type Observers []Observer

// IterationStarted implements Observer
func (o Observers) IterationStarted(iteration, iterations int) {
	for _, ob := range o {
		ob.IterationStarted(iteration, iterations)
	}
}

// PairsProcessed implements Observer
func (o Observers) PairsProcessed(iteration, done, total int) {
	for _, ob := range o {
		ob.PairsProcessed(iteration, done, total)
	}
}

// IterationDone implements Observer
func (o Observers) IterationDone(st IterationStats) {
	for _, ob := range o {
		ob.IterationDone(st)
	}
}

type noObserver struct{}

func (noObserver) IterationStarted(int, int)    {}
func (noObserver) PairsProcessed(int, int, int) {}
func (noObserver) IterationDone(IterationStats) {}
