package progress

import (
	"sync"

	"github.com/airenas/ibm1/internal/pkg/em"
	"github.com/sirupsen/logrus"
)

// Percent returns rounded percentage of done from total
func Percent(done, total int) int32 {
	if total <= 0 {
		return 100
	}
	if done >= total {
		return 100
	}
	return int32((done*100 + total/2) / total)
}

// LogObserver logs engine progress
type LogObserver struct {
	log  *logrus.Entry
	step int32

	lock sync.Mutex
	last int32
}

// NewLogObserver creates observer, step is the smallest percentage increase worth a log line
func NewLogObserver(log *logrus.Entry, step int32) *LogObserver {
	if step < 1 {
		step = 1
	}
	return &LogObserver{log: log, step: step}
}

// IterationStarted implements em.Observer
func (o *LogObserver) IterationStarted(iteration, iterations int) {
	o.lock.Lock()
	o.last = 0
	o.lock.Unlock()
	o.log.Debugf("Loop %d/%d started", iteration, iterations)
}

// PairsProcessed implements em.Observer
func (o *LogObserver) PairsProcessed(iteration, done, total int) {
	pr := Percent(done, total)
	o.lock.Lock()
	defer o.lock.Unlock()
	if pr-o.last < o.step && pr < 100 {
		return
	}
	o.last = pr
	o.log.Infof("Loop %d: %d%% (%d/%d)", iteration, pr, done, total)
}

// IterationDone implements em.Observer
func (o *LogObserver) IterationDone(st em.IterationStats) {
	o.log.WithField("maxDelta", st.MaxDelta).WithField("skipped", st.Skipped).
		Infof("Loop %d/%d completed in %v", st.Iteration, st.Iterations, st.Duration)
}
