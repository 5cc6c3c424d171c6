package model

// Accumulators keeps count(e,f) and total(f) for one iteration
type Accumulators struct {
	count [][]float64
	total []float64
}

// NewAccumulators creates zeroed accumulators shaped as the model table
func (m *Model) NewAccumulators() *Accumulators {
	res := &Accumulators{count: make([][]float64, len(m.prob)), total: make([]float64, len(m.prob))}
	for f, row := range m.prob {
		res.count[f] = make([]float64, len(row))
	}
	return res
}

// Zero resets all values
func (a *Accumulators) Zero() {
	for f, row := range a.count {
		for i := range row {
			row[i] = 0
		}
		a.total[f] = 0
	}
}

// Add sums o into a
func (a *Accumulators) Add(o *Accumulators) {
	for f, row := range o.count {
		dst := a.count[f]
		for i, v := range row {
			dst[i] += v
		}
		a.total[f] += o.total[f]
	}
}
