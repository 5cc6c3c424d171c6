package model

import (
	"fmt"
	"math"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/candidate"
	"github.com/airenas/ibm1/internal/pkg/corpus"
)

// Entry is one t(e|f) value
type Entry struct {
	English int
	Prob    float64
}

// Model owns the translation table t(e|f) and the iteration accumulators.
// Table rows are aligned with candidate set rows
type Model struct {
	cands *candidate.Set
	prob  [][]float64
	acc   *Accumulators
	names func(f int) string
}

// New creates model over the candidate sets. Probabilities are zero until InitUniform
func New(cands *candidate.Set) *Model {
	res := &Model{cands: cands, prob: make([][]float64, cands.Size())}
	for f := range res.prob {
		res.prob[f] = make([]float64, len(cands.Row(f)))
	}
	res.acc = res.NewAccumulators()
	return res
}

// Candidates returns candidate sets of the model
func (m *Model) Candidates() *candidate.Set {
	return m.cands
}

// InitUniform sets t(e|f) = 1/|candidates(f)|
func (m *Model) InitUniform() error {
	var empty []string
	for f, row := range m.prob {
		if len(row) == 0 {
			empty = append(empty, m.tokenName(f))
		}
	}
	if len(empty) > 0 {
		return apperr.WithTokens(apperr.Initialization, "foreign tokens have no candidates", empty)
	}
	for _, row := range m.prob {
		u := 1.0 / float64(len(row))
		for i := range row {
			row[i] = u
		}
	}
	return nil
}

// ZeroAccumulators resets count(e,f) and total(f)
func (m *Model) ZeroAccumulators() {
	m.acc.Zero()
}

// Accumulate adds expected counts of the pair into the model accumulators.
// Returns count of english tokens skipped because of zero normalizer
func (m *Model) Accumulate(p corpus.SentencePair) int {
	return m.AccumulateInto(m.acc, p)
}

// AccumulateInto adds expected counts of the pair into acc. The table is only read,
// so several accumulators can be filled concurrently
func (m *Model) AccumulateInto(acc *Accumulators, p corpus.SentencePair) int {
	skipped := 0
	for _, e := range p.English {
		s := 0.0
		for _, f := range p.Foreign {
			if i, ok := m.cands.Slot(f, e); ok {
				s += m.prob[f][i]
			}
		}
		if s == 0 {
			skipped++
			continue
		}
		for _, f := range p.Foreign {
			i, ok := m.cands.Slot(f, e)
			if !ok {
				continue
			}
			v := m.prob[f][i] / s
			acc.count[f][i] += v
			acc.total[f] += v
		}
	}
	return skipped
}

// Merge adds acc into the model accumulators
func (m *Model) Merge(acc *Accumulators) {
	m.acc.Add(acc)
}

// Normalize sets t(e|f) = count(e,f)/total(f) and returns the largest absolute change.
// Fails without touching the table if any total(f) is zero
func (m *Model) Normalize() (float64, error) {
	for f, t := range m.acc.total {
		if t == 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, &apperr.Error{Kind: apperr.NumericDegeneracy, Msg: "division by zero: total(f) is zero",
				Tokens: []string{m.tokenName(f)}}
		}
	}
	maxDelta := 0.0
	for f, row := range m.prob {
		cnt, t := m.acc.count[f], m.acc.total[f]
		for i := range row {
			v := cnt[i] / t
			if d := math.Abs(v - row[i]); d > maxDelta {
				maxDelta = d
			}
			row[i] = v
		}
	}
	return maxDelta, nil
}

// Names sets a function to resolve foreign token names for error messages
func (m *Model) Names(fn func(f int) string) {
	m.names = fn
}

func (m *Model) tokenName(f int) string {
	if m.names != nil {
		return m.names(f)
	}
	return fmt.Sprintf("#%d", f)
}

// Prob returns t(e|f), zero if e is not a candidate of f
func (m *Model) Prob(f, e int) float64 {
	if i, ok := m.cands.Slot(f, e); ok {
		return m.prob[f][i]
	}
	return 0
}

// Row returns t(.|f) entries in candidate order
func (m *Model) Row(f int) []Entry {
	cands := m.cands.Row(f)
	res := make([]Entry, len(cands))
	for i, e := range cands {
		res[i] = Entry{English: e, Prob: m.prob[f][i]}
	}
	return res
}

// RowSum returns sum of t(.|f)
func (m *Model) RowSum(f int) float64 {
	res := 0.0
	for _, p := range m.prob[f] {
		res += p
	}
	return res
}

// Size returns count of foreign tokens in the table
func (m *Model) Size() int {
	return len(m.prob)
}
