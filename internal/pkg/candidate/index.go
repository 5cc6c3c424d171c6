package candidate

import (
	"sort"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/corpus"
)

// Set keeps the possible english translations for every foreign token.
// Rows are indexed by foreign token id and hold english ids in ascending order
type Set struct {
	rows  [][]int
	slots []map[int]int
}

// Build makes candidate sets with one pass over the corpus: every foreign token of a pair
// gets all english tokens of the same pair
func Build(c *corpus.Corpus) (*Set, error) {
	n := c.Foreign.Size()
	seen := make([]map[int]struct{}, n)
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}
	done := make(map[int]bool)
	for _, p := range c.Pairs {
		for k := range done {
			delete(done, k)
		}
		for _, f := range p.Foreign {
			if done[f] {
				continue
			}
			done[f] = true
			for _, e := range p.English {
				seen[f][e] = struct{}{}
			}
		}
	}

	res := &Set{rows: make([][]int, n), slots: make([]map[int]int, n)}
	var empty []string
	for f, es := range seen {
		if len(es) == 0 {
			empty = append(empty, c.Foreign.Word(f))
			continue
		}
		row := make([]int, 0, len(es))
		for e := range es {
			row = append(row, e)
		}
		sort.Ints(row)
		sl := make(map[int]int, len(row))
		for i, e := range row {
			sl[e] = i
		}
		res.rows[f], res.slots[f] = row, sl
	}
	if len(empty) > 0 {
		sort.Strings(empty)
		return nil, apperr.WithTokens(apperr.Initialization, "empty candidate set for foreign tokens", empty)
	}
	return res, nil
}

// Size returns count of foreign tokens
func (s *Set) Size() int {
	return len(s.rows)
}

// Row returns english candidate ids of foreign token f
func (s *Set) Row(f int) []int {
	return s.rows[f]
}

// Slot returns position of e in the row of f
func (s *Set) Slot(f, e int) (int, bool) {
	i, ok := s.slots[f][e]
	return i, ok
}

// Contains reports whether e is a candidate of f
func (s *Set) Contains(f, e int) bool {
	_, ok := s.slots[f][e]
	return ok
}

// Pairs returns total count of (f, e) candidate pairs
func (s *Set) Pairs() int {
	res := 0
	for _, r := range s.rows {
		res += len(r)
	}
	return res
}
