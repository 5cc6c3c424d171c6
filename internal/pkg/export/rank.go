package export

import (
	"sort"

	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/model"
)

// Translation is one english token with t(e|f)
type Translation struct {
	Word string  `yaml:"word"`
	Prob float64 `yaml:"prob"`
}

// Less orders by probability descending, then by word ascending
func Less(a, b Translation) bool {
	if a.Prob != b.Prob {
		return a.Prob > b.Prob
	}
	return a.Word < b.Word
}

// Rank sorts translations by Less
func Rank(tr []Translation) {
	sort.SliceStable(tr, func(i, j int) bool { return Less(tr[i], tr[j]) })
}

// Ranked returns all candidates of foreign token f ranked, zero probabilities included
func Ranked(m *model.Model, c *corpus.Corpus, f int) []Translation {
	row := m.Row(f)
	res := make([]Translation, len(row))
	for i, e := range row {
		res[i] = Translation{Word: c.English.Word(e.English), Prob: e.Prob}
	}
	Rank(res)
	return res
}

// ForeignOrder returns foreign token ids ordered by token
func ForeignOrder(c *corpus.Corpus) []int {
	res := make([]int, c.Foreign.Size())
	for i := range res {
		res[i] = i
	}
	sort.Slice(res, func(i, j int) bool { return c.Foreign.Word(res[i]) < c.Foreign.Word(res[j]) })
	return res
}
