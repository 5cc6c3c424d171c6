package corpus

// Vocabulary interns tokens of one language. Ids are given in first occurrence order
type Vocabulary struct {
	ids   map[string]int
	words []string
}

// NewVocabulary creates empty vocabulary
func NewVocabulary() *Vocabulary {
	return &Vocabulary{ids: make(map[string]int)}
}

func (v *Vocabulary) add(w string) int {
	id, f := v.ids[w]
	if !f {
		id = len(v.words)
		v.ids[w] = id
		v.words = append(v.words, w)
	}
	return id
}

func (v *Vocabulary) addAll(ws []string) []int {
	res := make([]int, len(ws))
	for i, w := range ws {
		res[i] = v.add(w)
	}
	return res
}

// ID returns token id
func (v *Vocabulary) ID(w string) (int, bool) {
	id, f := v.ids[w]
	return id, f
}

// Word returns token by id
func (v *Vocabulary) Word(id int) string {
	return v.words[id]
}

// Words maps ids to tokens
func (v *Vocabulary) Words(ids []int) []string {
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = v.words[id]
	}
	return res
}

// Size returns count of distinct tokens
func (v *Vocabulary) Size() int {
	return len(v.words)
}
