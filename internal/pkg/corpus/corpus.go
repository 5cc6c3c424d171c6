package corpus

import (
	"strings"

	"github.com/airenas/ibm1/internal/pkg/apperr"
)

// SentencePair keeps one aligned line pair. English is the first language file,
// Foreign is the second one. Tokens are ids in the corpus vocabularies
type SentencePair struct {
	English []int
	Foreign []int
}

// Corpus keeps the aligned sentence pairs in file order and the vocabularies
type Corpus struct {
	Pairs   []SentencePair
	English *Vocabulary
	Foreign *Vocabulary
}

// FromSentences builds corpus from aligned lines, line i of english pairs with line i of foreign
func FromSentences(english, foreign []string) (*Corpus, error) {
	if len(english) != len(foreign) {
		return nil, apperr.Newf(apperr.Format, "line count mismatch: %d english lines, %d foreign lines",
			len(english), len(foreign))
	}
	res := &Corpus{English: NewVocabulary(), Foreign: NewVocabulary()}
	res.Pairs = make([]SentencePair, 0, len(english))
	for i := range english {
		res.add(english[i], foreign[i])
	}
	return res, nil
}

func (c *Corpus) add(english, foreign string) {
	c.Pairs = append(c.Pairs, SentencePair{English: c.English.addAll(Tokenize(english)),
		Foreign: c.Foreign.addAll(Tokenize(foreign))})
}

// Len returns number of sentence pairs
func (c *Corpus) Len() int {
	return len(c.Pairs)
}

// Tokenize splits line by whitespace, punctuation is left as is
func Tokenize(line string) []string {
	return strings.Fields(line)
}
