package export

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/model"
	"github.com/pkg/errors"
)

// DefaultTop is the default count of translations per foreign token
const DefaultTop = 5

// WriteTranslations writes `<word>:- (e1, p1), (e2, p2), ` lines with top ranked translations
func WriteTranslations(w io.Writer, m *model.Model, c *corpus.Corpus, top int) error {
	if top < 1 {
		return errors.Errorf("wrong top %d", top)
	}
	bw := bufio.NewWriter(w)
	for _, f := range ForeignOrder(c) {
		tr := Ranked(m, c, f)
		if len(tr) > top {
			tr = tr[:top]
		}
		bw.WriteString(TranslationLine(c.Foreign.Word(f), tr))
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// TranslationLine formats one translation report line
func TranslationLine(word string, tr []Translation) string {
	var sb strings.Builder
	sb.WriteString(word)
	sb.WriteString(":- ")
	for _, t := range tr {
		sb.WriteString("(")
		sb.WriteString(t.Word)
		sb.WriteString(", ")
		sb.WriteString(FormatProb(t.Prob))
		sb.WriteString("), ")
	}
	return sb.String()
}

// WriteViterbi writes `<word> = <top_e>` lines
func WriteViterbi(w io.Writer, m *model.Model, c *corpus.Corpus) error {
	bw := bufio.NewWriter(w)
	for _, f := range ForeignOrder(c) {
		tr := Ranked(m, c, f)
		if len(tr) == 0 {
			return errors.Errorf("no translations for %s", c.Foreign.Word(f))
		}
		bw.WriteString(c.Foreign.Word(f))
		bw.WriteString(" = ")
		bw.WriteString(tr[0].Word)
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// FormatProb prints value with 12 significant digits, integral values end with ".0"
func FormatProb(p float64) string {
	res := strconv.FormatFloat(p, 'g', 12, 64)
	if !strings.ContainsAny(res, ".eIN") {
		res += ".0"
	}
	return res
}
