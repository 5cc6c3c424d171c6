package export

import (
	"io"

	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/model"
	"gopkg.in/yaml.v2"
)

// WriteTable writes the full ranked table as yaml: foreign token -> list of translations
func WriteTable(w io.Writer, m *model.Model, c *corpus.Corpus) error {
	data := make(map[string][]Translation, c.Foreign.Size())
	for f := 0; f < c.Foreign.Size(); f++ {
		data[c.Foreign.Word(f)] = Ranked(m, c, f)
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
