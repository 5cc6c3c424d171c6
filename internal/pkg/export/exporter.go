package export

import (
	"bytes"
	"io"

	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/model"
	"github.com/pkg/errors"
)

const (
	// DefaultTranslationsFile is the default translation table report name
	DefaultTranslationsFile = "trans_table.txt"
	// DefaultViterbiFile is the default viterbi alignment report name
	DefaultViterbiFile = "viterbi_align.txt"
)

// File is named content to save
type File struct {
	Name string
	Data io.Reader
}

// Saver stores all files or none of them
type Saver interface {
	Save(files ...File) error
}

// FileExporter renders all reports and saves them together when every report is ready
type FileExporter struct {
	Saver        Saver
	Translations string
	Viterbi      string
	// Table is the yaml dump name, no dump if empty
	Table string
	Top   int
}

// NewFileExporter creates exporter with default file names
func NewFileExporter(saver Saver) (*FileExporter, error) {
	if saver == nil {
		return nil, errors.New("no saver")
	}
	return &FileExporter{Saver: saver, Translations: DefaultTranslationsFile, Viterbi: DefaultViterbiFile,
		Top: DefaultTop}, nil
}

type report struct {
	name  string
	write func(io.Writer) error
	data  bytes.Buffer
}

// Export writes reports of the table
func (e *FileExporter) Export(m *model.Model, c *corpus.Corpus) error {
	reports := make([]*report, 0, 3)
	if e.Translations != "" {
		reports = append(reports, &report{name: e.Translations,
			write: func(w io.Writer) error { return WriteTranslations(w, m, c, e.Top) }})
	}
	if e.Viterbi != "" {
		reports = append(reports, &report{name: e.Viterbi,
			write: func(w io.Writer) error { return WriteViterbi(w, m, c) }})
	}
	if e.Table != "" {
		reports = append(reports, &report{name: e.Table,
			write: func(w io.Writer) error { return WriteTable(w, m, c) }})
	}
	for _, r := range reports {
		if err := r.write(&r.data); err != nil {
			return errors.Wrapf(err, "can't prepare %s", r.name)
		}
	}
	files := make([]File, 0, len(reports))
	for _, r := range reports {
		files = append(files, File{Name: r.name, Data: &r.data})
	}
	return e.Saver.Save(files...)
}
