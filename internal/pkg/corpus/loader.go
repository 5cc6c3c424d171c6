package corpus

import (
	"bufio"
	"io"
	"os"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// DefaultMaxLineBytes is the default longest accepted line
const DefaultMaxLineBytes = 1024 * 1024

// OpenFileFunc declares function to open file by name
type OpenFileFunc func(fileName string) (io.ReadCloser, error)

// Loader loads aligned corpus from two local files
type Loader struct {
	MaxLineBytes int
	OpenFileFunc OpenFileFunc
}

// NewLoader creates Loader instance
func NewLoader(maxLineBytes int) (*Loader, error) {
	if maxLineBytes < 0 {
		return nil, errors.Errorf("wrong max line size %d", maxLineBytes)
	}
	if maxLineBytes == 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Loader{MaxLineBytes: maxLineBytes, OpenFileFunc: openFile}, nil
}

// Load reads english and foreign files, line i of each file forms a sentence pair
func (l *Loader) Load(englishFile, foreignFile string) (*Corpus, error) {
	cmdapp.Log.Infof("Loading corpus: %s, %s", englishFile, foreignFile)
	en, err := l.readLines(englishFile)
	if err != nil {
		return nil, err
	}
	fr, err := l.readLines(foreignFile)
	if err != nil {
		return nil, err
	}
	if len(en) != len(fr) {
		return nil, apperr.Newf(apperr.Format, "files are not line aligned: %s has %d lines, %s has %d lines",
			englishFile, len(en), foreignFile, len(fr))
	}
	res, err := FromSentences(en, fr)
	if err != nil {
		return nil, err
	}
	cmdapp.Log.Infof("Loaded %d sentence pairs, vocabulary sizes: english %d, foreign %d",
		res.Len(), res.English.Size(), res.Foreign.Size())
	return res, nil
}

func (l *Loader) readLines(fileName string) ([]string, error) {
	f, err := l.OpenFileFunc(fileName)
	if err != nil {
		return nil, apperr.WrapIO(err, "open", fileName)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, min(64*1024, l.MaxLineBytes)), l.MaxLineBytes)
	res := make([]string, 0)
	for scanner.Scan() {
		res = append(res, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.WrapIO(err, "read", fileName)
	}
	return res, nil
}

func openFile(fileName string) (io.ReadCloser, error) {
	return os.Open(fileName)
}
