package corpus

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoader(t *testing.T, files map[string]string) *Loader {
	l, err := NewLoader(0)
	require.Nil(t, err)
	l.OpenFileFunc = func(file string) (io.ReadCloser, error) {
		d, f := files[file]
		if !f {
			return nil, errors.New("no file")
		}
		return io.NopCloser(strings.NewReader(d)), nil
	}
	return l
}

func TestLoad(t *testing.T) {
	l := newTestLoader(t, map[string]string{"en": "the book\na book\n", "de": "das buch\nein buch\n"})
	c, err := l.Load("en", "de")
	require.Nil(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, c.English.Size())
	assert.Equal(t, 3, c.Foreign.Size())
	en, de := pairWords(c, c.Pairs[1])
	assert.Equal(t, []string{"a", "book"}, en)
	assert.Equal(t, []string{"ein", "buch"}, de)
}

func TestLoad_NoTrailingNewLine(t *testing.T) {
	l := newTestLoader(t, map[string]string{"en": "the book\na book", "de": "das buch\nein buch\n"})
	c, err := l.Load("en", "de")
	require.Nil(t, err)
	assert.Equal(t, 2, c.Len())
}

func TestLoad_KeepsPunctuationAndEmptyLines(t *testing.T) {
	l := newTestLoader(t, map[string]string{"en": "the book.\n\n", "de": "das  buch.\t\r\nja\n"})
	c, err := l.Load("en", "de")
	require.Nil(t, err)
	assert.Equal(t, 2, c.Len())
	en, de := pairWords(c, c.Pairs[0])
	assert.Equal(t, []string{"the", "book."}, en)
	assert.Equal(t, []string{"das", "buch."}, de)
	assert.Empty(t, c.Pairs[1].English)
	assert.Equal(t, 1, len(c.Pairs[1].Foreign))
}

func TestLoad_FailsOnMismatch(t *testing.T) {
	l := newTestLoader(t, map[string]string{"en": "the book\na book\n", "de": "das buch\n"})
	c, err := l.Load("en", "de")
	assert.Nil(t, c)
	require.NotNil(t, err)
	assert.Equal(t, apperr.Format, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "en has 2 lines")
}

func TestLoad_FailsOnOpen(t *testing.T) {
	l := newTestLoader(t, map[string]string{"en": "the book\n"})
	_, err := l.Load("en", "de")
	require.NotNil(t, err)
	assert.Equal(t, apperr.IO, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "de")
}

func TestLoad_FailsOnLongLine(t *testing.T) {
	l := newTestLoader(t, map[string]string{"en": strings.Repeat("a", 100), "de": "b"})
	l.MaxLineBytes = 10
	_, err := l.Load("en", "de")
	require.NotNil(t, err)
	assert.Equal(t, apperr.IO, apperr.KindOf(err))
}

func TestLoad_Disk(t *testing.T) {
	dir := t.TempDir()
	en, de := filepath.Join(dir, "toy.en"), filepath.Join(dir, "toy.de")
	require.Nil(t, os.WriteFile(en, []byte("the house\n"), 0644))
	require.Nil(t, os.WriteFile(de, []byte("das haus\n"), 0644))
	l, err := NewLoader(0)
	require.Nil(t, err)
	c, err := l.Load(en, de)
	require.Nil(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestNewLoader(t *testing.T) {
	l, err := NewLoader(0)
	assert.Nil(t, err)
	assert.Equal(t, DefaultMaxLineBytes, l.MaxLineBytes)
	_, err = NewLoader(-1)
	assert.NotNil(t, err)
}

func pairWords(c *Corpus, p SentencePair) ([]string, []string) {
	return c.English.Words(p.English), c.Foreign.Words(p.Foreign)
}
