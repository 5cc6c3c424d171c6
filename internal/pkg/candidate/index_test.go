package candidate

import (
	"testing"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCorpus(t *testing.T, en, fr []string) *corpus.Corpus {
	c, err := corpus.FromSentences(en, fr)
	require.Nil(t, err)
	return c
}

func words(c *corpus.Corpus, s *Set, f string) []string {
	id, ok := c.Foreign.ID(f)
	if !ok {
		return nil
	}
	return c.English.Words(s.Row(id))
}

func TestBuild(t *testing.T) {
	c := newCorpus(t, []string{"the book", "the house", "a book"}, []string{"das buch", "das haus", "ein buch"})
	s, err := Build(c)
	require.Nil(t, err)
	assert.Equal(t, 4, s.Size())
	assert.Equal(t, []string{"the", "book", "house"}, words(c, s, "das"))
	assert.Equal(t, []string{"the", "book", "a"}, words(c, s, "buch"))
	assert.Equal(t, []string{"the", "house"}, words(c, s, "haus"))
	assert.Equal(t, []string{"book", "a"}, words(c, s, "ein"))
	assert.Equal(t, 10, s.Pairs())
}

func TestBuild_ExactTokens(t *testing.T) {
	c := newCorpus(t, []string{"cat", "dog"}, []string{"katze", "kat"})
	s, err := Build(c)
	require.Nil(t, err)
	assert.Equal(t, []string{"dog"}, words(c, s, "kat"))
	assert.Equal(t, []string{"cat"}, words(c, s, "katze"))
}

func TestBuild_Repeats(t *testing.T) {
	c := newCorpus(t, []string{"a a b"}, []string{"x x"})
	s, err := Build(c)
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "b"}, words(c, s, "x"))
}

func TestBuild_IffProperty(t *testing.T) {
	en := []string{"the red car", "a car", "the house is red", "", "red"}
	fr := []string{"das rote auto", "ein auto", "das haus ist rot", "", "rot rote"}
	c := newCorpus(t, en, fr)
	s, err := Build(c)
	require.Nil(t, err)
	for f := 0; f < c.Foreign.Size(); f++ {
		for e := 0; e < c.English.Size(); e++ {
			assert.Equal(t, cooccur(c, f, e), s.Contains(f, e), "%s-%s", c.Foreign.Word(f), c.English.Word(e))
		}
	}
}

func cooccur(c *corpus.Corpus, f, e int) bool {
	for _, p := range c.Pairs {
		if has(p.Foreign, f) && has(p.English, e) {
			return true
		}
	}
	return false
}

func has(ids []int, v int) bool {
	for _, i := range ids {
		if i == v {
			return true
		}
	}
	return false
}

func TestBuild_Slot(t *testing.T) {
	c := newCorpus(t, []string{"the book"}, []string{"das buch"})
	s, err := Build(c)
	require.Nil(t, err)
	b, _ := c.English.ID("book")
	i, ok := s.Slot(0, b)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = s.Slot(0, 5)
	assert.False(t, ok)
}

func TestBuild_FailsOnEmpty(t *testing.T) {
	c := newCorpus(t, []string{"the book", ""}, []string{"das buch", "ja nein das"})
	s, err := Build(c)
	assert.Nil(t, s)
	require.NotNil(t, err)
	assert.Equal(t, apperr.Initialization, apperr.KindOf(err))
	assert.Equal(t, []string{"ja", "nein"}, apperr.TokensOf(err))
}
