package text

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordTokenizer(t *testing.T) {
	tok := NewWordTokenizer()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lowercases", "Hello World", []string{"hello", "world"}},
		{"strips punctuation", "good, really good!", []string{"good", "really", "good"}},
		{"keeps digits", "rated 5 stars", []string{"rated", "5", "stars"}},
		{"keeps accents", "está muy bueno", []string{"está", "muy", "bueno"}},
		{"empty", "...", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.in))
		})
	}
}

func TestBuildVocabulary(t *testing.T) {
	docs := [][]string{
		{"good", "movie", "good"},
		{"bad", "movie"},
	}
	v := BuildVocabulary(docs, VocabularyConfig{})

	assert.Equal(t, int32(PadID), v.ID(PadToken))
	assert.Equal(t, int32(UnkID), v.ID(UnkToken))
	assert.Equal(t, 5, v.Size()) // pad, unk, good, movie, bad

	// Most frequent corpus tokens come first after the reserved ids.
	assert.Equal(t, int32(2), v.ID("good"))
	assert.Equal(t, int32(3), v.ID("movie"))
	assert.Equal(t, int32(4), v.ID("bad"))
}

func TestVocabularyUnknown(t *testing.T) {
	v := BuildVocabulary([][]string{{"known"}}, VocabularyConfig{})
	assert.Equal(t, int32(UnkID), v.ID("missing"))
	assert.False(t, v.Contains("missing"))
	assert.True(t, v.Contains("known"))
}

func TestVocabularyMinCount(t *testing.T) {
	docs := [][]string{{"common", "common", "rare"}}
	v := BuildVocabulary(docs, VocabularyConfig{MinCount: 2})

	assert.True(t, v.Contains("common"))
	assert.False(t, v.Contains("rare"))
}

func TestVocabularyMaxSize(t *testing.T) {
	docs := [][]string{{"a", "a", "a", "b", "b", "c"}}
	v := BuildVocabulary(docs, VocabularyConfig{MaxSize: 4})

	// pad + unk + 2 most frequent
	assert.Equal(t, 4, v.Size())
	assert.True(t, v.Contains("a"))
	assert.True(t, v.Contains("b"))
	assert.False(t, v.Contains("c"))
}

func TestVocabularyEncode(t *testing.T) {
	v := BuildVocabulary([][]string{{"good", "movie"}}, VocabularyConfig{})
	ids := v.Encode([]string{"good", "unseen", "movie"})
	assert.Equal(t, []int32{v.ID("good"), UnkID, v.ID("movie")}, ids)
}

func TestVocabularyRoundTrip(t *testing.T) {
	v := BuildVocabulary([][]string{{"hola", "mundo"}}, VocabularyConfig{})
	for _, token := range []string{"hola", "mundo", PadToken, UnkToken} {
		assert.Equal(t, token, v.Token(v.ID(token)))
	}
}

func TestVocabEncoder(t *testing.T) {
	v := BuildVocabulary([][]string{{"great", "film"}}, VocabularyConfig{})
	enc := NewVocabEncoder(NewWordTokenizer(), v)

	ids := enc.Encode("Great FILM, great!")
	assert.Equal(t, []int32{v.ID("great"), v.ID("film"), v.ID("great")}, ids)
	assert.Equal(t, v.Size(), enc.VocabSize())
}

func TestReadWordVectors(t *testing.T) {
	input := "the 0.1 0.2 0.3\ncat -0.5 0.0 1.5\n"
	wv, err := ReadWordVectors(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, wv.Dim())
	assert.Equal(t, 2, wv.Len())

	vec, ok := wv.Vector("cat")
	require.True(t, ok)
	assert.Equal(t, []float32{-0.5, 0.0, 1.5}, vec)

	_, ok = wv.Vector("dog")
	assert.False(t, ok)
}

func TestReadWordVectorsHeader(t *testing.T) {
	input := "2 3\nthe 0.1 0.2 0.3\ncat 0.4 0.5 0.6\n"
	wv, err := ReadWordVectors(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, wv.Len())
	assert.Equal(t, 3, wv.Dim())
}

func TestReadWordVectorsDimensionMismatch(t *testing.T) {
	input := "the 0.1 0.2\ncat 0.1 0.2 0.3\n"
	_, err := ReadWordVectors(strings.NewReader(input))
	assert.Error(t, err)
}

func TestReadWordVectorsEmpty(t *testing.T) {
	_, err := ReadWordVectors(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadWordVectorsGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("the 0.1 0.2\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "vectors.txt.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	wv, err := LoadWordVectors(path)
	require.NoError(t, err)
	assert.Equal(t, 1, wv.Len())
	assert.Equal(t, 2, wv.Dim())
}

func TestWordVectorsMatrix(t *testing.T) {
	wv, err := ReadWordVectors(strings.NewReader("good 1 2\nbad 3 4\n"))
	require.NoError(t, err)

	v := BuildVocabulary([][]string{{"good", "bad", "novel"}}, VocabularyConfig{})
	matrix := wv.Matrix(v, 42)

	require.Equal(t, 2, wv.Dim())
	assert.Equal(t, v.Size(), matrix.Shape()[0])
	assert.Equal(t, 2, matrix.Shape()[1])

	data := matrix.AsFloat32()

	// Padding row stays zero.
	assert.Equal(t, []float32{0, 0}, data[PadID*2:PadID*2+2])

	goodRow := data[v.ID("good")*2 : v.ID("good")*2+2]
	assert.Equal(t, []float32{1, 2}, goodRow)

	// Tokens without a pretrained vector get small random values.
	novelRow := data[v.ID("novel")*2 : v.ID("novel")*2+2]
	assert.NotEqual(t, []float32{0, 0}, novelRow)
	for _, val := range novelRow {
		assert.Less(t, absf(val), float32(1))
	}
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
