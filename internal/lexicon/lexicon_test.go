package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/internal/apperrors"
)

func TestNew_RejectsEmptyTables(t *testing.T) {
	cats := []AspectCategory{{Name: "battery life", Terms: []string{"battery"}}}

	_, err := New(nil, []string{"bad"}, cats)
	assert.True(t, apperrors.IsConfiguration(err))

	_, err = New([]string{"good"}, []string{"  "}, cats)
	assert.True(t, apperrors.IsConfiguration(err))

	_, err = New([]string{"good"}, []string{"bad"}, nil)
	assert.True(t, apperrors.IsConfiguration(err))

	_, err = New([]string{"good"}, []string{"bad"}, []AspectCategory{{Name: "battery life"}})
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestCountPolarity_SumsSubstringCounts(t *testing.T) {
	lex, err := New(
		[]string{"good", "goodness", "great"},
		[]string{"bad"},
		[]AspectCategory{{Name: "battery life", Terms: []string{"battery"}}},
	)
	require.NoError(t, err)

	pos, neg := lex.CountPolarity("goodness, great great and bad")
	assert.Equal(t, 4, pos)
	assert.Equal(t, 1, neg)

	pos, neg = lex.CountPolarity("")
	assert.Zero(t, pos)
	assert.Zero(t, neg)
}

func TestDefault_NeutralSentenceHasNoKeywords(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	pos, neg := lex.CountPolarity("it is an average product.")
	assert.Zero(t, pos)
	assert.Zero(t, neg)
	assert.True(t, lex.positive.Contains("great"))
	assert.True(t, lex.negative.Contains("drain"))
	assert.False(t, lex.negative.Contains("hot"))
}

func TestAspectTable_LastRegisteredWins(t *testing.T) {
	table, err := NewAspectTable([]AspectCategory{
		{Name: "screen quality", Terms: []string{"screen", "glass"}},
		{Name: "build quality", Terms: []string{"glass", "metal"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"screen", "glass", "metal"}, table.Terms())
	cat, ok := table.CategoryOf("glass")
	assert.True(t, ok)
	assert.Equal(t, "build quality", cat)
	assert.Equal(t, []string{"screen quality", "build quality"}, table.Categories())
}

func TestDefaultAspectTable_NoOverlaps(t *testing.T) {
	lex, err := Default()
	require.NoError(t, err)

	table := lex.Aspects()
	total := 0
	for _, c := range DefaultAspectCategories {
		total += len(c.Terms)
	}
	assert.Len(t, table.Terms(), total)

	cat, _ := table.CategoryOf("low light")
	assert.Equal(t, "camera quality", cat)
	_, ok := table.CategoryOf("light")
	assert.False(t, ok)
	assert.True(t, table.Has("overheating"))
	assert.False(t, table.Has("price"))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	content := `
positive_words: [crisp, comfy]
negative_words: [tinny]
aspects:
  - name: comfort
    terms: [comfy, fit]
  - name: sound quality
    terms: [sound, bass]
context_phrases:
  positive: ["fits perfectly"]
  negative: ["falls out"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"fits perfectly"}, f.ContextPhrases.Positive)
	assert.Equal(t, []string{"falls out"}, f.ContextPhrases.Negative)

	lex, err := f.Lexicon()
	require.NoError(t, err)
	assert.Equal(t, []string{"comfort", "sound quality"}, lex.Aspects().Categories())
	assert.Equal(t, []string{"comfy", "fit", "sound", "bass"}, lex.Aspects().Terms())
}

func TestParseFile_Malformed(t *testing.T) {
	_, err := ParseFile([]byte("positive_words: [unterminated"))
	assert.True(t, apperrors.IsConfiguration(err))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
