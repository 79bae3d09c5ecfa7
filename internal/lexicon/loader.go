package lexicon

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/spacesedan/reviewlens/internal/apperrors"
)

// File is the on-disk lexicon format. Context phrases are optional and are
// handed to the pattern bank by the caller.
type File struct {
	PositiveWords  []string         `yaml:"positive_words"`
	NegativeWords  []string         `yaml:"negative_words"`
	Aspects        []AspectCategory `yaml:"aspects"`
	ContextPhrases ContextPhrases   `yaml:"context_phrases"`
}

type ContextPhrases struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file %s: %w", path, err)
	}
	return ParseFile(data)
}

func ParseFile(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindConfiguration,
			Op:      "lexicon.ParseFile",
			Message: "malformed lexicon yaml",
			Cause:   err,
		}
	}
	return &f, nil
}

// Lexicon builds the lexicon described by the file.
func (f *File) Lexicon() (*Lexicon, error) {
	lex, err := New(f.PositiveWords, f.NegativeWords, f.Aspects)
	if err != nil {
		return nil, err
	}
	slog.Info("[Lexicon] Loaded lexicon file",
		slog.Int("positive_words", len(f.PositiveWords)),
		slog.Int("negative_words", len(f.NegativeWords)),
		slog.Int("categories", len(f.Aspects)))
	return lex, nil
}
