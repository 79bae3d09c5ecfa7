package aspects

import (
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"
)

// SentenceSplitter splits text into sentences, preserving original casing.
type SentenceSplitter interface {
	Split(text string) []string
}

type SplitterFunc func(text string) []string

func (f SplitterFunc) Split(text string) []string {
	return f(text)
}

// ProseSplitter segments sentences with prose's punkt-style segmenter.
type ProseSplitter struct{}

func (ProseSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		slog.Warn("[ProseSplitter] Segmentation failed, using whole text",
			slog.String("error", err.Error()))
		return []string{strings.TrimSpace(text)}
	}

	sentences := make([]string, 0, len(doc.Sentences()))
	for _, s := range doc.Sentences() {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return sentences
}
