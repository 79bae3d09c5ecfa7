package aspects

import (
	"context"
	"fmt"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/jdkato/prose/v2"

	"github.com/spacesedan/reviewlens/internal/models"
)

const STRATEGY_NOUN_PHRASE = "noun_phrase"

var defaultStopNouns = []string{
	"phone", "product", "thing", "things", "lot", "bit", "time", "times",
	"day", "days", "week", "weeks", "month", "months", "year", "years",
	"i", "it", "one", "way", "everything", "anything", "something", "nothing",
}

// NounPhraseStrategy treats every compound noun in the review as a candidate
// aspect. It needs no domain tables, so it works for any product category.
type NounPhraseStrategy struct {
	resolver  Resolver
	splitter  SentenceSplitter
	stopNouns mapset.Set[string]
}

func NewNounPhraseStrategy(resolver Resolver, splitter SentenceSplitter) *NounPhraseStrategy {
	return &NounPhraseStrategy{
		resolver:  resolver,
		splitter:  splitter,
		stopNouns: mapset.NewThreadUnsafeSet(defaultStopNouns...),
	}
}

func (n *NounPhraseStrategy) Name() string {
	return STRATEGY_NOUN_PHRASE
}

func (n *NounPhraseStrategy) Extract(ctx context.Context, text string) ([]models.AspectRecord, error) {
	if strings.TrimSpace(text) == "" {
		return []models.AspectRecord{}, nil
	}

	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("failed to tag review: %w", err)
	}
	phrases := n.nounPhrases(doc.Tokens())
	if len(phrases) == 0 {
		return []models.AspectRecord{}, nil
	}

	sentences := n.splitter.Split(text)
	lowerSentences := make([]string, len(sentences))
	for i, sent := range sentences {
		lowerSentences[i] = strings.ToLower(sent)
	}

	found := newAspectSet()
	resolver := newSentenceResolver(n.resolver)
	for _, phrase := range phrases {
		idx := firstContaining(lowerSentences, phrase)
		if idx < 0 {
			continue
		}
		verdict, err := resolver.resolve(ctx, sentences[idx])
		if err != nil {
			return nil, fmt.Errorf("aspect %q: %w", phrase, err)
		}
		found.offer(models.AspectRecord{
			Aspect:           phrase,
			SentimentVerdict: verdict,
			RelevantText:     sentences[idx],
		})
	}
	return found.records, nil
}

// nounPhrases collects maximal runs of adjectives and nouns that end in a
// noun, lower-cased, in order of first appearance. Stop nouns break a run,
// and trailing adjectives are trimmed, so a run without a noun is dropped.
func (n *NounPhraseStrategy) nounPhrases(tokens []prose.Token) []string {
	var phrases []string
	seen := mapset.NewThreadUnsafeSet[string]()
	var run []prose.Token

	flush := func() {
		words := run
		run = nil

		for len(words) > 0 && !isNoun(words[len(words)-1]) {
			words = words[:len(words)-1]
		}
		if len(words) == 0 {
			return
		}

		texts := make([]string, len(words))
		for i, tok := range words {
			texts[i] = tok.Text
		}
		phrase := strings.Join(texts, " ")
		if seen.Add(phrase) {
			phrases = append(phrases, phrase)
		}
	}

	for _, tok := range tokens {
		if (isNoun(tok) || isAdjective(tok)) && isWord(tok.Text) {
			tok.Text = strings.ToLower(tok.Text)
			if !(isNoun(tok) && n.stopNouns.Contains(tok.Text)) {
				run = append(run, tok)
				continue
			}
		}
		flush()
	}
	flush()

	return phrases
}

func isNoun(tok prose.Token) bool {
	return strings.HasPrefix(tok.Tag, "NN")
}

func isAdjective(tok prose.Token) bool {
	return strings.HasPrefix(tok.Tag, "JJ")
}

func isWord(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && r != '-' {
			return false
		}
	}
	return s != ""
}
