package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorerUnavailable_MatchesSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := ScorerUnavailable("resolve", cause)

	assert.True(t, errors.Is(err, ErrScorerUnavailable))
	assert.False(t, errors.Is(err, ErrConfiguration))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "resolve: scorer_unavailable: scorer failed: connection refused", err.Error())
}

func TestScorerUnavailable_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("analyze review r-1: %w", ScorerUnavailable("resolve", errors.New("timeout")))

	assert.True(t, IsScorerUnavailable(err))

	var appErr *Error
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, KindScorerUnavailable, appErr.Kind)
}

func TestConfiguration_Format(t *testing.T) {
	err := Configurationf("lexicon.New", "%s word list is empty", "positive")

	assert.True(t, IsConfiguration(err))
	assert.Nil(t, err.Unwrap())
	assert.Equal(t, "lexicon.New: configuration: positive word list is empty", err.Error())
}
