package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordlex/wordlex/pkg/wordlist"
)

func mustService(t *testing.T, words ...string) *Service {
	t.Helper()
	idx, err := wordlist.BuildFromReader(strings.NewReader(strings.Join(words, "\n")), wordlist.MaxWordLen)
	require.NoError(t, err)
	return &Service{Index: idx, MaxPageSize: 50}
}

func TestMatchesFiltersByPattern(t *testing.T) {
	s := mustService(t, "cat", "bat", "rat", "car")

	result, err := s.Matches(MatchesParams{Pattern: "_at"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cat", "bat", "rat"}, result.Items)
	assert.Equal(t, 3, result.Total)
}

func TestMatchesHonorsMustAndCannotInclude(t *testing.T) {
	s := mustService(t, "cat", "bat", "rat", "car")

	result, err := s.Matches(MatchesParams{Pattern: "_a_", MustInclude: "c", CannotInclude: "t"})
	require.NoError(t, err)
	assert.Equal(t, []string{"car"}, result.Items)
}

func TestMatchesRejectsEmptyPattern(t *testing.T) {
	s := mustService(t, "cat")

	_, err := s.Matches(MatchesParams{Pattern: ""})
	require.Error(t, err)
	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestMatchesClampsPageSizeToMax(t *testing.T) {
	s := mustService(t, "cat", "bat")
	s.MaxPageSize = 1

	result, err := s.Matches(MatchesParams{Pattern: "_at", PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, result.PageSize)
	assert.Len(t, result.Items, 1)
	assert.True(t, result.HasMore)
}

func TestAnagramsFindsExactMultiset(t *testing.T) {
	s := mustService(t, "cat", "act", "tac", "cats")

	result, err := s.Anagrams(AnagramParams{Letters: "tac"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"cat", "act", "tac"}, result.Items)
}

func TestAnagramsHonorsPinnedPattern(t *testing.T) {
	s := mustService(t, "cat", "act", "tac")

	result, err := s.Anagrams(AnagramParams{Letters: "tac", Pattern: "c__"})
	require.NoError(t, err)
	assert.Equal(t, []string{"cat"}, result.Items)
}

func TestAnagramsRejectsPatternLetterNotInBag(t *testing.T) {
	s := mustService(t, "cat")

	_, err := s.Anagrams(AnagramParams{Letters: "tac", Pattern: "b__"})
	require.Error(t, err)
}

func TestAnagramsRejectsEmptyLetters(t *testing.T) {
	s := mustService(t, "cat")

	_, err := s.Anagrams(AnagramParams{Letters: ""})
	require.Error(t, err)
}
