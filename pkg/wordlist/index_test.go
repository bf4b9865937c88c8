package wordlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustIndex(t *testing.T, words ...string) *Index {
	t.Helper()
	idx, err := BuildFromReader(strings.NewReader(strings.Join(words, "\n")), MaxWordLen)
	require.NoError(t, err)
	return idx
}

func TestParsePatternWithBlanks(t *testing.T) {
	parsed, err := ParsePattern("A__le")
	require.NoError(t, err)
	require.Len(t, parsed, 5)
	assert.Equal(t, PatternChar('a'), parsed[0])
	assert.Equal(t, Blank, parsed[1])

	dots, err := ParsePattern("a..le")
	require.NoError(t, err)
	assert.Equal(t, PatternChar('l'), dots[3])

	_, err = ParsePattern("")
	assert.Error(t, err)
}

func TestParsePatternRejectsInvalidChars(t *testing.T) {
	_, err := ParsePattern("a1b")
	assert.Error(t, err)
}

func TestParseLetterBagEnforcesLength(t *testing.T) {
	_, err := ParseLetterBag("abcd", 3)
	assert.Error(t, err)
	_, err = ParseLetterBag("abc", 3)
	assert.NoError(t, err)
}

func TestMatchesWordsByPattern(t *testing.T) {
	idx := mustIndex(t, "apple", "ample", "apply", "ankle", "angle", "addle")
	pattern, err := ParsePattern("a__le")
	require.NoError(t, err)

	result := idx.MatchPattern(QueryParams{Pattern: pattern, Page: 1, PageSize: 10})
	assert.Equal(t, 5, result.Total)
	assert.Contains(t, result.Items, "apple")
	assert.Contains(t, result.Items, "angle")
}

func TestEnforcesMustAndCannotInclude(t *testing.T) {
	idx := mustIndex(t, "apple", "ample", "apply", "ankle", "angle")
	pattern, err := ParsePattern("a__le")
	require.NoError(t, err)

	must, err := ParseLetters("p")
	require.NoError(t, err)
	result := idx.MatchPattern(QueryParams{Pattern: pattern, MustInclude: must, Page: 1, PageSize: 10})
	assert.Equal(t, 2, result.Total)

	cannot, err := ParseLetters("n")
	require.NoError(t, err)
	result = idx.MatchPattern(QueryParams{Pattern: pattern, CannotInclude: cannot, Page: 1, PageSize: 10})
	for _, w := range result.Items {
		assert.NotContains(t, w, "n")
	}
}

func TestPaginatesStably(t *testing.T) {
	idx := mustIndex(t, "apple", "ample", "apply", "ankle", "angle", "addle")
	pattern, err := ParsePattern("a____")
	require.NoError(t, err)

	first := idx.MatchPattern(QueryParams{Pattern: pattern, Page: 1, PageSize: 2})
	second := idx.MatchPattern(QueryParams{Pattern: pattern, Page: 2, PageSize: 2})

	assert.True(t, first.HasMore)
	assert.Len(t, first.Items, 2)
	assert.Len(t, second.Items, 2)
	assert.NotEqual(t, first.Items, second.Items)
}

func TestFindsAnagramsWithPattern(t *testing.T) {
	idx := mustIndex(t, "listen", "silent", "enlist", "tinsel", "inlets", "tile")
	pattern, err := ParsePattern("______")
	require.NoError(t, err)
	bag, err := ParseLetterBag("listen", 6)
	require.NoError(t, err)

	result := idx.AnagramQuery(AnagramParams{Pattern: pattern, BagCounts: bag, Page: 1, PageSize: 10})
	assert.Contains(t, result.Items, "silent")
	assert.Contains(t, result.Items, "listen")
	assert.Equal(t, 5, result.Total)
}

func TestFindsSpecificAnagramWithFixedLetters(t *testing.T) {
	idx := mustIndex(t, "manchego", "megachon", "comehang", "mango", "chemo")
	pattern, err := ParsePattern("m______o")
	require.NoError(t, err)
	bag, err := ParseLetterBag("comehang", 8)
	require.NoError(t, err)

	result := idx.AnagramQuery(AnagramParams{Pattern: pattern, BagCounts: bag, Page: 1, PageSize: 10})
	assert.Contains(t, result.Items, "manchego")
	assert.Equal(t, 1, result.Total)
}

func TestCacheRoundTrip(t *testing.T) {
	idx := mustIndex(t, "apple", "ample", "apply")
	dir := t.TempDir()
	cachePath := dir + "/index.cache"

	require.NoError(t, SaveCache(idx, cachePath, "tag-1"))
	reloaded, err := LoadCache(cachePath, "tag-1")
	require.NoError(t, err)

	pattern, err := ParsePattern("a____")
	require.NoError(t, err)
	want := idx.MatchPattern(QueryParams{Pattern: pattern, Page: 1, PageSize: 10})
	got := reloaded.MatchPattern(QueryParams{Pattern: pattern, Page: 1, PageSize: 10})
	assert.ElementsMatch(t, want.Items, got.Items)

	_, err = LoadCache(cachePath, "tag-2")
	assert.Error(t, err)
}
