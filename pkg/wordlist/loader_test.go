package wordlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFromReaderPreservesInputOrder(t *testing.T) {
	idx, err := BuildFromReader(strings.NewReader("zebra\nant\nmango\nbat\nquail\ncrab\n"), MaxWordLen)
	require.NoError(t, err)

	pattern5, err := ParsePattern("_____")
	require.NoError(t, err)
	result5 := idx.MatchPattern(QueryParams{Pattern: pattern5, Page: 1, PageSize: 10})
	assert.Equal(t, []string{"zebra", "mango", "quail"}, result5.Items)

	pattern3, err := ParsePattern("___")
	require.NoError(t, err)
	result3 := idx.MatchPattern(QueryParams{Pattern: pattern3, Page: 1, PageSize: 10})
	assert.Equal(t, []string{"ant", "bat"}, result3.Items)
}

func TestBuildFromReaderRejectsMaxLenOutOfRange(t *testing.T) {
	_, err := BuildFromReader(strings.NewReader("cat\n"), 0)
	assert.Error(t, err)

	_, err = BuildFromReader(strings.NewReader("cat\n"), MaxWordLen+1)
	assert.Error(t, err)
}

func TestBuildFromReaderDropsWordsLongerThanMaxLen(t *testing.T) {
	idx, err := BuildFromReader(strings.NewReader("cat\nelephant\n"), 4)
	require.NoError(t, err)

	pattern, err := ParsePattern("________")
	require.NoError(t, err)
	result := idx.MatchPattern(QueryParams{Pattern: pattern, Page: 1, PageSize: 10})
	assert.Empty(t, result.Items)
	assert.Equal(t, 4, idx.MaxLen())
}
