package query

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordlex/wordlex/pkg/morphy"
	"github.com/wordlex/wordlex/pkg/wordnet"
)

func writeWordNetFixture(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"data.noun": "00000001 00 n 2 dog 0 canine 0 1 @ 00000002 n 0000 | a domesticated carnivorous mammal; \"the dog barked\"\n" +
			"00000002 00 n 1 canine 0 0 | any of various fissiped mammals\n",
		"index.noun": "dog n 1 1 @ 1 0 00000001\n" +
			"canine n 1 0 1 0 00000002\n",
		"data.verb":  "00000010 00 v 1 run 0 0 | move fast using one's legs\n",
		"index.verb": "run v 1 0 0 0 00000010\n",
		"data.adj":   "00000020 00 a 1 quick 0 0 | moving fast\n",
		"index.adj":  "quick a 1 0 0 0 00000020\n",
		"data.adv":   "00000030 00 r 1 quickly 0 0 | in a quick manner\n",
		"index.adv":  "quickly r 1 0 0 0 00000030\n",
		"cntlist.rev": "5 dog n 1\n" +
			"1 canine n 1\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func mustDictionaryService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	writeWordNetFixture(t, dir)

	dict, err := wordnet.Load(dir, wordnet.Owned)
	require.NoError(t, err)
	morph, err := morphy.Load(dir)
	require.NoError(t, err)

	return &Service{WordNet: dict, Morphy: morph, MaxPageSize: 50}
}

func TestDictionaryFindsSynsetsByLemma(t *testing.T) {
	s := mustDictionaryService(t)

	result, err := s.Dictionary("dog", "")
	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "noun", result.Results[0].Pos)
	assert.Contains(t, result.Results[0].Lemmas, "dog")
	assert.Equal(t, "a domesticated carnivorous mammal", result.Results[0].Definition)
	require.NotNil(t, result.Results[0].SenseCount)
	assert.Equal(t, uint32(5), *result.Results[0].SenseCount)
}

func TestDictionaryFiltersByPos(t *testing.T) {
	s := mustDictionaryService(t)

	result, err := s.Dictionary("dog", "v")
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.NotNil(t, result.Note)
}

func TestDictionaryRejectsEmptyWord(t *testing.T) {
	s := mustDictionaryService(t)

	_, err := s.Dictionary("  ", "")
	require.Error(t, err)
}

func TestDictionaryRejectsUnknownPos(t *testing.T) {
	s := mustDictionaryService(t)

	_, err := s.Dictionary("dog", "x")
	require.Error(t, err)
}

func TestRelatedGroupsOutgoingPointers(t *testing.T) {
	s := mustDictionaryService(t)

	result, err := s.Related("dog", "n")
	require.NoError(t, err)
	require.Len(t, result.Synsets, 1)

	dogSynset := result.Synsets[0]
	require.Len(t, dogSynset.Relations, 1)
	assert.Equal(t, "hypernyms", dogSynset.Relations[0].Kind)
	require.Len(t, dogSynset.Relations[0].Targets, 1)
	assert.Contains(t, dogSynset.Relations[0].Targets[0].Lemmas, "canine")
}

func TestDictionaryRuleFallbackReturnsNoteAndResults(t *testing.T) {
	s := mustDictionaryService(t)

	result, err := s.Dictionary("running", "v")
	require.NoError(t, err)
	require.NotEmpty(t, result.Results)
	require.NotNil(t, result.Note)
	assert.Contains(t, *result.Note, "run")
}

func TestRelatedNoMatchReturnsNote(t *testing.T) {
	s := mustDictionaryService(t)

	result, err := s.Related("nonexistentword", "")
	require.NoError(t, err)
	assert.Empty(t, result.Synsets)
	require.NotNil(t, result.Note)
}
