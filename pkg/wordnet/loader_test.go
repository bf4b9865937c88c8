package wordnet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir string) {
	t.Helper()
	files := map[string]string{
		"data.noun": "00000001 00 n 1 dog 0 1 @ 00000002 n 0000 | a domesticated carnivorous mammal; \"the dog barked\"\n" +
			"00000002 00 n 1 canine 0 0 | any of various fissiped mammals\n",
		"index.noun": "dog n 1 1 @ 1 0 00000001\n" +
			"canine n 1 0 1 0 00000002\n",
		"data.verb":  "00000010 00 v 1 run 0 0 1 + 2 01 | move fast using one's legs\n",
		"index.verb": "run v 1 0 1 0 00000010\n",
		"data.adj":   "00000020 00 a 1 quick 0 0 | moving fast\n",
		"index.adj":  "quick a 1 0 1 0 00000020\n",
		"data.adv":   "00000030 00 r 1 quickly 0 0 | in a quick manner\n",
		"index.adv":  "quickly r 1 0 1 0 00000030\n",
		"cntlist.rev": "5 dog n 1\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoadOwned(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	dict, err := Load(dir, Owned)
	require.NoError(t, err)

	require.True(t, dict.LemmaExists(Noun, "dog"))
	require.False(t, dict.LemmaExists(Noun, "wolf"))

	syn, ok := dict.GetSynset(SynsetId{Pos: Noun, Offset: 1})
	require.True(t, ok)
	require.Len(t, syn.Pointers, 1)
	require.Equal(t, "@", syn.Pointers[0].Symbol)
	require.Equal(t, uint32(2), syn.Pointers[0].Target.Offset)
	require.Equal(t, "a domesticated carnivorous mammal", syn.Gloss.Definition)
	require.Equal(t, []string{"the dog barked"}, syn.Gloss.Examples)

	verbSyn, ok := dict.GetSynset(SynsetId{Pos: Verb, Offset: 10})
	require.True(t, ok)
	require.Len(t, verbSyn.Frames, 1)
	require.Equal(t, uint16(2), verbSyn.Frames[0].FrameNumber)

	count, ok := dict.SenseCount(Noun, "dog", 1)
	require.True(t, ok)
	require.Equal(t, uint32(5), count)
}

func TestLoadMmapMatchesOwned(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)

	owned, err := Load(dir, Owned)
	require.NoError(t, err)
	mapped, err := Load(dir, Mmap)
	require.NoError(t, err)

	require.Equal(t, owned.SynsetCount(), mapped.SynsetCount())
	require.Equal(t, owned.LemmaCount(), mapped.LemmaCount())
}

func TestMissingRequiredFile(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "data.adv")))

	_, err := Load(dir, Owned)
	require.Error(t, err)
}
