package morphy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wordlex/wordlex/pkg/wordnet"
)

func fakeExists(targets map[string]wordnet.Pos) LemmaExists {
	return func(pos wordnet.Pos, lemma string) bool {
		want, ok := targets[normalize(lemma)]
		return ok && want == pos
	}
}

func TestUsesExceptionsAndRules(t *testing.T) {
	m := &Morphy{exceptions: map[wordnet.Pos]map[string][]string{
		wordnet.Noun: {"children": []string{"child"}},
	}}

	candidates := m.LemmasFor(wordnet.Noun, "children", fakeExists(map[string]wordnet.Pos{
		"child": wordnet.Noun,
	}))
	assert.Len(t, candidates, 1)
	assert.Equal(t, Exception, candidates[0].Source)
	assert.Equal(t, "child", candidates[0].Lemma)
}

func TestIncludesSurfaceAndRuleHits(t *testing.T) {
	m := &Morphy{exceptions: map[wordnet.Pos]map[string][]string{}}

	candidates := m.LemmasFor(wordnet.Verb, "running", fakeExists(map[string]wordnet.Pos{
		"running": wordnet.Verb,
		"run":     wordnet.Verb,
	}))
	assert.Len(t, candidates, 2)
	assert.Equal(t, Surface, candidates[0].Source)
	assert.Equal(t, Rule, candidates[1].Source)
	assert.Equal(t, "run", candidates[1].Lemma)
}

func TestDoubledConsonantCollapses(t *testing.T) {
	candidate, ok := applyRule("running", "ing", "")
	assert.True(t, ok)
	assert.Equal(t, "run", candidate)
}

func TestApplyRuleMissingSuffix(t *testing.T) {
	_, ok := applyRule("cat", "ing", "")
	assert.False(t, ok)
}
