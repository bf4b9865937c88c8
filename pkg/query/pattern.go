// Package query implements the business logic behind the three lexical
// query families (pattern match, constrained anagram, WordNet lookup),
// independent of any particular transport.
package query

import (
	"strings"

	"github.com/wordlex/wordlex/pkg/morphy"
	"github.com/wordlex/wordlex/pkg/wordlist"
	"github.com/wordlex/wordlex/pkg/wordnet"
)

// DefaultPageSize is used when a caller doesn't specify one.
const DefaultPageSize = 50

// Service composes the loaded index, dictionary and morphological analyzer
// into the four query operations the HTTP surface exposes.
type Service struct {
	Index       *wordlist.Index
	WordNet     *wordnet.Dictionary
	Morphy      *morphy.Morphy
	MaxPageSize int
}

// MatchesParams are the inputs to a pattern-match query.
type MatchesParams struct {
	Pattern       string
	Page          int
	PageSize      int
	MustInclude   string
	CannotInclude string
}

func (s *Service) resolvePaging(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return 0, 0, invalidInput("page must be >= 1")
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	if pageSize < 1 {
		return 0, 0, invalidInput("page_size must be >= 1")
	}
	if pageSize > s.MaxPageSize {
		pageSize = s.MaxPageSize
	}
	return page, pageSize, nil
}

// Matches answers a fixed-length pattern query against the wordlist index.
func (s *Service) Matches(params MatchesParams) (*MatchesResult, error) {
	pattern, err := wordlist.ParsePattern(params.Pattern)
	if err != nil {
		return nil, &InvalidInputError{msg: err.Error()}
	}

	page, pageSize, err := s.resolvePaging(params.Page, params.PageSize)
	if err != nil {
		return nil, err
	}

	must, err := wordlist.ParseLetters(params.MustInclude)
	if err != nil {
		return nil, &InvalidInputError{msg: err.Error()}
	}
	cannot, err := wordlist.ParseLetters(params.CannotInclude)
	if err != nil {
		return nil, &InvalidInputError{msg: err.Error()}
	}

	result := s.Index.MatchPattern(wordlist.QueryParams{
		Pattern:       pattern,
		MustInclude:   must,
		CannotInclude: cannot,
		Page:          page,
		PageSize:      pageSize,
	})

	return &MatchesResult{
		Pattern:  params.Pattern,
		Page:     page,
		PageSize: pageSize,
		Total:    result.Total,
		HasMore:  result.HasMore,
		Items:    result.Items,
	}, nil
}

// AnagramParams are the inputs to a constrained-anagram query.
type AnagramParams struct {
	Letters  string
	Pattern  string
	Page     int
	PageSize int
}

// Anagrams answers a constrained-anagram query: every word whose letters
// are exactly the given multiset, optionally pinned at some positions by
// pattern.
func (s *Service) Anagrams(params AnagramParams) (*MatchesResult, error) {
	letters := strings.TrimSpace(params.Letters)
	if letters == "" {
		return nil, invalidInput("letters is required")
	}
	if len(letters) > s.Index.MaxLen() {
		return nil, invalidInput("letters must be at most %d", s.Index.MaxLen())
	}

	patternStr := params.Pattern
	if patternStr == "" {
		patternStr = strings.Repeat("_", len(letters))
	}
	pattern, err := wordlist.ParsePattern(patternStr)
	if err != nil {
		return nil, &InvalidInputError{msg: err.Error()}
	}
	if len(pattern) != len(letters) {
		return nil, invalidInput("pattern length must match letters length")
	}

	bag, err := wordlist.ParseLetterBag(letters, len(letters))
	if err != nil {
		return nil, &InvalidInputError{msg: err.Error()}
	}

	var required [wordlist.Alphabet]uint8
	for _, ch := range pattern {
		if ch == wordlist.Blank {
			continue
		}
		idx := byte(ch) - 'a'
		if required[idx] < 255 {
			required[idx]++
		}
		if required[idx] > bag[idx] {
			return nil, invalidInput("pattern requires letters not present in the bag")
		}
	}

	page, pageSize, err := s.resolvePaging(params.Page, params.PageSize)
	if err != nil {
		return nil, err
	}

	result := s.Index.AnagramQuery(wordlist.AnagramParams{
		Pattern:   pattern,
		BagCounts: bag,
		Page:      page,
		PageSize:  pageSize,
	})

	return &MatchesResult{
		Pattern:  patternStr,
		Page:     page,
		PageSize: pageSize,
		Total:    result.Total,
		HasMore:  result.HasMore,
		Items:    result.Items,
	}, nil
}
