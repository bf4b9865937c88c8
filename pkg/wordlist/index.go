// Package wordlist builds a positional bitset index over a wordlist and
// answers pattern-match and constrained-anagram queries against it.
package wordlist

import (
	"github.com/RoaringBitmap/roaring"
)

// lengthBucket holds every word of one fixed length plus the bitsets needed
// to answer pattern and anagram queries over that length in isolation.
type lengthBucket struct {
	words        []string
	all          *roaring.Bitmap
	posLetter    [][Alphabet]*roaring.Bitmap // [position][letter]
	contains     [Alphabet]*roaring.Bitmap
	letterCounts [][Alphabet]uint8
}

// Index is a read-only, length-bucketed positional bitset index. Build it
// once at startup; queries never mutate it, so it needs no locking.
type Index struct {
	lens   [MaxWordLen + 1]*lengthBucket
	maxLen int
}

// MaxLen is the effective maximum word length this index was built with
// (wordlist.max_len / MAX_LEN), which may be lower than the hard
// MaxWordLen ceiling.
func (idx *Index) MaxLen() int {
	if idx.maxLen == 0 {
		return MaxWordLen
	}
	return idx.maxLen
}

// QueryParams parameters for a pattern-match query.
type QueryParams struct {
	Pattern       []PatternChar
	MustInclude   []byte
	CannotInclude []byte
	Page          int
	PageSize      int
}

// AnagramParams parameters for a constrained anagram query.
type AnagramParams struct {
	Pattern   []PatternChar
	BagCounts [Alphabet]uint8
	Page      int
	PageSize  int
}

// QueryResult is the shared result shape for both query kinds.
type QueryResult struct {
	Total   int
	Items   []string
	HasMore bool
}

func buildLengthBucket(words []string) *lengthBucket {
	n := len(words)
	if n == 0 {
		return nil
	}
	length := len(words[0])

	posLetter := make([][Alphabet]*roaring.Bitmap, length)
	for pos := range posLetter {
		for letter := range posLetter[pos] {
			posLetter[pos][letter] = roaring.New()
		}
	}
	var contains [Alphabet]*roaring.Bitmap
	for letter := range contains {
		contains[letter] = roaring.New()
	}
	letterCounts := make([][Alphabet]uint8, n)
	all := roaring.New()

	for idx, word := range words {
		all.Add(uint32(idx))
		var counts [Alphabet]uint8
		for pos := 0; pos < len(word); pos++ {
			letterIdx := word[pos] - 'a'
			if counts[letterIdx] < 255 {
				counts[letterIdx]++
			}
			posLetter[pos][letterIdx].Add(uint32(idx))
			contains[letterIdx].Add(uint32(idx))
		}
		letterCounts[idx] = counts
	}

	return &lengthBucket{
		words:        words,
		all:          all,
		posLetter:    posLetter,
		contains:     contains,
		letterCounts: letterCounts,
	}
}

func emptyResult() QueryResult {
	return QueryResult{Total: 0, Items: nil, HasMore: false}
}

func pageOffset(page, pageSize int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageSize
}

// MatchPattern answers a fixed-length pattern query with optional must/cannot
// letter filters, mirroring index.rs's WordIndex::query.
func (idx *Index) MatchPattern(params QueryParams) QueryResult {
	length := len(params.Pattern)
	if length > MaxWordLen {
		return emptyResult()
	}
	bucket := idx.lens[length]
	if bucket == nil {
		return emptyResult()
	}

	candidates := bucket.all.Clone()
	for pos, ch := range params.Pattern {
		if ch == Blank {
			continue
		}
		letterIdx := byte(ch) - 'a'
		candidates.And(bucket.posLetter[pos][letterIdx])
		if candidates.IsEmpty() {
			return emptyResult()
		}
	}

	for _, letter := range params.MustInclude {
		candidates.And(bucket.contains[letter-'a'])
		if candidates.IsEmpty() {
			return emptyResult()
		}
	}

	for _, letter := range params.CannotInclude {
		candidates.AndNot(bucket.contains[letter-'a'])
		if candidates.IsEmpty() {
			return emptyResult()
		}
	}

	total := int(candidates.GetCardinality())
	if total == 0 {
		return emptyResult()
	}

	offset := pageOffset(params.Page, params.PageSize)
	items := make([]string, 0, min(params.PageSize, total))
	it := candidates.Iterator()
	skipped := 0
	for it.HasNext() && len(items) < params.PageSize {
		wordIdx := it.Next()
		if skipped < offset {
			skipped++
			continue
		}
		items = append(items, bucket.words[wordIdx])
	}

	return QueryResult{
		Total:   total,
		Items:   items,
		HasMore: offset+len(items) < total,
	}
}

// AnagramQuery answers a constrained-anagram query: words whose letter
// multiset exactly matches params.BagCounts and which also satisfy any fixed
// positions in params.Pattern, mirroring index.rs's WordIndex::query_anagram.
func (idx *Index) AnagramQuery(params AnagramParams) QueryResult {
	length := len(params.Pattern)
	if length > MaxWordLen {
		return emptyResult()
	}
	bucket := idx.lens[length]
	if bucket == nil {
		return emptyResult()
	}

	candidates := bucket.all.Clone()
	for pos, ch := range params.Pattern {
		if ch == Blank {
			continue
		}
		letterIdx := byte(ch) - 'a'
		candidates.And(bucket.posLetter[pos][letterIdx])
		if candidates.IsEmpty() {
			return emptyResult()
		}
	}

	offset := pageOffset(params.Page, params.PageSize)
	total := 0
	items := make([]string, 0, params.PageSize)

	it := candidates.Iterator()
	for it.HasNext() {
		wordIdx := it.Next()
		if bucket.letterCounts[wordIdx] != params.BagCounts {
			continue
		}
		total++
		if total > offset && len(items) < params.PageSize {
			items = append(items, bucket.words[wordIdx])
		}
	}

	return QueryResult{
		Total:   total,
		Items:   items,
		HasMore: offset+len(items) < total,
	}
}

