package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// BuildFromFile reads a newline-delimited wordlist and builds a positional
// bitset Index over it, one lengthBucket per word length up to maxLen.
// Duplicate lines (after normalization) are dropped using a patricia trie
// as scratch membership storage, discarded once the load pass completes.
func BuildFromFile(path string, maxLen int) (*Index, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open wordlist: %w", err)
	}
	defer file.Close()
	return BuildFromReader(file, maxLen)
}

// BuildFromReader is the same as BuildFromFile but reads from an arbitrary
// io.Reader, used by tests and by cache-miss rebuilds. maxLen must be in
// [1, MaxWordLen]; words longer than maxLen (after normalization) are
// discarded just like malformed ones.
func BuildFromReader(r io.Reader, maxLen int) (*Index, error) {
	if maxLen <= 0 || maxLen > MaxWordLen {
		return nil, fmt.Errorf("max_len must be between 1 and %d, got %d", MaxWordLen, maxLen)
	}

	buckets := make([][]string, MaxWordLen+1)
	seen := patricia.NewTrie()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var skipped, duplicates int
	for scanner.Scan() {
		raw := scanner.Text()
		word, ok := normalizeWord(raw, maxLen)
		if !ok {
			skipped++
			continue
		}
		if !seen.Insert(patricia.Prefix(word), true) {
			duplicates++
			continue
		}
		// Preserve first-seen order within each bucket: offsets into the
		// bucket's word slice must be reproducible from the source order.
		buckets[len(word)] = append(buckets[len(word)], word)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read wordlist: %w", err)
	}

	idx := &Index{maxLen: maxLen}
	total := 0
	for length, bucket := range buckets {
		if length == 0 || len(bucket) == 0 {
			continue
		}
		lb := buildLengthBucket(bucket)
		idx.lens[length] = lb
		total += len(bucket)
		log.Debugf("wordlist: loaded %d words of length %d", len(bucket), length)
	}

	log.Infof("wordlist: indexed %d words (%d skipped, %d duplicates)", total, skipped, duplicates)
	if total == 0 {
		return nil, fmt.Errorf("wordlist contained no usable words")
	}

	return idx, nil
}
