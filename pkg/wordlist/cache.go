package wordlist

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/RoaringBitmap/roaring"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// LoadOrBuild consults cachePath before rebuilding from wordlistPath. A
// missing, corrupt or stale cache silently falls back to a full rebuild,
// then refreshes the cache for next time. cachePath == "" disables caching.
// maxLen is the effective word-length bound the index is built with; a
// cache built under a different maxLen is treated as stale.
func LoadOrBuild(wordlistPath, cachePath string, maxLen int) (*Index, error) {
	if cachePath == "" {
		return BuildFromFile(wordlistPath, maxLen)
	}

	tag, err := SourceTag(wordlistPath, maxLen)
	if err != nil {
		return nil, err
	}

	if idx, err := LoadCache(cachePath, tag); err == nil {
		log.Infof("wordlist: loaded index from cache %s", cachePath)
		return idx, nil
	} else {
		log.Debugf("wordlist: cache miss at %s: %v", cachePath, err)
	}

	idx, err := BuildFromFile(wordlistPath, maxLen)
	if err != nil {
		return nil, err
	}
	if err := SaveCache(idx, cachePath, tag); err != nil {
		log.Warnf("wordlist: failed to write index cache %s: %v", cachePath, err)
	}
	return idx, nil
}

// cacheBucket is the on-disk representation of a lengthBucket: roaring
// bitmaps are stored pre-serialized via their own binary format, nested
// inside the msgpack envelope that carries everything else.
type cacheBucket struct {
	Length       int
	Words        []string
	All          []byte
	PosLetter    [][Alphabet][]byte
	Contains     [Alphabet][]byte
	LetterCounts [][Alphabet]uint8
}

type cachePayload struct {
	SourceTag string
	MaxLen    int
	Buckets   []cacheBucket
}

// SourceTag hashes a wordlist file's path, size, modification time and the
// effective maxLen it's built with, so a cache file can be cheaply checked
// for staleness (including a config-only maxLen change) without re-reading
// the wordlist itself.
func SourceTag(path string, maxLen int) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat wordlist: %w", err)
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d:%d", path, info.Size(), info.ModTime().UnixNano(), maxLen)))
	return hex.EncodeToString(sum[:]), nil
}

// SaveCache msgpack-encodes the built index to cachePath, tagged with
// sourceTag so a later LoadCache can detect a stale cache.
func SaveCache(idx *Index, cachePath, sourceTag string) error {
	payload := cachePayload{SourceTag: sourceTag, MaxLen: idx.MaxLen()}

	for length, bucket := range idx.lens {
		if bucket == nil {
			continue
		}
		cb := cacheBucket{
			Length:       length,
			Words:        bucket.words,
			LetterCounts: bucket.letterCounts,
		}
		allBytes, err := bucket.all.ToBytes()
		if err != nil {
			return fmt.Errorf("serialize bucket %d: %w", length, err)
		}
		cb.All = allBytes

		cb.PosLetter = make([][Alphabet][]byte, len(bucket.posLetter))
		for pos, letters := range bucket.posLetter {
			for letter, bm := range letters {
				b, err := bm.ToBytes()
				if err != nil {
					return fmt.Errorf("serialize bucket %d pos %d letter %d: %w", length, pos, letter, err)
				}
				cb.PosLetter[pos][letter] = b
			}
		}
		for letter, bm := range bucket.contains {
			b, err := bm.ToBytes()
			if err != nil {
				return fmt.Errorf("serialize bucket %d contains %d: %w", length, letter, err)
			}
			cb.Contains[letter] = b
		}

		payload.Buckets = append(payload.Buckets, cb)
	}

	data, err := msgpack.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("encode index cache: %w", err)
	}
	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		return fmt.Errorf("write index cache: %w", err)
	}
	return nil
}

// LoadCache reads a cache written by SaveCache, returning an error if it is
// missing, corrupt, or tagged for a different wordlist.
func LoadCache(cachePath, sourceTag string) (*Index, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, fmt.Errorf("read index cache: %w", err)
	}

	var payload cachePayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode index cache: %w", err)
	}
	if payload.SourceTag != sourceTag {
		return nil, fmt.Errorf("index cache is stale")
	}

	idx := Index{maxLen: payload.MaxLen}
	for _, cb := range payload.Buckets {
		lb := &lengthBucket{
			words:        cb.Words,
			letterCounts: cb.LetterCounts,
		}

		all := roaring.New()
		if err := all.UnmarshalBinary(cb.All); err != nil {
			return nil, fmt.Errorf("decode bucket %d bitmap: %w", cb.Length, err)
		}
		lb.all = all

		lb.posLetter = make([][Alphabet]*roaring.Bitmap, len(cb.PosLetter))
		for pos, letters := range cb.PosLetter {
			for letter, b := range letters {
				bm := roaring.New()
				if err := bm.UnmarshalBinary(b); err != nil {
					return nil, fmt.Errorf("decode bucket %d pos %d letter %d: %w", cb.Length, pos, letter, err)
				}
				lb.posLetter[pos][letter] = bm
			}
		}
		for letter, b := range cb.Contains {
			bm := roaring.New()
			if err := bm.UnmarshalBinary(b); err != nil {
				return nil, fmt.Errorf("decode bucket %d contains %d: %w", cb.Length, letter, err)
			}
			lb.contains[letter] = bm
		}

		idx.lens[cb.Length] = lb
	}

	return &idx, nil
}
