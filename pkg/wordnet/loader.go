package wordnet

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unsafe"

	"github.com/charmbracelet/log"
)

// LoadMode selects how WordNet's data/index files are read off disk.
type LoadMode int

const (
	// Owned reads each file fully into a heap buffer with os.ReadFile.
	Owned LoadMode = iota
	// Mmap reads each file via mmap(2) on platforms that support it,
	// falling back to Owned elsewhere.
	Mmap
)

// maxDroppedPointerFraction bounds how many cross-synset pointers may fail
// to resolve before the loader gives up rather than silently returning a
// dictionary missing a meaningful slice of its relation graph.
const maxDroppedPointerFraction = 0.001

type indexKey struct {
	pos   Pos
	lemma string
}

type senseKey struct {
	lemma string
	pos   Pos
	sense uint32
}

// Dictionary is an in-memory, read-only view over a loaded WordNet
// distribution. Build it once with Load and query it concurrently; there is
// no mutable state after construction.
//
// Every Synset/IndexEntry/Lemma/Gloss string stored below borrows directly
// from the backing file via borrowString rather than copying it. In Owned
// mode the backing array is ordinary heap memory that the Go runtime keeps
// alive for as long as any borrowed string still points into it. In Mmap
// mode it's a live mmap(2) mapping, which the garbage collector knows
// nothing about; closers holds the unmap funcs for those mappings and must
// not run while any value obtained from this Dictionary is still reachable.
type Dictionary struct {
	index          map[indexKey]*IndexEntry
	synsets        map[SynsetId]*Synset
	lemmaToSynsets map[indexKey][]SynsetId
	verbFrameText  map[uint16]string
	senseCounts    map[senseKey]uint32
	closers        []func() error
}

var requiredFiles = []string{
	"data.noun", "data.verb", "data.adj", "data.adv",
	"index.noun", "index.verb", "index.adj", "index.adv",
}

// Load parses a WordNet distribution directory into a Dictionary.
func Load(dir string, mode LoadMode) (*Dictionary, error) {
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("missing required WordNet file %s: %w", name, err)
		}
	}

	d := &Dictionary{
		index:          make(map[indexKey]*IndexEntry),
		synsets:        make(map[SynsetId]*Synset),
		lemmaToSynsets: make(map[indexKey][]SynsetId),
		verbFrameText:  make(map[uint16]string),
		senseCounts:    make(map[senseKey]uint32),
	}

	// Every stored string below is an unsafe.String view into the slice
	// read here (see borrowString), not a copy. In Mmap mode those slices
	// alias the kernel's page cache, so the mapping has to outlive every
	// borrow taken from it. ok gates the cleanup defer: on success the
	// accumulated unmap funcs move onto d.closers for an eventual Close();
	// on a parse failure partway through, the defer unmaps whatever had
	// already been opened instead of leaking the file descriptors.
	var closers []func() error
	ok := false
	defer func() {
		if ok {
			return
		}
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warnf("wordnet: munmap failed: %v", err)
			}
		}
	}()

	for _, pos := range AllPos() {
		b, unmap, err := readFile(filepath.Join(dir, "index."+posFileSuffix(pos)), mode)
		if err != nil {
			return nil, fmt.Errorf("read index.%s: %w", posFileSuffix(pos), err)
		}
		closers = append(closers, unmap)
		if err := d.parseIndex(b, pos); err != nil {
			return nil, err
		}
	}

	for _, pos := range AllPos() {
		b, unmap, err := readFile(filepath.Join(dir, "data."+posFileSuffix(pos)), mode)
		if err != nil {
			return nil, fmt.Errorf("read data.%s: %w", posFileSuffix(pos), err)
		}
		closers = append(closers, unmap)
		if err := d.parseData(b, pos); err != nil {
			return nil, err
		}
	}

	if b, unmap, err := readOptional(filepath.Join(dir, "frames.vrb"), mode); err != nil {
		return nil, err
	} else if b != nil {
		closers = append(closers, unmap)
		d.parseFramesVrb(b)
	}

	if b, unmap, err := readOptional(filepath.Join(dir, "cntlist.rev"), mode); err != nil {
		return nil, err
	} else if b != nil {
		closers = append(closers, unmap)
		d.parseCntlist(b)
	}

	if err := d.crossValidate(); err != nil {
		return nil, err
	}

	d.closers = closers
	ok = true

	log.Infof("wordnet: loaded %d synsets, %d index entries, %d lemmas", len(d.synsets), len(d.index), len(d.lemmaToSynsets))
	return d, nil
}

// Close releases any mmap(2) mappings backing this Dictionary's borrowed
// strings. Every field loaded in Mmap mode is an unsafe.String view into
// those mappings, so Close must never be called while a value obtained from
// this Dictionary is still in use. In Owned mode it's a no-op: those
// buffers are plain heap memory and the garbage collector reclaims them
// once nothing borrows from them anymore.
func (d *Dictionary) Close() error {
	var firstErr error
	for _, c := range d.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	d.closers = nil
	return firstErr
}

func posFileSuffix(pos Pos) string {
	switch pos {
	case Noun:
		return "noun"
	case Verb:
		return "verb"
	case Adj:
		return "adj"
	case Adv:
		return "adv"
	default:
		return "noun"
	}
}

// readFile returns a file's contents and a func to release any resources
// backing the returned slice. In Owned mode the slice is a heap buffer and
// the release func is a no-op; in Mmap mode the slice borrows directly from
// an mmap(2) mapping and release unmaps it.
func readFile(path string, mode LoadMode) ([]byte, func() error, error) {
	if mode == Mmap {
		return mmapFile(path)
	}
	b, err := os.ReadFile(path)
	return b, func() error { return nil }, err
}

func readOptional(path string, mode LoadMode) ([]byte, func() error, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, func() error { return nil }, nil
	}
	b, unmap, err := readFile(path, mode)
	if err != nil {
		return nil, func() error { return nil }, fmt.Errorf("read %s: %w", path, err)
	}
	return b, unmap, nil
}

// borrowString builds a string that aliases b's backing array instead of
// copying it, the Go analog of the original's &'a str borrow off its
// Buffer. The caller must only store the result somewhere that does not
// outlive the slice b was taken from — here, the lifetime of the
// Dictionary holding the owning buffer or mapping.
func borrowString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// forEachRawLine splits data on '\n', trimming a trailing '\r' off each
// piece, without otherwise interpreting the line. Every slice handed to fn
// is a subslice of data, never a copy.
func forEachRawLine(data []byte, fn func(line []byte)) {
	for len(data) > 0 {
		var line []byte
		if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
			line = data[:nl]
			data = data[nl+1:]
		} else {
			line = data
			data = nil
		}
		fn(bytes.TrimSuffix(line, []byte("\r")))
	}
}

// eachLine is forEachRawLine specialized for data.*/index.* records: it
// drops blank lines and WordNet's copyright-header continuation lines
// (leading space/tab) before handing the rest to fn.
func eachLine(data []byte, fn func(line []byte) error) error {
	var outerErr error
	forEachRawLine(data, func(line []byte) {
		if outerErr != nil || len(line) == 0 || line[0] == ' ' || line[0] == '\t' {
			return
		}
		if err := fn(line); err != nil {
			outerErr = err
		}
	})
	return outerErr
}

func (d *Dictionary) parseIndex(data []byte, pos Pos) error {
	lineno := 0
	return eachLine(data, func(line []byte) error {
		lineno++
		tokens := bytes.Fields(line)
		if len(tokens) < 6 {
			return fmt.Errorf("index.%s:%d malformed index line", posFileSuffix(pos), lineno)
		}

		lemma := borrowString(tokens[0])
		lemmaKey := normalizeLemma(lemma)

		synsetCnt, err := strconv.ParseUint(string(tokens[2]), 10, 32)
		if err != nil {
			return fmt.Errorf("index.%s:%d synset_cnt: %w", posFileSuffix(pos), lineno, err)
		}
		pCnt, err := strconv.ParseUint(string(tokens[3]), 10, 32)
		if err != nil {
			return fmt.Errorf("index.%s:%d p_cnt: %w", posFileSuffix(pos), lineno, err)
		}

		idx := 4
		if len(tokens) < idx+int(pCnt) {
			return fmt.Errorf("index.%s:%d pointer count mismatch", posFileSuffix(pos), lineno)
		}
		ptrSymbols := make([]string, 0, pCnt)
		for _, t := range tokens[idx : idx+int(pCnt)] {
			ptrSymbols = append(ptrSymbols, borrowString(t))
		}
		idx += int(pCnt)

		if len(tokens) < idx+2 {
			return fmt.Errorf("index.%s:%d missing sense counts", posFileSuffix(pos), lineno)
		}
		senseCnt, err := strconv.ParseUint(string(tokens[idx]), 10, 32)
		if err != nil {
			return fmt.Errorf("index.%s:%d sense_cnt: %w", posFileSuffix(pos), lineno, err)
		}
		idx++
		tagsenseCnt, err := strconv.ParseUint(string(tokens[idx]), 10, 32)
		if err != nil {
			return fmt.Errorf("index.%s:%d tagsense_cnt: %w", posFileSuffix(pos), lineno, err)
		}
		idx++

		offsets := make([]uint32, 0, len(tokens)-idx)
		for _, t := range tokens[idx:] {
			off, err := strconv.ParseUint(string(t), 10, 32)
			if err != nil {
				return fmt.Errorf("index.%s:%d synset_offsets: %w", posFileSuffix(pos), lineno, err)
			}
			offsets = append(offsets, uint32(off))
		}
		if len(offsets) != int(synsetCnt) {
			return fmt.Errorf("index.%s:%d synset_cnt mismatch (expected %d, got %d)", posFileSuffix(pos), lineno, synsetCnt, len(offsets))
		}

		key := indexKey{pos: pos, lemma: lemmaKey}
		d.index[key] = &IndexEntry{
			Lemma:         lemma,
			Pos:           pos,
			SynsetCnt:     uint32(synsetCnt),
			PCnt:          uint32(pCnt),
			PtrSymbols:    ptrSymbols,
			SenseCnt:      uint32(senseCnt),
			TagsenseCnt:   uint32(tagsenseCnt),
			SynsetOffsets: offsets,
		}

		ids := make([]SynsetId, len(offsets))
		for i, off := range offsets {
			ids[i] = SynsetId{Pos: pos, Offset: off}
		}
		d.lemmaToSynsets[key] = ids
		return nil
	})
}

func (d *Dictionary) parseData(data []byte, pos Pos) error {
	lineno := 0
	return eachLine(data, func(line []byte) error {
		lineno++
		left, glossPart, _ := bytes.Cut(line, []byte("|"))
		left = bytes.TrimSpace(left)
		glossPart = bytes.TrimSpace(glossPart)

		tokens := bytes.Fields(left)
		if len(tokens) < 4 {
			return fmt.Errorf("data.%s:%d malformed data line", posFileSuffix(pos), lineno)
		}

		offset, err := strconv.ParseUint(string(tokens[0]), 10, 32)
		if err != nil {
			return fmt.Errorf("data.%s:%d offset: %w", posFileSuffix(pos), lineno, err)
		}
		lexFilenum, err := strconv.ParseUint(string(tokens[1]), 10, 8)
		if err != nil {
			return fmt.Errorf("data.%s:%d lex_filenum: %w", posFileSuffix(pos), lineno, err)
		}
		if len(tokens[2]) == 0 {
			return fmt.Errorf("data.%s:%d missing ss_type", posFileSuffix(pos), lineno)
		}
		synsetType, ok := SynsetTypeFromChar(tokens[2][0])
		if !ok {
			return fmt.Errorf("data.%s:%d invalid ss_type %q", posFileSuffix(pos), lineno, tokens[2])
		}
		wCnt, err := strconv.ParseUint(string(tokens[3]), 16, 32)
		if err != nil {
			return fmt.Errorf("data.%s:%d w_cnt: %w", posFileSuffix(pos), lineno, err)
		}

		idx := 4
		if len(tokens) < idx+int(wCnt)*2 {
			return fmt.Errorf("data.%s:%d not enough word/lex_id pairs", posFileSuffix(pos), lineno)
		}
		words := make([]Lemma, 0, wCnt)
		for i := uint64(0); i < wCnt; i++ {
			lexID, err := strconv.ParseUint(string(tokens[idx+1]), 16, 8)
			if err != nil {
				return fmt.Errorf("data.%s:%d lex_id: %w", posFileSuffix(pos), lineno, err)
			}
			words = append(words, Lemma{Text: borrowString(tokens[idx]), LexID: uint8(lexID)})
			idx += 2
		}

		if len(tokens) <= idx {
			return fmt.Errorf("data.%s:%d missing pointer count", posFileSuffix(pos), lineno)
		}
		pCnt, err := strconv.ParseUint(string(tokens[idx]), 10, 32)
		if err != nil {
			return fmt.Errorf("data.%s:%d p_cnt: %w", posFileSuffix(pos), lineno, err)
		}
		idx++

		pointers := make([]Pointer, 0, pCnt)
		for i := uint64(0); i < pCnt; i++ {
			if len(tokens) < idx+4 {
				return fmt.Errorf("data.%s:%d incomplete pointer block", posFileSuffix(pos), lineno)
			}
			symbol := borrowString(tokens[idx])
			targetOffset, err := strconv.ParseUint(string(tokens[idx+1]), 10, 32)
			if err != nil {
				return fmt.Errorf("data.%s:%d pointer target offset: %w", posFileSuffix(pos), lineno, err)
			}
			if len(tokens[idx+2]) == 0 {
				return fmt.Errorf("data.%s:%d pointer target pos", posFileSuffix(pos), lineno)
			}
			targetPos, ok := PosFromChar(tokens[idx+2][0])
			if !ok {
				return fmt.Errorf("data.%s:%d pointer target pos %q", posFileSuffix(pos), lineno, tokens[idx+2])
			}
			src, dst := DecodeST(string(tokens[idx+3]))
			pointers = append(pointers, Pointer{
				Symbol:  symbol,
				Target:  SynsetId{Pos: targetPos, Offset: uint32(targetOffset)},
				SrcWord: src,
				DstWord: dst,
			})
			idx += 4
		}

		var frames []Frame
		if pos == Verb {
			var fCnt uint64
			if len(tokens) > idx {
				fCnt, err = strconv.ParseUint(string(tokens[idx]), 10, 32)
				if err != nil {
					return fmt.Errorf("data.%s:%d f_cnt: %w", posFileSuffix(pos), lineno, err)
				}
				idx++
			}
			for i := uint64(0); i < fCnt; i++ {
				if len(tokens) < idx+3 {
					return fmt.Errorf("data.%s:%d incomplete frame entry", posFileSuffix(pos), lineno)
				}
				if !bytes.Equal(tokens[idx], []byte("+")) {
					return fmt.Errorf("data.%s:%d expected '+' before frame entry", posFileSuffix(pos), lineno)
				}
				frameNumber, err := strconv.ParseUint(string(tokens[idx+1]), 10, 16)
				if err != nil {
					return fmt.Errorf("data.%s:%d frame_number: %w", posFileSuffix(pos), lineno, err)
				}
				frames = append(frames, Frame{
					FrameNumber: uint16(frameNumber),
					WordNumber:  parseWordNumber(string(tokens[idx+2])),
				})
				idx += 3
			}
		}

		id := SynsetId{Pos: pos, Offset: uint32(offset)}
		if _, exists := d.synsets[id]; exists {
			return fmt.Errorf("data.%s:%d duplicate synset offset %d", posFileSuffix(pos), lineno, offset)
		}
		d.synsets[id] = &Synset{
			ID:         id,
			LexFilenum: uint8(lexFilenum),
			SynsetType: synsetType,
			Words:      words,
			Pointers:   pointers,
			Frames:     frames,
			Gloss:      parseGloss(glossPart),
		}
		return nil
	})
}

func parseGloss(raw []byte) Gloss {
	trimmed := bytes.TrimSpace(raw)
	var examples []string
	inQuote := false
	quoteStart := -1
	defEnd := len(trimmed)

	for i := 0; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '"':
			if inQuote {
				if quoteStart >= 0 && i > quoteStart+1 {
					examples = append(examples, borrowString(trimmed[quoteStart+1:i]))
				}
				quoteStart = -1
			} else {
				quoteStart = i
			}
			inQuote = !inQuote
		case ';':
			if !inQuote && defEnd == len(trimmed) {
				defEnd = i
			}
		}
	}

	definition := borrowString(bytes.TrimSpace(trimmed[:defEnd]))
	return Gloss{Raw: borrowString(trimmed), Definition: definition, Examples: examples}
}

func (d *Dictionary) parseFramesVrb(data []byte) {
	lineno := 0
	forEachRawLine(data, func(line []byte) {
		lineno++
		if len(line) == 0 {
			return
		}
		num, rest, found := bytes.Cut(line, []byte(" "))
		n, err := strconv.ParseUint(string(num), 10, 16)
		if !found || err != nil {
			log.Warnf("frames.vrb:%d invalid frame number", lineno)
			return
		}
		d.verbFrameText[uint16(n)] = borrowString(bytes.TrimSpace(rest))
	})
}

func (d *Dictionary) parseCntlist(data []byte) {
	forEachRawLine(data, func(line []byte) {
		if len(line) == 0 {
			return
		}
		tokens := bytes.Fields(line)
		if len(tokens) < 3 {
			return
		}
		count, err := strconv.ParseUint(string(tokens[0]), 10, 32)
		if err != nil {
			return
		}
		lemma := normalizeLemma(string(tokens[1]))
		pos, ok := PosFromChar(tokens[2][0])
		if !ok {
			pos = Noun
		}
		sense := uint64(1)
		if len(tokens) > 3 {
			if s, err := strconv.ParseUint(string(tokens[3]), 10, 32); err == nil {
				sense = s
			}
		}
		d.senseCounts[senseKey{lemma: lemma, pos: pos, sense: uint32(sense)}] = uint32(count)
	})
}

// crossValidate drops pointers whose targets never resolved to a parsed
// synset, aborting only if that happens for more than
// maxDroppedPointerFraction of all pointers loaded.
func (d *Dictionary) crossValidate() error {
	total := 0
	dropped := 0
	for _, syn := range d.synsets {
		kept := syn.Pointers[:0:0]
		for _, ptr := range syn.Pointers {
			total++
			if _, ok := d.synsets[ptr.Target]; ok {
				kept = append(kept, ptr)
			} else {
				dropped++
			}
		}
		syn.Pointers = kept
	}
	if total > 0 && float64(dropped)/float64(total) > maxDroppedPointerFraction {
		return fmt.Errorf("wordnet: dropped %d/%d pointers (%.4f%%), exceeding the %.4f%% threshold",
			dropped, total, 100*float64(dropped)/float64(total), 100*maxDroppedPointerFraction)
	}
	if dropped > 0 {
		log.Warnf("wordnet: dropped %d/%d unresolved pointers", dropped, total)
	}
	return nil
}

func parseWordNumber(token string) uint16 {
	if v, err := strconv.ParseUint(token, 16, 16); err == nil {
		return uint16(v)
	}
	if v, err := strconv.ParseUint(token, 10, 16); err == nil {
		return uint16(v)
	}
	return 0
}

func normalizeLemma(text string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), " ", "_")
}

// LemmaExists reports whether lemma has at least one synset for pos.
func (d *Dictionary) LemmaExists(pos Pos, lemma string) bool {
	_, ok := d.lemmaToSynsets[indexKey{pos: pos, lemma: normalizeLemma(lemma)}]
	return ok
}

// IndexEntryFor fetches a lemma's raw index.* record, if present.
func (d *Dictionary) IndexEntryFor(pos Pos, lemma string) (*IndexEntry, bool) {
	e, ok := d.index[indexKey{pos: pos, lemma: normalizeLemma(lemma)}]
	return e, ok
}

// SynsetsForLemma returns the synsets associated with a lemma, or nil.
func (d *Dictionary) SynsetsForLemma(pos Pos, lemma string) []SynsetId {
	return d.lemmaToSynsets[indexKey{pos: pos, lemma: normalizeLemma(lemma)}]
}

// GetSynset fetches a synset by id if loaded.
func (d *Dictionary) GetSynset(id SynsetId) (*Synset, bool) {
	s, ok := d.synsets[id]
	return s, ok
}

// IndexCount returns the number of index.* entries loaded.
func (d *Dictionary) IndexCount() int { return len(d.index) }

// LemmaCount returns the number of distinct (pos, lemma) pairs loaded.
func (d *Dictionary) LemmaCount() int { return len(d.lemmaToSynsets) }

// SynsetCount returns the number of synsets loaded.
func (d *Dictionary) SynsetCount() int { return len(d.synsets) }

// VerbFrameTemplatesCount returns how many frames.vrb templates were loaded.
func (d *Dictionary) VerbFrameTemplatesCount() int { return len(d.verbFrameText) }

// SenseCountEntries returns how many cntlist.rev entries were loaded.
func (d *Dictionary) SenseCountEntries() int { return len(d.senseCounts) }

// VerbFrameText returns a verb frame's template text, if frames.vrb was
// present and defines that frame number.
func (d *Dictionary) VerbFrameText(frameNumber uint16) (string, bool) {
	t, ok := d.verbFrameText[frameNumber]
	return t, ok
}

// SenseCount returns the sense frequency for a lemma/pos/synset from
// cntlist.rev, if present.
func (d *Dictionary) SenseCount(pos Pos, lemma string, synsetOffset uint32) (uint32, bool) {
	normalized := normalizeLemma(lemma)
	entry, ok := d.index[indexKey{pos: pos, lemma: normalized}]
	if !ok {
		return 0, false
	}
	senseNumber := -1
	for i, off := range entry.SynsetOffsets {
		if off == synsetOffset {
			senseNumber = i + 1
			break
		}
	}
	if senseNumber < 0 {
		return 0, false
	}
	count, ok := d.senseCounts[senseKey{lemma: normalized, pos: pos, sense: uint32(senseNumber)}]
	return count, ok
}
