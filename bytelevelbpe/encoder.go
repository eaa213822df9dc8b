package bytelevelbpe

import (
	"github.com/gomlx/go-tokenizers/api"
	"github.com/pkg/errors"
)

// Encode converts text into token ids.
//
// The text is first split around added tokens (longest-leftmost match), which map
// directly to their ids. Each remaining plain segment has its UTF-8 bytes remapped
// through the byte-level alphabet into single-rune symbols, which are then merged
// greedily: on every pass the adjacent pair with the lowest merge rank is chosen
// (leftmost occurrence on rank ties across pairs) and all its non-overlapping
// occurrences are replaced left to right, until no pair has a rule. The final symbols
// are looked up in the vocabulary.
//
// A final symbol missing from the vocabulary means the vocab and merges blobs don't
// belong together; that is reported as an error rather than silently dropped.
func (t *Tokenizer) Encode(text string, addSpecialTokens bool) ([]int32, error) {
	ids := []int32{}
	if addSpecialTokens && t.added.bosID != api.NoToken {
		ids = append(ids, t.added.bosID)
	}
	for _, frag := range t.added.split(text) {
		if frag.added {
			ids = append(ids, frag.id)
			continue
		}
		var err error
		ids, err = t.encodeSegment(ids, frag.text)
		if err != nil {
			return nil, err
		}
	}
	if addSpecialTokens && t.added.eosID != api.NoToken {
		ids = append(ids, t.added.eosID)
	}
	return ids, nil
}

// EncodeBatch encodes each text independently, failing the whole batch on the first
// error. With WithParallelBatch set, texts are processed concurrently; results are
// index-aligned with the inputs either way.
func (t *Tokenizer) EncodeBatch(texts []string, addSpecialTokens bool) ([][]int32, error) {
	if t.maxParallelism != 0 {
		return api.EncodeBatchParallel(t, texts, addSpecialTokens, t.maxParallelism)
	}
	return api.EncodeBatchSequential(t, texts, addSpecialTokens)
}

// encodeSegment runs the merge algorithm over one plain text segment and appends the
// resulting ids.
func (t *Tokenizer) encodeSegment(ids []int32, segment string) ([]int32, error) {
	if segment == "" {
		return ids, nil
	}

	// Initial symbol sequence: one symbol per raw byte, remapped to the printable
	// alphabet.
	mapped := []rune(mapBytes(segment))
	symbols := make([]string, len(mapped))
	for ii, r := range mapped {
		symbols[ii] = string(r)
	}

	for len(symbols) > 1 {
		// Find the lowest-rank pair present in the merge table. Ranks are unique per
		// pair identity, so scanning left to right with a strict improvement test
		// resolves equal-rank candidates to the leftmost occurrence.
		bestRank := noRule
		for ii := 0; ii+1 < len(symbols); ii++ {
			if r := t.merges.rank(symbols[ii], symbols[ii+1]); r < bestRank {
				bestRank = r
			}
		}
		if bestRank == noRule {
			break
		}

		// Replace every non-overlapping occurrence of the winning pair in one
		// left-to-right pass.
		merged := symbols[:0]
		for ii := 0; ii < len(symbols); ii++ {
			if ii+1 < len(symbols) && t.merges.rank(symbols[ii], symbols[ii+1]) == bestRank {
				merged = append(merged, symbols[ii]+symbols[ii+1])
				ii++
				continue
			}
			merged = append(merged, symbols[ii])
		}
		symbols = merged
	}

	for _, symbol := range symbols {
		id := t.vocab.id(symbol)
		if id == api.NoToken {
			return nil, errors.Errorf("symbol %q produced by merging is not in the vocabulary; vocab and merges blobs are inconsistent", symbol)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
