// Package bytelevelbpe implements a byte-level byte-pair-encoding tokenizer built from
// raw vocabulary and merge-rule blobs.
//
// Byte-level means every input is representable: the raw UTF-8 bytes are remapped to a
// printable alphabet before merging, so there is no out-of-vocabulary input, and
// encode/decode round-trips losslessly.
package bytelevelbpe

import (
	"github.com/gomlx/go-tokenizers/api"
)

// Tokenizer is a byte-level BPE tokenizer. It aggregates a vocabulary table, a merge
// rule table and an added-token overlay, all built at construction time and immutable
// afterwards, so a Tokenizer is safe for concurrent use.
type Tokenizer struct {
	vocab  *vocabulary
	merges *mergeTable
	added  *addedTokenSet

	// maxParallelism controls batch operations: 0 means sequential (the default),
	// anything else enables the parallel batch mode with that worker limit
	// (unbounded when negative).
	maxParallelism int
}

// Compile time assert that Tokenizer implements the api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// New builds a Tokenizer from in-memory blobs: a JSON token->id vocabulary, an ordered
// "left right" merges list, and an optional added-tokens blob (nil or empty for none).
//
// All tables are built here, synchronously; on any malformed blob New fails without
// returning a partially-usable tokenizer.
func New(vocabBlob, mergesBlob, addedTokensBlob []byte) (*Tokenizer, error) {
	vocab, err := newVocabulary(vocabBlob)
	if err != nil {
		return nil, err
	}
	merges, err := newMergeTable(mergesBlob)
	if err != nil {
		return nil, err
	}
	added, err := newAddedTokenSet(addedTokensBlob, vocab)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{
		vocab:  vocab,
		merges: merges,
		added:  added,
	}, nil
}

// WithParallelBatch makes EncodeBatch/DecodeBatch process elements concurrently, with
// at most maxParallelism goroutines (unbounded if negative). Set to 0 to restore the
// default sequential behavior. Results stay index-aligned either way; sequential mode
// additionally guarantees the first failing index reports the batch error.
func (t *Tokenizer) WithParallelBatch(maxParallelism int) *Tokenizer {
	t.maxParallelism = maxParallelism
	return t
}

// GetVocabSize returns the vocabulary size, counting added tokens that extend past the
// base vocabulary.
func (t *Tokenizer) GetVocabSize() int {
	if int(t.added.maxID) >= t.vocab.size() {
		return int(t.added.maxID) + 1
	}
	return t.vocab.size()
}

// IdToToken returns the token for id, or "" if there is none. Out-of-range ids are not
// an error, just an empty result.
func (t *Tokenizer) IdToToken(id int32) string {
	if content, found := t.added.contentOf(id); found {
		return content
	}
	return t.vocab.token(id)
}

// TokenToId returns the id for token, or api.NoToken if the token is unknown. Added
// tokens take precedence over the base vocabulary.
func (t *Tokenizer) TokenToId(token string) int32 {
	if id, found := t.added.byContent[token]; found {
		return id
	}
	return t.vocab.id(token)
}
