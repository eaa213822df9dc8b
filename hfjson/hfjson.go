// Package hfjson implements an api.Tokenizer from a HuggingFace "tokenizer.json" blob,
// the single-file format used by the HuggingFace Tokenizers library.
//
// The heavy lifting (normalizers, pre-tokenizers, models, post-processors) is delegated
// to github.com/sugarme/tokenizer, a pure-Go implementation of that format.
package hfjson

import (
	"os"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/internal/files"
	"github.com/pkg/errors"
	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"
)

// New creates a tokenizer from an in-memory tokenizer.json blob.
//
// The underlying library only loads from the filesystem, so the blob is staged to a
// temporary file which is removed before New returns.
func New(jsonBlob []byte) (*Tokenizer, error) {
	tmpPath, err := files.WriteTemp(jsonBlob, "tokenizer-*.json")
	if err != nil {
		return nil, errors.WithMessagef(err, "staging tokenizer.json blob")
	}
	defer func() { _ = os.Remove(tmpPath) }()

	tk, err := pretrained.FromFile(tmpPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load tokenizer.json blob")
	}
	return &Tokenizer{inner: tk}, nil
}

// Tokenizer implements the api.Tokenizer interface on top of a HuggingFace
// tokenizer.json configuration.
type Tokenizer struct {
	inner *tokenizer.Tokenizer
}

// Compile time assert that hfjson.Tokenizer implements the api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// Encode returns the text encoded into a sequence of ids.
func (t *Tokenizer) Encode(text string, addSpecialTokens bool) ([]int32, error) {
	encoding, err := t.inner.EncodeSingle(text, addSpecialTokens)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode text")
	}
	ids := make([]int32, len(encoding.Ids))
	for ii, id := range encoding.Ids {
		ids[ii] = int32(id)
	}
	return ids, nil
}

// EncodeBatch encodes each text independently, failing fast on the first error.
func (t *Tokenizer) EncodeBatch(texts []string, addSpecialTokens bool) ([][]int32, error) {
	return api.EncodeBatchSequential(t, texts, addSpecialTokens)
}

// Decode returns the text from a sequence of ids.
func (t *Tokenizer) Decode(ids []int32, skipSpecialTokens bool) (string, error) {
	intIDs := make([]int, len(ids))
	for ii, id := range ids {
		if _, found := t.inner.IdToToken(int(id)); !found {
			return "", errors.Errorf("cannot decode unknown token id %d (vocabulary size %d)", id, t.GetVocabSize())
		}
		intIDs[ii] = int(id)
	}
	return t.inner.Decode(intIDs, skipSpecialTokens), nil
}

// DecodeBatch decodes each id sequence independently, failing fast on the first error.
func (t *Tokenizer) DecodeBatch(idsBatch [][]int32, skipSpecialTokens bool) ([]string, error) {
	return api.DecodeBatchSequential(t, idsBatch, skipSpecialTokens)
}

// GetVocabSize returns the vocabulary size, added tokens included.
func (t *Tokenizer) GetVocabSize() int {
	return t.inner.GetVocabSize(true)
}

// IdToToken returns the token for the given id, or "" if there is none.
func (t *Tokenizer) IdToToken(id int32) string {
	token, found := t.inner.IdToToken(int(id))
	if !found {
		return ""
	}
	return token
}

// TokenToId returns the id for the given token, or api.NoToken if there is none.
func (t *Tokenizer) TokenToId(token string) int32 {
	id, found := t.inner.TokenToId(token)
	if !found {
		return api.NoToken
	}
	return int32(id)
}
