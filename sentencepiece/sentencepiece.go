// Package sentencepiece implements an api.Tokenizer based on SentencePiece tokenizer.
package sentencepiece

import (
	"bytes"

	esentencepiece "github.com/eliben/go-sentencepiece"
	"github.com/gomlx/go-tokenizers/api"
	"github.com/pkg/errors"
)

// New creates a SentencePiece tokenizer from an in-memory model blob, which must be a
// serialized SentencePiece Model proto (the usual "tokenizer.model" file contents).
func New(modelBlob []byte) (*Tokenizer, error) {
	proc, err := esentencepiece.NewProcessor(bytes.NewReader(modelBlob))
	if err != nil {
		return nil, errors.Wrapf(err, "can't create sentencepiece tokenizer from model blob")
	}
	return &Tokenizer{
		proc: proc,
		info: proc.ModelInfo(),
	}, nil
}

// Tokenizer implements the api.Tokenizer interface based on the SentencePiece tokenizer
// by Google. The underlying processor is immutable, so the Tokenizer is safe for
// concurrent use.
type Tokenizer struct {
	proc *esentencepiece.Processor
	info *esentencepiece.ModelInfo
}

// Compile time assert that sentencepiece.Tokenizer implements the api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// Encode returns the text encoded into a sequence of ids. With addSpecialTokens, the
// model's beginning/end-of-sentence ids (when defined, >= 0) wrap the sequence.
func (p *Tokenizer) Encode(text string, addSpecialTokens bool) ([]int32, error) {
	tokens := p.proc.Encode(text)
	ids := make([]int32, 0, len(tokens)+2)
	if addSpecialTokens && p.info.BeginningOfSentenceID >= 0 {
		ids = append(ids, int32(p.info.BeginningOfSentenceID))
	}
	for _, t := range tokens {
		ids = append(ids, int32(t.ID))
	}
	if addSpecialTokens && p.info.EndOfSentenceID >= 0 {
		ids = append(ids, int32(p.info.EndOfSentenceID))
	}
	return ids, nil
}

// EncodeBatch encodes each text independently, failing fast on the first error.
func (p *Tokenizer) EncodeBatch(texts []string, addSpecialTokens bool) ([][]int32, error) {
	return api.EncodeBatchSequential(p, texts, addSpecialTokens)
}

// Decode returns the text from a sequence of ids.
func (p *Tokenizer) Decode(ids []int32, skipSpecialTokens bool) (string, error) {
	intIDs := make([]int, 0, len(ids))
	for _, id := range ids {
		if id < 0 || int(id) >= p.info.VocabularySize {
			return "", errors.Errorf("cannot decode unknown token id %d (vocabulary size %d)", id, p.info.VocabularySize)
		}
		if skipSpecialTokens && p.isSpecial(int(id)) {
			continue
		}
		intIDs = append(intIDs, int(id))
	}
	return p.proc.Decode(intIDs), nil
}

// DecodeBatch decodes each id sequence independently, failing fast on the first error.
func (p *Tokenizer) DecodeBatch(idsBatch [][]int32, skipSpecialTokens bool) ([]string, error) {
	return api.DecodeBatchSequential(p, idsBatch, skipSpecialTokens)
}

// GetVocabSize returns the model's vocabulary size.
func (p *Tokenizer) GetVocabSize() int {
	return p.info.VocabularySize
}

// IdToToken returns the text for the given id, or "" if the id is out of range.
//
// The underlying library doesn't expose the raw piece table, so this decodes the single
// id; control pieces (bos/eos/pad) therefore come back empty.
func (p *Tokenizer) IdToToken(id int32) string {
	if id < 0 || int(id) >= p.info.VocabularySize {
		return ""
	}
	return p.proc.Decode([]int{int(id)})
}

// TokenToId returns the id the given token text encodes to, or api.NoToken when the
// text is not a single piece of the model.
func (p *Tokenizer) TokenToId(token string) int32 {
	tokens := p.proc.Encode(token)
	if len(tokens) != 1 {
		return api.NoToken
	}
	return int32(tokens[0].ID)
}

// isSpecial reports whether id is one of the model's control ids.
func (p *Tokenizer) isSpecial(id int) bool {
	return (p.info.BeginningOfSentenceID >= 0 && id == p.info.BeginningOfSentenceID) ||
		(p.info.EndOfSentenceID >= 0 && id == p.info.EndOfSentenceID) ||
		(p.info.PadID >= 0 && id == p.info.PadID)
}
