// Package tokenizers is a universal text tokenizer library: one interface over several
// tokenization schemes, selected by which blob-based constructor you call.
//
// The constructors take in-memory blobs, so the library itself is independent from the
// filesystem: callers own reading model files into memory (LoadBlob is a convenience
// for that).
//
// Available backends:
//
//   - FromBlobByteLevelBPE: byte-level byte-pair-encoding from raw vocabulary and
//     merge-rule blobs (implemented by this module, package bytelevelbpe);
//   - FromBlobJSON: HuggingFace tokenizer.json (package hfjson);
//   - FromBlobSentencePiece: SentencePiece model proto (package sentencepiece);
//   - FromBlobRWKVWorld: RWKV world vocabulary (package rwkvworld).
package tokenizers

import (
	"os"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/gomlx/go-tokenizers/bytelevelbpe"
	"github.com/gomlx/go-tokenizers/hfjson"
	"github.com/gomlx/go-tokenizers/rwkvworld"
	"github.com/gomlx/go-tokenizers/sentencepiece"
	"github.com/pkg/errors"
)

// Version of the library.
// Manually kept in sync with project releases.
var Version = "v0.0.0-dev"

// Tokenizer interface allows one to convert text to "tokens" (integer ids) and back.
//
// All implementations are immutable after construction and safe for concurrent use.
type Tokenizer = api.Tokenizer

// NoToken is the sentinel returned by Tokenizer.TokenToId for unknown tokens.
const NoToken = api.NoToken

// FromBlobByteLevelBPE creates a byte-level BPE tokenizer from a JSON token->id
// vocabulary blob and an ordered merge-rules blob. addedTokensBlob optionally layers
// literal tokens (and bos/eos configuration) on top; pass nil for none.
func FromBlobByteLevelBPE(vocabBlob, mergesBlob, addedTokensBlob []byte) (Tokenizer, error) {
	return bytelevelbpe.New(vocabBlob, mergesBlob, addedTokensBlob)
}

// FromBlobJSON creates a tokenizer from a single in-memory HuggingFace tokenizer.json
// blob.
func FromBlobJSON(jsonBlob []byte) (Tokenizer, error) {
	return hfjson.New(jsonBlob)
}

// FromBlobSentencePiece creates a tokenizer from a serialized SentencePiece model blob.
func FromBlobSentencePiece(modelBlob []byte) (Tokenizer, error) {
	return sentencepiece.New(modelBlob)
}

// FromBlobRWKVWorld creates a tokenizer from an RWKV world vocabulary blob.
func FromBlobRWKVWorld(modelBlob []byte) (Tokenizer, error) {
	return rwkvworld.New(modelBlob)
}

// LoadBlob reads a whole file into memory, for feeding the FromBlob constructors.
func LoadBlob(filePath string) ([]byte, error) {
	contents, err := os.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read blob from %q", filePath)
	}
	return contents, nil
}
