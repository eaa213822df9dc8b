// Package api defines the Tokenizer API.
// It's a separate package to break cyclic dependencies, and allow the users to import `tokenizers`
// and get the default implementations.
package api

// Tokenizer converts text to sequences of token ids (int32) and back.
//
// Implementations are immutable after construction: every method is a pure function of its
// arguments and the tokenizer's fixed tables, so a single instance is safe for concurrent
// use without locking.
type Tokenizer interface {
	// Encode converts text into token ids. If addSpecialTokens is true, the tokenizer's
	// configured sequence-boundary ids (if any) are added around the result.
	Encode(text string, addSpecialTokens bool) ([]int32, error)

	// EncodeBatch encodes each text independently. Results are index-aligned with texts.
	// The whole batch fails on the first element that fails.
	EncodeBatch(texts []string, addSpecialTokens bool) ([][]int32, error)

	// Decode converts token ids back into text. If skipSpecialTokens is true, ids registered
	// as special tokens are omitted. An id with no corresponding token is an error.
	Decode(ids []int32, skipSpecialTokens bool) (string, error)

	// DecodeBatch decodes each id sequence independently. Results are index-aligned with
	// idsBatch. The whole batch fails on the first element that fails.
	DecodeBatch(idsBatch [][]int32, skipSpecialTokens bool) ([]string, error)

	// GetVocabSize returns the vocabulary size. Special tokens are considered.
	GetVocabSize() int

	// IdToToken returns the token for the given id, or the empty string if there is none.
	IdToToken(id int32) string

	// TokenToId returns the id for the given token, or NoToken (-1) if there is none.
	TokenToId(token string) int32
}

// NoToken is returned by Tokenizer.TokenToId for tokens absent from the vocabulary.
// A failed reverse lookup is not an error, it's a defined sentinel.
const NoToken = int32(-1)
