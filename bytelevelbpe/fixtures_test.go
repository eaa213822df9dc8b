package bytelevelbpe

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// testVocabBlob builds a vocabulary blob holding every single-byte symbol of the
// alphabet at ids 0..255, followed by the extra tokens at ids 256, 257, ...
// This mirrors the base layer of real byte-level BPE vocabularies, where every byte is
// representable by construction.
func testVocabBlob(t *testing.T, extra ...string) []byte {
	t.Helper()
	vocab := make(map[string]int32, 256+len(extra))
	for b := 0; b < 256; b++ {
		vocab[string(byteToRune[b])] = int32(b)
	}
	for ii, token := range extra {
		vocab[token] = int32(256 + ii)
	}
	blob, err := json.Marshal(vocab)
	require.NoError(t, err)
	return blob
}

// testTokenizer builds a tokenizer over the byte-level base vocabulary plus the given
// extra tokens and merge rules.
func testTokenizer(t *testing.T, mergesBlob string, extra ...string) *Tokenizer {
	t.Helper()
	tok, err := New(testVocabBlob(t, extra...), []byte(mergesBlob), nil)
	require.NoError(t, err)
	return tok
}
