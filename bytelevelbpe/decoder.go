package bytelevelbpe

import (
	"strings"
	"unicode/utf8"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/pkg/errors"
)

// Decode converts token ids back into text: each id becomes its token string, the
// concatenation is inverted rune-by-rune through the byte-level alphabet, and the
// resulting byte sequence is the UTF-8 text.
//
// Added-token ids re-emit their literal content verbatim, mirroring how they bypass the
// byte-level remapping during encoding. An id with no corresponding token is an error,
// not a silent skip: decode must produce text, there is no sentinel to return.
func (t *Tokenizer) Decode(ids []int32, skipSpecialTokens bool) (string, error) {
	var out strings.Builder
	for _, id := range ids {
		if skipSpecialTokens && t.added.isSpecial(id) {
			continue
		}
		if content, found := t.added.contentOf(id); found {
			out.WriteString(content)
			continue
		}
		token := t.vocab.token(id)
		if token == "" {
			return "", errors.Errorf("cannot decode unknown token id %d (vocabulary size %d)", id, t.GetVocabSize())
		}
		for _, r := range token {
			if b, ok := unmapRune(r); ok {
				out.WriteByte(b)
				continue
			}
			// Rune outside the alphabet: it was stored literally, keep its UTF-8 bytes.
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], r)
			out.Write(buf[:n])
		}
	}
	return out.String(), nil
}

// DecodeBatch decodes each id sequence independently, failing the whole batch on the
// first error. With WithParallelBatch set, sequences are processed concurrently.
func (t *Tokenizer) DecodeBatch(idsBatch [][]int32, skipSpecialTokens bool) ([]string, error) {
	if t.maxParallelism != 0 {
		return api.DecodeBatchParallel(t, idsBatch, skipSpecialTokens, t.maxParallelism)
	}
	return api.DecodeBatchSequential(t, idsBatch, skipSpecialTokens)
}
