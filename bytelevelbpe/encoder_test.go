package bytelevelbpe

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeEmptyInput(t *testing.T) {
	tok := testTokenizer(t, "")
	ids, err := tok.Encode("", false)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestEncodeSingleBytes(t *testing.T) {
	// With no merge rules every byte encodes to its own id, which the base vocabulary
	// assigns equal to the byte value.
	tok := testTokenizer(t, "")
	ids, err := tok.Encode("abc", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{'a', 'b', 'c'}, ids)

	ids, err = tok.Encode(" \n", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{' ', '\n'}, ids)
}

func TestEncodeMergePriority(t *testing.T) {
	// Merges "t h" (rank 0), "a t" (rank 1), "th e" (rank 2).
	tok := testTokenizer(t, "t h\na t\nth e\n", "th", "at", "the")

	// In "ath" both "a t" and "t h" are candidates; the lower rank "t h" must win,
	// giving [a, th] rather than [at, h].
	ids, err := tok.Encode("ath", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{'a', tok.TokenToId("th")}, ids)

	// "that" -> t,h,a,t -> th,a,t -> th,at.
	ids, err = tok.Encode("that", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{tok.TokenToId("th"), tok.TokenToId("at")}, ids)

	// "the" -> th,e -> the, exercising a rule over an already-merged symbol.
	ids, err = tok.Encode("the", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{tok.TokenToId("the")}, ids)
}

func TestEncodeReplacesAllOccurrencesPerPass(t *testing.T) {
	tok := testTokenizer(t, "a a\naa aa\n", "aa", "aaaa")

	// One pass merges every non-overlapping "a a" left to right: aaaa -> aa,aa -> aaaa.
	ids, err := tok.Encode("aaaa", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{tok.TokenToId("aaaa")}, ids)

	// Odd count: the trailing "a" survives both passes.
	ids, err = tok.Encode("aaaaa", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{tok.TokenToId("aaaa"), 'a'}, ids)
}

func TestEncodeDeterminism(t *testing.T) {
	tok := testTokenizer(t, "t h\na t\nth e\n", "th", "at", "the")
	first, err := tok.Encode("that that the", false)
	require.NoError(t, err)
	second, err := tok.Encode("that that the", false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEncodeInconsistentBlobs(t *testing.T) {
	// A merge rule producing a symbol absent from the vocabulary must surface as an
	// encode-time error: it means the vocab and merges blobs don't belong together.
	vocab := testVocabBlob(t) // No "ab" entry.
	tok, err := New(vocab, []byte("a b\n"), nil)
	require.NoError(t, err)
	_, err = tok.Encode("ab", false)
	assert.ErrorContains(t, err, "not in the vocabulary")
}

func TestEncodeAddedTokensBypassMerging(t *testing.T) {
	vocab := testVocabBlob(t, "th")
	added := []byte(`[{"id": 300, "content": "<|endoftext|>"}]`)
	tok, err := New(vocab, []byte("t h\n"), added)
	require.NoError(t, err)

	ids, err := tok.Encode("th<|endoftext|>th", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{tok.TokenToId("th"), 300, tok.TokenToId("th")}, ids)

	// The added token is never decomposed, even though its characters are all
	// individually encodable.
	ids, err = tok.Encode("<|endoftext|>", false)
	require.NoError(t, err)
	assert.Equal(t, []int32{300}, ids)
}

func TestEncodeSpecialTokenToggle(t *testing.T) {
	added := []byte(`{
		"added_tokens": [
			{"id": 256, "content": "<s>", "special": true},
			{"id": 257, "content": "</s>", "special": true}
		],
		"bos_token": "<s>",
		"eos_token": "</s>"
	}`)
	tok, err := New(testVocabBlob(t), nil, added)
	require.NoError(t, err)

	plain, err := tok.Encode("hi", false)
	require.NoError(t, err)
	wrapped, err := tok.Encode("hi", true)
	require.NoError(t, err)

	// The toggle only adds the boundary ids; everything else is identical.
	require.Len(t, wrapped, len(plain)+2)
	assert.Equal(t, int32(256), wrapped[0])
	assert.Equal(t, plain, wrapped[1:len(wrapped)-1])
	assert.Equal(t, int32(257), wrapped[len(wrapped)-1])

	// Without configured boundaries the flag is a no-op.
	bare := testTokenizer(t, "")
	ids1, err := bare.Encode("hi", false)
	require.NoError(t, err)
	ids2, err := bare.Encode("hi", true)
	require.NoError(t, err)
	assert.Equal(t, ids1, ids2)
}

func TestEncodeBatchMatchesEncode(t *testing.T) {
	tok := testTokenizer(t, "t h\na t\nth e\n", "th", "at", "the")
	texts := []string{"that", "", "the theater", "at that"}

	batch, err := tok.EncodeBatch(texts, false)
	require.NoError(t, err)
	require.Len(t, batch, len(texts))
	for ii, text := range texts {
		single, err := tok.Encode(text, false)
		require.NoError(t, err)
		assert.Equal(t, single, batch[ii], "batch result %d for %q", ii, text)
	}
}

func TestEncodeBatchParallelMatchesSequential(t *testing.T) {
	tok := testTokenizer(t, "t h\na t\nth e\n", "th", "at", "the")
	texts := make([]string, 100)
	for ii := range texts {
		texts[ii] = strings.Repeat("that the ", ii%7+1)
	}

	sequential, err := tok.EncodeBatch(texts, false)
	require.NoError(t, err)

	parallel, err := tok.WithParallelBatch(4).EncodeBatch(texts, false)
	require.NoError(t, err)
	assert.Equal(t, sequential, parallel)
}

func TestEncodeBatchFailsFast(t *testing.T) {
	vocab := testVocabBlob(t)
	tok, err := New(vocab, []byte("a b\n"), nil) // "ab" missing from vocab.
	require.NoError(t, err)

	_, err = tok.EncodeBatch([]string{"good", "ab", "also good"}, false)
	assert.Error(t, err)
}
