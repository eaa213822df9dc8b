package api

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runeTokenizer is a trivial Tokenizer for exercising the batch helpers: each ASCII
// byte is its own token id, and the byte 'X' always fails.
type runeTokenizer struct{}

var _ Tokenizer = runeTokenizer{}

func (runeTokenizer) Encode(text string, _ bool) ([]int32, error) {
	if strings.ContainsRune(text, 'X') {
		return nil, errors.Errorf("cannot encode %q", text)
	}
	ids := make([]int32, len(text))
	for ii := 0; ii < len(text); ii++ {
		ids[ii] = int32(text[ii])
	}
	return ids, nil
}

func (rt runeTokenizer) EncodeBatch(texts []string, addSpecialTokens bool) ([][]int32, error) {
	return EncodeBatchSequential(rt, texts, addSpecialTokens)
}

func (runeTokenizer) Decode(ids []int32, _ bool) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		if id == 'X' {
			return "", errors.Errorf("cannot decode id %d", id)
		}
		sb.WriteByte(byte(id))
	}
	return sb.String(), nil
}

func (rt runeTokenizer) DecodeBatch(idsBatch [][]int32, skipSpecialTokens bool) ([]string, error) {
	return DecodeBatchSequential(rt, idsBatch, skipSpecialTokens)
}

func (runeTokenizer) GetVocabSize() int         { return 128 }
func (runeTokenizer) IdToToken(id int32) string { return string(rune(id)) }
func (runeTokenizer) TokenToId(token string) int32 {
	if len(token) != 1 {
		return NoToken
	}
	return int32(token[0])
}

func TestEncodeBatchSequential(t *testing.T) {
	var tok runeTokenizer
	texts := []string{"ab", "", "cd"}
	batch, err := EncodeBatchSequential(tok, texts, false)
	require.NoError(t, err)
	assert.Equal(t, [][]int32{{'a', 'b'}, {}, {'c', 'd'}}, batch)
}

func TestEncodeBatchSequentialFailsFast(t *testing.T) {
	var tok runeTokenizer
	_, err := EncodeBatchSequential(tok, []string{"ok", "boXm", "never reached"}, false)
	assert.ErrorContains(t, err, `cannot encode "boXm"`)
}

func TestDecodeBatchSequential(t *testing.T) {
	var tok runeTokenizer
	batch, err := DecodeBatchSequential(tok, [][]int32{{'h', 'i'}, {}}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi", ""}, batch)

	_, err = DecodeBatchSequential(tok, [][]int32{{'h'}, {'X'}}, false)
	assert.Error(t, err)
}

func TestEncodeBatchParallel(t *testing.T) {
	var tok runeTokenizer
	texts := make([]string, 200)
	for ii := range texts {
		texts[ii] = strings.Repeat(string(rune('a'+ii%26)), ii%17+1)
	}
	sequential, err := EncodeBatchSequential(tok, texts, false)
	require.NoError(t, err)

	for _, maxParallelism := range []int{-1, 1, 4} {
		parallel, err := EncodeBatchParallel(tok, texts, false, maxParallelism)
		require.NoError(t, err)
		assert.Equal(t, sequential, parallel, "maxParallelism=%d", maxParallelism)
	}
}

func TestEncodeBatchParallelFailsBatch(t *testing.T) {
	var tok runeTokenizer
	_, err := EncodeBatchParallel(tok, []string{"ok", "X", "ok"}, false, 2)
	assert.Error(t, err)
}

func TestDecodeBatchParallel(t *testing.T) {
	var tok runeTokenizer
	idsBatch := [][]int32{{'a'}, {'b', 'c'}, {}}
	parallel, err := DecodeBatchParallel(tok, idsBatch, false, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "bc", ""}, parallel)

	_, err = DecodeBatchParallel(tok, [][]int32{{'a'}, {'X'}}, false, 2)
	assert.Error(t, err)
}
