// Package rwkvworld implements an api.Tokenizer for the RWKV "world" vocabulary format.
//
// The model blob is a text file with one token per line, in the form
//
//	<id> <python-repr> <byte-length>
//
// where <python-repr> is either a quoted string (possibly with \xNN and \uXXXX escapes)
// or a b'...' byte literal, and <byte-length> is the length of the unescaped bytes.
// Encoding is greedy longest-match over the raw input bytes, with no merge rules and no
// byte remapping; decoding concatenates the tokens' raw bytes.
package rwkvworld

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/pkg/errors"
)

// Tokenizer implements the api.Tokenizer interface for an RWKV world vocabulary.
// Immutable after construction, safe for concurrent use.
type Tokenizer struct {
	trie      *byteTrie
	byID      map[int32][]byte
	byContent map[string]int32
	maxID     int32
}

// Compile time assert that rwkvworld.Tokenizer implements the api.Tokenizer interface.
var _ api.Tokenizer = &Tokenizer{}

// New builds a Tokenizer from an in-memory world-vocabulary blob. Construction fails on
// the first malformed line; no partially-built tokenizer is returned.
func New(modelBlob []byte) (*Tokenizer, error) {
	t := &Tokenizer{
		trie:      newByteTrie(),
		byID:      make(map[int32][]byte),
		byContent: make(map[string]int32),
		maxID:     -1,
	}

	scanner := bufio.NewScanner(bytes.NewReader(modelBlob))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		id, seq, err := parseLine(line)
		if err != nil {
			return nil, errors.WithMessagef(err, "world vocabulary line %d", lineNo)
		}
		if _, dup := t.byID[id]; dup {
			return nil, errors.Errorf("world vocabulary line %d: duplicate token id %d", lineNo, id)
		}
		t.byID[id] = seq
		t.byContent[string(seq)] = id
		t.trie.insert(seq, id)
		if id > t.maxID {
			t.maxID = id
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read world vocabulary blob")
	}
	if t.maxID < 0 {
		return nil, errors.Errorf("world vocabulary blob contains no tokens")
	}
	return t, nil
}

// parseLine splits "<id> <repr> <len>" and unescapes the repr, validating the declared
// byte length.
func parseLine(line string) (int32, []byte, error) {
	firstSpace := strings.IndexByte(line, ' ')
	lastSpace := strings.LastIndexByte(line, ' ')
	if firstSpace < 0 || lastSpace <= firstSpace {
		return 0, nil, errors.Errorf("malformed line %q (want \"<id> <repr> <len>\")", line)
	}
	id64, err := strconv.ParseInt(line[:firstSpace], 10, 32)
	if err != nil || id64 < 0 {
		return 0, nil, errors.Errorf("invalid token id %q", line[:firstSpace])
	}
	declaredLen, err := strconv.Atoi(strings.TrimSpace(line[lastSpace+1:]))
	if err != nil {
		return 0, nil, errors.Errorf("invalid byte length %q", line[lastSpace+1:])
	}
	seq, err := unescapeRepr(line[firstSpace+1 : lastSpace])
	if err != nil {
		return 0, nil, err
	}
	if len(seq) != declaredLen {
		return 0, nil, errors.Errorf("token repr unescapes to %d bytes, line declares %d", len(seq), declaredLen)
	}
	return int32(id64), seq, nil
}

// unescapeRepr converts a python-style quoted literal ('...', "..." or b'...') into raw
// bytes. In the string form escapes denote runes (emitted as UTF-8); in the byte-literal
// form \xNN escapes denote single raw bytes.
func unescapeRepr(repr string) ([]byte, error) {
	isBytes := false
	if strings.HasPrefix(repr, "b") {
		isBytes = true
		repr = repr[1:]
	}
	if len(repr) < 2 || repr[0] != repr[len(repr)-1] || (repr[0] != '\'' && repr[0] != '"') {
		return nil, errors.Errorf("token repr %q is not a quoted literal", repr)
	}
	body := repr[1 : len(repr)-1]

	var out []byte
	for ii := 0; ii < len(body); {
		c := body[ii]
		if c != '\\' {
			out = append(out, c)
			ii++
			continue
		}
		if ii+1 >= len(body) {
			return nil, errors.Errorf("dangling escape in token repr %q", repr)
		}
		switch esc := body[ii+1]; esc {
		case '\\', '\'', '"':
			out = append(out, esc)
			ii += 2
		case 'n':
			out = append(out, '\n')
			ii += 2
		case 'r':
			out = append(out, '\r')
			ii += 2
		case 't':
			out = append(out, '\t')
			ii += 2
		case '0':
			out = append(out, 0)
			ii += 2
		case 'x':
			if ii+4 > len(body) {
				return nil, errors.Errorf("truncated \\x escape in token repr %q", repr)
			}
			v, err := strconv.ParseUint(body[ii+2:ii+4], 16, 8)
			if err != nil {
				return nil, errors.Errorf("invalid \\x escape in token repr %q", repr)
			}
			if isBytes {
				out = append(out, byte(v))
			} else {
				out = append(out, []byte(string(rune(v)))...)
			}
			ii += 4
		case 'u':
			if isBytes {
				return nil, errors.Errorf("\\u escape in byte literal %q", repr)
			}
			if ii+6 > len(body) {
				return nil, errors.Errorf("truncated \\u escape in token repr %q", repr)
			}
			v, err := strconv.ParseUint(body[ii+2:ii+6], 16, 32)
			if err != nil {
				return nil, errors.Errorf("invalid \\u escape in token repr %q", repr)
			}
			out = append(out, []byte(string(rune(v)))...)
			ii += 6
		default:
			return nil, errors.Errorf("unsupported escape \\%c in token repr %q", esc, repr)
		}
	}
	return out, nil
}

// Encode converts text into token ids by greedy longest-match over its raw bytes.
// The world vocabulary defines no sequence boundary tokens, so addSpecialTokens is a
// no-op.
func (t *Tokenizer) Encode(text string, _ bool) ([]int32, error) {
	ids := []int32{}
	data := []byte(text)
	for pos := 0; pos < len(data); {
		id, length := t.trie.longestMatch(data[pos:])
		if length == 0 {
			return nil, errors.Errorf("no vocabulary entry matches input at byte offset %d (byte 0x%02x); model blob is incomplete", pos, data[pos])
		}
		ids = append(ids, id)
		pos += length
	}
	return ids, nil
}

// EncodeBatch encodes each text independently, failing fast on the first error.
func (t *Tokenizer) EncodeBatch(texts []string, addSpecialTokens bool) ([][]int32, error) {
	return api.EncodeBatchSequential(t, texts, addSpecialTokens)
}

// Decode concatenates the raw bytes of each token. The world vocabulary registers no
// special tokens, so skipSpecialTokens is a no-op. Unknown ids are an error.
func (t *Tokenizer) Decode(ids []int32, _ bool) (string, error) {
	var out bytes.Buffer
	for _, id := range ids {
		seq, found := t.byID[id]
		if !found {
			return "", errors.Errorf("cannot decode unknown token id %d (vocabulary size %d)", id, t.GetVocabSize())
		}
		out.Write(seq)
	}
	return out.String(), nil
}

// DecodeBatch decodes each id sequence independently, failing fast on the first error.
func (t *Tokenizer) DecodeBatch(idsBatch [][]int32, skipSpecialTokens bool) ([]string, error) {
	return api.DecodeBatchSequential(t, idsBatch, skipSpecialTokens)
}

// GetVocabSize returns one past the largest token id, so every valid id is in
// [0, GetVocabSize()). World vocabularies typically start at id 1, leaving 0 unassigned.
func (t *Tokenizer) GetVocabSize() int {
	return int(t.maxID) + 1
}

// IdToToken returns the token's bytes as a string, or "" if the id is unassigned.
func (t *Tokenizer) IdToToken(id int32) string {
	return string(t.byID[id])
}

// TokenToId returns the id for the given token bytes, or api.NoToken if absent.
func (t *Tokenizer) TokenToId(token string) int32 {
	if id, found := t.byContent[token]; found {
		return id
	}
	return api.NoToken
}
