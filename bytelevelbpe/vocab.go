package bytelevelbpe

import (
	"encoding/json"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/pkg/errors"
)

// vocabulary is the bidirectional token<->id table, built once from the vocabulary blob
// and immutable afterwards.
//
// Invariants:
//   - id assignment is injective: no two tokens share an id (construction error otherwise);
//   - ids are dense in [0, len(idToToken)): a gap in the id space is a construction error,
//     so the valid id range and the vocabulary size always agree.
type vocabulary struct {
	tokenToID map[string]int32
	idToToken []string
}

// newVocabulary parses the vocabulary blob, a JSON object mapping token string to id
// (the vocab.json format used by GPT-2 style tokenizers).
func newVocabulary(blob []byte) (*vocabulary, error) {
	var raw map[string]int32
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, errors.Wrapf(err, "failed to parse vocabulary blob as JSON token->id mapping")
	}

	v := &vocabulary{
		tokenToID: make(map[string]int32, len(raw)),
		idToToken: make([]string, len(raw)),
	}
	assigned := make([]bool, len(raw))
	for token, id := range raw {
		if id < 0 || int(id) >= len(raw) {
			return nil, errors.Errorf("vocabulary id %d for token %q out of range [0, %d)", id, token, len(raw))
		}
		if assigned[id] {
			return nil, errors.Errorf("duplicate vocabulary id %d (token %q)", id, token)
		}
		assigned[id] = true
		v.tokenToID[token] = id
		v.idToToken[id] = token
	}
	return v, nil
}

func (v *vocabulary) size() int {
	return len(v.idToToken)
}

// token returns the token string for id, or "" if id is out of range.
func (v *vocabulary) token(id int32) string {
	if id < 0 || int(id) >= len(v.idToToken) {
		return ""
	}
	return v.idToToken[id]
}

// id returns the id for token, or api.NoToken if the token is unknown.
func (v *vocabulary) id(token string) int32 {
	if id, ok := v.tokenToID[token]; ok {
		return id
	}
	return api.NoToken
}
