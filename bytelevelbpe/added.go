package bytelevelbpe

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/gomlx/go-tokenizers/api"
	"github.com/pkg/errors"
)

// addedToken is one literal string layered on top of the base vocabulary. It is matched
// verbatim in the input text and always encoded as a single id, bypassing the merge
// algorithm entirely.
type addedToken struct {
	Content string `json:"content"`
	ID      *int32 `json:"id"`
	Special bool   `json:"special"`
}

// addedTokenSet indexes the added tokens for matching and lookup. Immutable after
// construction. The zero value is a valid empty set.
type addedTokenSet struct {
	byContent map[string]int32
	byID      map[int32]string
	special   map[int32]bool

	// matchOrder holds the contents sorted longest first, so scanning prefers the
	// longest match at any given position.
	matchOrder []string

	// bosID/eosID are the sequence boundary ids injected by addSpecialTokens, or
	// api.NoToken when not configured.
	bosID, eosID int32

	// maxID is the largest id claimed by an added token, -1 when the set is empty.
	maxID int32
}

// addedTokensBlob is the object form of the added-tokens blob. The blob may also be a
// bare JSON array of entries (strings, or objects with content/id/special).
type addedTokensBlob struct {
	AddedTokens []json.RawMessage `json:"added_tokens"`
	BosToken    string            `json:"bos_token"`
	EosToken    string            `json:"eos_token"`
}

// newAddedTokenSet parses the added-tokens blob and layers it over the vocabulary.
// Entries without an explicit id resolve through the vocabulary when present there,
// and otherwise get fresh ids appended after the largest id in use.
func newAddedTokenSet(blob []byte, vocab *vocabulary) (*addedTokenSet, error) {
	set := &addedTokenSet{
		byContent: make(map[string]int32),
		byID:      make(map[int32]string),
		special:   make(map[int32]bool),
		bosID:     api.NoToken,
		eosID:     api.NoToken,
		maxID:     -1,
	}
	if len(bytes.TrimSpace(blob)) == 0 {
		return set, nil
	}

	var parsed addedTokensBlob
	if bytes.HasPrefix(bytes.TrimSpace(blob), []byte("[")) {
		if err := json.Unmarshal(blob, &parsed.AddedTokens); err != nil {
			return nil, errors.Wrapf(err, "failed to parse added-tokens blob as JSON array")
		}
	} else if err := json.Unmarshal(blob, &parsed); err != nil {
		return nil, errors.Wrapf(err, "failed to parse added-tokens blob")
	}

	nextID := int32(vocab.size())
	for ii, raw := range parsed.AddedTokens {
		var entry addedToken
		var asString string
		if err := json.Unmarshal(raw, &asString); err == nil {
			entry.Content = asString
		} else if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, errors.Wrapf(err, "added token #%d is neither a string nor an object", ii)
		}
		if entry.Content == "" {
			return nil, errors.Errorf("added token #%d has empty content", ii)
		}
		if _, dup := set.byContent[entry.Content]; dup {
			return nil, errors.Errorf("added token %q appears more than once", entry.Content)
		}

		var id int32
		switch {
		case entry.ID != nil:
			id = *entry.ID
			if id < 0 {
				return nil, errors.Errorf("added token %q has negative id %d", entry.Content, id)
			}
		case vocab.id(entry.Content) != api.NoToken:
			id = vocab.id(entry.Content)
		default:
			id = nextID
		}
		if other, taken := set.byID[id]; taken {
			return nil, errors.Errorf("added tokens %q and %q claim the same id %d", other, entry.Content, id)
		}

		set.byContent[entry.Content] = id
		set.byID[id] = entry.Content
		if entry.Special {
			set.special[id] = true
		}
		if id > set.maxID {
			set.maxID = id
		}
		if id >= nextID {
			nextID = id + 1
		}
	}

	set.matchOrder = make([]string, 0, len(set.byContent))
	for content := range set.byContent {
		set.matchOrder = append(set.matchOrder, content)
	}
	sort.Slice(set.matchOrder, func(i, j int) bool {
		if len(set.matchOrder[i]) != len(set.matchOrder[j]) {
			return len(set.matchOrder[i]) > len(set.matchOrder[j])
		}
		return set.matchOrder[i] < set.matchOrder[j]
	})

	var err error
	if set.bosID, err = set.resolveBoundary(parsed.BosToken, vocab); err != nil {
		return nil, errors.WithMessagef(err, "resolving bos_token")
	}
	if set.eosID, err = set.resolveBoundary(parsed.EosToken, vocab); err != nil {
		return nil, errors.WithMessagef(err, "resolving eos_token")
	}
	// Boundary tokens are special by definition: skipSpecialTokens must drop them.
	if set.bosID != api.NoToken {
		set.special[set.bosID] = true
	}
	if set.eosID != api.NoToken {
		set.special[set.eosID] = true
	}
	return set, nil
}

// resolveBoundary maps a configured boundary token string to its id, first through the
// added tokens, then through the base vocabulary.
func (s *addedTokenSet) resolveBoundary(content string, vocab *vocabulary) (int32, error) {
	if content == "" {
		return api.NoToken, nil
	}
	if id, found := s.byContent[content]; found {
		return id, nil
	}
	if id := vocab.id(content); id != api.NoToken {
		return id, nil
	}
	return api.NoToken, errors.Errorf("boundary token %q is neither an added token nor in the vocabulary", content)
}

// fragment is a piece of the input text: either a plain segment to be run through the
// merge algorithm, or a matched added token carrying its id.
type fragment struct {
	text  string
	id    int32 // Only meaningful when added is true.
	added bool
}

// split cuts text into alternating plain/added fragments using longest-leftmost
// matching: the scan advances left to right and at every position the longest added
// token wins.
func (s *addedTokenSet) split(text string) []fragment {
	if len(s.matchOrder) == 0 {
		if text == "" {
			return nil
		}
		return []fragment{{text: text}}
	}

	var fragments []fragment
	plainStart := 0
	for pos := 0; pos < len(text); {
		matched := ""
		for _, content := range s.matchOrder {
			if strings.HasPrefix(text[pos:], content) {
				matched = content
				break
			}
		}
		if matched == "" {
			pos++
			continue
		}
		if pos > plainStart {
			fragments = append(fragments, fragment{text: text[plainStart:pos]})
		}
		fragments = append(fragments, fragment{text: matched, id: s.byContent[matched], added: true})
		pos += len(matched)
		plainStart = pos
	}
	if plainStart < len(text) {
		fragments = append(fragments, fragment{text: text[plainStart:]})
	}
	return fragments
}

// contentOf returns the literal content for an added-token id, if id belongs to the set.
func (s *addedTokenSet) contentOf(id int32) (string, bool) {
	content, found := s.byID[id]
	return content, found
}

// isSpecial reports whether id is registered as a special token.
func (s *addedTokenSet) isSpecial(id int32) bool {
	return s.special[id]
}
