package rwkvworld

// byteTrie indexes the vocabulary byte sequences for greedy longest-match scanning.
// Built once at construction, read-only afterwards.
type byteTrie struct {
	root *trieNode
}

type trieNode struct {
	children map[byte]*trieNode
	id       int32 // Token id terminating at this node, or -1.
}

func newByteTrie() *byteTrie {
	return &byteTrie{root: newTrieNode()}
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[byte]*trieNode), id: -1}
}

// insert adds a token's byte sequence with its id.
func (t *byteTrie) insert(seq []byte, id int32) {
	node := t.root
	for _, b := range seq {
		child, found := node.children[b]
		if !found {
			child = newTrieNode()
			node.children[b] = child
		}
		node = child
	}
	node.id = id
}

// longestMatch walks the trie from the start of data and returns the id and byte length
// of the longest vocabulary entry that prefixes data. Returns length 0 when nothing
// matches.
func (t *byteTrie) longestMatch(data []byte) (id int32, length int) {
	node := t.root
	id, length = -1, 0
	for ii := 0; ii < len(data); ii++ {
		child, found := node.children[data[ii]]
		if !found {
			break
		}
		node = child
		if node.id >= 0 {
			id, length = node.id, ii+1
		}
	}
	if id < 0 {
		return -1, 0
	}
	return id, length
}
