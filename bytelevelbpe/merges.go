package bytelevelbpe

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

// symbolPair is a pair of adjacent symbols, candidate for merging.
type symbolPair struct {
	left, right string
}

// noRule is the rank reported for pairs with no merge rule: any real rank beats it.
const noRule = int(^uint(0) >> 1)

// mergeTable maps symbol pairs to their merge rank. The rank is the 0-based position of
// the rule in the merges blob: lower rank merges earlier. Immutable after construction.
type mergeTable struct {
	ranks map[symbolPair]int
}

// newMergeTable parses the merges blob: one "left right" rule per line, in priority
// order. A leading "#version:" header line (as shipped in GPT-2's merges.txt) and blank
// lines are skipped; any other line that is not exactly two whitespace-separated symbols
// is a construction error.
func newMergeTable(blob []byte) (*mergeTable, error) {
	m := &mergeTable{ranks: make(map[symbolPair]int)}
	scanner := bufio.NewScanner(bytes.NewReader(blob))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	rank := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" || (lineNo == 1 && strings.HasPrefix(line, "#version:")) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Errorf("malformed merge rule at line %d: %q (want exactly two symbols)", lineNo, line)
		}
		pair := symbolPair{left: fields[0], right: fields[1]}
		if _, found := m.ranks[pair]; !found {
			m.ranks[pair] = rank
		}
		rank++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read merges blob")
	}
	return m, nil
}

// rank returns the merge priority for the pair, or noRule when no rule exists.
func (m *mergeTable) rank(left, right string) int {
	if r, found := m.ranks[symbolPair{left: left, right: right}]; found {
		return r
	}
	return noRule
}
