package carriers

import "strings"

// indexBlock returns the index of the first block exactly equal to want.
func indexBlock(blocks []string, want string) (int, bool) {
	for i, block := range blocks {
		if block == want {
			return i, true
		}
	}
	return -1, false
}

// findBlock returns the index of the first block containing substr.
func findBlock(blocks []string, substr string) (int, bool) {
	for i, block := range blocks {
		if strings.Contains(block, substr) {
			return i, true
		}
	}
	return -1, false
}

// lastBlock returns the index of the last block containing substr.
func lastBlock(blocks []string, substr string) (int, bool) {
	for i := len(blocks) - 1; i >= 0; i-- {
		if strings.Contains(blocks[i], substr) {
			return i, true
		}
	}
	return -1, false
}

// nextBlock returns the block after index i, when one exists.
func nextBlock(blocks []string, i int) (string, bool) {
	if i+1 >= len(blocks) {
		return "", false
	}
	return blocks[i+1], true
}

// firstToken returns the first whitespace-delimited token of s.
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
