// Package hashing provides the content hash and proof of work predicate
// used by the blockchain.
package hashing

import (
	"crypto/sha256"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ZeroHash represents a hash code of zeros. It is used as the previous hash
// of the genesis block.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// =============================================================================

// Hash returns the lower case hex encoded SHA-256 digest of the input.
func Hash(input []byte) string {
	hash := sha256.Sum256(input)
	return common.Bytes2Hex(hash[:])
}

// HashString is a convenience wrapper for hashing a string.
func HashString(input string) string {
	return Hash([]byte(input))
}

// MeetsDifficulty checks the hash to make sure it complies with the POW
// rules. We need to match a difficulty number of leading '0' characters.
// This is a count of hex digits, not a numeric target.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}

	if len(hash) < difficulty {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == difficulty
}
