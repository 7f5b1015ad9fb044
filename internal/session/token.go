package session

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// shareTokenAlphabet is the fixed alphabet for share tokens. With 8 characters
// the token space is 62^8, so collisions are astronomically rare.
const shareTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ShareTokenLength is the length of generated share tokens
const ShareTokenLength = 8

// maxShareTokenAttempts caps the collision retry loop. Hitting the cap means
// storage is rejecting everything, not that the namespace is full.
const maxShareTokenAttempts = 100

// generateShareToken returns a random token of n characters from the fixed
// alphabet, using a cryptographic source.
func generateShareToken(n int) (string, error) {
	alphabetLen := big.NewInt(int64(len(shareTokenAlphabet)))

	token := make([]byte, n)
	for i := range token {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		token[i] = shareTokenAlphabet[idx.Int64()]
	}

	return string(token), nil
}
