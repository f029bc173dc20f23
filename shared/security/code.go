package security

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "0123456789"

// GenerateCode produces a random numeric code of the given length, suitable
// for short-lived human-entered verification and reset codes. Codes of this
// size are not cryptographically strong on their own and must always be
// paired with a short expiration.
func GenerateCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}

	return string(code), nil
}
