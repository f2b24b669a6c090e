package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RandomString draws length characters uniformly from charset using
// crypto/rand. Used for human-shareable codes where the value must be
// unpredictable.
func RandomString(charset string, length int) (string, error) {
	if charset == "" {
		return "", fmt.Errorf("cryptox: empty charset")
	}
	if length <= 0 {
		return "", fmt.Errorf("cryptox: length must be positive, got %d", length)
	}

	max := big.NewInt(int64(len(charset)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("cryptox: draw random index: %w", err)
		}
		out[i] = charset[n.Int64()]
	}
	return string(out), nil
}
