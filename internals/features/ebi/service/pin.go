package service

import (
	"crypto/rand"
	"math/big"
)

// GeneratePin draws four independent decimal digits from crypto/rand. The PIN
// gates checkout, so a predictable counter would defeat its purpose.
func GeneratePin() (string, error) {
	pin := make([]byte, 4)
	for i := range pin {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		pin[i] = byte('0' + n.Int64())
	}
	return string(pin), nil
}
