package pages

import (
	"crypto/rand"
	"math/big"

	"github.com/sirupsen/logrus"
)

const (
	tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenLength   = 5
)

// NewRoomToken returns a short random room identifier for hosts that did
// not bring their own. Tokens are only a seed for the room directory;
// any client-supplied string is accepted in their place.
func NewRoomToken() string {
	b := make([]byte, tokenLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tokenAlphabet))))
		if err != nil {
			logrus.WithError(err).Panic("failed to read random source")
		}
		b[i] = tokenAlphabet[n.Int64()]
	}
	return string(b)
}
