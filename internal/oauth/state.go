package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

const stateBytes = 32

// state is the anti-forgery token echoed back on the consent redirect.
type state string

func newState() (state, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return state(base64.RawURLEncoding.EncodeToString(b)), nil
}

// matches compares in constant time. An empty state never matches.
func (s state) matches(received string) bool {
	return s != "" && subtle.ConstantTimeCompare([]byte(s), []byte(received)) == 1
}
