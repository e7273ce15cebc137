package store

import (
	"crypto/rand"
	"fmt"

	"github.com/Boltio1992/BottleMessage/pkg/types"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// maxCodeAttempts bounds rejection sampling against registered codes.
// With 36^8 possible codes and at most a few hundred registered, a
// collision streak this long means the randomness source is broken.
const maxCodeAttempts = 100

// randomCode draws an 8-character uppercase alphanumeric code. Bytes
// that would bias the modulo mapping are rejected: 252 is the largest
// multiple of 36 below 256, so only bytes under it are accepted.
func randomCode() (string, error) {
	const unbiasedLimit = byte(len(codeAlphabet) * (256 / len(codeAlphabet)))

	code := make([]byte, types.CodeLength)
	buf := make([]byte, types.CodeLength*2)
	filled := 0

	for filled < types.CodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= unbiasedLimit {
				continue
			}
			code[filled] = codeAlphabet[int(b)%len(codeAlphabet)]
			filled++
			if filled == types.CodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// generateCodeLocked samples codes until one is free of every session
// currently registered, active and recently-expired alike. Callers
// must hold the write lock.
func (s *Store) generateCodeLocked() (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}
		if _, taken := s.sessions[code]; !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}
