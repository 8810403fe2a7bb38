// Package random generates alphanumeric strings: a fast variant for
// test fixtures and a crypto-grade variant for OAuth state values.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
	"time"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

func init() {
	var seed [8]byte
	if _, err := crand.Read(seed[:]); err != nil {
		mrand.Seed(time.Now().UnixNano())
		return
	}
	mrand.Seed(int64(binary.LittleEndian.Uint64(seed[:])))
}

// String returns a pseudo-random alphanumeric string. Not suitable
// for secrets.
func String(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[mrand.Intn(len(alphabet))]
	}
	return string(b)
}

// StringSecure returns a cryptographically random alphanumeric
// string.
func StringSecure(length int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := crand.Int(crand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}
