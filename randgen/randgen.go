// Package randgen provides the default hash and random-string collaborators
// the template expander calls through its Hasher/Randomizer interfaces.
// The expander treats these as externally supplied; this package is the
// engine's working default, not a requirement callers must use.
package randgen

import (
	"crypto/md5"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash/crc32"
	"math/big"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

const fallbackCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultHasher implements the algorithms named in exec templates.
type DefaultHasher struct{}

// Hash returns the hex digest of input under algo, truncated or repeated
// to exactly n hex characters. Reports false for an unrecognized algo or
// n<=0 so the caller can leave the $HASH occurrence untouched.
func (DefaultHasher) Hash(algo string, n int, input string) (string, bool) {
	if n <= 0 {
		return "", false
	}

	var sum []byte
	switch strings.ToLower(algo) {
	case "md5":
		s := md5.Sum([]byte(input))
		sum = s[:]
	case "sha1":
		s := sha1.Sum([]byte(input))
		sum = s[:]
	case "sha256":
		s := sha256.Sum256([]byte(input))
		sum = s[:]
	case "sha512":
		s := sha512.Sum512([]byte(input))
		sum = s[:]
	case "sha3-256":
		s := sha3.Sum256([]byte(input))
		sum = s[:]
	case "sha3-512":
		s := sha3.Sum512([]byte(input))
		sum = s[:]
	case "blake2b-256":
		s := blake2b.Sum256([]byte(input))
		sum = s[:]
	case "crc32":
		c := crc32.ChecksumIEEE([]byte(input))
		sum = []byte{byte(c >> 24), byte(c >> 16), byte(c >> 8), byte(c)}
	default:
		return "", false
	}

	digest := hex.EncodeToString(sum)
	for len(digest) < n {
		digest += digest
	}
	return digest[:n], true
}

// DefaultRandomizer draws random strings from named charsets, falling back
// to a built-in alphanumeric set for a name it doesn't recognize. That
// fallback is a deliberate departure from the engine's usual "leave
// unresolved occurrences untouched" rule: an unresolved $RAND would splice
// literal template syntax into a command line or BOF argument downstream.
type DefaultRandomizer struct {
	Charsets map[string]string
}

// NewDefaultRandomizer builds a randomizer over the given charset table.
func NewDefaultRandomizer(charsets map[string]string) *DefaultRandomizer {
	return &DefaultRandomizer{Charsets: charsets}
}

// Random returns a random string of length n drawn from the named set.
func (r *DefaultRandomizer) Random(n int, setName string) (string, bool) {
	if n <= 0 {
		return "", true
	}

	set := r.Charsets[setName]
	if set == "" {
		set = fallbackCharset
	}

	out := make([]byte, n)
	setLen := big.NewInt(int64(len(set)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, setLen)
		if err != nil {
			return "", false
		}
		out[i] = set[idx.Int64()]
	}
	return string(out), true
}
