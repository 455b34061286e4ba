package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Configuration for Argon2id hashing.
const (
	memory      = 19 * 1024 // Memory usage in KiB (19 MiB)
	iterations  = 2         // Iteration count
	parallelism = 1         // Number of threads
	keyLength   = 32        // Length of the generated hash
	saltLength  = 16        // Length of the salt
)

// Upper bounds accepted when decoding a stored hash. Anything larger is
// treated as a malformed hash rather than something we are willing to compute.
const (
	maxMemory      = 256 * 1024
	maxIterations  = 16
	maxParallelism = 16
	maxKeyLength   = 128
)

// UnmatchableHash is a well-formed hash with the production parameters that no
// password is known to match. Verifying against it costs the same as a real
// hash.
const UnmatchableHash = "$argon2id$v=19$m=19456,t=2,p=1$x+XK35qKNNULCzcXpZOh0w$B+ZztJrABvHHdjNfaiXBvzHANCoALc+38QBHML6AnmA"

// PasswordHasher produces and verifies PHC-format Argon2id hashes. The pepper
// is appended to every plaintext before hashing and is never stored alongside
// the hash.
type PasswordHasher struct {
	pepper string
}

// NewPasswordHasher returns a hasher bound to the given pepper. An empty
// pepper is allowed.
func NewPasswordHasher(pepper string) *PasswordHasher {
	return &PasswordHasher{pepper: pepper}
}

// Hash generates a PHC-format Argon2id hash string including salt and parameters.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("cryptox: read salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password+h.pepper), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches the encoded hash. A hash that
// cannot be decoded never matches.
func (h *PasswordHasher) Verify(password, encodedHash string) bool {
	p, ok := decodeHash(encodedHash)
	if !ok {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password+h.pepper),
		p.salt,
		p.iterations,
		p.memory,
		p.parallelism,
		uint32(len(p.key)), // #nosec G115 - bounded by maxKeyLength
	)

	return subtle.ConstantTimeCompare(computed, p.key) == 1
}

type hashParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// decodeHash parses $argon2id$v=19$m=X,t=Y,p=Z$salt$hash.
func decodeHash(encoded string) (hashParams, bool) {
	var p hashParams

	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" || parts[2] != "v=19" {
		return p, false
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, false
	}
	if p.memory == 0 || p.memory > maxMemory ||
		p.iterations == 0 || p.iterations > maxIterations ||
		p.parallelism == 0 || p.parallelism > maxParallelism {
		return p, false
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return p, false
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return p, false
	}
	if len(p.key) == 0 || len(p.key) > maxKeyLength {
		return p, false
	}

	return p, true
}

// GeneratePassword returns a random 12 character alphanumeric password.
func GeneratePassword() (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 12
	password := make([]byte, length)
	for i := range password {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random password: %w", err)
		}
		password[i] = charset[n.Int64()]
	}
	return string(password), nil
}
