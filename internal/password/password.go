// Package password hashes and verifies user passwords across two schemes:
// legacy bcrypt hashes kept only for verification, and argon2id hashes used
// for everything new. Verify reports when a stored hash should be replaced
// so callers can migrate credentials lazily on successful login.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Params are the argon2id cost parameters for newly produced hashes.
type Params struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the cost parameters used when none are configured.
func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher produces argon2id hashes and verifies both recognized schemes.
type Hasher struct {
	params Params
}

func NewHasher(params Params) *Hasher {
	if params.SaltLength == 0 {
		params.SaltLength = 16
	}
	if params.KeyLength == 0 {
		params.KeyLength = 32
	}
	return &Hasher{params: params}
}

// scheme is the result of decoding a stored hash's prefix tag exactly once.
type scheme int

const (
	schemeUnknown scheme = iota
	schemeBcrypt
	schemeArgon2
)

func schemeOf(stored string) scheme {
	switch {
	case strings.HasPrefix(stored, "$argon2id$"):
		return schemeArgon2
	case strings.HasPrefix(stored, "$2a$"),
		strings.HasPrefix(stored, "$2b$"),
		strings.HasPrefix(stored, "$2y$"):
		return schemeBcrypt
	default:
		return schemeUnknown
	}
}

// Hash derives an argon2id hash of password and encodes it in PHC format.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}

	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(password),
		salt,
		h.params.Time,
		h.params.Memory,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Parallelism,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(key),
	), nil
}

// Verify checks password against the stored hash. needsRehash reports that
// the stored hash is due for replacement with a fresh argon2id hash: always
// for a successfully verified bcrypt hash, and for an argon2id hash whose
// recorded parameters are weaker than the configured ones. Unrecognized or
// malformed hashes fail closed as (false, false); Verify never returns an
// error to its caller.
func (h *Hasher) Verify(password, stored string) (valid, needsRehash bool) {
	switch schemeOf(stored) {
	case schemeBcrypt:
		if bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) != nil {
			return false, false
		}
		// Legacy hashes are unconditionally due for migration.
		return true, true

	case schemeArgon2:
		parsed, err := parsePHC(stored)
		if err != nil {
			return false, false
		}

		computed := argon2.IDKey(
			[]byte(password),
			parsed.salt,
			parsed.time,
			parsed.memory,
			parsed.parallelism,
			uint32(len(parsed.key)),
		)
		if subtle.ConstantTimeCompare(computed, parsed.key) != 1 {
			return false, false
		}
		return true, h.staleParams(parsed)

	default:
		return false, false
	}
}

// staleParams reports whether a parsed hash was produced with weaker
// parameters than the hasher is configured with today.
func (h *Hasher) staleParams(parsed *parsedPHC) bool {
	if parsed.memory < h.params.Memory {
		return true
	}
	if parsed.time < h.params.Time {
		return true
	}
	if parsed.parallelism < h.params.Parallelism {
		return true
	}
	if uint32(len(parsed.key)) != h.params.KeyLength {
		return true
	}
	return false
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	key         []byte
}

// parsePHC decodes "$argon2id$v=19$m=...,t=...,p=...$<salt>$<key>".
func parsePHC(stored string) (*parsedPHC, error) {
	parts := strings.Split(stored, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, errors.New("invalid PHC format")
	}

	version, err := strconv.Atoi(strings.TrimPrefix(parts[2], "v="))
	if err != nil || !strings.HasPrefix(parts[2], "v=") {
		return nil, errors.New("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	parsed := &parsedPHC{}
	for _, param := range strings.Split(parts[3], ",") {
		key, value, found := strings.Cut(param, "=")
		if !found {
			return nil, errors.New("invalid parameter segment")
		}
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return nil, errors.New("invalid parameter value")
		}
		switch key {
		case "m":
			parsed.memory = uint32(n)
		case "t":
			parsed.time = uint32(n)
		case "p":
			if n > 255 {
				return nil, errors.New("invalid parallelism")
			}
			parsed.parallelism = uint8(n)
		default:
			return nil, errors.New("unknown parameter")
		}
	}
	if parsed.memory == 0 || parsed.time == 0 || parsed.parallelism == 0 {
		return nil, errors.New("missing parameters")
	}

	parsed.salt, err = base64.StdEncoding.DecodeString(parts[4])
	if err != nil || len(parsed.salt) == 0 {
		return nil, errors.New("invalid salt encoding")
	}

	parsed.key, err = base64.StdEncoding.DecodeString(parts[5])
	if err != nil || len(parsed.key) == 0 {
		return nil, errors.New("invalid key encoding")
	}

	return parsed, nil
}
