package compose

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// VersionSource maps an image name to its pinned tag.
type VersionSource interface {
	Tag(image string) (string, bool)
}

// MapVersions is a VersionSource backed by a plain map, usually from config.
type MapVersions map[string]string

func (m MapVersions) Tag(image string) (string, bool) {
	tag, ok := m[image]
	if !ok || tag == "" {
		return "", false
	}
	return tag, true
}

// SecretSource produces credentials embedded in the descriptor.
type SecretSource interface {
	Password() (string, error)
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomSecrets generates alphanumeric passwords from crypto/rand.
type RandomSecrets struct {
	Length int
}

func (r RandomSecrets) Password() (string, error) {
	n := r.Length
	if n <= 0 {
		n = 20
	}
	max := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
