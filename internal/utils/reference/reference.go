package reference

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	alphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	suffixLength = 5
)

// RandomSuffix returns n characters drawn uniformly from [A-Z0-9] using crypto/rand.
func RandomSuffix(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("suffix length must be positive")
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	// 252 is the largest multiple of 36 below 256; rejecting above it keeps the draw uniform.
	out := make([]byte, 0, n)
	for len(out) < n {
		for _, c := range b {
			if c >= 252 {
				continue
			}
			out = append(out, alphabet[int(c)%len(alphabet)])
			if len(out) == n {
				break
			}
		}
		if len(out) < n {
			if _, err := rand.Read(b); err != nil {
				return "", fmt.Errorf("failed to read random bytes: %w", err)
			}
		}
	}
	return string(out), nil
}

// New builds a human reference like EXP-20250131-7QK2Z.
func New(prefix string, date time.Time) (string, error) {
	suffix, err := RandomSuffix(suffixLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", prefix, date.Format("20060102"), suffix), nil
}
