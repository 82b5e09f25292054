package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SuffixGenerator returns length random identifier characters
type SuffixGenerator func(length int) (string, error)

// RandomID returns length lowercase hex characters drawn from random UUIDs
func RandomID(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive, got %d", length)
	}

	var b strings.Builder
	for b.Len() < length {
		id, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("failed to generate random id: %w", err)
		}
		b.WriteString(strings.ReplaceAll(id.String(), "-", ""))
	}
	return b.String()[:length], nil
}
