package docstore

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"clientdocs/internal/models"
)

const (
	base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	keyNonceLength = 6
)

// StorageKey derives the blob key for a new upload:
//
//	{clientID}/{unix-millis}-{nonce}_{sanitized-file-name}
//
// The client prefix keeps one client's documents listable as a group.
// The millisecond timestamp keeps keys roughly sortable by upload time,
// and the random nonce keeps two same-named uploads in the same
// millisecond from colliding.
func StorageKey(clientID, fileName string, now time.Time) (string, error) {
	if err := models.ValidateClientID(clientID); err != nil {
		return "", err
	}
	if err := models.ValidateFileName(fileName); err != nil {
		return "", err
	}
	nonce, err := randomBase36(keyNonceLength)
	if err != nil {
		return "", fmt.Errorf("generate key nonce: %w", err)
	}
	return fmt.Sprintf("%s/%d-%s_%s",
		strings.TrimSpace(clientID),
		now.UnixMilli(),
		nonce,
		sanitizeFileName(fileName),
	), nil
}

// sanitizeFileName maps an arbitrary display name onto the characters
// safe in a key segment. Anything outside letters, digits, dot, dash
// and underscore becomes an underscore.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	// A name of only unsafe runes still needs a usable segment.
	if strings.Trim(out, "._") == "" {
		return "file"
	}
	return out
}

func randomBase36(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = base36Alphabet[int(b[i])%len(base36Alphabet)]
	}
	return string(out), nil
}
