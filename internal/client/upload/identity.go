package upload

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Resolver derives task identifiers.
//
// The identifier digests the destination path, size and modification time
// together with a per-submission salt, so re-adding the same file yields a
// fresh identifier. Resuming an earlier upload means reusing its stored
// identifier rather than resolving a new one.
type Resolver struct {
	now  func() time.Time
	salt func() string
}

// NewResolver returns a Resolver salted with the submission time and a
// random UUID.
func NewResolver() *Resolver {
	return &Resolver{
		now:  time.Now,
		salt: func() string { return uuid.NewString() },
	}
}

// Resolve returns the identifier for one submission of a file.
func (r *Resolver) Resolve(destinationPath string, size int64, modTime time.Time) string {
	payload := fmt.Sprintf("%s|%d|%d|%d|%s",
		destinationPath, size, modTime.UnixMilli(), r.now().UnixNano(), r.salt())
	sum := blake2b.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:16])
}
