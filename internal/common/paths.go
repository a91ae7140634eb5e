package common

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// CleanRemote normalizes a remote (slash separated, root-relative) path.
// The root is the empty string; "/", "." and "" all map to it.
func CleanRemote(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// JoinRemote joins remote path elements and normalizes the result.
func JoinRemote(elem ...string) string {
	return CleanRemote(path.Join(elem...))
}

// SplitRemote returns the parent directory and the last element of p.
// For a top-level entry the parent is "".
func SplitRemote(p string) (parent, name string) {
	p = CleanRemote(p)
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// ChunkName formats a chunk index the way the backend reports it.
func ChunkName(index int) string {
	return ChunkNamePrefix + strconv.Itoa(index)
}

// ParseChunkName is the inverse of ChunkName.
func ParseChunkName(name string) (int, error) {
	s, ok := strings.CutPrefix(name, ChunkNamePrefix)
	if !ok {
		return 0, fmt.Errorf("%w: chunk name %q", ErrValidation, name)
	}
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("%w: chunk name %q", ErrValidation, name)
	}
	return idx, nil
}
