package audiocache

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/llehouerou/chants/internal/storage"
)

// Key returns the cache file name for a source URL: the hex SHA-256 of the
// URL string followed by the extension of its last path segment.
func Key(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:]) + "." + storage.URLExt(rawURL)
}
