package badger

import (
	"encoding/binary"

	"github.com/poiesic/rankgate/core"
)

// Key prefixes for different data types
const (
	termStatsPrefix = "trmsta"
)

// makeTermStatsKey generates a content-addressed key for a term's
// statistics entry. Terms are lowercased before hashing so lookups are
// case-insensitive.
func makeTermStatsKey(term string) []byte {
	prefix := termStatsPrefix + ":"
	prefixBytes := []byte(prefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(core.IDFromContent(term)))
	return buf
}
