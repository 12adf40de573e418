package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashWords returns the hex SHA-256 of a residual buffer in its
// little-endian file encoding, so a binary edge file and the words decoded
// from it hash alike.
func HashWords(words []uint32) string {
	h := sha256.New()
	buf := make([]byte, 0, 4096)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
		if len(buf) == cap(buf) {
			h.Write(buf)
			buf = buf[:0]
		}
	}
	h.Write(buf)
	return hex.EncodeToString(h.Sum(nil))
}
