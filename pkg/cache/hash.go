package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"hash"
	"strconv"
)

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Digest accumulates fields into a single content hash. Fields are length
// prefixed, so ("ab", "c") and ("a", "bc") differ.
type Digest struct {
	h hash.Hash
}

// NewDigest starts an empty digest.
func NewDigest() *Digest {
	return &Digest{h: sha256.New()}
}

// Add appends string fields.
func (d *Digest) Add(fields ...string) *Digest {
	for _, f := range fields {
		d.h.Write([]byte(strconv.Itoa(len(f))))
		d.h.Write([]byte{':'})
		d.h.Write([]byte(f))
	}
	return d
}

// AddInt appends integer fields.
func (d *Digest) AddInt(fields ...int64) *Digest {
	for _, f := range fields {
		d.Add(strconv.FormatInt(f, 10))
	}
	return d
}

// Sum returns the hex digest.
func (d *Digest) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}
