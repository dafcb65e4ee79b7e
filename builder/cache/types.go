// Package cache persists rendered SVG artifacts across builds in a BoltDB
// index backed by a content-addressed, zstd-compressed blob store.
package cache

import (
	"encoding/hex"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/blake3"
)

// SVGArtifact indexes one rendered formula.
type SVGArtifact struct {
	Key         string `msgpack:"key"`         // ArtifactKey(tex, inline)
	Fingerprint string `msgpack:"fingerprint"` // short hash used in the output filename
	Inline      bool   `msgpack:"inline"`
	OutputHash  string `msgpack:"output_hash"` // BLAKE3 of the SVG, for store lookup
	Size        int64  `msgpack:"size"`
	CreatedAt   int64  `msgpack:"created_at"`
	Compressed  bool   `msgpack:"compressed"`
}

// Stats summarizes the cache contents.
type Stats struct {
	Artifacts     int   `msgpack:"artifacts"`
	StoreBytes    int64 `msgpack:"store_bytes"`
	BuildCount    int   `msgpack:"build_count"`
	SchemaVersion int   `msgpack:"schema_version"`
}

// CompressionType indicates how a blob is stored
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionZstdFast
	CompressionZstdLevel3
)

const (
	RawThreshold  = 8 * 1024   // < 8KB stored raw
	FastZstdMax   = 128 * 1024 // 8KB-128KB use zstd fast
	SchemaVersion = 1
)

// HashContent computes the BLAKE3 hash of content as hex.
func HashContent(data []byte) string {
	hash := blake3.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func HashString(s string) string {
	return HashContent([]byte(s))
}

// ArtifactKey identifies a render by its input. The same tex rendered inline
// and as display produces different SVGs, so the mode is part of the key.
func ArtifactKey(tex string, inline bool) string {
	mode := "display"
	if inline {
		mode = "inline"
	}
	return HashString(mode + ":" + tex)
}

// Encode serializes a value to msgpack bytes
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode deserializes msgpack bytes to a value
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}
