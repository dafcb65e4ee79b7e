package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Store keeps blobs on disk under category/hash[0:2]/hash[2:4]/hash, raw
// when small and zstd-compressed otherwise.
type Store struct {
	basePath string
	fast     *zstd.Encoder
	dense    *zstd.Encoder
	decoder  *zstd.Decoder
}

// NewStore creates a new content-addressed store
func NewStore(basePath string) (*Store, error) {
	fast, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dense, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = fast.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = fast.Close()
		_ = dense.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &Store{
		basePath: basePath,
		fast:     fast,
		dense:    dense,
		decoder:  decoder,
	}, nil
}

// Close releases resources
func (s *Store) Close() error {
	_ = s.fast.Close()
	_ = s.dense.Close()
	s.decoder.Close()
	return nil
}

func (s *Store) shardPath(category, hash string) string {
	if len(hash) < 4 {
		return filepath.Join(s.basePath, category, hash)
	}
	return filepath.Join(s.basePath, category, hash[0:2], hash[2:4], hash)
}

func extension(ct CompressionType) string {
	if ct == CompressionNone {
		return ".raw"
	}
	return ".zst"
}

func determineCompression(size int) CompressionType {
	switch {
	case size < RawThreshold:
		return CompressionNone
	case size < FastZstdMax:
		return CompressionZstdFast
	default:
		return CompressionZstdLevel3
	}
}

// Put stores content and returns its hash and compression type. Storing the
// same content twice is a no-op.
func (s *Store) Put(category string, content []byte) (hash string, ct CompressionType, err error) {
	hash = HashContent(content)
	ct = determineCompression(len(content))

	path := s.shardPath(category, hash) + extension(ct)
	if _, err := os.Stat(path); err == nil {
		return hash, ct, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create directory: %w", err)
	}

	data := content
	switch ct {
	case CompressionZstdFast:
		data = s.fast.EncodeAll(content, nil)
	case CompressionZstdLevel3:
		data = s.dense.EncodeAll(content, nil)
	}

	if err := writeAtomic(path, data); err != nil {
		return "", 0, err
	}
	return hash, ct, nil
}

// writeAtomic writes via .tmp, fsync and rename so readers never see a
// partial blob.
func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write content: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Get retrieves content by hash. The compressed hint picks which file to try
// first.
func (s *Store) Get(category, hash string, compressed bool) ([]byte, error) {
	exts := []string{".raw", ".zst"}
	if compressed {
		exts = []string{".zst", ".raw"}
	}

	for _, ext := range exts {
		data, err := os.ReadFile(s.shardPath(category, hash) + ext)
		if err != nil {
			continue
		}
		if ext == ".zst" {
			return s.decoder.DecodeAll(data, nil)
		}
		return data, nil
	}
	return nil, fmt.Errorf("blob not found: %s", hash)
}

// Exists checks if a hash exists in the store
func (s *Store) Exists(category, hash string) bool {
	for _, ext := range []string{".raw", ".zst"} {
		if _, err := os.Stat(s.shardPath(category, hash) + ext); err == nil {
			return true
		}
	}
	return false
}

// Delete removes a hash from the store
func (s *Store) Delete(category, hash string) error {
	_ = os.Remove(s.shardPath(category, hash) + ".raw")
	_ = os.Remove(s.shardPath(category, hash) + ".zst")
	return nil
}

// ListHashes returns all hashes in a category
func (s *Store) ListHashes(category string) ([]string, error) {
	root := filepath.Join(s.basePath, category)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var hashes []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		name := info.Name()
		if ext := filepath.Ext(name); ext == ".raw" || ext == ".zst" {
			hashes = append(hashes, strings.TrimSuffix(name, ext))
		}
		return nil
	})
	return hashes, err
}

// Size returns total bytes used by a category
func (s *Store) Size(category string) (int64, error) {
	root := filepath.Join(s.basePath, category)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return 0, nil
	}

	var total int64
	err := filepath.Walk(root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}
