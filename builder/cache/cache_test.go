package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestCache creates a temporary cache for testing
func createTestCache(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Failed to open cache: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func sampleSVG(size int) []byte {
	var b bytes.Buffer
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg">`)
	for b.Len() < size {
		b.WriteString(`<path d="M0 0L10 10"/>`)
	}
	b.WriteString(`</svg>`)
	return b.Bytes()
}

func TestOpen_NewCache(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")

	m, err := Open(cacheDir, 0)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	}()

	if _, err := os.Stat(filepath.Join(cacheDir, "meta.db")); err != nil {
		t.Errorf("meta.db should exist: %v", err)
	}

	stats, err := m.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion = %d, want %d", stats.SchemaVersion, SchemaVersion)
	}
	if stats.Artifacts != 0 {
		t.Errorf("Artifacts = %d, want 0", stats.Artifacts)
	}
}

func TestOpen_ExistingCache(t *testing.T) {
	dir := t.TempDir()
	svg := sampleSVG(100)

	m, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	key := ArtifactKey(`x^2`, true)
	if err := m.PutSVG(key, "abc", true, svg); err != nil {
		t.Fatalf("PutSVG() failed: %v", err)
	}
	_ = m.Close()

	m2, err := Open(dir, 0)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = m2.Close() }()

	got, ok, err := m2.GetSVG(key)
	if err != nil || !ok {
		t.Fatalf("GetSVG() = ok %v, err %v", ok, err)
	}
	if !bytes.Equal(got, svg) {
		t.Error("SVG changed across reopen")
	}
}

func TestVerifyCacheID(t *testing.T) {
	m := createTestCache(t)

	needs, err := m.VerifyCacheID("engine-a")
	if err != nil {
		t.Fatalf("VerifyCacheID() failed: %v", err)
	}
	if !needs {
		t.Error("fresh cache should need a rebuild")
	}

	if err := m.SetCacheID("engine-a"); err != nil {
		t.Fatalf("SetCacheID() failed: %v", err)
	}
	if needs, _ := m.VerifyCacheID("engine-a"); needs {
		t.Error("matching ID should not need a rebuild")
	}
	if needs, _ := m.VerifyCacheID("engine-b"); !needs {
		t.Error("different ID should need a rebuild")
	}
}

func TestPutGetSVG(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		compressed bool
	}{
		{"small stored raw", 200, false},
		{"medium fast zstd", 20 * 1024, true},
		{"large dense zstd", 200 * 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := createTestCache(t)
			svg := sampleSVG(tt.size)
			key := ArtifactKey(tt.name, false)

			if err := m.PutSVG(key, "fp", false, svg); err != nil {
				t.Fatalf("PutSVG() failed: %v", err)
			}

			got, ok, err := m.GetSVG(key)
			if err != nil || !ok {
				t.Fatalf("GetSVG() = ok %v, err %v", ok, err)
			}
			if !bytes.Equal(got, svg) {
				t.Error("round trip changed the SVG")
			}

			art, err := m.GetArtifact(key)
			if err != nil || art == nil {
				t.Fatalf("GetArtifact() = %v, %v", art, err)
			}
			if art.Compressed != tt.compressed {
				t.Errorf("Compressed = %v, want %v", art.Compressed, tt.compressed)
			}
			if art.Size != int64(len(svg)) {
				t.Errorf("Size = %d, want %d", art.Size, len(svg))
			}
			if m.Hits() != 1 || m.Misses() != 0 {
				t.Errorf("hits=%d misses=%d", m.Hits(), m.Misses())
			}
		})
	}
}

func TestGetSVG_Miss(t *testing.T) {
	m := createTestCache(t)

	_, ok, err := m.GetSVG(ArtifactKey("missing", true))
	if err != nil {
		t.Fatalf("GetSVG() error: %v", err)
	}
	if ok {
		t.Error("expected a miss")
	}
	if m.Misses() != 1 {
		t.Errorf("Misses = %d, want 1", m.Misses())
	}
}

func TestArtifactKey_ModeMatters(t *testing.T) {
	if ArtifactKey("x", true) == ArtifactKey("x", false) {
		t.Error("inline and display renders must not share a key")
	}
	if ArtifactKey("x", true) != ArtifactKey("x", true) {
		t.Error("ArtifactKey must be deterministic")
	}
}

func TestClear(t *testing.T) {
	m := createTestCache(t)
	key := ArtifactKey("a", true)
	if err := m.PutSVG(key, "fp", true, sampleSVG(50)); err != nil {
		t.Fatal(err)
	}
	if err := m.SetCacheID("engine"); err != nil {
		t.Fatal(err)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}

	if _, ok, _ := m.GetSVG(key); ok {
		t.Error("artifact survived Clear")
	}
	stats, _ := m.Stats()
	if stats.Artifacts != 0 || stats.StoreBytes != 0 {
		t.Errorf("stats after Clear = %+v", stats)
	}
	if needs, _ := m.VerifyCacheID("engine"); needs {
		t.Error("Clear should keep the cache ID")
	}
}

func TestIncrementBuildCount(t *testing.T) {
	m := createTestCache(t)
	for i := 0; i < 3; i++ {
		if err := m.IncrementBuildCount(); err != nil {
			t.Fatal(err)
		}
	}
	stats, err := m.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.BuildCount != 3 {
		t.Errorf("BuildCount = %d, want 3", stats.BuildCount)
	}
}

func TestPrune(t *testing.T) {
	m := createTestCache(t)

	keep := ArtifactKey("keep", true)
	if err := m.PutSVG(keep, "k", true, sampleSVG(40)); err != nil {
		t.Fatal(err)
	}

	orphan, _, err := m.Store().Put(CategorySVG, []byte("<svg>orphan</svg>"))
	if err != nil {
		t.Fatal(err)
	}

	dangling := ArtifactKey("dangling", false)
	if err := m.PutSVG(dangling, "d", false, []byte("<svg>gone</svg>")); err != nil {
		t.Fatal(err)
	}
	art, _ := m.GetArtifact(dangling)
	_ = m.Store().Delete(CategorySVG, art.OutputHash)

	result, err := m.Prune()
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if result.DeletedBlobs != 1 || result.DeletedRecords != 1 || result.LiveBlobs != 1 {
		t.Errorf("result = %+v", result)
	}
	if m.Store().Exists(CategorySVG, orphan) {
		t.Error("orphan blob survived Prune")
	}
	if _, ok, _ := m.GetSVG(keep); !ok {
		t.Error("live artifact lost by Prune")
	}
	if a, _ := m.GetArtifact(dangling); a != nil {
		t.Error("dangling record survived Prune")
	}
}

func TestStore_Dedup(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	h1, _, err := s.Put("x", []byte("same"))
	if err != nil {
		t.Fatal(err)
	}
	h2, _, _ := s.Put("x", []byte("same"))
	if h1 != h2 {
		t.Error("same content should hash the same")
	}
	hashes, _ := s.ListHashes("x")
	if len(hashes) != 1 {
		t.Errorf("got %d blobs, want 1", len(hashes))
	}
	if _, err := s.Get("x", strings.Repeat("0", 64), false); err == nil {
		t.Error("expected error for missing blob")
	}
}
