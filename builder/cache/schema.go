package cache

// BoltDB bucket names
const (
	BucketSVG   = "svg"   // {ArtifactKey} -> SVGArtifact
	BucketMeta  = "meta"  // schema_version, cache_id
	BucketStats = "stats" // build_count

	KeySchemaVersion = "schema_version"
	KeyCacheID       = "cache_id"
	KeyBuildCount    = "build_count"

	// CategorySVG is the blob store directory for rendered SVGs.
	CategorySVG = "svg"
)

// AllBuckets returns all bucket names for initialization
func AllBuckets() []string {
	return []string{
		BucketSVG,
		BucketMeta,
		BucketStats,
	}
}
