package mathjax

import "github.com/Kush-Singh-26/texsvg/builder/utils"

// ImagePrefix and ImageExt frame the fingerprint in output filenames.
const (
	ImagePrefix = "_mathjax_"
	ImageExt    = ".svg"
)

// Fingerprint is the cache key and filename component for normalized tex.
func Fingerprint(normalized string) string {
	return utils.ShortHash(normalized)
}

// ImageFilename returns the output file name for a fingerprint.
func ImageFilename(fingerprint string) string {
	return ImagePrefix + fingerprint + ImageExt
}
