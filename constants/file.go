package constants

import "strings"

const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// AllowedExtensions holds the default allowed file extensions for intake.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"tif":  {},
	"tiff": {},
	"bmp":  {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a (possibly dotted) extension to a source format,
// or "" when the extension is not supported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "png", "jpg", "jpeg", "tif", "tiff", "bmp", "webp":
		return IMAGE
	default:
		return ""
	}
}
