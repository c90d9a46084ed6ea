package services

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is the fallback when no type can be determined.
const DefaultContentType = "application/octet-stream"

// DetectContentType returns the MIME type of a file, best-effort: content
// sniffing first, then the extension table, then the generic binary type.
// Detection failures never fail an upload.
func DetectContentType(path string) string {
	if mtype, err := mimetype.DetectFile(path); err == nil {
		// mimetype reports octet-stream for anything it cannot classify;
		// give the extension table a chance before settling on that.
		if mtype.Is(DefaultContentType) {
			if byExt := contentTypeByExtension(path); byExt != "" {
				return byExt
			}
		}
		return mtype.String()
	}

	if byExt := contentTypeByExtension(path); byExt != "" {
		return byExt
	}

	return DefaultContentType
}

func contentTypeByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}
