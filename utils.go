package selcdn

import (
	"mime"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// objectURL joins the storage base URL with an optional container and object
// path: base + container + "/" + path. Path segments are escaped but slashes
// are kept so nested names map onto the same URL hierarchy.
func objectURL(base, container, path string) string {
	var sb strings.Builder
	sb.WriteString(base)
	if container != "" {
		sb.WriteString(escapePath(container))
		sb.WriteByte('/')
	}
	if path != "" {
		sb.WriteString(escapePath(path))
	}
	return sb.String()
}

func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// NormalizeObjectName converts a local path to an object name.
// It handles:
//   - Backslashes are converted to forward slashes (Windows)
//   - Leading "./" and "/" are stripped
//   - Parent traversal segments are dropped
//   - A trailing "/" is removed
func NormalizeObjectName(localPath string) string {
	path := filepath.ToSlash(localPath)
	path = filepath.ToSlash(filepath.Clean(path))

	path = strings.TrimPrefix(path, "./")
	path = strings.TrimPrefix(path, "/")

	for strings.HasPrefix(path, "../") {
		path = strings.TrimPrefix(path, "../")
	}

	if path == ".." || path == "." {
		return ""
	}

	return strings.TrimSuffix(path, "/")
}

// detectContentType returns MIME type based on file extension.
func detectContentType(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return "application/octet-stream"
	}

	mimeType := mime.TypeByExtension(ext)
	if mimeType == "" {
		return "application/octet-stream"
	}

	return mimeType
}

// parseCount reads a numeric header value, treating absent or malformed values as zero.
func parseCount(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
