package swifttest

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const (
	statusCreated    = "201 Created"
	statusBadRequest = "400 Bad Request"
	statusNotFound   = "404 Not Found"
)

type extractResult struct {
	NumberFilesCreated int        `json:"Number Files Created"`
	ResponseStatus     string     `json:"Response Status"`
	ResponseBody       string     `json:"Response Body"`
	Errors             [][]string `json:"Errors"`
}

func errInvalidExpiry(header string) error {
	return fmt.Errorf("invalid %s header", header)
}

// extractArchive unpacks a tar or tar.gz request body. With an empty
// container the first path segment of every member names its container,
// which is created on demand.
func (h *Handler) extractArchive(w http.ResponseWriter, r *http.Request, container, format string) {
	var body io.Reader = r.Body
	switch format {
	case "tar":
	case "tar.gz":
		gz, err := gzip.NewReader(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid gzip stream.")
			return
		}
		defer func() { _ = gz.Close() }()
		body = gz
	default:
		writeError(w, http.StatusBadRequest, "Unsupported archive format.")
		return
	}

	if container != "" {
		if _, err := h.store.ContainerInfo(container); err != nil {
			handleError(w, err)
			return
		}
	}

	result := extractResult{Errors: [][]string{}}
	tr := tar.NewReader(body)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid tar stream.")
			return
		}

		var contentType string
		switch hdr.Typeflag {
		case tar.TypeReg:
		case tar.TypeDir:
			contentType = DirectoryContentType
		default:
			continue
		}

		name := memberName(hdr.Name)
		if name == "" {
			continue
		}

		target := container
		if target == "" {
			target, name, _ = strings.Cut(name, "/")
			h.store.CreateContainer(target, "")
			if name == "" {
				continue
			}
		}

		data, err := io.ReadAll(tr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid tar stream.")
			return
		}

		if _, err := h.store.Put(target, Object{Name: name, ContentType: contentType, Data: data}); err != nil {
			result.Errors = append(result.Errors, []string{target + "/" + name, statusNotFound})
			continue
		}
		result.NumberFilesCreated++
	}

	result.ResponseStatus = statusCreated
	if len(result.Errors) > 0 {
		result.ResponseStatus = statusBadRequest
	}
	writeJSON(w, http.StatusCreated, result)
}

func memberName(name string) string {
	name = path.Clean("/" + name)
	return strings.Trim(name, "/")
}
