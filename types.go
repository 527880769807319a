package selcdn

import (
	"strings"
)

// DirectoryContentType marks an object as a virtual folder.
const DirectoryContentType = "application/directory"

// StorageEntry is one object returned by a container listing.
type StorageEntry struct {
	Name         string `json:"name"`
	ContentType  string `json:"content_type"`
	Bytes        int64  `json:"bytes"`
	Hash         string `json:"hash"`
	LastModified string `json:"last_modified"`
}

// IsDirectory reports whether the entry is a virtual folder marker.
func (e StorageEntry) IsDirectory() bool {
	return e.ContentType == DirectoryContentType
}

// ContainerEntry is one container returned by the account listing.
type ContainerEntry struct {
	Name    string `json:"name"`
	Count   int64  `json:"count"`
	Bytes   int64  `json:"bytes"`
	Type    string `json:"type,omitempty"`
	RxBytes int64  `json:"rx_bytes,omitempty"`
	TxBytes int64  `json:"tx_bytes,omitempty"`
}

// StorageInfo summarizes the account.
type StorageInfo struct {
	ContainersCount int64 `json:"containers_count"`
	ObjectsCount    int64 `json:"objects_count"`
	BytesUsed       int64 `json:"bytes_used"`
}

// ContainerInfo summarizes a single container.
type ContainerInfo struct {
	ObjectsCount int64  `json:"objects_count"`
	BytesUsed    int64  `json:"bytes_used"`
	Type         string `json:"type"`
	Domains      string `json:"domains,omitempty"`
}

// DomainList splits the comma-separated Domains header value.
func (c ContainerInfo) DomainList() []string {
	if c.Domains == "" {
		return nil
	}
	parts := strings.Split(c.Domains, ",")
	domains := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			domains = append(domains, p)
		}
	}
	return domains
}

// LoadFileOptions configures LoadFile. Zero values mean "not set".
type LoadFileOptions struct {
	// DestPath is the object name; defaults to the base name of the source file.
	DestPath string
	// DeleteAt is an absolute Unix time after which the object expires.
	// It takes precedence over DeleteAfter.
	DeleteAt int64
	// DeleteAfter is a lifetime in seconds.
	DeleteAfter int64
	// ContentType overrides detection from the file extension.
	ContentType string
}

// ArchiveError is one archive member the service failed to store.
type ArchiveError struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ArchiveResult is the service's report on an extracted archive.
type ArchiveResult struct {
	FilesCreated   int            `json:"files_created"`
	ResponseStatus string         `json:"response_status"`
	ResponseBody   string         `json:"response_body,omitempty"`
	Errors         []ArchiveError `json:"errors"`
}

// serverArchiveResult mirrors the extract-archive JSON response.
// Errors is a list of [name, status] pairs.
type serverArchiveResult struct {
	NumberFilesCreated int        `json:"Number Files Created"`
	ResponseStatus     string     `json:"Response Status"`
	ResponseBody       string     `json:"Response Body"`
	Errors             [][]string `json:"Errors"`
}

func (r serverArchiveResult) toResult() *ArchiveResult {
	result := &ArchiveResult{
		FilesCreated:   r.NumberFilesCreated,
		ResponseStatus: r.ResponseStatus,
		ResponseBody:   r.ResponseBody,
		Errors:         make([]ArchiveError, 0, len(r.Errors)),
	}
	for _, pair := range r.Errors {
		var e ArchiveError
		if len(pair) > 0 {
			e.Name = pair[0]
		}
		if len(pair) > 1 {
			e.Status = pair[1]
		}
		result.Errors = append(result.Errors, e)
	}
	return result
}
