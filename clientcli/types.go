package clientcli

import (
	"github.com/sagarc03/selcdn"
)

// UploadResult is the outcome of uploading one local file.
type UploadResult struct {
	Container   string `json:"container"`
	LocalPath   string `json:"local_path"`
	RemotePath  string `json:"remote_path"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size_bytes"`
	DeleteAt    int64  `json:"delete_at,omitempty"`
	DeleteAfter int64  `json:"delete_after,omitempty"`
	Err         error  `json:"-"` // nil on success
}

// ArchiveUploadResult is the outcome of a bulk archive upload.
type ArchiveUploadResult struct {
	Source    string                `json:"source"`
	Container string                `json:"container,omitempty"`
	Format    string                `json:"format"`
	Result    *selcdn.ArchiveResult `json:"result"`
}

// DeleteResult is the outcome of deleting one object or folder.
type DeleteResult struct {
	Container string `json:"container"`
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
	Deleted   bool   `json:"deleted"`
	Err       error  `json:"-"` // nil on success
}

// ExistsResult is the outcome of an existence check.
type ExistsResult struct {
	Container string `json:"container"`
	Path      string `json:"path"`
	Exists    bool   `json:"exists"`
}

// ListResult is a container or folder listing.
type ListResult struct {
	Container string                `json:"container"`
	Folder    string                `json:"folder,omitempty"`
	Items     []selcdn.StorageEntry `json:"items"`
}

// TotalSize sums the sizes of the listed objects.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for i := range r.Items {
		total += r.Items[i].Bytes
	}
	return total
}

// ContainerResult pairs a container name with its summary.
type ContainerResult struct {
	Name string               `json:"name"`
	Info selcdn.ContainerInfo `json:"info"`
}
