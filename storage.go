package selcdn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/sagarc03/selcdn/archive"
	"github.com/sagarc03/selcdn/transport"
)

// Request and response headers used by storage operations.
const (
	HeaderAuthToken   = "X-Auth-Token"
	HeaderDeleteAt    = "X-Delete-At"
	HeaderDeleteAfter = "X-Delete-After"

	HeaderAccountContainerCount = "X-Account-Container-Count"
	HeaderAccountObjectCount    = "X-Account-Object-Count"
	HeaderAccountBytesUsed      = "X-Account-Bytes-Used"

	HeaderContainerObjectCount = "X-Container-Object-Count"
	HeaderContainerBytesUsed   = "X-Container-Bytes-Used"
	HeaderContainerMetaType    = "X-Container-Meta-Type"
	HeaderContainerDomains     = "X-Container-Domains"
)

// TokenSource supplies the bearer token and storage base URL.
// *auth.Session implements it.
type TokenSource interface {
	// Token returns the bearer token, authenticating if needed.
	Token(ctx context.Context) (string, error)

	// StorageURL returns the storage base URL. Valid after Token succeeds.
	StorageURL() string
}

// Storage performs container and object operations.
// Every call is a blocking round trip; calls are never retried.
type Storage struct {
	session TokenSource
	client  *transport.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Storage.
type Option func(*Storage)

// WithClient sets the transport client.
func WithClient(client *transport.Client) Option {
	return func(s *Storage) {
		s.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Storage) {
		s.logger = logger
	}
}

// WithRateLimiter paces outgoing requests. Each request waits for a token
// from l before it is sent.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *Storage) {
		s.limiter = l
	}
}

// New creates a Storage that authenticates through session.
func New(session TokenSource, opts ...Option) *Storage {
	s := &Storage{
		session: session,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.client == nil {
		s.client = transport.NewClient(transport.WithLogger(s.logger))
	}

	return s
}

// newRequest authenticates and builds a request for container/path carrying
// the auth token.
func (s *Storage) newRequest(ctx context.Context, container, path string, query []transport.Param, decoding transport.Decoding) (*transport.Request, error) {
	token, err := s.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	req := transport.Build(objectURL(s.session.StorageURL(), container, path), query, decoding).
		SetHeader(HeaderAuthToken, token)
	return req, nil
}

func (s *Storage) execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}
	}
	return s.client.Execute(ctx, req)
}

// LoadArchive uploads a tar archive that the service extracts into objects.
// With an empty container the archive's top-level directories name the
// containers. The archive format is chosen from the file extension.
func (s *Storage) LoadArchive(ctx context.Context, filePath, container string) (*ArchiveResult, error) {
	if filePath == "" {
		return nil, fmt.Errorf("load archive: %w: file path is required", ErrInvalidInput)
	}

	query := []transport.Param{{Key: "extract-archive", Value: archive.FormatFromPath(filePath).QueryValue()}}
	req, err := s.newRequest(ctx, container, "", query, transport.DecodeJSON)
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}

	req.SetHeader("Accept", "application/json").
		SetFile(filePath).
		SetMethod(transport.MethodPut)

	resp, err := s.execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}

	if resp.Code() != http.StatusCreated {
		return nil, &UnexpectedStatusError{Op: "load archive", StatusCode: resp.Code(), Body: string(resp.Raw())}
	}

	var result serverArchiveResult
	if err := resp.DecodeJSON(&result); err != nil {
		return nil, fmt.Errorf("load archive: %w", err)
	}

	s.logger.Debug("archive extracted",
		"file", filePath,
		"container", container,
		"files_created", result.NumberFilesCreated,
		"errors", len(result.Errors),
	)

	return result.toResult(), nil
}

// LoadFile uploads a single local file into container.
func (s *Storage) LoadFile(ctx context.Context, container, srcPath string, opts LoadFileOptions) error {
	if container == "" || srcPath == "" {
		return fmt.Errorf("load file: %w: container and source path are required", ErrInvalidInput)
	}

	destPath := opts.DestPath
	if destPath == "" {
		destPath = filepath.Base(srcPath)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = detectContentType(srcPath)
	}

	req, err := s.newRequest(ctx, container, destPath, nil, transport.DecodeRaw)
	if err != nil {
		return fmt.Errorf("load file: %w", err)
	}

	req.SetHeader("Accept", "application/json").
		SetHeader("Content-Type", contentType)

	switch {
	case opts.DeleteAt > 0:
		req.SetHeader(HeaderDeleteAt, strconv.FormatInt(opts.DeleteAt, 10))
	case opts.DeleteAfter > 0:
		req.SetHeader(HeaderDeleteAfter, strconv.FormatInt(opts.DeleteAfter, 10))
	}

	req.SetFile(srcPath).SetMethod(transport.MethodPut)

	resp, err := s.execute(ctx, req)
	if err != nil {
		return fmt.Errorf("load file: %w", err)
	}

	if resp.Code() != http.StatusCreated {
		return &UnexpectedStatusError{Op: "load file", StatusCode: resp.Code(), Body: string(resp.Raw())}
	}

	return nil
}

// StorageInfo reads the account summary headers. The status code is not checked.
func (s *Storage) StorageInfo(ctx context.Context) (StorageInfo, error) {
	req, err := s.newRequest(ctx, "", "", nil, transport.DecodeRaw)
	if err != nil {
		return StorageInfo{}, fmt.Errorf("storage info: %w", err)
	}

	resp, err := s.execute(ctx, req.SetMethod(transport.MethodHead))
	if err != nil {
		return StorageInfo{}, fmt.Errorf("storage info: %w", err)
	}

	return StorageInfo{
		ContainersCount: headerCount(resp, HeaderAccountContainerCount),
		ObjectsCount:    headerCount(resp, HeaderAccountObjectCount),
		BytesUsed:       headerCount(resp, HeaderAccountBytesUsed),
	}, nil
}

// ContainersList lists the account's containers. The status code is not
// checked; an undecodable body yields an empty list.
func (s *Storage) ContainersList(ctx context.Context) ([]ContainerEntry, error) {
	req, err := s.newRequest(ctx, "", "", nil, transport.DecodeJSON)
	if err != nil {
		return nil, fmt.Errorf("containers list: %w", err)
	}

	resp, err := s.execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("containers list: %w", err)
	}

	var containers []ContainerEntry
	if resp.Content() != nil {
		if err := resp.DecodeJSON(&containers); err != nil {
			s.logger.Debug("ignoring undecodable container list", "status", resp.Code(), "err", err)
			containers = nil
		}
	}

	return containers, nil
}

// ContainerInfo reads a container's summary headers. The status code is not checked.
func (s *Storage) ContainerInfo(ctx context.Context, container string) (ContainerInfo, error) {
	if container == "" {
		return ContainerInfo{}, fmt.Errorf("container info: %w: container is required", ErrInvalidInput)
	}

	req, err := s.newRequest(ctx, container, "", nil, transport.DecodeRaw)
	if err != nil {
		return ContainerInfo{}, fmt.Errorf("container info: %w", err)
	}

	resp, err := s.execute(ctx, req.SetMethod(transport.MethodHead))
	if err != nil {
		return ContainerInfo{}, fmt.Errorf("container info: %w", err)
	}

	metaType, _ := resp.Header(HeaderContainerMetaType)
	domains, _ := resp.Header(HeaderContainerDomains)

	return ContainerInfo{
		ObjectsCount: headerCount(resp, HeaderContainerObjectCount),
		BytesUsed:    headerCount(resp, HeaderContainerBytesUsed),
		Type:         metaType,
		Domains:      domains,
	}, nil
}

// FilesList lists the objects in container. A non-empty folder restricts the
// listing to that folder's immediate children. The status code is not
// checked; an undecodable body yields an empty list.
func (s *Storage) FilesList(ctx context.Context, container, folder string) ([]StorageEntry, error) {
	if container == "" {
		return nil, fmt.Errorf("files list: %w: container is required", ErrInvalidInput)
	}

	var query []transport.Param
	if folder != "" {
		query = append(query, transport.Param{Key: "path", Value: folder})
	}

	req, err := s.newRequest(ctx, container, "", query, transport.DecodeJSON)
	if err != nil {
		return nil, fmt.Errorf("files list: %w", err)
	}

	resp, err := s.execute(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("files list: %w", err)
	}

	var entries []StorageEntry
	if resp.Content() != nil {
		if err := resp.DecodeJSON(&entries); err != nil {
			s.logger.Debug("ignoring undecodable file list", "status", resp.Code(), "err", err)
			entries = nil
		}
	}

	return entries, nil
}

// DeleteFile removes a single object. Only 204 No Content counts as success.
func (s *Storage) DeleteFile(ctx context.Context, container, path string) error {
	if container == "" || path == "" {
		return fmt.Errorf("delete file: %w: container and path are required", ErrInvalidInput)
	}

	req, err := s.newRequest(ctx, container, path, nil, transport.DecodeRaw)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	resp, err := s.execute(ctx, req.SetMethod(transport.MethodDelete))
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}

	if resp.Code() != http.StatusNoContent {
		return &UnexpectedStatusError{Op: "delete file " + path, StatusCode: resp.Code(), Body: string(resp.Raw())}
	}

	return nil
}

// IsExistFile reports whether the object exists. Any status other than
// 200 OK means it does not; only transport and auth failures are errors.
func (s *Storage) IsExistFile(ctx context.Context, container, path string) (bool, error) {
	if container == "" || path == "" {
		return false, fmt.Errorf("is exist file: %w: container and path are required", ErrInvalidInput)
	}

	req, err := s.newRequest(ctx, container, path, nil, transport.DecodeRaw)
	if err != nil {
		return false, fmt.Errorf("is exist file: %w", err)
	}

	resp, err := s.execute(ctx, req.SetMethod(transport.MethodHead))
	if err != nil {
		return false, fmt.Errorf("is exist file: %w", err)
	}

	return resp.Code() == http.StatusOK, nil
}

// DeleteFolder removes a virtual folder and everything below it. Children
// are deleted depth-first, one request at a time, and the folder marker
// itself is deleted last. The first failure stops the traversal; objects
// already deleted stay deleted.
func (s *Storage) DeleteFolder(ctx context.Context, container, folder string) error {
	if container == "" || folder == "" {
		return fmt.Errorf("delete folder: %w: container and folder are required", ErrInvalidInput)
	}

	entries, err := s.FilesList(ctx, container, folder)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.Name == folder {
			continue
		}

		if entry.IsDirectory() {
			err = s.DeleteFolder(ctx, container, entry.Name)
		} else {
			err = s.DeleteFile(ctx, container, entry.Name)
		}
		if err != nil {
			return err
		}
	}

	s.logger.Debug("folder emptied", "container", container, "folder", folder, "children", len(entries))

	return s.DeleteFile(ctx, container, folder)
}

func headerCount(resp *transport.Response, name string) int64 {
	v, _ := resp.Header(name)
	return parseCount(v)
}
