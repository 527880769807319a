package swifttest

import (
	"crypto/md5" //#nosec G501 -- Swift ETags are MD5 digests
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// DirectoryContentType marks an object as a virtual folder.
const DirectoryContentType = "application/directory"

var (
	ErrContainerNotFound = errors.New("container not found")
	ErrObjectNotFound    = errors.New("object not found")
	ErrContainerNotEmpty = errors.New("container not empty")
)

// Object is a stored object.
type Object struct {
	Name         string
	ContentType  string
	Data         []byte
	Hash         string
	LastModified time.Time
	DeleteAt     int64 // Unix seconds, zero when the object never expires
}

// IsDirectory reports whether the object is a virtual folder marker.
func (o Object) IsDirectory() bool {
	return o.ContentType == DirectoryContentType
}

// Container holds objects by name.
type Container struct {
	Name    string
	Type    string
	Domains string
	objects map[string]*Object
}

// ListQuery selects objects in a container listing.
type ListQuery struct {
	Prefix string
	// Path, when set, limits the listing to the immediate children of the
	// named folder. An empty Path selects top-level objects.
	Path    string
	HasPath bool
}

// Store is an in-memory object store. It is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	containers map[string]*Container
	now        func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		containers: make(map[string]*Container),
		now:        time.Now,
	}
}

// CreateContainer creates a container if it does not exist.
// It returns true when a new container was created.
func (s *Store) CreateContainer(name, containerType string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createContainerLocked(name, containerType)
}

func (s *Store) createContainerLocked(name, containerType string) bool {
	if _, ok := s.containers[name]; ok {
		return false
	}
	if containerType == "" {
		containerType = "private"
	}
	s.containers[name] = &Container{
		Name:    name,
		Type:    containerType,
		objects: make(map[string]*Object),
	}
	return true
}

// SetDomains sets the domains bound to a container.
func (s *Store) SetDomains(container, domains string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[container]
	if !ok {
		return ErrContainerNotFound
	}
	c.Domains = domains
	return nil
}

// DeleteContainer removes an empty container.
func (s *Store) DeleteContainer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[name]
	if !ok {
		return ErrContainerNotFound
	}
	if len(s.liveObjectsLocked(c)) > 0 {
		return ErrContainerNotEmpty
	}
	delete(s.containers, name)
	return nil
}

// Put stores an object, replacing any existing one with the same name.
func (s *Store) Put(container string, obj Object) (Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putLocked(container, obj)
}

func (s *Store) putLocked(container string, obj Object) (Object, error) {
	c, ok := s.containers[container]
	if !ok {
		return Object{}, ErrContainerNotFound
	}

	sum := md5.Sum(obj.Data) //#nosec G401 -- Swift ETags are MD5 digests
	obj.Hash = hex.EncodeToString(sum[:])
	obj.LastModified = s.now().UTC()
	if obj.ContentType == "" {
		obj.ContentType = "application/octet-stream"
	}

	stored := obj
	c.objects[obj.Name] = &stored
	return stored, nil
}

// Get returns an object. Expired objects are reported as missing.
func (s *Store) Get(container, name string) (Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[container]
	if !ok {
		return Object{}, ErrContainerNotFound
	}
	obj, ok := c.objects[name]
	if !ok || s.expiredLocked(obj) {
		return Object{}, ErrObjectNotFound
	}
	return *obj, nil
}

// Delete removes an object.
func (s *Store) Delete(container, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[container]
	if !ok {
		return ErrContainerNotFound
	}
	obj, ok := c.objects[name]
	if !ok || s.expiredLocked(obj) {
		return ErrObjectNotFound
	}
	delete(c.objects, name)
	return nil
}

// List returns the objects matching q, sorted by name.
func (s *Store) List(container string, q ListQuery) ([]Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[container]
	if !ok {
		return nil, ErrContainerNotFound
	}

	var result []Object
	for _, obj := range s.liveObjectsLocked(c) {
		if q.Prefix != "" && !strings.HasPrefix(obj.Name, q.Prefix) {
			continue
		}
		if q.HasPath && !isImmediateChild(obj.Name, q.Path) {
			continue
		}
		result = append(result, obj)
	}
	return result, nil
}

func isImmediateChild(name, folder string) bool {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return !strings.Contains(name, "/")
	}
	rest, ok := strings.CutPrefix(name, folder+"/")
	if !ok || rest == "" {
		return false
	}
	return !strings.Contains(rest, "/")
}

// ContainerInfo is a snapshot of a container's counters.
type ContainerInfo struct {
	Name        string
	Type        string
	Domains     string
	ObjectCount int64
	BytesUsed   int64
}

// Containers returns every container's counters, sorted by name.
func (s *Store) Containers() []ContainerInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]ContainerInfo, 0, len(s.containers))
	for _, c := range s.containers {
		infos = append(infos, s.containerInfoLocked(c))
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// ContainerInfo returns one container's counters.
func (s *Store) ContainerInfo(name string) (ContainerInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.containers[name]
	if !ok {
		return ContainerInfo{}, ErrContainerNotFound
	}
	return s.containerInfoLocked(c), nil
}

func (s *Store) containerInfoLocked(c *Container) ContainerInfo {
	info := ContainerInfo{Name: c.Name, Type: c.Type, Domains: c.Domains}
	for _, obj := range s.liveObjectsLocked(c) {
		info.ObjectCount++
		info.BytesUsed += int64(len(obj.Data))
	}
	return info
}

// Names returns the names of all live objects in a container, sorted.
func (s *Store) Names(container string) []string {
	objs, err := s.List(container, ListQuery{})
	if err != nil {
		return nil
	}
	names := make([]string, len(objs))
	for i := range objs {
		names[i] = objs[i].Name
	}
	return names
}

func (s *Store) liveObjectsLocked(c *Container) []Object {
	objs := make([]Object, 0, len(c.objects))
	for _, obj := range c.objects {
		if s.expiredLocked(obj) {
			continue
		}
		objs = append(objs, *obj)
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Name < objs[j].Name })
	return objs
}

func (s *Store) expiredLocked(obj *Object) bool {
	return obj.DeleteAt > 0 && s.now().Unix() >= obj.DeleteAt
}
