package swifttest

import (
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	headerAuthUser        = "X-Auth-User"
	headerAuthKey         = "X-Auth-Key"
	headerAuthToken       = "X-Auth-Token"
	headerExpireAuthToken = "X-Expire-Auth-Token"
	headerStorageURL      = "X-Storage-Url"

	headerAccountContainerCount = "X-Account-Container-Count"
	headerAccountObjectCount    = "X-Account-Object-Count"
	headerAccountBytesUsed      = "X-Account-Bytes-Used"

	headerContainerObjectCount = "X-Container-Object-Count"
	headerContainerBytesUsed   = "X-Container-Bytes-Used"
	headerContainerMetaType    = "X-Container-Meta-Type"
	headerContainerDomains     = "X-Container-Domains"

	headerDeleteAt    = "X-Delete-At"
	headerDeleteAfter = "X-Delete-After"

	defaultTokenTTL = 86400
)

// Config configures the emulated account.
type Config struct {
	// Users maps login to password. Only these credentials authenticate.
	Users map[string]string
	// TokenTTL is reported in X-Expire-Auth-Token. Defaults to one day.
	TokenTTL int
}

// Handler serves the auth endpoint and the Swift storage API from a Store.
type Handler struct {
	config Config
	store  *Store

	mu      sync.Mutex
	tokens  map[string]string // token -> login
	journal []RecordedRequest

	authCalls atomic.Int64
}

// NewHandler creates a Handler with an empty Store.
func NewHandler(config Config) *Handler {
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaultTokenTTL
	}
	return &Handler{
		config: config,
		store:  NewStore(),
		tokens: make(map[string]string),
	}
}

// Store returns the backing store.
func (h *Handler) Store() *Store {
	return h.store
}

// AuthCalls returns how many requests reached the auth endpoint.
func (h *Handler) AuthCalls() int {
	return int(h.authCalls.Load())
}

// Requests returns a copy of the request journal.
func (h *Handler) Requests() []RecordedRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]RecordedRequest, len(h.journal))
	copy(out, h.journal)
	return out
}

// ResetJournal clears the request journal.
func (h *Handler) ResetJournal() {
	h.mu.Lock()
	h.journal = nil
	h.mu.Unlock()
}

// Router returns an http.Handler with the auth and storage routes.
// Storage lives under /v1/ and requires a token issued by GET /auth/.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(h.journalMiddleware)
	r.Use(transIDMiddleware)

	r.Get("/auth", h.handleAuth)
	r.Get("/auth/", h.handleAuth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(h.tokenMiddleware)

		r.Head("/", h.handleAccountHead)
		r.Get("/", h.handleAccountGet)
		r.Put("/", h.handleAccountPut)

		r.Head("/{container}", h.handleContainerHead)
		r.Get("/{container}", h.handleContainerGet)
		r.Put("/{container}", h.handleContainerPut)
		r.Delete("/{container}", h.handleContainerDelete)

		r.Head("/{container}/*", h.handleObjectHead)
		r.Get("/{container}/*", h.handleObjectGet)
		r.Put("/{container}/*", h.handleObjectPut)
		r.Delete("/{container}/*", h.handleObjectDelete)
	})

	return r
}

func (h *Handler) handleAuth(w http.ResponseWriter, r *http.Request) {
	h.authCalls.Add(1)

	login := r.Header.Get(headerAuthUser)
	password, ok := h.config.Users[login]
	if login == "" || !ok || password != r.Header.Get(headerAuthKey) {
		writeError(w, http.StatusForbidden, "Access was denied to this resource.")
		return
	}

	token := uuid.NewString()
	h.mu.Lock()
	h.tokens[token] = login
	h.mu.Unlock()

	w.Header().Set(headerAuthToken, token)
	w.Header().Set(headerExpireAuthToken, strconv.Itoa(h.config.TokenTTL))
	w.Header().Set(headerStorageURL, "http://"+r.Host+"/v1/")
	writeNoContent(w, http.StatusNoContent)
}

func (h *Handler) handleAccountHead(w http.ResponseWriter, _ *http.Request) {
	var objects, bytes int64
	containers := h.store.Containers()
	for _, c := range containers {
		objects += c.ObjectCount
		bytes += c.BytesUsed
	}

	w.Header().Set(headerAccountContainerCount, strconv.Itoa(len(containers)))
	w.Header().Set(headerAccountObjectCount, strconv.FormatInt(objects, 10))
	w.Header().Set(headerAccountBytesUsed, strconv.FormatInt(bytes, 10))
	writeNoContent(w, http.StatusNoContent)
}

type containerListing struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
	Bytes int64  `json:"bytes"`
	Type  string `json:"type"`
}

func (h *Handler) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	containers := h.store.Containers()

	if r.URL.Query().Get("format") != "json" {
		names := make([]string, len(containers))
		for i, c := range containers {
			names[i] = c.Name
		}
		writeText(w, names)
		return
	}

	listing := make([]containerListing, len(containers))
	for i, c := range containers {
		listing[i] = containerListing{Name: c.Name, Count: c.ObjectCount, Bytes: c.BytesUsed, Type: c.Type}
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) handleAccountPut(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("extract-archive")
	if format == "" {
		writeError(w, http.StatusMethodNotAllowed, "The method is not allowed for this resource.")
		return
	}
	h.extractArchive(w, r, "", format)
}

func (h *Handler) handleContainerHead(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.ContainerInfo(pathParam(r, "container"))
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set(headerContainerObjectCount, strconv.FormatInt(info.ObjectCount, 10))
	w.Header().Set(headerContainerBytesUsed, strconv.FormatInt(info.BytesUsed, 10))
	w.Header().Set(headerContainerMetaType, info.Type)
	if info.Domains != "" {
		w.Header().Set(headerContainerDomains, info.Domains)
	}
	writeNoContent(w, http.StatusNoContent)
}

type objectListing struct {
	Name         string `json:"name"`
	ContentType  string `json:"content_type"`
	Bytes        int64  `json:"bytes"`
	Hash         string `json:"hash"`
	LastModified string `json:"last_modified"`
}

func (h *Handler) handleContainerGet(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := ListQuery{Prefix: query.Get("prefix")}
	if query.Has("path") {
		q.Path = query.Get("path")
		q.HasPath = true
	}

	objs, err := h.store.List(pathParam(r, "container"), q)
	if err != nil {
		handleError(w, err)
		return
	}

	if query.Get("format") != "json" {
		names := make([]string, len(objs))
		for i := range objs {
			names[i] = objs[i].Name
		}
		writeText(w, names)
		return
	}

	listing := make([]objectListing, len(objs))
	for i, obj := range objs {
		listing[i] = objectListing{
			Name:         obj.Name,
			ContentType:  obj.ContentType,
			Bytes:        int64(len(obj.Data)),
			Hash:         obj.Hash,
			LastModified: obj.LastModified.Format("2006-01-02T15:04:05.000000"),
		}
	}
	writeJSON(w, http.StatusOK, listing)
}

func (h *Handler) handleContainerPut(w http.ResponseWriter, r *http.Request) {
	container := pathParam(r, "container")

	if format := r.URL.Query().Get("extract-archive"); format != "" {
		h.extractArchive(w, r, container, format)
		return
	}

	created := h.store.CreateContainer(container, r.Header.Get(headerContainerMetaType))
	if domains := r.Header.Get(headerContainerDomains); domains != "" {
		_ = h.store.SetDomains(container, domains)
	}

	if created {
		writeNoContent(w, http.StatusCreated)
		return
	}
	writeNoContent(w, http.StatusAccepted)
}

func (h *Handler) handleContainerDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteContainer(pathParam(r, "container")); err != nil {
		handleError(w, err)
		return
	}
	writeNoContent(w, http.StatusNoContent)
}

// A trailing slash after the container name addresses the container itself.
func (h *Handler) handleObjectHead(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "*")
	if name == "" {
		h.handleContainerHead(w, r)
		return
	}

	obj, err := h.store.Get(pathParam(r, "container"), name)
	if err != nil {
		handleError(w, err)
		return
	}

	setObjectHeaders(w, obj)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleObjectGet(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "*")
	if name == "" {
		h.handleContainerGet(w, r)
		return
	}

	obj, err := h.store.Get(pathParam(r, "container"), name)
	if err != nil {
		handleError(w, err)
		return
	}

	setObjectHeaders(w, obj)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(obj.Data)
}

func (h *Handler) handleObjectPut(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "*")
	if name == "" {
		h.handleContainerPut(w, r)
		return
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read the request body.")
		return
	}

	deleteAt, err := expiryFromHeaders(r.Header, h.store.now().Unix())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	obj, err := h.store.Put(pathParam(r, "container"), Object{
		Name:        name,
		ContentType: r.Header.Get("Content-Type"),
		Data:        data,
		DeleteAt:    deleteAt,
	})
	if err != nil {
		handleError(w, err)
		return
	}

	w.Header().Set("ETag", obj.Hash)
	writeNoContent(w, http.StatusCreated)
}

func (h *Handler) handleObjectDelete(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "*")
	if name == "" {
		h.handleContainerDelete(w, r)
		return
	}

	if err := h.store.Delete(pathParam(r, "container"), name); err != nil {
		handleError(w, err)
		return
	}
	writeNoContent(w, http.StatusNoContent)
}

func setObjectHeaders(w http.ResponseWriter, obj Object) {
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Header().Set("ETag", obj.Hash)
	w.Header().Set("Last-Modified", obj.LastModified.Format(http.TimeFormat))
	if obj.DeleteAt > 0 {
		w.Header().Set(headerDeleteAt, strconv.FormatInt(obj.DeleteAt, 10))
	}
}

// expiryFromHeaders resolves X-Delete-At and X-Delete-After to an absolute
// Unix time. X-Delete-At wins when both are present.
func expiryFromHeaders(header http.Header, now int64) (int64, error) {
	if v := header.Get(headerDeleteAt); v != "" {
		at, err := strconv.ParseInt(v, 10, 64)
		if err != nil || at <= 0 {
			return 0, errInvalidExpiry(headerDeleteAt)
		}
		return at, nil
	}
	if v := header.Get(headerDeleteAfter); v != "" {
		after, err := strconv.ParseInt(v, 10, 64)
		if err != nil || after < 0 {
			return 0, errInvalidExpiry(headerDeleteAfter)
		}
		return now + after, nil
	}
	return 0, nil
}

// pathParam returns a decoded chi URL parameter.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return v
	}
	return decoded
}

func writeText(w http.ResponseWriter, lines []string) {
	if len(lines) == 0 {
		writeNoContent(w, http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, strings.Join(lines, "\n")+"\n")
}
