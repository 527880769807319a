// Package selcdn is a client for Swift-style object storage such as Selectel
// Cloud Storage.
//
// A Storage authenticates lazily through an auth.Session and composes single
// HTTP round trips from the transport package into storage operations: account
// and container summaries, listings, uploads, existence checks, deletion,
// recursive virtual-folder removal, and archive-based bulk loading.
//
// # Key Components
//
//   - auth.Session: one-time token handshake, cached for the session's lifetime
//   - transport.Client: executes one request and parses the raw wire response
//   - Storage: the operation catalog with a fixed status-code contract per call
//   - archive.Writer: builds tar or tar.gz archives for LoadArchive
//
// # Virtual Folders
//
// The service emulates hierarchy with objects whose content type is
// "application/directory". DeleteFolder removes such a folder depth-first:
// every descendant goes before its parent marker, one request at a time, and
// the first failure aborts the traversal.
//
// # Example Usage
//
//	session := auth.New(login, password)
//	storage := selcdn.New(session)
//
//	err := storage.LoadFile(ctx, "images", "./cat.jpg", selcdn.LoadFileOptions{
//	    DestPath:    "pets/cat.jpg",
//	    DeleteAfter: 3600,
//	})
//
//	entries, err := storage.FilesList(ctx, "images", "pets")
//
//	err = storage.DeleteFolder(ctx, "images", "pets")
//
// Errors are checked with errors.Is: ErrAuthentication, ErrTransport and
// ErrConfiguration for failed calls, and *UnexpectedStatusError (matching
// ErrNotFound, ErrForbidden, ErrUnauthorized by status) when the service
// answers with a status the operation does not accept.
package selcdn
