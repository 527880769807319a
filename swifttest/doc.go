// Package swifttest provides an in-memory emulator of Swift-style object
// storage for tests.
//
// The emulator speaks the same wire protocol the selcdn client uses: a GET on
// /auth/ with X-Auth-User and X-Auth-Key answers 204 with a token and the
// storage URL, and /v1/ serves account, container, and object requests that
// carry X-Auth-Token.
//
// # Supported Operations
//
//   - Account: HEAD summary headers, GET listing, PUT ?extract-archive
//   - Container: PUT create, HEAD summary headers, GET listing with path and
//     prefix filters, DELETE when empty, PUT ?extract-archive
//   - Object: PUT with X-Delete-At or X-Delete-After, HEAD, GET, DELETE
//
// Objects whose content type is "application/directory" act as virtual
// folders. Directory members of an extracted archive become such markers.
//
// # Example Usage
//
//	srv := swifttest.NewServer(swifttest.Config{
//	    Users: map[string]string{"user": "secret"},
//	})
//	defer srv.Close()
//
//	srv.CreateContainer("images")
//	session := auth.New("user", "secret", auth.WithAuthURL(srv.AuthURL()))
//
// Every request is journaled; Requests returns the journal so tests can
// assert on method order and headers.
package swifttest
