// Package transport builds and executes single HTTP round trips against a
// Swift-style object storage API.
//
// A Request is assembled with Build and the chainable Set* methods, then handed
// to Client.Execute, which performs exactly one blocking round trip and returns a
// Response. The Response is constructed from the raw wire form of the reply
// (status line, header block and body) and decodes the body according to the
// Decoding chosen when the request was built.
//
// # Example Usage
//
//	client := transport.NewClient(transport.WithTimeout(30 * time.Second))
//
//	req := transport.Build(storageURL+"photos/", []transport.Param{{Key: "path", Value: "2024"}}, transport.DecodeJSON).
//		SetHeader("X-Auth-Token", token)
//
//	resp, err := client.Execute(ctx, req)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(resp.Code(), resp.Content())
package transport
