// Package aep provides types, interfaces, and helpers for working with the
// Adobe Experience Platform Schema Registry and Catalog APIs.
//
// # Overview
//
// The aep package defines the domain types (Schema, Class, FieldGroup,
// DataType, Behavior, Dataset, Batch) and the interfaces for
// resource-oriented clients (SchemasClient, ClassesClient, and so on). A
// concrete implementation of these clients is provided by the aepclient
// package, which wires configuration, transport, and IMS authentication.
// Most consumers should import aepclient to construct a client and then
// interact with the resource client interfaces exposed here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/aepio/aep-client/pkg/aep"
//	  "github.com/aepio/aep-client/pkg/aepclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := aepclient.NewFromFile(ctx, "~/.config/aep/auth.json")
//	  if err != nil { log.Fatal(err) }
//
//	  schema, err := cli.Schemas().Find(ctx, aep.NewQueryParams().WithTitle("Profile"))
//	  if err != nil { log.Fatal(err) }
//	  _ = schema
//	}
//
// # References
//
// Registry resources are addressed by their $id URI
// (https://ns.adobe.com/<tenant>/schemas/<uuid>) or the equivalent meta:altId
// (_<tenant>.schemas.<uuid>). Every client accepts either form; ParseRef
// resolves both, including the well-known platform globals.
//
// # Queries and pagination
//
// Use QueryParams to express list options (property filters, orderby, start,
// limit). Listings follow the registry's _page.next token automatically;
// PaginationIterator exposes the same traversal one item at a time.
//
// # Errors
//
// API errors are represented by APIError. Helpers such as IsNotFound,
// IsUnauthorized, and IsForbidden make it easy to branch on common cases.
// Find returns ErrNoMatch when nothing matches and ErrAmbiguousMatch when
// more than one resource does.
//
// # Interceptors and caching
//
// The package includes request/response interceptors (logging, sandbox
// pinning, metrics, rate limiting, circuit breaking) and a pluggable Cache
// abstraction used to cache reads of the immutable global container.
package aep
