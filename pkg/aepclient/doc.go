// Package aepclient provides the primary entry point for constructing an
// Adobe Experience Platform API client that implements the aep.Client
// interface.
//
// It layers configuration, HTTP transport, and IMS authentication on top of
// the resource interfaces and types defined in the aep package. Most
// applications should import aepclient to build a client, then use the
// returned aep.Client to access resource-specific clients, for example
// Schemas(), Classes(), Datasets(), etc.
//
// Quick start
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
//
//	  // From an Adobe Developer Console credentials file:
//	  cli, err := aepclient.NewFromFile(ctx, "~/.config/aep/console.json")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an access token you already have:
//	  cli, err = aepclient.NewWithToken(ctx, "", "eyJhbGciOi...")
//
//	  // Or with explicit client credentials. The access token is requested
//	  // from IMS with the OAuth2 client_credentials grant and refreshed
//	  // before it expires.
//	  cli, err = aepclient.New(ctx, &aep.Config{
//	    ClientID:     "client-id",
//	    ClientSecret: "client-secret",
//	    OrgID:        "0123456789ABCDEF@AdobeOrg",
//	    Scopes:       []string{"openid", "AdobeID", "session"},
//	    Sandbox:      "dev",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  schemas, err := cli.TenantSchemas().List(ctx, aep.NewQueryParams().WithFormat(aep.FormatID))
//	  if err != nil { log.Fatal(err) }
//	  _ = schemas
//	}
//
// # Sandboxes
//
// Requests operate in the sandbox named by Config.Sandbox, sent as the
// x-sandbox-name header on every request. The default is "prod".
//
// # Helpers
//
// The package also provides convenience constructors NewFromFile,
// NewWithToken, and NewWithClientCredentials that wrap New with the
// appropriate configuration.
package aepclient
