// Package scalelite implements a client for the Scalelite server management
// API.
//
// Scalelite balances meetings across a pool of BigBlueButton servers. Its
// management API exposes one endpoint per operation:
//
//   - getServers (GET): list every registered server
//   - addServer (POST): register a new server
//   - updateServer (POST): change state, secret or load multiplier
//   - deleteServer (POST): remove a server
//   - panicServer (POST): end all meetings on a server and disable it
//
// Every request is authenticated with a checksum query parameter computed by
// the signer package. A 404 from getServers means no servers are registered;
// any other non-2xx status is returned as an *APIError carrying the status
// code and body verbatim. The client never retries.
//
// # Usage
//
//	c, err := scalelite.NewClient("https://lb.example.org/scalelite/api", secret)
//	if err != nil {
//	    return err
//	}
//	servers, err := c.ListServers(ctx)
package scalelite
