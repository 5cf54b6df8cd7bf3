// Package scalelitemock provides an in-memory fake of the Scalelite server
// management API for tests.
//
// The fake verifies the checksum of every request against its configured
// secret, keeps a registry of servers keyed by host name, and records every
// call so tests can assert which remote writes a reconciliation issued.
//
// Usage:
//
//	api := scalelitemock.NewServer(t, "api-secret")
//	api.Seed(scalelitemock.Record{ID: "bbb.example.org", State: "disabled", Secret: "s1"})
//
//	client, _ := scalelite.NewClient(api.URL(), "api-secret")
//
// Fixtures may also be loaded from YAML:
//
//	servers:
//	  - id: bbb.example.org
//	    url: https://bbb.example.org/bigbluebutton/api
//	    secret: s1
//	    state: enabled
//	    load_multiplier: "1.0"
//
// Failures can be injected per endpoint with FailNext.
package scalelitemock
