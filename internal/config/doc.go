// Package config loads the configuration of a scalectl run.
//
// A run is described by the API settings and the desired state of exactly one
// server. Values come from three places, later ones winning:
//
//  1. the environment (SCALECTL_API_URL, SCALECTL_API_SECRET)
//  2. the desired-state file given with --file
//  3. command-line flags
//
// # Desired-State File
//
// The file is YAML. It is rendered as a Go template with the sprig function
// set before decoding, so secrets can be kept out of it:
//
//	api:
//	  url: https://scalelite.example.org/scalelite/api
//	  secret: {{ env "SCALELITE_SECRET" }}
//	  timeout: 10s
//	server:
//	  url: https://bbb1.example.org/bigbluebutton/api
//	  state: enabled
//	  secret: {{ env "BBB1_SECRET" | quote }}
//	  loadMultiplier: 2
//
// Unknown keys are rejected.
//
// # Errors
//
// Every problem found here is reported as a ConfigurationError, or a
// ConfigurationErrorCollection when validation finds several, and is raised
// before the API is contacted.
package config
