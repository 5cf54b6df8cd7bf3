// Package signer computes the per-request checksum the Scalelite API uses to
// authenticate calls.
//
// The checksum is the hex encoded SHA-1 of the endpoint name, the raw query
// string and the shared API secret, concatenated in that order. It is added
// to the request URL as the "checksum" query parameter.
package signer

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// ChecksumParam is the query parameter carrying the request checksum.
const ChecksumParam = "checksum"

// Checksum returns the hex SHA-1 digest of endpoint+query+secret.
func Checksum(endpoint, query, secret string) string {
	sum := sha1.Sum([]byte(endpoint + query + secret))
	return hex.EncodeToString(sum[:])
}

// Sign appends the checksum parameter to rawURL.
//
// The endpoint is the last segment of the escaped URL path and the query is
// its raw query string. The URL text is otherwise left untouched so the checksum is
// computed over exactly what the server receives.
func Sign(rawURL, secret string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse url for signing: %w", err)
	}

	checksum := Checksum(Endpoint(u.EscapedPath()), u.RawQuery, secret)

	if u.RawQuery != "" {
		return rawURL + "&" + ChecksumParam + "=" + checksum, nil
	}
	return rawURL + "?" + ChecksumParam + "=" + checksum, nil
}

// Endpoint returns the last segment of a URL path, e.g. "getServers" for
// "/scalelite/api/getServers". A trailing slash yields an empty endpoint.
func Endpoint(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
