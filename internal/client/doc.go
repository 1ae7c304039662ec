// Package client provides the raw signed HTTP client for the Channels REST API.
// Every request it sends carries the auth_* query parameters produced by
// the pkg/auth signing core.
package client
