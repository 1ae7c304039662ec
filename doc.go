// Package channels is the server SDK for the [Channels] publish/subscribe service.
//
// The SDK lets a backend publish events to channels, authorize clients to
// subscribe to private, presence and encrypted channels, and query channel
// occupancy. Every call to the HTTP API is signed with the application
// secret; the signing itself lives in [go.pushkit.dev/channels-sdk/pkg/auth]
// and can be used on its own.
//
// # Overview of Packages
//
//   - channels - The main SDK package, constructs the clients from options
//   - rest - The client for the REST API, auth endpoint and webhook handlers
//   - pkg/auth - Request signing, channel authorization and webhook verification
//
// [Channels]: https://pusher.com/channels
package channels
