// Package domain defines the core business entities for portal-login.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Credential: A stored username/password pair
//   - LoginResult: The binary Connected/NotConnected verdict
//   - MirrorOutcome: The raw result of probing one login mirror
//   - LoginReport: The aggregated outcome of a login attempt
//   - PortalSettings: Mirror addresses, timeouts and storage selection
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
