// Package client talks to the socialhub identity server on behalf of the CLI.
//
// GRPCClient wraps the identity API, keeps the access/refresh pair in the
// local state database, attaches the access token to every call and rotates
// the pair once when the server reports an expired access token.
//
// Failures are returned as *RemoteError (carrying the server message and any
// per-field validation messages) or as the sentinels ErrUnavailable,
// ErrUnauthorized and ErrNotLoggedIn.
package client
