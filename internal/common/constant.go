// Package common contains constants, sentinel errors and the typed service
// error shared by the socialhub server and client. Callers should use
// errors.Is / errors.As to match these values.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"
