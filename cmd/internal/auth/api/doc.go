// Package authapi exposes the HTTP surface for account signup, login,
// logout and access-token refresh. Handlers translate between the wire
// shapes the web client expects and the identity/credential services.
package authapi
