// Package credential implements the gateway's credential core: signing and
// verification of access/refresh tokens, the refresh-record store contract,
// and the login/refresh/logout lifecycle.
//
// The issuer is pure (inputs + clock only); all persistence goes through the
// Store interface so the lifecycle rules stay testable without a database.
package credential
