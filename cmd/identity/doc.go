// Package identity owns account records for the gateway: creation (signup
// and admin creation), credential-proof verification inputs, and the
// persistence boundary. The credential core only ever reads identity and
// role from this package; it never mutates accounts.
package identity
