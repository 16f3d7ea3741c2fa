// Package auth holds the credential primitives of the service: password
// hashing, one-time passcodes, and signed bearer tokens carrying the caller's
// identity.
package auth
