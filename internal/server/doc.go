// Package server runs the pairing HTTP endpoint.
//
// Unlike a conventional always-on server, the endpoint's lifetime is bound
// to a pairing session: the session manager starts it when a session opens
// and shuts it down when the session closes, expires, or completes its
// single sync.
package server
