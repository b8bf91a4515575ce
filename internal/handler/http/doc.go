// Package http implements the HTTP transport layer of the pairing endpoint.
// It provides middleware, route handlers, and request/response utilities
// for the three routes a remote device talks to during a sync: discovery,
// pairing, and payload upload. Authentication, logging, tracing, and
// compression concerns are all handled at this layer before requests are
// forwarded to the service layer.
package http
