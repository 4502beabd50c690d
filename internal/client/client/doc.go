// Package client talks to the remote document backend.
//
// # Overview
//
// Client is the transport-agnostic contract used by the services package;
// HTTPClient implements it over the backend's JSON REST API
// ({base}/api/v1/users..., {base}/api/v1/documents...). Once a token is set
// with SetToken it is sent as a bearer token on every request.
//
// # Error Handling
//
// Every endpoint answers with an envelope {success, message, data}. A non-2xx
// status or success:false becomes an *APIError carrying the server's message
// (or a per-operation default). 401 and 403 responses also match
// ErrUnauthorized with errors.Is. Transport failures (DNS, refused
// connections, timeouts) match ErrUnavailable. No call is retried.
package client
