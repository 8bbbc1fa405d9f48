// Package confluence is a minimal client for the Confluence content REST API.
//
// Only the two calls needed to push a new version of an existing page are
// implemented:
//
//	GET /rest/api/content/{id}?expand=version,space
//	PUT /rest/api/content/{id}
//
// Authentication is HTTP Basic. Non-2xx responses are returned as *APIError,
// which keeps the raw body and, when the body is a Confluence JSON error,
// the server's statusCode and message.
package confluence
