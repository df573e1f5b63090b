// Package errors defines domain-level errors used throughout the application.
// These errors represent failures while talking to remote MCP servers and are
// mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrConfigInvalid indicates a malformed server list entry in configuration.
	// Malformed entries are skipped during load, other entries continue.
	ErrConfigInvalid = errors.New("invalid configuration entry")

	// ErrServerNotFound indicates that the requested MCP server does not exist or is not configured.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotFound = errors.New("server not found")

	// ErrToolNotFound indicates that the named tool does not exist in the current catalog.
	// Recommended to map to HTTP 404 Not Found.
	ErrToolNotFound = errors.New("tool not found")

	// ErrConnectionFailed indicates that connecting to or initializing a session
	// with an MCP server failed or timed out. The server's tools are simply
	// absent from the catalog for that load cycle.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrConnectionFailed = errors.New("connection to server failed")

	// ErrProtocol indicates that a call succeeded at the transport level but
	// returned malformed or unusable data.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrProtocol = errors.New("protocol error")

	// ErrSessionClosed indicates that a cached session was detected dead mid-call.
	// This is transient and triggers the single eviction+retry in the invoker.
	ErrSessionClosed = errors.New("session closed")

	// ErrToolListFailed indicates that listing tools from an MCP server failed.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrToolListFailed = errors.New("tool list failed")

	// ErrToolCallFailed indicates that calling a tool on an MCP server failed for
	// a reason other than a closed session (bad arguments, remote-side error).
	// Surfaced without retry.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrToolCallFailed = errors.New("tool call failed")

	// ErrHealthNotTracked indicates that health monitoring is not enabled for the specified server.
	// Recommended to map to HTTP 404 Not Found.
	ErrHealthNotTracked = errors.New("server health is not being tracked")
)
