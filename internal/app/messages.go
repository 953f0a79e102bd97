// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

// Package app contains shared application-layer constants used across the
// sync driver's handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written
// into HTTP response bodies or log entries to describe the outcome of an
// operation. Keeping them in one place ensures consistent wording
// throughout the API, and lets the peer-side adapter match on them when it
// maps a response body back to an error.
package app

const (
	// MsgInvalidJSON is returned when the request body cannot be decoded.
	MsgInvalidJSON = "invalid JSON was passed"

	// MsgTypeParamRequired is returned when an entity endpoint is called
	// without the `type` query parameter.
	MsgTypeParamRequired = "query parameter `type` is required"

	// MsgSinceParamNotInteger is returned when the changes endpoint gets a
	// `since` cursor that does not parse as an integer.
	MsgSinceParamNotInteger = "query parameter `since` must be an integer"

	// MsgTypeKeyParamsRequired is returned when the existence lookup is
	// called without both the `type` and `key` query parameters.
	MsgTypeKeyParamsRequired = "query parameters `type` and `key` are required"

	// MsgEmptyBatch is returned when a batch apply request carries no
	// envelopes. An empty batch is always a sender defect, never a no-op.
	MsgEmptyBatch = "empty batch"

	// MsgInvalidGzipData is returned when a request declares gzip content
	// encoding but the body is not a valid gzip stream.
	MsgInvalidGzipData = "invalid gzip data"
)
