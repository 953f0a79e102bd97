package adapter

import "errors"

var (
	// ErrRemoteUnavailable is returned when the remote instance cannot be
	// reached or answers with a server-side failure.
	ErrRemoteUnavailable = errors.New("remote instance unavailable")

	// ErrRemoteRejected is returned when the remote instance refuses a
	// request as invalid (4xx). The sync cannot proceed by retrying.
	ErrRemoteRejected = errors.New("remote instance rejected request")

	// ErrMissingDependency mirrors the destination-side dependency check:
	// the remote refused a record whose referenced parent it does not have.
	ErrMissingDependency = errors.New("remote reported missing dependency")
)
