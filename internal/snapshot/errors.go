package snapshot

import "errors"

var (
	// ErrBadMagic is returned when a stream does not start with the
	// snapshot magic marker.
	ErrBadMagic = errors.New("not a snapshot stream")

	// ErrUnsupportedVersion is returned when the stream's format version
	// is newer than this codec understands.
	ErrUnsupportedVersion = errors.New("unsupported snapshot format version")

	// ErrChecksumMismatch is returned when the stream's trailing SHA-256
	// does not match its contents. Nothing from such a stream may be applied.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

	// ErrTruncated is returned when the stream ends before a complete
	// header and trailer could be read.
	ErrTruncated = errors.New("snapshot stream truncated")

	// ErrEncoderClosed is returned on writes after Close.
	ErrEncoderClosed = errors.New("snapshot encoder already closed")
)
