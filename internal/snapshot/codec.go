// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avetra Systems

// Package snapshot implements the portable snapshot byte format used by the
// bulk transfer method.
//
// A snapshot stream is framed as:
//
//	[4-byte magic "BSNP"] [1-byte format version] [gzip payload] [32-byte SHA-256]
//
// The checksum covers every byte before the trailer (header included). The
// payload itself is opaque to the codec: it is produced by a Dumper and
// consumed by a Restorer collaborator, so the codec never needs schema
// knowledge and never holds more than one chunk of it in memory.
package snapshot

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"
	"os"
)

var magic = []byte("BSNP")

const (
	formatVersion byte = 1

	// headerSize is magic plus the version byte.
	headerSize = 5

	// trailerSize is the SHA-256 checksum appended after the payload.
	trailerSize = sha256.Size

	// copyChunkSize bounds memory per copy iteration so arbitrarily large
	// databases never require unbounded buffers.
	copyChunkSize = 256 * 1024
)

// Detect reports whether prefix begins with the snapshot magic marker,
// i.e. whether a blob is a checksummed/compressed snapshot rather than a
// raw dump.
func Detect(prefix []byte) bool {
	return len(prefix) >= len(magic) && bytes.Equal(prefix[:len(magic)], magic)
}

// Dumper produces the opaque snapshot payload for one database instance.
// Implementations stream; they must not buffer the whole payload.
type Dumper interface {
	// Dump writes the payload to w and returns the number of entities
	// included.
	Dump(ctx context.Context, w io.Writer) (int, error)
}

// Restorer applies an opaque snapshot payload to one database instance as a
// single atomic unit: either every entity in the payload becomes visible or
// none do.
type Restorer interface {
	// Restore reads the payload from r and returns the number of entities
	// applied.
	Restore(ctx context.Context, r io.Reader) (int, error)
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Encoder frames a payload stream into the snapshot format. Write the
// payload through it, then Close to flush compression and append the
// checksum trailer.
type Encoder struct {
	dst    *countingWriter
	hash   hash.Hash
	gz     *gzip.Writer
	closed bool
}

// NewEncoder writes the snapshot header to w and returns an Encoder ready
// to accept payload bytes.
func NewEncoder(w io.Writer) (*Encoder, error) {
	dst := &countingWriter{w: w}
	h := sha256.New()
	hw := io.MultiWriter(dst, h)

	if _, err := hw.Write(magic); err != nil {
		return nil, fmt.Errorf("write snapshot magic: %w", err)
	}
	if _, err := hw.Write([]byte{formatVersion}); err != nil {
		return nil, fmt.Errorf("write snapshot version: %w", err)
	}

	return &Encoder{
		dst:  dst,
		hash: h,
		gz:   gzip.NewWriter(hw),
	}, nil
}

// Write compresses p into the snapshot stream.
func (e *Encoder) Write(p []byte) (int, error) {
	if e.closed {
		return 0, ErrEncoderClosed
	}
	return e.gz.Write(p)
}

// Close flushes the compressor and appends the checksum trailer. The
// encoder cannot be written to afterwards.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.gz.Close(); err != nil {
		return fmt.Errorf("close snapshot compressor: %w", err)
	}
	if _, err := e.dst.Write(e.hash.Sum(nil)); err != nil {
		return fmt.Errorf("write snapshot checksum: %w", err)
	}

	return nil
}

// BytesWritten returns the total size of the framed stream so far, trailer
// included once Close has run.
func (e *Encoder) BytesWritten() int64 {
	return e.dst.n
}

// Decoder verifies and unpacks a snapshot stream. Open spools the incoming
// stream to a temporary file one chunk at a time, verifies the checksum,
// and only then exposes the decompressed payload, so a corrupted snapshot
// is rejected before the consumer applies anything.
type Decoder struct {
	spool *os.File
	gz    *gzip.Reader
	size  int64
}

// Open consumes src entirely, verifies framing and checksum, and returns a
// Decoder streaming the decompressed payload. dir is where the spool file is
// created; empty means the OS temp directory. The spool file is removed on
// Close.
func Open(src io.Reader, dir string) (*Decoder, error) {
	spool, err := os.CreateTemp(dir, "bizsync-snapshot-*.bin")
	if err != nil {
		return nil, fmt.Errorf("create snapshot spool: %w", err)
	}

	d, err := open(src, spool)
	if err != nil {
		spool.Close()
		os.Remove(spool.Name())
		return nil, err
	}
	return d, nil
}

func open(src io.Reader, spool *os.File) (*Decoder, error) {
	size, err := io.CopyBuffer(spool, src, make([]byte, copyChunkSize))
	if err != nil {
		return nil, fmt.Errorf("spool snapshot stream: %w", err)
	}
	if size < headerSize+trailerSize {
		return nil, ErrTruncated
	}

	if _, err = spool.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind snapshot spool: %w", err)
	}

	header := make([]byte, headerSize)
	if _, err = io.ReadFull(spool, header); err != nil {
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}
	if !Detect(header) {
		return nil, ErrBadMagic
	}
	if header[headerSize-1] != formatVersion {
		return nil, fmt.Errorf("%w: got format %d", ErrUnsupportedVersion, header[headerSize-1])
	}

	if err = verifyChecksum(spool, size); err != nil {
		return nil, err
	}

	// reposition at the start of the compressed payload
	if _, err = spool.Seek(headerSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind snapshot payload: %w", err)
	}

	gz, err := gzip.NewReader(io.LimitReader(spool, size-headerSize-trailerSize))
	if err != nil {
		return nil, fmt.Errorf("open snapshot payload: %w", err)
	}

	return &Decoder{spool: spool, gz: gz, size: size}, nil
}

// verifyChecksum hashes everything before the trailer and compares against
// the trailer itself. The file offset is left unspecified on return.
func verifyChecksum(spool *os.File, size int64) error {
	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind for checksum: %w", err)
	}

	h := sha256.New()
	if _, err := io.CopyBuffer(h, io.LimitReader(spool, size-trailerSize), make([]byte, copyChunkSize)); err != nil {
		return fmt.Errorf("hash snapshot stream: %w", err)
	}

	trailer := make([]byte, trailerSize)
	if _, err := io.ReadFull(spool, trailer); err != nil {
		return fmt.Errorf("read snapshot checksum: %w", err)
	}

	if !bytes.Equal(h.Sum(nil), trailer) {
		return ErrChecksumMismatch
	}
	return nil
}

// Read streams the decompressed payload.
func (d *Decoder) Read(p []byte) (int, error) {
	return d.gz.Read(p)
}

// CompressedSize returns the size of the framed stream that was spooled.
func (d *Decoder) CompressedSize() int64 {
	return d.size
}

// Close releases the decompressor and removes the spool file.
func (d *Decoder) Close() error {
	gzErr := d.gz.Close()
	name := d.spool.Name()
	closeErr := d.spool.Close()
	os.Remove(name)

	if gzErr != nil {
		return gzErr
	}
	return closeErr
}
