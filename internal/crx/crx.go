// Package crx decodes CRX2/CRX3 extension containers into their
// embedded ZIP archives.
package crx

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// magic is the 4-byte signature at the start of every CRX container.
	magic = "Cr24"

	// Fixed header sizes up to and including the length fields.
	// CRX2: magic(4) + version(4) + pubKeyLen(4) + sigLen(4)
	// CRX3: magic(4) + version(4) + headerLen(4)
	crx2PreambleLen = 16
	crx3PreambleLen = 12

	// MaxNestingDepth bounds recursive unwrapping of containers whose
	// payload is itself a CRX container (seen with some Opera-store
	// packages). A chain deeper than this fails with ErrNestingTooDeep.
	MaxNestingDepth = 5
)

// ZIP signatures recognized as a valid payload: a local file header,
// or the end-of-central-directory record of a zero-entry archive.
var (
	zipLocalFileSig    = []byte("PK\x03\x04")
	zipEmptyArchiveSig = []byte("PK\x05\x06")
)

// Classified decode failures. Every failure out of Decode wraps exactly
// one of these, so callers dispatch with errors.Is.
var (
	ErrTooShort            = errors.New("crx: input too short")
	ErrBadMagic            = errors.New("crx: bad magic")
	ErrUnsupportedVersion  = errors.New("crx: unsupported format version")
	ErrTruncated           = errors.New("crx: truncated container")
	ErrNestingTooDeep      = errors.New("crx: container nesting too deep")
	ErrUnrecognizedPayload = errors.New("crx: unrecognized payload")
)

// Metadata describes a successful decode.
type Metadata struct {
	// FormatVersion is the container version (2 or 3) of the innermost
	// container, the one whose payload was the archive. Zero when the
	// input was already an archive (ToZip passthrough).
	FormatVersion uint32

	// NestingDepth is the number of unwraps performed beyond the
	// outermost container. A plain, non-nested container decodes with
	// depth 0.
	NestingDepth int

	// PayloadLength is the byte length of the extracted archive.
	PayloadLength int
}

// IsArchive reports whether data begins with a ZIP signature.
func IsArchive(data []byte) bool {
	return bytes.HasPrefix(data, zipLocalFileSig) || bytes.HasPrefix(data, zipEmptyArchiveSig)
}

// Decode extracts the embedded ZIP archive from a CRX2 or CRX3
// container. It is a pure function over the input bytes: no I/O, no
// shared state, safe for concurrent callers. The returned slice is a
// copy and does not alias raw.
//
// The CRX2 signature block and the CRX3 header block are consumed only
// to compute the payload offset; no cryptographic verification is
// performed. Callers that need authenticity must verify separately.
func Decode(raw []byte) ([]byte, Metadata, error) {
	for depth := 0; ; depth++ {
		if depth >= MaxNestingDepth {
			return nil, Metadata{}, fmt.Errorf("%w: more than %d nested containers", ErrNestingTooDeep, MaxNestingDepth)
		}

		payload, version, err := unwrap(raw)
		if err != nil {
			return nil, Metadata{}, err
		}

		if IsArchive(payload) {
			out := append([]byte(nil), payload...)
			return out, Metadata{
				FormatVersion: version,
				NestingDepth:  depth,
				PayloadLength: len(out),
			}, nil
		}

		// Nested container: unwrap again with the payload as input.
		if bytes.HasPrefix(payload, []byte(magic)) {
			raw = payload
			continue
		}

		head := payload
		if len(head) > 4 {
			head = head[:4]
		}
		return nil, Metadata{}, fmt.Errorf("%w: payload starts with % x", ErrUnrecognizedPayload, head)
	}
}

// ToZip converts CRX bytes to ZIP bytes, passing input that is already
// a ZIP archive through unchanged (as a copy). This mirrors what the
// web store occasionally serves: a bare archive with no CRX framing.
func ToZip(raw []byte) ([]byte, Metadata, error) {
	if IsArchive(raw) {
		out := append([]byte(nil), raw...)
		return out, Metadata{PayloadLength: len(out)}, nil
	}
	return Decode(raw)
}

// unwrap parses a single container header and returns the candidate
// payload view into raw along with the format version.
func unwrap(raw []byte) ([]byte, uint32, error) {
	if len(raw) < 4 {
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrTooShort, len(raw))
	}
	if !bytes.HasPrefix(raw, []byte(magic)) {
		return nil, 0, fmt.Errorf("%w: got % x, want %q", ErrBadMagic, raw[:4], magic)
	}
	if len(raw) < 8 {
		return nil, 0, fmt.Errorf("%w: %d bytes, no version field", ErrTooShort, len(raw))
	}

	version := binary.LittleEndian.Uint32(raw[4:8])

	// uint64 arithmetic so declared lengths near 2^32 cannot wrap.
	var offset uint64
	switch version {
	case 2:
		if len(raw) < crx2PreambleLen {
			return nil, 0, fmt.Errorf("%w: %d bytes, CRX2 preamble needs %d", ErrTooShort, len(raw), crx2PreambleLen)
		}
		pubKeyLen := binary.LittleEndian.Uint32(raw[8:12])
		sigLen := binary.LittleEndian.Uint32(raw[12:16])
		offset = crx2PreambleLen + uint64(pubKeyLen) + uint64(sigLen)
	case 3:
		if len(raw) < crx3PreambleLen {
			return nil, 0, fmt.Errorf("%w: %d bytes, CRX3 preamble needs %d", ErrTooShort, len(raw), crx3PreambleLen)
		}
		headerLen := binary.LittleEndian.Uint32(raw[8:12])
		offset = crx3PreambleLen + uint64(headerLen)
	default:
		return nil, 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	if offset > uint64(len(raw)) {
		return nil, 0, fmt.Errorf("%w: header ends at byte %d, input is %d bytes", ErrTruncated, offset, len(raw))
	}

	return raw[offset:], version, nil
}
