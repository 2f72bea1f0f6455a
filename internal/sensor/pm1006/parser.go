package pm1006

import (
	"bytes"
	"encoding/binary"
)

// Frame layout constants.
const (
	// FrameSize is the fixed length of one PM1006 message.
	FrameSize = 20

	// payloadOffset is where the big-endian PM2.5 value sits in a frame.
	payloadOffset = 5
)

// header is the 3-byte frame signature.
var header = []byte{0x16, 0x11, 0x0B}

// FindFrame scans buf for the first valid frame: a header signature with at
// least FrameSize bytes remaining and a byte-wise sum of zero modulo 256
// over those bytes.
//
// A header byte can legitimately recur inside non-frame data, so a
// candidate that fails any check does not end the search — scanning resumes
// at the next byte. In particular a correct header with a corrupt checksum
// is rejected and skipped, which the original firmware's search condition
// did not reliably do.
//
// Returns the frame offset and true, or 0 and false when no valid frame
// exists in buf.
func FindFrame(buf []byte) (int, bool) {
	for start := 0; ; {
		i := bytes.IndexByte(buf[start:], header[0])
		if i < 0 {
			return 0, false
		}
		offset := start + i
		if len(buf)-offset < FrameSize {
			return 0, false
		}
		if bytes.HasPrefix(buf[offset:], header) && validChecksum(buf[offset:offset+FrameSize]) {
			return offset, true
		}
		start = offset + 1
	}
}

// Decode extracts the PM2.5 concentration (µg/m³) from a frame located by
// FindFrame. The frame must be at least payloadOffset+2 bytes.
func Decode(frame []byte) uint16 {
	return binary.BigEndian.Uint16(frame[payloadOffset : payloadOffset+2])
}

// validChecksum reports whether the byte-wise sum of frame is zero mod 256.
// The last frame byte is chosen by the sensor to make this hold.
func validChecksum(frame []byte) bool {
	var sum uint8
	for _, b := range frame {
		sum += b
	}
	return sum == 0
}
