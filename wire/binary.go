package wire

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// modernHeaderLen is frame_id(4) + timestamp(4) + has_color(1) + has_depth(1).
const modernHeaderLen = 10

// legacyHeaderLen is frame_id(4) + timestamp(4), no flag bytes at all.
const legacyHeaderLen = 8

// defaultDepthScale matches the source's default when a frame carries no
// depth_scale field.
const defaultDepthScale = 0.001

// BinaryFrame is the decoded form of a producer binary frame, in either
// the modern (has_color/has_depth) or legacy short-form layout.
type BinaryFrame struct {
	FrameID    uint32
	Timestamp  float32
	HasColor   bool
	Color      []byte
	HasDepth   bool
	Depth      []byte
	DepthScale float32
}

// DecodeBinaryFrame parses a producer binary frame. A message long
// enough to carry the has_color/has_depth flags, whose bytes 8 and 9
// are both 0 or 1, is decoded under the modern layout only; any other
// message (too short for the flags, or a legacy frame whose JPEG starts
// at byte 8 with 0xFF 0xD8) is decoded under the legacy 8-byte-header
// interpretation. Any truncation is a decode error, never a panic — the
// caller drops the frame and keeps the session open.
func DecodeBinaryFrame(data []byte) (*BinaryFrame, error) {
	if len(data) >= modernHeaderLen && data[8] <= 1 && data[9] <= 1 {
		return decodeModernBinaryFrame(data)
	}
	if bf, err := decodeLegacyBinaryFrame(data); err == nil {
		return bf, nil
	}
	return nil, fmt.Errorf("wire: binary frame: %d bytes do not fit either layout", len(data))
}

func decodeModernBinaryFrame(data []byte) (*BinaryFrame, error) {
	if len(data) < modernHeaderLen {
		return nil, fmt.Errorf("wire: modern header truncated")
	}
	bf := &BinaryFrame{
		FrameID:   binary.LittleEndian.Uint32(data[0:4]),
		Timestamp: decodeFloat32(data[4:8]),
		HasColor:  data[8] != 0,
		HasDepth:  data[9] != 0,
	}
	off := modernHeaderLen

	if bf.HasColor {
		if len(data) < off+4 {
			return nil, fmt.Errorf("wire: color_length truncated")
		}
		colorLen := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		if colorLen < 0 || len(data) < off+colorLen {
			return nil, fmt.Errorf("wire: color_bytes truncated")
		}
		bf.Color = data[off : off+colorLen]
		off += colorLen
	}

	if bf.HasDepth {
		if len(data) < off+4 {
			return nil, fmt.Errorf("wire: depth_length truncated")
		}
		depthLen := int(binary.LittleEndian.Uint32(data[off : off+4]))
		off += 4
		if depthLen < 0 || len(data) < off+depthLen {
			return nil, fmt.Errorf("wire: depth_bytes truncated")
		}
		bf.Depth = data[off : off+depthLen]
		off += depthLen

		if len(data) < off+4 {
			return nil, fmt.Errorf("wire: depth_scale truncated")
		}
		bf.DepthScale = decodeFloat32(data[off : off+4])
		off += 4
	}

	return bf, nil
}

// decodeLegacyBinaryFrame parses the 8-byte-header form: frame_id, then
// timestamp, then the remainder is raw color JPEG with no flags at all.
func decodeLegacyBinaryFrame(data []byte) (*BinaryFrame, error) {
	if len(data) < legacyHeaderLen {
		return nil, fmt.Errorf("wire: legacy header truncated")
	}
	return &BinaryFrame{
		FrameID:    binary.LittleEndian.Uint32(data[0:4]),
		Timestamp:  decodeFloat32(data[4:8]),
		HasColor:   true,
		Color:      data[legacyHeaderLen:],
		DepthScale: defaultDepthScale,
	}, nil
}

func decodeFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

// ToFrameEnvelope reshapes a decoded binary frame into the text `frame`
// schema viewers receive: color (and optional depth) payloads become
// base64 text fields and binary_received is set, per §4.1 — viewers are
// never sent binary.
func (bf *BinaryFrame) ToFrameEnvelope(processed bool) *Envelope {
	env := &Envelope{
		Type:           KindFrame,
		FrameID:        bf.FrameID,
		Timestamp:      float64(bf.Timestamp),
		Processed:      processed,
		BinaryReceived: true,
	}
	if bf.HasColor {
		env.Image = base64.StdEncoding.EncodeToString(bf.Color)
	}
	if bf.HasDepth {
		env.DepthData = base64.StdEncoding.EncodeToString(bf.Depth)
		env.DepthScale = bf.DepthScale
	}
	return env
}

// EncodeBinaryFrame produces the modern wire layout for a producer
// sending color (and optional depth) to the broker.
func EncodeBinaryFrame(bf *BinaryFrame) []byte {
	size := modernHeaderLen
	if bf.HasColor {
		size += 4 + len(bf.Color)
	}
	if bf.HasDepth {
		size += 4 + len(bf.Depth) + 4
	}

	buf := make([]byte, size)
	binary.LittleEndian.PutUint32(buf[0:4], bf.FrameID)
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(bf.Timestamp))
	if bf.HasColor {
		buf[8] = 1
	}
	if bf.HasDepth {
		buf[9] = 1
	}
	off := modernHeaderLen

	if bf.HasColor {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(bf.Color)))
		off += 4
		off += copy(buf[off:], bf.Color)
	}
	if bf.HasDepth {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(len(bf.Depth)))
		off += 4
		off += copy(buf[off:], bf.Depth)
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(bf.DepthScale))
		off += 4
	}

	return buf
}
