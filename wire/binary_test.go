package wire

import (
	"bytes"
	"testing"
)

func TestEncodeDecodeBinaryFrameRoundTrip(t *testing.T) {
	in := &BinaryFrame{
		FrameID:    42,
		Timestamp:  1.5,
		HasColor:   true,
		Color:      []byte{0xFF, 0xD8, 0xFF, 0x01, 0x02},
		HasDepth:   true,
		Depth:      []byte{0x01, 0x02, 0x03, 0x04},
		DepthScale: 0.001,
	}
	encoded := EncodeBinaryFrame(in)

	out, err := DecodeBinaryFrame(encoded)
	if err != nil {
		t.Fatalf("DecodeBinaryFrame: %v", err)
	}
	if out.FrameID != in.FrameID {
		t.Errorf("FrameID = %d, want %d", out.FrameID, in.FrameID)
	}
	if out.Timestamp != in.Timestamp {
		t.Errorf("Timestamp = %v, want %v", out.Timestamp, in.Timestamp)
	}
	if !bytes.Equal(out.Color, in.Color) {
		t.Errorf("Color = %v, want %v", out.Color, in.Color)
	}
	if !bytes.Equal(out.Depth, in.Depth) {
		t.Errorf("Depth = %v, want %v", out.Depth, in.Depth)
	}
	if out.DepthScale != in.DepthScale {
		t.Errorf("DepthScale = %v, want %v", out.DepthScale, in.DepthScale)
	}
}

func TestDecodeBinaryFrameColorOnly(t *testing.T) {
	in := &BinaryFrame{FrameID: 7, Timestamp: 0.25, HasColor: true, Color: []byte("jpegbytes")}
	out, err := DecodeBinaryFrame(EncodeBinaryFrame(in))
	if err != nil {
		t.Fatalf("DecodeBinaryFrame: %v", err)
	}
	if out.HasDepth {
		t.Errorf("HasDepth = true, want false")
	}
	if !bytes.Equal(out.Color, in.Color) {
		t.Errorf("Color mismatch")
	}
}

func TestDecodeLegacyShortFormFrame(t *testing.T) {
	// 8-byte header: frame_id u32 LE + timestamp f32 LE, remainder is raw JPEG.
	legacy := []byte{
		0x2A, 0x00, 0x00, 0x00, // frame_id = 42
		0x00, 0x00, 0xC0, 0x3F, // timestamp = 1.5 (IEEE754 LE)
		0xFF, 0xD8, 0xFF, 0xAA, 0xBB,
	}
	bf, err := DecodeBinaryFrame(legacy)
	if err != nil {
		t.Fatalf("DecodeBinaryFrame legacy: %v", err)
	}
	if bf.FrameID != 42 {
		t.Errorf("FrameID = %d, want 42", bf.FrameID)
	}
	if bf.Timestamp != 1.5 {
		t.Errorf("Timestamp = %v, want 1.5", bf.Timestamp)
	}
	if !bf.HasColor {
		t.Errorf("HasColor = false, want true")
	}
	want := []byte{0xFF, 0xD8, 0xFF, 0xAA, 0xBB}
	if !bytes.Equal(bf.Color, want) {
		t.Errorf("Color = %v, want %v", bf.Color, want)
	}
	if bf.DepthScale != defaultDepthScale {
		t.Errorf("DepthScale = %v, want default %v", bf.DepthScale, defaultDepthScale)
	}
}

func TestDecodeBinaryFrameTruncatedColorLength(t *testing.T) {
	// Modern header declares has_color=1 with a color_length that exceeds
	// the remaining bytes. Its flag bytes are valid, so DecodeBinaryFrame
	// does not fall back to the legacy layout for it (that would misread
	// the length as JPEG bytes); this case checks the modern path rejects
	// it.
	data := []byte{
		0x01, 0x00, 0x00, 0x00, // frame_id
		0x00, 0x00, 0x00, 0x00, // timestamp
		0x01, 0x00, // has_color=1, has_depth=0
		0xFF, 0xFF, 0xFF, 0x7F, // color_length = huge
		0x01, 0x02, // far too few bytes to satisfy it
	}
	_, err := decodeModernBinaryFrame(data)
	if err == nil {
		t.Fatalf("decodeModernBinaryFrame: expected truncation error, got none")
	}
}

func TestDecodeBinaryFrameTooShortForEitherLayout(t *testing.T) {
	_, err := DecodeBinaryFrame([]byte{0x01, 0x02, 0x03})
	if err == nil {
		t.Fatalf("DecodeBinaryFrame: expected error for undersized message")
	}
}

// TestToFrameEnvelopeAlwaysSerializesProcessedAndBinaryReceived pins the
// exact wire shape of the happy-path frame relay scenario: processed
// and binary_received must always appear, even when processed is false,
// since they're part of the frame schema's fixed fields, not optional
// ones omitempty can drop.
func TestToFrameEnvelopeAlwaysSerializesProcessedAndBinaryReceived(t *testing.T) {
	bf := &BinaryFrame{FrameID: 42, Timestamp: 1.5, HasColor: true, Color: []byte{0xFF, 0xD8, 0xFF}}
	env := bf.ToFrameEnvelope(false)

	b, err := Encode(env)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got := string(b)
	if !bytes.Contains(b, []byte(`"processed":false`)) {
		t.Errorf("encoded envelope %s missing explicit processed:false", got)
	}
	if !bytes.Contains(b, []byte(`"binary_received":true`)) {
		t.Errorf("encoded envelope %s missing explicit binary_received:true", got)
	}
}
