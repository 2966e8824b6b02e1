// Package wire implements the two encodings the broker and its three peer
// roles speak over one duplex transport: JSON text frames carrying a
// closed, tagged-union set of message types, and a binary frame format
// for producer-to-broker video frames (plus a legacy short form kept for
// backward compatibility).
package wire

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
)

// NowSeconds is the server_time/timestamp representation used
// throughout the wire schema: Unix seconds as a float, matching the
// original implementation's time.time().
func NowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// Kind is the closed set of values the "type" field of a text frame may
// take. Anything outside this set is still decodable (Envelope.Type just
// carries the raw string) but is treated as unknown by dispatchers.
type Kind string

const (
	KindHello           Kind = "hello"
	KindWelcome         Kind = "welcome"
	KindConnected       Kind = "connected"
	KindPing            Kind = "ping"
	KindPong            Kind = "pong"
	KindFrame           Kind = "frame"
	KindTelemetry       Kind = "telemetry"
	KindServoControl    Kind = "servo_control"
	KindServoUpdated    Kind = "servo_updated"
	KindControl         Kind = "control"
	KindStatus          Kind = "status"
	KindError           Kind = "error"
	KindRequestStatus   Kind = "request_status"
	KindFrameToProcess  Kind = "frame_to_process"
	KindProcessedFrame  Kind = "processed_frame"
	KindDetectionResult Kind = "detection_result"
)

// knownKinds backs IsKnown; a map lookup is cheaper than a slice scan and
// reads no worse.
var knownKinds = map[Kind]struct{}{
	KindHello: {}, KindWelcome: {}, KindConnected: {}, KindPing: {}, KindPong: {},
	KindFrame: {}, KindTelemetry: {}, KindServoControl: {}, KindServoUpdated: {},
	KindControl: {}, KindStatus: {}, KindError: {}, KindRequestStatus: {},
	KindFrameToProcess: {}, KindProcessedFrame: {}, KindDetectionResult: {},
}

func IsKnown(k Kind) bool {
	_, ok := knownKinds[k]
	return ok
}

// Envelope is the tagged union of every text-frame message the broker
// accepts or produces. Only the fields relevant to Type are populated;
// most of the rest are left at their zero value and omitted on encode.
// A few booleans (pi_connected, wsl_connected, processed, binary_received)
// are part of their message type's fixed schema rather than optional
// data, so they lack `omitempty` and always serialize even when false.
// This mirrors the source's dict-typed messages (spec design note) while
// giving each field a fixed Go type instead of staying a bag of `any`.
type Envelope struct {
	Type Kind `json:"type"`

	// connection handshake
	ClientID              string  `json:"client_id,omitempty"`
	ServerTime            float64 `json:"server_time,omitempty"`
	PiConnected           bool    `json:"pi_connected"`
	WslConnected          bool    `json:"wsl_connected"`
	BinaryFramesSupported bool    `json:"binary_frames_supported,omitempty"`

	// status
	Status  string `json:"status,omitempty"`
	Viewers int    `json:"viewers,omitempty"`

	// frame / detection shared fields
	FrameID        uint32          `json:"frame_id,omitempty"`
	Timestamp      float64         `json:"timestamp,omitempty"`
	Image          string          `json:"image,omitempty"`
	Processed      bool            `json:"processed"`
	BinaryReceived bool            `json:"binary_received"`
	DepthData      string          `json:"depth_data,omitempty"`
	DepthScale     float32         `json:"depth_scale,omitempty"`
	Width          int             `json:"width,omitempty"`
	Height         int             `json:"height,omitempty"`
	CameraInfo     json.RawMessage `json:"camera_info,omitempty"`

	Detections     json.RawMessage `json:"detections,omitempty"`
	ProcessingTime *float64        `json:"processing_time,omitempty"`

	// servo control
	Pan   *int           `json:"pan,omitempty"`
	Tilt  *int           `json:"tilt,omitempty"`
	Roll  *int           `json:"roll,omitempty"`
	State map[string]int `json:"state,omitempty"`

	// producer control forward
	Action string         `json:"action,omitempty"`
	Params map[string]int `json:"params,omitempty"`

	// telemetry is opaque and passed through verbatim (design note: the
	// source broadcasts it without validation; this keeps that).
	Telemetry json.RawMessage `json:"telemetry,omitempty"`

	Error string `json:"error,omitempty"`

	// raw carries the full original payload for types this Envelope
	// doesn't model explicitly, so a catch-all forward never loses data.
	raw json.RawMessage
}

// PeekType reads just the "type" field without a full unmarshal. The
// broker's role handlers do not call it; they always run Decode.
func PeekType(data []byte) Kind {
	return Kind(gjson.GetBytes(data, "type").String())
}

// Decode parses a text frame into an Envelope. A message with no "type"
// field, or one whose type is outside Kind's closed set, still decodes
// successfully — callers check IsKnown(env.Type) and log-and-ignore per
// §4.1 rather than treating it as a decode error.
func Decode(data []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wire: decode: %w", err)
	}
	env.raw = data
	return &env, nil
}

// Encode serializes an Envelope back to a text frame.
func Encode(env *Envelope) ([]byte, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("wire: encode: %w", err)
	}
	return b, nil
}

// Raw returns the original bytes this Envelope was decoded from, or nil
// if it was constructed in-process rather than decoded.
func (e *Envelope) Raw() json.RawMessage { return e.raw }
