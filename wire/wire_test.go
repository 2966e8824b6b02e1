package wire

import "testing"

func TestPeekTypeAvoidsFullDecode(t *testing.T) {
	data := []byte(`{"type":"servo_control","pan":45,"tilt":60}`)
	if got := PeekType(data); got != KindServoControl {
		t.Errorf("PeekType = %q, want %q", got, KindServoControl)
	}
}

func TestDecodeUnknownTypeStillDecodes(t *testing.T) {
	data := []byte(`{"type":"some_future_message","foo":"bar"}`)
	env, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if IsKnown(env.Type) {
		t.Errorf("IsKnown(%q) = true, want false", env.Type)
	}
}

func TestEncodeDecodeServoControlRoundTrip(t *testing.T) {
	pan, tilt := 45, 60
	in := &Envelope{Type: KindServoControl, Pan: &pan, Tilt: &tilt}
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Type != KindServoControl {
		t.Errorf("Type = %q, want %q", out.Type, KindServoControl)
	}
	if out.Pan == nil || *out.Pan != pan {
		t.Errorf("Pan = %v, want %d", out.Pan, pan)
	}
	if out.Tilt == nil || *out.Tilt != tilt {
		t.Errorf("Tilt = %v, want %d", out.Tilt, tilt)
	}
	if out.Roll != nil {
		t.Errorf("Roll = %v, want nil", out.Roll)
	}
}

func TestDecodeMissingTypeField(t *testing.T) {
	env, err := Decode([]byte(`{"pan":1}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if env.Type != "" {
		t.Errorf("Type = %q, want empty", env.Type)
	}
}
