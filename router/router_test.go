package router

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want Endpoint
	}{
		{"/browser", EndpointViewer},
		{"/browser/room-1", EndpointViewer},
		{"/pi", EndpointProducer},
		{"/pi/stream", EndpointProducer},
		{"/wsl", EndpointWorker},
		{"/", EndpointUnsupported},
		{"", EndpointUnsupported},
		{"/unknown", EndpointUnsupported},
	}
	for _, c := range cases {
		if got := Classify(c.path); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestClassifyFirstMatchWins(t *testing.T) {
	// "/pi" is declared before "/wsl"; a path containing both should
	// classify by declaration order.
	if got := Classify("/pi/wsl"); got != EndpointProducer {
		t.Errorf("Classify(\"/pi/wsl\") = %v, want EndpointProducer", got)
	}
}
