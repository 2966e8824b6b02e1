// Package router classifies an incoming connection by its requested
// endpoint path (§4.5).
package router

import "strings"

// Endpoint is the session type a connection is routed to.
type Endpoint int

const (
	EndpointUnsupported Endpoint = iota
	EndpointViewer
	EndpointProducer
	EndpointWorker
)

func (e Endpoint) String() string {
	switch e {
	case EndpointViewer:
		return "viewer"
	case EndpointProducer:
		return "producer"
	case EndpointWorker:
		return "worker"
	default:
		return "unsupported"
	}
}

// rule pairs a path substring with the endpoint it routes to, checked in
// declaration order: the first substring match wins (§4.5).
type rule struct {
	substr   string
	endpoint Endpoint
}

var rules = []rule{
	{"/browser", EndpointViewer},
	{"/pi", EndpointProducer},
	{"/wsl", EndpointWorker},
}

// Classify inspects path and returns the endpoint it routes to, or
// EndpointUnsupported if no rule matches. A missing or malformed path
// defaults to "/", which matches no rule.
func Classify(path string) Endpoint {
	if path == "" {
		path = "/"
	}
	for _, r := range rules {
		if strings.Contains(path, r.substr) {
			return r.endpoint
		}
	}
	return EndpointUnsupported
}
