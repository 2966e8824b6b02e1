// Package broadcast implements parallel fan-out to a set of recipients
// with per-recipient failure isolation (§4.7).
package broadcast

import (
	"log"
	"sync"

	"github.com/n0remac/camrelay/registry"
	"github.com/n0remac/camrelay/wire"
)

// Engine fans a message out to many peers concurrently. A send failure
// to one recipient never prevents delivery to the others and never
// propagates to the caller; a peer whose send fails is detached from
// the Registry.
type Engine struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Engine {
	return &Engine{reg: reg}
}

// Distribute serializes env once and dispatches it concurrently to every
// peer in recipients except exclude, then waits for all sends to finish.
func (e *Engine) Distribute(env *wire.Envelope, recipients []*registry.Peer, exclude *registry.Peer) {
	data, err := wire.Encode(env)
	if err != nil {
		log.Printf("broadcast: encode failed: %v", err)
		return
	}
	e.DistributeBytes(data, recipients, exclude)
}

// DistributeBytes is Distribute for an already-serialized payload, used
// when the same encoded frame is fanned out to many recipients without
// re-marshaling per recipient (SPEC_FULL/§9: cache the encoding once).
func (e *Engine) DistributeBytes(data []byte, recipients []*registry.Peer, exclude *registry.Peer) {
	var wg sync.WaitGroup
	for _, p := range recipients {
		if p == nil || p == exclude {
			continue
		}
		wg.Add(1)
		go func(p *registry.Peer) {
			defer wg.Done()
			if err := p.Send(data); err != nil {
				log.Printf("broadcast: send to %s (%s) failed: %v; detaching", p.ID, p.RemoteAddr, err)
				e.reg.Detach(p)
				return
			}
			p.Touch()
		}(p)
	}
	wg.Wait()
}

// ToViewers fans env out to every currently-attached viewer.
func (e *Engine) ToViewers(env *wire.Envelope, exclude *registry.Peer) {
	e.Distribute(env, e.reg.Viewers(), exclude)
}

// ToViewersBytes is ToViewers for an already-serialized payload, used to
// forward a message opaquely (e.g. telemetry) without round-tripping it
// through Envelope's fixed known-field schema.
func (e *Engine) ToViewersBytes(data []byte, exclude *registry.Peer) {
	e.DistributeBytes(data, e.reg.Viewers(), exclude)
}
