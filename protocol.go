// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import (
	"fmt"

	"code.hybscloud.com/atomix"
	"go.uber.org/zap"
)

// Protocol drives one Machine through the shared control block.
//
// A Protocol is used from one driver goroutine. Dispatch, CopyIn, Stash,
// PostLoadState, Init and Close must not be called concurrently.
type Protocol struct {
	m     Machine
	log   *zap.Logger
	comm  Comm
	hooks Hooks

	engine *engineContext
	resume *engineContext
	active atomix.Uint32
	bound  Request
}

// New creates a protocol for m and initializes it.
func New(m Machine, opts ...Option) *Protocol {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	p := &Protocol{m: m, log: o.logger}
	p.resetHooks()
	m.Attach(&p.hooks)
	p.Init()
	return p
}

// Init zeroes the control block, releases every slot, and replaces the
// engine context with a fresh one. A command suspended in the old context
// is discarded, not resumed. Init returns the control block.
func (p *Protocol) Init() *Comm {
	if p.engine != nil {
		p.log.Debug("tearing down engine context", zap.Uint32("serial", p.engine.serial))
		p.teardown(p.engine)
	}
	p.active.Store(contextDriver)
	p.comm.reset()
	p.resetHooks()
	p.resume = nil
	p.bound = nil
	p.engine = newEngineContext()
	p.log.Debug("engine context ready", zap.Uint32("serial", p.engine.serial))
	return &p.comm
}

// Close tears down the engine context and releases every slot.
func (p *Protocol) Close() {
	p.teardown(p.engine)
	p.engine = nil
	p.resume = nil
	p.bound = nil
	p.comm.reset()
}

// Comm returns the control block.
func (p *Protocol) Comm() *Comm { return &p.comm }

// Serial returns the serial of the current engine context.
func (p *Protocol) Serial() Serial {
	if p.engine == nil {
		return 0
	}
	return p.engine.serial
}

// Dispatch handles one request.
//
// Queries run at once on the calling goroutine. A command switches to the
// engine context and Dispatch returns when the engine breaks or completes.
// Resume continues a suspended engine. Requests that violate the protocol
// are reported to the logger and ignored; the driver learns the outcome
// only from the control block.
func (p *Protocol) Dispatch(req Request) {
	if req == nil {
		p.log.Warn("nil request")
		return
	}
	if p.engine == nil {
		p.log.Warn("dispatch on a closed protocol", zap.Stringer("msg", req.Message()))
		return
	}
	msg := req.Message()
	switch {
	case msg == MsgResume:
		p.dispatchResume()
	case msg.IsQuery():
		p.dispatchQuery(req)
	case msg.IsCommand():
		p.dispatchCommand(req)
	default:
		p.log.Warn("unmapped request", zap.Stringer("msg", msg), zap.String("type", fmt.Sprintf("%T", req)))
	}
}

func (p *Protocol) dispatchResume() {
	if p.comm.Status != StatusSuspended || p.resume == nil {
		p.log.Warn("resume without a suspended engine", zap.Stringer("status", p.comm.Status))
		return
	}
	ec := p.resume
	p.resume = nil
	p.comm.Status = StatusRunning
	p.switchTo(ec)
}

func (p *Protocol) dispatchCommand(req Request) {
	msg := req.Message()
	if p.comm.Status != StatusIdle {
		p.log.Warn("command during non-idle",
			zap.Stringer("msg", msg),
			zap.Stringer("status", p.comm.Status),
			zap.Stringer("reason", p.comm.Reason))
		return
	}
	if !isCommandRequest(req) {
		p.log.Warn("unmapped request", zap.Stringer("msg", msg), zap.String("type", fmt.Sprintf("%T", req)))
		return
	}
	p.comm.Status = StatusRunning
	p.comm.Cmd = msg
	p.comm.Reason = MsgNotSet
	p.bound = req
	p.switchTo(p.engine)
}

// PostLoadState tells the presentation layer that a bulk state load was
// applied. It takes no parameters.
func (p *Protocol) PostLoadState() {
	if sa, ok := p.m.(StateApplier); ok {
		sa.PostLoadState()
	}
}
