// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// rendezvousCapacity bounds each handoff queue. At most one token is ever
// in flight per direction, because a context only signals when it stops
// running and only the stopped side can be signalled.
const rendezvousCapacity = 2

// Context ids stored in Protocol.active.
const (
	contextDriver uint32 = iota
	contextEngine
)

// Serial identifies one engine context. Each context created by Init gets
// the next value, so a driver can tell a reset engine from a resumed one.
type Serial = uint32

var serials atomix.Uint32

// link is one side's view of the handoff: it signals on out and awaits
// on in.
type link struct {
	out *lfq.SPSC[transfer]
	in  *lfq.SPSC[transfer]
}

// engineContext is the engine side of the protocol: a goroutine with its
// own stack, parked at a handoff point whenever the driver runs.
type engineContext struct {
	serial Serial

	driver link
	engine link

	toEngine lfq.SPSC[transfer]
	toDriver lfq.SPSC[transfer]

	started bool
	exited  bool
}

// newEngineContext creates a context in a single allocation. The goroutine
// starts on the first switch.
func newEngineContext() *engineContext {
	ec := &engineContext{serial: serials.Add(1)}
	ec.toEngine.Init(rendezvousCapacity)
	ec.toDriver.Init(rendezvousCapacity)
	ec.driver = link{out: &ec.toEngine, in: &ec.toDriver}
	ec.engine = link{out: &ec.toDriver, in: &ec.toEngine}
	return ec
}

// switchTo hands control from the driver to ec and returns when ec hands it
// back. The driver goroutine does nothing else in between.
func (p *Protocol) switchTo(ec *engineContext) {
	if !ec.started {
		ec.started = true
		go p.engineMain(ec)
	}
	p.active.Store(contextEngine)
	ec.driver.exchange(transferRun)
}

// teardown terminates ec wherever it is parked. A suspended command is
// discarded: the goroutine unwinds its stack instead of resuming.
func (p *Protocol) teardown(ec *engineContext) {
	if ec == nil || !ec.started || ec.exited {
		return
	}
	p.active.Store(contextEngine)
	ec.driver.exchange(transferExit)
	ec.exited = true
}

// inEngine reports whether the engine context holds control.
func (p *Protocol) inEngine() bool {
	return p.active.Load() == contextEngine
}
