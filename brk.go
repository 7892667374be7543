// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import (
	"runtime"

	"go.uber.org/zap"
)

// engineMain runs commands on the engine context forever: it waits for
// control, runs the bound command to completion, marks the protocol idle
// and hands control back. It ends only on transferExit.
func (p *Protocol) engineMain(ec *engineContext) {
	defer func() {
		p.active.Store(contextDriver)
		ec.engine.send(transferExited)
	}()

	t := ec.engine.receive()
	for t == transferRun {
		p.runBound()

		p.resume = nil
		p.comm.Status = StatusIdle
		p.comm.Reason = MsgBrkComplete

		p.active.Store(contextDriver)
		t = ec.engine.exchange(transferYield)
	}
}

// runBound runs the command bound by the dispatcher.
func (p *Protocol) runBound() {
	req := p.bound
	p.bound = nil
	commandTable[req.Message()-MsgCmdFirst-1](p, req)
}

// suspend breaks out of the running command with reason and hands control
// to the driver. It returns when the driver resumes; the command then
// continues from the point of the call with its stack intact.
func (p *Protocol) suspend(reason Message) {
	if !p.inEngine() {
		p.log.Warn("break outside the engine context", zap.Stringer("reason", reason))
		return
	}
	ec := p.engine

	p.comm.Status = StatusSuspended
	p.comm.Reason = reason
	p.resume = ec

	p.active.Store(contextDriver)
	if ec.engine.exchange(transferYield) == transferExit {
		runtime.Goexit()
	}
	p.comm.Status = StatusRunning
}
