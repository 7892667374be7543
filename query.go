// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import (
	"fmt"

	"go.uber.org/zap"
)

// dispatchQuery answers a query on the driver goroutine. Queries never
// switch context and never touch Status or Reason.
func (p *Protocol) dispatchQuery(req Request) {
	switch q := req.(type) {
	case GetMemorySize:
		p.comm.Value = p.m.MemorySize(q.ID)

	case Peek:
		v, ok := p.m.Peek(q.ID, q.Addr)
		if !ok {
			p.rejectQuery(req, "no such memory")
			return
		}
		p.comm.Value = uint32(v)

	case Poke:
		if !p.m.Poke(q.ID, q.Addr, q.Value) {
			p.rejectQuery(req, "no such memory")
		}

	case SerializeSize:
		data, err := p.m.Serialize()
		if err != nil {
			p.log.Warn("serialize failed", zap.Error(err))
			p.comm.Value = 0
			return
		}
		p.comm.Value = uint32(len(data))

	case SetColorLUT:
		p.rejectQuery(req, "not implemented")

	case GetMemoryIDName:
		p.comm.Str = p.m.MemoryIDName(q.ID)

	case StateHook:
		if !q.Kind.valid() {
			p.rejectQuery(req, "hook kind out of range")
			return
		}
		p.setHook(q.Kind, q.Enable)

	case EnableTrace:
		p.hooks.Trace = nil
		if q.Enable {
			p.hooks.Trace = p.sigTrace
		}

	case EnableScanline:
		p.hooks.Scanline = nil
		if q.Enable {
			p.hooks.Scanline = p.sigScanline
		}

	case EnableAudio:
		p.hooks.AudioFlush = nil
		if q.Enable {
			p.hooks.AudioFlush = p.sigAudioFlush
		}

	case SetLayerEnable:
		p.comm.Layers = q.Layers
		if d, ok := p.m.(Display); ok {
			d.SetLayerEnables(q.Layers)
		}

	case SetBackdropColor:
		if d, ok := p.m.(Display); ok {
			d.SetBackdropColor(q.Color)
		}

	case PeekLogicalRegister:
		p.comm.Value = p.m.LogicalRegister(q.ID)

	case PeekCPURegs:
		p.comm.CPURegs = p.m.CPURegs()

	case SetCDL:
		p.comm.CDL = q.Blocks
		if l, ok := p.m.(CodeDataLogger); ok {
			l.SetCDL(q.Blocks)
		}

	default:
		p.log.Warn("unmapped request", zap.Stringer("msg", req.Message()), zap.String("type", fmt.Sprintf("%T", req)))
	}
}

func (p *Protocol) rejectQuery(req Request, why string) {
	p.log.Warn("query rejected", zap.Stringer("msg", req.Message()), zap.String("why", why))
}
