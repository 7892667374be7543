// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import (
	"encoding/binary"
	"strconv"
)

// Domain is an independent instruction stream of the machine.
type Domain uint8

const (
	// DomainCPU is the main processor.
	DomainCPU Domain = iota
	// DomainSMP is the sound processor.
	DomainSMP

	domainCount
)

// HookKind selects one debug hook. The order matches the state_hook query
// ids and the BRK_hook break reasons.
type HookKind uint8

const (
	HookExec HookKind = iota
	HookRead
	HookWrite
	HookNMI
	HookIRQ
	HookExecSMP
	HookReadSMP
	HookWriteSMP

	hookKindCount
)

func (k HookKind) valid() bool { return k < hookKindCount }

// Reason returns the break reason raised by the hook.
func (k HookKind) Reason() Message { return MsgBrkHookExec + Message(k) }

func (k HookKind) String() string {
	if !k.valid() {
		return "HookKind(" + strconv.Itoa(int(k)) + ")"
	}
	return k.Reason().String()
}

// Hooks is the set of callbacks a Machine invokes while a command runs.
//
// A nil field means the hook is off and the machine must skip the call.
// Fields only change while the engine context is not running, so a machine
// may read them without synchronization. Every callback runs on the engine
// context and may suspend it; the call returns once the driver resumes.
type Hooks struct {
	Exec  [domainCount]func(addr uint32)
	Read  [domainCount]func(addr uint32)
	Write [domainCount]func(addr uint32, value uint8)
	NMI   func()
	IRQ   func()

	Scanline func(line int32)
	Trace    func(text string)

	VideoRefresh func(frame []byte, width, height int32)
	AudioFlush   func(samples []int16)
	InputPoll    func()
	InputState   func(port int32, device Device, index, id int32) int16
}

// setHook installs or removes the debug hook of kind k.
func (p *Protocol) setHook(k HookKind, enable bool) {
	h := &p.hooks
	switch k {
	case HookExec, HookExecSMP:
		d := domainOf(k)
		h.Exec[d] = nil
		if enable {
			reason := k.Reason()
			h.Exec[d] = func(addr uint32) {
				p.comm.Hook = HookParams{Addr: addr}
				p.suspend(reason)
			}
		}
	case HookRead, HookReadSMP:
		d := domainOf(k)
		h.Read[d] = nil
		if enable {
			reason := k.Reason()
			h.Read[d] = func(addr uint32) {
				p.comm.Hook = HookParams{Addr: addr}
				p.suspend(reason)
			}
		}
	case HookWrite, HookWriteSMP:
		d := domainOf(k)
		h.Write[d] = nil
		if enable {
			reason := k.Reason()
			h.Write[d] = func(addr uint32, value uint8) {
				p.comm.Hook = HookParams{Addr: addr, Value: value}
				p.suspend(reason)
			}
		}
	case HookNMI:
		h.NMI = nil
		if enable {
			h.NMI = p.hookNMI
		}
	case HookIRQ:
		h.IRQ = nil
		if enable {
			h.IRQ = p.hookIRQ
		}
	}
}

func domainOf(k HookKind) Domain {
	if k >= HookExecSMP {
		return DomainSMP
	}
	return DomainCPU
}

func (p *Protocol) hookNMI() { p.suspend(MsgBrkHookNMI) }

func (p *Protocol) hookIRQ() { p.suspend(MsgBrkHookIRQ) }

func (p *Protocol) sigScanline(line int32) {
	p.comm.Scanline = line
	p.suspend(MsgBrkScanlineStart)
}

func (p *Protocol) sigTrace(text string) {
	p.comm.Trace = text
	p.suspend(MsgSigTraceCallback)
}

func (p *Protocol) sigVideoRefresh(frame []byte, width, height int32) {
	p.comm.Video = VideoParams{Width: width, Height: height}
	p.comm.Buf[0].copyIn(frame)
	p.suspend(MsgSigVideoRefresh)
}

func (p *Protocol) sigAudioFlush(samples []int16) {
	buf := make([]byte, 0, 2*len(samples))
	for _, s := range samples {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
	}
	p.comm.Buf[0].adopt(buf)
	p.suspend(MsgSigAudioFlush)
}

func (p *Protocol) sigInputPoll() { p.suspend(MsgSigInputPoll) }

func (p *Protocol) sigInputState(port int32, device Device, index, id int32) int16 {
	p.comm.Input = InputParams{Port: port, Device: device, Index: index, ID: id}
	p.suspend(MsgSigInputState)
	return p.comm.Input.State
}

// resetHooks turns every optional hook off and installs the signals that
// are always on.
func (p *Protocol) resetHooks() {
	p.hooks = Hooks{
		VideoRefresh: p.sigVideoRefresh,
		InputPoll:    p.sigInputPoll,
		InputState:   p.sigInputState,
	}
}
