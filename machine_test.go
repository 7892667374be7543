// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap_test

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"code.hybscloud.com/pwrap"
)

const memWRAM pwrap.MemoryID = 100

// fakeMachine records every call and, in RunFrame, calls each hook once
// in a fixed order.
type fakeMachine struct {
	h *pwrap.Hooks

	program []uint32
	frame   []byte
	wram    []byte

	inits, powers, resets, runs, terms, unloads int
	ports                                       [2]pwrap.Device

	name     string
	rom, gb  []byte
	rejectLd bool

	state      []byte
	failState  bool
	restored   []byte
	postLoads  int
	inputs     []int16
	layers     pwrap.LayerEnables
	backdrop   uint32
	backdrops  int
	cdl        [pwrap.CDLBlockCount][]byte
	registerRd int
}

func newFakeMachine() *fakeMachine {
	return &fakeMachine{
		program: []uint32{0x00_8000, 0x00_8001},
		frame:   []byte{1, 2, 3, 4, 5, 6, 7, 8},
		wram:    make([]byte, 0x100),
		state:   []byte("state"),
	}
}

func (m *fakeMachine) Attach(h *pwrap.Hooks) { m.h = h }

func (m *fakeMachine) Init(_ uint32, ports [2]pwrap.Device) {
	m.inits++
	m.ports = ports
}

func (m *fakeMachine) Power() { m.powers++ }
func (m *fakeMachine) Reset() { m.resets++ }
func (m *fakeMachine) Term()  { m.terms++ }
func (m *fakeMachine) Unload() {
	m.unloads++
	m.rom = nil
}

func (m *fakeMachine) RunFrame() {
	m.runs++
	h := m.h
	for _, pc := range m.program {
		if f := h.Exec[pwrap.DomainCPU]; f != nil {
			f(pc)
		}
		if f := h.Trace; f != nil {
			f(fmt.Sprintf("%06X", pc))
		}
	}
	if f := h.Read[pwrap.DomainCPU]; f != nil {
		f(0x7E_0000)
	}
	if f := h.Write[pwrap.DomainCPU]; f != nil {
		f(0x7E_0010, 0x5A)
	}
	if f := h.Exec[pwrap.DomainSMP]; f != nil {
		f(0x0200)
	}
	if f := h.Read[pwrap.DomainSMP]; f != nil {
		f(0x00F4)
	}
	if f := h.Write[pwrap.DomainSMP]; f != nil {
		f(0x00F5, 0x01)
	}
	if f := h.NMI; f != nil {
		f()
	}
	if f := h.IRQ; f != nil {
		f()
	}
	if f := h.Scanline; f != nil {
		f(0)
		f(1)
	}
	if f := h.InputPoll; f != nil {
		f()
	}
	if f := h.InputState; f != nil && m.ports[0] != pwrap.DeviceNone {
		m.inputs = append(m.inputs, f(0, m.ports[0], 0, 8))
	}
	if f := h.VideoRefresh; f != nil {
		f(m.frame, 4, 2)
	}
	if f := h.AudioFlush; f != nil {
		f([]int16{1, -1})
	}
}

func (m *fakeMachine) LoadCartridge(name string, rom []byte) bool {
	if m.rejectLd {
		return false
	}
	m.name, m.rom = name, rom
	return true
}

func (m *fakeMachine) LoadCartridgeSGB(name string, rom, gb []byte) bool {
	if m.rejectLd {
		return false
	}
	m.name, m.rom, m.gb = name, rom, gb
	return true
}

func (m *fakeMachine) Serialize() ([]byte, error) {
	if m.failState {
		return nil, errors.New("serialize failed")
	}
	return append([]byte(nil), m.state...), nil
}

func (m *fakeMachine) Unserialize(data []byte) error {
	if m.failState {
		return errors.New("unserialize failed")
	}
	m.restored = append([]byte(nil), data...)
	return nil
}

func (m *fakeMachine) MemorySize(id pwrap.MemoryID) uint32 {
	if id == memWRAM {
		return uint32(len(m.wram))
	}
	return 0
}

func (m *fakeMachine) Peek(id pwrap.MemoryID, addr uint32) (uint8, bool) {
	if id != memWRAM || addr >= uint32(len(m.wram)) {
		return 0, false
	}
	return m.wram[addr], true
}

func (m *fakeMachine) Poke(id pwrap.MemoryID, addr uint32, v uint8) bool {
	if id != memWRAM || addr >= uint32(len(m.wram)) {
		return false
	}
	m.wram[addr] = v
	return true
}

func (m *fakeMachine) MemoryIDName(id pwrap.MemoryID) string {
	if id == memWRAM {
		return "WRAM"
	}
	return ""
}

func (m *fakeMachine) LogicalRegister(id uint32) uint32 {
	m.registerRd++
	return id * 2
}

func (m *fakeMachine) CPURegs() pwrap.CPURegs {
	return pwrap.CPURegs{PC: 0x00_8001, A: 0x1234, X: 0x10, Y: 0x20, S: 0x01FF, D: 0x0300, P: 0x30, DB: 0x7E, V: 225, H: 12}
}

func (m *fakeMachine) Region() uint32 { return 1 }
func (m *fakeMachine) Mapper() uint32 { return 2 }

func (m *fakeMachine) PostLoadState() { m.postLoads++ }

func (m *fakeMachine) SetLayerEnables(l pwrap.LayerEnables) { m.layers = l }

func (m *fakeMachine) SetBackdropColor(c uint32) {
	m.backdrop = c
	m.backdrops++
}

func (m *fakeMachine) SetCDL(blocks [pwrap.CDLBlockCount][]byte) { m.cdl = blocks }

// newProtocol returns a protocol over a fake machine that reports to an
// observed logger.
func newProtocol(tb testing.TB) (*pwrap.Protocol, *fakeMachine, *observer.ObservedLogs) {
	tb.Helper()
	core, logs := observer.New(zap.WarnLevel)
	m := newFakeMachine()
	p := pwrap.New(m, pwrap.WithLogger(zap.New(core)))
	tb.Cleanup(p.Close)
	return p, m, logs
}

// drain resumes until the engine completes, answering every input state
// with state, and returns the break reasons seen on the way.
func drain(p *pwrap.Protocol, state int16) []pwrap.Message {
	var reasons []pwrap.Message
	c := p.Comm()
	for c.Status == pwrap.StatusSuspended {
		reasons = append(reasons, c.Reason)
		if c.Reason == pwrap.MsgSigInputState {
			c.Input.State = state
		}
		p.Dispatch(pwrap.Resume{})
	}
	return reasons
}

// command dispatches req and drains the engine.
func command(p *pwrap.Protocol, req pwrap.Request) []pwrap.Message {
	p.Dispatch(req)
	return drain(p, 0)
}
