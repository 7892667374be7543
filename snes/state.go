// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

const stateVersion = 1

// ErrStateVersion is returned by Unserialize for a snapshot written by an
// incompatible version.
var ErrStateVersion = errors.New("snes: unsupported state version")

// cpuState is the register file of the snapshot. P is not part of it.
type cpuState struct {
	PC   uint16
	RK   uint8
	RDBR uint8
	RA   uint16
	RX   uint16
	RY   uint16
	SP   uint16
	RD   uint16
}

// ioState holds the register file and its internal latches.
type ioState struct {
	Mem       [0x10000]uint8
	OAMAddr   uint16
	VRAMAddr  uint16
	CGAddr    uint16
	CGLatch   uint8
	CGLow     uint8
	WRAMAddr  uint32
	APUPorts  [4]uint8
	NMIFlag   uint8
	IRQFlag   uint8
	AutoJoyRd uint8
}

type state struct {
	Version uint32
	CPU     cpuState
	IO      ioState
	Line    int32
	HPos    int32
	Frames  uint64
	Vector  uint16
	Pads    [2][4]uint16

	WRAM   [WRAMSize]byte
	SRAM   [SRAMSize]byte
	VRAM   [VRAMSize]byte
	OAM    [OAMSize]byte
	CGRAM  [CGRAMSize]byte
	APURAM [APURAMSize]byte
}

// Serialize implements pwrap.Machine. The cartridge ROM is not included.
func (s *System) Serialize() ([]byte, error) {
	st := new(state)
	st.Version = stateVersion
	c := s.CPU
	st.CPU = cpuState{PC: c.PC, RK: c.RK, RDBR: c.RDBR, RA: c.RA, RX: c.RX, RY: c.RY, SP: c.SP, RD: c.RD}
	v := s.io
	st.IO = ioState{
		Mem:       v.mem,
		OAMAddr:   v.oamAddr,
		VRAMAddr:  v.vramAddr,
		CGAddr:    v.cgAddr,
		CGLatch:   v.cgLatch,
		CGLow:     b2u(v.cgLow),
		WRAMAddr:  v.wramAddr,
		APUPorts:  v.apuPorts,
		NMIFlag:   b2u(v.nmiFlag),
		IRQFlag:   b2u(v.irqFlag),
		AutoJoyRd: b2u(v.autoJoyRd),
	}
	st.Line, st.HPos, st.Frames, st.Vector, st.Pads = s.line, s.hpos, s.frames, s.vector, s.pads
	st.WRAM, st.SRAM, st.VRAM = s.WRAM, s.SRAM, s.VRAM
	st.OAM, st.CGRAM, st.APURAM = s.OAM, s.CGRAM, s.APURAM

	var buf bytes.Buffer
	buf.Grow(binary.Size(st))
	if err := binary.Write(&buf, binary.LittleEndian, st); err != nil {
		return nil, fmt.Errorf("snes: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

// Unserialize implements pwrap.Machine. The system is unchanged on error.
func (s *System) Unserialize(data []byte) error {
	st := new(state)
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, st); err != nil {
		return fmt.Errorf("snes: unserialize: %w", err)
	}
	if st.Version != stateVersion {
		return fmt.Errorf("%w: %d", ErrStateVersion, st.Version)
	}
	c := s.CPU
	c.PC, c.RK, c.RDBR = st.CPU.PC, st.CPU.RK, st.CPU.RDBR
	c.RA, c.RX, c.RY, c.SP, c.RD = st.CPU.RA, st.CPU.RX, st.CPU.RY, st.CPU.SP, st.CPU.RD
	v := s.io
	v.mem = st.IO.Mem
	v.oamAddr, v.vramAddr, v.cgAddr = st.IO.OAMAddr, st.IO.VRAMAddr, st.IO.CGAddr
	v.cgLatch, v.cgLow = st.IO.CGLatch, st.IO.CGLow != 0
	v.wramAddr, v.apuPorts = st.IO.WRAMAddr, st.IO.APUPorts
	v.nmiFlag, v.irqFlag, v.autoJoyRd = st.IO.NMIFlag != 0, st.IO.IRQFlag != 0, st.IO.AutoJoyRd != 0
	s.line, s.hpos, s.frames, s.vector, s.pads = st.Line, st.HPos, st.Frames, st.Vector, st.Pads
	s.WRAM, s.SRAM, s.VRAM = st.WRAM, st.SRAM, st.VRAM
	s.OAM, s.CGRAM, s.APURAM = st.OAM, st.CGRAM, st.APURAM
	return nil
}

// PostLoadState implements pwrap.StateApplier: the frame is redrawn from
// the loaded registers.
func (s *System) PostLoadState() {
	s.render()
	s.log.Debug("state applied", zap.Uint64("frames", s.frames))
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
