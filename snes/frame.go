// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

import (
	"fmt"
	"strings"

	"code.hybscloud.com/pwrap"
)

// samplesPerFrame is the stereo sample count of one NTSC frame at 32040 Hz.
const samplesPerFrame = 534

// joypadButtons is the number of input ids of a standard pad, in the
// order B, Y, Select, Start, Up, Down, Left, Right, A, X, L, R.
const joypadButtons = 12

// Interrupt vectors reported in CPURegs.Vector.
const (
	vectorNMI = 0xFFEA
	vectorIRQ = 0xFFEE
)

// RunFrame implements pwrap.Machine.
//
// Input is polled first. Each scanline reports to the scanline hook, then
// the CPU runs for one line of cycles. The video refresh and audio flush
// come last. NMI and IRQ are latched in RDNMI and TIMEUP and reported to
// their hooks; the core is not vectored.
func (s *System) RunFrame() {
	s.pollInput()
	lines := s.lines()
	for s.line = 0; s.line < lines; s.line++ {
		s.startLine()
		for s.hpos = 0; s.hpos < cyclesPerLine; {
			s.hpos += s.step()
		}
	}
	s.line, s.hpos = 0, 0
	s.render()
	if h := s.hooks.VideoRefresh; h != nil {
		h(s.frame, ScreenWidth, ScreenHeight)
	}
	if h := s.hooks.AudioFlush; h != nil {
		h(s.audio)
	}
	s.frames++
}

func (s *System) startLine() {
	if h := s.hooks.Scanline; h != nil {
		h(s.line)
	}
	switch s.line {
	case 0:
		s.io.nmiFlag = false
	case vblankLine:
		s.io.nmiFlag = true
		s.io.autoJoyRd = s.io.autoJoypad()
		if s.io.nmiEnabled() {
			s.vector = vectorNMI
			if h := s.hooks.NMI; h != nil {
				h()
			}
		}
	case vblankLine + 3:
		s.io.autoJoyRd = false
	}
	if s.io.vIRQEnabled() && s.line == s.io.vtime() {
		s.io.irqFlag = true
		s.vector = vectorIRQ
		if h := s.hooks.IRQ; h != nil {
			h()
		}
	}
}

// step executes one instruction and returns its cycle count.
func (s *System) step() int32 {
	if !s.loaded {
		return cyclesPerLine
	}
	pc := s.PC()
	s.fetchPC, s.fetchLen = pc, s.opLength(pc)
	if h := s.hooks.Exec[pwrap.DomainCPU]; h != nil {
		h(pc)
	}
	if h := s.hooks.Trace; h != nil {
		h(s.trace())
	}
	n, _ := s.CPU.Step()
	s.fetchLen = 0
	if n <= 0 {
		return 1
	}
	return int32(n)
}

// opLength is the size in bytes of the instruction at pc under the
// current accumulator and index widths.
func (s *System) opLength(pc uint32) uint16 {
	op := s.read(pc)
	n := uint16(opLengths[op])
	switch op {
	case 0x09, 0x29, 0x49, 0x69, 0x89, 0xA9, 0xC9, 0xE9:
		n -= uint16(s.CPU.M)
	case 0xA0, 0xA2, 0xC0, 0xE0:
		n -= uint16(s.CPU.X)
	}
	return n
}

// inFetch reports whether addr holds a byte of the instruction being
// executed. The program counter wraps within its bank.
func (s *System) inFetch(addr uint32) bool {
	if s.fetchLen == 0 || addr>>16 != s.fetchPC>>16 {
		return false
	}
	return uint16(addr)-uint16(s.fetchPC) < s.fetchLen
}

// opLengths holds instruction sizes with a 16-bit immediate operand.
var opLengths = [256]uint8{
	2, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	3, 2, 4, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	1, 2, 2, 2, 3, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 3, 2, 2, 2, 1, 3, 1, 1, 4, 3, 3, 4,
	1, 2, 3, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 3, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	3, 2, 3, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	3, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	3, 2, 2, 2, 2, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
	2, 2, 2, 2, 3, 2, 2, 2, 1, 3, 1, 1, 3, 3, 3, 4,
}

func (s *System) trace() string {
	var b strings.Builder
	s.withDebug(func() { s.CPU.DisassembleCurrentPC(&b) })
	r := s.CPURegs()
	return fmt.Sprintf("%s A:%04X X:%04X Y:%04X S:%04X D:%04X DB:%02X V:%d H:%d",
		strings.TrimRight(b.String(), "\n"), r.A, r.X, r.Y, r.S, r.D, r.DB, r.V, r.H)
}

// pollInput asks the driver for the state of every connected pad.
// Devices other than pads and multitaps are not read.
func (s *System) pollInput() {
	if h := s.hooks.InputPoll; h != nil {
		h()
	}
	state := s.hooks.InputState
	if state == nil {
		return
	}
	for port, dev := range s.ports {
		pads := 0
		switch dev {
		case pwrap.DeviceJoypad:
			pads = 1
		case pwrap.DeviceMultitap:
			pads = 4
		}
		for index := 0; index < pads; index++ {
			var pad uint16
			for id := 0; id < joypadButtons; id++ {
				if state(int32(port), dev, int32(index), int32(id)) != 0 {
					pad |= 0x8000 >> id
				}
			}
			s.pads[port][index] = pad
		}
	}
}

// dma runs the general purpose channels selected by MDMAEN.
func (s *System) dma(channels uint8) {
	v := s.io
	for ch := uint32(0); ch < 8; ch++ {
		if channels&(1<<ch) == 0 {
			continue
		}
		base := 0x4300 | ch<<4
		ctrl := v.mem[base]
		bAddr := 0x2100 | uint32(v.mem[base+1])
		aAddr := uint32(v.mem[base+2]) | uint32(v.mem[base+3])<<8
		aBank := uint32(v.mem[base+4]) << 16
		count := uint32(v.mem[base+5]) | uint32(v.mem[base+6])<<8
		if count == 0 {
			count = 0x10000
		}
		for i := uint32(0); i < count; i++ {
			a := aBank | aAddr
			b := bAddr + dmaOffset(ctrl&7, i)
			if ctrl&0x80 == 0 {
				value := s.read(a)
				s.mark(areaOf(a), a, CDLDMAData)
				v.Write(b, value)
			} else {
				s.write(a, v.Read(b))
			}
			switch ctrl >> 3 & 3 {
			case 0:
				aAddr = (aAddr + 1) & 0xFFFF
			case 2:
				aAddr = (aAddr - 1) & 0xFFFF
			}
		}
		v.mem[base+2], v.mem[base+3] = uint8(aAddr), uint8(aAddr>>8)
		v.mem[base+5], v.mem[base+6] = 0, 0
	}
}

// dmaOffset is the B bus register offset of transfer unit i.
func dmaOffset(mode uint8, i uint32) uint32 {
	switch mode {
	case 1, 5:
		return i & 1
	case 3, 7:
		return i >> 1 & 1
	case 4:
		return i & 3
	}
	return 0
}

// areaOf decodes which backing store addr maps to.
func areaOf(addr uint32) area {
	bank, off := addr>>16&0xFF, addr&0xFFFF
	switch {
	case bank == 0x7E || bank == 0x7F:
		return areaWRAM
	case bank&0x7F < 0x40 && off < 0x2000:
		return areaWRAM
	case bank&0x7F < 0x70 && off >= 0x8000:
		return areaROM
	case bank >= 0x70 && bank <= 0x71 && off < 0x8000:
		return areaSRAM
	}
	return areaIO
}
