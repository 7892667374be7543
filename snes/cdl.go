// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

import "code.hybscloud.com/pwrap"

// Code/data log blocks, by index into the blocks passed to SetCDL.
const (
	cdlCartROM = iota
	cdlCartRAM
	cdlWRAM
	cdlAPURAM
)

// Code/data log flags, or'ed into each logged byte.
const (
	CDLExecFirst   uint8 = 0x01
	CDLExecOperand uint8 = 0x02
	CDLCPUData     uint8 = 0x04
	CDLDMAData     uint8 = 0x08
)

// SetCDL implements pwrap.CodeDataLogger. Blocks 0 to 2 log cartridge
// ROM, cartridge RAM and WRAM. Nil blocks are not logged.
func (s *System) SetCDL(blocks [pwrap.CDLBlockCount][]byte) {
	s.cdl = blocks
}

func (s *System) logAccess(a area, addr uint32, fetch, first bool) {
	flag := CDLCPUData
	if fetch {
		flag = CDLExecOperand
		if first {
			flag = CDLExecFirst
		}
	}
	s.mark(a, addr, flag)
}

func (s *System) mark(a area, addr uint32, flag uint8) {
	block, off, ok := cdlOffset(a, addr)
	if !ok {
		return
	}
	if b := s.cdl[block]; int64(off) < int64(len(b)) {
		b[off] |= flag
	}
}
