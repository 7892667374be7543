// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

import "code.hybscloud.com/pwrap"

// Memory ids.
const (
	MemoryCartRAM pwrap.MemoryID = 0
	MemoryWRAM    pwrap.MemoryID = 100
	MemoryAPURAM  pwrap.MemoryID = 101
	MemoryVRAM    pwrap.MemoryID = 102
	MemoryOAM     pwrap.MemoryID = 103
	MemoryCGRAM   pwrap.MemoryID = 104
	MemoryCartROM pwrap.MemoryID = 105
	MemorySysBus  pwrap.MemoryID = 200
)

const sysBusSize = 0x100_0000

var memoryNames = map[pwrap.MemoryID]string{
	MemoryCartRAM: "CARTRIDGE_RAM",
	MemoryWRAM:    "WRAM",
	MemoryAPURAM:  "APURAM",
	MemoryVRAM:    "VRAM",
	MemoryOAM:     "OAM",
	MemoryCGRAM:   "CGRAM",
	MemoryCartROM: "CARTRIDGE_ROM",
	MemorySysBus:  "SYSBUS",
}

// Logical register ids for PeekLogicalRegister.
const (
	RegBGMode uint32 = iota
	RegBG3Priority
	RegBG1TileSize
	RegBG2TileSize
	RegBG3TileSize
	RegBG4TileSize
	RegForceBlank
	RegBrightness
	RegNMIEnable
	RegVTime
	RegCGAddress
	RegVRAMAddress
)

// memory returns the backing store of id. The system bus has none.
func (s *System) memory(id pwrap.MemoryID) []byte {
	switch id {
	case MemoryCartRAM:
		if !s.loaded || s.header.RAMSize == 0 {
			return nil
		}
		n := SRAMSize
		if s.header.RAMSize < 7 {
			n = min(int(1024)<<s.header.RAMSize, SRAMSize)
		}
		return s.SRAM[:n]
	case MemoryWRAM:
		return s.WRAM[:]
	case MemoryAPURAM:
		return s.APURAM[:]
	case MemoryVRAM:
		return s.VRAM[:]
	case MemoryOAM:
		return s.OAM[:]
	case MemoryCGRAM:
		return s.CGRAM[:]
	case MemoryCartROM:
		return s.ROM[:s.romSize]
	}
	return nil
}

// MemorySize implements pwrap.Machine.
func (s *System) MemorySize(id pwrap.MemoryID) uint32 {
	if id == MemorySysBus {
		return sysBusSize
	}
	return uint32(len(s.memory(id)))
}

// Peek implements pwrap.Machine.
func (s *System) Peek(id pwrap.MemoryID, addr uint32) (uint8, bool) {
	if id == MemorySysBus {
		if addr >= sysBusSize || !s.mapped(addr) {
			return 0, false
		}
		return s.read(addr), true
	}
	m := s.memory(id)
	if int64(addr) >= int64(len(m)) {
		return 0, false
	}
	return m[addr], true
}

// Poke implements pwrap.Machine. Pokes to the system bus reach registers
// with their side effects.
func (s *System) Poke(id pwrap.MemoryID, addr uint32, value uint8) bool {
	if id == MemorySysBus {
		return addr < sysBusSize && s.write(addr, value)
	}
	m := s.memory(id)
	if int64(addr) >= int64(len(m)) {
		return false
	}
	m[addr] = value
	return true
}

// MemoryIDName implements pwrap.Machine. Unknown ids have no name.
func (s *System) MemoryIDName(id pwrap.MemoryID) string {
	return memoryNames[id]
}

// LogicalRegister implements pwrap.Machine. Unknown ids read as zero.
func (s *System) LogicalRegister(id uint32) uint32 {
	m := &s.io.mem
	switch id {
	case RegBGMode:
		return uint32(m[0x2105] & 7)
	case RegBG3Priority:
		return uint32(m[0x2105] >> 3 & 1)
	case RegBG1TileSize, RegBG2TileSize, RegBG3TileSize, RegBG4TileSize:
		return uint32(m[0x2105] >> (4 + id - RegBG1TileSize) & 1)
	case RegForceBlank:
		return uint32(m[0x2100] >> 7)
	case RegBrightness:
		return uint32(m[0x2100] & 0x0F)
	case RegNMIEnable:
		return uint32(m[0x4200] >> 7)
	case RegVTime:
		return uint32(s.io.vtime())
	case RegCGAddress:
		return uint32(s.io.cgAddr >> 1)
	case RegVRAMAddress:
		return uint32(s.io.vramAddr)
	}
	return 0
}
