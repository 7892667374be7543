// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

// HWIO is the memory-mapped register file at $2000-$7FFF of the system
// banks. It latches every write and implements the side effects of the
// registers a CPU-level machine needs.
type HWIO struct {
	s   *System
	mem [0x10000]uint8

	oamAddr   uint16
	vramAddr  uint16
	cgAddr    uint16
	cgLatch   uint8
	cgLow     bool
	wramAddr  uint32
	apuPorts  [4]uint8
	nmiFlag   bool
	irqFlag   bool
	autoJoyRd bool
}

func newHWIO(s *System) *HWIO {
	v := &HWIO{s: s}
	v.reset()
	return v
}

func (v *HWIO) reset() {
	clear(v.mem[:])
	v.oamAddr, v.vramAddr, v.cgAddr = 0, 0, 0
	v.cgLatch, v.cgLow = 0, false
	v.wramAddr = 0
	// the sound processor's boot handshake signature:
	v.apuPorts = [4]uint8{0xAA, 0xBB, 0x00, 0x00}
	v.nmiFlag, v.irqFlag, v.autoJoyRd = false, false, false
	v.mem[0x2100] = 0x80
}

// Read implements the bus device contract.
func (v *HWIO) Read(address uint32) byte {
	offs := address & 0xFFFF
	switch {
	case offs >= 0x2140 && offs <= 0x217F:
		return v.apuPorts[offs&3]
	case offs == 0x2180:
		b := v.s.WRAM[v.wramAddr]
		v.wramAddr = (v.wramAddr + 1) & (WRAMSize - 1)
		return b
	case offs == 0x4210:
		b := uint8(0x02)
		if v.nmiFlag {
			b |= 0x80
		}
		if !v.s.debug {
			v.nmiFlag = false
		}
		return b
	case offs == 0x4211:
		var b uint8
		if v.irqFlag {
			b = 0x80
		}
		if !v.s.debug {
			v.irqFlag = false
		}
		return b
	case offs == 0x4212:
		var b uint8
		if v.s.line >= vblankLine {
			b |= 0x80
		}
		if v.s.hpos >= cyclesPerLine-cyclesPerLine/5 {
			b |= 0x40
		}
		if v.autoJoyRd {
			b |= 0x01
		}
		return b
	case offs >= 0x4218 && offs <= 0x421F:
		i := (offs - 0x4218) >> 1
		pad := v.s.pads[i&1][i>>1]
		if offs&1 == 0 {
			return uint8(pad)
		}
		return uint8(pad >> 8)
	}
	return v.mem[offs]
}

// Write implements the bus device contract.
func (v *HWIO) Write(address uint32, value byte) {
	offs := address & 0xFFFF
	v.mem[offs] = value
	switch {
	case offs == 0x2102:
		v.oamAddr = (uint16(v.mem[0x2103]&1)<<8 | uint16(value)) << 1
	case offs == 0x2103:
		v.oamAddr = (uint16(value&1)<<8 | uint16(v.mem[0x2102])) << 1
	case offs == 0x2104:
		v.s.OAM[int(v.oamAddr)%OAMSize] = value
		v.oamAddr = (v.oamAddr + 1) % OAMSize
	case offs == 0x2116:
		v.vramAddr = v.vramAddr&0xFF00 | uint16(value)
	case offs == 0x2117:
		v.vramAddr = v.vramAddr&0x00FF | uint16(value)<<8
	case offs == 0x2118:
		v.s.VRAM[uint32(v.vramAddr)<<1&(VRAMSize-1)] = value
		if v.mem[0x2115]&0x80 == 0 {
			v.vramAddr += v.vramStep()
		}
	case offs == 0x2119:
		v.s.VRAM[(uint32(v.vramAddr)<<1|1)&(VRAMSize-1)] = value
		if v.mem[0x2115]&0x80 != 0 {
			v.vramAddr += v.vramStep()
		}
	case offs == 0x2121:
		v.cgAddr = uint16(value) << 1
		v.cgLow = false
	case offs == 0x2122:
		if !v.cgLow {
			v.cgLatch = value
			v.cgLow = true
			return
		}
		v.s.CGRAM[v.cgAddr&(CGRAMSize-1)] = v.cgLatch
		v.s.CGRAM[(v.cgAddr+1)&(CGRAMSize-1)] = value & 0x7F
		v.cgAddr = (v.cgAddr + 2) & (CGRAMSize - 1)
		v.cgLow = false
	case offs >= 0x2140 && offs <= 0x217F:
		v.apuPorts[offs&3] = value
		v.s.APURAM[0xF4+offs&3] = value
	case offs == 0x2180:
		v.s.WRAM[v.wramAddr] = value
		v.wramAddr = (v.wramAddr + 1) & (WRAMSize - 1)
	case offs == 0x2181:
		v.wramAddr = v.wramAddr&0x1FF00 | uint32(value)
	case offs == 0x2182:
		v.wramAddr = v.wramAddr&0x100FF | uint32(value)<<8
	case offs == 0x2183:
		v.wramAddr = v.wramAddr&0x0FFFF | uint32(value&1)<<16
	case offs == 0x420B:
		v.s.dma(value)
	}
}

func (v *HWIO) vramStep() uint16 {
	switch v.mem[0x2115] & 3 {
	case 0:
		return 1
	case 1:
		return 32
	}
	return 128
}

// nmiEnabled reports NMITIMEN bit 7.
func (v *HWIO) nmiEnabled() bool { return v.mem[0x4200]&0x80 != 0 }

// vIRQEnabled reports NMITIMEN bit 5.
func (v *HWIO) vIRQEnabled() bool { return v.mem[0x4200]&0x20 != 0 }

// autoJoypad reports NMITIMEN bit 0.
func (v *HWIO) autoJoypad() bool { return v.mem[0x4200]&0x01 != 0 }

// vtime is the V-IRQ line from VTIMEL/VTIMEH.
func (v *HWIO) vtime() int32 {
	return int32(v.mem[0x4209]) | int32(v.mem[0x420A]&1)<<8
}

// inidisp returns the force blank flag and the brightness.
func (v *HWIO) inidisp() (blank bool, brightness uint8) {
	b := v.mem[0x2100]
	return b&0x80 != 0, b & 0x0F
}

func (v *HWIO) Shutdown() {
}

func (v *HWIO) Size() uint32 {
	return 0x10000
}

func (v *HWIO) Clear() {
}

func (v *HWIO) Dump(address uint32) []byte {
	return nil
}
