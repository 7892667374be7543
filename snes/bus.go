// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes

import (
	"github.com/alttpo/snes/emulator/bus"
	"github.com/alttpo/snes/emulator/cpu65c816"
	"github.com/alttpo/snes/emulator/memory"
	"github.com/alttpo/snes/mapping/lorom"

	"code.hybscloud.com/pwrap"
)

// busDevice is the device contract of the A bus.
type busDevice interface {
	Read(address uint32) byte
	Write(address uint32, value byte)
	Shutdown()
	Size() uint32
	Clear()
	Dump(address uint32) []byte
}

// area tells which backing store a device maps, for code/data logging.
type area uint8

const (
	areaIO area = iota
	areaROM
	areaSRAM
	areaWRAM
)

// region is one attached address range.
type region struct {
	lo, hi uint32
	dev    busDevice
}

// watched wraps a device and reports CPU accesses to the system.
type watched struct {
	busDevice
	s    *System
	area area
}

func (w *watched) Read(address uint32) byte {
	v := w.busDevice.Read(address)
	w.s.observeRead(w.area, address)
	return v
}

func (w *watched) Write(address uint32, value byte) {
	w.s.observeWrite(address, value)
	w.busDevice.Write(address, value)
}

// createBus maps the LoROM address space.
func (s *System) createBus() (err error) {
	s.Bus, err = bus.NewWithSizeHint(0x70*2 + 0x40*2 + 0x40*2 + 2 + 1)
	if err != nil {
		return
	}
	s.CPU, err = cpu65c816.New(s.Bus)
	if err != nil {
		return
	}

	// ROM in the upper half of banks 00-6F, mirrored at 80-EF:
	for b := uint32(0); b < 0x70; b++ {
		halfBank := b << 15
		bank := b << 16
		for _, base := range [...]uint32{bank, bank + 0x80_0000} {
			err = s.attach(
				memory.NewRAM(s.ROM[halfBank:halfBank+0x8000], base|0x8000),
				"rom", areaROM,
				base|0x8000,
				base|0xFFFF,
			)
			if err != nil {
				return
			}
		}
	}

	// SRAM in the lower half of banks 70-71:
	for b := uint32(0); b < uint32(len(s.SRAM)>>15); b++ {
		halfBank := b << 15
		bank := b<<16 + 0x70_0000
		err = s.attach(
			memory.NewRAM(s.SRAM[halfBank:halfBank+0x8000], bank),
			"sram", areaSRAM,
			bank,
			bank|0x7FFF,
		)
		if err != nil {
			return
		}
	}

	// WRAM, with its first $2000 mirrored into the system banks:
	err = s.attach(memory.NewRAM(s.WRAM[:], 0x7E_0000), "wram", areaWRAM, 0x7E_0000, 0x7F_FFFF)
	if err != nil {
		return
	}
	for b := uint32(0); b < 0x40; b++ {
		for _, bank := range [...]uint32{b << 16, (b + 0x80) << 16} {
			err = s.attach(memory.NewRAM(s.WRAM[0:0x2000], bank), "wram", areaWRAM, bank, bank|0x1FFF)
			if err != nil {
				return
			}
			err = s.attach(s.io, "hwio", areaIO, bank|0x2000, bank|0x7FFF)
			if err != nil {
				return
			}
		}
	}
	return
}

func (s *System) attach(dev busDevice, name string, a area, lo, hi uint32) error {
	w := &watched{busDevice: dev, s: s, area: a}
	if err := s.Bus.Attach(w, name, lo, hi); err != nil {
		return err
	}
	s.regions = append(s.regions, region{lo: lo, hi: hi, dev: w})
	return nil
}

// read and write access the A bus without firing hooks.
func (s *System) read(addr uint32) (v uint8) {
	s.withDebug(func() { v = s.Bus.EaRead(addr & 0xFF_FFFF) })
	return
}

func (s *System) write(addr uint32, v uint8) bool {
	addr &= 0xFF_FFFF
	for _, r := range s.regions {
		if addr >= r.lo && addr <= r.hi {
			s.withDebug(func() { r.dev.Write(addr, v) })
			return true
		}
	}
	return false
}

// mapped reports whether addr is attached.
func (s *System) mapped(addr uint32) bool {
	for _, r := range s.regions {
		if addr >= r.lo && addr <= r.hi {
			return true
		}
	}
	return false
}

func (s *System) observeRead(a area, addr uint32) {
	if s.debug {
		return
	}
	fetch := s.inFetch(addr)
	s.logAccess(a, addr, fetch, addr == s.fetchPC)
	if fetch {
		return
	}
	if h := s.hooks.Read[pwrap.DomainCPU]; h != nil {
		h(addr)
	}
}

func (s *System) observeWrite(addr uint32, v uint8) {
	if s.debug {
		return
	}
	if h := s.hooks.Write[pwrap.DomainCPU]; h != nil {
		h(addr, v)
	}
}

// cdlOffset maps a bus address to the offset in the backing store.
func cdlOffset(a area, addr uint32) (block int, off uint32, ok bool) {
	switch a {
	case areaROM:
		pak, err := lorom.BusAddressToPak(addr)
		if err != nil {
			return 0, 0, false
		}
		return cdlCartROM, uint32(pak), true
	case areaSRAM:
		return cdlCartRAM, (addr>>16-0x70)<<15 | addr&0x7FFF, true
	case areaWRAM:
		if addr>>16 >= 0x7E {
			return cdlWRAM, addr - 0x7E_0000, true
		}
		return cdlWRAM, addr & 0x1FFF, true
	}
	return 0, 0, false
}
