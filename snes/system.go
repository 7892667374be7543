// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package snes is a CPU-level SNES machine for the pwrap protocol.
//
// It runs a 65c816 core over a LoROM bus and calls the protocol hooks at
// the points a debugger cares about: instruction execution, bus reads and
// writes, NMI, IRQ, scanline start, input polling and video refresh. The
// picture unit is a register file only: frames show the backdrop color.
// The sound processor is not emulated; its ports echo what the CPU wrote
// and SMP hooks never fire.
package snes

import (
	"github.com/alttpo/snes/emulator/bus"
	"github.com/alttpo/snes/emulator/cpu65c816"
	"go.uber.org/zap"

	"code.hybscloud.com/pwrap"
)

// Image and memory sizes.
const (
	MaxROMSize = 0x380000
	WRAMSize   = 0x20000
	SRAMSize   = 0x10000
	VRAMSize   = 0x10000
	OAMSize    = 0x220
	CGRAMSize  = 0x200
	APURAMSize = 0x10000
)

// Frame geometry.
const (
	ScreenWidth  = 256
	ScreenHeight = 224

	linesNTSC     = 262
	linesPAL      = 312
	vblankLine    = ScreenHeight + 1
	cyclesPerLine = 170
)

// System is a pwrap.Machine.
type System struct {
	Bus *bus.Bus
	CPU *cpu65c816.CPU

	ROM    [MaxROMSize]byte
	WRAM   [WRAMSize]byte
	SRAM   [SRAMSize]byte
	VRAM   [VRAMSize]byte
	OAM    [OAMSize]byte
	CGRAM  [CGRAMSize]byte
	APURAM [APURAMSize]byte

	log     *zap.Logger
	hooks   *pwrap.Hooks
	io      *HWIO
	regions []region

	header  Header
	romSize uint32
	loaded  bool
	name    string

	ports [2]pwrap.Device
	pads  [2][4]uint16

	// debug suppresses hooks and logging for accesses that are not made
	// by the emulated CPU.
	debug bool
	// fetchPC and fetchLen bound the bytes of the instruction being
	// executed, so operand fetches do not count as data reads.
	fetchPC  uint32
	fetchLen uint16

	line   int32
	hpos   int32
	frames uint64
	vector uint16

	cdl      [pwrap.CDLBlockCount][]byte
	layers   pwrap.LayerEnables
	backdrop uint32
	frame    []byte
	audio    []int16
}

// New creates a powered-off system. A nil logger discards reports.
func New(log *zap.Logger) (*System, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &System{
		log:      log,
		hooks:    &pwrap.Hooks{},
		backdrop: BackdropNone,
		frame:    make([]byte, ScreenWidth*ScreenHeight*4),
		audio:    make([]int16, 2*samplesPerFrame),
	}
	s.io = newHWIO(s)
	if err := s.createBus(); err != nil {
		return nil, err
	}
	return s, nil
}

// Attach implements pwrap.Machine.
func (s *System) Attach(h *pwrap.Hooks) { s.hooks = h }

// Init implements pwrap.Machine. value is reserved and ignored.
func (s *System) Init(_ uint32, ports [2]pwrap.Device) {
	s.ports = ports
	s.pads = [2][4]uint16{}
	s.log.Debug("init", zap.Int32("port0", int32(ports[0])), zap.Int32("port1", int32(ports[1])))
}

// Power implements pwrap.Machine: a cold boot.
func (s *System) Power() {
	clear(s.WRAM[:])
	clear(s.VRAM[:])
	clear(s.OAM[:])
	clear(s.CGRAM[:])
	clear(s.APURAM[:])
	s.frames = 0
	s.Reset()
}

// Reset implements pwrap.Machine: a warm boot that keeps memory.
func (s *System) Reset() {
	s.io.reset()
	s.line, s.hpos = 0, 0
	s.vector = s.header.resetVector()
	s.withDebug(func() { s.CPU.Reset() })
}

// LoadCartridge implements pwrap.Machine. Only LoROM images are mapped;
// images with another map mode are loaded as LoROM and reported.
func (s *System) LoadCartridge(name string, rom []byte) bool {
	if len(rom) < 0x8000 || len(rom) > MaxROMSize {
		s.log.Warn("cartridge size out of range", zap.String("name", name), zap.Int("size", len(rom)))
		return false
	}
	h, err := ParseHeader(rom)
	if err != nil {
		s.log.Warn("cartridge header unreadable", zap.String("name", name), zap.Error(err))
		return false
	}
	if h.Mapper() != MapperLoROM {
		s.log.Warn("unsupported map mode, mapping as LoROM", zap.String("name", name), zap.Uint8("mode", h.MapMode))
	}

	// mirror the image across the address space:
	for off := 0; off < len(s.ROM); off += len(rom) {
		copy(s.ROM[off:], rom)
	}
	clear(s.SRAM[:])
	s.header = h
	s.romSize = uint32(len(rom))
	s.name = name
	s.loaded = true
	s.log.Debug("cartridge loaded",
		zap.String("name", name),
		zap.String("title", h.TitleString()),
		zap.Uint32("size", s.romSize))
	return true
}

// LoadCartridgeSGB implements pwrap.Machine. There is no Game Boy core,
// so it always fails.
func (s *System) LoadCartridgeSGB(name string, _, _ []byte) bool {
	s.log.Warn("super game boy is not supported", zap.String("name", name))
	return false
}

// Term implements pwrap.Machine.
func (s *System) Term() {
	s.Unload()
	s.ports = [2]pwrap.Device{}
}

// Unload implements pwrap.Machine.
func (s *System) Unload() {
	if s.loaded {
		s.log.Debug("cartridge unloaded", zap.String("name", s.name))
	}
	clear(s.ROM[:])
	clear(s.SRAM[:])
	s.header = Header{}
	s.romSize = 0
	s.name = ""
	s.loaded = false
}

// Region implements pwrap.Machine.
func (s *System) Region() uint32 { return uint32(s.header.Region()) }

// Mapper implements pwrap.Machine.
func (s *System) Mapper() uint32 { return uint32(s.header.Mapper()) }

// Frames returns the number of frames run since power-on.
func (s *System) Frames() uint64 { return s.frames }

// PC returns the 24-bit program counter.
func (s *System) PC() uint32 { return uint32(s.CPU.RK)<<16 | uint32(s.CPU.PC) }

// SetPC moves the program counter.
func (s *System) SetPC(pc uint32) {
	s.CPU.RK = byte(pc >> 16)
	s.CPU.PC = uint16(pc & 0xFFFF)
}

// CPURegs implements pwrap.Machine. The core does not expose P; it is
// reported as zero.
func (s *System) CPURegs() pwrap.CPURegs {
	c := s.CPU
	return pwrap.CPURegs{
		PC:     s.PC(),
		A:      c.RA,
		X:      c.RX,
		Y:      c.RY,
		S:      c.SP,
		D:      c.RD,
		DB:     c.RDBR,
		Vector: s.vector,
		V:      uint16(s.line),
		H:      uint16(s.hpos),
	}
}

func (s *System) withDebug(f func()) {
	prev := s.debug
	s.debug = true
	defer func() { s.debug = prev }()
	f()
}

func (s *System) lines() int32 {
	if s.header.Region() == RegionPAL {
		return linesPAL
	}
	return linesNTSC
}
