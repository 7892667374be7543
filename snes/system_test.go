// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package snes_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/pwrap"
	"code.hybscloud.com/pwrap/snes"
)

// loop is a LoROM program at $00:8000 that enables NMI, then copies
// $00:0000 to $00:0010 forever.
var loop = []byte{
	0xA9, 0x80, // LDA #$80
	0x8D, 0x00, 0x42, // STA $4200
	0xEA,             // NOP
	0xAD, 0x00, 0x00, // LDA $0000
	0x8D, 0x10, 0x00, // STA $0010
	0x4C, 0x05, 0x80, // JMP $8005
}

func makeROM(title string, code []byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom, code)
	copy(rom[0x7FC0:0x7FD5], title)
	for i := len(title); i < 21; i++ {
		rom[0x7FC0+i] = ' '
	}
	rom[0x7FD5] = 0x20 // LoROM
	rom[0x7FD9] = 0x01 // North America
	// emulation mode RESET vector:
	rom[0x7FFC], rom[0x7FFD] = 0x00, 0x80
	return rom
}

func newSystem(t *testing.T, code []byte) *snes.System {
	t.Helper()
	s, err := snes.New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !s.LoadCartridge("test.sfc", makeROM("PWRAP TEST", code)) {
		t.Fatal("LoadCartridge failed")
	}
	return s
}

func TestSystemMapping(t *testing.T) {
	s := newSystem(t, loop)
	tests := []struct {
		name string
		addr uint32
		set  func(v uint8)
	}{
		{"ROM bank 00", 0x00_8000, func(v uint8) { s.ROM[0x0000] = v }},
		{"ROM mirror bank 80", 0x80_8001, func(v uint8) { s.ROM[0x0001] = v }},
		{"ROM bank 01", 0x01_8000, func(v uint8) { s.ROM[0x8000] = v }},
		{"SRAM bank 70", 0x70_0000, func(v uint8) { s.SRAM[0x0000] = v }},
		{"SRAM bank 71", 0x71_0000, func(v uint8) { s.SRAM[0x8000] = v }},
		{"WRAM $7E:0000", 0x7E_0000, func(v uint8) { s.WRAM[0x0000] = v }},
		{"WRAM $7F:0000", 0x7F_0000, func(v uint8) { s.WRAM[0x10000] = v }},
		{"WRAM mirror $00:1FFF", 0x00_1FFF, func(v uint8) { s.WRAM[0x1FFF] = v }},
		{"WRAM mirror $BF:0100", 0xBF_0100, func(v uint8) { s.WRAM[0x0100] = v }},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := uint8(0xF0 + i)
			tt.set(want)
			got, ok := s.Peek(snes.MemorySysBus, tt.addr)
			if !ok || got != want {
				t.Errorf("Peek(SYSBUS, %#06x) = %#02x, %v; want %#02x, true", tt.addr, got, ok, want)
			}
		})
	}
}

func TestSystemPowerReachesResetVector(t *testing.T) {
	s := newSystem(t, loop)
	s.Power()
	if got := s.PC(); got != 0x00_8000 {
		t.Fatalf("PC after power = %#06x, want 0x008000", got)
	}
}

func TestSystemHooks(t *testing.T) {
	s := newSystem(t, loop)
	s.Power()
	s.WRAM[0] = 0x5A

	var execs, reads []uint32
	var writes []pwrap.HookParams
	var nmis, lines, refreshes int
	h := &pwrap.Hooks{}
	h.Exec[pwrap.DomainCPU] = func(addr uint32) { execs = append(execs, addr) }
	h.Read[pwrap.DomainCPU] = func(addr uint32) { reads = append(reads, addr) }
	h.Write[pwrap.DomainCPU] = func(addr uint32, v uint8) {
		writes = append(writes, pwrap.HookParams{Addr: addr, Value: v})
	}
	h.NMI = func() { nmis++ }
	h.Scanline = func(int32) { lines++ }
	h.VideoRefresh = func(frame []byte, w, hh int32) {
		refreshes++
		if w != snes.ScreenWidth || hh != snes.ScreenHeight || len(frame) != int(w*hh*4) {
			t.Errorf("VideoRefresh(%d bytes, %d, %d)", len(frame), w, hh)
		}
	}
	s.Attach(h)

	s.RunFrame()

	if len(execs) == 0 || execs[0] != 0x00_8000 {
		t.Fatalf("first exec = %v, want 0x008000", execs[:min(len(execs), 1)])
	}
	for _, addr := range reads {
		if addr >= 0x00_8000 && addr < 0x00_8010 {
			t.Fatalf("instruction fetch %#06x reported as a read", addr)
		}
	}
	if !contains(reads, 0x00_0000) {
		t.Errorf("reads %v do not include $000000", reads[:min(len(reads), 8)])
	}
	if !containsHook(writes, pwrap.HookParams{Addr: 0x00_4200, Value: 0x80}) {
		t.Errorf("writes do not include $4200 <- $80")
	}
	if !containsHook(writes, pwrap.HookParams{Addr: 0x00_0010, Value: 0x5A}) {
		t.Errorf("writes do not include $0010 <- $5A")
	}
	if nmis != 1 {
		t.Errorf("NMI hooks = %d, want 1", nmis)
	}
	if lines != 262 {
		t.Errorf("scanline hooks = %d, want 262", lines)
	}
	if refreshes != 1 {
		t.Errorf("video refreshes = %d, want 1", refreshes)
	}
	if s.WRAM[0x10] != 0x5A {
		t.Errorf("WRAM[$10] = %#02x, want 0x5A", s.WRAM[0x10])
	}
	if s.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", s.Frames())
	}
}

func TestSystemDataReadAfterInstruction(t *testing.T) {
	s := newSystem(t, []byte{
		0xAD, 0x03, 0x80, // LDA $8003
		0x80, 0xFE, // BRA $8003
	})
	s.Power()
	var reads []uint32
	h := &pwrap.Hooks{}
	h.Read[pwrap.DomainCPU] = func(addr uint32) { reads = append(reads, addr) }
	s.Attach(h)

	s.RunFrame()

	n := 0
	for _, addr := range reads {
		switch addr {
		case 0x00_8003:
			n++
		case 0x00_8000, 0x00_8001, 0x00_8002, 0x00_8004:
			t.Fatalf("instruction fetch %#06x reported as a read", addr)
		}
	}
	if n != 1 {
		t.Fatalf("read of $8003 reported %d times, want 1", n)
	}
	if a := s.CPURegs().A & 0xFF; a != 0x80 {
		t.Fatalf("A = %#02x, want 0x80", a)
	}
}

func TestSystemHooksOffDuringPeekPoke(t *testing.T) {
	s := newSystem(t, loop)
	h := &pwrap.Hooks{}
	h.Read[pwrap.DomainCPU] = func(uint32) { t.Error("read hook fired on Peek") }
	h.Write[pwrap.DomainCPU] = func(uint32, uint8) { t.Error("write hook fired on Poke") }
	s.Attach(h)

	if !s.Poke(snes.MemorySysBus, 0x7E_0123, 0x42) {
		t.Fatal("Poke failed")
	}
	if v, ok := s.Peek(snes.MemorySysBus, 0x00_0123); !ok || v != 0x42 {
		t.Fatalf("Peek = %#02x, %v", v, ok)
	}
	if _, ok := s.Peek(snes.MemorySysBus, 0x1_000000); ok {
		t.Error("Peek past the bus succeeded")
	}
	if _, ok := s.Peek(snes.MemoryWRAM, snes.WRAMSize); ok {
		t.Error("Peek past WRAM succeeded")
	}
	if s.Poke(pwrap.MemoryID(7), 0, 0) {
		t.Error("Poke to an unknown id succeeded")
	}
}

func TestSystemInput(t *testing.T) {
	s := newSystem(t, loop)
	s.Init(0, [2]pwrap.Device{pwrap.DeviceJoypad, pwrap.DeviceNone})
	s.Power()

	polls := 0
	h := &pwrap.Hooks{}
	h.InputPoll = func() { polls++ }
	h.InputState = func(port int32, dev pwrap.Device, index, id int32) int16 {
		if port != 0 || dev != pwrap.DeviceJoypad || index != 0 {
			t.Errorf("InputState(%d, %d, %d, %d)", port, dev, index, id)
		}
		if id == 8 { // A
			return 1
		}
		return 0
	}
	s.Attach(h)
	s.RunFrame()

	if polls != 1 {
		t.Errorf("input polls = %d, want 1", polls)
	}
	if v, _ := s.Peek(snes.MemorySysBus, 0x4218); v != 0x80 {
		t.Errorf("JOY1L = %#02x, want 0x80", v)
	}
	if v, _ := s.Peek(snes.MemorySysBus, 0x4219); v != 0x00 {
		t.Errorf("JOY1H = %#02x, want 0x00", v)
	}
}

func TestSystemDMA(t *testing.T) {
	s := newSystem(t, loop)
	copy(s.WRAM[0x100:], []byte{1, 2, 3, 4})
	for _, w := range []struct {
		addr uint32
		v    uint8
	}{
		{0x2115, 0x80}, // increment after $2119
		{0x2116, 0x00},
		{0x2117, 0x00},
		{0x4300, 0x01}, // A to B, two registers
		{0x4301, 0x18}, // $2118
		{0x4302, 0x00},
		{0x4303, 0x01},
		{0x4304, 0x7E},
		{0x4305, 0x04},
		{0x4306, 0x00},
		{0x420B, 0x01},
	} {
		if !s.Poke(snes.MemorySysBus, w.addr, w.v) {
			t.Fatalf("Poke(%#04x) failed", w.addr)
		}
	}
	if got := s.VRAM[:4]; string(got) != "\x01\x02\x03\x04" {
		t.Fatalf("VRAM = % x, want 01 02 03 04", got)
	}
	if got := s.LogicalRegister(snes.RegVRAMAddress); got != 2 {
		t.Errorf("VRAM address = %d, want 2", got)
	}
}

func TestSystemCDL(t *testing.T) {
	s := newSystem(t, loop)
	s.Power()
	var blocks [pwrap.CDLBlockCount][]byte
	blocks[0] = make([]byte, 0x8000)
	blocks[2] = make([]byte, snes.WRAMSize)
	s.SetCDL(blocks)
	s.RunFrame()

	rom, wram := blocks[0], blocks[2]
	if rom[0]&snes.CDLExecFirst == 0 {
		t.Errorf("ROM[0] = %#02x, want exec-first", rom[0])
	}
	if rom[1]&snes.CDLExecOperand == 0 {
		t.Errorf("ROM[1] = %#02x, want exec-operand", rom[1])
	}
	if wram[0]&snes.CDLCPUData == 0 {
		t.Errorf("WRAM[0] = %#02x, want cpu-data", wram[0])
	}
}

func TestSystemStateRoundTrip(t *testing.T) {
	s := newSystem(t, loop)
	s.Power()
	s.RunFrame()
	s.WRAM[0x42] = 0x99
	data, err := s.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	pc := s.PC()

	s.WRAM[0x42] = 0
	s.RunFrame()
	if err := s.Unserialize(data); err != nil {
		t.Fatalf("Unserialize: %v", err)
	}
	if s.WRAM[0x42] != 0x99 || s.PC() != pc || s.Frames() != 1 {
		t.Errorf("restored WRAM[$42]=%#02x PC=%#06x frames=%d", s.WRAM[0x42], s.PC(), s.Frames())
	}

	data[0] ^= 0xFF
	if err := s.Unserialize(data); !errors.Is(err, snes.ErrStateVersion) {
		t.Errorf("Unserialize(bad version) = %v, want ErrStateVersion", err)
	}
	if err := s.Unserialize(data[:16]); err == nil {
		t.Error("Unserialize(short) succeeded")
	}
}

func TestSystemCartridge(t *testing.T) {
	s, err := snes.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.LoadCartridge("short", make([]byte, 0x100)) {
		t.Error("short image loaded")
	}
	if s.LoadCartridgeSGB("sgb", makeROM("SGB", nil), []byte{0}) {
		t.Error("super game boy image loaded")
	}

	rom := makeROM("PWRAP TEST", loop)
	rom[0x7FD9] = 0x02 // Europe
	rom[0x7FD8] = 0x03 // 8 KiB SRAM
	if !s.LoadCartridge("pal.sfc", rom) {
		t.Fatal("LoadCartridge failed")
	}
	if s.Region() != uint32(snes.RegionPAL) || s.Mapper() != uint32(snes.MapperLoROM) {
		t.Errorf("Region, Mapper = %d, %d", s.Region(), s.Mapper())
	}
	if got := s.MemorySize(snes.MemoryCartRAM); got != 0x2000 {
		t.Errorf("cartridge RAM size = %#x, want 0x2000", got)
	}
	if got := s.MemorySize(snes.MemoryCartROM); got != 0x8000 {
		t.Errorf("cartridge ROM size = %#x, want 0x8000", got)
	}
	if got := s.MemoryIDName(snes.MemorySysBus); got != "SYSBUS" {
		t.Errorf("MemoryIDName(SYSBUS) = %q", got)
	}

	s.Unload()
	if s.MemorySize(snes.MemoryCartROM) != 0 || s.MemorySize(snes.MemoryCartRAM) != 0 {
		t.Error("cartridge memory survives Unload")
	}
}

func TestHeader(t *testing.T) {
	h, err := snes.ParseHeader(makeROM("ZELDANODENSETSU", nil))
	if err != nil {
		t.Fatal(err)
	}
	if got := h.TitleString(); got != "ZELDANODENSETSU" {
		t.Errorf("title = %q", got)
	}
	if h.EmulatedVectors.RESET != 0x8000 {
		t.Errorf("RESET = %#04x", h.EmulatedVectors.RESET)
	}
	if _, err := snes.ParseHeader(make([]byte, 0x100)); err == nil {
		t.Error("ParseHeader(short) succeeded")
	}
}

func TestSystemBackdrop(t *testing.T) {
	s, err := snes.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Poke(snes.MemorySysBus, 0x2100, 0x0F) // display on, full brightness
	s.Poke(snes.MemorySysBus, 0x2121, 0x00)
	s.Poke(snes.MemorySysBus, 0x2122, 0x1F) // red
	s.Poke(snes.MemorySysBus, 0x2122, 0x00)
	s.RunFrame()
	if got := pixel(s.Frame()); got != 0xFFFF0000 {
		t.Errorf("backdrop = %#08x, want 0xFFFF0000", got)
	}

	s.SetBackdropColor(0x00123456)
	s.RunFrame()
	if got := pixel(s.Frame()); got != 0xFF123456 {
		t.Errorf("override = %#08x, want 0xFF123456", got)
	}
	if got := s.LogicalRegister(snes.RegBrightness); got != 0x0F {
		t.Errorf("brightness = %d", got)
	}

	// a state load redraws without running a frame
	s.SetBackdropColor(snes.BackdropNone)
	s.PostLoadState()
	if got := pixel(s.Frame()); got != 0xFFFF0000 {
		t.Errorf("after PostLoadState = %#08x, want 0xFFFF0000", got)
	}
}

func pixel(frame []byte) uint32 {
	return uint32(frame[0]) | uint32(frame[1])<<8 | uint32(frame[2])<<16 | uint32(frame[3])<<24
}

func contains(s []uint32, v uint32) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func containsHook(s []pwrap.HookParams, v pwrap.HookParams) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
