// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

// Machine is the emulated system behind the engine context.
//
// Command methods (Init through Unserialize) run on the engine context and
// may call back into the Hooks passed to Attach; a hook call suspends the
// engine and returns when the driver resumes. Query methods run on the
// driver goroutine and must not call hooks.
type Machine interface {
	// Attach hands the machine the hooks it calls while commands run.
	// It is called once, before any command.
	Attach(h *Hooks)

	Init(value uint32, ports [2]Device)
	Power()
	Reset()
	// RunFrame emulates one video frame.
	RunFrame()
	// LoadCartridge loads a cartridge image and reports success.
	LoadCartridge(name string, rom []byte) bool
	// LoadCartridgeSGB loads a Super Game Boy base ROM and a Game Boy ROM.
	LoadCartridgeSGB(name string, rom, gb []byte) bool
	Term()
	Unload()
	Serialize() ([]byte, error)
	Unserialize(data []byte) error

	MemorySize(id MemoryID) uint32
	// Peek and Poke access memory without firing hooks. They report false
	// for an unknown id or an address outside the region.
	Peek(id MemoryID, addr uint32) (uint8, bool)
	Poke(id MemoryID, addr uint32, value uint8) bool
	MemoryIDName(id MemoryID) string
	LogicalRegister(id uint32) uint32
	CPURegs() CPURegs
	Region() uint32
	Mapper() uint32
}

// StateApplier is implemented by machines whose presentation layer needs
// to refresh after a bulk state load.
type StateApplier interface {
	PostLoadState()
}

// Display is implemented by machines that honor layer and backdrop
// overrides.
type Display interface {
	SetLayerEnables(l LayerEnables)
	SetBackdropColor(color uint32)
}

// CodeDataLogger is implemented by machines that record code/data access
// flags into driver-owned blocks.
type CodeDataLogger interface {
	SetCDL(blocks [CDLBlockCount][]byte)
}
