// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

// MemoryID names a memory region of the emulated machine.
// Values are opaque to the protocol; the machine defines them.
type MemoryID uint32

// Device is a controller device id connected to a port.
type Device int32

const (
	DeviceNone Device = iota
	DeviceJoypad
	DeviceMultitap
	DeviceMouse
	DeviceSuperScope
	DeviceJustifier
	DeviceJustifiers
)

// CPURegs is a register snapshot of the main CPU.
// It mirrors the 24-byte cpuregs record of the flat block.
type CPURegs struct {
	PC     uint32
	A      uint16
	X      uint16
	Y      uint16
	S      uint16
	D      uint16
	Vector uint16
	P      uint8
	DB     uint8
	V      uint16
	H      uint16
}

// LayerEnables selects which background and sprite priority layers are drawn.
type LayerEnables struct {
	BG1Prio0, BG1Prio1 bool
	BG2Prio0, BG2Prio1 bool
	BG3Prio0, BG3Prio1 bool
	BG4Prio0, BG4Prio1 bool
	ObjPrio0, ObjPrio1 bool
	ObjPrio2, ObjPrio3 bool
}

// HookParams is valid while Reason is one of the BRK_hook_* exec, read or
// write reasons. Value is set for write hooks only.
type HookParams struct {
	Addr  uint32
	Value uint8
}

// InputParams is valid while Reason is MsgSigInputState.
// The driver stores the answer in State before it resumes.
type InputParams struct {
	Port   int32
	Device Device
	Index  int32
	ID     int32
	State  int16
}

// VideoParams is valid while Reason is MsgSigVideoRefresh.
// The frame itself is in Buf[0].
type VideoParams struct {
	Width  int32
	Height int32
}

// CDLBlockCount is the number of code/data log blocks.
const CDLBlockCount = 16

// Comm is the shared control block.
//
// Exactly one execution context is active at a time, so Comm carries no
// lock. The driver may read or write any field between Dispatch calls; the
// engine context reads and writes it only while it holds control.
type Comm struct {
	// Cmd is the command being executed.
	Cmd Message
	// Status is the state of the engine context.
	Status Status
	// Reason is the signal or break the engine context is halted in.
	// After a command completes it holds MsgBrkComplete.
	Reason Message

	Hook     HookParams
	Input    InputParams
	Video    VideoParams
	Scanline int32
	Trace    string

	// Value and Str carry scalar query results. OK is the result of
	// commands that can fail.
	Value uint32
	Str   string
	OK    bool

	Ports  [2]Device
	Layers LayerEnables
	CDL    [CDLBlockCount][]byte

	CPURegs CPURegs

	// Region and Mapper are captured when a cartridge loads and can be read
	// at any time.
	Region uint32
	Mapper uint32

	Buf [SlotCount]Slot
}

// reset zeroes the block and releases every slot.
func (c *Comm) reset() {
	for i := range c.Buf {
		c.Buf[i].release()
	}
	*c = Comm{}
}
