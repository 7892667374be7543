// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

// Request is a value the driver hands to Dispatch.
//
// Each request id has its own Go type carrying exactly the parameters it
// reads, so a handler can never pick up a field meant for another request.
type Request interface {
	Message() Message
}

// Resume continues a suspended engine context from where it broke.
type Resume struct{}

func (Resume) Message() Message { return MsgResume }

// Queries.

// GetMemorySize asks for the size of a memory region. Result in Comm.Value.
type GetMemorySize struct{ ID MemoryID }

// Peek reads one byte of a memory region. Result in Comm.Value.
type Peek struct {
	ID   MemoryID
	Addr uint32
}

// Poke writes one byte of a memory region.
type Poke struct {
	ID    MemoryID
	Addr  uint32
	Value uint8
}

// SerializeSize asks for the size of a serialized machine state.
// Result in Comm.Value.
type SerializeSize struct{}

// SetColorLUT hands a color lookup table to the presentation layer.
type SetColorLUT struct{ LUT []uint32 }

// GetMemoryIDName asks for the name of a memory region. Result in Comm.Str.
type GetMemoryIDName struct{ ID MemoryID }

// StateHook installs or removes one debug hook.
type StateHook struct {
	Kind   HookKind
	Enable bool
}

// EnableTrace turns instruction trace signals on or off.
type EnableTrace struct{ Enable bool }

// EnableScanline turns scanline start breaks on or off.
type EnableScanline struct{ Enable bool }

// EnableAudio turns audio flush signals on or off.
type EnableAudio struct{ Enable bool }

// SetLayerEnable selects the drawn layers.
type SetLayerEnable struct{ Layers LayerEnables }

// SetBackdropColor sets the backdrop color override.
type SetBackdropColor struct{ Color uint32 }

// PeekLogicalRegister reads a machine register by logical id.
// Result in Comm.Value.
type PeekLogicalRegister struct{ ID uint32 }

// PeekCPURegs snapshots the CPU registers into Comm.CPURegs.
type PeekCPURegs struct{}

// SetCDL installs code/data log blocks. The blocks are borrowed from the
// driver and written by the machine while commands run.
type SetCDL struct{ Blocks [CDLBlockCount][]byte }

func (GetMemorySize) Message() Message       { return MsgQueryGetMemorySize }
func (Peek) Message() Message                { return MsgQueryPeek }
func (Poke) Message() Message                { return MsgQueryPoke }
func (SerializeSize) Message() Message       { return MsgQuerySerializeSize }
func (SetColorLUT) Message() Message         { return MsgQuerySetColorLUT }
func (GetMemoryIDName) Message() Message     { return MsgQueryGetMemoryIDName }
func (EnableTrace) Message() Message         { return MsgQueryEnableTrace }
func (EnableScanline) Message() Message      { return MsgQueryEnableScanline }
func (EnableAudio) Message() Message         { return MsgQueryEnableAudio }
func (SetLayerEnable) Message() Message      { return MsgQuerySetLayerEnable }
func (SetBackdropColor) Message() Message    { return MsgQuerySetBackdropColor }
func (PeekLogicalRegister) Message() Message { return MsgQueryPeekLogicalRegister }
func (PeekCPURegs) Message() Message         { return MsgQueryPeekCPURegs }
func (SetCDL) Message() Message              { return MsgQuerySetCDL }

// Message returns the state_hook id for the hook kind, or MsgNotSet if
// Kind is out of range.
func (q StateHook) Message() Message {
	if !q.Kind.valid() {
		return MsgNotSet
	}
	return MsgQueryStateHookExec + Message(q.Kind)
}

// Commands.

// CmdInit initializes the machine and connects controller ports.
type CmdInit struct {
	Value uint32
	Ports [2]Device
}

// CmdPower power-cycles the machine.
type CmdPower struct{}

// CmdReset soft-resets the machine.
type CmdReset struct{}

// CmdRun runs the machine for one frame.
type CmdRun struct{}

// CmdSerialize saves the machine state into Buf[0]. Result in Comm.OK.
type CmdSerialize struct{}

// CmdUnserialize loads the machine state from Buf[0]. Result in Comm.OK.
type CmdUnserialize struct{}

// CmdLoadCartridgeNormal loads a cartridge: Buf[0] holds the name and
// Buf[1] the ROM image. Result in Comm.OK.
type CmdLoadCartridgeNormal struct{}

// CmdLoadCartridgeSGB loads a Super Game Boy cartridge: Buf[0] holds the
// name, Buf[1] the base ROM and Buf[2] the Game Boy ROM. Result in Comm.OK.
type CmdLoadCartridgeSGB struct{}

// CmdTerm shuts the machine down.
type CmdTerm struct{}

// CmdUnloadCartridge removes the cartridge.
type CmdUnloadCartridge struct{}

func (CmdInit) Message() Message                { return MsgCmdInit }
func (CmdPower) Message() Message               { return MsgCmdPower }
func (CmdReset) Message() Message               { return MsgCmdReset }
func (CmdRun) Message() Message                 { return MsgCmdRun }
func (CmdSerialize) Message() Message           { return MsgCmdSerialize }
func (CmdUnserialize) Message() Message         { return MsgCmdUnserialize }
func (CmdLoadCartridgeNormal) Message() Message { return MsgCmdLoadCartridgeNormal }
func (CmdLoadCartridgeSGB) Message() Message    { return MsgCmdLoadCartridgeSGB }
func (CmdTerm) Message() Message                { return MsgCmdTerm }
func (CmdUnloadCartridge) Message() Message     { return MsgCmdUnloadCartridge }
