// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import (
	"encoding/binary"
	"errors"

	"go.uber.org/zap"
)

// Byte offsets of the flat control block shared with drivers that were
// built against the fixed layout. Pointer-sized fields are 8 bytes.
const (
	OffCmd          = 0
	OffStatus       = 4
	OffReason       = 8
	OffStr          = 16
	OffPtr          = 24
	OffID           = 32
	OffAddr         = 36
	OffValue        = 40
	OffSize         = 44
	OffPort         = 48
	OffDevice       = 52
	OffIndex        = 56
	OffSlot         = 60
	OffWidth        = 64
	OffHeight       = 68
	OffScanline     = 72
	OffInports      = 76
	OffBuf          = 88
	OffBufSize      = 112
	OffCDLPtr       = 128
	OffCDLSize      = 256
	OffCPURegs      = 320
	OffLayerEnables = 344
	OffRegion       = 356
	OffMapper       = 360
	OffBlanko       = 364

	// BlockSize is the size of the public part of the block.
	BlockSize = 368
)

// Sizes of the embedded records.
const (
	cpuRegsSize      = 24
	layerEnablesSize = 12
)

var (
	// ErrShortBlock is returned for a block smaller than BlockSize.
	ErrShortBlock = errors.New("pwrap: control block too short")
	// ErrNotRepresentable is returned for requests whose parameters or
	// results are memory references or strings the flat block cannot carry.
	ErrNotRepresentable = errors.New("pwrap: request not representable in the flat block")
	// ErrNotRequest is returned for ids that a driver cannot issue.
	ErrNotRequest = errors.New("pwrap: message is not a request")
)

var le = binary.LittleEndian

// EncodeBlock writes the output fields of c into b at the fixed offsets.
// Input fields the driver owns (inports, layer enables, and id and addr
// outside a break) keep their values. The value field holds the payload of
// a write break or an input_state signal, and Comm.Value otherwise.
// Pointer fields are left alone; buffer and CDL sizes are written.
func EncodeBlock(c *Comm, b []byte) error {
	if len(b) < BlockSize {
		return ErrShortBlock
	}
	le.PutUint32(b[OffCmd:], uint32(c.Cmd))
	le.PutUint32(b[OffStatus:], uint32(c.Status))
	le.PutUint32(b[OffReason:], uint32(c.Reason))
	le.PutUint32(b[OffValue:], c.Value)

	if c.Status == StatusSuspended {
		switch c.Reason {
		case MsgBrkHookExec, MsgBrkHookRead, MsgBrkHookExecSMP, MsgBrkHookReadSMP:
			le.PutUint32(b[OffAddr:], c.Hook.Addr)
		case MsgBrkHookWrite, MsgBrkHookWriteSMP:
			le.PutUint32(b[OffAddr:], c.Hook.Addr)
			le.PutUint32(b[OffValue:], uint32(c.Hook.Value))
		case MsgSigInputState:
			le.PutUint32(b[OffPort:], uint32(c.Input.Port))
			le.PutUint32(b[OffDevice:], uint32(c.Input.Device))
			le.PutUint32(b[OffIndex:], uint32(c.Input.Index))
			le.PutUint32(b[OffID:], uint32(c.Input.ID))
			le.PutUint32(b[OffValue:], uint32(uint16(c.Input.State)))
		case MsgSigVideoRefresh:
			le.PutUint32(b[OffWidth:], uint32(c.Video.Width))
			le.PutUint32(b[OffHeight:], uint32(c.Video.Height))
		case MsgBrkScanlineStart:
			le.PutUint32(b[OffScanline:], uint32(c.Scanline))
		}
	}

	for i := range c.Buf {
		le.PutUint32(b[OffBufSize+4*i:], uint32(c.Buf[i].Len()))
	}
	for i := range c.CDL {
		le.PutUint32(b[OffCDLSize+4*i:], uint32(len(c.CDL[i])))
	}

	putCPURegs(b[OffCPURegs:OffCPURegs+cpuRegsSize], c.CPURegs)
	le.PutUint32(b[OffRegion:], c.Region)
	le.PutUint32(b[OffMapper:], c.Mapper)
	return nil
}

// DecodeRequest builds the request msg from the input fields of b.
func DecodeRequest(msg Message, b []byte) (Request, error) {
	if len(b) < BlockSize {
		return nil, ErrShortBlock
	}
	id := le.Uint32(b[OffID:])
	addr := le.Uint32(b[OffAddr:])
	value := le.Uint32(b[OffValue:])

	switch msg {
	case MsgResume:
		return Resume{}, nil
	case MsgQueryGetMemorySize:
		return GetMemorySize{ID: MemoryID(value)}, nil
	case MsgQueryPeek:
		return Peek{ID: MemoryID(id), Addr: addr}, nil
	case MsgQueryPoke:
		return Poke{ID: MemoryID(id), Addr: addr, Value: uint8(value)}, nil
	case MsgQuerySerializeSize:
		return SerializeSize{}, nil
	case MsgQuerySetColorLUT, MsgQuerySetCDL, MsgQueryGetMemoryIDName:
		return nil, ErrNotRepresentable
	case MsgQueryStateHookExec, MsgQueryStateHookRead, MsgQueryStateHookWrite,
		MsgQueryStateHookNMI, MsgQueryStateHookIRQ, MsgQueryStateHookExecSMP,
		MsgQueryStateHookReadSMP, MsgQueryStateHookWriteSMP:
		return StateHook{Kind: HookKind(msg - MsgQueryStateHookExec), Enable: value != 0}, nil
	case MsgQueryEnableTrace:
		return EnableTrace{Enable: value != 0}, nil
	case MsgQueryEnableScanline:
		return EnableScanline{Enable: value != 0}, nil
	case MsgQueryEnableAudio:
		return EnableAudio{Enable: value != 0}, nil
	case MsgQuerySetLayerEnable:
		return SetLayerEnable{Layers: layerEnables(b[OffLayerEnables : OffLayerEnables+layerEnablesSize])}, nil
	case MsgQuerySetBackdropColor:
		return SetBackdropColor{Color: value}, nil
	case MsgQueryPeekLogicalRegister:
		return PeekLogicalRegister{ID: id}, nil
	case MsgQueryPeekCPURegs:
		return PeekCPURegs{}, nil
	case MsgCmdInit:
		return CmdInit{
			Value: value,
			Ports: [2]Device{
				Device(int32(le.Uint32(b[OffInports:]))),
				Device(int32(le.Uint32(b[OffInports+4:]))),
			},
		}, nil
	case MsgCmdPower:
		return CmdPower{}, nil
	case MsgCmdReset:
		return CmdReset{}, nil
	case MsgCmdRun:
		return CmdRun{}, nil
	case MsgCmdSerialize:
		return CmdSerialize{}, nil
	case MsgCmdUnserialize:
		return CmdUnserialize{}, nil
	case MsgCmdLoadCartridgeNormal:
		return CmdLoadCartridgeNormal{}, nil
	case MsgCmdLoadCartridgeSGB:
		return CmdLoadCartridgeSGB{}, nil
	case MsgCmdTerm:
		return CmdTerm{}, nil
	case MsgCmdUnloadCartridge:
		return CmdUnloadCartridge{}, nil
	}
	return nil, ErrNotRequest
}

// DispatchBlock is Dispatch for drivers that speak the flat block: it
// decodes msg from block, dispatches it, and writes the outputs back into
// block. The value field is shared: it seeds Comm.Value before the request
// runs, unless it carries a break payload. On a Resume from an input_state
// signal it is the answer.
func (p *Protocol) DispatchBlock(msg Message, block []byte) {
	req, err := DecodeRequest(msg, block)
	if err != nil {
		p.log.Warn("undecodable request", zap.Stringer("msg", msg), zap.Error(err))
		return
	}
	value := le.Uint32(block[OffValue:])
	switch {
	case p.comm.Status == StatusSuspended && p.comm.Reason == MsgSigInputState:
		if msg == MsgResume {
			p.comm.Input.State = int16(value)
		}
	case p.comm.Status == StatusSuspended && (p.comm.Reason == MsgBrkHookWrite || p.comm.Reason == MsgBrkHookWriteSMP):
		// the value field still holds the written byte
	default:
		p.comm.Value = value
	}
	p.Dispatch(req)
	_ = EncodeBlock(&p.comm, block)
}

func putCPURegs(b []byte, r CPURegs) {
	le.PutUint32(b[0:], r.PC)
	le.PutUint16(b[4:], r.A)
	le.PutUint16(b[6:], r.X)
	le.PutUint16(b[8:], r.Y)
	le.PutUint16(b[10:], r.S)
	le.PutUint16(b[12:], r.D)
	le.PutUint16(b[14:], r.Vector)
	b[16] = r.P
	b[17] = r.DB
	b[18], b[19] = 0, 0
	le.PutUint16(b[20:], r.V)
	le.PutUint16(b[22:], r.H)
}

// CPURegsFromBlock decodes the cpuregs record of b.
func CPURegsFromBlock(b []byte) (CPURegs, error) {
	if len(b) < BlockSize {
		return CPURegs{}, ErrShortBlock
	}
	r := b[OffCPURegs : OffCPURegs+cpuRegsSize]
	return CPURegs{
		PC:     le.Uint32(r[0:]),
		A:      le.Uint16(r[4:]),
		X:      le.Uint16(r[6:]),
		Y:      le.Uint16(r[8:]),
		S:      le.Uint16(r[10:]),
		D:      le.Uint16(r[12:]),
		Vector: le.Uint16(r[14:]),
		P:      r[16],
		DB:     r[17],
		V:      le.Uint16(r[20:]),
		H:      le.Uint16(r[22:]),
	}, nil
}

func layerEnables(b []byte) LayerEnables {
	return LayerEnables{
		BG1Prio0: b[0] != 0, BG1Prio1: b[1] != 0,
		BG2Prio0: b[2] != 0, BG2Prio1: b[3] != 0,
		BG3Prio0: b[4] != 0, BG3Prio1: b[5] != 0,
		BG4Prio0: b[6] != 0, BG4Prio1: b[7] != 0,
		ObjPrio0: b[8] != 0, ObjPrio1: b[9] != 0,
		ObjPrio2: b[10] != 0, ObjPrio3: b[11] != 0,
	}
}
