// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import "go.uber.org/zap"

// commandHandler runs one command on the engine context.
type commandHandler func(p *Protocol, req Request)

// commandTable maps each command id, offset from MsgCmdFirst+1, to its
// handler. The array length follows the Message enumeration, so a command
// appended there without a handler leaves a nil entry that TestCommandTable
// catches.
var commandTable = [commandCount]commandHandler{
	MsgCmdInit - MsgCmdFirst - 1:                cmdInit,
	MsgCmdPower - MsgCmdFirst - 1:               cmdPower,
	MsgCmdReset - MsgCmdFirst - 1:               cmdReset,
	MsgCmdRun - MsgCmdFirst - 1:                 cmdRun,
	MsgCmdSerialize - MsgCmdFirst - 1:           cmdSerialize,
	MsgCmdUnserialize - MsgCmdFirst - 1:         cmdUnserialize,
	MsgCmdLoadCartridgeNormal - MsgCmdFirst - 1: cmdLoadCartridgeNormal,
	MsgCmdLoadCartridgeSGB - MsgCmdFirst - 1:    cmdLoadCartridgeSGB,
	MsgCmdTerm - MsgCmdFirst - 1:                cmdTerm,
	MsgCmdUnloadCartridge - MsgCmdFirst - 1:     cmdUnloadCartridge,
}

// isCommandRequest reports whether req is one of the command types. A
// foreign type that merely returns a command id is not bound.
func isCommandRequest(req Request) bool {
	switch req.(type) {
	case CmdInit, CmdPower, CmdReset, CmdRun, CmdSerialize, CmdUnserialize,
		CmdLoadCartridgeNormal, CmdLoadCartridgeSGB, CmdTerm, CmdUnloadCartridge:
		return true
	}
	return false
}

func cmdInit(p *Protocol, req Request) {
	c := req.(CmdInit)
	p.comm.Ports = c.Ports
	p.m.Init(c.Value, c.Ports)
}

func cmdPower(p *Protocol, _ Request) { p.m.Power() }

func cmdReset(p *Protocol, _ Request) { p.m.Reset() }

func cmdRun(p *Protocol, _ Request) { p.m.RunFrame() }

func cmdSerialize(p *Protocol, _ Request) {
	data, err := p.m.Serialize()
	if err != nil {
		p.log.Warn("serialize failed", zap.Error(err))
		p.setOK(false)
		return
	}
	p.comm.Buf[0].adopt(data)
	p.setOK(true)
}

func cmdUnserialize(p *Protocol, _ Request) {
	if err := p.m.Unserialize(p.comm.Buf[0].Bytes()); err != nil {
		p.log.Warn("unserialize failed", zap.Error(err))
		p.setOK(false)
		return
	}
	p.setOK(true)
}

func cmdLoadCartridgeNormal(p *Protocol, _ Request) {
	ok := p.m.LoadCartridge(slotString(&p.comm.Buf[0]), p.comm.Buf[1].Bytes())
	p.setOK(ok)
	if ok {
		p.analyze()
	}
}

func cmdLoadCartridgeSGB(p *Protocol, _ Request) {
	ok := p.m.LoadCartridgeSGB(slotString(&p.comm.Buf[0]), p.comm.Buf[1].Bytes(), p.comm.Buf[2].Bytes())
	p.setOK(ok)
	if ok {
		p.analyze()
	}
}

func cmdTerm(p *Protocol, _ Request) { p.m.Term() }

func cmdUnloadCartridge(p *Protocol, _ Request) { p.m.Unload() }

// setOK records a command result. Value mirrors it for flat-block drivers.
func (p *Protocol) setOK(ok bool) {
	p.comm.OK = ok
	p.comm.Value = 0
	if ok {
		p.comm.Value = 1
	}
}

// analyze captures the static cartridge information that drivers read
// without a query.
func (p *Protocol) analyze() {
	p.comm.Mapper = p.m.Mapper()
	p.comm.Region = p.m.Region()
}

// slotString reads a slot as a string, stopping at the first NUL.
func slotString(s *Slot) string {
	b := s.Bytes()
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
