// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import "strconv"

// Message identifies a request, a core signal, or a break reason.
//
// The enumeration is closed and totally ordered. Drivers that speak the
// flat block exchange these values as int32, so new members are appended
// at the end of their family and never inserted.
//
// Families:
//   - query: driver→core, answered immediately, never switches context.
//   - cmd: driver→core, runs on the engine context until it breaks.
//   - sig: core→driver, a synchronous request raised from the engine context.
//   - brk: core→driver, the engine context has suspended.
type Message int32

const (
	MsgNotSet Message = iota

	MsgResume

	MsgQueryFirst
	MsgQueryGetMemorySize
	MsgQueryPeek
	MsgQueryPoke
	MsgQuerySerializeSize
	MsgQuerySetColorLUT
	MsgQueryGetMemoryIDName
	MsgQueryStateHookExec
	MsgQueryStateHookRead
	MsgQueryStateHookWrite
	MsgQueryStateHookNMI
	MsgQueryStateHookIRQ
	MsgQueryStateHookExecSMP
	MsgQueryStateHookReadSMP
	MsgQueryStateHookWriteSMP
	MsgQueryEnableTrace
	MsgQueryEnableScanline
	MsgQueryEnableAudio
	MsgQuerySetLayerEnable
	MsgQuerySetBackdropColor
	MsgQueryPeekLogicalRegister
	MsgQueryPeekCPURegs
	MsgQuerySetCDL
	MsgQueryLast

	MsgCmdFirst
	MsgCmdInit
	MsgCmdPower
	MsgCmdReset
	MsgCmdRun
	MsgCmdSerialize
	MsgCmdUnserialize
	MsgCmdLoadCartridgeNormal
	MsgCmdLoadCartridgeSGB
	MsgCmdTerm
	MsgCmdUnloadCartridge
	MsgCmdLast

	MsgSigVideoRefresh
	MsgSigInputPoll
	MsgSigInputState
	MsgSigNoLag
	MsgSigAudioFlush
	MsgSigPathRequest
	MsgSigTraceCallback
	MsgSigAllocSharedMemory
	MsgSigFreeSharedMemory

	MsgBrkComplete
	MsgBrkHookExec
	MsgBrkHookRead
	MsgBrkHookWrite
	MsgBrkHookNMI
	MsgBrkHookIRQ
	MsgBrkHookExecSMP
	MsgBrkHookReadSMP
	MsgBrkHookWriteSMP
	MsgBrkScanlineStart
)

// commandCount is the number of command ids between MsgCmdFirst and MsgCmdLast.
const commandCount = int(MsgCmdLast - MsgCmdFirst - 1)

// IsQuery reports whether m is a query id.
func (m Message) IsQuery() bool { return m > MsgQueryFirst && m < MsgQueryLast }

// IsCommand reports whether m is a command id.
func (m Message) IsCommand() bool { return m > MsgCmdFirst && m < MsgCmdLast }

// IsSignal reports whether m is a core signal.
func (m Message) IsSignal() bool { return m >= MsgSigVideoRefresh && m <= MsgSigFreeSharedMemory }

// IsBreak reports whether m is a break reason.
func (m Message) IsBreak() bool { return m >= MsgBrkComplete && m <= MsgBrkScanlineStart }

var messageNames = [...]string{
	MsgNotSet:                   "NotSet",
	MsgResume:                   "Resume",
	MsgQueryFirst:               "QUERY_FIRST",
	MsgQueryGetMemorySize:       "QUERY_get_memory_size",
	MsgQueryPeek:                "QUERY_peek",
	MsgQueryPoke:                "QUERY_poke",
	MsgQuerySerializeSize:       "QUERY_serialize_size",
	MsgQuerySetColorLUT:         "QUERY_set_color_lut",
	MsgQueryGetMemoryIDName:     "QUERY_GetMemoryIdName",
	MsgQueryStateHookExec:       "QUERY_state_hook_exec",
	MsgQueryStateHookRead:       "QUERY_state_hook_read",
	MsgQueryStateHookWrite:      "QUERY_state_hook_write",
	MsgQueryStateHookNMI:        "QUERY_state_hook_nmi",
	MsgQueryStateHookIRQ:        "QUERY_state_hook_irq",
	MsgQueryStateHookExecSMP:    "QUERY_state_hook_exec_smp",
	MsgQueryStateHookReadSMP:    "QUERY_state_hook_read_smp",
	MsgQueryStateHookWriteSMP:   "QUERY_state_hook_write_smp",
	MsgQueryEnableTrace:         "QUERY_enable_trace",
	MsgQueryEnableScanline:      "QUERY_enable_scanline",
	MsgQueryEnableAudio:         "QUERY_enable_audio",
	MsgQuerySetLayerEnable:      "QUERY_set_layer_enable",
	MsgQuerySetBackdropColor:    "QUERY_set_backdropColor",
	MsgQueryPeekLogicalRegister: "QUERY_peek_logical_register",
	MsgQueryPeekCPURegs:         "QUERY_peek_cpu_regs",
	MsgQuerySetCDL:              "QUERY_set_cdl",
	MsgQueryLast:                "QUERY_LAST",
	MsgCmdFirst:                 "CMD_FIRST",
	MsgCmdInit:                  "CMD_init",
	MsgCmdPower:                 "CMD_power",
	MsgCmdReset:                 "CMD_reset",
	MsgCmdRun:                   "CMD_run",
	MsgCmdSerialize:             "CMD_serialize",
	MsgCmdUnserialize:           "CMD_unserialize",
	MsgCmdLoadCartridgeNormal:   "CMD_load_cartridge_normal",
	MsgCmdLoadCartridgeSGB:      "CMD_load_cartridge_sgb",
	MsgCmdTerm:                  "CMD_term",
	MsgCmdUnloadCartridge:       "CMD_unload_cartridge",
	MsgCmdLast:                  "CMD_LAST",
	MsgSigVideoRefresh:          "SIG_video_refresh",
	MsgSigInputPoll:             "SIG_input_poll",
	MsgSigInputState:            "SIG_input_state",
	MsgSigNoLag:                 "SIG_no_lag",
	MsgSigAudioFlush:            "SIG_audio_flush",
	MsgSigPathRequest:           "SIG_path_request",
	MsgSigTraceCallback:         "SIG_trace_callback",
	MsgSigAllocSharedMemory:     "SIG_allocSharedMemory",
	MsgSigFreeSharedMemory:      "SIG_freeSharedMemory",
	MsgBrkComplete:              "BRK_Complete",
	MsgBrkHookExec:              "BRK_hook_exec",
	MsgBrkHookRead:              "BRK_hook_read",
	MsgBrkHookWrite:             "BRK_hook_write",
	MsgBrkHookNMI:               "BRK_hook_nmi",
	MsgBrkHookIRQ:               "BRK_hook_irq",
	MsgBrkHookExecSMP:           "BRK_hook_exec_smp",
	MsgBrkHookReadSMP:           "BRK_hook_read_smp",
	MsgBrkHookWriteSMP:          "BRK_hook_write_smp",
	MsgBrkScanlineStart:         "BRK_scanlineStart",
}

func (m Message) String() string {
	if m >= 0 && int(m) < len(messageNames) {
		return messageNames[m]
	}
	return "Message(" + strconv.Itoa(int(m)) + ")"
}
