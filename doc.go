// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pwrap provides the request/response control protocol between a
// host driver and an emulator engine that runs on its own context.
//
// Control is handed back and forth synchronously: at any instant either the
// driver or the engine runs, never both. The engine yields control back at
// every break (a debugger hook, a signal that needs data from the driver, or
// command completion), and the driver continues it with [Resume].
//
// # Architecture
//
//   - Control block: [Comm] is the single shared record. It carries the
//     current [Status], the [Message] that caused the last suspension, hook
//     and input parameters, and three buffer [Slot]s.
//   - Engine context: a goroutine created lazily by the first command. The
//     handoff is a single-slot rendezvous per direction over lock-free SPSC
//     queues ([code.hybscloud.com/lfq]), performed as [code.hybscloud.com/kont]
//     effects and waited out with [code.hybscloud.com/iox.Backoff].
//   - Dispatch: [Protocol.Dispatch] routes a [Request] by kind. Queries run on
//     the driver without a context switch. Commands bind to the engine and run
//     until completion or a break. Resume continues a suspended engine.
//   - Machine: the emulated system is a [Machine]. The package snes provides
//     one over a 65c816 CPU and a LoROM bus.
//
// # Status
//
// After every [Protocol.Dispatch] returns, Status is [StatusIdle] or
// [StatusSuspended]; [StatusRunning] is only observable from hooks running on
// the engine context. A command dispatched while not idle is reported and
// ignored.
//
// # Buffers
//
// [Protocol.CopyIn] gives the protocol its own copy of the caller's bytes.
// [Protocol.Stash] borrows the caller's slice without copying; the caller must
// keep it unchanged until the next command that reads the slot has finished.
//
// # Flat block
//
// Drivers built against the fixed byte layout use [Protocol.DispatchBlock],
// which decodes a request from a [BlockSize] byte block and writes the control
// block back with [EncodeBlock].
//
// # Example
//
//	p := pwrap.New(machine, pwrap.WithLogger(logger))
//	p.CopyIn(0, []byte("game.sfc"))
//	p.Stash(1, rom)
//	p.Dispatch(pwrap.CmdLoadCartridgeNormal{})
//	p.Dispatch(pwrap.StateHook{Kind: pwrap.HookExec, Enable: true})
//	p.Dispatch(pwrap.CmdRun{})
//	for p.Comm().Status == pwrap.StatusSuspended {
//		p.Dispatch(pwrap.Resume{})
//	}
package pwrap
