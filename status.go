// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import "strconv"

// Status is the state of the engine context as seen by the driver.
//
// The driver only ever observes Status after control has been handed back
// to it, so StatusRunning is never visible after a Dispatch returns.
type Status int32

const (
	// StatusIdle means no command is in flight. A new command may be issued.
	StatusIdle Status = iota
	// StatusRunning means a command owns the engine context.
	StatusRunning
	// StatusSuspended means the engine context broke out of a command.
	// Comm.Reason says why; the driver may issue queries, then Resume.
	StatusSuspended
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusRunning:
		return "Running"
	case StatusSuspended:
		return "Suspended"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}
