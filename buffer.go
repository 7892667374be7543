// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import "go.uber.org/zap"

// SlotCount is the number of transferable buffer slots in Comm.
const SlotCount = 3

// Ownership says who owns the memory behind a Slot.
type Ownership uint8

const (
	// OwnershipNone means the slot is empty.
	OwnershipNone Ownership = iota
	// OwnedCopy means the protocol allocated the memory and releases it on
	// the next CopyIn or Stash of the slot, or at teardown.
	OwnedCopy
	// Borrowed means the memory belongs to the caller of Stash, who must
	// keep it alive and unmodified for as long as a command may read it.
	Borrowed
)

func (o Ownership) String() string {
	switch o {
	case OwnedCopy:
		return "OwnedCopy"
	case Borrowed:
		return "Borrowed"
	}
	return "None"
}

// Slot is one transferable buffer of Comm.
type Slot struct {
	data []byte
	own  Ownership
}

// Bytes returns the slot contents. The slice aliases the slot's memory;
// an owned copy is valid until the slot is overwritten or torn down.
func (s *Slot) Bytes() []byte { return s.data }

// Len returns the slot size in bytes.
func (s *Slot) Len() int { return len(s.data) }

// Ownership returns the ownership mode of the slot.
func (s *Slot) Ownership() Ownership { return s.own }

// copyIn installs a private copy of src.
func (s *Slot) copyIn(src []byte) {
	buf := make([]byte, len(src))
	copy(buf, src)
	s.release()
	s.data = buf
	s.own = OwnedCopy
}

// adopt installs buf, freshly allocated by the caller, as an owned copy.
func (s *Slot) adopt(buf []byte) {
	s.release()
	s.data = buf
	s.own = OwnedCopy
}

// stash installs buf without copying.
func (s *Slot) stash(buf []byte) {
	s.release()
	if buf == nil {
		return
	}
	s.data = buf
	s.own = Borrowed
}

// release drops an owned copy. Borrowed memory is only forgotten.
func (s *Slot) release() {
	if s.own == OwnedCopy {
		clear(s.data)
	}
	s.data = nil
	s.own = OwnershipNone
}

// CopyIn copies src into a fresh allocation owned by the slot.
// Use it when src may change or go away before it is consumed,
// such as results handed from the core to the driver.
func (p *Protocol) CopyIn(slot int, src []byte) {
	if !p.validSlot(slot) {
		return
	}
	p.comm.Buf[slot].copyIn(src)
}

// Stash installs buf in the slot as borrowed memory; nothing is allocated
// or copied. The caller guarantees buf outlives the next command that reads
// the slot, such as a large ROM image handed to a load command.
func (p *Protocol) Stash(slot int, buf []byte) {
	if !p.validSlot(slot) {
		return
	}
	p.comm.Buf[slot].stash(buf)
}

func (p *Protocol) validSlot(slot int) bool {
	if slot < 0 || slot >= SlotCount {
		p.log.Warn("buffer slot out of range", zap.Int("slot", slot))
		return false
	}
	return true
}
