// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pwrap

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// transfer is the token passed with control from one context to the other.
type transfer uint8

const (
	// transferRun starts or resumes the engine context.
	transferRun transfer = iota + 1
	// transferYield hands control back to the driver.
	transferYield
	// transferExit tells the engine context to unwind and terminate.
	transferExit
	// transferExited acknowledges transferExit.
	transferExited
)

// handoffDispatcher is the structural interface for handoff operations.
// DispatchHandoff is non-blocking: it returns iox.ErrWouldBlock when the
// peer has not yet produced or consumed the token.
type handoffDispatcher interface {
	DispatchHandoff(l *link) (kont.Resumed, error)
}

// signal is the effect operation that passes a token to the peer context.
type signal struct {
	kont.Phantom[struct{}]
	kind transfer
}

// DispatchHandoff handles signal on the link.
// Non-blocking: returns iox.ErrWouldBlock if the peer still holds a token.
func (s signal) DispatchHandoff(l *link) (kont.Resumed, error) {
	v := s.kind
	if err := l.out.Enqueue(&v); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// await is the effect operation that takes the next token from the peer.
type await struct {
	kont.Phantom[transfer]
}

// DispatchHandoff handles await on the link.
// Non-blocking: returns iox.ErrWouldBlock while the peer still runs.
func (await) DispatchHandoff(l *link) (kont.Resumed, error) {
	v, err := l.in.Dequeue()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// handoff passes kind to the peer and waits for control to come back.
func handoff(kind transfer) kont.Eff[transfer] {
	return kont.Then(kont.Perform(signal{kind: kind}), kont.Perform(await{}))
}

// handoffHandler implements kont.Handler for handoff effects.
// Waits on iox.ErrWouldBlock, so the calling goroutine parks at the
// handoff point until the peer passes control back.
type handoffHandler[R any] struct {
	l *link
}

// Dispatch implements kont.Handler via structural interface assertion.
func (h handoffHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	hop, ok := op.(handoffDispatcher)
	if !ok {
		panic("pwrap: unhandled effect in handoffHandler")
	}
	return dispatchWait(h.l, hop), true
}

// dispatchWait blocks until DispatchHandoff succeeds, backing off on
// iox.ErrWouldBlock with iox.Backoff.
func dispatchWait(l *link, hop handoffDispatcher) kont.Resumed {
	var bo iox.Backoff
	for {
		v, err := hop.DispatchHandoff(l)
		if err == nil {
			return v
		}
		bo.Wait()
	}
}

// exchange passes kind to the peer and returns the token the peer passes
// back when it hands control over again.
func (l *link) exchange(kind transfer) transfer {
	return kont.Handle(handoff(kind), handoffHandler[transfer]{l: l})
}

// receive waits for the first token from the peer.
func (l *link) receive() transfer {
	return kont.Handle(kont.Perform(await{}), handoffHandler[transfer]{l: l})
}

// send passes kind to the peer without waiting for an answer.
func (l *link) send(kind transfer) {
	kont.Handle(kont.Perform(signal{kind: kind}), handoffHandler[struct{}]{l: l})
}
