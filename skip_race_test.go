// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package pwrap_test

import "testing"

// skipRace skips tests that hand control between contexts.
// The race detector tracks per-variable happens-before and cannot
// see SPSC's cross-variable memory ordering (store-release on data,
// load-acquire on index), so every Comm access across a handoff is
// reported as a race.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: handoff uses SPSC cross-variable memory ordering")
}
