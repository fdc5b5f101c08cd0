// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import "sync"

// An opMarker is the value an effectful computation returns up the CPS
// stack when it hits an operation: the pending op, the continuation and
// payload it was suspended with, and the strategy for resuming once a
// handler supplies a value. Markers are the unit of traffic between a
// computation and its handler, so they are pooled — the explorer crosses
// this boundary several times per worklist iteration.
type opMarker struct {
	op     Operation
	resume func(*opMarker, Resumed) Resumed
	f      any
	k      any
}

func (m *opMarker) Op() Operation            { return m.op }
func (m *opMarker) Resume(v Resumed) Resumed { return m.resume(m, v) }
func (m *opMarker) release()                 { putMarker(m) }

var markerPool = sync.Pool{
	New: func() any { return new(opMarker) },
}

func takeMarker() *opMarker {
	return markerPool.Get().(*opMarker)
}

func putMarker(m *opMarker) {
	m.op = nil
	m.resume = nil
	m.f = nil
	m.k = nil
	markerPool.Put(m)
}
