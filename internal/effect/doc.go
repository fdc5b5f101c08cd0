// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package effect provides continuation-passing style primitives and algebraic
// effects used to drive the explorer in package explore.
//
// The core type [Cont] represents a computation that accepts a continuation
// and produces a final result. Explorer iterations are expressed as
// effectful computations over [Cont]; the State, Reader, Writer, and Error
// effects below thread the explorer's worklist/visited/graph bookkeeping,
// the semantics interface, the transition-graph output, and fatal
// invariant violations respectively through a single Dispatch call per
// effect rather than hand-threaded parameters.
//
// First-class/reified continuations (capture-and-replay of a control
// context) are out of scope: the explorer's Non-goals exclude them, and
// this package accordingly omits delimited control operators. Continuations
// here are used once and discarded by construction.
//
// # F-Bounded Architecture
//
// The package uses Go F-bounded polymorphism (type T[P T[P]]) so handler
// and operation dispatch is resolved at compile time rather than through a
// closure captured per call:
//
//   - [Op]: type Op[O Op[O, A], A any] — operations know their concrete type
//   - [Handler]: type Handler[H Handler[H, R], R any] — handlers know their concrete type
//
// # Core Operations
//
// Minimal monad operations:
//
//   - [Return]: Lift a pure value into a continuation
//   - [Bind]: Sequence two continuations
//
// Derived operations:
//
//   - [Map]: Apply a function to the result — equivalent to Bind(m, func(a) Return(f(a)))
//   - [Then]: Sequence, discarding first result — equivalent to Bind(m, func(_) n)
//
// Execution:
//
//   - [Suspend]: Create a continuation from a CPS function
//   - [Run]: Execute a computation whose result type equals its value type
//   - [RunWith]: Execute with a custom final continuation
//
// # Stepping Boundary
//
// [Step] provides one-effect-at-a-time evaluation for external drivers —
// the interactive explorer (cmd/aamctl step) uses it to pause after each
// worklist iteration and hand control back to the terminal, instead of
// running the explorer to a fixed point synchronously via [Handle].
//
// Nil completion convention: effect runners and stepping treat a nil
// [Resumed] value as "completed with the zero value". This implies
// computations whose final result type is a pointer or interface cannot
// use nil as a meaningful result value; wrap such results in [Either] if
// "completed with nil" must be distinguished from "completed with zero".
//
//   - [Step]: Drive a [Cont] computation until it completes or suspends
//   - [Suspension]: Pending operation with one-shot resumption handle
//   - [Suspension.Op]: Returns the effect operation that caused the suspension
//   - [Suspension.Resume]: Advance to the next suspension or completion (panics on reuse)
//   - [Suspension.TryResume]: Non-panicking variant of Resume
//   - [Suspension.Discard]: Drop without invoking
//
// # Algebraic Effects
//
//   - [Op]: F-bounded effect operation interface
//   - [Operation]: Runtime type for effect operations
//   - [Resumed]: Runtime type for resumption values
//   - [Handler]: F-bounded effect interpreter interface
//   - [Perform]: Trigger an effect operation
//   - [Handle]: Run a computation with an F-bounded effect handler
//   - [HandleFunc]: Create a handler from a dispatch function
//
// # Standard Effects
//
// State effect for mutable state threading (the explorer's worklist,
// visited set, and halted set live here):
//
//   - [Get], [Put], [Modify]: Effect operations
//   - [GetState], [PutState], [ModifyState]: Fused convenience constructors
//   - [RunState], [EvalState], [ExecState]: Run with the State effect
//
// Reader effect for read-only environment (the machine, the explorer
// options, and the start time used for the timeout are supplied this way):
//
//   - [Ask]: Effect operation
//   - [AskReader], [MapReader]: Fused convenience constructors
//   - [RunReader]: Run with the Reader effect
//
// Writer effect for accumulating output (transition-graph edges are
// told rather than appended to a threaded slice):
//
//   - [WriterContext]: Shared context for writer dispatch
//   - [Tell], [Listen], [Censor]: Effect operations
//   - [TellWriter], [ListenWriter], [CensorWriter]: Convenience constructors
//   - [RunWriter], [ExecWriter]: Run with the Writer effect
//   - [Pair]: Tuple type for Listen results
//
// Error effect for exception-like control flow (fatal continuation-store
// invariant violations propagate this way, never as a panic):
//
//   - [Throw], [Catch]: Effect operations
//   - [ErrorContext]: Shared context for error dispatch
//   - [ThrowError], [CatchError]: Convenience constructors
//   - [RunError]: Run with the Error effect, returns [Either]
//
// # Composed Effects
//
// The explorer needs State, Reader, Writer, and Error simultaneously; see
// [RunExploreEffects] for the four-way composed handler, built the same way
// this package's own two- and three-way composed handlers are.
//
//   - [RunStateReader]: Run with State + Reader
//   - [RunStateError], [EvalStateError], [ExecStateError]: Run with State + Error
//   - [RunStateWriter]: Run with State + Writer
//   - [RunReaderStateError]: Run with Reader + State + Error
//   - [RunExploreEffects]: Run with Reader + State + Writer + Error
//
// # Either Type
//
//   - [Left], [Right]: Constructors
//   - [Either.IsLeft], [Either.IsRight]: Predicates
//   - [Either.GetLeft], [Either.GetRight]: Accessors
//   - [MatchEither]: Pattern matching
//   - [MapEither], [FlatMapEither], [MapLeftEither]: Functor/monad operations
//
// # Affine Continuations
//
// [Affine] wraps a plain continuation with use-at-most-once
// enforcement. Every [Suspension] holds its pending resumption through
// an Affine, so an interactive driver that resumes twice fails loudly
// instead of corrupting the run.
//
//   - [Once]: Create an affine continuation
//   - [Affine.Resume]: Invoke (panics on reuse)
//   - [Affine.TryResume]: Non-panicking variant
//   - [Affine.Discard]: Drop without invoking
//
// # Example
//
//	type Ask[A any] struct{}
//	func (Ask[A]) OpResult() A { panic("phantom") }
//
//	comp := effect.Bind(
//		effect.Perform(Ask[int]{}),
//		func(x int) effect.Cont[effect.Resumed, int] {
//			return effect.Return[effect.Resumed](x * 2)
//		},
//	)
//
//	result := effect.Handle(comp, effect.HandleFunc[int](func(op effect.Operation) (effect.Resumed, bool) {
//		switch op.(type) {
//		case Ask[int]:
//			return 21, true // resume with 21
//		default:
//			panic("unhandled effect")
//		}
//	}))
//	// result == 42
package effect
