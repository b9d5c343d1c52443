// Package task runs cooperative, tick-driven sequences.
// A Task is resumed once per simulation tick and reports when it is done;
// there is no preemption, so every long-running task polls its own
// cancellation condition between steps.
package task

// Frame carries the time that passed during one tick.
type Frame struct {
	Delta    float64 // Scaled seconds (affected by the room's time scale)
	Unscaled float64 // Real seconds
}

// Task is a resumable unit of work.
type Task interface {
	// Step advances the task by one frame and reports whether it finished.
	Step(f Frame) bool
}

// Func adapts a function to the Task interface.
type Func func(f Frame) bool

// Step calls fn.
func (fn Func) Step(f Frame) bool {
	return fn(f)
}

// Do runs fn once and finishes in the same step.
func Do(fn func()) Task {
	return Func(func(Frame) bool {
		fn()
		return true
	})
}

// Defer builds the task lazily on its first step.
// Use it when a task must capture state at the moment it starts running.
func Defer(build func() Task) Task {
	var t Task
	return Func(func(f Frame) bool {
		if t == nil {
			t = build()
			if t == nil {
				return true
			}
		}
		return t.Step(f)
	})
}

// Wait finishes after the given number of scaled seconds.
func Wait(seconds float64) Task {
	elapsed := 0.0
	return Func(func(f Frame) bool {
		elapsed += f.Delta
		return elapsed >= seconds
	})
}

// WaitRealtime finishes after the given number of real seconds.
func WaitRealtime(seconds float64) Task {
	elapsed := 0.0
	return Func(func(f Frame) bool {
		elapsed += f.Unscaled
		return elapsed >= seconds
	})
}

// While steps fn every frame for as long as cond holds.
func While(cond func() bool, fn func(f Frame)) Task {
	return Func(func(f Frame) bool {
		if !cond() {
			return true
		}
		fn(f)
		return false
	})
}

// Loop runs a fresh body task back to back while cond holds.
// A new body never starts in the frame the previous one finished.
func Loop(cond func() bool, body func() Task) Task {
	var cur Task
	return Func(func(f Frame) bool {
		if cur == nil {
			if !cond() {
				return true
			}
			cur = body()
		}
		if cur.Step(f) {
			cur = nil
		}
		return false
	})
}

// Tween calls apply with progress in (0, 1] every frame until duration
// seconds have elapsed. Realtime tweens ignore the time scale.
func Tween(duration float64, realtime bool, apply func(t float64)) Task {
	elapsed := 0.0
	return Func(func(f Frame) bool {
		if realtime {
			elapsed += f.Unscaled
		} else {
			elapsed += f.Delta
		}
		if duration <= 0 || elapsed >= duration {
			apply(1)
			return true
		}
		apply(elapsed / duration)
		return false
	})
}
