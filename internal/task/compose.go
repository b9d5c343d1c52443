package task

// Seq runs tasks one after another. When a child finishes, the next child
// is stepped in the same frame with zero elapsed time, so instant steps
// chain without losing a tick.
func Seq(tasks ...Task) Task {
	i := 0
	return Func(func(f Frame) bool {
		for i < len(tasks) {
			if !tasks[i].Step(f) {
				return false
			}
			i++
			f = Frame{}
		}
		return true
	})
}

// All steps every child each frame and finishes once all of them have.
func All(tasks ...Task) Task {
	done := make([]bool, len(tasks))
	return Func(func(f Frame) bool {
		finished := true
		for i, t := range tasks {
			if done[i] {
				continue
			}
			if t.Step(f) {
				done[i] = true
				continue
			}
			finished = false
		}
		return finished
	})
}
