// Package audio plays the named sound events of the room: door, fix,
// strike, round results and the existential music stings.
package audio

// Player plays a named sound event. Unknown keys are ignored.
type Player interface {
	Play(key string)
}

// Silent discards every event. Used in tests, headless runs and when the
// speaker cannot be opened.
type Silent struct{}

// Play does nothing.
func (Silent) Play(string) {}
