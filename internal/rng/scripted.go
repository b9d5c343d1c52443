package rng

// Scripted replays fixed values, then falls back to a seeded Source.
// Floats and ints are consumed from independent queues.
type Scripted struct {
	Floats []float64
	Ints   []int

	fallback Source
}

// NewScripted creates a Scripted source with the given queues.
func NewScripted(floats []float64, ints []int) *Scripted {
	return &Scripted{Floats: floats, Ints: ints, fallback: New(1)}
}

// Float64 returns the next scripted float.
func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		return s.fallbackSource().Float64()
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

// IntN returns the next scripted int reduced modulo n.
func (s *Scripted) IntN(n int) int {
	if len(s.Ints) == 0 {
		return s.fallbackSource().IntN(n)
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 {
		v = -v
	}
	return v % n
}

func (s *Scripted) fallbackSource() Source {
	if s.fallback == nil {
		s.fallback = New(1)
	}
	return s.fallback
}
