package round

// Outcome is how a round ended.
type Outcome int

const (
	Passed Outcome = iota
	Failed
	Won
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Won:
		return "won"
	default:
		return "unknown"
	}
}

// Reason explains a judgment.
type Reason string

const (
	ReasonClean              Reason = "clean"
	ReasonEscapedExistential Reason = "escaped-existential"
	ReasonWrongDoor          Reason = "wrong-door"
	ReasonAnomalyMissed      Reason = "anomaly-missed"
	ReasonEntranceMisused    Reason = "entrance-misused"
	ReasonStrikes            Reason = "strikes"
	ReasonCleared            Reason = "cleared"
)

// Result describes one judged round.
type Result struct {
	Outcome Outcome
	Round   int // Zero-based round that was judged
	Reason  Reason
	Fixes   int
	Strikes int
}

// Listener is notified whenever a round is judged.
type Listener interface {
	RoundEnded(r Result)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(r Result)

// RoundEnded calls fn.
func (fn ListenerFunc) RoundEnded(r Result) {
	fn(r)
}
