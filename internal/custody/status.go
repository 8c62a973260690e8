package custody

// Status is the wallet lifecycle phase.
type Status int

const (
	StatusAlive Status = iota
	StatusDeathClaimed
	StatusDead
)

func (s Status) String() string {
	switch s {
	case StatusAlive:
		return "alive"
	case StatusDeathClaimed:
		return "death_claimed"
	case StatusDead:
		return "dead"
	default:
		return "unknown"
	}
}
