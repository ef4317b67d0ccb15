package game

// Move is one action of the active player. The set of implementations is
// closed, see move.go.
type Move interface {
	Action() ActionType
	String() string
	isMove()
}

type StateHash uint64

// Stage is the coarse state of a game.
type Stage int

const (
	NotStarted Stage = iota
	InitPlacement
	PlacingKing
	Playing
	Ended
)

func (s Stage) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InitPlacement:
		return "init_placement"
	case PlacingKing:
		return "king_placement"
	case Playing:
		return "playing"
	case Ended:
		return "ended"
	}
	return "unknown"
}
