package mines

type Status int8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}

func (s Status) Over() bool {
	return s == Won || s == Lost
}

// RevealOutcome is the result of a reveal that was accepted by the board.
type RevealOutcome int8

const (
	Continued RevealOutcome = iota
	MineHit
	Victory
	AlreadyRevealed
	CellIsFlagged
)

func (o RevealOutcome) String() string {
	switch o {
	case Continued:
		return "continued"
	case MineHit:
		return "mine hit"
	case Victory:
		return "won"
	case AlreadyRevealed:
		return "already revealed"
	case CellIsFlagged:
		return "cell is flagged"
	default:
		return "unknown"
	}
}
