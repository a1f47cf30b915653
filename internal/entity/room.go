package entity

const (
	StatusWaiting = "waiting"
	StatusInGame  = "in-game"
	StatusEnded   = "ended"

	RolePlayer1 = "player1"
	RolePlayer2 = "player2"

	// AnySubGrid means the mover may play in any open sub-board.
	AnySubGrid = -1
)

// Room is the shared document representing one online match. Field values
// mirror the wire contract; sub-board winners are deliberately absent and
// always recomputed locally from Board.
type Room struct {
	Code           string
	Player1        string
	Player1Name    string
	Player2        string
	Player2Name    string
	Status         string
	CurrentTurn    string
	CurrentSubGrid int
	Board          Board
	Winner         string
}

// NewRoom builds the initial document written by the creator: player1
// attached, waiting for an opponent, player1 to move anywhere.
func NewRoom(code, creatorID, creatorName string) *Room {
	return &Room{
		Code:           code,
		Player1:        creatorID,
		Player1Name:    creatorName,
		Status:         StatusWaiting,
		CurrentTurn:    RolePlayer1,
		CurrentSubGrid: AnySubGrid,
	}
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsInGame() bool {
	return that.Status == StatusInGame
}

func (that *Room) IsEnded() bool {
	return that.Status == StatusEnded
}

// HasBothPlayers reports whether both player identifiers have landed in the
// store. Clients must not enter the active game view before this holds.
func (that *Room) HasBothPlayers() bool {
	return that.Player1 != "" && that.Player2 != ""
}

// MarkFor maps a seat to its symbol: player1 always plays X.
func MarkFor(role string) string {
	if role == RolePlayer1 {
		return PlayerX
	}
	return PlayerO
}

// RoleFor maps a symbol back to its seat.
func RoleFor(mark string) string {
	if mark == PlayerX {
		return RolePlayer1
	}
	return RolePlayer2
}

func ToggleRole(role string) string {
	if role == RolePlayer1 {
		return RolePlayer2
	}
	return RolePlayer1
}

func ToggleMark(mark string) string {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}
