package session

import "github.com/gridrush/ultimate-tictactoe/internal/entity"

type EventKind string

const (
	// EventWaiting - the room is open and waiting for a second player.
	EventWaiting EventKind = "waiting"
	// EventStarted - both player identifiers are populated and the game is
	// live; fired again after a rematch.
	EventStarted EventKind = "started"
	// EventBoard - a fresh in-game snapshot to render.
	EventBoard EventKind = "board"
	// EventEnded - the game concluded with a winner or a draw.
	EventEnded EventKind = "ended"
	// EventRoomDeleted - the document vanished; the creator abandoned the
	// room. Distinct from EventEnded.
	EventRoomDeleted EventKind = "room-deleted"
	// EventSyncError - a store read failed; local state is untouched.
	EventSyncError EventKind = "sync-error"
)

// Event is one lifecycle or board notification for the presentation layer.
// Room is a copy of the snapshot that triggered the event and is nil for
// EventRoomDeleted and EventSyncError.
type Event struct {
	Kind EventKind
	Room *entity.Room
	Err  error
}
