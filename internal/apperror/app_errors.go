package apperror

import "errors"

// Illegal move reasons. Callers use these to tell a stale UI ("retry")
// from a protocol violation.
var (
	ErrGameOver       = errors.New("game is already over")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrWrongSubBoard  = errors.New("move is outside the active sub-board")
	ErrSubBoardClosed = errors.New("sub-board is already decided or full")
	ErrCellOccupied   = errors.New("cell is already occupied")
)

var (
	ErrGameIsNotStarted  = errors.New("game is not started")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomFull          = errors.New("room is full")
	ErrRoomAlreadyExists = errors.New("room already exists")
)
