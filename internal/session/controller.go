// Package session reconciles a local view of an online match against the
// shared room document. The store is passive: no transactions, no move
// ordering, no authority. The controller compensates by treating every
// full snapshot as the sole source of truth, validating moves against the
// last observed snapshot before publishing, and silently yielding when a
// racing peer wins a cell.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gridrush/ultimate-tictactoe/internal/apperror"
	"github.com/gridrush/ultimate-tictactoe/internal/entity"
	"github.com/gridrush/ultimate-tictactoe/internal/pkg"
	"github.com/gridrush/ultimate-tictactoe/internal/repository"
	"github.com/gridrush/ultimate-tictactoe/internal/rules"
)

type roomStore interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
	SetField(ctx context.Context, code, field string, value any) error
	DeleteFields(ctx context.Context, code string, fields ...string) error
	DeleteByCode(ctx context.Context, code string) error
	Subscribe(ctx context.Context, code string) (repository.Subscription, error)
}

// pendingMove is the one local write awaiting confirmation. It is never
// applied to the local board; the next snapshot either confirms it or
// shows the cell taken by the peer, in which case it is dropped.
type pendingMove struct {
	subGrid int
	cell    int
	mark    string
}

// Controller synchronizes one client's seat in one room.
type Controller struct {
	logger *slog.Logger
	store  roomStore
	code   string
	role   string
	mark   string

	mu       sync.Mutex
	lastRoom *entity.Room
	pending  *pendingMove
	started  bool
	ended    bool

	sub    repository.Subscription
	events chan Event
}

// Create opens a new room: generates a 5-digit code, writes the initial
// document and takes the player1 seat. A code collision is surfaced as
// apperror.ErrRoomAlreadyExists for the caller to retry.
func Create(ctx context.Context, logger *slog.Logger, store roomStore, playerID, playerName string) (*Controller, error) {
	code := pkg.GenerateRoomCode()

	room := entity.NewRoom(code, playerID, playerName)
	if err := store.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return newController(logger, store, code, entity.RolePlayer1), nil
}

// Join attaches this client as player2 and flips the room to in-game. The
// room must exist and the seat must be free.
func Join(ctx context.Context, logger *slog.Logger, store roomStore, code, playerID, playerName string) (*Controller, error) {
	room, err := store.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if room.Player2 != "" && room.Player2 != playerID {
		return nil, fmt.Errorf("%w: code %s", apperror.ErrRoomFull, code)
	}

	if err = store.SetField(ctx, code, repository.FieldPlayer2, playerID); err != nil {
		return nil, fmt.Errorf("failed to take player2 seat: %w", err)
	}

	if err = store.SetField(ctx, code, repository.FieldPlayer2Name, playerName); err != nil {
		return nil, fmt.Errorf("failed to set player2 name: %w", err)
	}

	if err = store.SetField(ctx, code, repository.FieldStatus, entity.StatusInGame); err != nil {
		return nil, fmt.Errorf("failed to start game: %w", err)
	}

	return newController(logger, store, code, entity.RolePlayer2), nil
}

func newController(logger *slog.Logger, store roomStore, code, role string) *Controller {
	return &Controller{
		logger: logger.With("component", "session", "room", code, "role", role),
		store:  store,
		code:   code,
		role:   role,
		mark:   entity.MarkFor(role),
		events: make(chan Event, 16),
	}
}

// Start subscribes to the room and begins delivering events. The events
// channel closes after Leave or when the subscription ends.
func (that *Controller) Start(ctx context.Context) error {
	sub, err := that.store.Subscribe(ctx, that.code)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	that.sub = sub

	go func() {
		defer close(that.events)

		for update := range sub.Updates() {
			that.apply(update)
		}
	}()

	return nil
}

func (that *Controller) Events() <-chan Event {
	return that.events
}

func (that *Controller) Code() string {
	return that.code
}

func (that *Controller) Role() string {
	return that.role
}

func (that *Controller) Mark() string {
	return that.mark
}

// Room returns a copy of the last observed snapshot, or nil before the
// first delivery.
func (that *Controller) Room() *entity.Room {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.lastRoom == nil {
		return nil
	}

	room := *that.lastRoom

	return &room
}

// MakeMove validates the move against the last observed snapshot, then
// publishes it as three independent field writes: the cell, the turn flip
// and the next sub-grid constraint. The writes are not grouped; the next
// snapshot, not the write acknowledgment, is ground truth. When the move
// decides the game this client also publishes winner/status.
func (that *Controller) MakeMove(ctx context.Context, subGrid, cell int) error {
	that.mu.Lock()

	room := that.lastRoom
	if room == nil || room.IsWaiting() {
		that.mu.Unlock()
		return apperror.ErrGameIsNotStarted
	}

	if room.IsEnded() {
		that.mu.Unlock()
		return apperror.ErrGameOver
	}

	turn := rules.TurnState{
		Active:  entity.MarkFor(room.CurrentTurn),
		SubGrid: room.CurrentSubGrid,
	}

	if err := rules.ValidateMove(&room.Board, turn, subGrid, cell, that.mark); err != nil {
		that.mu.Unlock()
		return err
	}

	// Project the move onto a scratch board to derive the next constraint
	// and check for a terminal outcome. The projection is not kept; the
	// local view only ever advances on snapshots.
	projected := room.Board
	if err := projected.ApplyMove(subGrid, cell, that.mark); err != nil {
		that.mu.Unlock()
		return fmt.Errorf("failed to project move: %w", err)
	}

	next := rules.NextTurn(&projected, turn, subGrid, cell)
	outcome := rules.Evaluate(&projected)

	that.pending = &pendingMove{subGrid: subGrid, cell: cell, mark: that.mark}
	that.mu.Unlock()

	if err := that.store.SetField(ctx, that.code, repository.BoardField(subGrid, cell), that.mark); err != nil {
		return fmt.Errorf("failed to publish cell: %w", err)
	}

	if err := that.store.SetField(ctx, that.code, repository.FieldCurrentTurn, entity.RoleFor(next.Active)); err != nil {
		return fmt.Errorf("failed to publish turn: %w", err)
	}

	if err := that.store.SetField(ctx, that.code, repository.FieldCurrentSubGrid, next.SubGrid); err != nil {
		return fmt.Errorf("failed to publish sub-grid: %w", err)
	}

	if outcome == entity.EmptyCell {
		return nil
	}

	if outcome != entity.PlayerTie {
		if err := that.store.SetField(ctx, that.code, repository.FieldWinner, entity.RoleFor(outcome)); err != nil {
			return fmt.Errorf("failed to publish winner: %w", err)
		}
	}

	if err := that.store.SetField(ctx, that.code, repository.FieldStatus, entity.StatusEnded); err != nil {
		return fmt.Errorf("failed to publish game end: %w", err)
	}

	return nil
}

// Rematch clears all 81 cells and the winner, then resets turn, constraint
// and status. Both clients may request it at once; every write carries the
// same values, so the double-reset is harmless.
func (that *Controller) Rematch(ctx context.Context) error {
	fields := append(repository.BoardFields(), repository.FieldWinner)
	if err := that.store.DeleteFields(ctx, that.code, fields...); err != nil {
		return fmt.Errorf("failed to clear board: %w", err)
	}

	if err := that.store.SetField(ctx, that.code, repository.FieldCurrentTurn, entity.RolePlayer1); err != nil {
		return fmt.Errorf("failed to reset turn: %w", err)
	}

	if err := that.store.SetField(ctx, that.code, repository.FieldCurrentSubGrid, entity.AnySubGrid); err != nil {
		return fmt.Errorf("failed to reset sub-grid: %w", err)
	}

	if err := that.store.SetField(ctx, that.code, repository.FieldStatus, entity.StatusInGame); err != nil {
		return fmt.Errorf("failed to restart game: %w", err)
	}

	that.mu.Lock()
	that.pending = nil
	that.mu.Unlock()

	return nil
}

// Leave detaches from the room. The creator deletes the document
// (best-effort); the joiner just stops listening.
func (that *Controller) Leave(ctx context.Context) {
	log := that.logger.With("method", "Leave")

	if that.sub != nil {
		if err := that.sub.Close(); err != nil {
			log.Error("failed to close subscription", "error", err)
		}
	}

	if that.role == entity.RolePlayer1 {
		if err := that.store.DeleteByCode(ctx, that.code); err != nil {
			log.Error("failed to delete room", "error", err)
		}
	}
}

// apply reconciles one subscription delivery. The board is rebuilt from
// the snapshot wholesale and winners are recomputed locally; no remote
// summary is trusted except status/winner/absence at room level.
func (that *Controller) apply(update repository.RoomUpdate) {
	log := that.logger.With("method", "apply")

	if update.Err != nil {
		that.emit(Event{Kind: EventSyncError, Err: update.Err})
		return
	}

	if update.Room == nil {
		that.mu.Lock()
		that.lastRoom = nil
		that.pending = nil
		that.mu.Unlock()

		that.emit(Event{Kind: EventRoomDeleted})

		return
	}

	room := update.Room

	that.mu.Lock()

	// Race resolution: once our targeted cell resolves in a snapshot, the
	// pending move is done. A different symbol means the peer's write won;
	// the remote value is accepted silently and this player simply picks
	// again on their next turn.
	if that.pending != nil {
		observed := room.Board[that.pending.subGrid][that.pending.cell]
		if observed != entity.EmptyCell {
			if observed != that.pending.mark {
				log.Info("local move superseded by remote write",
					"subGrid", that.pending.subGrid, "cell", that.pending.cell)
			}
			that.pending = nil
		}
	}

	that.lastRoom = room

	var events []Event

	switch {
	case room.IsEnded():
		if !that.ended {
			that.ended = true
			events = append(events, Event{Kind: EventEnded, Room: copyRoom(room)})
		}
	case room.IsInGame():
		if that.ended {
			// Rematch observed: the peer reset the room.
			that.ended = false
			events = append(events, Event{Kind: EventStarted, Room: copyRoom(room)})
		}

		if !that.started && room.HasBothPlayers() {
			that.started = true
			events = append(events, Event{Kind: EventStarted, Room: copyRoom(room)})
		}

		if that.started {
			events = append(events, Event{Kind: EventBoard, Room: copyRoom(room)})
		}
	case room.IsWaiting():
		events = append(events, Event{Kind: EventWaiting, Room: copyRoom(room)})
	}

	that.mu.Unlock()

	for _, event := range events {
		that.emit(event)
	}
}

func (that *Controller) emit(event Event) {
	that.events <- event
}

func copyRoom(room *entity.Room) *entity.Room {
	copied := *room
	return &copied
}
