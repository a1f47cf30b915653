// Package repository implements the room directory over Redis. A room
// document is one hash; a single hash field is the store's unit of
// last-writer-wins, which is exactly the consistency the sync protocol is
// designed around. Every write publishes a notification on the room's
// pub/sub channel, and subscribers re-read the whole hash per notification
// so each delivery is a complete snapshot.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/gridrush/ultimate-tictactoe/internal/apperror"
	"github.com/gridrush/ultimate-tictactoe/internal/entity"
)

const (
	FieldPlayer1        = "player1"
	FieldPlayer1Name    = "player1Name"
	FieldPlayer2        = "player2"
	FieldPlayer2Name    = "player2Name"
	FieldStatus         = "status"
	FieldCurrentTurn    = "currentTurn"
	FieldCurrentSubGrid = "currentSubGrid"
	FieldWinner         = "winner"

	boardFieldPrefix = "board"
)

// BoardField names the hash field holding one cell, e.g. "board:3:5".
func BoardField(subGrid, cell int) string {
	return fmt.Sprintf("%s:%d:%d", boardFieldPrefix, subGrid, cell)
}

// BoardFields names all 81 cell fields, for a full-board reset.
func BoardFields() []string {
	fields := make([]string, 0, 81)
	for subGrid := 0; subGrid < 9; subGrid++ {
		for cell := 0; cell < 9; cell++ {
			fields = append(fields, BoardField(subGrid, cell))
		}
	}

	return fields
}

// RoomUpdate is one subscription delivery: a full snapshot, or Room == nil
// when the document no longer exists, or Err on a failed read.
type RoomUpdate struct {
	Room *entity.Room
	Err  error
}

// Subscription delivers room snapshots until Close is called or the room
// watcher stops. Deliveries are monotonic per subscription.
type Subscription interface {
	Updates() <-chan RoomUpdate
	Close() error
}

type RoomRepository interface {
	Create(ctx context.Context, room *entity.Room) error
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
	SetField(ctx context.Context, code, field string, value any) error
	DeleteFields(ctx context.Context, code string, fields ...string) error
	DeleteByCode(ctx context.Context, code string) error
	Subscribe(ctx context.Context, code string) (Subscription, error)
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

// Create writes the initial document. The existence check and the write
// are not atomic; the rare code collision surfaces as ErrRoomAlreadyExists
// and the caller retries with a fresh code.
func (that *dbRoom) Create(ctx context.Context, room *entity.Room) error {
	roomKey := roomKey(room.Code)

	exists, err := that.client.Exists(ctx, roomKey).Result()
	if err != nil {
		return fmt.Errorf("failed to check room existence: %w", err)
	}

	if exists > 0 {
		return fmt.Errorf("%w: code %s", apperror.ErrRoomAlreadyExists, room.Code)
	}

	if err = that.client.HSet(ctx, roomKey, roomFields(room)).Err(); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return that.publish(ctx, room.Code)
}

func (that *dbRoom) GetByCode(ctx context.Context, code string) (*entity.Room, error) {
	fields, err := that.client.HGetAll(ctx, roomKey(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: code %s", apperror.ErrRoomNotFound, code)
	}

	return parseRoom(code, fields)
}

func (that *dbRoom) SetField(ctx context.Context, code, field string, value any) error {
	if err := that.client.HSet(ctx, roomKey(code), field, value).Err(); err != nil {
		return fmt.Errorf("failed to set field %s: %w", field, err)
	}

	return that.publish(ctx, code)
}

func (that *dbRoom) DeleteFields(ctx context.Context, code string, fields ...string) error {
	if err := that.client.HDel(ctx, roomKey(code), fields...).Err(); err != nil {
		return fmt.Errorf("failed to delete fields: %w", err)
	}

	return that.publish(ctx, code)
}

func (that *dbRoom) DeleteByCode(ctx context.Context, code string) error {
	if err := that.client.Del(ctx, roomKey(code)).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	return that.publish(ctx, code)
}

// Subscribe starts a watcher on the room's channel. The current document
// state is delivered immediately, then a fresh snapshot follows every
// published change.
func (that *dbRoom) Subscribe(ctx context.Context, code string) (Subscription, error) {
	pubsub := that.client.Subscribe(ctx, roomChannel(code))

	// Confirm the subscription before the initial read so no change
	// published after the read can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to room: %w", err)
	}

	sub := &roomSubscription{
		pubsub:  pubsub,
		updates: make(chan RoomUpdate, 16),
	}

	go sub.watch(ctx, that, code)

	return sub, nil
}

type roomSubscription struct {
	pubsub  *redis.PubSub
	updates chan RoomUpdate
}

func (that *roomSubscription) Updates() <-chan RoomUpdate {
	return that.updates
}

func (that *roomSubscription) Close() error {
	if err := that.pubsub.Close(); err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}

	return nil
}

func (that *roomSubscription) watch(ctx context.Context, repo *dbRoom, code string) {
	defer close(that.updates)

	that.deliver(ctx, repo, code)

	for range that.pubsub.Channel() {
		that.deliver(ctx, repo, code)
	}
}

// deliver reads the full document and pushes one update. A vanished room
// is delivered as a nil Room, which is a distinct terminal signal from
// status=ended.
func (that *roomSubscription) deliver(ctx context.Context, repo *dbRoom, code string) {
	room, err := repo.GetByCode(ctx, code)

	switch {
	case err == nil:
		that.updates <- RoomUpdate{Room: room}
	case errors.Is(err, apperror.ErrRoomNotFound):
		that.updates <- RoomUpdate{Room: nil}
	default:
		that.updates <- RoomUpdate{Err: err}
	}
}

func (that *dbRoom) publish(ctx context.Context, code string) error {
	if err := that.client.Publish(ctx, roomChannel(code), "update").Err(); err != nil {
		return fmt.Errorf("failed to publish room update: %w", err)
	}

	return nil
}

func roomKey(code string) string {
	return "room:" + code
}

func roomChannel(code string) string {
	return "room-updates:" + code
}

// roomFields flattens the document into hash fields. Empty cells are
// simply absent.
func roomFields(room *entity.Room) map[string]any {
	fields := map[string]any{
		FieldPlayer1:        room.Player1,
		FieldPlayer1Name:    room.Player1Name,
		FieldPlayer2:        room.Player2,
		FieldPlayer2Name:    room.Player2Name,
		FieldStatus:         room.Status,
		FieldCurrentTurn:    room.CurrentTurn,
		FieldCurrentSubGrid: room.CurrentSubGrid,
	}

	if room.Winner != "" {
		fields[FieldWinner] = room.Winner
	}

	for subGrid := range room.Board {
		for cell, symbol := range room.Board[subGrid] {
			if symbol != entity.EmptyCell {
				fields[BoardField(subGrid, cell)] = symbol
			}
		}
	}

	return fields
}

// parseRoom rebuilds the document from hash fields. Malformed board fields
// are skipped rather than failing the snapshot; the board is always
// reconstructed in full, never patched.
func parseRoom(code string, fields map[string]string) (*entity.Room, error) {
	room := &entity.Room{
		Code:           code,
		Player1:        fields[FieldPlayer1],
		Player1Name:    fields[FieldPlayer1Name],
		Player2:        fields[FieldPlayer2],
		Player2Name:    fields[FieldPlayer2Name],
		Status:         fields[FieldStatus],
		CurrentTurn:    fields[FieldCurrentTurn],
		CurrentSubGrid: entity.AnySubGrid,
		Winner:         fields[FieldWinner],
	}

	if raw, ok := fields[FieldCurrentSubGrid]; ok {
		subGrid, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse currentSubGrid: %w", err)
		}
		room.CurrentSubGrid = subGrid
	}

	for field, symbol := range fields {
		if !strings.HasPrefix(field, boardFieldPrefix+":") {
			continue
		}

		parts := strings.Split(field, ":")
		if len(parts) != 3 {
			continue
		}

		subGrid, err := strconv.Atoi(parts[1])
		if err != nil || subGrid < 0 || subGrid > 8 {
			continue
		}

		cell, err := strconv.Atoi(parts[2])
		if err != nil || cell < 0 || cell > 8 {
			continue
		}

		room.Board[subGrid][cell] = symbol
	}

	return room, nil
}
