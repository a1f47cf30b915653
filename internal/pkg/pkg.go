package pkg

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	roomCodeMin = 10000
	roomCodeMax = 99999
)

// GenerateRoomCode returns a 5-digit room code drawn uniformly from
// [10000, 99999].
func GenerateRoomCode() string {
	return fmt.Sprintf("%d", roomCodeMin+rand.Intn(roomCodeMax-roomCodeMin+1)) //nolint: gosec // it's ok
}

// GenerateGuestID returns a throwaway player identifier; there is no
// sign-in, only guests.
func GenerateGuestID() string {
	return fmt.Sprintf("guest_%d", time.Now().UnixMilli())
}
