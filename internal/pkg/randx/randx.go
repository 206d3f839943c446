/*
Package randx generates the unique identifiers used across the chat core.
*/
package randx

import (
	"fmt"

	"github.com/google/uuid"
)

// MessageID generates a UUID v4 string used as a message's authoritative id.
func MessageID() string {
	return uuid.New().String()
}

// CallID generates a UUID v4 string identifying one call attempt.
func CallID() string {
	return uuid.New().String()
}

// FileKey builds a storage object key for an upload by the given user.
// Keys are namespaced per user so ownership is visible in the key itself.
func FileKey(userID string, ext string) string {
	return fmt.Sprintf("uploads/%s/%s%s", userID, uuid.New().String(), ext)
}
