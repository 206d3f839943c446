package chat

// Room names are derived from ids in exactly one place so the convention is
// centralized rather than string-built at every call site.

// PersonalRoom returns the broadcast room reaching every live connection of
// one identity. Every connection joins its personal room at connect time.
func PersonalRoom(userID string) string {
	return "user_" + userID
}

// GroupRoom returns the broadcast room of a chat group.
func GroupRoom(groupID string) string {
	return "group_" + groupID
}
