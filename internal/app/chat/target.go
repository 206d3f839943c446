package chat

import "pulsechat/internal/pkg/errs"

// Target is the discriminated destination of a message or indicator: a direct
// recipient identity or a group, never both and never neither. Using one type
// for both keeps validation and fan-out on a single code path.
type Target struct {
	receiverID string
	groupID    string
}

// NewTarget builds a Target from the raw discriminator pair, enforcing that
// exactly one side is set.
func NewTarget(receiverID, groupID string) (Target, *errs.CustomError) {
	if (receiverID == "") == (groupID == "") {
		return Target{}, errs.NewError(errs.ErrAmbiguousTarget)
	}

	return Target{receiverID: receiverID, groupID: groupID}, nil
}

// IsGroup reports whether the target is a group.
func (t Target) IsGroup() bool {
	return t.groupID != ""
}

// ReceiverID returns the direct recipient id, empty for group targets.
func (t Target) ReceiverID() string {
	return t.receiverID
}

// GroupID returns the group id, empty for direct targets.
func (t Target) GroupID() string {
	return t.groupID
}

// Room returns the broadcast room the target maps to: the group room, or the
// recipient's personal room.
func (t Target) Room() string {
	if t.IsGroup() {
		return GroupRoom(t.groupID)
	}
	return PersonalRoom(t.receiverID)
}
