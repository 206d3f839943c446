/*
Package errs provides custom error types and application-level error code constants.

Code families: 1xxx request shape and validation, 2xxx chat/call business
failures, 3xxx authentication and authorization, 5xxx internal faults.
*/
package errs

// 1xxx: General Request Handling and Validation Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005

	// ErrEmptyContent indicates a message send with empty content.
	ErrEmptyContent = 1101

	// ErrAmbiguousTarget indicates a payload that sets neither or both of
	// receiverId and groupId where exactly one is required.
	ErrAmbiguousTarget = 1102

	// ErrInvalidMessageType indicates a message type outside {TEXT, IMAGE, FILE}.
	ErrInvalidMessageType = 1103

	// ErrInvalidCallType indicates a call type outside {audio, video}.
	ErrInvalidCallType = 1104
)

// 2xxx: Chat and Call Business Logic Errors
const (
	// ErrUserNotFound indicates that the addressed recipient identity does not exist.
	ErrUserNotFound = 2101

	// ErrMessageNotFound indicates that the referenced message does not exist.
	ErrMessageNotFound = 2102

	// ErrCalleeBusy indicates that a call request targets a user who is
	// already a party to a live call, or that the caller is.
	ErrCalleeBusy = 2201

	// ErrFileSizeTooLarge indicates that an upload exceeds the size limit.
	ErrFileSizeTooLarge = 2301

	// ErrFileTypeInvalid indicates an upload with a disallowed or mismatched file type.
	ErrFileTypeInvalid = 2302
)

// 3xxx: Authentication and Authorization Errors
const (
	// ErrTokenMissing indicates that no credential token was supplied at handshake.
	ErrTokenMissing = 3001

	// ErrTokenInvalid indicates that the supplied credential token failed validation.
	ErrTokenInvalid = 3002

	// ErrIdentityUnknown indicates a valid token whose subject no longer resolves to a user.
	ErrIdentityUnknown = 3003

	// ErrNotGroupMember indicates that the sender is not a member of the target group.
	ErrNotGroupMember = 3101

	// ErrNotMessageSender indicates a deletion attempt by someone other than the original sender.
	ErrNotMessageSender = 3102

	// ErrNotCallParticipant indicates a call transition attempted by a user
	// who is not a party to that call.
	ErrNotCallParticipant = 3103
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal server error.
	ErrUnknown = 5000

	// ErrStorage indicates a persistence-layer failure.
	ErrStorage = 5001
)
