/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and WebSocket error events.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
// A zero Status means the error only ever surfaces over the WebSocket error
// event, where no HTTP status applies.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling and Validation Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrEmptyContent:         {Code: ErrEmptyContent, Message: "Message content cannot be empty."},
	ErrAmbiguousTarget:      {Code: ErrAmbiguousTarget, Message: "Exactly one of receiverId or groupId must be set."},
	ErrInvalidMessageType:   {Code: ErrInvalidMessageType, Message: "Unsupported message type."},
	ErrInvalidCallType:      {Code: ErrInvalidCallType, Message: "Unsupported call type."},

	// 2xxx: Chat and Call Business Logic Errors
	ErrUserNotFound:     {Code: ErrUserNotFound, Message: "User not found."},
	ErrMessageNotFound:  {Code: ErrMessageNotFound, Message: "Message not found."},
	ErrCalleeBusy:       {Code: ErrCalleeBusy, Message: "User is on another call."},
	ErrFileSizeTooLarge: {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:  {Code: ErrFileTypeInvalid, Message: "File type is not allowed.", Status: http.StatusBadRequest},

	// 3xxx: Authentication and Authorization Errors
	ErrTokenMissing:       {Code: ErrTokenMissing, Message: "Authentication required.", Status: http.StatusUnauthorized},
	ErrTokenInvalid:       {Code: ErrTokenInvalid, Message: "Invalid or expired credentials.", Status: http.StatusUnauthorized},
	ErrIdentityUnknown:    {Code: ErrIdentityUnknown, Message: "Account not found.", Status: http.StatusUnauthorized},
	ErrNotGroupMember:     {Code: ErrNotGroupMember, Message: "You are not a member of this group.", Status: http.StatusForbidden},
	ErrNotMessageSender:   {Code: ErrNotMessageSender, Message: "You can only delete your own messages.", Status: http.StatusForbidden},
	ErrNotCallParticipant: {Code: ErrNotCallParticipant, Message: "You are not a participant of this call.", Status: http.StatusForbidden},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
	ErrStorage: {Code: ErrStorage, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
