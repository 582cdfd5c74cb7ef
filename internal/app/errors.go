package app

import "errors"

// Code classifies failures so the transport layer can map them to a status
// without inspecting message text.
type Code string

const (
	CodeInvalidInput Code = "invalid_input"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeInvalidState Code = "invalid_state"
)

// Error carries a code plus a message safe to show end users.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrAllFieldsRequired    = newError(CodeInvalidInput, "All fields required")
	ErrUsernameTaken        = newError(CodeConflict, "Username already exists")
	ErrEmailTaken           = newError(CodeConflict, "Email already registered")
	ErrCredentialsRequired  = newError(CodeInvalidInput, "Username and password required")
	ErrInvalidCredentials   = newError(CodeUnauthorized, "Invalid username or password")
	ErrNoSession            = newError(CodeUnauthorized, "Authentication required")
	ErrNotAdmin             = newError(CodeForbidden, "Admin access required")
	ErrNoUsersYet           = newError(CodeInvalidState, "No users exist yet. Register first.")
	ErrAdminExists          = newError(CodeInvalidState, "An admin already exists.")
	ErrUserNotFound         = newError(CodeNotFound, "User not found")
	ErrSelfRequest          = newError(CodeInvalidInput, "Cannot send request to yourself")
	ErrRequestBlocked       = newError(CodeForbidden, "You cannot send a request to this user")
	ErrDuplicateRequest     = newError(CodeConflict, "You already sent a request to this user")
	ErrRequestNotFound      = newError(CodeNotFound, "Request not found")
	ErrAlreadyResponded     = newError(CodeInvalidState, "Request already responded to")
	ErrInvalidResponse      = newError(CodeInvalidInput, "Invalid response")
	ErrQueryTooShort        = newError(CodeInvalidInput, "Query too short")
	ErrEmptyMessage         = newError(CodeInvalidInput, "Message cannot be empty")
	ErrMessageBlocked       = newError(CodeForbidden, "You cannot message this user")
	ErrMissingFileOrTo      = newError(CodeInvalidInput, "Missing file or recipient")
	ErrRecipientNotFound    = newError(CodeNotFound, "Recipient not found")
	ErrCardNotFound         = newError(CodeNotFound, "Card not found")
	ErrSelfFollow           = newError(CodeInvalidInput, "Cannot follow yourself")
	ErrAlreadyFollowing     = newError(CodeConflict, "Already following")
	ErrSelfLike             = newError(CodeInvalidInput, "Cannot like yourself")
	ErrAlreadyLiked         = newError(CodeConflict, "Already liked")
	ErrSelfBlock            = newError(CodeInvalidInput, "Cannot block yourself")
	ErrAlreadyBlocked       = newError(CodeConflict, "User already blocked")
	ErrNotificationNotFound = newError(CodeNotFound, "Notification not found")
	ErrNoFileProvided       = newError(CodeInvalidInput, "No file provided")
	ErrNoFileSelected       = newError(CodeInvalidInput, "No file selected")
	ErrFileMustBeImage      = newError(CodeInvalidInput, "File must be an image")
)

// CodeOf extracts the failure code, or empty when the error is not a coded
// application error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
