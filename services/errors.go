package services

import "fmt"

// ValidationError is a user-correctable input failure, keyed by the offending
// field. Controllers surface it as HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PermissionError is an authorship mismatch, surfaced as HTTP 403.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

// NotFoundError marks a missing entity, surfaced as HTTP 404.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// Validation failures.
var (
	ErrTitleTooShort     = &ValidationError{Field: "title", Message: "title must be at least 2 characters"}
	ErrContentTooShort   = &ValidationError{Field: "content", Message: "content must be at least 10 characters"}
	ErrCategoryRequired  = &ValidationError{Field: "category", Message: "category is required for tech board posts"}
	ErrInvalidBoardType  = &ValidationError{Field: "board_type", Message: "unknown board type"}
	ErrInvalidCategory   = &ValidationError{Field: "category", Message: "unknown category"}
	ErrEmptyComment      = &ValidationError{Field: "content", Message: "comment cannot be empty"}
	ErrSelfLikeForbidden = &ValidationError{Field: "post", Message: "you cannot like your own post"}
	ErrParentNotFound    = &ValidationError{Field: "parent_id", Message: "parent comment not found on this post"}
	ErrNestingTooDeep    = &ValidationError{Field: "parent_id", Message: "replies cannot be replied to"}
)

// Permission failures.
var (
	ErrNotPostAuthor    = &PermissionError{Message: "you can only modify your own posts"}
	ErrNotCommentAuthor = &PermissionError{Message: "you can only modify your own comments"}
)

// Missing entities.
var (
	ErrPostNotFound    = &NotFoundError{Resource: "post"}
	ErrCommentNotFound = &NotFoundError{Resource: "comment"}
	ErrUserNotFound    = &NotFoundError{Resource: "user"}
)
