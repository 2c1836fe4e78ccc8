package services

import (
	"strings"
	"unicode/utf8"

	"github.com/devboard/devboard/models"
)

const (
	minTitleLen   = 2
	minContentLen = 10
)

// ValidatePost checks title, content and the board/category coupling rules.
// Guestbook entries are exempt from the content length minimum so short
// greetings remain valid. Category presence is only enforced for the tech
// board; the engine clears it off other boards before persisting.
func ValidatePost(title, content string, board models.BoardType, category string) error {
	if !board.Valid() {
		return ErrInvalidBoardType
	}
	if utf8.RuneCountInString(strings.TrimSpace(title)) < minTitleLen {
		return ErrTitleTooShort
	}
	if board != models.BoardGuest && utf8.RuneCountInString(content) < minContentLen {
		return ErrContentTooShort
	}
	if board == models.BoardTech {
		if category == "" {
			return ErrCategoryRequired
		}
		if !models.ValidCategory(category) {
			return ErrInvalidCategory
		}
	}
	return nil
}

// ValidateCommentContent rejects comments that are empty after trimming
// whitespace.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyComment
	}
	return nil
}
