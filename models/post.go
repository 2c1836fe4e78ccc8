package models

import "time"

// BoardType identifies the board a post belongs to.
type BoardType string

const (
	BoardTech  BoardType = "tech"
	BoardFree  BoardType = "free"
	BoardGuest BoardType = "guest"
)

// Valid reports whether b is a known board type.
func (b BoardType) Valid() bool {
	switch b {
	case BoardTech, BoardFree, BoardGuest:
		return true
	}
	return false
}

// Categories available for tech board posts.
const (
	CategoryPython     = "python"
	CategoryJavaScript = "javascript"
	CategoryJava       = "java"
	CategoryCpp        = "cpp"
	CategoryGo         = "go"
	CategoryRust       = "rust"
	CategoryOther      = "other"
)

// TechCategories lists the selectable categories for the tech board.
var TechCategories = []string{
	CategoryPython, CategoryJavaScript, CategoryJava,
	CategoryCpp, CategoryGo, CategoryRust, CategoryOther,
}

// ValidCategory reports whether c is a known tech category.
func ValidCategory(c string) bool {
	for _, v := range TechCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Post represents a blog post on one of the three boards.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	BoardType BoardType `gorm:"size:10;index;not null;default:'free'" json:"board_type"`
	Category  string    `gorm:"size:20;index" json:"category,omitempty"` // set only for tech posts
	Image     string    `gorm:"size:512" json:"image,omitempty"`
	Views     uint      `gorm:"not null;default:0" json:"views"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
	Comments  []Comment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Likes     []Like    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}
