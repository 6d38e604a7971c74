package domain

import (
	"strings"
	"time"
)

type Category struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:50;not null"`
	Slug        string    `json:"slug" gorm:"size:120;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"size:500"`
	ParentID    *uint64   `json:"parentId,omitempty" gorm:"index"`
	Parent      *Category `json:"parentCategory,omitempty" gorm:"foreignKey:ParentID"`
	IsActive    bool      `json:"isActive" gorm:"not null"`
	Image       Image     `json:"image" gorm:"embedded;embeddedPrefix:image_"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Slugify lowercases name, collapses every run of characters outside
// [a-z0-9] into one hyphen and trims hyphens from both ends.
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// CategoryFilter: ParentID set with TopLevel false filters by parent;
// TopLevel true selects categories without a parent.
type CategoryFilter struct {
	Search   string
	ParentID *uint64
	TopLevel bool
	IsActive *bool
}
