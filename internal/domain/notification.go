package domain

import "time"

type NotificationType string

const (
	NotifyInfo    NotificationType = "info"
	NotifySuccess NotificationType = "success"
	NotifyWarning NotificationType = "warning"
	NotifyError   NotificationType = "error"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotifyInfo, NotifySuccess, NotifyWarning, NotifyError:
		return true
	}
	return false
}

// NotificationListLimit caps how many notifications a user sees.
const NotificationListLimit = 50

type Notification struct {
	ID        uint64           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint64           `json:"user" gorm:"not null;index"`
	Title     string           `json:"title" gorm:"size:200;not null"`
	Message   string           `json:"message" gorm:"not null"`
	Type      NotificationType `json:"type" gorm:"size:16;not null"`
	IsRead    bool             `json:"isRead" gorm:"not null"`
	Link      string           `json:"link,omitempty" gorm:"size:512"`
	CreatedAt time.Time        `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time        `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (n *Notification) OwnedBy(userID uint64) bool {
	return n.UserID == userID
}
