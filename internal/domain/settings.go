package domain

import "time"

type NotificationSettings struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

// Settings is a single-row document holding store-wide preferences.
type Settings struct {
	ID                   uint64               `json:"id" gorm:"primaryKey;autoIncrement"`
	StoreName            string               `json:"storeName" gorm:"size:120"`
	StoreEmail           string               `json:"storeEmail" gorm:"size:255"`
	StorePhone           string               `json:"storePhone" gorm:"size:32"`
	Currency             string               `json:"currency" gorm:"size:8"`
	Timezone             string               `json:"timezone" gorm:"size:64"`
	DateFormat           string               `json:"dateFormat" gorm:"size:32"`
	Logo                 string               `json:"logo" gorm:"size:512"`
	Favicon              string               `json:"favicon" gorm:"size:512"`
	Theme                string               `json:"theme" gorm:"size:16"`
	NotificationSettings NotificationSettings `json:"notificationSettings" gorm:"embedded;embeddedPrefix:notify_"`
	CreatedAt            time.Time            `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt            time.Time            `json:"updatedAt" gorm:"autoUpdateTime"`
}

func DefaultSettings() Settings {
	return Settings{
		StoreName:            "AdminHub Store",
		StoreEmail:           "store@adminhub.com",
		Currency:             "USD",
		Timezone:             "UTC",
		DateFormat:           "MM/DD/YYYY",
		Theme:                "dark",
		NotificationSettings: NotificationSettings{Email: true, Push: true},
	}
}

// SettingsPatch carries a partial update; nil fields are left alone.
type SettingsPatch struct {
	StoreName            *string                   `json:"storeName"`
	StoreEmail           *string                   `json:"storeEmail" binding:"omitempty,email"`
	StorePhone           *string                   `json:"storePhone"`
	Currency             *string                   `json:"currency" binding:"omitempty,len=3"`
	Timezone             *string                   `json:"timezone"`
	DateFormat           *string                   `json:"dateFormat"`
	Logo                 *string                   `json:"logo"`
	Favicon              *string                   `json:"favicon"`
	Theme                *string                   `json:"theme" binding:"omitempty,oneof=dark light system"`
	NotificationSettings *NotificationSettingsPatch `json:"notificationSettings"`
}

type NotificationSettingsPatch struct {
	Email *bool `json:"email"`
	Push  *bool `json:"push"`
}

func (s *Settings) Apply(p SettingsPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.StoreName, p.StoreName)
	set(&s.StoreEmail, p.StoreEmail)
	set(&s.StorePhone, p.StorePhone)
	set(&s.Currency, p.Currency)
	set(&s.Timezone, p.Timezone)
	set(&s.DateFormat, p.DateFormat)
	set(&s.Logo, p.Logo)
	set(&s.Favicon, p.Favicon)
	set(&s.Theme, p.Theme)
	if n := p.NotificationSettings; n != nil {
		if n.Email != nil {
			s.NotificationSettings.Email = *n.Email
		}
		if n.Push != nil {
			s.NotificationSettings.Push = *n.Push
		}
	}
}
