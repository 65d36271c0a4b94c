package storage

import (
	"time"

	"gorm.io/datatypes"
)

// UserAccount is the relational record backing an identity and its
// credential. Attribute maps are stored as JSON columns.
type UserAccount struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        string         `gorm:"uniqueIndex;not null" json:"user_id"`
	Username      string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash  string         `gorm:"not null" json:"-"`
	HashVersion   string         `json:"hash_version"`
	SuiteType     string         `gorm:"index" json:"suite_type"`
	Demographics  datatypes.JSON `json:"demographics"`
	Preferences   datatypes.JSON `json:"preferences"`
	UsagePatterns datatypes.JSON `json:"usage_patterns"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

func (UserAccount) TableName() string {
	return "user_accounts"
}

// SessionRecord persists one session for the sqlite-backed session store.
type SessionRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	UserID    string    `gorm:"index;not null" json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	Revoked   bool      `gorm:"default:false" json:"revoked"`
}

func (SessionRecord) TableName() string {
	return "session_records"
}
