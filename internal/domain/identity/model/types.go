package model

import "time"

// SuiteType classifies an identity into one of the platform tiers.
type SuiteType string

const (
	SuiteEnterprise   SuiteType = "enterprise"
	SuiteTech         SuiteType = "tech"
	SuiteLifestyle    SuiteType = "lifestyle"
	SuiteProfessional SuiteType = "professional"
	SuiteEducation    SuiteType = "education"
	SuitePersonal     SuiteType = "personal"
	SuiteBusiness     SuiteType = "business"
	SuiteStudent      SuiteType = "student"
)

// Valid reports whether the suite type is one of the known tiers.
func (s SuiteType) Valid() bool {
	switch s {
	case SuiteEnterprise, SuiteTech, SuiteLifestyle, SuiteProfessional,
		SuiteEducation, SuitePersonal, SuiteBusiness, SuiteStudent:
		return true
	}
	return false
}

// Identity is the verified principal a session binds to. The identifier is
// immutable; the attribute maps are not.
type Identity struct {
	UserID        string         `json:"user_id"`
	Username      string         `json:"username"`
	SuiteType     SuiteType      `json:"suite_type"`
	Demographics  map[string]any `json:"demographics,omitempty"`
	Preferences   map[string]any `json:"preferences,omitempty"`
	UsagePatterns map[string]any `json:"usage_patterns,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Record pairs an identity with its credential material as persisted by the
// store. Plaintext secrets never appear here.
type Record struct {
	Identity
	PasswordHash string `json:"password_hash"`
	HashVersion  string `json:"hash_version"`
}

// Logger provides the minimal logging contract required by the identity domain.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
