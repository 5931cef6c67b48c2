package directory

import "time"

// Contact is a phone number record, independent of any user. Rows are
// created on first reference (registration, phone book, report) and shared
// by everything that mentions the number.
type Contact struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Number    int64     `gorm:"uniqueIndex;not null" json:"number"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

// User is a registered account. Every user owns exactly one Contact as
// their primary number; a Contact backs at most one user.
type User struct {
	ID               uint64    `gorm:"primaryKey" json:"id"`
	FullName         string    `gorm:"size:255;not null" json:"full_name"`
	Email            *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Username         *string   `gorm:"uniqueIndex;size:25" json:"username,omitempty"`
	PasswordHash     string    `gorm:"not null" json:"-"`
	PrimaryContactID uint64    `gorm:"uniqueIndex;not null" json:"-"`
	PrimaryContact   Contact   `gorm:"foreignKey:PrimaryContactID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time `gorm:"not null" json:"-"`
}

// PhoneBookEntry is one user's private alias for a Contact, unique per
// (owner, contact) pair.
type PhoneBookEntry struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	OwnerID   uint64    `gorm:"uniqueIndex:uq_phonebook_owner_contact;not null" json:"-"`
	ContactID uint64    `gorm:"uniqueIndex:uq_phonebook_owner_contact;not null" json:"-"`
	Alias     string    `gorm:"size:50;not null" json:"alias"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Contact   Contact   `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"-"`
}

// SpamReport is one user's flag of a Contact, unique per (reporter, contact)
// pair. Spam counts are always derived from these rows, never stored.
type SpamReport struct {
	ID         uint64    `gorm:"primaryKey"`
	ReporterID uint64    `gorm:"uniqueIndex:uq_reports_reporter_contact;not null"`
	ContactID  uint64    `gorm:"uniqueIndex:uq_reports_reporter_contact;not null"`
	Reporter   User      `gorm:"foreignKey:ReporterID;constraint:OnDelete:CASCADE"`
	Contact    Contact   `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"not null"`
}
