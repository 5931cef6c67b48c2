package db

import (
	"fmt"

	"calldex/internal/directory"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return gdb, nil
}

func AutoMigrateAndIndexes(gdb *gorm.DB) error {
	// Tables; the unique indexes that duplicate suppression rides on
	// (contacts.number, users.primary_contact_id, the two pair indexes)
	// come from the model tags.
	if err := gdb.AutoMigrate(
		&directory.Contact{},
		&directory.User{},
		&directory.PhoneBookEntry{},
		&directory.SpamReport{},
	); err != nil {
		return err
	}

	// Prefix search on names and aliases uses left-anchored LIKE.
	stmts := []string{
		`create index if not exists idx_users_full_name on users (full_name text_pattern_ops);`,
		`create index if not exists idx_phonebook_alias on phone_book_entries (alias text_pattern_ops);`,
		`create index if not exists idx_phonebook_contact on phone_book_entries (contact_id);`,
		`create index if not exists idx_reports_contact on spam_reports (contact_id);`,
	}
	for _, s := range stmts {
		if err := gdb.Exec(s).Error; err != nil {
			return fmt.Errorf("index exec failed: %w (sql=%s)", err, s)
		}
	}

	return nil
}
