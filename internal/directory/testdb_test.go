package directory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	// Postgres LIKE is case-sensitive; make the test DB match.
	require.NoError(t, db.Exec("PRAGMA case_sensitive_like = ON").Error)

	require.NoError(t, db.AutoMigrate(
		&Contact{},
		&User{},
		&PhoneBookEntry{},
		&SpamReport{},
	))
	return db
}

func registerUser(t *testing.T, svc *Service, fullName string, number int64) *User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		FullName: fullName,
		Email:    fmt.Sprintf("u%d@example.com", number),
		Password: "secret123",
		Number:   number,
	})
	require.NoError(t, err)
	return u
}
