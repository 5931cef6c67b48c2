// Package seed populates sample directory data for local development. Every
// item failure is collected and reported; nothing is silently skipped.
package seed

import (
	"context"
	"fmt"

	"calldex/internal/auth"
	"calldex/internal/directory"

	"gorm.io/gorm"
)

// Password is the shared credential of every seeded account.
const Password = "password123"

type sampleUser struct {
	fullName string
	email    string
	username string
	number   int64
}

var sampleUsers = []sampleUser{
	{"Alice Hartmann", "alice@example.com", "alice", 5550100001},
	{"Bruno Keller", "bruno@example.com", "bruno", 5550100002},
	{"Chandra Patel", "chandra@example.com", "chandra", 5550100003},
	{"Dana Okafor", "dana@example.com", "dana", 5550100004},
	{"Emil Larsen", "emil@example.com", "emil", 5550100005},
	{"Farah Nasser", "farah@example.com", "farah", 5550100006},
	{"Goran Ilic", "goran@example.com", "goran", 5550100007},
	{"Helena Voss", "helena@example.com", "helena", 5550100008},
}

var aliases = []string{
	"Plumber", "Landlord", "Gym", "Dentist", "Pizza Place",
	"Taxi", "Babysitter", "Mechanic", "Pharmacy", "Vet",
}

// Result summarizes one seeding run. Errors holds one entry per failed item.
type Result struct {
	Users    int
	Contacts int
	Entries  int
	Reports  int
	Errors   []error
}

// Run populates users, loose contacts, phone book entries, and spam reports
// through the domain stores, so every insert goes through the same
// find-or-create paths as the API. Running twice is safe.
func Run(ctx context.Context, gdb *gorm.DB) Result {
	var res Result
	svc := directory.NewService(gdb)

	hash, err := auth.HashPassword(Password)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Errorf("hash seed password: %w", err))
		return res
	}

	users := make([]*directory.User, 0, len(sampleUsers))
	for _, su := range sampleUsers {
		u, err := seedUser(ctx, svc, su, hash)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("user %q: %w", su.fullName, err))
			continue
		}
		users = append(users, u)
		res.Users++
	}

	// Loose contacts nobody registered with.
	contacts := make([]*directory.Contact, 0, 20)
	for i := 0; i < 20; i++ {
		number := int64(5550200001 + i)
		c, err := svc.Contacts.FindOrCreate(ctx, number)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("contact %d: %w", number, err))
			continue
		}
		contacts = append(contacts, c)
		res.Contacts++
	}
	if len(contacts) == 0 {
		return res
	}

	// Each user saves three loose contacts under deterministic aliases.
	for i, u := range users {
		for k := 0; k < 3; k++ {
			c := contacts[(i*3+k)%len(contacts)]
			alias := aliases[(i+k)%len(aliases)]
			_, created, err := svc.Entries.AddOrGet(ctx, u.ID, c.ID, alias)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("entry %s -> %d: %w", u.FullName, c.Number, err))
				continue
			}
			if created {
				res.Entries++
			}
		}
	}

	// Each user flags a couple of loose contacts as spam.
	for i, u := range users {
		for k := 0; k < 2; k++ {
			c := contacts[(i*2+k+5)%len(contacts)]
			created, err := svc.Reports.Create(ctx, u.ID, c.ID)
			if err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("report %s -> %d: %w", u.FullName, c.Number, err))
				continue
			}
			if created {
				res.Reports++
			}
		}
	}

	return res
}

func seedUser(ctx context.Context, svc *directory.Service, su sampleUser, hash string) (*directory.User, error) {
	// Re-runs find the existing account instead of tripping the duplicate
	// number check.
	if u, err := svc.Users.ByNumber(ctx, su.number); err == nil {
		return u, nil
	}

	c, err := svc.Contacts.FindOrCreate(ctx, su.number)
	if err != nil {
		return nil, err
	}

	email, username := su.email, su.username
	u := &directory.User{
		FullName:         su.fullName,
		Email:            &email,
		Username:         &username,
		PasswordHash:     hash,
		PrimaryContactID: c.ID,
		PrimaryContact:   *c,
	}
	if err := svc.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
