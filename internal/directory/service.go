package directory

import (
	"context"
	"errors"
	"fmt"

	"calldex/internal/auth"

	"gorm.io/gorm"
)

// Contacts is the contact repository used by the service.
type Contacts interface {
	FindOrCreate(ctx context.Context, number int64) (*Contact, error)
	Get(ctx context.Context, number int64) (*Contact, error)
}

// Users is the account repository used by the service.
type Users interface {
	Create(ctx context.Context, u *User) error
	ByID(ctx context.Context, id uint64) (*User, error)
	ByNumber(ctx context.Context, number int64) (*User, error)
	NumberClaimed(ctx context.Context, number int64) (bool, error)
	MatchFullNamePrefix(ctx context.Context, name string) ([]NameMatch, error)
	MatchFullNameContains(ctx context.Context, name string) ([]NameMatch, error)
}

// Entries is the phone book repository used by the service.
type Entries interface {
	AddOrGet(ctx context.Context, ownerID, contactID uint64, alias string) (*PhoneBookEntry, bool, error)
	ByID(ctx context.Context, id uint64) (*PhoneBookEntry, error)
	Exists(ctx context.Context, ownerID, contactID uint64) (bool, error)
	AliasesForNumber(ctx context.Context, number int64) ([]NumberMatch, error)
	MatchAliasPrefix(ctx context.Context, name string) ([]NameMatch, error)
	MatchAliasContains(ctx context.Context, name string) ([]NameMatch, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]PhoneBookRow, error)
}

// Reports is the spam report repository used by the service.
type Reports interface {
	Create(ctx context.Context, reporterID, contactID uint64) (bool, error)
	CountByNumber(ctx context.Context, number int64) (int64, error)
}

// Service composes the four stores behind the operation surface. Every
// authenticated operation takes the caller's user id explicitly; there is no
// ambient current-user state.
type Service struct {
	Contacts Contacts
	Users    Users
	Entries  Entries
	Reports  Reports
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		Contacts: &ContactStore{DB: db},
		Users:    &UserStore{DB: db},
		Entries:  &EntryStore{DB: db},
		Reports:  &ReportStore{DB: db},
	}
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Number   int64
}

// Register creates an account bound to the number's contact, creating the
// contact if needed. The number must not already be some user's primary
// contact.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.FullName == "" || in.Password == "" || in.Number == 0 {
		return nil, fmt.Errorf("%w: full name, password and phone number are required", ErrValidation)
	}

	claimed, err := s.Users.NumberClaimed(ctx, in.Number)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, ErrDuplicateNumber
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	contact, err := s.Contacts.FindOrCreate(ctx, in.Number)
	if err != nil {
		return nil, err
	}

	u := &User{
		FullName:         in.FullName,
		PasswordHash:     hash,
		PrimaryContactID: contact.ID,
		PrimaryContact:   *contact,
	}
	if in.Email != "" {
		u.Email = &in.Email
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate resolves a number/password pair to the owning user. Unknown
// number and wrong password both surface ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, number int64, password string) (*User, error) {
	if number == 0 || password == "" {
		return nil, fmt.Errorf("%w: phone number and password are required", ErrValidation)
	}

	u, err := s.Users.ByNumber(ctx, number)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.ComparePassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// UserByID returns the account with its primary contact loaded.
func (s *Service) UserByID(ctx context.Context, id uint64) (*User, error) {
	return s.Users.ByID(ctx, id)
}

// NumberSearch is the search-by-number payload.
type NumberSearch struct {
	Names     []NumberMatch `json:"names"`
	SpamCount int64         `json:"spam_count"`
}

// SearchByNumber resolves a number to either the single registered owner or
// every phone book alias for it. The registered branch short-circuits the
// alias scan; the two are never merged.
func (s *Service) SearchByNumber(ctx context.Context, callerID uint64, number int64) (*NumberSearch, error) {
	if number == 0 {
		return nil, fmt.Errorf("%w: phone number is required", ErrValidation)
	}

	out := &NumberSearch{Names: []NumberMatch{}}

	u, err := s.Users.ByNumber(ctx, number)
	switch {
	case err == nil:
		out.Names = []NumberMatch{{ID: u.ID, Name: u.FullName, IsRegistered: true}}
	case errors.Is(err, ErrNotFound):
		names, err := s.Entries.AliasesForNumber(ctx, number)
		if err != nil {
			return nil, err
		}
		out.Names = append(out.Names, names...)
	default:
		return nil, err
	}

	count, err := s.Reports.CountByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	out.SpamCount = count
	return out, nil
}

// SearchByName returns four buckets concatenated in fixed order: registered
// prefix matches, alias prefix matches, registered contains-but-not-prefix,
// alias contains-but-not-prefix. Matching is case-sensitive; the
// contains buckets exclude prefix rows so nothing is listed twice.
func (s *Service) SearchByName(ctx context.Context, callerID uint64, name string) ([]NameMatch, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	results := []NameMatch{}

	userPrefix, err := s.Users.MatchFullNamePrefix(ctx, name)
	if err != nil {
		return nil, err
	}
	results = appendRegistered(results, userPrefix, true)

	aliasPrefix, err := s.Entries.MatchAliasPrefix(ctx, name)
	if err != nil {
		return nil, err
	}
	results = appendRegistered(results, aliasPrefix, false)

	userContains, err := s.Users.MatchFullNameContains(ctx, name)
	if err != nil {
		return nil, err
	}
	results = appendRegistered(results, userContains, true)

	aliasContains, err := s.Entries.MatchAliasContains(ctx, name)
	if err != nil {
		return nil, err
	}
	results = appendRegistered(results, aliasContains, false)

	return results, nil
}

func appendRegistered(dst, src []NameMatch, registered bool) []NameMatch {
	for _, m := range src {
		m.IsRegistered = registered
		dst = append(dst, m)
	}
	return dst
}

// ReportNumber flags a number as spam on behalf of the caller. The contact is
// created if absent; a repeat report by the same caller is a no-op surfacing
// ErrAlreadyReported.
func (s *Service) ReportNumber(ctx context.Context, callerID uint64, number int64) error {
	if number == 0 {
		return fmt.Errorf("%w: phone number is required", ErrValidation)
	}

	contact, err := s.Contacts.FindOrCreate(ctx, number)
	if err != nil {
		return err
	}

	created, err := s.Reports.Create(ctx, callerID, contact.ID)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyReported
	}
	return nil
}

// CountReports returns the spam count for a number, 0 when unknown.
func (s *Service) CountReports(ctx context.Context, number int64) (int64, error) {
	return s.Reports.CountByNumber(ctx, number)
}

// ContactDetails is the detail payload for one directory entry. Email is only
// set on the registered branch, and only when the mutual-visibility gate
// passes.
type ContactDetails struct {
	ID           uint64  `json:"id"`
	FullName     string  `json:"full_name"`
	PhoneNumber  int64   `json:"phone_number"`
	SpamCount    int64   `json:"spam_count"`
	IsRegistered bool    `json:"is_registered"`
	Email        *string `json:"email,omitempty"`
}

// GetContactDetails resolves a search result to its detail view. Registered
// ids address users, unregistered ids address phone book entries. The email
// of a registered user is exposed only when that user has the caller's own
// number saved in their phone book (deliberately that direction, not the
// reverse).
func (s *Service) GetContactDetails(ctx context.Context, callerID, id uint64, registered bool) (*ContactDetails, error) {
	if registered {
		viewed, err := s.Users.ByID(ctx, id)
		if err != nil {
			return nil, err
		}

		count, err := s.Reports.CountByNumber(ctx, viewed.PrimaryContact.Number)
		if err != nil {
			return nil, err
		}

		d := &ContactDetails{
			ID:           viewed.ID,
			FullName:     viewed.FullName,
			PhoneNumber:  viewed.PrimaryContact.Number,
			SpamCount:    count,
			IsRegistered: true,
		}

		caller, err := s.Users.ByID(ctx, callerID)
		if err != nil {
			return nil, err
		}
		visible, err := s.Entries.Exists(ctx, viewed.ID, caller.PrimaryContactID)
		if err != nil {
			return nil, err
		}
		if visible {
			d.Email = viewed.Email
		}
		return d, nil
	}

	entry, err := s.Entries.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.Reports.CountByNumber(ctx, entry.Contact.Number)
	if err != nil {
		return nil, err
	}
	return &ContactDetails{
		ID:           entry.ID,
		FullName:     entry.Alias,
		PhoneNumber:  entry.Contact.Number,
		SpamCount:    count,
		IsRegistered: false,
	}, nil
}

// SaveAlias adds number to the owner's phone book under alias, creating the
// contact if absent. Repeat calls for the same pair return the original entry
// with its alias unchanged.
func (s *Service) SaveAlias(ctx context.Context, ownerID uint64, number int64, alias string) (*PhoneBookEntry, bool, error) {
	if number == 0 || alias == "" {
		return nil, false, fmt.Errorf("%w: phone number and alias are required", ErrValidation)
	}

	contact, err := s.Contacts.FindOrCreate(ctx, number)
	if err != nil {
		return nil, false, err
	}
	return s.Entries.AddOrGet(ctx, ownerID, contact.ID, alias)
}

// PhoneBook lists the owner's entries with numbers and spam counts.
func (s *Service) PhoneBook(ctx context.Context, ownerID uint64) ([]PhoneBookRow, error) {
	return s.Entries.ListByOwner(ctx, ownerID)
}
