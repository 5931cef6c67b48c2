package directory

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NameMatch is one row of a name search: a registered user or a phone book
// alias, with the spam count for its number.
type NameMatch struct {
	ID           uint64 `json:"id"`
	FullName     string `json:"full_name"`
	Number       int64  `json:"number"`
	SpamCount    int64  `json:"spam_count"`
	IsRegistered bool   `json:"is_registered"`
}

// NumberMatch is one row of a number search.
type NumberMatch struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	IsRegistered bool   `json:"is_registered"`
}

// PhoneBookRow is one entry of a user's own phone book.
type PhoneBookRow struct {
	ID        uint64 `json:"id"`
	Alias     string `json:"alias"`
	Number    int64  `json:"number"`
	SpamCount int64  `json:"spam_count"`
}

// escapeLike neutralizes LIKE wildcards in user input. Queries using it must
// carry `escape '\'`.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ContactStore persists phone number records.
type ContactStore struct {
	DB *gorm.DB
}

// FindOrCreate returns the contact with the given number, creating it if
// absent. Concurrent calls for the same number ride the unique index on
// contacts.number: the insert is ON CONFLICT DO NOTHING, and a losing insert
// falls back to reading the winner's row.
func (s *ContactStore) FindOrCreate(ctx context.Context, number int64) (*Contact, error) {
	c := Contact{Number: number}
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "number"}},
			DoNothing: true,
		}).
		Create(&c)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if err := s.DB.WithContext(ctx).Where("number = ?", number).First(&c).Error; err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (s *ContactStore) Get(ctx context.Context, number int64) (*Contact, error) {
	var c Contact
	err := s.DB.WithContext(ctx).Where("number = ?", number).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UserStore persists registered accounts.
type UserStore struct {
	DB *gorm.DB
}

func (s *UserStore) Create(ctx context.Context, u *User) error {
	// The contact is created separately; never cascade-save it here.
	return s.DB.WithContext(ctx).Omit(clause.Associations).Create(u).Error
}

func (s *UserStore) ByID(ctx context.Context, id uint64) (*User, error) {
	var u User
	err := s.DB.WithContext(ctx).Preload("PrimaryContact").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ByNumber finds the user whose primary contact carries the given number.
func (s *UserStore) ByNumber(ctx context.Context, number int64) (*User, error) {
	var u User
	err := s.DB.WithContext(ctx).
		Select("users.*").
		Preload("PrimaryContact").
		Joins("join contacts on contacts.id = users.primary_contact_id").
		Where("contacts.number = ?", number).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// NumberClaimed reports whether some user already owns number as primary.
func (s *UserStore) NumberClaimed(ctx context.Context, number int64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&User{}).
		Joins("join contacts on contacts.id = users.primary_contact_id").
		Where("contacts.number = ?", number).
		Count(&n).Error
	return n > 0, err
}

const userMatchSelect = `
select users.id, users.full_name, contacts.number,
       (select count(*) from spam_reports r where r.contact_id = users.primary_contact_id) as spam_count
from users
join contacts on contacts.id = users.primary_contact_id
`

// MatchFullNamePrefix returns registered users whose full name starts with
// name. Matching is case-sensitive, no normalization.
func (s *UserStore) MatchFullNamePrefix(ctx context.Context, name string) ([]NameMatch, error) {
	pat := escapeLike(name)
	var out []NameMatch
	err := s.DB.WithContext(ctx).
		Raw(userMatchSelect+`where users.full_name like ? escape '\' order by users.id`, pat+"%").
		Scan(&out).Error
	return out, err
}

// MatchFullNameContains returns registered users whose full name contains
// name but does not start with it, so a row never lands in both buckets.
func (s *UserStore) MatchFullNameContains(ctx context.Context, name string) ([]NameMatch, error) {
	pat := escapeLike(name)
	var out []NameMatch
	err := s.DB.WithContext(ctx).
		Raw(userMatchSelect+`where users.full_name like ? escape '\' and users.full_name not like ? escape '\' order by users.id`,
			"%"+pat+"%", pat+"%").
		Scan(&out).Error
	return out, err
}

// EntryStore persists phone book entries.
type EntryStore struct {
	DB *gorm.DB
}

// AddOrGet creates the (owner, contact) entry or returns the existing one
// untouched. An existing alias is never overwritten. The second return value
// reports whether a row was created.
func (s *EntryStore) AddOrGet(ctx context.Context, ownerID, contactID uint64, alias string) (*PhoneBookEntry, bool, error) {
	e := PhoneBookEntry{OwnerID: ownerID, ContactID: contactID, Alias: alias}
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "contact_id"}},
			DoNothing: true,
		}).
		Create(&e)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &e, true, nil
	}
	var existing PhoneBookEntry
	if err := s.DB.WithContext(ctx).
		Where("owner_id = ? and contact_id = ?", ownerID, contactID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (s *EntryStore) ByID(ctx context.Context, id uint64) (*PhoneBookEntry, error) {
	var e PhoneBookEntry
	err := s.DB.WithContext(ctx).Preload("Contact").First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Exists reports whether owner has the given contact saved.
func (s *EntryStore) Exists(ctx context.Context, ownerID, contactID uint64) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&PhoneBookEntry{}).
		Where("owner_id = ? and contact_id = ?", ownerID, contactID).
		Count(&n).Error
	return n > 0, err
}

// AliasesForNumber returns every user's alias entry targeting the number.
func (s *EntryStore) AliasesForNumber(ctx context.Context, number int64) ([]NumberMatch, error) {
	var out []NumberMatch
	err := s.DB.WithContext(ctx).
		Raw(`
select phone_book_entries.id, phone_book_entries.alias as name
from phone_book_entries
join contacts on contacts.id = phone_book_entries.contact_id
where contacts.number = ?
order by phone_book_entries.id`, number).
		Scan(&out).Error
	return out, err
}

const entryMatchSelect = `
select phone_book_entries.id, phone_book_entries.alias as full_name, contacts.number,
       (select count(*) from spam_reports r where r.contact_id = phone_book_entries.contact_id) as spam_count
from phone_book_entries
join contacts on contacts.id = phone_book_entries.contact_id
`

func (s *EntryStore) MatchAliasPrefix(ctx context.Context, name string) ([]NameMatch, error) {
	pat := escapeLike(name)
	var out []NameMatch
	err := s.DB.WithContext(ctx).
		Raw(entryMatchSelect+`where phone_book_entries.alias like ? escape '\' order by phone_book_entries.id`, pat+"%").
		Scan(&out).Error
	return out, err
}

func (s *EntryStore) MatchAliasContains(ctx context.Context, name string) ([]NameMatch, error) {
	pat := escapeLike(name)
	var out []NameMatch
	err := s.DB.WithContext(ctx).
		Raw(entryMatchSelect+`where phone_book_entries.alias like ? escape '\' and phone_book_entries.alias not like ? escape '\' order by phone_book_entries.id`,
			"%"+pat+"%", pat+"%").
		Scan(&out).Error
	return out, err
}

// ListByOwner returns the owner's phone book with numbers and spam counts.
func (s *EntryStore) ListByOwner(ctx context.Context, ownerID uint64) ([]PhoneBookRow, error) {
	var out []PhoneBookRow
	err := s.DB.WithContext(ctx).
		Raw(`
select phone_book_entries.id, phone_book_entries.alias, contacts.number,
       (select count(*) from spam_reports r where r.contact_id = phone_book_entries.contact_id) as spam_count
from phone_book_entries
join contacts on contacts.id = phone_book_entries.contact_id
where phone_book_entries.owner_id = ?
order by phone_book_entries.id`, ownerID).
		Scan(&out).Error
	return out, err
}

// ReportStore persists spam reports.
type ReportStore struct {
	DB *gorm.DB
}

// Create inserts the (reporter, contact) report. A duplicate pair hits the
// unique index and affects zero rows; the return value reports whether a row
// was actually created.
func (s *ReportStore) Create(ctx context.Context, reporterID, contactID uint64) (bool, error) {
	r := SpamReport{ReporterID: reporterID, ContactID: contactID}
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "reporter_id"}, {Name: "contact_id"}},
			DoNothing: true,
		}).
		Create(&r)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountByNumber returns the spam report count for a number, 0 when the
// contact does not exist.
func (s *ReportStore) CountByNumber(ctx context.Context, number int64) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&SpamReport{}).
		Joins("join contacts on contacts.id = spam_reports.contact_id").
		Where("contacts.number = ?", number).
		Count(&n).Error
	return n, err
}
