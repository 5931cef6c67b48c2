package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	registerUser(t, svc, "Alice Hartmann", 5551000010)

	_, err := svc.Register(ctx, RegisterInput{
		FullName: "Imposter",
		Password: "secret123",
		Number:   5551000010,
	})
	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestRegisterMissingFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Password: "secret123", Number: 5551000011})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{FullName: "No Password", Number: 5551000011})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{FullName: "No Number", Password: "secret123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegisterWithoutEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	u, err := svc.Register(context.Background(), RegisterInput{
		FullName: "No Email",
		Password: "secret123",
		Number:   5551000012,
	})
	require.NoError(t, err)
	assert.Nil(t, u.Email)
}

func TestAuthenticateMergesUnknownAndWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	registerUser(t, svc, "Bruno Keller", 5551000020)

	_, err := svc.Authenticate(ctx, 5551000020, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, 5559999998, "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	u, err := svc.Authenticate(ctx, 5551000020, "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Bruno Keller", u.FullName)
	assert.Equal(t, int64(5551000020), u.PrimaryContact.Number)
}

func TestSearchByNumberRegisteredShortCircuit(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	owner := registerUser(t, svc, "Chandra Patel", 5551000030)
	other := registerUser(t, svc, "Dana Okafor", 5551000031)

	// Another user has the registered number saved under an alias; the
	// registered match must still be the only row.
	_, _, err := svc.SaveAlias(ctx, other.ID, 5551000030, "That Chandra")
	require.NoError(t, err)

	res, err := svc.SearchByNumber(ctx, other.ID, 5551000030)
	require.NoError(t, err)
	require.Len(t, res.Names, 1)
	assert.Equal(t, owner.ID, res.Names[0].ID)
	assert.Equal(t, "Chandra Patel", res.Names[0].Name)
	assert.True(t, res.Names[0].IsRegistered)
}

func TestSearchByNumberUnregisteredListsAliases(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	u1 := registerUser(t, svc, "Emil Larsen", 5551000040)
	u2 := registerUser(t, svc, "Farah Nasser", 5551000041)

	_, _, err := svc.SaveAlias(ctx, u1.ID, 5556000000, "Pizza Place")
	require.NoError(t, err)
	_, _, err = svc.SaveAlias(ctx, u2.ID, 5556000000, "Tony")
	require.NoError(t, err)

	require.NoError(t, svc.ReportNumber(ctx, u1.ID, 5556000000))

	res, err := svc.SearchByNumber(ctx, u1.ID, 5556000000)
	require.NoError(t, err)
	require.Len(t, res.Names, 2)
	assert.Equal(t, "Pizza Place", res.Names[0].Name)
	assert.Equal(t, "Tony", res.Names[1].Name)
	assert.False(t, res.Names[0].IsRegistered)
	assert.False(t, res.Names[1].IsRegistered)
	assert.Equal(t, int64(1), res.SpamCount)
}

func TestSearchByNumberUnknownNumber(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	caller := registerUser(t, svc, "Goran Ilic", 5551000050)

	res, err := svc.SearchByNumber(ctx, caller.ID, 5550000404)
	require.NoError(t, err)
	assert.Empty(t, res.Names)
	assert.Zero(t, res.SpamCount)
}

func TestSearchByNameBucketOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	alice := registerUser(t, svc, "Alice Hartmann", 5551000060)
	caller := registerUser(t, svc, "Helena Voss", 5551000061)

	// "Big Al" contains "Al" mid-string, "Alberto" starts with it.
	_, _, err := svc.SaveAlias(ctx, caller.ID, 5556000001, "Big Al")
	require.NoError(t, err)
	_, _, err = svc.SaveAlias(ctx, caller.ID, 5556000002, "Alberto")
	require.NoError(t, err)

	res, err := svc.SearchByName(ctx, caller.ID, "Al")
	require.NoError(t, err)
	require.Len(t, res, 3)

	// Bucket order: registered prefix, alias prefix, then contains.
	assert.Equal(t, "Alice Hartmann", res[0].FullName)
	assert.True(t, res[0].IsRegistered)
	assert.Equal(t, alice.ID, res[0].ID)

	assert.Equal(t, "Alberto", res[1].FullName)
	assert.False(t, res[1].IsRegistered)

	assert.Equal(t, "Big Al", res[2].FullName)
	assert.False(t, res[2].IsRegistered)
}

func TestSearchByNameNeverListsTwice(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	registerUser(t, svc, "Anna Anders", 5551000070)
	caller := registerUser(t, svc, "Observer One", 5551000071)

	// Full name both starts with and contains "An"; it must only appear in
	// the prefix bucket.
	res, err := svc.SearchByName(ctx, caller.ID, "An")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Anna Anders", res[0].FullName)
}

func TestSearchByNameCarriesSpamCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	spammer := registerUser(t, svc, "Spammy Sam", 5551000080)
	caller := registerUser(t, svc, "Reporter Rae", 5551000081)

	require.NoError(t, svc.ReportNumber(ctx, caller.ID, 5551000080))

	res, err := svc.SearchByName(ctx, caller.ID, "Spammy")
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, spammer.ID, res[0].ID)
	assert.Equal(t, int64(5551000080), res[0].Number)
	assert.Equal(t, int64(1), res[0].SpamCount)
}

func TestSearchByNameWildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	registerUser(t, svc, "Percentile Pete", 5551000090)
	caller := registerUser(t, svc, "Observer Two", 5551000091)

	res, err := svc.SearchByName(ctx, caller.ID, "%")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestReportNumberTwice(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	caller := registerUser(t, svc, "Ines Fuchs", 5551000100)

	require.NoError(t, svc.ReportNumber(ctx, caller.ID, 5556001234))
	err := svc.ReportNumber(ctx, caller.ID, 5556001234)
	assert.ErrorIs(t, err, ErrAlreadyReported)

	count, err := svc.CountReports(ctx, 5556001234)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestContactDetailsEmailVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	viewed := registerUser(t, svc, "Jonas Weber", 5551000110)
	caller := registerUser(t, svc, "Lena Maier", 5551000111)

	d, err := svc.GetContactDetails(ctx, caller.ID, viewed.ID, true)
	require.NoError(t, err)
	assert.Nil(t, d.Email)
	assert.Equal(t, "Jonas Weber", d.FullName)
	assert.Equal(t, int64(5551000110), d.PhoneNumber)
	assert.True(t, d.IsRegistered)

	// The viewed user saves the caller's number; now the email shows.
	_, _, err = svc.SaveAlias(ctx, viewed.ID, 5551000111, "Lena")
	require.NoError(t, err)

	d, err = svc.GetContactDetails(ctx, caller.ID, viewed.ID, true)
	require.NoError(t, err)
	require.NotNil(t, d.Email)
	assert.Equal(t, "u5551000110@example.com", *d.Email)

	// The reverse direction alone must not expose the email.
	db2 := newTestDB(t)
	svc2 := NewService(db2)
	viewed2 := registerUser(t, svc2, "Jonas Weber", 5551000110)
	caller2 := registerUser(t, svc2, "Lena Maier", 5551000111)
	_, _, err = svc2.SaveAlias(ctx, caller2.ID, 5551000110, "Jonas")
	require.NoError(t, err)

	d, err = svc2.GetContactDetails(ctx, caller2.ID, viewed2.ID, true)
	require.NoError(t, err)
	assert.Nil(t, d.Email)
}

func TestContactDetailsUnregisteredEntry(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	owner := registerUser(t, svc, "Mika Aalto", 5551000120)

	entry, _, err := svc.SaveAlias(ctx, owner.ID, 5556002000, "Dentist")
	require.NoError(t, err)
	require.NoError(t, svc.ReportNumber(ctx, owner.ID, 5556002000))

	d, err := svc.GetContactDetails(ctx, owner.ID, entry.ID, false)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, d.ID)
	assert.Equal(t, "Dentist", d.FullName)
	assert.Equal(t, int64(5556002000), d.PhoneNumber)
	assert.Equal(t, int64(1), d.SpamCount)
	assert.False(t, d.IsRegistered)
	assert.Nil(t, d.Email)
}

func TestContactDetailsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	caller := registerUser(t, svc, "Nora Lindt", 5551000130)

	_, err := svc.GetContactDetails(ctx, caller.ID, 424242, true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetContactDetails(ctx, caller.ID, 424242, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPhoneBookListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	owner := registerUser(t, svc, "Paula Reyes", 5551000140)
	other := registerUser(t, svc, "Quinn Barry", 5551000141)

	_, _, err := svc.SaveAlias(ctx, owner.ID, 5556003000, "Gym")
	require.NoError(t, err)
	_, _, err = svc.SaveAlias(ctx, owner.ID, 5556003001, "Vet")
	require.NoError(t, err)
	_, _, err = svc.SaveAlias(ctx, other.ID, 5556003002, "Not Yours")
	require.NoError(t, err)

	require.NoError(t, svc.ReportNumber(ctx, other.ID, 5556003000))

	rows, err := svc.PhoneBook(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Gym", rows[0].Alias)
	assert.Equal(t, int64(5556003000), rows[0].Number)
	assert.Equal(t, int64(1), rows[0].SpamCount)
	assert.Equal(t, "Vet", rows[1].Alias)
	assert.Zero(t, rows[1].SpamCount)
}
