package users

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"soundnorm-site/database"
)

func testDB(t *testing.T) *gorm.DB {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func TestCreateAndAuthenticate(t *testing.T) {
	db := testDB(t)
	created, err := Create(db, "alice", "hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", created.Password)

	user, err := Authenticate(db, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = Authenticate(db, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = Authenticate(db, "bob", "hunter2")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = Create(db, "alice", "again")
	assert.Error(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	db := testDB(t)
	calls := 0
	password := func() (string, error) {
		calls++
		return "s3cret", nil
	}
	require.NoError(t, EnsureAdmin(db, password))
	require.NoError(t, EnsureAdmin(db, password))
	assert.Equal(t, 1, calls)

	_, err := Authenticate(db, "admin", "s3cret")
	assert.NoError(t, err)

	empty := testDB(t)
	err = EnsureAdmin(empty, func() (string, error) { return "", errors.New("please set it") })
	assert.ErrorContains(t, err, "please set it")
}
