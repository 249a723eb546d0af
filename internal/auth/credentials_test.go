package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"messagely/internal/mocks"
	"messagely/internal/models"
	"messagely/internal/repositories"
)

// countingHasher wraps a real hasher and counts Compare calls.
type countingHasher struct {
	PasswordHasher
	compares int
}

func (h *countingHasher) Compare(hash, password string) bool {
	h.compares++
	return h.PasswordHasher.Compare(hash, password)
}

func newTestHasher(t *testing.T) *countingHasher {
	t.Helper()
	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	return &countingHasher{PasswordHasher: hasher}
}

func newTestStore(t *testing.T, users repositories.UserRepository) (*CredentialStore, *countingHasher) {
	t.Helper()
	hasher := newTestHasher(t)
	store, err := NewCredentialStore(users, hasher)
	require.NoError(t, err)
	return store, hasher
}

func aliceInput() models.RegisterInput {
	return models.RegisterInput{
		Username:  "alice",
		Password:  "pw123",
		FirstName: "Alice",
		LastName:  "Smith",
		Phone:     "555-0100",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, hasher := newTestStore(t, users)
	now := time.Now().UTC()

	var stored models.User
	users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" && u.FirstName == "Alice" && u.Phone == "555-0100"
	})).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.User)
	}).Return(models.UserDetail{Username: "alice", JoinAt: now, LastLoginAt: now}, nil).Once()

	detail, err := store.Register(context.Background(), aliceInput())
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Username)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.True(t, hasher.Compare(stored.PasswordHash, "pw123"))
	users.AssertExpectations(t)
}

func TestRegisterThenAuthenticate(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, _ := newTestStore(t, users)

	var stored models.User
	users.On("CreateUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).(models.User)
	}).Return(models.UserDetail{Username: "alice"}, nil).Once()
	_, err := store.Register(context.Background(), aliceInput())
	require.NoError(t, err)

	users.On("GetPasswordHash", mock.Anything, "alice").Return(stored.PasswordHash, nil)

	ok, err := store.Authenticate(context.Background(), "alice", "pw123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Authenticate(context.Background(), "alice", "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegisterValidation(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, _ := newTestStore(t, users)

	in := aliceInput()
	in.Phone = " "
	in.FirstName = ""
	_, err := store.Register(context.Background(), in)
	require.Error(t, err)
	assert.True(t, models.IsKind(err, models.KindValidation))
	assert.Contains(t, err.Error(), "first_name, phone")

	in = aliceInput()
	in.Password = strings.Repeat("p", 73)
	_, err = store.Register(context.Background(), in)
	assert.True(t, models.IsKind(err, models.KindValidation))

	users.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterDuplicateIsConflict(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, _ := newTestStore(t, users)

	users.On("CreateUser", mock.Anything, mock.Anything).Return(nil, repositories.ErrUsernameTaken).Once()

	_, err := store.Register(context.Background(), aliceInput())
	assert.True(t, models.IsKind(err, models.KindConflict))
}

func TestAuthenticateUnknownUserIsFalseNotError(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, hasher := newTestStore(t, users)

	users.On("GetPasswordHash", mock.Anything, "ghost").Return("", repositories.ErrUserNotFound).Once()

	ok, err := store.Authenticate(context.Background(), "ghost", dummyPassword)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, hasher.compares)
}

func TestAuthenticateWrongPasswordComparesOnce(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, hasher := newTestStore(t, users)
	hash, err := hasher.Hash("pw123")
	require.NoError(t, err)

	users.On("GetPasswordHash", mock.Anything, "alice").Return(hash, nil).Once()

	ok, err := store.Authenticate(context.Background(), "alice", "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, hasher.compares)
}

func TestAuthenticateStoreErrorPropagates(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, _ := newTestStore(t, users)

	users.On("GetPasswordHash", mock.Anything, "alice").Return("", assert.AnError).Once()

	ok, err := store.Authenticate(context.Background(), "alice", "pw123")
	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, ok)
}

func TestUpdateLoginTimestampUnknownUser(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, _ := newTestStore(t, users)

	users.On("UpdateLoginTimestamp", mock.Anything, "ghost").Return(nil, repositories.ErrUserNotFound).Once()

	_, err := store.UpdateLoginTimestamp(context.Background(), "ghost")
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

func TestReadProjections(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	store, _ := newTestStore(t, users)

	users.On("GetUser", mock.Anything, "alice").Return(models.UserDetail{Username: "alice"}, nil).Once()
	users.On("ListUsers", mock.Anything).Return([]models.UserSummary{{Username: "alice"}, {Username: "bob"}}, nil).Once()

	detail, err := store.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Username)

	all, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
	users.AssertExpectations(t)
}
