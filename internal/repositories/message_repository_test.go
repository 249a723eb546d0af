package repositories

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"messagely/internal/models"
)

var detailColumns = []string{
	"id", "body", "sent_at", "read_at",
	"from_username", "from_first_name", "from_last_name", "from_phone",
	"to_username", "to_first_name", "to_last_name", "to_phone",
}

func TestCreateMessage(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO messages (from_username, to_username, body, sent_at)`)).
		WithArgs("alice", "bob", "hi").
		WillReturnRows(sqlmock.NewRows([]string{"id", "from_username", "to_username", "body", "sent_at", "read_at"}).
			AddRow(1, "alice", "bob", "hi", now, nil))

	msg, err := repo.CreateMessage(context.Background(), "alice", "bob", "hi")
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, "alice", msg.FromUsername)
	assert.Equal(t, "bob", msg.ToUsername)
	assert.Equal(t, now, msg.SentAt)
	assert.Nil(t, msg.ReadAt)
}

func TestCreateMessageUnknownRecipient(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO messages`)).
		WithArgs("alice", "ghost", "hi").
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	_, err := repo.CreateMessage(context.Background(), "alice", "ghost", "hi")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.True(t, models.IsKind(err, models.KindNotFound))
}

func TestGetMessageJoinsBothUsers(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM messages AS m`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(detailColumns).
			AddRow(9, "hi", now, nil, "alice", "Alice", "Smith", "555", "bob", "Bob", "Jones", "777"))

	detail, err := repo.GetMessage(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(9), detail.ID)
	assert.Equal(t, "hi", detail.Body)
	assert.Nil(t, detail.ReadAt)
	assert.Equal(t, models.UserSummary{Username: "alice", FirstName: "Alice", LastName: "Smith", Phone: "555"}, detail.FromUser)
	assert.Equal(t, models.UserSummary{Username: "bob", FirstName: "Bob", LastName: "Jones", Phone: "777"}, detail.ToUser)
}

func TestGetMessageMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.id = $1`)).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetMessage(context.Background(), 404)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestMarkReadKeepsExistingTimestamp(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)
	first := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE messages SET read_at = COALESCE(read_at, current_timestamp)`)).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "read_at"}).AddRow(3, first))
	}

	r1, err := repo.MarkRead(context.Background(), 3)
	require.NoError(t, err)
	r2, err := repo.MarkRead(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, r1, r2)
	assert.Equal(t, first, r2.ReadAt)
}

func TestMarkReadMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE messages SET read_at`)).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "read_at"}))

	_, err := repo.MarkRead(context.Background(), 5)
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestListMessagesFrom(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.from_username = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "sent_at", "read_at", "username", "first_name", "last_name", "phone"}).
			AddRow(1, "hi", now, now, "bob", "Bob", "Jones", "777"))

	msgs, err := repo.ListMessagesFrom(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "bob", msgs[0].ToUser.Username)
	require.NotNil(t, msgs[0].ReadAt)
	assert.Equal(t, now, *msgs[0].ReadAt)
}

func TestListMessagesTo(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.to_username = $1`)).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "sent_at", "read_at", "username", "first_name", "last_name", "phone"}).
			AddRow(1, "hi", now, nil, "alice", "Alice", "Smith", "555").
			AddRow(2, "again", now, nil, "alice", "Alice", "Smith", "555"))

	msgs, err := repo.ListMessagesTo(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "alice", msgs[0].FromUser.Username)
	assert.Equal(t, "again", msgs[1].Body)
}

func TestListMessagesToEmpty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE m.to_username = $1`)).
		WithArgs("carol").
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "sent_at", "read_at", "username", "first_name", "last_name", "phone"}))

	msgs, err := repo.ListMessagesTo(context.Background(), "carol")
	require.NoError(t, err)
	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
}
