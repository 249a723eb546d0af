package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"messagely/internal/db"
	"messagely/internal/models"
)

var ErrMessageNotFound = models.NewNotFoundError("message not found")

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, fromUsername, toUsername, body string) (models.Message, error)
	GetMessage(ctx context.Context, messageID int64) (models.MessageDetail, error)
	MarkRead(ctx context.Context, messageID int64) (models.ReadReceipt, error)
	ListMessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error)
	ListMessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(database *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: database}
}

// CreateMessage stores a message. Unknown usernames surface as ErrUserNotFound.
func (r *MessageRepo) CreateMessage(ctx context.Context, fromUsername, toUsername, body string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (from_username, to_username, body, sent_at)
        VALUES ($1, $2, $3, current_timestamp)
        RETURNING id, from_username, to_username, body, sent_at, read_at`, fromUsername, toUsername, body).
		StructScan(&msg)
	if db.IsForeignKeyViolation(err) {
		return models.Message{}, fmt.Errorf("%w: %s", ErrUserNotFound, toUsername)
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

type messageDetailRow struct {
	ID            int64      `db:"id"`
	Body          string     `db:"body"`
	SentAt        time.Time  `db:"sent_at"`
	ReadAt        *time.Time `db:"read_at"`
	FromUsername  string     `db:"from_username"`
	FromFirstName string     `db:"from_first_name"`
	FromLastName  string     `db:"from_last_name"`
	FromPhone     string     `db:"from_phone"`
	ToUsername    string     `db:"to_username"`
	ToFirstName   string     `db:"to_first_name"`
	ToLastName    string     `db:"to_last_name"`
	ToPhone       string     `db:"to_phone"`
}

// GetMessage retrieves a message with both parties expanded.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID int64) (models.MessageDetail, error) {
	var row messageDetailRow
	err := r.db.GetContext(ctx, &row, `SELECT m.id, m.body, m.sent_at, m.read_at,
            f.username AS from_username, f.first_name AS from_first_name, f.last_name AS from_last_name, f.phone AS from_phone,
            t.username AS to_username, t.first_name AS to_first_name, t.last_name AS to_last_name, t.phone AS to_phone
        FROM messages AS m
        JOIN users AS f ON f.username = m.from_username
        JOIN users AS t ON t.username = m.to_username
        WHERE m.id = $1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.MessageDetail{}, ErrMessageNotFound
	}
	if err != nil {
		return models.MessageDetail{}, fmt.Errorf("select message: %w", err)
	}
	return models.MessageDetail{
		ID:     row.ID,
		Body:   row.Body,
		SentAt: row.SentAt,
		ReadAt: row.ReadAt,
		FromUser: models.UserSummary{
			Username:  row.FromUsername,
			FirstName: row.FromFirstName,
			LastName:  row.FromLastName,
			Phone:     row.FromPhone,
		},
		ToUser: models.UserSummary{
			Username:  row.ToUsername,
			FirstName: row.ToFirstName,
			LastName:  row.ToLastName,
			Phone:     row.ToPhone,
		},
	}, nil
}

// MarkRead sets read_at once. Later calls return the original timestamp.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID int64) (models.ReadReceipt, error) {
	var receipt models.ReadReceipt
	err := r.db.GetContext(ctx, &receipt, `UPDATE messages SET read_at = COALESCE(read_at, current_timestamp)
        WHERE id = $1
        RETURNING id, read_at`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReadReceipt{}, ErrMessageNotFound
	}
	if err != nil {
		return models.ReadReceipt{}, fmt.Errorf("mark message read: %w", err)
	}
	return receipt, nil
}

type counterpartRow struct {
	ID        int64      `db:"id"`
	Body      string     `db:"body"`
	SentAt    time.Time  `db:"sent_at"`
	ReadAt    *time.Time `db:"read_at"`
	Username  string     `db:"username"`
	FirstName string     `db:"first_name"`
	LastName  string     `db:"last_name"`
	Phone     string     `db:"phone"`
}

func (row counterpartRow) summary() models.UserSummary {
	return models.UserSummary{
		Username:  row.Username,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Phone:     row.Phone,
	}
}

// ListMessagesFrom returns messages sent by username with recipient info.
func (r *MessageRepo) ListMessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	var rows []counterpartRow
	err := r.db.SelectContext(ctx, &rows, `SELECT m.id, m.body, m.sent_at, m.read_at,
            t.username, t.first_name, t.last_name, t.phone
        FROM messages AS m
        JOIN users AS t ON t.username = m.to_username
        WHERE m.from_username = $1
        ORDER BY m.sent_at ASC, m.id ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("select sent messages: %w", err)
	}

	result := make([]models.SentMessage, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.SentMessage{
			ID:     row.ID,
			ToUser: row.summary(),
			Body:   row.Body,
			SentAt: row.SentAt,
			ReadAt: row.ReadAt,
		})
	}
	return result, nil
}

// ListMessagesTo returns messages received by username with sender info.
func (r *MessageRepo) ListMessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	var rows []counterpartRow
	err := r.db.SelectContext(ctx, &rows, `SELECT m.id, m.body, m.sent_at, m.read_at,
            f.username, f.first_name, f.last_name, f.phone
        FROM messages AS m
        JOIN users AS f ON f.username = m.from_username
        WHERE m.to_username = $1
        ORDER BY m.sent_at ASC, m.id ASC`, username)
	if err != nil {
		return nil, fmt.Errorf("select received messages: %w", err)
	}

	result := make([]models.ReceivedMessage, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.ReceivedMessage{
			ID:       row.ID,
			FromUser: row.summary(),
			Body:     row.Body,
			SentAt:   row.SentAt,
			ReadAt:   row.ReadAt,
		})
	}
	return result, nil
}
