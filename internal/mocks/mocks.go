package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"messagely/internal/models"
	"messagely/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, user models.User) (models.UserDetail, error) {
	args := m.Called(ctx, user)
	var detail models.UserDetail
	if val := args.Get(0); val != nil {
		detail = val.(models.UserDetail)
	}
	return detail, args.Error(1)
}

func (m *UserRepositoryMock) GetPasswordHash(ctx context.Context, username string) (string, error) {
	args := m.Called(ctx, username)
	return args.String(0), args.Error(1)
}

func (m *UserRepositoryMock) UpdateLoginTimestamp(ctx context.Context, username string) (models.LoginStamp, error) {
	args := m.Called(ctx, username)
	var stamp models.LoginStamp
	if val := args.Get(0); val != nil {
		stamp = val.(models.LoginStamp)
	}
	return stamp, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, username string) (models.UserDetail, error) {
	args := m.Called(ctx, username)
	var detail models.UserDetail
	if val := args.Get(0); val != nil {
		detail = val.(models.UserDetail)
	}
	return detail, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	args := m.Called(ctx)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, fromUsername, toUsername, body string) (models.Message, error) {
	args := m.Called(ctx, fromUsername, toUsername, body)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID int64) (models.MessageDetail, error) {
	args := m.Called(ctx, messageID)
	var msg models.MessageDetail
	if val := args.Get(0); val != nil {
		msg = val.(models.MessageDetail)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) MarkRead(ctx context.Context, messageID int64) (models.ReadReceipt, error) {
	args := m.Called(ctx, messageID)
	var receipt models.ReadReceipt
	if val := args.Get(0); val != nil {
		receipt = val.(models.ReadReceipt)
	}
	return receipt, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessagesFrom(ctx context.Context, username string) ([]models.SentMessage, error) {
	args := m.Called(ctx, username)
	var msgs []models.SentMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.SentMessage)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) ListMessagesTo(ctx context.Context, username string) ([]models.ReceivedMessage, error) {
	args := m.Called(ctx, username)
	var msgs []models.ReceivedMessage
	if val := args.Get(0); val != nil {
		msgs = val.([]models.ReceivedMessage)
	}
	return msgs, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
