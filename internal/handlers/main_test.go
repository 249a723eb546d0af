package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"messagely/internal/auth"
	"messagely/internal/repositories"
)

type testApp struct {
	router *gin.Engine
	tokens *auth.TokenManager
	hasher *auth.BcryptHasher
}

func newTestApp(t *testing.T, users repositories.UserRepository, messages repositories.MessageRepository, notifier Notifier) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	creds, err := auth.NewCredentialStore(users, hasher)
	require.NoError(t, err)
	tokens := auth.NewTokenManager("handler-test-secret", time.Hour)

	router := NewRouter(RouterDeps{
		ServiceName: "messagely-test",
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Auth:        auth.NewService(creds, tokens, nil),
		Credentials: creds,
		Messages:    messages,
		Notifier:    notifier,
	})
	return &testApp{router: router, tokens: tokens, hasher: hasher}
}

func (a *testApp) token(t *testing.T, username string) string {
	t.Helper()
	token, err := a.tokens.Issue(username)
	require.NoError(t, err)
	return token
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorBody(message string, status int) string {
	encoded, _ := json.Marshal(map[string]any{"error": map[string]any{"message": message, "status": status}})
	return string(encoded)
}

func ginTestContext(rec *httptest.ResponseRecorder) (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	return c, engine
}
