package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyBotToken_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bot123:abc/getMe", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "result": {"id": 123, "is_bot": true, "first_name": "test"}}`))
	}))
	defer srv.Close()

	v := NewTelegramVerifier(TelegramConfig{BaseURL: srv.URL})
	id, err := v.VerifyBotToken(context.Background(), "123:abc")
	require.NoError(t, err)
	assert.Equal(t, int64(123), id)
}

func TestVerifyBotToken_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok": false, "error_code": 401, "description": "Unauthorized"}`))
	}))
	defer srv.Close()

	v := NewTelegramVerifier(TelegramConfig{BaseURL: srv.URL})
	_, err := v.VerifyBotToken(context.Background(), "bad-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestVerifyBotToken_EmptyToken(t *testing.T) {
	v := NewTelegramVerifier(TelegramConfig{})
	_, err := v.VerifyBotToken(context.Background(), "")
	assert.Error(t, err)
}

func TestVerifyBotToken_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	v := NewTelegramVerifier(TelegramConfig{BaseURL: srv.URL})
	_, err := v.VerifyBotToken(context.Background(), "123:abc")
	assert.Error(t, err)
}

func TestVerifyBotToken_InvalidID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok": true, "result": {"id": 0}}`))
	}))
	defer srv.Close()

	v := NewTelegramVerifier(TelegramConfig{BaseURL: srv.URL})
	_, err := v.VerifyBotToken(context.Background(), "123:abc")
	assert.Error(t, err)
}
