package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// defaultTelegramAPI is the Bot API base URL.
const defaultTelegramAPI = "https://api.telegram.org"

// BotVerifier validates a bot token with the identity provider and returns
// the bot's numeric id.
type BotVerifier interface {
	VerifyBotToken(ctx context.Context, botToken string) (int64, error)
}

// TelegramVerifier verifies bot tokens by calling the Telegram Bot API getMe
// method. The token is never persisted; only the resulting id is used.
type TelegramVerifier struct {
	baseURL string
	client  *http.Client
}

// TelegramConfig configures the Telegram verifier.
type TelegramConfig struct {
	// BaseURL overrides the Bot API base URL (for tests and local API servers).
	BaseURL string

	// Timeout bounds the getMe call. Defaults to 10s.
	Timeout time.Duration
}

// NewTelegramVerifier creates a verifier against the Telegram Bot API.
func NewTelegramVerifier(cfg TelegramConfig) *TelegramVerifier {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTelegramAPI
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TelegramVerifier{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// getMeResponse is the Bot API envelope for getMe.
type getMeResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		ID int64 `json:"id"`
	} `json:"result"`
	Description string `json:"description"`
}

// VerifyBotToken calls getMe with the given token and returns the bot id.
func (v *TelegramVerifier) VerifyBotToken(ctx context.Context, botToken string) (int64, error) {
	if botToken == "" {
		return 0, fmt.Errorf("empty bot token")
	}

	// The token is a URL path segment; escape it so a malformed token cannot
	// change the request target.
	endpoint := v.baseURL + "/bot" + url.PathEscape(botToken) + "/getMe"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("building getMe request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling getMe: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var me getMeResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return 0, fmt.Errorf("decoding getMe response: %w", err)
	}
	if !me.OK {
		return 0, fmt.Errorf("bot token rejected: %s", me.Description)
	}
	if me.Result.ID <= 0 {
		return 0, fmt.Errorf("getMe returned invalid bot id %d", me.Result.ID)
	}
	return me.Result.ID, nil
}

// Verify interface compliance.
var _ BotVerifier = (*TelegramVerifier)(nil)
