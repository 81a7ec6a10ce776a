package feed

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
)

// Client is a thin wrapper over the aggregator's pull API. Transient failures
// surface as errors and are not retried here; callers rely on sync idempotency
// to make their own retries safe.
type Client struct {
	BaseURL  string
	ClientID string
	Secret   string
	HTTP     *http.Client
}

func NewClient(baseURL, clientID, secret string) *Client {
	return &Client{
		BaseURL:  baseURL,
		ClientID: clientID,
		Secret:   secret,
		HTTP:     http.DefaultClient,
	}
}

type syncRequest struct {
	ClientID    string `json:"client_id"`
	Secret      string `json:"secret"`
	AccessToken string `json:"access_token"`
	Cursor      string `json:"cursor,omitempty"`
	Count       int    `json:"count,omitempty"`
}

type errorBody struct {
	ErrorCode string `json:"error_code"`
	ErrorType string `json:"error_type"`
}

// SyncTransactions pulls one page of the incremental feed for a link. An
// empty cursor starts from the beginning of upstream history.
func (c *Client) SyncTransactions(ctx context.Context, accessToken, cursor string, pageSize int) (*SyncPage, error) {
	body, _ := json.Marshal(syncRequest{
		ClientID:    c.ClientID,
		Secret:      c.Secret,
		AccessToken: accessToken,
		Cursor:      cursor,
		Count:       pageSize,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transactions/sync", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, _ := io.ReadAll(res.Body)
	if res.StatusCode >= 300 {
		var eb errorBody
		if err := json.Unmarshal(raw, &eb); err == nil && isCredentialCode(eb.ErrorCode) {
			return nil, &CredentialError{Code: eb.ErrorCode}
		}
		return nil, &apiError{Status: res.StatusCode, Body: string(raw)}
	}

	var page SyncPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func isCredentialCode(code string) bool {
	switch code {
	case "ITEM_LOGIN_REQUIRED", "INVALID_CREDENTIALS", "ITEM_LOCKED", "USER_PERMISSION_REVOKED":
		return true
	}
	return false
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature the aggregator puts
// on webhook deliveries.
func VerifyWebhookSignature(rawBody []byte, signature string, webhookSecret string) bool {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
