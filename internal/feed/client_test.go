package feed

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions/sync", r.URL.Path)

		var req syncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "client-1", req.ClientID)
		assert.Equal(t, "tok-abc", req.AccessToken)

		_ = json.NewEncoder(w).Encode(SyncPage{
			Added:      []FeedTransaction{{TransactionID: "ext-1", Amount: 15.99, Date: "2025-05-01", Name: "Netflix, Inc."}},
			NextCursor: "cur-2",
			HasMore:    true,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "client-1", "secret")
	page, err := c.SyncTransactions(context.Background(), "tok-abc", "", 100)
	require.NoError(t, err)
	assert.Len(t, page.Added, 1)
	assert.Equal(t, "cur-2", page.NextCursor)
	assert.True(t, page.HasMore)
}

func TestSyncTransactionsCredentialError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error_code":"ITEM_LOGIN_REQUIRED","error_type":"ITEM_ERROR"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "client-1", "secret")
	_, err := c.SyncTransactions(context.Background(), "tok-abc", "cur-1", 100)

	var credErr *CredentialError
	require.True(t, errors.As(err, &credErr))
	assert.Equal(t, "ITEM_LOGIN_REQUIRED", credErr.Code)
}

func TestSyncTransactionsTransientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error_type":"API_ERROR"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "client-1", "secret")
	_, err := c.SyncTransactions(context.Background(), "tok-abc", "cur-1", 100)

	var credErr *CredentialError
	assert.False(t, errors.As(err, &credErr))
	assert.Error(t, err)
}

func TestVerifyWebhookSignature(t *testing.T) {
	body := []byte(`{"webhook_type":"TRANSACTIONS"}`)
	mac := hmac.New(sha256.New, []byte("whsec"))
	mac.Write(body)
	sig := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyWebhookSignature(body, sig, "whsec"))
	assert.False(t, VerifyWebhookSignature(body, sig, "other"))
	assert.False(t, VerifyWebhookSignature([]byte("tampered"), sig, "whsec"))
}

func TestFeedTransactionLabel(t *testing.T) {
	assert.Equal(t, "Netflix", FeedTransaction{Name: "NETFLIX.COM", MerchantName: "Netflix"}.Label())
	assert.Equal(t, "NETFLIX.COM", FeedTransaction{Name: "NETFLIX.COM"}.Label())
}
