package notifier

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-exchange-service/internal/domain"
)

const SignatureHeader = "X-Signature"

// CallbackNotifier шлет новую транзакцию в back-office по HTTP,
// когда kafka не настроена
type CallbackNotifier struct {
	callbackURL string
	secret      []byte
	client      *http.Client
}

func NewCallbackNotifier(callbackURL, secret string, timeout time.Duration) *CallbackNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CallbackNotifier{
		callbackURL: callbackURL,
		secret:      []byte(secret),
		client:      &http.Client{Timeout: timeout},
	}
}

func (n *CallbackNotifier) PublishTransactionCreated(ctx context.Context, tx *domain.Transaction) error {
	return n.SendCallback(ctx, CallbackPayload{
		Event:          "transaction.created",
		TransactionID:  tx.ID,
		Reference:      tx.Reference,
		UserID:         tx.UserID,
		Direction:      string(tx.Direction),
		Status:         string(tx.Status),
		AmountINR:      tx.AmountINR.StringFixed(6),
		AmountUSDT:     tx.AmountUSDT.StringFixed(6),
		UnitRate:       tx.UnitRate.String(),
		Network:        string(tx.Network),
		TimerExpiresAt: tx.TimerExpiresAt,
		CreatedAt:      tx.CreatedAt,
	})
}

func (n *CallbackNotifier) SendCallback(ctx context.Context, payload CallbackPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal callback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.callbackURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	// Header с HMAC сигнатурой
	if len(n.secret) > 0 {
		req.Header.Set(SignatureHeader, Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("callback failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
	return nil
}

func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
