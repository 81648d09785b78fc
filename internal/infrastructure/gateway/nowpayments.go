package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"prop-vault.backend/internal/domain/entities"
	"prop-vault.backend/internal/domain/repositories"
)

const defaultTimeout = 30 * time.Second

// NOWPaymentsClient talks to the NOWPayments mass-payout API. It implements
// repositories.PayoutGateway.
type NOWPaymentsClient struct {
	baseURL    string
	apiKey     string
	ipnSecret  []byte
	httpClient *http.Client
}

// APIError is a non-2xx gateway response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("nowpayments: status %d: %s", e.StatusCode, e.Message)
}

// NewNOWPaymentsClient creates a gateway client. A nil httpClient gets the
// default 30s-timeout client.
func NewNOWPaymentsClient(baseURL, apiKey, ipnSecret string, httpClient *http.Client) *NOWPaymentsClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &NOWPaymentsClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		ipnSecret:  []byte(ipnSecret),
		httpClient: httpClient,
	}
}

var _ repositories.PayoutGateway = (*NOWPaymentsClient)(nil)

type validateAddressRequest struct {
	Address  string `json:"address"`
	Currency string `json:"currency"`
}

type payoutItemRequest struct {
	Address  string  `json:"address"`
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

type createPayoutRequest struct {
	IPNCallbackURL string              `json:"ipn_callback_url,omitempty"`
	Description    string              `json:"description,omitempty"`
	Withdrawals    []payoutItemRequest `json:"withdrawals"`
}

type payoutItemResponse struct {
	ID       string          `json:"id"`
	BatchID  string          `json:"batch_withdrawal_id"`
	Address  string          `json:"address"`
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
	Status   string          `json:"status"`
	Hash     string          `json:"hash"`
}

type createPayoutResponse struct {
	ID          string               `json:"id"`
	Status      string               `json:"status"`
	Withdrawals []payoutItemResponse `json:"withdrawals"`
}

type verifyPayoutRequest struct {
	VerificationCode string `json:"verification_code"`
}

type listPayoutsResponse struct {
	Data []payoutItemResponse `json:"data"`
}

// ValidateAddress checks a destination address with the gateway. A 4xx
// response means the address was rejected; transport errors surface as
// errors so callers never treat an unchecked address as valid.
func (c *NOWPaymentsClient) ValidateAddress(ctx context.Context, address, currency string) (bool, error) {
	err := c.post(ctx, "/payout/validate-address", validateAddressRequest{
		Address:  address,
		Currency: currency,
	}, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CreatePayout submits a withdrawal batch.
func (c *NOWPaymentsClient) CreatePayout(ctx context.Context, items []entities.PayoutItem, callbackURL, description string) (*entities.PayoutBatch, error) {
	req := createPayoutRequest{
		IPNCallbackURL: callbackURL,
		Description:    description,
	}
	for _, item := range items {
		req.Withdrawals = append(req.Withdrawals, payoutItemRequest{
			Address:  item.Address,
			Currency: item.Currency,
			Amount:   item.Amount.InexactFloat64(),
		})
	}

	var resp createPayoutResponse
	if err := c.post(ctx, "/payout", req, &resp); err != nil {
		return nil, err
	}

	batch := &entities.PayoutBatch{
		BatchID: resp.ID,
		Status:  resp.Status,
	}
	for _, w := range resp.Withdrawals {
		batch.Withdrawals = append(batch.Withdrawals, entities.PayoutBatchItem{
			PayoutID: w.ID,
			Address:  w.Address,
			Currency: w.Currency,
			Amount:   w.Amount,
			Status:   w.Status,
		})
	}
	return batch, nil
}

// VerifyPayout submits the 2FA code releasing a batch.
func (c *NOWPaymentsClient) VerifyPayout(ctx context.Context, batchID, code string) (bool, error) {
	err := c.post(ctx, fmt.Sprintf("/payout/%s/verify", batchID), verifyPayoutRequest{
		VerificationCode: code,
	}, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetPayoutStatus fetches the current status of a single payout.
func (c *NOWPaymentsClient) GetPayoutStatus(ctx context.Context, payoutID string) (*entities.PayoutStatus, error) {
	var resp payoutItemResponse
	if err := c.get(ctx, fmt.Sprintf("/payout/%s", payoutID), &resp); err != nil {
		return nil, err
	}
	return toPayoutStatus(resp), nil
}

// ListPayouts fetches the gateway's payout history.
func (c *NOWPaymentsClient) ListPayouts(ctx context.Context) ([]*entities.PayoutStatus, error) {
	var resp listPayoutsResponse
	if err := c.get(ctx, "/payout", &resp); err != nil {
		return nil, err
	}
	statuses := make([]*entities.PayoutStatus, 0, len(resp.Data))
	for _, item := range resp.Data {
		statuses = append(statuses, toPayoutStatus(item))
	}
	return statuses, nil
}

// VerifyIPNSignature checks the x-nowpayments-sig header: an HMAC-SHA512 of
// the callback body re-serialized with keys sorted. Comparison is constant
// time. An empty configured secret rejects everything.
func (c *NOWPaymentsClient) VerifyIPNSignature(body []byte, signature string) bool {
	if len(c.ipnSecret) == 0 || signature == "" {
		return false
	}

	// UseNumber keeps numeric literals byte-exact through the round trip;
	// float64 would reformat them and break the digest.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload map[string]interface{}
	if err := dec.Decode(&payload); err != nil {
		return false
	}
	// Marshaling a map emits keys in sorted order, matching the gateway's
	// canonical form.
	canonical, err := json.Marshal(payload)
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, c.ipnSecret)
	mac.Write(canonical)
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func toPayoutStatus(item payoutItemResponse) *entities.PayoutStatus {
	return &entities.PayoutStatus{
		PayoutID: item.ID,
		BatchID:  item.BatchID,
		Status:   item.Status,
		Address:  item.Address,
		Currency: item.Currency,
		Amount:   item.Amount,
		Hash:     item.Hash,
	}
}

func (c *NOWPaymentsClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *NOWPaymentsClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *NOWPaymentsClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parseErrorMessage(data)
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

func parseErrorMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return string(data)
}
