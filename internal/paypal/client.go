// Package paypal реализует клиент REST API PayPal: получение OAuth-токена,
// создание и отмена подписок, создание и захват заказов и проверку
// подписи вебхуков.
package paypal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/booklike/booklike/internal/config"
)

// Базовые адреса API по окружениям.
const (
	sandboxAPIURL = "https://api-m.sandbox.paypal.com"
	liveAPIURL    = "https://api-m.paypal.com"
)

// Client — клиент REST API PayPal.
type Client struct {
	clientID     string
	clientSecret string
	webhookID    string
	apiURL       string
	httpClient   *http.Client
}

// NewClient создаёт новый клиент PayPal.
func NewClient(cfg config.PayPal) *Client {
	apiURL := sandboxAPIURL
	if cfg.Environment == "live" {
		apiURL = liveAPIURL
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		webhookID:    cfg.WebhookID,
		apiURL:       apiURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// getAccessToken запрашивает OAuth-токен по client credentials.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	const op = "paypal.getAccessToken"
	if c.clientID == "" || c.clientSecret == "" {
		return "", fmt.Errorf("%s: missing PayPal API credentials", op)
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK || token.AccessToken == "" {
		return "", fmt.Errorf("%s: unable to obtain access token, status %s", op, resp.Status)
	}
	return token.AccessToken, nil
}

func (c *Client) newAuthorizedRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	accessToken, err := c.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateSubscription создаёт подписку по тарифному плану и возвращает
// её идентификатор со ссылкой на страницу одобрения.
func (c *Client) CreateSubscription(ctx context.Context, reqParams CreateSubscriptionRequest) (*CreateSubscriptionResponse, error) {
	const op = "paypal.CreateSubscription"
	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, "/v1/billing/subscriptions", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var subResp CreateSubscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&subResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated || subResp.ID == "" {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}
	return &subResp, nil
}

// CancelSubscription отменяет подписку на стороне провайдера.
// Успех — это 204 No Content; любой другой ответ считается ошибкой.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID, reason string) error {
	const op = "paypal.CancelSubscription"
	if reason == "" {
		reason = "User cancelled"
	}
	req, err := c.newAuthorizedRequest(ctx, http.MethodPost,
		"/v1/billing/subscriptions/"+subscriptionID+"/cancel",
		map[string]string{"reason": reason})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		_ = json.Unmarshal(body, &errResp)
		if errResp.Message != "" {
			return fmt.Errorf("%s: %s", op, errResp.Message)
		}
		return fmt.Errorf("%s: unable to cancel subscription, status %s", op, resp.Status)
	}
	return nil
}

// CreateOrder создаёт заказ разового платежа с намерением CAPTURE.
// Одобрение заказа пользователем и его захват выполняются отдельными шагами.
func (c *Client) CreateOrder(ctx context.Context, reqParams CreateOrderRequest) (*CreateOrderResponse, error) {
	const op = "paypal.CreateOrder"
	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, "/v2/checkout/orders", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var orderResp CreateOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&orderResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated || orderResp.ID == "" {
		return nil, fmt.Errorf("%s: unable to create order, status %s", op, resp.Status)
	}
	return &orderResp, nil
}

// CaptureOrder захватывает одобренный на клиенте заказ разового платежа.
func (c *Client) CaptureOrder(ctx context.Context, orderID string) (*CaptureOrderResponse, error) {
	const op = "paypal.CaptureOrder"
	req, err := c.newAuthorizedRequest(ctx, http.MethodPost,
		"/v2/checkout/orders/"+orderID+"/capture", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var captureResp CaptureOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&captureResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: unable to capture order, status %s", op, resp.Status)
	}
	if captureResp.Status == "" {
		captureResp.Status = "COMPLETED"
	}
	return &captureResp, nil
}

// VerifyWebhookSignature проверяет подпись события через API провайдера.
// rawEvent — тело запроса вебхука без изменений. Возвращаемый статус
// сравнивается вызывающей стороной с VerificationStatusSuccess.
func (c *Client) VerifyWebhookSignature(ctx context.Context, headers WebhookHeaders, rawEvent []byte) (string, error) {
	const op = "paypal.VerifyWebhookSignature"
	if c.webhookID == "" {
		return "", fmt.Errorf("%s: missing webhook id for verification", op)
	}

	req, err := c.newAuthorizedRequest(ctx, http.MethodPost,
		"/v1/notifications/verify-webhook-signature",
		VerifyWebhookSignatureRequest{
			TransmissionID:   headers.TransmissionID,
			TransmissionTime: headers.TransmissionTime,
			CertURL:          headers.CertURL,
			AuthAlgo:         headers.AuthAlgo,
			TransmissionSig:  headers.TransmissionSig,
			WebhookID:        c.webhookID,
			WebhookEvent:     json.RawMessage(rawEvent),
		})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var verifyResp VerifyWebhookSignatureResponse
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unable to verify webhook signature, status %s", op, resp.Status)
	}
	return verifyResp.VerificationStatus, nil
}

// WebhookHeaders — пять обязательных заголовков подписи вебхука PayPal.
type WebhookHeaders struct {
	TransmissionID   string
	TransmissionTime string
	CertURL          string
	AuthAlgo         string
	TransmissionSig  string
}
