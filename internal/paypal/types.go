package paypal

import "encoding/json"

// Запрос на создание подписки по тарифному плану.
type CreateSubscriptionRequest struct {
	PlanID             string              `json:"plan_id"`
	Subscriber         *Subscriber         `json:"subscriber,omitempty"`
	ApplicationContext *ApplicationContext `json:"application_context,omitempty"`
}

// Subscriber — данные подписчика, передаваемые провайдеру.
type Subscriber struct {
	EmailAddress string `json:"email_address,omitempty"`
	Name         *Name  `json:"name,omitempty"`
}

// Name — имя подписчика в формате PayPal.
type Name struct {
	GivenName string `json:"given_name,omitempty"`
	Surname   string `json:"surname,omitempty"`
}

// ApplicationContext управляет поведением страницы одобрения.
type ApplicationContext struct {
	BrandName   string `json:"brand_name,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
	UserAction  string `json:"user_action,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
	CancelURL   string `json:"cancel_url,omitempty"`
}

// CreateSubscriptionResponse — ответ провайдера при создании подписки.
type CreateSubscriptionResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// Link — HATEOAS-ссылка из ответа PayPal (approve, self и т.д.).
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// CreateOrderRequest — запрос на создание заказа разового платежа.
type CreateOrderRequest struct {
	Intent             string              `json:"intent"`
	PurchaseUnits      []PurchaseUnit      `json:"purchase_units"`
	ApplicationContext *ApplicationContext `json:"application_context,omitempty"`
}

// PurchaseUnit — позиция заказа с суммой к оплате.
type PurchaseUnit struct {
	Amount Amount `json:"amount"`
}

// Amount — сумма в формате PayPal: код валюты и строковое значение.
type Amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

// CreateOrderResponse — ответ провайдера при создании заказа.
type CreateOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// CaptureOrderResponse — ответ на захват одобренного заказа.
type CaptureOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// VerifyWebhookSignatureRequest — запрос проверки подписи вебхука.
// Пять значений приходят в заголовках события, WebhookEvent — сырое
// тело события без изменений.
type VerifyWebhookSignatureRequest struct {
	TransmissionID   string          `json:"transmission_id"`
	TransmissionTime string          `json:"transmission_time"`
	CertURL          string          `json:"cert_url"`
	AuthAlgo         string          `json:"auth_algo"`
	TransmissionSig  string          `json:"transmission_sig"`
	WebhookID        string          `json:"webhook_id"`
	WebhookEvent     json.RawMessage `json:"webhook_event"`
}

// VerifyWebhookSignatureResponse — результат проверки подписи.
// Обработка события разрешена только при VerificationStatus == "SUCCESS".
type VerifyWebhookSignatureResponse struct {
	VerificationStatus string `json:"verification_status"`
}

// VerificationStatusSuccess — единственное значение, авторизующее обработку.
const VerificationStatusSuccess = "SUCCESS"

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type errorResponse struct {
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
