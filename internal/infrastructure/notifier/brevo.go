package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"prop-vault.backend/internal/domain/repositories"
)

const defaultEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoNotifier delivers transactional email through the Brevo HTTP API. It
// implements repositories.Notifier.
type BrevoNotifier struct {
	endpoint    string
	apiKey      string
	senderEmail string
	senderName  string
	httpClient  *http.Client
	templates   map[string]*template.Template
}

// NewBrevoNotifier creates a notifier. A nil httpClient gets a 10s-timeout
// default.
func NewBrevoNotifier(apiKey, senderEmail, senderName string, httpClient *http.Client) *BrevoNotifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &BrevoNotifier{
		endpoint:    defaultEndpoint,
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		httpClient:  httpClient,
		templates:   parseTemplates(),
	}
}

var _ repositories.Notifier = (*BrevoNotifier)(nil)

// SetEndpoint overrides the API endpoint (used for testing).
func (n *BrevoNotifier) SetEndpoint(endpoint string) {
	n.endpoint = endpoint
}

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

// Notify renders the named template with data and sends it to recipient.
func (n *BrevoNotifier) Notify(ctx context.Context, recipient, subject, templateName string, data map[string]interface{}) error {
	tmpl, ok := n.templates[templateName]
	if !ok {
		return fmt.Errorf("notifier: unknown template %q", templateName)
	}

	var content bytes.Buffer
	if err := tmpl.Execute(&content, data); err != nil {
		return fmt.Errorf("notifier: render %q: %w", templateName, err)
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": n.senderName, "email": n.senderEmail},
		To:          []map[string]string{{"email": recipient}},
		Subject:     subject,
		HTMLContent: content.String(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", n.apiKey)
	req.Header.Set("content-type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notifier: brevo status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func parseTemplates() map[string]*template.Template {
	sources := map[string]string{
		"withdrawal_request": `
<p>Hi {{.name}},</p>
<p>We received your withdrawal request for <strong>${{.amount}}</strong> via {{.payment_method}} on {{.created_at}}.</p>
<p>Our team will review it shortly. You will get another email once it is processed.</p>`,

		"admin_withdrawal_request": `
<p>New withdrawal request awaiting review.</p>
<ul>
<li>User: {{.user_name}} ({{.user_email}})</li>
<li>Amount: ${{.amount}}</li>
<li>Method: {{.payment_method}}</li>
<li>Requested: {{.created_at}}</li>
</ul>`,

		"withdrawal_status": `
<p>Hi {{.name}},</p>
<p>Your withdrawal of <strong>${{.amount}}</strong> via {{.payment_method}} is now <strong>{{.status}}</strong>.</p>
{{if .admin_notes}}<p>Note: {{.admin_notes}}</p>{{end}}`,

		"earning_credited": `
<p>Hi {{.name}},</p>
<p>You earned a <strong>${{.amount}}</strong> referral commission.</p>
<p>Status: {{.status}}.</p>`,

		"admin_payout_failed": `
<p>An external payout failed and needs manual review.</p>
<ul>
<li>Withdrawal: {{.withdrawal_id}}</li>
<li>Amount: ${{.amount}}</li>
<li>Gateway status: {{.external_status}}</li>
</ul>`,
	}

	templates := make(map[string]*template.Template, len(sources))
	for name, src := range sources {
		templates[name] = template.Must(template.New(name).Parse(src))
	}
	return templates
}
