package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Default Zoho Mail endpoints.
const (
	DefaultAccountsURL = "https://accounts.zoho.com"
	DefaultAPIBaseURL  = "https://mail.zoho.com/api"
)

// Scopes requested from Zoho Mail.
var Scopes = []string{
	"ZohoMail.accounts.READ",
	"ZohoMail.messages.ALL",
	"ZohoMail.messages.CREATE",
}

// OAuthConfig builds the oauth2 configuration for Zoho's authorization-code
// flow.
func OAuthConfig(clientID, clientSecret, redirectURL, accountsURL string) *oauth2.Config {
	if accountsURL == "" {
		accountsURL = DefaultAccountsURL
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  accountsURL + "/oauth/v2/auth",
			TokenURL: accountsURL + "/oauth/v2/token",
		},
	}
}

// EmailSummary is one row of a mailbox listing.
type EmailSummary struct {
	MessageID    string `json:"messageId"`
	FromAddress  string `json:"fromAddress"`
	Subject      string `json:"subject"`
	Summary      string `json:"summary"`
	ReceivedTime string `json:"receivedTime"`
	IsRead       bool   `json:"isRead"`
}

// Email is a full message body.
type Email struct {
	MessageID   string `json:"messageId"`
	FromAddress string `json:"fromAddress"`
	ToAddress   string `json:"toAddress"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
}

// Attachment is an outgoing file part.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// Client talks to the Zoho Mail REST API, authenticating every call through
// the broker. A 401 from the provider is reported as reauthorization
// required rather than a generic failure.
type Client struct {
	broker  *TokenBroker
	store   TokenStore
	baseURL string
	http    *http.Client
}

// NewClient builds a mail client over the broker.
func NewClient(broker *TokenBroker, store TokenStore, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &Client{
		broker:  broker,
		store:   store,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// PrimaryAccount fetches (and caches) the connected account's identity.
func (c *Client) PrimaryAccount(ctx context.Context) (*AccountInfo, error) {
	if info := c.store.Account(); info != nil {
		return info, nil
	}

	var payload struct {
		Data []struct {
			AccountID           string `json:"accountId"`
			PrimaryEmailAddress string `json:"primaryEmailAddress"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/accounts", &payload); err != nil {
		return nil, err
	}
	if len(payload.Data) == 0 {
		return nil, errors.New("no mail accounts available")
	}

	info := &AccountInfo{
		AccountID:    payload.Data[0].AccountID,
		PrimaryEmail: payload.Data[0].PrimaryEmailAddress,
	}
	c.store.SetAccount(info)
	return info, nil
}

// ListMessages returns the most recent messages in the account inbox.
func (c *Client) ListMessages(ctx context.Context, limit int) ([]EmailSummary, error) {
	account, err := c.PrimaryAccount(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 25
	}

	var payload struct {
		Data []EmailSummary `json:"data"`
	}
	path := fmt.Sprintf("/accounts/%s/messages/view?limit=%d", account.AccountID, limit)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// GetMessage fetches one message body.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*Email, error) {
	account, err := c.PrimaryAccount(ctx)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Data Email `json:"data"`
	}
	path := fmt.Sprintf("/accounts/%s/messages/%s/content", account.AccountID, messageID)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}
	payload.Data.MessageID = messageID
	return &payload.Data, nil
}

// SendMessage sends a message from the primary address. Attachments are
// transmitted as a multipart form, matching Zoho's compose endpoint.
func (c *Client) SendMessage(ctx context.Context, to, subject, content string, attachments []Attachment) error {
	account, err := c.PrimaryAccount(ctx)
	if err != nil {
		return err
	}

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	fields := map[string]string{
		"fromAddress": account.PrimaryEmail,
		"toAddress":   to,
		"subject":     subject,
		"content":     content,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return err
		}
	}
	for _, attachment := range attachments {
		part, err := form.CreateFormFile("attachments", attachment.Name)
		if err != nil {
			return err
		}
		if _, err := part.Write(attachment.Data); err != nil {
			return err
		}
	}
	if err := form.Close(); err != nil {
		return err
	}

	path := fmt.Sprintf("/accounts/%s/messages", account.AccountID)
	return c.do(ctx, http.MethodPost, path, form.FormDataContentType(), body, nil)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	token, err := c.broker.GetValidAccessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrReauthorizationRequired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail api status %d: %s", resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode mail api response: %w", err)
	}
	return nil
}
