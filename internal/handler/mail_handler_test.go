package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"infoco-backoffice/internal/mail"
	"infoco-backoffice/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailFixture struct {
	handler *MailHandler
	store   *mail.MemoryTokenStore
	zoho    *httptest.Server
}

// newMailServer wires the handler against a fake Zoho API that serves one
// account and a two-message inbox.
func newMailServer(t *testing.T) *mailFixture {
	t.Helper()

	zoho := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/accounts":
			fmt.Fprint(w, `{"data":[{"accountId":"acct-1","primaryEmailAddress":"contato@infoco.com.br"}]}`)
		case strings.HasSuffix(r.URL.Path, "/messages/view"):
			fmt.Fprint(w, `{"data":[{"messageId":"m1","subject":"Oficio 12"},{"messageId":"m2","subject":"Contrato"}]}`)
		case strings.HasSuffix(r.URL.Path, "/content"):
			fmt.Fprint(w, `{"data":{"subject":"Oficio 12","content":"<p>corpo</p>"}}`)
		case r.Method == http.MethodPost:
			fmt.Fprint(w, `{"data":{}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(zoho.Close)

	store := mail.NewMemoryTokenStore()
	broker := mail.NewTokenBroker(store, mail.OAuthConfig("client-id", "client-secret",
		"https://backoffice.test/callback", "https://accounts.zoho.test"))
	client := mail.NewClient(broker, store, zoho.URL)

	return &mailFixture{
		handler: NewMailHandler(broker, client),
		store:   store,
		zoho:    zoho,
	}
}

func (f *mailFixture) connect() {
	f.store.SetTokens(&mail.TokenPair{
		AccessToken: "live-token",
		ExpiresAt:   time.Now().Add(time.Hour),
	})
}

func TestMailHandler_Status(t *testing.T) {
	fixture := newMailServer(t)

	w := httptest.NewRecorder()
	fixture.handler.Status(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/status", nil))
	body := testutil.AssertJSONResponse(t, w, http.StatusOK)
	assert.Equal(t, false, body["connected"])

	fixture.connect()
	w = httptest.NewRecorder()
	fixture.handler.Status(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/status", nil))
	body = testutil.AssertJSONResponse(t, w, http.StatusOK)
	assert.Equal(t, true, body["connected"])
}

// beginAuth starts the connect flow and returns the state embedded in
// the consent URL, the way the provider redirect would echo it back.
func beginAuth(t *testing.T, fixture *mailFixture) string {
	t.Helper()

	w := httptest.NewRecorder()
	fixture.handler.AuthURL(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/auth-url", nil))
	body := testutil.AssertJSONResponse(t, w, http.StatusOK)

	authURL, _ := body["authUrl"].(string)
	require.NotEmpty(t, authURL)

	parsed, err := url.Parse(authURL)
	require.NoError(t, err)
	state := parsed.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestMailHandler_AuthURL(t *testing.T) {
	fixture := newMailServer(t)

	state := beginAuth(t, fixture)
	assert.Len(t, state, 32, "16 random bytes hex-encoded")

	w := httptest.NewRecorder()
	fixture.handler.AuthURL(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/auth-url", nil))
	body := testutil.AssertJSONResponse(t, w, http.StatusOK)
	authURL, _ := body["authUrl"].(string)
	assert.Contains(t, authURL, "client-id")
	assert.NotContains(t, authURL, state, "each request mints a fresh state")
}

func TestMailHandler_Callback(t *testing.T) {
	t.Run("success_connects_account", func(t *testing.T) {
		fixture := newMailServer(t)
		state := beginAuth(t, fixture)

		params := url.Values{
			"state":         {state},
			"access_token":  {"fresh-token"},
			"refresh_token": {"refresh-1"},
			"expires_in":    {"3600"},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/mail/callback?"+params.Encode(), nil)
		w := httptest.NewRecorder()
		fixture.handler.Callback(w, req)

		testutil.AssertStatusCode(t, w, http.StatusOK)
		require.NotNil(t, fixture.store.Tokens())
		assert.Equal(t, "fresh-token", fixture.store.Tokens().AccessToken)
	})

	t.Run("provider_error", func(t *testing.T) {
		fixture := newMailServer(t)
		state := beginAuth(t, fixture)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/mail/callback?state="+state+"&error=access_denied", nil)
		w := httptest.NewRecorder()
		fixture.handler.Callback(w, req)

		testutil.AssertJSONError(t, w, http.StatusBadRequest, "Authorization failed")
		assert.Nil(t, fixture.store.Tokens())
	})

	// The callback is unauthenticated; without the state minted by an
	// AuthURL call it must not touch the token store.
	t.Run("missing_or_forged_state", func(t *testing.T) {
		fixture := newMailServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/mail/callback?access_token=evil&expires_in=3600", nil)
		w := httptest.NewRecorder()
		fixture.handler.Callback(w, req)
		testutil.AssertJSONError(t, w, http.StatusBadRequest, "Invalid authorization state")
		assert.Nil(t, fixture.store.Tokens())

		beginAuth(t, fixture)
		req = httptest.NewRequest(http.MethodGet, "/api/v1/mail/callback?state=forged&access_token=evil&expires_in=3600", nil)
		w = httptest.NewRecorder()
		fixture.handler.Callback(w, req)
		testutil.AssertJSONError(t, w, http.StatusBadRequest, "Invalid authorization state")
		assert.Nil(t, fixture.store.Tokens())
	})

	t.Run("state_is_single_use", func(t *testing.T) {
		fixture := newMailServer(t)
		state := beginAuth(t, fixture)

		params := url.Values{
			"state":        {state},
			"access_token": {"fresh-token"},
			"expires_in":   {"3600"},
		}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/mail/callback?"+params.Encode(), nil)
		w := httptest.NewRecorder()
		fixture.handler.Callback(w, req)
		testutil.AssertStatusCode(t, w, http.StatusOK)

		w = httptest.NewRecorder()
		fixture.handler.Callback(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/callback?"+params.Encode(), nil))
		testutil.AssertJSONError(t, w, http.StatusBadRequest, "Invalid authorization state")
	})
}

func TestMailHandler_ListMessages(t *testing.T) {
	t.Run("not_connected", func(t *testing.T) {
		fixture := newMailServer(t)

		w := httptest.NewRecorder()
		fixture.handler.ListMessages(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/messages", nil))
		testutil.AssertJSONError(t, w, http.StatusUnauthorized, "Mail account not connected")
	})

	t.Run("connected", func(t *testing.T) {
		fixture := newMailServer(t)
		fixture.connect()

		w := httptest.NewRecorder()
		fixture.handler.ListMessages(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/messages", nil))
		body := testutil.AssertJSONResponse(t, w, http.StatusOK)

		messages, ok := body["messages"].([]any)
		require.True(t, ok)
		assert.Len(t, messages, 2)
	})
}

func TestMailHandler_GetMessage(t *testing.T) {
	fixture := newMailServer(t)
	fixture.connect()

	t.Run("missing_id", func(t *testing.T) {
		w := httptest.NewRecorder()
		fixture.handler.GetMessage(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/message", nil))
		testutil.AssertStatusCode(t, w, http.StatusBadRequest)
	})

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		fixture.handler.GetMessage(w, httptest.NewRequest(http.MethodGet, "/api/v1/mail/message?id=m1", nil))
		body := testutil.AssertJSONResponse(t, w, http.StatusOK)
		assert.Equal(t, "Oficio 12", body["subject"])
	})
}

func TestMailHandler_Send(t *testing.T) {
	t.Run("missing_recipient", func(t *testing.T) {
		fixture := newMailServer(t)
		fixture.connect()

		body, contentType := multipartBody(t, "attachments", "nota.pdf", []byte("pdf"), map[string]string{
			"subject": "Sem destinatário",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mail/send", body)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		fixture.handler.Send(w, req)
		testutil.AssertJSONError(t, w, http.StatusBadRequest, "to and subject are required")
	})

	t.Run("success_with_attachment", func(t *testing.T) {
		fixture := newMailServer(t)
		fixture.connect()

		body, contentType := multipartBody(t, "attachments", "nota.pdf", []byte("pdf"), map[string]string{
			"to":      "prefeitura@exemplo.gov.br",
			"subject": "Nota de pagamento",
			"content": "Segue em anexo.",
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/mail/send", body)
		req.Header.Set("Content-Type", contentType)

		w := httptest.NewRecorder()
		fixture.handler.Send(w, req)
		resp := testutil.AssertJSONResponse(t, w, http.StatusOK)
		assert.Equal(t, true, resp["success"])
	})
}

func TestMailHandler_Disconnect(t *testing.T) {
	fixture := newMailServer(t)
	fixture.connect()

	w := httptest.NewRecorder()
	fixture.handler.Disconnect(w, httptest.NewRequest(http.MethodPost, "/api/v1/mail/disconnect", nil))
	testutil.AssertStatusCode(t, w, http.StatusOK)
	assert.Nil(t, fixture.store.Tokens())
}
