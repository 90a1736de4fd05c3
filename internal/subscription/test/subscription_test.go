package subscription_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/binhbb2204/Anime-Hub-Group13/internal/subscription"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/config"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/database"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "whsec_test"

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) Publish(userID, eventType, _ string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, userID+":"+eventType)
}

type fixture struct {
	db     *sql.DB
	svc    *subscription.Service
	router *gin.Engine
	events *recorder
	now    time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	logger.Init(logger.ERROR, false, nil)
	db, err := database.Open(t.TempDir() + "/test.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`INSERT INTO users (id, username, email, password_hash) VALUES ('user1','user1','u1@example.com','x')`)
	require.NoError(t, err)

	f := &fixture{db: db, events: &recorder{}, now: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}
	cfg := config.BillingConfig{
		CheckoutURL:   "https://billing.example.com/checkout",
		PortalURL:     "https://billing.example.com/portal",
		WebhookSecret: secret,
		PremiumTier:   "premium",
		PeriodLength:  30 * 24 * time.Hour,
	}
	f.svc = subscription.NewService(subscription.NewSQLStore(db), cfg, f.events).
		WithClock(func() time.Time { return f.now })
	h := subscription.NewHandler(f.svc, cfg.WebhookSecret)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/billing/webhook", h.Webhook)
	user := r.Group("/billing", func(c *gin.Context) { c.Set("user_id", "user1") })
	user.POST("/check-subscription", h.CheckSubscription)
	user.POST("/create-checkout", h.CreateCheckout)
	user.POST("/customer-portal", h.CustomerPortal)
	r.GET("/premium-only", func(c *gin.Context) { c.Set("user_id", "user1") }, h.RequirePremium(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	f.router = r
	return f
}

func (f *fixture) post(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest("POST", path, nil))
	return w
}

func (f *fixture) webhook(ev models.BillingEvent, sig string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(ev)
	if sig == "" {
		sig = subscription.Sign(secret, body)
	}
	req := httptest.NewRequest("POST", "/billing/webhook", bytes.NewReader(body))
	req.Header.Set(subscription.SignatureHeader, sig)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) premiumFlag(t *testing.T) bool {
	var p bool
	require.NoError(t, f.db.QueryRow(`SELECT is_premium FROM users WHERE id = 'user1'`).Scan(&p))
	return p
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"type":"subscription.deleted"}`)
	sig := subscription.Sign(secret, body)

	assert.True(t, subscription.VerifySignature(secret, body, sig))
	assert.True(t, subscription.VerifySignature(secret, body, "sha256="+sig))
	assert.False(t, subscription.VerifySignature(secret, body, "deadbeef"))
	assert.False(t, subscription.VerifySignature(secret, append(body, ' '), sig))
	assert.False(t, subscription.VerifySignature("", body, sig))
}

func TestCheckSubscription_DefaultsToFree(t *testing.T) {
	f := setup(t)
	w := f.post("/billing/check-subscription")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"user1","subscribed":false}`, w.Body.String())
}

func TestCheckoutFlow(t *testing.T) {
	f := setup(t)

	w := f.post("/billing/create-checkout")
	require.Equal(t, http.StatusOK, w.Code)
	var redirect models.RedirectResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &redirect))
	require.True(t, strings.HasPrefix(redirect.URL, "https://billing.example.com/checkout?session_id=cs_"), redirect.URL)
	sessionID := strings.TrimPrefix(redirect.URL, "https://billing.example.com/checkout?session_id=")

	assert.Equal(t, http.StatusNotFound, f.post("/billing/customer-portal").Code)

	w = f.webhook(models.BillingEvent{Type: subscription.EventCheckoutCompleted, SessionID: sessionID, CustomerID: "cus_42"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.True(t, f.premiumFlag(t))
	assert.Equal(t, []string{"user1:subscription_changed"}, f.events.events)

	sub, err := f.svc.Check(context.Background(), "user1")
	require.NoError(t, err)
	assert.True(t, sub.Subscribed)
	assert.Equal(t, "premium", sub.Tier)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.True(t, sub.CurrentPeriodEnd.Equal(f.now.Add(30*24*time.Hour)))

	w = f.post("/billing/customer-portal")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "customer=cus_42")
}

func TestWebhook_BadSignature(t *testing.T) {
	f := setup(t)
	w := f.webhook(models.BillingEvent{Type: subscription.EventSubscriptionUpdated, UserID: "user1"}, "00ff")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, f.premiumFlag(t))
}

func TestWebhook_UnknownSessionAndEvent(t *testing.T) {
	f := setup(t)
	assert.Equal(t, http.StatusBadRequest,
		f.webhook(models.BillingEvent{Type: subscription.EventCheckoutCompleted, SessionID: "cs_missing"}, "").Code)
	w := f.webhook(models.BillingEvent{Type: "invoice.paid", UserID: "user1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestExpiredSubscriptionIsReconciled(t *testing.T) {
	f := setup(t)
	end := f.now.Add(24 * time.Hour)
	require.Equal(t, http.StatusOK,
		f.webhook(models.BillingEvent{Type: subscription.EventSubscriptionUpdated, UserID: "user1", PeriodEnd: &end}, "").Code)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest("GET", "/premium-only", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	f.now = end.Add(time.Minute)
	ok, err := f.svc.IsPremium(context.Background(), "user1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, f.premiumFlag(t))

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest("GET", "/premium-only", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubscriptionDeleted(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusOK, f.webhook(models.BillingEvent{Type: subscription.EventSubscriptionUpdated, UserID: "user1"}, "").Code)
	assert.True(t, f.premiumFlag(t))
	require.Equal(t, http.StatusOK, f.webhook(models.BillingEvent{Type: subscription.EventSubscriptionDeleted, UserID: "user1"}, "").Code)
	assert.False(t, f.premiumFlag(t))
	assert.Len(t, f.events.events, 2)
}
