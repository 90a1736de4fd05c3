package subscription

import (
	"errors"
	"io"
	"net/http"

	"github.com/binhbb2204/Anime-Hub-Group13/pkg/logger"
	"github.com/binhbb2204/Anime-Hub-Group13/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const maxWebhookBody = 64 << 10

type Handler struct {
	svc           *Service
	webhookSecret string
	log           *logger.Logger
}

func NewHandler(svc *Service, webhookSecret string) *Handler {
	return &Handler{
		svc:           svc,
		webhookSecret: webhookSecret,
		log:           logger.WithContext("component", "billing"),
	}
}

func (h *Handler) CheckSubscription(c *gin.Context) {
	userID := c.GetString("user_id")
	sub, err := h.svc.Check(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("check_subscription_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h *Handler) CreateCheckout(c *gin.Context) {
	userID := c.GetString("user_id")
	url, err := h.svc.CreateCheckout(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("create_checkout_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout"})
		return
	}
	c.JSON(http.StatusOK, models.RedirectResponse{URL: url})
}

func (h *Handler) CustomerPortal(c *gin.Context) {
	userID := c.GetString("user_id")
	url, err := h.svc.PortalURL(c.Request.Context(), userID)
	if errors.Is(err, ErrNoCustomer) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No billing customer found for this account"})
		return
	}
	if err != nil {
		h.log.Error("customer_portal_failed", "user_id", userID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open customer portal"})
		return
	}
	c.JSON(http.StatusOK, models.RedirectResponse{URL: url})
}

// Webhook verifies the signature over the raw body before decoding it.
func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}
	if !VerifySignature(h.webhookSecret, body, c.GetHeader(SignatureHeader)) {
		h.log.Warn("webhook_signature_rejected", "remote", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}

	var ev models.BillingEvent
	if err := json.Unmarshal(body, &ev); err != nil || ev.Type == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event payload"})
		return
	}

	err = h.svc.HandleEvent(c.Request.Context(), ev)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, ErrUnknownEvent):
		h.log.Debug("webhook_event_ignored", "type", ev.Type)
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
	case errors.Is(err, ErrMissingUser), errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("webhook_failed", "type", ev.Type, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply event"})
	}
}

// RequirePremium rejects requests from users without an active subscription.
func (h *Handler) RequirePremium() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := h.svc.IsPremium(c.Request.Context(), c.GetString("user_id"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subscription"})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Premium subscription required", "premium_required": true})
			return
		}
		c.Next()
	}
}
