package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ansuman-shukla/hippocampus-backend/config"
	"github.com/ansuman-shukla/hippocampus-backend/models"
	"github.com/ansuman-shukla/hippocampus-backend/service"
	"github.com/gin-gonic/gin"
)

// AdminController exposes the subscription-tier management endpoints. Every
// route is additionally guarded by RequireAdmin.
type AdminController struct {
	cfg  config.Config
	subs *service.SubscriptionService
}

// NewAdminController creates and returns a new AdminController instance
func NewAdminController(cfg config.Config, subs *service.SubscriptionService) *AdminController {
	return &AdminController{cfg: cfg, subs: subs}
}

// RequireAdmin rejects callers whose verified email is not on the admin
// list. It runs after RequireAuth.
func (ctrl AdminController) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.MustGet("email").(string)
		if !ctrl.cfg.IsAdmin(email) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Admin access required"})
			return
		}
		c.Next()
	}
}

// Get returns a user's subscription record with their usage counters.
func (ctrl AdminController) Get(c *gin.Context) {
	userID := c.Param("userID")

	sub, err := ctrl.subs.Get(c.Request.Context(), userID)
	if err != nil {
		slog.Error("failed to load subscription", "error", err, "user_id", userID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": sub,
		"usage":        ctrl.subs.Usage(userID),
	})
}

// Upgrade moves the user to an active pro subscription.
func (ctrl AdminController) Upgrade(c *gin.Context) {
	ctrl.mutate(c, ctrl.subs.Upgrade)
}

// Downgrade returns the user to the free tier.
func (ctrl AdminController) Downgrade(c *gin.Context) {
	ctrl.mutate(c, ctrl.subs.Downgrade)
}

// Cancel marks the user's subscription cancelled.
func (ctrl AdminController) Cancel(c *gin.Context) {
	ctrl.mutate(c, ctrl.subs.Cancel)
}

// ResetUsage zeroes the user's usage counters.
func (ctrl AdminController) ResetUsage(c *gin.Context) {
	userID := c.Param("userID")
	ctrl.subs.ResetUsage(userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Usage counters reset"})
}

type subscriptionAction func(ctx context.Context, userID string) (models.Subscription, error)

func (ctrl AdminController) mutate(c *gin.Context, action subscriptionAction) {
	userID := c.Param("userID")

	sub, err := action(c.Request.Context(), userID)
	if err != nil {
		slog.Error("subscription action failed", "error", err, "user_id", userID)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Subscription update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "subscription": sub})
}
