package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"prop-vault.backend/internal/interfaces/http/handlers"
	"prop-vault.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	walletHandler          *handlers.WalletHandler
	withdrawalAdminHandler *handlers.WithdrawalAdminHandler
	referralAdminHandler   *handlers.ReferralAdminHandler
	affiliateAdminHandler  *handlers.AffiliateAdminHandler
	payoutCallbackHandler  *handlers.PayoutCallbackHandler
	authMiddleware         gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Wallet routes (protected)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("", d.walletHandler.GetWallet)
			wallet.GET("/summary", d.walletHandler.GetSummary)
			wallet.GET("/earnings", d.walletHandler.ListEarnings)
			wallet.POST("/withdrawals", middleware.IdempotencyMiddleware(), d.walletHandler.RequestWithdrawal)
			wallet.GET("/withdrawals", d.walletHandler.ListWithdrawals)
			wallet.GET("/withdrawals/:id", d.walletHandler.GetWithdrawal)
		}

		// Gateway callback (public, signature-verified)
		payouts := v1.Group("/payouts")
		{
			payouts.POST("/ipn-callback", d.payoutCallbackHandler.HandleCallback)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/withdrawals", d.withdrawalAdminHandler.ListWithdrawals)
			admin.POST("/withdrawals/:id/approve", d.withdrawalAdminHandler.ApproveWithdrawal)
			admin.POST("/withdrawals/:id/resolve", d.withdrawalAdminHandler.ResolveWithdrawal)
			admin.POST("/payouts/:batchId/verify", d.withdrawalAdminHandler.VerifyPayout)

			admin.POST("/referrals/credit", d.referralAdminHandler.CreditEarning)
			admin.POST("/earnings/:id/release", d.referralAdminHandler.ReleaseEarning)
			admin.POST("/registrations/:id/release", d.referralAdminHandler.ReleaseByRegistration)

			admin.GET("/affiliate/settings", d.affiliateAdminHandler.GetGlobalSettings)
			admin.PUT("/affiliate/settings", d.affiliateAdminHandler.UpdateGlobalSettings)
			admin.GET("/affiliate/users/:id/settings", d.affiliateAdminHandler.GetAffiliateSettings)
			admin.PUT("/affiliate/users/:id/settings", d.affiliateAdminHandler.UpdateAffiliateSettings)
			admin.DELETE("/affiliate/users/:id/custom-rate", d.affiliateAdminHandler.ClearCustomRate)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, Idempotency-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})
}
