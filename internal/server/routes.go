package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/api/health", s.handleHealth)

	api := router.Group("/api", bearerAuth(s.opts.Token))
	{
		api.GET("/catalog", s.handleCatalog)
		api.GET("/catalog/offerings", s.handleOfferings)
		api.GET("/manifest", s.handleManifest)
		api.GET("/payment-methods", s.handlePaymentMethods)
		api.GET("/heritage", s.handleHeritage)
		api.GET("/demos", s.handleDemos)

		api.GET("/designs", s.handleListDesigns)
		api.GET("/designs/:id", s.handleGetDesign)
		api.DELETE("/designs/:id", s.handleDeleteDesign)

		api.POST("/sessions", s.handleCreateSession)
		sessions := api.Group("/sessions/:id")
		{
			sessions.GET("", s.handleSnapshot)
			sessions.DELETE("", s.handleDeleteSession)
			sessions.PUT("/intake", s.handleUpdateIntake)
			sessions.POST("/intake/category", s.handleSetCategory)
			sessions.POST("/intake/tone-goals", s.handleToggleToneGoal)
			sessions.POST("/intake/complete", s.handleCompleteIntake)
			sessions.POST("/generate", s.handleGenerate)
			sessions.POST("/adjust", s.handleAdjust)
			sessions.POST("/confirm", s.handleConfirm)
			sessions.POST("/save", s.handleSave)
			sessions.POST("/checkout", s.handleCheckout)
			sessions.POST("/payment", s.handleSelectPayment)
			sessions.POST("/payment/confirm", s.handleConfirmPayment)
			sessions.POST("/back", s.handleBack)
			sessions.POST("/reset", s.handleReset)
			sessions.POST("/view", s.handleSetView)
			sessions.POST("/designs/:designID/open", s.handleOpenDesign)
			sessions.POST("/compare/toggle", s.handleToggleCompare)
			sessions.POST("/compare", s.handleCompare)
		}
	}
}
