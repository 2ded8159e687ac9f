package routes

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"quickcount-api/handlers"
	"quickcount-api/services"
)

// SetupAuthRoutes sets up public authentication routes.
func SetupAuthRoutes(rg *gin.RouterGroup, db *sql.DB) {
	authHandler := &handlers.AuthHandler{DB: db}

	rg.POST("/auth/signup", authHandler.Signup)
	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/refresh", authHandler.Refresh)
	rg.POST("/auth/logout", authHandler.Logout)
}

// SetupUserRoutes sets up protected user routes.
func SetupUserRoutes(rg *gin.RouterGroup, db *sql.DB) {
	userHandler := &handlers.UserHandler{DB: db}

	rg.GET("/user/profile", userHandler.GetProfile)
	rg.PUT("/user/profile", userHandler.UpdateProfile)
	rg.POST("/user/password", userHandler.ChangePassword)
	rg.POST("/user/2fa/setup", userHandler.SetupTOTP)
	rg.POST("/user/2fa/verify", userHandler.VerifyTOTP)
	rg.POST("/user/2fa/disable", userHandler.DisableTOTP)
	rg.DELETE("/user/account", userHandler.DeleteAccount)
}

// SetupBudgetRoutes sets up protected budget and expense routes.
func SetupBudgetRoutes(rg *gin.RouterGroup, db *sql.DB) {
	h := handlers.NewBudgetHandler(services.NewBudgetService(db))

	rg.PUT("/budget", h.SetBudget)
	rg.GET("/budget", h.GetBudget)

	rg.POST("/expenses", h.AddExpense)
	rg.GET("/expenses", h.ListExpenses)
	rg.DELETE("/expenses/:id", h.DeleteExpense)
	rg.GET("/expenses/summary", h.GetSummary)
}

// SetupCollaborationRoutes sets up the directory and collaboration workflow.
func SetupCollaborationRoutes(rg *gin.RouterGroup, db *sql.DB, ws *handlers.WSHandler) {
	h := handlers.NewCollaborationHandler(
		services.NewDirectoryService(db),
		services.NewCollaborationService(db),
		ws,
	)

	rg.GET("/users/search", h.SearchUser)

	rg.POST("/requests", h.SendRequest)
	rg.GET("/requests", h.ListRequests)
	rg.POST("/requests/:id/respond", h.RespondRequest)

	rg.GET("/collaborations", h.ListCollaborations)
	rg.POST("/collaborations/:id/sharing", h.ToggleSharing)
	rg.DELETE("/collaborations/:id", h.RemoveCollaboration)
	rg.GET("/collaborations/:id/budget", h.SharedBudget)
}

// SetupCurrencyRoutes sets up the converter routes.
func SetupCurrencyRoutes(rg *gin.RouterGroup) {
	h := handlers.NewCurrencyHandler(services.NewCurrencyService())

	rg.GET("/currency/rates", h.GetRates)
	rg.POST("/currency/convert", h.Convert)
}
