package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupLoanRoutes(v1, c)
		setupLoanRequestRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(rg *gin.RouterGroup, c *container.Container) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", c.AuthHandler.Register)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/validate", c.AuthHandler.ValidateToken)
	}
}

func setupBookRoutes(rg *gin.RouterGroup, c *container.Container) {
	books := rg.Group("/books")
	{
		// Catalog browsing is public.
		books.GET("", c.BookHandler.Search)
		books.GET("/:id", c.BookHandler.Get)

		// Mutations require a session; the service enforces the staff
		// role so the refusal carries the exact business message.
		authed := books.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("", c.BookHandler.Create)
			authed.PUT("/:id", c.BookHandler.Update)
			authed.DELETE("/:id", c.BookHandler.Delete)
		}
	}
}

func setupLoanRoutes(rg *gin.RouterGroup, c *container.Container) {
	loans := rg.Group("/loans")
	loans.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		loans.POST("/borrow", c.LoanHandler.Borrow)
		loans.POST("/return", c.LoanHandler.Return)
		loans.POST("/renew", c.LoanHandler.Renew)
		loans.GET("/user/:userId", c.LoanHandler.ListUserLoans)
		loans.GET("/user/:userId/books", c.LoanHandler.ListUserLoansWithBooks)
	}
}

func setupLoanRequestRoutes(rg *gin.RouterGroup, c *container.Container) {
	requests := rg.Group("/loan-requests")
	{
		// Submitting needs a session.
		authed := requests.Group("")
		authed.Use(middleware.AuthMiddleware(c.JWTManager))
		{
			authed.POST("", c.LoanRequestHandler.Create)
		}

		// The pending queue is a staff dashboard.
		staff := requests.Group("")
		staff.Use(middleware.AuthMiddleware(c.JWTManager), middleware.StaffMiddleware())
		{
			staff.GET("/pending", c.LoanRequestHandler.ListPending)
		}

		// Token-addressed review routes: the emailed token is the
		// credential, so no auth middleware here.
		requests.GET("/:token", c.LoanRequestHandler.GetByToken)
		requests.POST("/:token/approve", c.LoanRequestHandler.Approve)
		requests.POST("/:token/reject", c.LoanRequestHandler.Reject)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		health := gin.H{
			"status":   "ok",
			"database": "up",
		}
		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			health["status"] = "degraded"
			health["database"] = "down"
			response.Success(ctx, http.StatusServiceUnavailable, health)
			return
		}
		response.Success(ctx, http.StatusOK, health)
	}
}
