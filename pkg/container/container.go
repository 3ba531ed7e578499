package container

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/config"
	bookhandler "library-backend/internal/domains/book/handler"
	bookrepo "library-backend/internal/domains/book/repository"
	bookservice "library-backend/internal/domains/book/service"
	loanhandler "library-backend/internal/domains/loan/handler"
	loanrepo "library-backend/internal/domains/loan/repository"
	loanservice "library-backend/internal/domains/loan/service"
	requesthandler "library-backend/internal/domains/loanrequest/handler"
	requestrepo "library-backend/internal/domains/loanrequest/repository"
	requestservice "library-backend/internal/domains/loanrequest/service"
	userhandler "library-backend/internal/domains/user/handler"
	userrepo "library-backend/internal/domains/user/repository"
	userservice "library-backend/internal/domains/user/service"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/loanrequest"
	"library-backend/internal/domains/user"
	rediscache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/email"
	"library-backend/pkg/cache"
	"library-backend/pkg/clock"
	"library-backend/pkg/jwt"
	"library-backend/pkg/logger"
)

// Container wires every layer of the application in dependency order:
// config, infrastructure, repositories, services, handlers.
type Container struct {
	Config *config.Config

	DB    *database.DB
	Cache cache.Cache

	JWTManager *jwt.Manager
	Clock      clock.Clock

	UserRepo        user.Repository
	BookRepo        book.Repository
	LoanRepo        loan.Repository
	LoanRequestRepo loanrequest.Repository

	AuthService        user.Service
	BookService        book.Service
	LoanService        loan.Service
	LoanRequestService loanrequest.Service

	AuthHandler        *userhandler.AuthHandler
	BookHandler        *bookhandler.BookHandler
	LoanHandler        *loanhandler.LoanHandler
	LoanRequestHandler *requesthandler.LoanRequestHandler
}

func NewContainer() (*Container, error) {
	c := &Container{
		Config: config.Load(),
		Clock:  clock.System{},
	}
	if err := c.Config.Validate(); err != nil {
		return nil, err
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}
	c.initRepositories()
	c.initServices()
	c.initHandlers()
	return c, nil
}

func (c *Container) initInfrastructure() error {
	db, err := database.Connect(c.Config.Database.Path)
	if err != nil {
		return err
	}
	c.DB = db

	// Redis is a read-through cache for book lookups. Losing it costs
	// latency, not correctness, so a failed ping only logs.
	redisCache := rediscache.NewRedisCache(
		c.Config.Redis.Addr(), c.Config.Redis.Password, c.Config.Redis.DB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := redisCache.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable, book cache disabled", map[string]interface{}{
			"addr": c.Config.Redis.Addr(), "error": err.Error(),
		})
		_ = redisCache.Close()
	} else {
		c.Cache = redisCache
	}

	c.JWTManager = jwt.NewManager(
		c.Config.JWT.Secret, c.Config.JWT.Expiry, c.Config.JWT.Issuer)
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = userrepo.NewSQLiteRepository(c.DB, c.Clock)
	c.BookRepo = bookrepo.NewSQLiteRepository(c.DB, c.Cache, c.Clock)
	c.LoanRepo = loanrepo.NewSQLiteRepository(c.DB, c.Clock)
	c.LoanRequestRepo = requestrepo.NewSQLiteRepository(c.DB, c.Clock)
}

func (c *Container) initServices() {
	notifier := email.NewSMTPNotifier(c.Config.Email, c.Config.App.FrontendURL)

	c.AuthService = userservice.NewAuthService(c.UserRepo, c.JWTManager)
	c.BookService = bookservice.NewBookService(c.BookRepo, c.LoanRepo, c.Clock)
	c.LoanService = loanservice.NewLoanService(
		c.LoanRepo, c.UserRepo, c.BookRepo,
		loan.Policy{
			BorrowDays:      c.Config.Loan.BorrowDays,
			RenewalDays:     c.Config.Loan.RenewalDays,
			RenewalLimit:    c.Config.Loan.RenewalLimit,
			MemberLoanLimit: c.Config.Loan.MemberLoanLimit,
			StaffLoanLimit:  c.Config.Loan.StaffLoanLimit,
		},
		c.Clock)
	c.LoanRequestService = requestservice.NewLoanRequestService(
		c.LoanRequestRepo, c.UserRepo, c.BookRepo, notifier,
		c.Clock, uuid.NewString, c.Config.Loan.ApprovalDays)
}

func (c *Container) initHandlers() {
	c.AuthHandler = userhandler.NewAuthHandler(c.AuthService)
	c.BookHandler = bookhandler.NewBookHandler(c.BookService)
	c.LoanHandler = loanhandler.NewLoanHandler(c.LoanService)
	c.LoanRequestHandler = requesthandler.NewLoanRequestHandler(c.LoanRequestService)
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			logger.Error("failed to close cache", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("failed to close database", err)
		}
	}
}
