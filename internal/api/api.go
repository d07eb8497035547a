// Package api exposes the admin HTTP boundary consumed by the Telegram bot.
// Handlers are thin: they bind/validate the request, call one service or
// storage operation and translate semantic errors into HTTP statuses.
package api

import (
	"context"
	"net/http"
	"redirectadmin/internal/settings"
	"redirectadmin/pkg/controller"
	"redirectadmin/pkg/domain"
	"redirectadmin/pkg/storage"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Wrapper enqueues wrap runs for link sets.
type Wrapper interface {
	Enqueue(ctx context.Context, setID domain.LinkSetID) error
}

// Provisioner connects and disconnects custom domains.
type Provisioner interface {
	Provision(ctx context.Context, userID domain.UserID, name string) (*domain.UserDomain, error)
	Deprovision(ctx context.Context, id domain.UserDomainID) error
}

// Transferer moves an account to a new Telegram identity.
type Transferer interface {
	Transfer(ctx context.Context, oldChatID, newChatID domain.ChatID) (*domain.User, error)
}

// Ledger applies balance adjustments backed by the transactions table.
type Ledger interface {
	Adjust(ctx context.Context,
		userID domain.UserID,
		amount decimal.Decimal,
		kind domain.TransactionKind,
		description string) (decimal.Decimal, error)
}

// Options carries everything the server needs besides storage.
type Options struct {
	Settings    *settings.Provider
	Ledger      Ledger
	Transferer  Transferer
	Provisioner Provisioner
	Wrapper     Wrapper

	// MetricsPath is where the Prometheus handler is mounted.
	MetricsPath string
}

// Server holds the handler dependencies.
type Server struct {
	storage storage.Storage
	options Options
}

// Router builds the echo engine with all routes and middlewares registered.
func (s *Server) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echo.WrapMiddleware(controller.WithLogger))
	e.Use(echo.WrapMiddleware(controller.WithCORS))

	v1 := e.Group("/v1")

	v1.POST("/users", s.upsertUser)
	v1.GET("/users/:chatID", s.getUser)
	v1.GET("/users/:chatID/transactions", s.listTransactions)
	v1.GET("/users/:chatID/domains", s.listDomains)
	v1.GET("/users/:chatID/payments", s.listPayments)

	v1.GET("/settings/:key", s.getSetting)
	v1.PUT("/settings/:key", s.putSetting)

	v1.POST("/link-sets", s.createLinkSet)
	v1.GET("/link-sets/:id", s.getLinkSet)
	v1.POST("/link-sets/:id/wrap", s.wrapLinkSet)
	v1.POST("/links", s.upsertLink)

	v1.POST("/payments", s.createPayment)
	v1.GET("/payments/:id", s.getPayment)
	v1.POST("/payments/:id/paid", s.markPaymentPaid)
	v1.POST("/payments/:id/archive", s.archivePayment)

	v1.POST("/balance", s.adjustBalance)
	v1.POST("/domains", s.provisionDomain)
	v1.DELETE("/domains/:id", s.deprovisionDomain)
	v1.POST("/transfer", s.transferAccount)

	metricsPath := s.options.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	e.GET(metricsPath, echo.WrapHandler(promhttp.Handler()))
	e.Any("/debug/pprof*", echo.WrapHandler(http.StripPrefix("/debug/pprof", controller.PprofMux())))

	return e
}

// New creates the API server.
func New(storage storage.Storage, options Options) *Server {
	return &Server{
		storage: storage,
		options: options,
	}
}
