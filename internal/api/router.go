package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/config"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
)

// Services bundles the service layer the router dispatches to.
type Services struct {
	System    *service.SystemService
	Market    *service.MarketService
	User      *service.UserService
	Portfolio *service.PortfolioService
	Trade     *service.TradeService
	Analysis  *service.AnalysisService
	Group     *service.GroupService
	Task      *service.TaskService
	Strategy  *service.StrategyService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	identity := custommiddleware.Identity(cfg.Auth.DefaultOwnerID)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(svc.Market)
			r.Get("/stocks", marketHandler.Stocks)
			r.Get("/tick", marketHandler.Tick)
			r.Get("/range", marketHandler.Range)
		})

		r.Route("/user", func(r chi.Router) {
			userHandler := handlers.NewUserHandler(svc.User)
			r.Get("/", userHandler.Users)
			r.Post("/", userHandler.CreateUser)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/{uuid}", userHandler.GetUser)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Use(identity)
			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
			r.Get("/", portfolioHandler.MyPortfolio)
			r.Post("/", portfolioHandler.CreatePortfolio)
			r.With(custommiddleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey)).Get("/all", portfolioHandler.AllPortfolios)
			r.Get("/net-worth", portfolioHandler.NetWorth)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Delete("/", portfolioHandler.DeletePortfolio)
				r.Get("/holdings", portfolioHandler.Holdings)
				r.Put("/timestamp", portfolioHandler.UpdateTimestamp)
			})
		})

		r.Route("/trade", func(r chi.Router) {
			r.Use(identity)
			tradeHandler := handlers.NewTradeHandler(svc.Trade)
			r.Get("/", tradeHandler.Trades)
			r.Post("/", tradeHandler.CreateTrade)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", tradeHandler.GetTrade)
				r.With(custommiddleware.APIKeyMiddleware(cfg.Auth.InternalAPIKey)).Delete("/", tradeHandler.DeleteTrade)
			})
		})

		r.Route("/analysis", func(r chi.Router) {
			r.Use(identity)
			analysisHandler := handlers.NewAnalysisHandler(svc.Analysis)
			r.Get("/stock", analysisHandler.StockReturns)
			r.Get("/stock/risk", analysisHandler.StockRisk)
			r.With(custommiddleware.ValidateUUIDMiddleware).Get("/portfolio/{uuid}", analysisHandler.PortfolioReturns)
		})

		planningHandler := handlers.NewPlanningHandler(svc.Group, svc.Task, svc.Strategy)

		r.Route("/group", func(r chi.Router) {
			r.Use(identity)
			r.Get("/", planningHandler.Groups)
			r.Post("/", planningHandler.CreateGroup)
		})

		r.Route("/task", func(r chi.Router) {
			r.Use(identity)
			r.Get("/", planningHandler.Tasks)
			r.Post("/", planningHandler.CreateTask)
			r.Get("/day", planningHandler.TasksForDay)
		})

		r.Route("/strategy", func(r chi.Router) {
			r.Use(identity)
			r.Get("/", planningHandler.Strategies)
			r.Post("/", planningHandler.CreateStrategy)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", planningHandler.GetStrategy)
				r.Put("/", planningHandler.UpdateStrategy)
				r.Delete("/", planningHandler.DeleteStrategy)
				r.Get("/stocks", planningHandler.StrategyStocks)
			})
		})
	})

	return r
}
