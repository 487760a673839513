package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/greenpath/logistics/internal/delivery/http/middleware"
	"github.com/greenpath/logistics/internal/pkg/config"
	"github.com/greenpath/logistics/internal/pkg/jwt"
	"github.com/greenpath/logistics/internal/pkg/logger"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler     *AuthHandler
	vehicleHandler  *VehicleHandler
	companyHandler  *CompanyHandler
	shipmentHandler *ShipmentHandler
	tokenService    *jwt.TokenService
	config          *config.Config
	logger          logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	companyHandler *CompanyHandler,
	shipmentHandler *ShipmentHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:     authHandler,
		vehicleHandler:  vehicleHandler,
		companyHandler:  companyHandler,
		shipmentHandler: shipmentHandler,
		tokenService:    tokenService,
		config:          config,
		logger:          logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
		})

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			r.Get("/auth/me", rt.authHandler.GetMe)

			// Справочник транспорта
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", rt.vehicleHandler.ListVehicles)
				r.Post("/", rt.vehicleHandler.CreateVehicle)
				r.Get("/{id}", rt.vehicleHandler.GetVehicleByID)
				r.Delete("/{id}", rt.vehicleHandler.DeleteVehicle)
			})

			// Компании
			r.Route("/companies", func(r chi.Router) {
				r.Get("/", rt.companyHandler.ListCompanies)
				r.Post("/", rt.companyHandler.CreateCompany)
				r.Get("/{id}", rt.companyHandler.GetCompanyByID)
				// Роль manager проверяется в usecase по профилю из БД,
				// а не по claims: роль может смениться до истечения токена
				r.Post("/{id}/employees", rt.companyHandler.AddEmployee)
			})

			// Перевозки
			r.Route("/shipments", func(r chi.Router) {
				r.Get("/", rt.shipmentHandler.ListShipments)
				r.Post("/", rt.shipmentHandler.CreateShipment)
				r.Get("/{id}", rt.shipmentHandler.GetShipment)
				r.Patch("/{id}", rt.shipmentHandler.UpdateShipment)
				r.Delete("/{id}", rt.shipmentHandler.DeleteShipment)
			})
		})
	})

	return r
}
