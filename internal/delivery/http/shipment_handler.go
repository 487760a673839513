package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenpath/logistics/internal/delivery/http/middleware"
	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/repository"
	"github.com/greenpath/logistics/internal/usecase/shipment"
)

// ShipmentService определяет интерфейс для сервиса перевозок
type ShipmentService interface {
	CreateShipment(ctx context.Context, actorID uuid.UUID, req *shipment.CreateShipmentRequest) (*domain.Shipment, error)
	GetShipment(ctx context.Context, actorID, id uuid.UUID) (*domain.Shipment, error)
	ListShipments(ctx context.Context, actorID uuid.UUID, filter repository.ShipmentFilter) ([]*domain.Shipment, error)
	UpdateShipment(ctx context.Context, actorID, id uuid.UUID, req *shipment.UpdateShipmentRequest) (*domain.Shipment, error)
	DeleteShipment(ctx context.Context, actorID, id uuid.UUID) error
}

// ShipmentHandler обрабатывает запросы связанные с перевозками
type ShipmentHandler struct {
	shipmentService ShipmentService
	logger          logger.Logger
}

// NewShipmentHandler создает новый handler
func NewShipmentHandler(shipmentService ShipmentService, logger logger.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
		logger:          logger,
	}
}

// CreateShipment создает новую перевозку
// Метрики считаются асинхронно: в ответе distance и carbon_footprint
// могут быть еще пустыми
// POST /api/v1/shipments
func (h *ShipmentHandler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req shipment.CreateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, err := h.shipmentService.CreateShipment(r.Context(), claims.UserID, &req)
	if err != nil {
		h.respondShipmentError(w, err, "Failed to create shipment")
		return
	}

	respondData(w, http.StatusCreated, s)
}

// ListShipments возвращает перевозки в области видимости актора
// GET /api/v1/shipments?vehicle_id=&origin=&destination=&q=&ordering=&limit=&offset=
func (h *ShipmentHandler) ListShipments(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := parseShipmentFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	shipments, err := h.shipmentService.ListShipments(r.Context(), claims.UserID, filter)
	if err != nil {
		h.logger.Error("Failed to list shipments", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list shipments")
		return
	}

	respondData(w, http.StatusOK, shipments)
}

// GetShipment возвращает перевозку по ID
// GET /api/v1/shipments/{id}
func (h *ShipmentHandler) GetShipment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	s, err := h.shipmentService.GetShipment(r.Context(), claims.UserID, id)
	if err != nil {
		h.respondShipmentError(w, err, "Failed to get shipment")
		return
	}

	respondData(w, http.StatusOK, s)
}

// UpdateShipment изменяет перевозку (только владелец)
// PATCH /api/v1/shipments/{id}
func (h *ShipmentHandler) UpdateShipment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	var req shipment.UpdateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	s, err := h.shipmentService.UpdateShipment(r.Context(), claims.UserID, id, &req)
	if err != nil {
		h.respondShipmentError(w, err, "Failed to update shipment")
		return
	}

	respondData(w, http.StatusOK, s)
}

// DeleteShipment удаляет перевозку (только владелец)
// DELETE /api/v1/shipments/{id}
func (h *ShipmentHandler) DeleteShipment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid shipment ID")
		return
	}

	if err := h.shipmentService.DeleteShipment(r.Context(), claims.UserID, id); err != nil {
		h.respondShipmentError(w, err, "Failed to delete shipment")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
	})
}

// respondShipmentError переводит доменные ошибки перевозок в HTTP статусы
func (h *ShipmentHandler) respondShipmentError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrShipmentNotFound):
		respondError(w, http.StatusNotFound, "Shipment not found")
	case errors.Is(err, domain.ErrVehicleNotFound):
		respondError(w, http.StatusBadRequest, "Unknown vehicle")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrInvalidWeight),
		errors.Is(err, domain.ErrInvalidDistance),
		errors.Is(err, domain.ErrSameOriginDestination),
		errors.Is(err, domain.ErrInvalidShipmentData),
		errors.Is(err, domain.ErrInvalidRole):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// parseShipmentFilter разбирает query-параметры списка перевозок
// Параметр ordering в стиле "-created_at": минус означает убывание
func parseShipmentFilter(r *http.Request) (repository.ShipmentFilter, error) {
	q := r.URL.Query()

	filter := repository.ShipmentFilter{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		Search:      q.Get("q"),
	}

	if raw := q.Get("vehicle_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, errors.New("invalid vehicle_id")
		}
		filter.VehicleID = &id
	}

	if ordering := q.Get("ordering"); ordering != "" {
		if strings.HasPrefix(ordering, "-") {
			filter.Desc = true
			ordering = ordering[1:]
		}
		switch ordering {
		case "created_at", "carbon_footprint", "weight":
			filter.OrderBy = ordering
		default:
			return filter, errors.New("invalid ordering field")
		}
	}

	// Отрицательные значения не превращаем в ошибку БД: прижимаем к нулю
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))
	if filter.Limit < 0 {
		filter.Limit = 0
	}
	filter.Offset, _ = strconv.Atoi(q.Get("offset"))
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, nil
}
