package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenpath/logistics/internal/delivery/http/middleware"
	"github.com/greenpath/logistics/internal/domain"
	"github.com/greenpath/logistics/internal/pkg/logger"
	"github.com/greenpath/logistics/internal/usecase/company"
)

// CompanyService определяет интерфейс для сервиса компаний
type CompanyService interface {
	CreateCompany(ctx context.Context, actorID uuid.UUID, req *company.CreateCompanyRequest) (*domain.Company, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	ListCompanies(ctx context.Context, limit, offset int) ([]*domain.Company, error)
	AddEmployee(ctx context.Context, actorID, companyID uuid.UUID, req *company.AddEmployeeRequest) (*domain.Profile, error)
}

// CompanyHandler обрабатывает запросы связанные с компаниями
type CompanyHandler struct {
	companyService CompanyService
	logger         logger.Logger
}

// NewCompanyHandler создает новый handler
func NewCompanyHandler(companyService CompanyService, logger logger.Logger) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
		logger:         logger,
	}
}

// CreateCompany создает новую компанию
// POST /api/v1/companies
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req company.CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	c, err := h.companyService.CreateCompany(r.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			respondError(w, http.StatusForbidden, "Forbidden")
		case errors.Is(err, domain.ErrInvalidCompanyData):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to create company", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to create company")
		}
		return
	}

	respondData(w, http.StatusCreated, c)
}

// ListCompanies возвращает список компаний
// GET /api/v1/companies
func (h *CompanyHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	companies, err := h.companyService.ListCompanies(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list companies", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to list companies")
		return
	}

	respondData(w, http.StatusOK, companies)
}

// GetCompanyByID возвращает компанию по ID
// GET /api/v1/companies/{id}
func (h *CompanyHandler) GetCompanyByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	c, err := h.companyService.GetCompanyByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCompanyNotFound) {
			respondError(w, http.StatusNotFound, "Company not found")
			return
		}
		h.logger.Error("Failed to get company", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get company")
		return
	}

	respondData(w, http.StatusOK, c)
}

// AddEmployee добавляет сотрудника в компанию (только для менеджеров)
// POST /api/v1/companies/{id}/employees
func (h *CompanyHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	companyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var req company.AddEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.companyService.AddEmployee(r.Context(), claims.UserID, companyID, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			respondError(w, http.StatusForbidden, "Only a company manager can add employees")
		case errors.Is(err, domain.ErrProfileNotFound):
			respondError(w, http.StatusNotFound, "Profile not found")
		default:
			h.logger.Error("Failed to add employee", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Failed to add employee")
		}
		return
	}

	respondData(w, http.StatusOK, profile)
}
