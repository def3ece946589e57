package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	providerserrors "vinbook/internal/providers/errors"
	"vinbook/internal/providers/repository"
	apperrors "vinbook/pkg/errors"
	httputil "vinbook/pkg/http"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"
	"vinbook/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

// OfferingHandler manages which services a provider company advertises.
// The registry is small and rarely written, so there is no service layer;
// the handler talks to the repository directly.
type OfferingHandler struct {
	repo     repository.OfferingRepository
	validate *validator.Validate
	log      *logger.Logger
}

func NewOfferingHandler(repo repository.OfferingRepository, log *logger.Logger) *OfferingHandler {
	return &OfferingHandler{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

func (h *OfferingHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	company := r.URL.Query().Get("company")
	if company == "" {
		h.writeError(w, "Get", apperrors.InvalidInput("company query parameter is required"))
		return
	}

	offering, err := h.repo.FindByCompany(r.Context(), company)
	if err != nil {
		if errors.Is(err, providerserrors.ErrNotFound) {
			h.writeError(w, "Get", apperrors.NotFound("Provider offering"))
			return
		}
		h.writeError(w, "Get", apperrors.Internal("Failed to retrieve provider offering", err))
		return
	}

	if err := httputil.WriteSuccess(w, offering); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *OfferingHandler) Put(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Put", err)
		return
	}
	if actor.Role != model.RoleProvider {
		h.writeError(w, "Put", apperrors.Forbidden("Only providers can register offerings"))
		return
	}

	var offering model.ProviderOffering
	if err := json.NewDecoder(r.Body).Decode(&offering); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Put", "error", writeErr)
		}
		return
	}

	offering.Company = actor.Company
	for i, option := range offering.FiltrationOptions {
		offering.FiltrationOptions[i] = sanitizer.NormalizeLabel(option)
	}

	if err := h.validate.Struct(&offering); err != nil {
		h.writeError(w, "Put", apperrors.Validation("Offering validation failed", map[string]any{"error": err.Error()}))
		return
	}

	if err := h.repo.Upsert(r.Context(), &offering); err != nil {
		h.log.Error("Failed to upsert provider offering", "company", offering.Company, "error", err)
		h.writeError(w, "Put", apperrors.Internal("Failed to save provider offering", err))
		return
	}

	h.log.Info("Provider offering saved", "company", offering.Company, "services", offering.Services)
	if err := httputil.WriteSuccess(w, offering); err != nil {
		h.log.Error("failed to write success response", "handler", "Put", "error", err)
	}
}

func (h *OfferingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	offerings, err := h.repo.FindAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "List", apperrors.Internal("Failed to list provider offerings", err))
		return
	}

	if err := httputil.WriteSuccess(w, offerings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "error", err)
	}
}

func (h *OfferingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/providers/offerings", h.Get)
	router.PUT("/api/v1/providers/offerings", h.Put)
	router.GET("/api/v1/providers/offerings/all", h.List)
}

func (h *OfferingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}
