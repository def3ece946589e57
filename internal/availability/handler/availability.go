package handler

import (
	"net/http"
	"time"

	"vinbook/internal/availability/service"
	apperrors "vinbook/pkg/errors"
	httputil "vinbook/pkg/http"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// defaultWindowDays is how far ahead the calendar looks when the caller does
// not bound the range.
const defaultWindowDays = 60

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	provider := query.Get("provider")
	if provider == "" {
		h.writeError(w, apperrors.InvalidInput("provider query parameter is required"))
		return
	}

	serviceType := model.ServiceType(query.Get("service"))
	if !serviceType.Valid() {
		h.writeError(w, apperrors.InvalidInput("service query parameter must be a known service type"))
		return
	}

	fromPtr, err := httputil.ExtractDay(r, "from")
	if err != nil {
		h.writeError(w, err)
		return
	}
	toPtr, err := httputil.ExtractDay(r, "to")
	if err != nil {
		h.writeError(w, err)
		return
	}

	from := time.Now().UTC().Truncate(24 * time.Hour)
	if fromPtr != nil {
		from = *fromPtr
	}
	to := from.Add(defaultWindowDays * 24 * time.Hour)
	if toPtr != nil {
		to = *toPtr
	}

	days, err := h.service.Availability(r.Context(), provider, serviceType, query.Get("producer"), from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability", h.Get)
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
	}
}
