package handler

import (
	"encoding/json"
	"net/http"

	"vinbook/internal/bookings/service"
	httputil "vinbook/pkg/http"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

// TransitionRequest is the payload for status changes. MachineID may carry
// the machine allocation made at confirm time.
type TransitionRequest struct {
	Status    model.BookingStatus `json:"status"`
	MachineID string              `json:"machine_id,omitempty"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeBadBody(w, "Create")
		return
	}

	if err := h.service.Create(r.Context(), actor, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) CreateManual(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "CreateManual", err)
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeBadBody(w, "CreateManual")
		return
	}

	if err := h.service.CreateManual(r.Context(), actor, &booking); err != nil {
		h.writeError(w, "CreateManual", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateManual", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "error", err)
	}
}

func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	from, err := httputil.ExtractDay(r, "from")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}
	to, err := httputil.ExtractDay(r, "to")
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	query := r.URL.Query()
	bookings, total, err := h.service.Search(r.Context(), query.Get("provider"), query.Get("producer"), from, to, limit, offset)
	if err != nil {
		h.writeError(w, "Search", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "Search", "error", err)
	}
}

func (h *BookingHandler) Transition(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	id := ps.ByName("id")

	var req TransitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Transition")
		return
	}

	if err := h.service.Transition(r.Context(), actor, id, req.Status, req.MachineID); err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Edit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Edit", err)
		return
	}

	id := ps.ByName("id")

	var edit model.BookingEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		h.writeBadBody(w, "Edit")
		return
	}

	if err := h.service.Edit(r.Context(), actor, id, &edit); err != nil {
		h.writeError(w, "Edit", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.POST("/api/v1/bookings/manual", h.CreateManual)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/search", h.Search)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Edit)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.POST("/api/v1/bookings/id/:id/transition", h.Transition)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *BookingHandler) writeBadBody(w http.ResponseWriter, handler string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "error", writeErr)
	}
}
