package handler

import (
	"encoding/json"
	"net/http"

	"vinbook/internal/machines/service"
	apperrors "vinbook/pkg/errors"
	httputil "vinbook/pkg/http"
	"vinbook/pkg/logger"
	"vinbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MachineHandler struct {
	service service.MachineService
	log     *logger.Logger
}

func NewMachineHandler(service service.MachineService, log *logger.Logger) *MachineHandler {
	return &MachineHandler{
		service: service,
		log:     log,
	}
}

func (h *MachineHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var machine model.Machine
	if err := json.NewDecoder(r.Body).Decode(&machine); err != nil {
		h.writeBadBody(w, "Create")
		return
	}

	if err := h.service.Create(r.Context(), actor, &machine); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, machine); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *MachineHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	machine, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, machine); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *MachineHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	provider := r.URL.Query().Get("provider")
	if provider == "" {
		h.writeError(w, "List", apperrors.InvalidInput("provider query parameter is required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	machines, total, err := h.service.ListByProvider(r.Context(), provider, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, machines, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *MachineHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var update model.MachineUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeBadBody(w, "Update")
		return
	}

	if err := h.service.Update(r.Context(), actor, ps.ByName("id"), &update); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MachineHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	actor, err := httputil.ExtractActor(r)
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := h.service.Delete(r.Context(), actor, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *MachineHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/machines", h.Create)
	router.GET("/api/v1/machines", h.List)
	router.GET("/api/v1/machines/id/:id", h.GetByID)
	router.PATCH("/api/v1/machines/id/:id", h.Update)
	router.DELETE("/api/v1/machines/id/:id", h.Delete)
}

func (h *MachineHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func (h *MachineHandler) writeBadBody(w http.ResponseWriter, handler string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "error", writeErr)
	}
}
