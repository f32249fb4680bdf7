package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/middleware"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/service"
)

// PortalHandler serves the client portal. Everything here is scoped to the
// caller's own client record; an authenticated client without a linked
// record sees empty task lists and shared content only.
type PortalHandler struct {
	taskService    *service.TaskService
	contentService *service.ContentService
}

func NewPortalHandler(taskService *service.TaskService, contentService *service.ContentService) *PortalHandler {
	return &PortalHandler{taskService: taskService, contentService: contentService}
}

func (h *PortalHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/tasks", h.MyTasks)
	r.Patch("/tasks/{id}/status", h.UpdateTaskStatus)

	r.Get("/resources", h.Resources)
	r.Get("/videos", h.Videos)
	r.Get("/offers", h.ActiveOffers)
	r.Get("/updates", h.PublishedUpdates)
	r.Get("/weekly-products", h.WeeklyProducts)

	return r
}

func (h *PortalHandler) MyTasks(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity.ClientID == nil {
		writeJSON(w, http.StatusOK, map[string]any{"tasks": []model.Task{}, "total": 0})
		return
	}

	tasks, err := h.taskService.ListForClient(r.Context(), *identity.ClientID)
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "total": len(tasks)})
}

func (h *PortalHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity.ClientID == nil {
		writeError(w, apperrors.NotFound("Task"))
		return
	}

	var req struct {
		Status model.TaskStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	task, err := h.taskService.UpdateStatusForClient(r.Context(), *identity.ClientID, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *PortalHandler) Resources(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.ListResources(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Resource{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"resources": items})
}

func (h *PortalHandler) Videos(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.ListVideos(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Video{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"videos": items})
}

func (h *PortalHandler) ActiveOffers(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.ListActiveOffers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Offer{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": items})
}

func (h *PortalHandler) PublishedUpdates(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.ListPublishedUpdates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Update{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": items})
}

func (h *PortalHandler) WeeklyProducts(w http.ResponseWriter, r *http.Request) {
	weeks := 0
	if v := r.URL.Query().Get("weeks"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			weeks = parsed
		}
	}

	items, err := h.contentService.ListRecentWeeklyProducts(r.Context(), weeks)
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.WeeklyProduct{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeklyProducts": items})
}
