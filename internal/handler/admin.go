package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/service"
)

// AdminHandler serves the staff dashboard: client records, tasks and the
// content catalog. Role gating happens in the router; by the time a
// request lands here the identity is a verified admin.
type AdminHandler struct {
	clientService  *service.ClientService
	taskService    *service.TaskService
	contentService *service.ContentService
}

func NewAdminHandler(
	clientService *service.ClientService,
	taskService *service.TaskService,
	contentService *service.ContentService,
) *AdminHandler {
	return &AdminHandler{
		clientService:  clientService,
		taskService:    taskService,
		contentService: contentService,
	}
}

func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/clients", h.ListClients)
	r.Post("/clients", h.CreateClient)
	r.Get("/clients/{id}", h.GetClient)
	r.Patch("/clients/{id}", h.UpdateClient)
	r.Delete("/clients/{id}", h.DeleteClient)

	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks", h.CreateTask)
	r.Patch("/tasks/{id}", h.UpdateTask)
	r.Delete("/tasks/{id}", h.DeleteTask)

	r.Get("/resources", h.ListResources)
	r.Post("/resources", h.CreateResource)
	r.Delete("/resources/{id}", h.DeleteResource)

	r.Get("/videos", h.ListVideos)
	r.Post("/videos", h.CreateVideo)
	r.Delete("/videos/{id}", h.DeleteVideo)

	r.Get("/offers", h.ListOffers)
	r.Post("/offers", h.CreateOffer)
	r.Delete("/offers/{id}", h.DeleteOffer)

	r.Get("/updates", h.ListUpdates)
	r.Post("/updates", h.CreateUpdate)
	r.Patch("/updates/{id}/publish", h.PublishUpdate)
	r.Delete("/updates/{id}", h.DeleteUpdate)

	r.Get("/weekly-products", h.ListWeeklyProducts)
	r.Post("/weekly-products", h.CreateWeeklyProduct)
	r.Delete("/weekly-products/{id}", h.DeleteWeeklyProduct)

	return r
}

func (h *AdminHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clientService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if clients == nil {
		clients = []model.Client{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"clients": clients, "total": len(clients)})
}

func (h *AdminHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	client, err := h.clientService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"client": client})
}

func (h *AdminHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string  `json:"name"`
		Email   string  `json:"email"`
		Company *string `json:"company"`
		Phone   *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	client, err := h.clientService.Create(r.Context(), model.CreateClientParams{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"client": client})
}

func (h *AdminHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    *string `json:"name"`
		Company *string `json:"company"`
		Phone   *string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	client, err := h.clientService.Update(r.Context(), chi.URLParam(r, "id"), model.UpdateClientParams{
		Name:    req.Name,
		Company: req.Company,
		Phone:   req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"client": client})
}

func (h *AdminHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.clientService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	var (
		tasks []model.Task
		err   error
	)
	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		tasks, err = h.taskService.ListForClient(r.Context(), clientID)
	} else {
		tasks, err = h.taskService.List(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "total": len(tasks)})
}

func (h *AdminHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID    string     `json:"clientId"`
		Title       string     `json:"title"`
		Description *string    `json:"description"`
		DueDate     *time.Time `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	task, err := h.taskService.Create(r.Context(), model.CreateTaskParams{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"task": task})
}

func (h *AdminHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string           `json:"title"`
		Description *string           `json:"description"`
		Status      *model.TaskStatus `json:"status"`
		DueDate     *time.Time        `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	task, err := h.taskService.Update(r.Context(), chi.URLParam(r, "id"), model.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": task})
}

func (h *AdminHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type contentRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	ImageURL    *string    `json:"imageUrl"`
	Price       *float64   `json:"price"`
	ValidUntil  *time.Time `json:"validUntil"`
	WeekStart   *time.Time `json:"weekStart"`
	Published   bool       `json:"published"`
}

func decodeContent(w http.ResponseWriter, r *http.Request) (*model.CreateContentParams, bool) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return nil, false
	}
	return &model.CreateContentParams{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		URL:         req.URL,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		ValidUntil:  req.ValidUntil,
		WeekStart:   req.WeekStart,
		Published:   req.Published,
	}, true
}

func (h *AdminHandler) ListResources(w http.ResponseWriter, r *http.Request) {
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

func (h *AdminHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeContent(w, r)
	if !ok {
		return
	}
	item, err := h.contentService.CreateResource(r.Context(), *params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"resource": item})
}

func (h *AdminHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteResource(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListVideos(w http.ResponseWriter, r *http.Request) {
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

func (h *AdminHandler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeContent(w, r)
	if !ok {
		return
	}
	item, err := h.contentService.CreateVideo(r.Context(), *params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"video": item})
}

func (h *AdminHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteVideo(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.ListOffers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Offer{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"offers": items})
}

func (h *AdminHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeContent(w, r)
	if !ok {
		return
	}
	item, err := h.contentService.CreateOffer(r.Context(), *params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"offer": item})
}

func (h *AdminHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListUpdates(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.ListUpdates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.Update{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"updates": items})
}

func (h *AdminHandler) CreateUpdate(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeContent(w, r)
	if !ok {
		return
	}
	item, err := h.contentService.CreateUpdate(r.Context(), *params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"update": item})
}

func (h *AdminHandler) PublishUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Published bool `json:"published"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}
	if err := h.contentService.SetUpdatePublished(r.Context(), chi.URLParam(r, "id"), req.Published); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteUpdate(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) ListWeeklyProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.contentService.ListWeeklyProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []model.WeeklyProduct{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeklyProducts": items})
}

func (h *AdminHandler) CreateWeeklyProduct(w http.ResponseWriter, r *http.Request) {
	params, ok := decodeContent(w, r)
	if !ok {
		return
	}
	item, err := h.contentService.CreateWeeklyProduct(r.Context(), *params)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"weeklyProduct": item})
}

func (h *AdminHandler) DeleteWeeklyProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.contentService.DeleteWeeklyProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
