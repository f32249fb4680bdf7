package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/chat"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/config"
	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/middleware"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

// ChatHandler serves the conversation endpoints shared by both portals.
// Staff may address any conversation; a client is pinned to their own.
type ChatHandler struct {
	chatService *chat.Service
	authMw      *middleware.AuthMiddleware
}

func NewChatHandler(chatService *chat.Service, authMw *middleware.AuthMiddleware) *ChatHandler {
	return &ChatHandler{chatService: chatService, authMw: authMw}
}

func (h *ChatHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.authMw.Handler)

	r.Get("/{clientID}/messages", h.GetMessages)
	r.Post("/{clientID}/messages", h.SendMessage)
	r.Post("/{clientID}/read", h.MarkRead)
	r.Get("/{clientID}/unread", h.UnreadCount)
	r.Post("/{clientID}/attachments", h.UploadAttachment)

	return r
}

// resolveClientID enforces conversation access. Returns "" after writing
// the error response when access is denied.
func (h *ChatHandler) resolveClientID(w http.ResponseWriter, r *http.Request) string {
	identity := middleware.GetIdentity(r.Context())
	clientID := chi.URLParam(r, "clientID")

	if identity.IsAdmin() {
		return clientID
	}
	if identity.IsClient() && identity.ClientID != nil && *identity.ClientID == clientID {
		return clientID
	}

	writeError(w, apperrors.Forbidden("You do not have access to this conversation"))
	return ""
}

func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	clientID := h.resolveClientID(w, r)
	if clientID == "" {
		return
	}

	messages, err := h.chatService.Fetch(r.Context(), clientID)
	if err != nil {
		log.Error().Err(err).Str("clientId", clientID).Msg("failed to fetch messages")
		writeError(w, err)
		return
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"messages": messages,
		"total":    len(messages),
	})
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	clientID := h.resolveClientID(w, r)
	if clientID == "" {
		return
	}
	identity := middleware.GetIdentity(r.Context())

	var req struct {
		Message        string                `json:"message"`
		AttachmentURL  *string               `json:"attachmentUrl"`
		AttachmentType *model.AttachmentKind `json:"attachmentType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "must be valid JSON"))
		return
	}

	msg, err := h.chatService.Send(r.Context(), chat.SendParams{
		ClientID:       clientID,
		SenderID:       identity.User.ID,
		SenderName:     &identity.User.DisplayName,
		Text:           req.Message,
		IsFromClient:   identity.IsClient(),
		AttachmentURL:  req.AttachmentURL,
		AttachmentType: req.AttachmentType,
	})
	if err != nil {
		log.Error().Err(err).Str("clientId", clientID).Msg("failed to send message")
		writeError(w, err)
		return
	}
	if msg == nil {
		// Empty sends are accepted and discarded.
		writeJSON(w, http.StatusOK, map[string]any{"message": nil})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	clientID := h.resolveClientID(w, r)
	if clientID == "" {
		return
	}

	var req struct {
		MessageID string `json:"messageId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MessageID == "" {
		writeError(w, apperrors.MissingRequired("messageId"))
		return
	}

	h.chatService.MarkRead(r.Context(), clientID, req.MessageID)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ChatHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	clientID := h.resolveClientID(w, r)
	if clientID == "" {
		return
	}
	identity := middleware.GetIdentity(r.Context())

	// Staff count unread client messages; clients count unread staff replies.
	count, err := h.chatService.UnreadCount(r.Context(), clientID, identity.IsAdmin())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *ChatHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	clientID := h.resolveClientID(w, r)
	if clientID == "" {
		return
	}
	identity := middleware.GetIdentity(r.Context())

	// Reject oversized uploads on the declared length before reading the
	// body. The service re-checks the actual bytes.
	if r.ContentLength > config.MaxAttachmentSize+config.MultipartOverhead {
		writeError(w, apperrors.AttachmentTooLarge(config.MaxAttachmentSize))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxAttachmentSize+config.MultipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.InvalidInput("file", "multipart field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, config.MaxAttachmentSize+1))
	if err != nil {
		writeError(w, apperrors.UploadFailed(err))
		return
	}

	attachment, err := h.chatService.UploadAttachment(r.Context(), chat.UploadParams{
		ClientID: clientID,
		IsStaff:  identity.IsAdmin(),
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		log.Error().Err(err).
			Str("clientId", clientID).
			Str("size", strconv.Itoa(len(data))).
			Msg("failed to upload attachment")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, attachment)
}
