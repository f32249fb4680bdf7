// Package chat unifies message send/fetch/subscribe over the realtime
// store and the relational backend, falling back to the relational side
// the moment the realtime store fails.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/config"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/database"
	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/health"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/realtime"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".svg": true,
}

type SendParams struct {
	ClientID       string
	SenderID       string
	SenderName     *string
	Text           string
	IsFromClient   bool
	AttachmentURL  *string
	AttachmentType *model.AttachmentKind
}

type UploadParams struct {
	ClientID string
	IsStaff  bool
	Filename string
	Data     []byte
}

type Service struct {
	store      realtime.Store
	msgRepo    repository.ChatMessageRepository
	attachRepo repository.AttachmentRepository
	health     *health.Health
	baseURL    string
	opTimeout  time.Duration

	notify *notifyDispatcher
}

// NewService wires the chat core. listener may be nil in tests; relational
// subscriptions then report an error instead of delivering.
func NewService(
	store realtime.Store,
	msgRepo repository.ChatMessageRepository,
	attachRepo repository.AttachmentRepository,
	h *health.Health,
	listener *database.Listener,
	baseURL string,
) *Service {
	return &Service{
		store:      store,
		msgRepo:    msgRepo,
		attachRepo: attachRepo,
		health:     h,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		opTimeout:  config.RealtimeOpTimeout,
		notify:     newNotifyDispatcher(listener),
	}
}

// Close stops the relational notification dispatcher.
func (s *Service) Close() {
	s.notify.close()
}

// Send persists one message on exactly one backend. A send with neither
// trimmed text nor an attachment is a no-op: it returns (nil, nil) without
// touching either backend.
func (s *Service) Send(ctx context.Context, params SendParams) (*model.ChatMessage, error) {
	text := strings.TrimSpace(params.Text)
	if text == "" && params.AttachmentURL == nil {
		return nil, nil
	}

	msg := &model.ChatMessage{
		ID:             uuid.NewString(),
		ClientID:       params.ClientID,
		SenderID:       params.SenderID,
		SenderName:     params.SenderName,
		Message:        text,
		IsFromClient:   params.IsFromClient,
		AttachmentURL:  params.AttachmentURL,
		AttachmentType: params.AttachmentType,
		IsRead:         false,
		CreatedAt:      time.Now().UTC(),
	}

	if s.health.Available() {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		err := s.store.Write(opCtx, realtime.ChatPath(params.ClientID), msg.ID, msg)
		cancel()
		if err == nil {
			log.Debug().Str("messageId", msg.ID).Str("clientId", params.ClientID).
				Msg("message sent via realtime store")
			return msg, nil
		}

		s.health.MarkDown()
		log.Warn().Err(err).Str("clientId", params.ClientID).
			Msg("realtime send failed, falling back to database")
	}

	created, err := s.msgRepo.Create(ctx, model.CreateChatMessageParams{
		ID:             msg.ID,
		ClientID:       msg.ClientID,
		SenderID:       msg.SenderID,
		SenderName:     msg.SenderName,
		Message:        msg.Message,
		IsFromClient:   msg.IsFromClient,
		AttachmentURL:  msg.AttachmentURL,
		AttachmentType: msg.AttachmentType,
		CreatedAt:      msg.CreatedAt,
	})
	if err != nil {
		return nil, apperrors.SendFailed(err)
	}

	log.Info().Str("messageId", created.ID).Str("clientId", params.ClientID).
		Msg("message sent via database")
	return created, nil
}

// Fetch returns the conversation in ascending created_at order. The
// relational backend is the durable source; the realtime snapshot is
// merged on top when available so neither side's history goes missing
// around a downgrade. No messages is an empty slice, not an error.
func (s *Service) Fetch(ctx context.Context, clientID string) ([]model.ChatMessage, error) {
	merged := make(map[string]model.ChatMessage)

	var realtimeErr error
	if s.health.Available() {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		snapshot, err := s.store.Read(opCtx, realtime.ChatPath(clientID))
		cancel()
		if err != nil {
			s.health.MarkDown()
			realtimeErr = err
			log.Warn().Err(err).Str("clientId", clientID).
				Msg("realtime fetch failed, falling back to database")
		} else {
			for _, msg := range decodeSnapshot(snapshot, clientID) {
				merged[msg.ID] = msg
			}
		}
	}

	rows, dbErr := s.msgRepo.ListByClientID(ctx, clientID)
	if dbErr != nil {
		if realtimeErr != nil || len(merged) == 0 {
			return nil, apperrors.FetchFailed(fmt.Errorf("database: %w", dbErr))
		}
		log.Warn().Err(dbErr).Str("clientId", clientID).
			Msg("database fetch failed, serving realtime snapshot only")
	}
	for _, msg := range rows {
		merged[msg.ID] = msg
	}

	return sortMessages(merged), nil
}

// Subscribe delivers each new message for clientID exactly once via fn.
// Whichever backend is current at subscribe time is used for the lifetime
// of the subscription; a mid-stream failure downgrades the flag, fires
// onClosed at most once, and ends the subscription without resubscribing.
// Callers re-invoke Subscribe to pick up the fallback; onClosed is the
// signal to do so and may be nil. The returned cancel is idempotent.
func (s *Service) Subscribe(ctx context.Context, clientID string, fn func(model.ChatMessage), onClosed func(error)) (func(), error) {
	closed := func(err error) {
		if onClosed != nil {
			onClosed(err)
		}
	}

	if s.health.Available() {
		filter := newSnapshotFilter(clientID, fn)
		cancel, err := s.store.Subscribe(ctx, realtime.ChatPath(clientID), filter.deliver, func(err error) {
			s.health.MarkDown()
			log.Warn().Err(err).Str("clientId", clientID).
				Msg("realtime subscription failed; caller must resubscribe")
			closed(err)
		})
		if err == nil {
			return cancel, nil
		}

		s.health.MarkDown()
		log.Warn().Err(err).Str("clientId", clientID).
			Msg("realtime subscribe failed, falling back to database channel")
	}

	return s.notify.subscribe(clientID, fn, closed)
}

// MarkRead flips the read flag on both backends best-effort. Read state is
// not correctness-critical, so failures are logged and never returned.
func (s *Service) MarkRead(ctx context.Context, clientID, messageID string) {
	if s.health.Available() {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		err := s.store.Update(opCtx, realtime.ChatPath(clientID), messageID, map[string]any{"isRead": true})
		cancel()
		if err != nil {
			log.Debug().Err(err).Str("messageId", messageID).
				Msg("realtime mark-read failed")
		}
	}

	if err := s.msgRepo.MarkRead(ctx, clientID, messageID); err != nil {
		log.Debug().Err(err).Str("messageId", messageID).
			Msg("database mark-read failed")
	}
}

// UploadAttachment validates size locally, then stores the blob on the
// realtime store or, on failure, in the database. Keys are namespaced by
// uploader role and client so per-client storage stays auditable.
func (s *Service) UploadAttachment(ctx context.Context, params UploadParams) (*model.Attachment, error) {
	if int64(len(params.Data)) > config.MaxAttachmentSize {
		return nil, apperrors.AttachmentTooLarge(config.MaxAttachmentSize)
	}

	ext := strings.ToLower(path.Ext(params.Filename))
	kind := model.AttachmentKindFile
	if imageExtensions[ext] {
		kind = model.AttachmentKindImage
	}

	rolePrefix := "client"
	if params.IsStaff {
		rolePrefix = "staff"
	}
	key := fmt.Sprintf("%s/%s/%s%s", rolePrefix, params.ClientID, uuid.NewString(), ext)
	contentType := http.DetectContentType(params.Data)

	if s.health.Available() {
		opCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
		err := s.store.PutBlob(opCtx, key, contentType, params.Data)
		cancel()
		if err == nil {
			return &model.Attachment{URL: s.fileURL(key), Kind: kind}, nil
		}

		s.health.MarkDown()
		log.Warn().Err(err).Str("key", key).
			Msg("realtime blob upload failed, falling back to database")
	}

	if err := s.attachRepo.Put(ctx, key, contentType, params.Data); err != nil {
		return nil, apperrors.UploadFailed(err)
	}

	return &model.Attachment{URL: s.fileURL(key), Kind: kind}, nil
}

// UnreadCount reports messages not yet read by the other side. The
// relational backend alone answers this; unread badges tolerate staleness.
func (s *Service) UnreadCount(ctx context.Context, clientID string, fromClient bool) (int, error) {
	count, err := s.msgRepo.CountUnreadByClientID(ctx, clientID, fromClient)
	if err != nil {
		return 0, apperrors.Database(err)
	}
	return count, nil
}

func (s *Service) fileURL(key string) string {
	return s.baseURL + "/files/" + key
}
