// Package chat implements the send-message orchestration: conversation
// lookup or creation, message persistence, document context assembly, the
// provider call, and reply persistence.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/qres429/chatdoc-pro/internal/llm"
	"github.com/qres429/chatdoc-pro/internal/logger"
	"github.com/qres429/chatdoc-pro/internal/models"
	"github.com/qres429/chatdoc-pro/internal/store"
)

// titleCharLimit is how much of the first message becomes the
// conversation title. Raw character cut, not word-boundary aware.
const titleCharLimit = 50

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConversationStore is the slice of the conversation repository the
// orchestrator needs.
type ConversationStore interface {
	Get(userID, id uuid.UUID) (*models.Conversation, error)
	Create(userID uuid.UUID, title string) (*models.Conversation, error)
	AppendMessage(conversationID uuid.UUID, role, content string) (*models.Message, error)
}

// DocumentFetcher supplies the documents referenced by a send request.
type DocumentFetcher interface {
	FetchByIDs(userID uuid.UUID, ids []uuid.UUID) ([]models.Document, error)
}

// CredentialSource resolves the user's active provider API key.
type CredentialSource interface {
	GetActive(userID uuid.UUID) (*models.APIKey, error)
}

// SendRequest carries one user-visible "send message" action.
type SendRequest struct {
	Text           string
	ConversationID uuid.UUID // uuid.Nil means "start a new conversation"
	DocumentIDs    []uuid.UUID
}

// SendResult is what the HTTP layer returns to the client.
type SendResult struct {
	ConversationID uuid.UUID
	Reply          string
}

// Service coordinates the chat flow. It performs two durable message
// writes per send (user, then assistant) plus possibly one conversation
// creation; the provider call between them is not part of any transaction.
type Service struct {
	conversations ConversationStore
	documents     DocumentFetcher
	credentials   CredentialSource
	provider      llm.Provider
	defaultAPIKey string
}

// NewService creates the chat orchestrator. defaultAPIKey is the
// process-wide fallback used when the user has no active stored key.
func NewService(conversations ConversationStore, documents DocumentFetcher, credentials CredentialSource, provider llm.Provider, defaultAPIKey string) *Service {
	return &Service{
		conversations: conversations,
		documents:     documents,
		credentials:   credentials,
		provider:      provider,
		defaultAPIKey: defaultAPIKey,
	}
}

// Send runs one send-message action and returns the conversation id and
// the stored reply.
//
// A provider failure is not a request failure: the failure description is
// stored and returned as the assistant message, so the conversation stays
// consistent and visible. Concurrent sends into the same conversation are
// not mutually excluded; their message pairs may interleave.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, req SendRequest) (*SendResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Msg: "message text must not be empty"}
	}

	// Get or create the conversation, scoped to the user.
	var conv *models.Conversation
	var err error
	if req.ConversationID != uuid.Nil {
		conv, err = s.conversations.Get(userID, req.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("failed to get conversation: %w", err)
		}
	} else {
		conv, err = s.conversations.Create(userID, truncate(req.Text, titleCharLimit))
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	}

	// The user's input is durable before the provider is attempted, so a
	// provider failure never loses it.
	if _, err := s.conversations.AppendMessage(conv.ID, models.RoleUser, req.Text); err != nil {
		return nil, fmt.Errorf("failed to save user message: %w", err)
	}

	docContext, err := s.assembleContext(userID, req.DocumentIDs)
	if err != nil {
		return nil, err
	}

	reply := s.generate(ctx, userID, docContext, req.Text)

	if _, err := s.conversations.AppendMessage(conv.ID, models.RoleAssistant, reply); err != nil {
		return nil, fmt.Errorf("failed to save assistant message: %w", err)
	}

	return &SendResult{
		ConversationID: conv.ID,
		Reply:          reply,
	}, nil
}

// assembleContext fetches the referenced documents (owner-scoped) and
// builds the prompt context. An empty id list yields an empty context.
func (s *Service) assembleContext(userID uuid.UUID, ids []uuid.UUID) (string, error) {
	if len(ids) == 0 {
		return "", nil
	}
	docs, err := s.documents.FetchByIDs(userID, ids)
	if err != nil {
		return "", fmt.Errorf("failed to fetch documents: %w", err)
	}
	return BuildContext(docs), nil
}

// generate calls the provider and converts any failure into the reply
// text. Nothing raised here escapes to the caller.
func (s *Service) generate(ctx context.Context, userID uuid.UUID, docContext, text string) string {
	reply, err := s.provider.Generate(ctx, s.resolveAPIKey(userID), buildSystemPrompt(docContext), text)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"user_id": userID,
		}).Warnf("Provider call failed: %v", err)

		var perr *llm.ProviderError
		if errors.As(err, &perr) {
			return "Failed to generate a response: " + perr.Reason
		}
		return "Failed to generate a response: " + err.Error()
	}
	return reply
}

// resolveAPIKey prefers the user's active stored credential and falls back
// to the configured default. A missing key is surfaced later by the
// provider client, not here.
func (s *Service) resolveAPIKey(userID uuid.UUID) string {
	key, err := s.credentials.GetActive(userID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logger.Log.Warnf("Failed to look up active API key: %v", err)
		}
		return s.defaultAPIKey
	}
	return key.Key
}
