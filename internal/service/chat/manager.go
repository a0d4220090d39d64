package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/constants"
	"github.com/shohruz/portfolio-backend-go/internal/domain"
	"github.com/shohruz/portfolio-backend-go/internal/prompt"
	"github.com/shohruz/portfolio-backend-go/internal/service/cache"
)

var (
	ErrSessionNotFound = fmt.Errorf("chat session not found")
	ErrTurnInFlight    = fmt.Errorf("a turn is already in flight for this session")
)

// Responder is the grounding engine seen from the chat surface.
type Responder interface {
	Respond(ctx context.Context, utterance string, snapshot *domain.Snapshot) string
}

// SnapshotSource supplies the current content snapshot per turn, so replies
// reflect any save since the session opened.
type SnapshotSource interface {
	Current() *domain.Snapshot
}

// Manager tracks chat sessions. Transcripts live in memory and are mirrored
// to Redis with a TTL so a reconnecting client can replay its session; cache
// failures degrade to memory-only.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Conversation

	engine  Responder
	source  SnapshotSource
	prompts *prompt.PromptBuilder
	cache   *cache.CacheService // optional
	logger  *zap.Logger
}

func NewManager(engine Responder, source SnapshotSource, prompts *prompt.PromptBuilder, cacheSvc *cache.CacheService, logger *zap.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Conversation),
		engine:   engine,
		source:   source,
		prompts:  prompts,
		cache:    cacheSvc,
		logger:   logger,
	}
}

// OpenSession starts a conversation seeded with the assistant greeting for
// the current owner name.
func (m *Manager) OpenSession(ctx context.Context) *domain.Transcript {
	ownerName := m.source.Current().Profile.Name
	greeting, err := m.prompts.BuildGreeting(ownerName)
	if err != nil {
		m.logger.Error("Failed to render greeting", zap.Error(err))
		greeting = fmt.Sprintf("Salom! Men %sning virtual yordamchisiman.", ownerName)
	}

	conv := newConversation(uuid.NewString(), greeting)

	m.mu.Lock()
	m.sessions[conv.ID()] = conv
	m.mu.Unlock()

	m.persist(ctx, conv)
	m.logger.Info("Chat session opened", zap.String("session_id", conv.ID()))
	return conv.Transcript()
}

// Transcript replays a session, falling back to the Redis mirror when the
// session is not in memory (e.g. after a restart).
func (m *Manager) Transcript(ctx context.Context, sessionID string) (*domain.Transcript, error) {
	conv, err := m.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return conv.Transcript(), nil
}

// Submit runs one blocking chat turn: append the user turn, ask the engine,
// append the reply. Only one turn may be in flight per session. The engine
// never fails, so the transcript always gains both turns.
func (m *Manager) Submit(ctx context.Context, sessionID, utterance string) (domain.Turn, error) {
	conv, err := m.lookup(ctx, sessionID)
	if err != nil {
		return domain.Turn{}, err
	}

	if !conv.begin(utterance) {
		return domain.Turn{}, ErrTurnInFlight
	}

	reply := m.engine.Respond(ctx, utterance, m.source.Current())
	conv.finish(reply)

	m.persist(ctx, conv)
	return domain.Turn{Role: domain.RoleAssistant, Content: reply}, nil
}

func (m *Manager) lookup(ctx context.Context, sessionID string) (*Conversation, error) {
	m.mu.Lock()
	conv, ok := m.sessions[sessionID]
	m.mu.Unlock()
	if ok {
		return conv, nil
	}

	if m.cache != nil {
		var transcript domain.Transcript
		found, err := m.cache.Get(ctx, m.cache.TranscriptKey(sessionID), &transcript)
		if err == nil && found && len(transcript.Turns) > 0 {
			conv = restoreConversation(sessionID, transcript.Turns)
			m.mu.Lock()
			m.sessions[sessionID] = conv
			m.mu.Unlock()
			m.logger.Debug("Chat session restored from cache", zap.String("session_id", sessionID))
			return conv, nil
		}
	}

	return nil, ErrSessionNotFound
}

func (m *Manager) persist(ctx context.Context, conv *Conversation) {
	if m.cache == nil {
		return
	}
	transcript := conv.Transcript()
	if err := m.cache.Set(ctx, m.cache.TranscriptKey(conv.ID()), transcript, constants.CacheTTL.Transcript); err != nil {
		m.logger.Warn("Failed to persist transcript", zap.String("session_id", conv.ID()), zap.Error(err))
	}
}
