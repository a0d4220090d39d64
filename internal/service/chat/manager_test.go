package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shohruz/portfolio-backend-go/internal/domain"
	"github.com/shohruz/portfolio-backend-go/internal/prompt"
)

type fakeEngine struct {
	mu      sync.Mutex
	replies map[string]string
	block   chan struct{} // when set, Respond waits until the channel closes
}

func (f *fakeEngine) Respond(_ context.Context, utterance string, _ *domain.Snapshot) string {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if reply, ok := f.replies[utterance]; ok {
		return reply
	}
	return "standart javob"
}

type fakeSource struct {
	snapshot *domain.Snapshot
}

func (f *fakeSource) Current() *domain.Snapshot {
	return f.snapshot
}

func snapshotFor(name string) *domain.Snapshot {
	return &domain.Snapshot{
		Profile: domain.Profile{Name: name},
		Skills:  []domain.Skill{{Name: "Go"}},
		Projects: []domain.Project{
			{Title: "P", Tags: []string{}},
		},
	}
}

func newTestManager(engine Responder, source SnapshotSource) *Manager {
	return NewManager(engine, source, prompt.NewPromptBuilder(), nil, zap.NewNop())
}

func TestOpenSessionSeedsGreetingWithOwnerName(t *testing.T) {
	m := newTestManager(&fakeEngine{}, &fakeSource{snapshot: snapshotFor("Shohruz")})

	transcript := m.OpenSession(context.Background())

	if transcript.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if len(transcript.Turns) != 1 {
		t.Fatalf("expected exactly the greeting turn, got %d", len(transcript.Turns))
	}
	greeting := transcript.Turns[0]
	if greeting.Role != domain.RoleAssistant {
		t.Fatalf("greeting must be an assistant turn, got %s", greeting.Role)
	}
	if !strings.Contains(greeting.Content, "Shohruz") {
		t.Fatalf("greeting must reference the owner name, got %q", greeting.Content)
	}
}

func TestSubmitAppendsTurnsInOrder(t *testing.T) {
	engine := &fakeEngine{replies: map[string]string{
		"birinchi savol": "birinchi javob",
		"ikkinchi savol": "ikkinchi javob",
	}}
	m := newTestManager(engine, &fakeSource{snapshot: snapshotFor("Shohruz")})

	session := m.OpenSession(context.Background())
	ctx := context.Background()

	if _, err := m.Submit(ctx, session.SessionID, "birinchi savol"); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}
	if _, err := m.Submit(ctx, session.SessionID, "ikkinchi savol"); err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}

	transcript, err := m.Transcript(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("Transcript failed: %v", err)
	}

	want := []domain.Turn{
		{Role: domain.RoleAssistant}, // greeting
		{Role: domain.RoleUser, Content: "birinchi savol"},
		{Role: domain.RoleAssistant, Content: "birinchi javob"},
		{Role: domain.RoleUser, Content: "ikkinchi savol"},
		{Role: domain.RoleAssistant, Content: "ikkinchi javob"},
	}
	if len(transcript.Turns) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(transcript.Turns))
	}
	for i, turn := range transcript.Turns {
		if turn.Role != want[i].Role {
			t.Fatalf("turn %d: expected role %s, got %s", i, want[i].Role, turn.Role)
		}
		if want[i].Content != "" && turn.Content != want[i].Content {
			t.Fatalf("turn %d: expected %q, got %q", i, want[i].Content, turn.Content)
		}
	}
}

func TestSubmitRejectsConcurrentTurn(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	m := newTestManager(engine, &fakeSource{snapshot: snapshotFor("Shohruz")})

	session := m.OpenSession(context.Background())

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		_, _ = m.Submit(context.Background(), session.SessionID, "uzoq savol")
		close(done)
	}()

	<-started
	// Wait until the first submission is inside the engine call.
	for {
		transcript, _ := m.Transcript(context.Background(), session.SessionID)
		if len(transcript.Turns) == 2 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	_, err := m.Submit(context.Background(), session.SessionID, "sabrsiz savol")
	if !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}

	close(engine.block)
	<-done

	transcript, _ := m.Transcript(context.Background(), session.SessionID)
	if len(transcript.Turns) != 3 {
		t.Fatalf("rejected submission must not reach the transcript, got %d turns", len(transcript.Turns))
	}
}

func TestSubmitUnknownSession(t *testing.T) {
	m := newTestManager(&fakeEngine{}, &fakeSource{snapshot: snapshotFor("Shohruz")})

	_, err := m.Submit(context.Background(), "missing", "savol")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := m.Transcript(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

// The engine reads the snapshot per turn, so a save between turns changes the
// grounding of the next reply.
func TestSubmitReadsCurrentSnapshotPerTurn(t *testing.T) {
	var seenNames []string
	source := &fakeSource{snapshot: snapshotFor("Birinchi")}
	engine := &recordingEngine{names: &seenNames}
	m := newTestManager(engine, source)

	session := m.OpenSession(context.Background())

	if _, err := m.Submit(context.Background(), session.SessionID, "savol 1"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	source.snapshot = snapshotFor("Ikkinchi")
	if _, err := m.Submit(context.Background(), session.SessionID, "savol 2"); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if len(seenNames) != 2 || seenNames[0] != "Birinchi" || seenNames[1] != "Ikkinchi" {
		t.Fatalf("engine must see the snapshot current at each turn, got %v", seenNames)
	}
}

type recordingEngine struct {
	names *[]string
}

func (r *recordingEngine) Respond(_ context.Context, _ string, snapshot *domain.Snapshot) string {
	*r.names = append(*r.names, snapshot.Profile.Name)
	return "ok"
}
