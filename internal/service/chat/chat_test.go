package chat

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Luizhcrs/orb/internal/model"
	"github.com/Luizhcrs/orb/internal/repository"
	"github.com/Luizhcrs/orb/internal/service/memory"
	"github.com/Luizhcrs/orb/internal/testutil"
)

func newTestService(t *testing.T) (*Service, repository.ChatRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	repo := repository.NewChatRepository(db)
	return NewService(repo, memory.NewCache(nil)), repo
}

func seedSession(t *testing.T, repo repository.ChatRepository, id string, messages int) {
	t.Helper()
	if err := repo.CreateSession(&model.ChatSession{ID: id, Title: "Conversa " + id}); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	for i := 0; i < messages; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		msg := &model.ChatMessage{
			ID:        id + "-m" + string(rune('a'+i)),
			SessionID: id,
			Role:      role,
			Content:   "conteúdo",
		}
		if i == 0 {
			msg.SetExtra(model.MessageExtra{ImageData: "aW1n"})
		}
		if err := repo.AppendMessage(msg); err != nil {
			t.Fatalf("AppendMessage failed: %v", err)
		}
	}
}

func TestGetMessagesExposesMarkers(t *testing.T) {
	svc, repo := newTestService(t)
	seedSession(t, repo, "s1", 2)

	views, err := svc.GetMessages("s1", 0)
	if err != nil {
		t.Fatalf("GetMessages failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d messages, want 2", len(views))
	}
	if !views[0].HasImage {
		t.Fatal("first message should carry the image marker")
	}
	if views[1].HasImage {
		t.Fatal("second message should not carry an image marker")
	}
}

func TestGetSessionDetailMissing(t *testing.T) {
	svc, _ := newTestService(t)

	detail, err := svc.GetSessionDetail("missing")
	if err != nil {
		t.Fatalf("GetSessionDetail failed: %v", err)
	}
	if detail != nil {
		t.Fatalf("expected nil detail, got %+v", detail)
	}
}

func TestDeleteSessionAlsoClearsCache(t *testing.T) {
	svc, repo := newTestService(t)
	seedSession(t, repo, "s1", 2)
	ctx := testutil.Context()
	svc.cache.Append(ctx, "s1", memory.Message{Role: "user", Content: "oi"})

	if err := svc.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}

	info, err := repo.GetSessionInfo("s1")
	if err != nil {
		t.Fatalf("GetSessionInfo failed: %v", err)
	}
	if info != nil {
		t.Fatal("session must be gone after delete")
	}
	if svc.cache.Len("s1") != 0 {
		t.Fatal("cache must be cleared on delete")
	}
}

func TestClearSessionKeepsSession(t *testing.T) {
	svc, repo := newTestService(t)
	seedSession(t, repo, "s1", 4)

	if err := svc.ClearSession(testutil.Context(), "s1"); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	info, err := repo.GetSessionInfo("s1")
	if err != nil {
		t.Fatalf("GetSessionInfo failed: %v", err)
	}
	if info == nil {
		t.Fatal("session must survive clear")
	}
	if info.MessageCount != 0 {
		t.Fatalf("message_count = %d, want 0", info.MessageCount)
	}
}

func TestGetStats(t *testing.T) {
	svc, repo := newTestService(t)
	seedSession(t, repo, "s1", 2)
	seedSession(t, repo, "s2", 4)

	stats, err := svc.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.TotalSessions != 2 {
		t.Fatalf("total_sessions = %d, want 2", stats.TotalSessions)
	}
	if stats.TotalMessages != 6 {
		t.Fatalf("total_messages = %d, want 6", stats.TotalMessages)
	}
}

func TestListSessionsCapsLimit(t *testing.T) {
	svc, repo := newTestService(t)
	seedSession(t, repo, "s1", 0)

	sessions, err := svc.ListSessions(-5)
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
}
