//go:build e2e
// +build e2e

// End-to-end flow against a live server. Start one first, e.g.:
//
//	go run ./cmd/quizlan-stub
//	BASE_URL=http://localhost:5000 ACCESS_CODE=ABC123 go test -tags e2e ./test/e2e
package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/quizlan/quizlan-client/internal/api"
	"github.com/quizlan/quizlan-client/internal/session"
)

var (
	baseURL    string
	accessCode string
)

func TestMain(m *testing.M) {
	// Load .env if present (ignore error)
	_ = godotenv.Load("../../.env")

	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}
	accessCode = os.Getenv("ACCESS_CODE")
	if accessCode == "" {
		accessCode = "ABC123"
	}

	os.Exit(m.Run())
}

func TestFullAttemptAgainstLiveServer(t *testing.T) {
	ctx := context.Background()
	client := api.New(baseURL, 10*time.Second, zerolog.Nop())

	roster, err := client.ListClasses(ctx)
	if err != nil {
		t.Fatalf("list classes: %v", err)
	}
	classes := roster.Classes()
	if len(classes) == 0 {
		t.Fatal("server has no seeded classes")
	}
	class := classes[0]
	students := roster.Students(class)
	if len(students) == 0 {
		t.Fatalf("class %q has no students", class)
	}
	name := students[0].Name

	submitted := make(chan struct{})
	sess := session.New(client, session.Hooks{
		OnSubmitted: func(score, total int) {
			t.Logf("score %d/%d", score, total)
			close(submitted)
		},
	}, session.Options{}, zerolog.Nop())
	defer sess.Close()

	if err := sess.VerifyCode(ctx, accessCode); err != nil {
		t.Fatalf("verify code: %v", err)
	}
	joined, err := sess.Join(ctx, name, class)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	t.Logf("joined quiz %s as %s (%s)", joined.QuizID, name, class)

	payload, err := sess.Start(ctx, 0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(payload.Questions) == 0 {
		t.Fatal("quiz has no questions")
	}

	// Answer every question with its first option.
	f := sess.Form()
	for _, g := range f.Groups() {
		if len(g.Question.Options) == 0 {
			continue
		}
		if err := f.Select(g.Question.ID, g.Question.Options[0].Label); err != nil {
			t.Fatalf("select: %v", err)
		}
	}

	sess.ReportFocusLost()

	result, err := sess.Submit(ctx, false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Total != len(payload.Questions) {
		t.Fatalf("total = %d, want %d", result.Total, len(payload.Questions))
	}

	select {
	case <-submitted:
	case <-time.After(5 * time.Second):
		t.Fatal("OnSubmitted never fired")
	}
}
