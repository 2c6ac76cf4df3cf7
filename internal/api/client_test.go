package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizlan/quizlan-client/internal/model"
	"github.com/quizlan/quizlan-client/internal/quizerr"
	"github.com/quizlan/quizlan-client/internal/quiztest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newStub(t *testing.T) (*Client, *quiztest.Server) {
	t.Helper()
	stub := quiztest.New(zerolog.Nop())
	server := httptest.NewServer(stub.Handler())
	t.Cleanup(server.Close)
	return New(server.URL, 5*time.Second, zerolog.Nop()), stub
}

func TestListClasses(t *testing.T) {
	client, stub := newStub(t)
	stub.SeedStudent("Bình", "10A")
	stub.SeedStudent("An", "10A")
	stub.SeedStudent("Châu", "10B")

	roster, err := client.ListClasses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"10A", "10B"}, roster.Classes())
	students := roster.Students("10A")
	require.Len(t, students, 2)
	assert.Equal(t, "An", students[0].Name)
	assert.Equal(t, "Bình", students[1].Name)
}

func TestRegisterSetsSessionCookieForJoin(t *testing.T) {
	client, stub := newStub(t)
	stub.SeedStudent("An", "10A")
	stub.SeedQuiz(quiztest.QuizFixture{
		ID: "Q1", AccessCode: "CODE", Active: true,
	})
	ctx := context.Background()

	// Join without a prior register is rejected: no identity cookie yet.
	_, err := client.Join(ctx, "CODE")
	require.Error(t, err)
	assert.Equal(t, "Bạn chưa đăng ký (chọn lớp & tên)", quizerr.MessageOf(err))

	require.NoError(t, client.Register(ctx, "An", "10A"))

	result, err := client.Join(ctx, "CODE")
	require.NoError(t, err)
	assert.Equal(t, "Q1", result.QuizID)
	assert.NotEmpty(t, result.SubmissionID)
}

func TestServerErrorTextPassesThroughVerbatim(t *testing.T) {
	client, _ := newStub(t)

	err := client.CheckCode(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, quizerr.CodeValidation, quizerr.CodeOf(err))
	assert.Equal(t, "Mã truy cập không hợp lệ hoặc kỳ thi đã đóng", quizerr.MessageOf(err))
}

func TestMissingServerMessageFallsBack(t *testing.T) {
	// A bare {ok:false} body without error text gets the generic message.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok": false}`))
	}))
	t.Cleanup(server.Close)
	client := New(server.URL, 5*time.Second, zerolog.Nop())

	err := client.CheckCode(context.Background(), "ANY")
	require.Error(t, err)
	assert.Equal(t, quizerr.CodeValidation, quizerr.CodeOf(err))
	assert.NotEmpty(t, quizerr.MessageOf(err))
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	client := New("http://127.0.0.1:1", 500*time.Millisecond, zerolog.Nop())

	_, err := client.ListClasses(context.Background())
	assert.Equal(t, quizerr.CodeNetwork, quizerr.CodeOf(err))

	err = client.CheckCode(context.Background(), "ABC")
	assert.Equal(t, quizerr.CodeNetwork, quizerr.CodeOf(err))
}

func TestMalformedRosterIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(server.Close)
	client := New(server.URL, 5*time.Second, zerolog.Nop())

	_, err := client.ListClasses(context.Background())
	assert.Equal(t, quizerr.CodeNetwork, quizerr.CodeOf(err))
}

func TestFetchQuizErrorField(t *testing.T) {
	client, stub := newStub(t)
	stub.SeedQuiz(quiztest.QuizFixture{ID: "EMPTY", AccessCode: "E", Active: true})

	_, err := client.FetchQuiz(context.Background(), "EMPTY")
	require.Error(t, err)
	assert.Equal(t, quizerr.CodeServerLogic, quizerr.CodeOf(err))

	_, err = client.FetchQuiz(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, quizerr.CodeServerLogic, quizerr.CodeOf(err))
	assert.Equal(t, "Quiz không tồn tại", quizerr.MessageOf(err))
}

func TestLogEventNeverFails(t *testing.T) {
	// Even against an unreachable server LogEvent must return normally.
	client := New("http://127.0.0.1:1", 200*time.Millisecond, zerolog.Nop())
	client.LogEvent(context.Background(), model.IntegrityEvent{
		QuizID: "Q1", Student: "An", Event: model.EventBlur,
	})
}
