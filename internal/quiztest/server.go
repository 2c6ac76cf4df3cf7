// Package quiztest is an in-process implementation of the quiz server
// wire contract, faithful to the upstream server's observable behavior
// (flat {ok, error} bodies, cookie-based student identity, idempotent
// join, exact-set grading). Tests mount it with httptest; cmd/quizlan-stub
// serves it standalone for local development.
package quiztest

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/quizlan/quizlan-client/internal/model"
	"github.com/quizlan/quizlan-client/internal/validator"
)

// QuestionFixture is a seeded question plus its correct labels. The
// correct labels never leave the server.
type QuestionFixture struct {
	model.Question
	Correct []string
}

// QuizFixture is a seeded quiz configuration.
type QuizFixture struct {
	ID              string
	Title           string
	AccessCode      string
	Active          bool
	DurationSeconds int
	Questions       []QuestionFixture
}

// LoggedEvent is a recorded integrity event.
type LoggedEvent struct {
	Student string
	Event   string
	Time    time.Time
}

type studentRecord struct {
	ID    string
	Name  string
	Class string
}

type submissionRecord struct {
	ID        string
	StudentID string
	QuizID    string
	Finished  bool
	Score     int
	Total     int
}

// Server holds the in-memory quiz state behind a gin router.
type Server struct {
	log    zerolog.Logger
	engine *gin.Engine

	mu          sync.Mutex
	students    []studentRecord
	quizzes     map[string]*QuizFixture
	submissions []*submissionRecord
	events      map[string]map[string][]LoggedEvent
	failEvents  bool
	failSubmits bool
	requests    map[string]int
}

// New creates an empty Server. Seed fixtures before serving.
func New(log zerolog.Logger) *Server {
	s := &Server{
		log:      log.With().Str("component", "quiztest").Logger(),
		quizzes:  make(map[string]*QuizFixture),
		events:   make(map[string]map[string][]LoggedEvent),
		requests: make(map[string]int),
	}

	validator.Setup()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())
	engine.Use(s.countRequests)

	engine.GET("/api/classes", s.handleClasses)
	engine.POST("/api/register", s.handleRegister)
	engine.POST("/api/check_code", s.handleCheckCode)
	engine.POST("/api/join", s.handleJoin)
	engine.GET("/api/quiz/:quiz_id", s.handleQuiz)
	engine.POST("/api/submit/:quiz_id", s.handleSubmit)
	engine.POST("/log_event", s.handleLogEvent)

	s.engine = engine
	return s
}

// Handler returns the http.Handler for httptest or a standalone server.
func (s *Server) Handler() http.Handler { return s.engine }

// SeedStudent adds a roster entry.
func (s *Server) SeedStudent(name, class string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students = append(s.students, studentRecord{
		ID:    uuid.New().String(),
		Name:  name,
		Class: class,
	})
}

// SeedQuiz adds a quiz. Fixtures without an ID get one assigned.
func (s *Server) SeedQuiz(q QuizFixture) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	s.quizzes[q.ID] = &q
	return q.ID
}

// Events returns the recorded integrity events of a quiz, keyed by
// student name.
func (s *Server) Events(quizID string) map[string][]LoggedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]LoggedEvent)
	for student, evs := range s.events[quizID] {
		out[student] = append([]LoggedEvent(nil), evs...)
	}
	return out
}

// FailEvents makes /log_event answer 500, for exercising the client's
// silent-failure contract.
func (s *Server) FailEvents(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failEvents = fail
}

// FailSubmits makes /api/submit answer 500 with an error body, for
// exercising the client's retry-after-failure contract.
func (s *Server) FailSubmits(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSubmits = fail
}

// Requests returns how many requests hit a route pattern, e.g.
// "/api/classes" or "/api/quiz/:quiz_id".
func (s *Server) Requests(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// SubmissionCount returns how many accepted submissions a quiz has.
func (s *Server) SubmissionCount(quizID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sub := range s.submissions {
		if sub.QuizID == quizID && sub.Finished {
			n++
		}
	}
	return n
}

func (s *Server) countRequests(c *gin.Context) {
	c.Next()
	if route := c.FullPath(); route != "" {
		s.mu.Lock()
		s.requests[route]++
		s.mu.Unlock()
	}
}

func (s *Server) findQuizByCode(code string) *QuizFixture {
	for _, q := range s.quizzes {
		if q.AccessCode == code && q.Active {
			return q
		}
	}
	return nil
}

func (s *Server) findSubmission(studentID, quizID string) *submissionRecord {
	for _, sub := range s.submissions {
		if sub.StudentID == studentID && sub.QuizID == quizID {
			return sub
		}
	}
	return nil
}

// shuffledQuestions deep-copies a quiz's questions with question and
// option order randomized, the way the upstream server serves each
// fetch.
func (q *QuizFixture) shuffledQuestions() model.QuestionSet {
	out := make(model.QuestionSet, len(q.Questions))
	perm := rand.Perm(len(q.Questions))
	for i, j := range perm {
		question := q.Questions[j].Question
		opts := make([]model.Option, len(question.Options))
		copy(opts, question.Options)
		rand.Shuffle(len(opts), func(a, b int) { opts[a], opts[b] = opts[b], opts[a] })
		question.Options = opts
		out[i] = question
	}
	return out
}
