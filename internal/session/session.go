// Package session implements the quiz attempt lifecycle: access-code
// verification, roster registration and join, the timed answering phase,
// exactly-once submission, and the best-effort integrity side channel.
//
// The session carries the attempt context (access code, quiz id, student
// name) explicitly. Hosts plug in UI behavior through Hooks; the session
// itself knows nothing about any particular UI toolkit.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quizlan/quizlan-client/internal/api"
	"github.com/quizlan/quizlan-client/internal/form"
	"github.com/quizlan/quizlan-client/internal/model"
	"github.com/quizlan/quizlan-client/internal/quizerr"
)

// State is the lifecycle state of one attempt.
type State string

const (
	StateIdle      State = "IDLE"
	StateVerified  State = "VERIFIED"
	StateJoined    State = "JOINED"
	StateActive    State = "ACTIVE"
	StateSubmitted State = "SUBMITTED"
)

// WarningFocusLost is the transient banner text shown on focus loss.
// Hosts are expected to auto-dismiss it after about 3 seconds.
const WarningFocusLost = "⚠️ Bạn vừa rời khỏi màn hình thi — hành động có thể bị ghi nhận."

// Hooks are the host-supplied callbacks replacing DOM event wiring.
// Every hook is optional. Hooks run on session-internal goroutines and
// must not block for long; Confirm is the exception, it may wait for the
// student as long as it likes.
type Hooks struct {
	// Confirm gates a manual submission. The timer-expiry submission
	// never consults it.
	Confirm func() bool
	// OnTick runs once per countdown second with the remaining seconds.
	OnTick func(remaining int)
	// OnExpired runs when the countdown reaches zero, before the
	// automatic submission is attempted.
	OnExpired func()
	// OnSubmitted runs after an accepted submission with the score.
	OnSubmitted func(score, total int)
	// OnWarning shows a transient, non-blocking banner.
	OnWarning func(msg string)
}

// Options tune session internals. The zero value is production behavior.
type Options struct {
	// TickInterval overrides the 1-second countdown interval in tests.
	TickInterval time.Duration
	// IntegrityBuffer is the integrity event queue capacity.
	IntegrityBuffer int
}

// Session is the client-side controller of one quiz attempt.
type Session struct {
	client *api.Client
	log    zerolog.Logger
	hooks  Hooks
	tick   time.Duration

	reporter *reporter

	mu         sync.Mutex
	state      State
	accessCode string
	quizID     string
	student    string
	form       *form.Form
	countdown  *Countdown
	inFlight   bool
}

// New creates a Session in StateIdle.
func New(client *api.Client, hooks Hooks, opts Options, log zerolog.Logger) *Session {
	return &Session{
		client:   client,
		log:      log.With().Str("component", "session").Logger(),
		hooks:    hooks,
		tick:     opts.TickInterval,
		reporter: newReporter(client, opts.IntegrityBuffer, log),
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// QuizID returns the joined quiz identifier, empty before join.
func (s *Session) QuizID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quizID
}

// Student returns the registered student name, empty before join.
func (s *Session) Student() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.student
}

// Form returns the live answer form, nil before Start.
func (s *Session) Form() *form.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// VerifyCode validates an access code with the server. Empty input fails
// locally with MISSING_INPUT and issues no network call. On success the
// code is retained for the later join.
func (s *Session) VerifyCode(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return quizerr.NewMessage(quizerr.CodeMissingInput, "Vui lòng nhập mã kỳ thi!")
	}

	if err := s.client.CheckCode(ctx, code); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessCode = code
	s.state = StateVerified
	s.mu.Unlock()

	s.log.Info().Msg("access code verified")
	return nil
}

// Join registers the chosen (name, class) pair and then joins the quiz
// with the verified access code. Registration must succeed before the
// join call is attempted; the first failure stops the chain. On success
// the attempt holds the quiz identifier for Start.
func (s *Session) Join(ctx context.Context, name, class string) (*model.JoinResult, error) {
	s.mu.Lock()
	if s.state != StateVerified {
		s.mu.Unlock()
		return nil, quizerr.New(quizerr.CodeNotVerified)
	}
	code := s.accessCode
	s.mu.Unlock()

	if strings.TrimSpace(class) == "" {
		return nil, quizerr.NewMessage(quizerr.CodeValidation, "Vui lòng chọn lớp!")
	}
	if strings.TrimSpace(name) == "" {
		return nil, quizerr.NewMessage(quizerr.CodeValidation, "Vui lòng chọn tên!")
	}

	if err := s.client.Register(ctx, name, class); err != nil {
		return nil, err
	}

	result, err := s.client.Join(ctx, code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.quizID = result.QuizID
	s.student = name
	s.state = StateJoined
	s.mu.Unlock()

	s.log.Info().Str("quiz_id", result.QuizID).Str("student", name).Msg("joined quiz")
	return result, nil
}

// UseExam adopts an externally supplied exam context (quiz identifier
// and student display name), skipping the landing flow. This is how a
// hosting page that already performed the join hands the exam view its
// inputs.
func (s *Session) UseExam(quizID, student string) {
	s.mu.Lock()
	s.quizID = quizID
	s.student = student
	s.state = StateJoined
	s.mu.Unlock()
}

// Start fetches the question set once, builds the answer form and starts
// the countdown. A payload carrying an error halts the attempt: no form
// is built, no timer starts. durationSeconds overrides the
// server-declared duration when positive.
func (s *Session) Start(ctx context.Context, durationSeconds int) (*model.QuizPayload, error) {
	s.mu.Lock()
	if s.state != StateJoined {
		s.mu.Unlock()
		return nil, quizerr.NewMessage(quizerr.CodeValidation, "Chưa tham gia kỳ thi")
	}
	quizID := s.quizID
	s.mu.Unlock()

	payload, err := s.client.FetchQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	duration := durationSeconds
	if duration <= 0 {
		duration = payload.DurationSeconds
	}

	s.mu.Lock()
	s.form = form.Build(payload.Questions)
	s.state = StateActive
	s.countdown = StartCountdown(duration, s.tick, s.handleTick, s.handleExpiry)
	s.mu.Unlock()

	s.log.Info().
		Str("quiz_id", quizID).
		Int("questions", len(payload.Questions)).
		Int("duration_seconds", duration).
		Msg("exam started")
	return payload, nil
}

func (s *Session) handleTick(remaining int) {
	if s.hooks.OnTick != nil {
		s.hooks.OnTick(remaining)
	}
}

func (s *Session) handleExpiry() {
	if s.hooks.OnExpired != nil {
		s.hooks.OnExpired()
	}
	// The automatic submission goes through the same guard as a manual
	// one, without the confirmation step.
	if _, err := s.Submit(context.Background(), false); err != nil {
		s.log.Error().Err(err).Msg("automatic submission failed")
	}
}

// Submit sends the collected answers. manual marks a student-initiated
// submission, which first consults the Confirm hook; a declined
// confirmation returns (nil, nil) and changes nothing. The guard is
// taken before any network work starts: a second entrant while one
// submission is in flight, or after one was accepted, gets
// ALREADY_SUBMITTED. A rejected or failed submission re-enables the
// attempt; only an accepted one is terminal.
func (s *Session) Submit(ctx context.Context, manual bool) (*model.SubmitResult, error) {
	if manual && s.hooks.Confirm != nil && !s.hooks.Confirm() {
		return nil, nil
	}

	s.mu.Lock()
	if s.state == StateSubmitted || s.inFlight {
		s.mu.Unlock()
		return nil, quizerr.New(quizerr.CodeAlreadySubmitted)
	}
	if s.state != StateActive {
		s.mu.Unlock()
		return nil, quizerr.NewMessage(quizerr.CodeValidation, "Chưa tham gia kỳ thi")
	}
	s.inFlight = true
	answers := s.form.Answers()
	quizID := s.quizID
	s.mu.Unlock()

	result, err := s.client.Submit(ctx, quizID, answers)

	s.mu.Lock()
	s.inFlight = false
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.state = StateSubmitted
	cd := s.countdown
	s.mu.Unlock()

	if cd != nil {
		cd.Stop()
	}
	s.log.Info().Int("score", result.Score).Int("total", result.Total).Msg("submission accepted")
	if s.hooks.OnSubmitted != nil {
		s.hooks.OnSubmitted(result.Score, result.Total)
	}
	return result, nil
}

// ReportFocusLost records a focus-loss integrity event: the transient
// warning banner fires and a "blur" report is enqueued. Outside the
// active answering phase this is a no-op. It never blocks.
func (s *Session) ReportFocusLost() {
	s.mu.Lock()
	active := s.state == StateActive
	quizID := s.quizID
	student := s.student
	s.mu.Unlock()

	if !active {
		return
	}

	if s.hooks.OnWarning != nil {
		s.hooks.OnWarning(WarningFocusLost)
	}
	s.reporter.report(model.IntegrityEvent{
		QuizID:  quizID,
		Student: student,
		Event:   model.EventBlur,
	})
}

// BlockedInputs lists the input gestures a host must suppress during the
// active exam. Deterrents only, not enforcement.
func BlockedInputs() []model.EventKind {
	return []model.EventKind{model.EventContextMenu, model.EventDevtoolsShortcut}
}

// Close releases the timer and the integrity reporter. Queued integrity
// events are flushed before Close returns.
func (s *Session) Close() {
	s.mu.Lock()
	cd := s.countdown
	s.mu.Unlock()

	if cd != nil {
		cd.Stop()
	}
	s.reporter.close()
}
