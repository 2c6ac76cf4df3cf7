// Package api is the HTTP client for the quiz server's JSON endpoints.
// Field names follow the server wire contract exactly; the student
// identity rides the session cookie that /api/register sets.
package api

import (
	"context"
	"net/http/cookiejar"
	"time"

	"github.com/imroc/req/v3"
	"github.com/rs/zerolog"

	"github.com/quizlan/quizlan-client/internal/model"
	"github.com/quizlan/quizlan-client/internal/quizerr"
)

// Client talks to the quiz server.
type Client struct {
	http *req.Client
	log  zerolog.Logger
}

// New creates a Client for the server at baseURL. The cookie jar is
// mandatory: /api/join and /api/submit identify the student by the
// session cookie established during /api/register.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	jar, _ := cookiejar.New(nil)

	httpClient := req.C().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetCookieJar(jar).
		SetCommonContentType("application/json")

	return &Client{
		http: httpClient,
		log:  log.With().Str("component", "api_client").Logger(),
	}
}

// statusBody is the flat {ok, error} envelope most endpoints answer with.
type statusBody struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type registerRequest struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

type accessCodeRequest struct {
	AccessCode string `json:"access_code"`
}

type submitRequest struct {
	Answers model.AnswerSet `json:"answers"`
}

// ListClasses fetches the class → students roster.
func (c *Client) ListClasses(ctx context.Context) (model.ClassRoster, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/classes")
	if err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}

	var roster model.ClassRoster
	if err := resp.UnmarshalJson(&roster); err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}
	return roster, nil
}

// Register persists the chosen (name, class) pair on the server. The
// response sets the session cookie the later calls depend on.
func (c *Client) Register(ctx context.Context, name, class string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&registerRequest{Name: name, Class: class}).
		Post("/api/register")
	if err != nil {
		return quizerr.Wrap(quizerr.CodeNetwork, err)
	}

	var body statusBody
	if err := resp.UnmarshalJson(&body); err != nil {
		return quizerr.Wrap(quizerr.CodeNetwork, err)
	}
	if !body.OK {
		return quizerr.NewMessage(quizerr.CodeValidation, body.Error)
	}
	return nil
}

// CheckCode verifies an access code against the server. The caller is
// responsible for rejecting empty input before calling.
func (c *Client) CheckCode(ctx context.Context, code string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&accessCodeRequest{AccessCode: code}).
		Post("/api/check_code")
	if err != nil {
		return quizerr.Wrap(quizerr.CodeNetwork, err)
	}

	var body statusBody
	if err := resp.UnmarshalJson(&body); err != nil {
		return quizerr.Wrap(quizerr.CodeNetwork, err)
	}
	if !body.OK {
		return quizerr.NewMessage(quizerr.CodeValidation, body.Error)
	}
	return nil
}

// Join enters the quiz guarded by code and returns its identifier.
func (c *Client) Join(ctx context.Context, code string) (*model.JoinResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&accessCodeRequest{AccessCode: code}).
		Post("/api/join")
	if err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}

	var result model.JoinResult
	if err := resp.UnmarshalJson(&result); err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}
	if !result.OK {
		return nil, quizerr.NewMessage(quizerr.CodeValidation, result.Error)
	}
	return &result, nil
}

// FetchQuiz loads the question set for one exam attempt. A payload with
// an error field halts the attempt before any form is built.
func (c *Client) FetchQuiz(ctx context.Context, quizID string) (*model.QuizPayload, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/api/quiz/" + quizID)
	if err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}

	var payload model.QuizPayload
	if err := resp.UnmarshalJson(&payload); err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}
	if payload.Error != "" {
		return nil, quizerr.NewMessage(quizerr.CodeServerLogic, payload.Error)
	}
	return &payload, nil
}

// Submit sends the collected answers for grading.
func (c *Client) Submit(ctx context.Context, quizID string, answers model.AnswerSet) (*model.SubmitResult, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&submitRequest{Answers: answers}).
		Post("/api/submit/" + quizID)
	if err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}

	var result model.SubmitResult
	if err := resp.UnmarshalJson(&result); err != nil {
		return nil, quizerr.Wrap(quizerr.CodeNetwork, err)
	}
	if !result.OK {
		return nil, quizerr.NewMessage(quizerr.CodeValidation, result.Error)
	}
	return &result, nil
}

// LogEvent reports an integrity event. Best effort: every failure is
// swallowed so the reporting channel can never disturb the exam.
func (c *Client) LogEvent(ctx context.Context, ev model.IntegrityEvent) {
	_, err := c.http.R().
		SetContext(ctx).
		SetBody(&ev).
		Post("/log_event")
	if err != nil {
		c.log.Debug().Err(err).Str("event", string(ev.Event)).Msg("integrity event report failed")
	}
}
