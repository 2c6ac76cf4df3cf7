package quiztest

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quizlan/quizlan-client/internal/model"
	"github.com/quizlan/quizlan-client/internal/validator"
)

// studentCookie carries the registered student's identity between
// /api/register and the later calls, like the upstream session cookie.
const studentCookie = "quizlan_student"

type registerRequest struct {
	Name  string `json:"name" binding:"required"`
	Class string `json:"class" binding:"required"`
}

type accessCodeRequest struct {
	AccessCode string `json:"access_code" binding:"required"`
}

type submitRequest struct {
	Answers model.AnswerSet `json:"answers"`
}

type logEventRequest struct {
	QuizID  string `json:"quiz_id" binding:"required"`
	Student string `json:"student"`
	Event   string `json:"event"`
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// GET /api/classes
func (s *Server) handleClasses(c *gin.Context) {
	s.mu.Lock()
	roster := make(model.ClassRoster)
	for _, st := range s.students {
		roster[st.Class] = append(roster[st.Class], model.Student{Name: st.Name})
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, roster)
}

// POST /api/register
func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if msg := validator.Bind(c, &req); msg != "" {
		fail(c, http.StatusBadRequest, "Thiếu tên hoặc lớp")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	classKnown := false
	for _, st := range s.students {
		if st.Class == req.Class {
			classKnown = true
			break
		}
	}
	if !classKnown {
		fail(c, http.StatusBadRequest, "Lớp không tồn tại")
		return
	}

	var student *studentRecord
	for i := range s.students {
		if s.students[i].Name == req.Name && s.students[i].Class == req.Class {
			student = &s.students[i]
			break
		}
	}
	if student == nil {
		s.students = append(s.students, studentRecord{
			ID:    uuid.New().String(),
			Name:  req.Name,
			Class: req.Class,
		})
		student = &s.students[len(s.students)-1]
	}

	c.SetCookie(studentCookie, student.ID, 7200, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "student_id": student.ID})
}

// POST /api/check_code
func (s *Server) handleCheckCode(c *gin.Context) {
	var req accessCodeRequest
	if msg := validator.Bind(c, &req); msg != "" {
		fail(c, http.StatusBadRequest, "Thiếu mã truy cập")
		return
	}

	s.mu.Lock()
	quiz := s.findQuizByCode(req.AccessCode)
	s.mu.Unlock()

	if quiz == nil {
		fail(c, http.StatusNotFound, "Mã truy cập không hợp lệ hoặc kỳ thi đã đóng")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "quiz_id": quiz.ID})
}

// POST /api/join
func (s *Server) handleJoin(c *gin.Context) {
	var req accessCodeRequest
	if msg := validator.Bind(c, &req); msg != "" {
		fail(c, http.StatusBadRequest, "Thiếu mã truy cập")
		return
	}

	studentID, err := c.Cookie(studentCookie)
	if err != nil || studentID == "" {
		fail(c, http.StatusUnauthorized, "Bạn chưa đăng ký (chọn lớp & tên)")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	quiz := s.findQuizByCode(req.AccessCode)
	if quiz == nil {
		fail(c, http.StatusNotFound, "Mã truy cập không hợp lệ hoặc kỳ thi đã đóng")
		return
	}

	// Join is idempotent per (student, quiz): rejoining returns the
	// existing submission.
	sub := s.findSubmission(studentID, quiz.ID)
	if sub == nil {
		sub = &submissionRecord{
			ID:        uuid.New().String(),
			StudentID: studentID,
			QuizID:    quiz.ID,
		}
		s.submissions = append(s.submissions, sub)
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "quiz_id": quiz.ID, "submission_id": sub.ID})
}

// GET /api/quiz/:quiz_id
func (s *Server) handleQuiz(c *gin.Context) {
	s.mu.Lock()
	quiz, ok := s.quizzes[c.Param("quiz_id")]
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz không tồn tại"})
		return
	}
	if len(quiz.Questions) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Chưa có câu hỏi cho kỳ thi này."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"title":            quiz.Title,
		"duration_seconds": quiz.DurationSeconds,
		"questions":        quiz.shuffledQuestions(),
	})
}

// POST /api/submit/:quiz_id
func (s *Server) handleSubmit(c *gin.Context) {
	var req submitRequest
	if msg := validator.Bind(c, &req); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	studentID, err := c.Cookie(studentCookie)
	if err != nil || studentID == "" {
		fail(c, http.StatusUnauthorized, "Chưa đăng ký (chọn lớp & tên)")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSubmits {
		fail(c, http.StatusInternalServerError, "Lỗi máy chủ, vui lòng thử lại")
		return
	}

	quizID := c.Param("quiz_id")
	quiz, ok := s.quizzes[quizID]
	if !ok {
		fail(c, http.StatusNotFound, "Quiz không tồn tại")
		return
	}
	sub := s.findSubmission(studentID, quizID)
	if sub == nil {
		fail(c, http.StatusBadRequest, "Chưa tham gia kỳ thi")
		return
	}

	// Exact set match per question: the selected labels must equal the
	// correct labels, order-insensitively.
	score := 0
	for _, q := range quiz.Questions {
		correct := append([]string(nil), q.Correct...)
		selected := append([]string(nil), req.Answers[q.ID]...)
		sort.Strings(correct)
		sort.Strings(selected)
		if len(correct) > 0 && equalStrings(correct, selected) {
			score++
		}
	}

	sub.Finished = true
	sub.Score = score
	sub.Total = len(quiz.Questions)

	c.JSON(http.StatusOK, gin.H{"ok": true, "score": score, "total": sub.Total})
}

// POST /log_event
func (s *Server) handleLogEvent(c *gin.Context) {
	var req logEventRequest
	if msg := validator.Bind(c, &req); msg != "" {
		fail(c, http.StatusBadRequest, "missing quiz_id")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failEvents {
		fail(c, http.StatusInternalServerError, "log store unavailable")
		return
	}

	if req.Event == "" {
		req.Event = string(model.EventBlur)
	}
	student := req.Student
	if student == "" {
		student = "unknown"
	}

	if s.events[req.QuizID] == nil {
		s.events[req.QuizID] = make(map[string][]LoggedEvent)
	}
	s.events[req.QuizID][student] = append(s.events[req.QuizID][student], LoggedEvent{
		Student: student,
		Event:   req.Event,
		Time:    time.Now().UTC(),
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
