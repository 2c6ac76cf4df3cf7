// Command quizlan-stub serves the in-memory quiz server with demo
// fixtures, for developing and demoing the client without the real
// backend.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quizlan/quizlan-client/internal/config"
	"github.com/quizlan/quizlan-client/internal/logger"
	"github.com/quizlan/quizlan-client/internal/model"
	"github.com/quizlan/quizlan-client/internal/quiztest"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	gin.SetMode(cfg.GinMode)
	srv := quiztest.New(log)
	seedDemo(srv)

	log.Info().Str("port", cfg.StubPort).Msg("Starting QuizLAN stub server")
	if err := http.ListenAndServe(":"+cfg.StubPort, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("stub server stopped")
	}
}

func seedDemo(srv *quiztest.Server) {
	for _, st := range []struct{ name, class string }{
		{"Nguyễn Văn An", "10A"},
		{"Trần Thị Bình", "10A"},
		{"Lê Minh Châu", "10B"},
	} {
		srv.SeedStudent(st.name, st.class)
	}

	srv.SeedQuiz(quiztest.QuizFixture{
		ID:              "demo",
		Title:           "Kiểm tra 15 phút",
		AccessCode:      "ABC123",
		Active:          true,
		DurationSeconds: 900,
		Questions: []quiztest.QuestionFixture{
			{
				Question: model.Question{
					ID:   "1",
					Text: "2 + 2 = ?",
					Options: []model.Option{
						{Label: "A", Text: "3"},
						{Label: "B", Text: "4"},
						{Label: "C", Text: "5"},
					},
				},
				Correct: []string{"B"},
			},
			{
				Question: model.Question{
					ID:    "2",
					Text:  "Số nào là số nguyên tố?",
					Multi: true,
					Options: []model.Option{
						{Label: "A", Text: "2"},
						{Label: "B", Text: "4"},
						{Label: "C", Text: "7"},
					},
				},
				Correct: []string{"A", "C"},
			},
		},
	})
}
