// Command quizlan is the interactive terminal client for a QuizLAN exam
// attempt: pick a class and name, verify the access code, answer the
// timed questions, and submit.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/quizlan/quizlan-client/internal/api"
	"github.com/quizlan/quizlan-client/internal/config"
	"github.com/quizlan/quizlan-client/internal/form"
	"github.com/quizlan/quizlan-client/internal/logger"
	"github.com/quizlan/quizlan-client/internal/quizerr"
	"github.com/quizlan/quizlan-client/internal/session"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("server", cfg.ServerURL).Msg("Starting QuizLAN client")

	client := api.New(cfg.ServerURL, cfg.HTTPTimeout, log)
	stdin := bufio.NewScanner(os.Stdin)

	done := make(chan struct{})
	hooks := session.Hooks{
		OnTick: func(remaining int) {
			fmt.Printf("\r⏳ %s  ", session.FormatClock(remaining))
		},
		OnExpired: func() {
			fmt.Println("\nHết giờ! Bài thi sẽ được nộp tự động.")
		},
		OnSubmitted: func(score, total int) {
			fmt.Printf("\nĐã nộp! Điểm: %d/%d\n", score, total)
			close(done)
		},
		OnWarning: func(msg string) {
			fmt.Println("\n" + msg)
		},
	}
	if cfg.ConfirmSubmit {
		hooks.Confirm = func() bool {
			fmt.Print("\nBạn chắc chắn muốn nộp bài? (y/n): ")
			if !stdin.Scan() {
				return false
			}
			answer := strings.ToLower(strings.TrimSpace(stdin.Text()))
			return answer == "y" || answer == "yes"
		}
	}

	sess := session.New(client, hooks, session.Options{IntegrityBuffer: cfg.IntegrityBuffer}, log)
	defer sess.Close()

	ctx := context.Background()

	name, class, err := pickIdentity(ctx, client, stdin)
	if err != nil {
		fatal(err)
	}

	code, err := promptAccessCode()
	if err != nil {
		fatal(err)
	}
	if err := sess.VerifyCode(ctx, code); err != nil {
		fatal(err)
	}

	joined, err := sess.Join(ctx, name, class)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("Đã tham gia kỳ thi %s.\n", joined.QuizID)

	payload, err := sess.Start(ctx, 0)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("\n=== %s ===\n%d câu hỏi, thời gian %s\n\n",
		payload.Title, len(payload.Questions), session.FormatClock(payload.DurationSeconds))

	go watchSuspension(sess, done)

	uiDone := make(chan struct{})
	go func() {
		answerLoop(sess, stdin, done)
		close(uiDone)
	}()

	// Finish on whichever comes first: an accepted submission (manual or
	// timer-driven) or the student walking away from the prompt.
	select {
	case <-done:
	case <-uiDone:
	}
}

// pickIdentity runs the class → name selection against the roster.
func pickIdentity(ctx context.Context, client *api.Client, stdin *bufio.Scanner) (name, class string, err error) {
	roster, err := client.ListClasses(ctx)
	if err != nil {
		return "", "", err
	}

	classes := roster.Classes()
	fmt.Println("Lớp:")
	for i, cls := range classes {
		fmt.Printf("  %d) %s\n", i+1, cls)
	}
	class = promptChoice(stdin, "Chọn lớp: ", classes)
	if class == "" {
		return "", "", quizerr.NewMessage(quizerr.CodeValidation, "Vui lòng chọn lớp!")
	}

	students := roster.Students(class)
	names := make([]string, len(students))
	fmt.Println("Tên:")
	for i, st := range students {
		names[i] = st.Name
		fmt.Printf("  %d) %s\n", i+1, st.Name)
	}
	name = promptChoice(stdin, "Chọn tên: ", names)
	if name == "" {
		return "", "", quizerr.NewMessage(quizerr.CodeValidation, "Vui lòng chọn tên!")
	}
	return name, class, nil
}

// promptChoice reads a 1-based index or a literal value from the list.
func promptChoice(stdin *bufio.Scanner, prompt string, values []string) string {
	fmt.Print(prompt)
	if !stdin.Scan() {
		return ""
	}
	input := strings.TrimSpace(stdin.Text())
	for i, v := range values {
		if input == v || input == fmt.Sprintf("%d", i+1) {
			return v
		}
	}
	return ""
}

// promptAccessCode reads the access code without echoing it; the code is
// a shared secret and classmates may be watching the screen.
func promptAccessCode() (string, error) {
	fmt.Print("Mã kỳ thi: ")
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", quizerr.Wrap(quizerr.CodeMissingInput, err)
	}
	return string(raw), nil
}

// answerLoop walks the questions and records selections, then offers the
// manual submit. The countdown keeps running concurrently; on expiry the
// session submits on its own and done closes.
func answerLoop(sess *session.Session, stdin *bufio.Scanner, done chan struct{}) {
	f := sess.Form()
	for i, g := range f.Groups() {
		select {
		case <-done:
			return
		default:
		}
		printQuestion(i+1, f.Len(), g)

		fmt.Print("Trả lời (ví dụ A hoặc A,C; Enter để bỏ qua): ")
		if !stdin.Scan() {
			break
		}
		for _, label := range strings.Split(strings.TrimSpace(stdin.Text()), ",") {
			label = strings.TrimSpace(strings.ToUpper(label))
			if label == "" {
				continue
			}
			if err := f.Select(g.Question.ID, label); err != nil {
				fmt.Printf("  (%v)\n", err)
			}
		}
	}

	for {
		select {
		case <-done:
			return
		default:
		}
		result, err := sess.Submit(context.Background(), true)
		if err != nil {
			if quizerr.CodeOf(err) == quizerr.CodeAlreadySubmitted {
				return
			}
			fmt.Printf("\n%s\n", quizerr.MessageOf(err))
			fmt.Println("Nhấn Enter để thử nộp lại.")
			if !stdin.Scan() {
				return
			}
			continue
		}
		if result == nil {
			// Confirmation declined; keep the attempt open until the
			// student retries or the timer expires.
			fmt.Println("Chưa nộp. Nhấn Enter để nộp bài.")
			if !stdin.Scan() {
				return
			}
			continue
		}
		return
	}
}

func printQuestion(num, total int, g *form.Group) {
	fmt.Printf("\nCâu %d/%d: %s\n", num, total, g.Question.Text)
	if g.Question.Image != "" {
		fmt.Printf("  [hình: %s]\n", g.Question.Image)
	}
	for _, opt := range g.Question.Options {
		fmt.Printf("  %s) %s", opt.Label, opt.Text)
		if opt.Image != "" {
			fmt.Printf(" [hình: %s]", opt.Image)
		}
		fmt.Println()
	}
	if g.Question.Multi {
		fmt.Println("  (chọn nhiều đáp án)")
	}
}

// watchSuspension reports a focus-loss event when the process was
// suspended or the machine slept: a wall-clock gap well beyond the
// heartbeat interval means the student left the exam screen.
func watchSuspension(sess *session.Session, done chan struct{}) {
	const heartbeat = time.Second
	const gap = 3 * time.Second

	last := time.Now()
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			if now.Sub(last) > gap {
				sess.ReportFocusLost()
			}
			last = now
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, quizerr.MessageOf(err))
	os.Exit(1)
}
