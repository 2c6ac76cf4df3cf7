package quizerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeNetwork, cause)

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeNetwork, CodeOf(err))
}

func TestCodeOfSurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("join: %w", New(CodeNotVerified))
	assert.Equal(t, CodeNotVerified, CodeOf(err))
}

func TestCodeOfUnclassifiedError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestNewMessageVerbatimAndFallback(t *testing.T) {
	verbatim := NewMessage(CodeValidation, "Mã truy cập không hợp lệ")
	assert.Equal(t, "Mã truy cập không hợp lệ", verbatim.Message)

	fallback := NewMessage(CodeValidation, "")
	assert.NotEmpty(t, fallback.Message)
	assert.NotEqual(t, verbatim.Message, fallback.Message)
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
	assert.Equal(t, "", MessageOf(nil))

	err := NewMessage(CodeServerLogic, "Quiz không tồn tại")
	assert.Equal(t, "Quiz không tồn tại", MessageOf(err))
}
