package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotReadyError_Message(t *testing.T) {
	err := &NotReadyError{Ready: 2, Required: 3}
	assert.Contains(t, err.Error(), "2/3")
	assert.Equal(t, ErrCodeNotReady, err.Code())
}

func TestCodeOf_Wrapped(t *testing.T) {
	base := &UploadError{Path: "lawsuits/a/b/x.html", Err: errors.New("boom")}
	wrapped := fmt.Errorf("register: %w", base)

	assert.Equal(t, ErrCodeUpload, CodeOf(wrapped))
	assert.False(t, IsPrecondition(wrapped))

	var up *UploadError
	assert.True(t, errors.As(wrapped, &up))
	assert.Equal(t, "lawsuits/a/b/x.html", up.Path)
}

func TestIsPrecondition(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"incomplete", &IncompleteDataError{Missing: []string{"contract"}}, true},
		{"not ready", &NotReadyError{Ready: 0, Required: 3}, true},
		{"missing contract", &MissingContractError{}, true},
		{"generation", &GenerationError{Kind: "memo", Err: errors.New("x")}, false},
		{"plain", errors.New("plain"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPrecondition(tt.err))
		})
	}
}

func TestIncompleteDataError_ListsFields(t *testing.T) {
	err := &IncompleteDataError{Missing: []string{"contract", "calculations"}}
	assert.Equal(t, "incomplete case data: missing contract, calculations", err.Error())
}
