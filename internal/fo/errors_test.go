package fo

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestIOError(t *testing.T) {
	err := fmt.Errorf("running: %w", ioErr("copy", "/a/x.txt", fs.ErrPermission))

	if !IsIOError(err) {
		t.Fatal("IsIOError() = false, want true")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("IOError should unwrap to the underlying error")
	}
	if IsValidationError(err) {
		t.Error("IsValidationError() = true for an IOError")
	}
	want := "running: copy /a/x.txt: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "with value",
			err:  &ValidationError{Field: "groupby", Value: "w", Reason: "must be one of y, ym, ymd"},
			want: `invalid groupby "w": must be one of y, ym, ymd`,
		},
		{
			name: "without value",
			err:  &ValidationError{Field: "sources", Reason: "at least one source directory is required"},
			want: "invalid sources: at least one source directory is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !IsValidationError(tt.err) {
				t.Error("IsValidationError() = false, want true")
			}
		})
	}
}
