package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/gibbs-bakehouse/stampcard/internal/engine"
	"github.com/gibbs-bakehouse/stampcard/internal/loyalty"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected operation, unsaved change, or failed scenarios
	ExitCommandError = 2 // Command error (bad flags, unreadable files, database not openable)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// Reported is set when the error was already written through an
	// OutputFormatter and must not be printed again.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// IsReported reports whether err was already written to the user.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.Reported
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`            // "ok" or "error"
	Data    any       `json:"data,omitempty"`    // success payload
	Error   *CLIError `json:"error,omitempty"`   // error details
	Warning string    `json:"warning,omitempty"` // set when the change was not saved
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "VALIDATION", "NOT_FOUND", ...
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	// Human-readable text output
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Result writes data as a JSON envelope, or calls text in text mode.
//
// err is the error returned next to data by the engine. A *engine.SaveError
// is shown as a warning after the result; anything else is reported through
// Fail instead of the result.
func (f *OutputFormatter) Result(data any, err error, text func(w io.Writer)) error {
	if err != nil && !engine.IsSaveError(err) {
		return f.Fail(err)
	}

	if f.Format == "json" {
		resp := CLIResponse{Status: "ok", Data: data}
		if err != nil {
			resp.Warning = err.Error()
		}
		if encErr := json.NewEncoder(f.Writer).Encode(resp); encErr != nil {
			return encErr
		}
	} else {
		text(f.Writer)
		if err != nil {
			fmt.Fprintf(f.GetErrWriter(), "Warning: %v\n", err)
		}
	}

	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "change not saved", Err: err, Reported: true}
	}
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Human-readable error
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports a ledger rejection and returns the matching ExitError.
// Errors that are not ledger rejections are returned unchanged.
func (f *OutputFormatter) Fail(err error) error {
	var le *loyalty.Error
	if !errors.As(err, &le) {
		return err
	}

	var details any
	if le.Field != "" || len(le.Details) > 0 {
		d := map[string]string{}
		for k, v := range le.Details {
			d[k] = v
		}
		if le.Field != "" {
			d["field"] = le.Field
		}
		details = d
	}

	if outErr := f.Error(string(le.Code), le.Message, details); outErr != nil {
		return outErr
	}
	return &ExitError{Code: ExitFailure, Message: le.Message, Err: err, Reported: true}
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
