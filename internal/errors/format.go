package errors

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// FormatForUser returns a user-friendly error message.
// If debug is true, details and the underlying cause are included.
func FormatForUser(err error, debug bool) string {
	if err == nil {
		return ""
	}

	ye, ok := As(err)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(ye.Message)
	sb.WriteString("\n")

	if ye.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(ye.Suggestion)
		sb.WriteString("\n")
	}

	if debug {
		for _, k := range sortedKeys(ye.Details) {
			fmt.Fprintf(&sb, "  %s: %s\n", k, ye.Details[k])
		}
		if ye.Cause != nil {
			fmt.Fprintf(&sb, "  cause: %v\n", ye.Cause)
		}
	}

	fmt.Fprintf(&sb, "\n[%s]", ye.Code)
	return sb.String()
}

// FormatForCLI formats an error for one-shot CLI output.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	ye, ok := As(err)
	if !ok {
		ye = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", ye.Message)
	if ye.Suggestion != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", ye.Suggestion)
	}
	fmt.Fprintf(&sb, "  Code: %s\n", ye.Code)
	return sb.String()
}

// FormatInline renders an error on a single line for status bars.
func FormatInline(err error) string {
	if err == nil {
		return ""
	}
	ye, ok := As(err)
	if !ok {
		return err.Error()
	}
	msg := strings.Join(strings.Fields(ye.Message), " ")
	if status, ok := ye.Details["status"]; ok {
		return fmt.Sprintf("%s (HTTP %s): %s", ye.Code, status, msg)
	}
	return fmt.Sprintf("%s: %s", ye.Code, msg)
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	Retryable  bool              `json:"retryable"`
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	ye, ok := As(err)
	if !ok {
		ye = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       ye.Code,
		Message:    ye.Message,
		Category:   string(ye.Category),
		Severity:   string(ye.Severity),
		Details:    ye.Details,
		Suggestion: ye.Suggestion,
		Retryable:  ye.Retryable,
	}
	if ye.Cause != nil {
		je.Cause = ye.Cause.Error()
	}

	return json.Marshal(je)
}

// LogAttrs returns slog attributes describing err.
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	ye, ok := As(err)
	if !ok {
		return []any{slog.String("error", err.Error())}
	}

	attrs := []any{
		slog.String("error_code", ye.Code),
		slog.String("error", ye.Message),
		slog.String("category", string(ye.Category)),
		slog.String("severity", string(ye.Severity)),
	}
	if ye.Cause != nil {
		attrs = append(attrs, slog.String("cause", ye.Cause.Error()))
	}
	for _, k := range sortedKeys(ye.Details) {
		attrs = append(attrs, slog.String("detail_"+k, ye.Details[k]))
	}
	return attrs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
