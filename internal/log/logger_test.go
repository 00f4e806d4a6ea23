package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := ParseLevel(tc.in); got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestLoggerAddsComponentAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentSession,
		Handler:   slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})

	logger.Warn("token rejected", FieldError, "boom")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if rec[FieldComponent] != ComponentSession {
		t.Errorf("component = %v, want %q", rec[FieldComponent], ComponentSession)
	}
	if rec[FieldError] != "boom" {
		t.Errorf("error attr = %v, want boom", rec[FieldError])
	}
	if rec["msg"] != "token rejected" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestWithComponentRetags(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: ComponentCLI,
		Handler:   slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})

	logger.WithComponent(ComponentDashboard).Debug("refreshed")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if rec[FieldComponent] != ComponentDashboard {
		t.Errorf("component = %v, want %q", rec[FieldComponent], ComponentDashboard)
	}
}

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithOperation("create transaction").
		WithTransaction("Rent", "expense", "housing", "1500").
		WithError(errors.New("boom"))

	slice := fields.ToSlice()
	if len(slice) != 2*len(fields) {
		t.Fatalf("slice length = %d, want %d", len(slice), 2*len(fields))
	}
	got := map[string]any{}
	for i := 0; i < len(slice); i += 2 {
		got[slice[i].(string)] = slice[i+1]
	}
	want := map[string]any{
		FieldOperation:   "create transaction",
		FieldDescription: "Rent",
		FieldKind:        "expense",
		FieldCategory:    "housing",
		FieldAmount:      "1500",
		FieldError:       "boom",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("field %s = %v, want %v", k, got[k], v)
		}
	}
}

func TestLogFieldsOmitsEmptyOptionalValues(t *testing.T) {
	fields := NewFields().
		WithTransaction("Salary", "income", "", "1000").
		WithError(nil)

	if _, ok := fields[FieldCategory]; ok {
		t.Error("empty category must not be added")
	}
	if _, ok := fields[FieldError]; ok {
		t.Error("nil error must not be added")
	}
}
