package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "component error",
			code:    "R101",
			wantMsg: "Component is missing a render function",
			wantCat: CategoryComponent,
		},
		{
			name:    "hydration error",
			code:    "R203",
			wantMsg: "Hydration mismatch: missing node",
			wantCat: CategoryHydration,
		},
		{
			name:    "render error",
			code:    "R301",
			wantMsg: "Teleport target not found",
			wantCat: CategoryRender,
		},
		{
			name:    "unknown error code",
			code:    "R999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := New("R301").WithDetail("#modal")
	if got, want := err.Error(), "R301: Teleport target not found: #modal"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := Newf(CategoryRender, "bad kind %d", 9)
	if got := plain.Error(); got != "bad kind 9" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapAndHasCode(t *testing.T) {
	base := fmt.Errorf("disk full")
	err := FromError(base, "R303")
	if !HasCode(err, "R303") {
		t.Error("HasCode(R303) = false")
	}
	if HasCode(err, "R301") {
		t.Error("HasCode(R301) = true")
	}
	wrapped := fmt.Errorf("render: %w", err)
	if !HasCode(wrapped, "R303") {
		t.Error("HasCode through fmt.Errorf wrap = false")
	}
	if err.Unwrap() != base {
		t.Error("Unwrap() did not return base error")
	}
	if FromError(nil, "R303") != nil {
		t.Error("FromError(nil) should be nil")
	}
	if FromError(err, "R401") != err {
		t.Error("FromError should pass ReactorError through")
	}
}

func TestLogWritesAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	New("R103").WithComponent("Counter").Log(logger)

	out := buf.String()
	for _, want := range []string{"level=WARN", "code=R103", "component=Counter", "category=component"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("R204").
		WithComponent("List").
		WithSuggestion("Render the same tree on server and client")
	out := err.Format()

	for _, want := range []string{"WARN R204:", "in <List>", "Hint: Render the same tree"} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}

	if got := err.FormatCompact(); got != "R204: Hydration mismatch: element tag differs (in List)" {
		t.Errorf("FormatCompact() = %q", got)
	}
}

func TestRegistryCodesAreCategorized(t *testing.T) {
	for _, code := range GetAllCodes() {
		tmpl, ok := GetTemplate(code)
		if !ok {
			t.Fatalf("GetTemplate(%s) missing", code)
		}
		if tmpl.Category == "" || tmpl.Message == "" {
			t.Errorf("%s has empty category or message", code)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 9)
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if len(wrapText("", 10)) != 0 {
		t.Error("empty text should produce no lines")
	}
}
