package image

import (
	"strings"
	"testing"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		tag  string
		want Style
	}{
		{"white", StyleWhite},
		{" Dark ", StyleDark},
		{"MACRO", StyleMacro},
		{"creative", StyleCreative},
		{"custom", StyleCustom},
		{"", StyleNone},
		{"vintage", StyleNone},
		{"white-ish", StyleNone},
	}
	for _, tc := range tests {
		if got := ParseStyle(tc.tag); got != tc.want {
			t.Fatalf("ParseStyle(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestBuildPromptUnknownStyle(t *testing.T) {
	for _, tag := range []string{"", "vintage", "neon glow", "🙂"} {
		spec := BuildPrompt(tag, "")
		if spec.Style != StyleNone {
			t.Fatalf("BuildPrompt(%q).Style = %q, want none", tag, spec.Style)
		}
		if spec.Text != baseInstructions+"\n" {
			t.Fatalf("BuildPrompt(%q) text = %q", tag, spec.Text)
		}
	}
}

func TestBuildPromptIncludesDirective(t *testing.T) {
	checks := map[string]string{
		"white":    "Pure white background (#FFFFFF)",
		"dark":     "Dark Luxury",
		"macro":    "Extremely shallow depth of field",
		"creative": "Creative Editorial",
		"custom":   "Custom based on reference",
	}
	for tag, expect := range checks {
		spec := BuildPrompt(tag, "")
		if !strings.HasPrefix(spec.Text, baseInstructions) {
			t.Fatalf("prompt for %q does not start with base instructions", tag)
		}
		if !strings.Contains(spec.Text, expect) {
			t.Fatalf("prompt for %q missing %q: %s", tag, expect, spec.Text)
		}
	}
}

func TestBuildPromptAppendsCustomTextAfterDirective(t *testing.T) {
	for _, custom := range []string{"Add a soft pink glow", "  keep the shadow  ", "multi\nline"} {
		spec := BuildPrompt("dark", custom)
		idx := strings.Index(spec.Text, custom)
		if idx < 0 {
			t.Fatalf("prompt missing custom text %q", custom)
		}
		directive := strings.Index(spec.Text, StyleDark.Directive())
		if directive < 0 || directive > idx {
			t.Fatalf("custom text %q not positioned after directive", custom)
		}
		if !strings.Contains(spec.Text, customInstructionsLabel+custom) {
			t.Fatalf("custom text %q not labelled", custom)
		}
		if spec.CustomText != custom {
			t.Fatalf("CustomText = %q, want %q", spec.CustomText, custom)
		}
	}
}

func TestBuildPromptWithoutCustomTextHasNoLabel(t *testing.T) {
	spec := BuildPrompt("white", "")
	if strings.Contains(spec.Text, customInstructionsLabel) {
		t.Fatalf("unexpected custom label in %q", spec.Text)
	}
}
