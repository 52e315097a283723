package image

import (
	"strings"

	"golang.org/x/text/cases"
)

// Style is the closed set of photographic directions a caller may request.
type Style string

const (
	StyleNone     Style = ""
	StyleWhite    Style = "white"
	StyleDark     Style = "dark"
	StyleMacro    Style = "macro"
	StyleCreative Style = "creative"
	StyleCustom   Style = "custom"
)

const baseInstructions = `You are a professional high-end jewelry retoucher and photographer.
Your task is to transform the input smartphone photo(s) into a STUNNING, AWARD-WINNING studio photograph.

CRITICAL INSTRUCTIONS:
1. PRESERVE THE JEWELRY: The metal, stones, and design must remain exactly as they are in the input. Do not hallucinate new details on the jewelry itself.
2. REMOVE IMPERFECTIONS: Clean up dust, fingerprints, and scratches on the metal.
3. IGNORE REFERENCE CONTENT: If a reference image is provided, copy ONLY its lighting, background, and mood. IGNORE any text, watermarks, or the specific jewelry in the reference.`

const customInstructionsLabel = "ADDITIONAL USER INSTRUCTIONS: "

// ParseStyle maps a free-form tag onto a Style. Unknown tags yield StyleNone.
func ParseStyle(tag string) Style {
	switch s := Style(cases.Fold().String(strings.TrimSpace(tag))); s {
	case StyleWhite, StyleDark, StyleMacro, StyleCreative, StyleCustom:
		return s
	default:
		return StyleNone
	}
}

// Directive returns the style-specific instruction line.
func (s Style) Directive() string {
	switch s {
	case StyleWhite:
		return "Style: High-end E-commerce. Pure white background (#FFFFFF). Soft, even lighting that highlights the sparkle of stones. Sharp focus throughout."
	case StyleDark:
		return "Style: Dark Luxury. Deep black or charcoal background. Dramatic rim lighting. Elegant reflections. The jewelry should pop against the dark void."
	case StyleMacro:
		return "Style: Macro Detail. Extremely shallow depth of field. Focus strictly on the main stone or detail. Soft, creamy bokeh background."
	case StyleCreative:
		return "Style: Creative Editorial. Artistic composition with textured background (silk, stone, or glass). Soft shadows. Magazine quality."
	case StyleCustom:
		return "Style: Custom based on reference."
	default:
		return ""
	}
}

// PromptSpec is the immutable instruction set sent as the first content part.
type PromptSpec struct {
	Tag        string
	Style      Style
	CustomText string
	Text       string
}

// BuildPrompt assembles the base instructions, the style directive and, when
// present, the caller's free text. The free text comes last so it can refine
// the style default.
func BuildPrompt(tag, customText string) PromptSpec {
	style := ParseStyle(tag)

	var b strings.Builder
	b.WriteString(baseInstructions)
	b.WriteString("\n")
	b.WriteString(style.Directive())
	if customText != "" {
		b.WriteString("\n")
		b.WriteString(customInstructionsLabel)
		b.WriteString(customText)
	}

	return PromptSpec{
		Tag:        tag,
		Style:      style,
		CustomText: customText,
		Text:       b.String(),
	}
}
