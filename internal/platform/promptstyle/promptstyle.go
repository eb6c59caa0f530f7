package promptstyle

import "strings"

const marker = "LIFELOG_PROMPT_STYLE_V1"

// ApplySystem prepends a short guidance block to a system prompt once.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou help a person keep a private life log from their own journal writing.")
	b.WriteString("\nOnly report what the writer actually said; never invent events, titles or feelings.")
	b.WriteString("\nWhen unsure, lower the confidence instead of guessing.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nBe concise.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}

// Tone maps a user's prompt style onto an instruction line for the extraction prompt.
func Tone(style string) string {
	switch strings.ToLower(strings.TrimSpace(style)) {
	case "conservative":
		return "Propose only items the writer stated explicitly."
	case "exploratory":
		return "Also propose items the writer implied, with honest confidences."
	default:
		return "Propose items the writer stated or clearly implied."
	}
}
