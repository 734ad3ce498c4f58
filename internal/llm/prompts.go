package llm

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed prompts/*.txt
var promptFiles embed.FS

// Section names one of the three result blocks.
type Section string

const (
	SectionSummary    Section = "summary"
	SectionTranscript Section = "transcript"
	SectionMindMap    Section = "mindmap"
)

// Sections lists the blocks in the order the separate mode requests them.
func Sections() []Section {
	return []Section{SectionTranscript, SectionSummary, SectionMindMap}
}

// BaseInstruction returns the role instruction sent with every request.
func BaseInstruction(lang Language) string {
	return prompt(lang, "base")
}

// SectionPrompt returns the task prompt for a single section.
func SectionPrompt(lang Language, section Section) string {
	return prompt(lang, string(section))
}

// CombinedPrompt returns the prompt asking for all sections between markers.
func CombinedPrompt(lang Language) string {
	return prompt(lang, "combined")
}

func prompt(lang Language, name string) string {
	if lang != LanguageEnglish {
		lang = LanguageChinese
	}
	data, err := promptFiles.ReadFile(fmt.Sprintf("prompts/%s_%s.txt", lang, name))
	if err != nil {
		// Only reachable with an unknown section name; the template set is embedded.
		panic(fmt.Sprintf("llm: missing prompt %s_%s: %v", lang, name, err))
	}
	return strings.TrimSpace(string(data))
}
