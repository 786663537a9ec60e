// Package prompts builds the natural-language prompts sent to the
// completion provider.
package prompts

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"

	"github.com/anaya-patel/llm-disability-dashboard/internal/model"
)

//go:embed templates/question.txt
var templateFS embed.FS

// SystemPersona is the system-role instruction sent with every
// question-generation request.
const SystemPersona = "You are an expert math educator who creates personalized questions for students based on their profile, learning history, and specific needs."

// PingPersona and PingPrompt form the minimal exchange used by the
// connectivity probe.
const (
	PingPersona = "You are a helpful assistant."
	PingPrompt  = "Say hello!"
)

var (
	loadOnce     sync.Once
	loadErr      error
	questionTmpl *template.Template
)

func load() error {
	loadOnce.Do(func() {
		content, err := templateFS.ReadFile("templates/question.txt")
		if err != nil {
			loadErr = fmt.Errorf("read prompt template: %w", err)
			return
		}
		questionTmpl, loadErr = template.New("question").Parse(string(content))
	})
	return loadErr
}

// Build renders the question-generation prompt for one student profile.
// It is total over valid profiles: absent fields render as their documented
// defaults (empty string, -1, false).
func Build(profile model.StudentProfile) (string, error) {
	if err := load(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := questionTmpl.Execute(&buf, profile); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
