package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error kinds surfaced to the HTTP boundary. Handlers classify failures
// with errors.Is and map ErrValidation to 400, everything else to 500.
var (
	ErrValidation  = errors.New("validation failed")
	ErrGeneration  = errors.New("question generation failed")
	ErrPersistence = errors.New("persistence failed")
)

// SessionTypeQuestionGeneration tags session records written by the
// generate-question endpoint.
const SessionTypeQuestionGeneration = "question_generation"

// FlexString is a string that also accepts a JSON number on input.
// The dashboard frontend sends the student's age sometimes as "10" and
// sometimes as 10; both normalize to the string form.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// StudentProfile is the per-request input used to personalize a generated
// question. The hyphenated wire labels come from the dashboard frontend and
// must be preserved exactly. All fields are optional; see DefaultProfile.
type StudentProfile struct {
	Name                  string     `json:"Name"`
	Age                   FlexString `json:"Age"`
	Grade                 int        `json:"Grade"`
	Subject               string     `json:"Subject"`
	GivenQuestions        int        `json:"Given-questions"`
	CorrectAnswered       int        `json:"Correct-answered"`
	KnownDisability       bool       `json:"Known-disability"`
	GivenQuestion         string     `json:"Given-question"`
	MistakeMade           string     `json:"Mistake-made"`
	TimeTaken             string     `json:"Time-taken"`
	AdditionalObservation string     `json:"Additional-observation"`
}

// DefaultProfile returns a profile with the documented defaults applied:
// empty strings, -1 counters, false flags. Unmarshal request bodies over it
// so absent fields keep their defaults.
func DefaultProfile() StudentProfile {
	return StudentProfile{
		Grade:           -1,
		GivenQuestions:  -1,
		CorrectAnswered: -1,
	}
}

// GeneratedQuestion is the structured payload produced from the provider's
// reply. Mistakes and Reasons are parallel arrays: Reasons[i] explains
// Mistakes[i]. The lowercase "approaches" key is a wire-compatibility quirk
// inherited from the original API; replies that capitalize the key still
// unmarshal because Go matches JSON field names case-insensitively.
type GeneratedQuestion struct {
	Question   string   `json:"Question"`
	Mistakes   []string `json:"Mistakes"`
	Reasons    []string `json:"Reasons"`
	Approaches []string `json:"approaches"`
}

// Student is the create-student request body.
type Student struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
	Age   int    `json:"age"`
}

// SessionRecord is a persisted snapshot of one question-generation
// interaction. Write-once, append-only.
type SessionRecord struct {
	ID          string            `json:"id,omitempty"`
	StudentID   string            `json:"student_id,omitempty"`
	StudentInfo StudentProfile    `json:"studentInfo"`
	Generated   GeneratedQuestion `json:"generatedQuestion"`
	Timestamp   string            `json:"timestamp"`
	SessionType string            `json:"sessionType"`
}

// Feedback is a student's feedback on a generated question.
type Feedback struct {
	StudentID   string `json:"student_id"`
	SessionType string `json:"session_type"`
	Rating      int    `json:"rating"`
	Comment     string `json:"comment"`
}

// Envelope is the uniform {success, id, data} wrapper used by the simple
// acknowledgement endpoints. ID and Data serialize as null when absent to
// match the original API's responses.
type Envelope struct {
	Success bool    `json:"success"`
	ID      *string `json:"id"`
	Data    any     `json:"data"`
}

// ConnectionResult reports the outcome of a provider liveness probe.
type ConnectionResult struct {
	Success bool
	Message string
	Error   string
}
