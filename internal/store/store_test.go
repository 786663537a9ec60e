package store

import (
	"errors"
	"testing"

	"github.com/anaya-patel/llm-disability-dashboard/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(studentID, name, question, timestamp string) model.SessionRecord {
	return model.SessionRecord{
		StudentID: studentID,
		StudentInfo: model.StudentProfile{
			Name:  name,
			Grade: 5,
			Age:   "10",
		},
		Generated: model.GeneratedQuestion{
			Question:   question,
			Mistakes:   []string{"m1"},
			Reasons:    []string{"r1"},
			Approaches: []string{"a1"},
		},
		Timestamp:   timestamp,
		SessionType: model.SessionTypeQuestionGeneration,
	}
}

func TestCreateStudent(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateStudent(model.Student{Name: "Ana", Grade: "5", Age: 10})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	id2, err := s.CreateStudent(model.Student{Name: "Ben", Grade: "3", Age: 8})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if id2 == id {
		t.Error("ids should be unique")
	}
}

func TestStudentIDByName(t *testing.T) {
	s := newTestStore(t)

	got, err := s.StudentIDByName("nobody")
	if err != nil {
		t.Fatalf("StudentIDByName: %v", err)
	}
	if got != "" {
		t.Errorf("expected empty id for unknown name, got %q", got)
	}

	id, err := s.CreateStudent(model.Student{Name: "Ana", Grade: "5", Age: 10})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	got, err = s.StudentIDByName("Ana")
	if err != nil {
		t.Fatalf("StudentIDByName: %v", err)
	}
	if got != id {
		t.Errorf("StudentIDByName = %q, want %q", got, id)
	}
}

func TestSessionHistoryRoundTrip(t *testing.T) {
	s := newTestStore(t)

	anaID, err := s.CreateStudent(model.Student{Name: "Ana", Grade: "5", Age: 10})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	benID, err := s.CreateStudent(model.Student{Name: "Ben", Grade: "3", Age: 8})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}

	for _, rec := range []model.SessionRecord{
		testSession(anaID, "Ana", "Q2", "2026-08-29T11:00:00Z"),
		testSession(anaID, "Ana", "Q1", "2026-08-29T10:00:00Z"),
		testSession(benID, "Ben", "Q3", "2026-08-29T12:00:00Z"),
	} {
		if err := s.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	history, err := s.StudentHistory(anaID)
	if err != nil {
		t.Fatalf("StudentHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	// Oldest first.
	if history[0].Generated.Question != "Q1" || history[1].Generated.Question != "Q2" {
		t.Errorf("unexpected order: %q, %q", history[0].Generated.Question, history[1].Generated.Question)
	}

	rec := history[0]
	if rec.ID == "" {
		t.Error("expected record id")
	}
	if rec.StudentInfo.Name != "Ana" || rec.StudentInfo.Age != "10" {
		t.Errorf("student info not round-tripped: %+v", rec.StudentInfo)
	}
	if rec.Generated.Mistakes[0] != "m1" || rec.Generated.Reasons[0] != "r1" || rec.Generated.Approaches[0] != "a1" {
		t.Errorf("generated question not round-tripped: %+v", rec.Generated)
	}
	if rec.SessionType != model.SessionTypeQuestionGeneration {
		t.Errorf("session type = %q", rec.SessionType)
	}

	empty, err := s.StudentHistory("no-such-id")
	if err != nil {
		t.Fatalf("StudentHistory: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no records, got %d", len(empty))
	}
}

func TestSaveFeedback(t *testing.T) {
	s := newTestStore(t)

	id, err := s.SaveFeedback(model.Feedback{
		StudentID:   "student-1",
		SessionType: model.SessionTypeQuestionGeneration,
		Rating:      4,
		Comment:     "good difficulty",
	})
	if err != nil {
		t.Fatalf("SaveFeedback: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}
}

func TestExportAllSessions(t *testing.T) {
	s := newTestStore(t)

	for _, rec := range []model.SessionRecord{
		testSession("", "Ana", "Q2", "2026-08-29T11:00:00Z"),
		testSession("", "Ben", "Q1", "2026-08-29T10:00:00Z"),
	} {
		if err := s.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	records, err := s.ExportAllSessions()
	if err != nil {
		t.Fatalf("ExportAllSessions: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Generated.Question != "Q1" {
		t.Errorf("expected oldest first, got %q", records[0].Generated.Question)
	}
}

func TestErrorsWrapPersistenceKind(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	if _, err := s.CreateStudent(model.Student{Name: "Ana", Grade: "5", Age: 10}); !errors.Is(err, model.ErrPersistence) {
		t.Errorf("CreateStudent on closed db: expected ErrPersistence, got %v", err)
	}
	if err := s.SaveSession(testSession("", "Ana", "Q", "2026-08-29T10:00:00Z")); !errors.Is(err, model.ErrPersistence) {
		t.Errorf("SaveSession on closed db: expected ErrPersistence, got %v", err)
	}
}
