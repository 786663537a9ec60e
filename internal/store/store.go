// Package store persists student records, session snapshots, and feedback
// in a local SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/anaya-patel/llm-disability-dashboard/internal/model"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		grade TEXT NOT NULL,
		age INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL DEFAULT '',
		student_info TEXT NOT NULL,
		generated_question TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		session_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL DEFAULT '',
		session_type TEXT NOT NULL DEFAULT '',
		rating INTEGER NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateStudent inserts a student record and returns its opaque identifier.
func (s *Store) CreateStudent(st model.Student) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO students (id, name, grade, age, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, st.Name, st.Grade, st.Age, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: create student: %v", model.ErrPersistence, err)
	}
	return id, nil
}

// StudentIDByName returns the id of the most recently created student with
// the given name, or an empty string when none exists.
func (s *Store) StudentIDByName(name string) (string, error) {
	var id string
	err := s.db.QueryRow(
		`SELECT id FROM students WHERE name = ? ORDER BY created_at DESC LIMIT 1`, name,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: look up student by name: %v", model.ErrPersistence, err)
	}
	return id, nil
}

// SaveSession persists one question-generation snapshot. Records are
// append-only; this service never updates or deletes them.
func (s *Store) SaveSession(rec model.SessionRecord) error {
	info, err := json.Marshal(rec.StudentInfo)
	if err != nil {
		return fmt.Errorf("%w: encode student info: %v", model.ErrPersistence, err)
	}
	q, err := json.Marshal(rec.Generated)
	if err != nil {
		return fmt.Errorf("%w: encode generated question: %v", model.ErrPersistence, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO sessions (id, student_id, student_info, generated_question, timestamp, session_type)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), rec.StudentID, string(info), string(q), rec.Timestamp, rec.SessionType,
	)
	if err != nil {
		return fmt.Errorf("%w: save session: %v", model.ErrPersistence, err)
	}
	return nil
}

// SaveFeedback stores a feedback record and returns its identifier.
func (s *Store) SaveFeedback(fb model.Feedback) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO feedback (id, student_id, session_type, rating, comment, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, fb.StudentID, fb.SessionType, fb.Rating, fb.Comment, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("%w: save feedback: %v", model.ErrPersistence, err)
	}
	return id, nil
}

// StudentHistory returns all session records for a student, oldest first.
func (s *Store) StudentHistory(studentID string) ([]model.SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, student_id, student_info, generated_question, timestamp, session_type
		 FROM sessions WHERE student_id = ? ORDER BY timestamp`, studentID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query student history: %v", model.ErrPersistence, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func scanSessions(rows *sql.Rows) ([]model.SessionRecord, error) {
	var records []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var info, q string
		if err := rows.Scan(&rec.ID, &rec.StudentID, &info, &q, &rec.Timestamp, &rec.SessionType); err != nil {
			return nil, fmt.Errorf("%w: scan session: %v", model.ErrPersistence, err)
		}
		if err := json.Unmarshal([]byte(info), &rec.StudentInfo); err != nil {
			return nil, fmt.Errorf("%w: decode student info: %v", model.ErrPersistence, err)
		}
		if err := json.Unmarshal([]byte(q), &rec.Generated); err != nil {
			return nil, fmt.Errorf("%w: decode generated question: %v", model.ErrPersistence, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate sessions: %v", model.ErrPersistence, err)
	}
	return records, nil
}
