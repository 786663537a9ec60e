package store

import (
	"fmt"

	"github.com/anaya-patel/llm-disability-dashboard/internal/model"
)

// ExportAllSessions returns every persisted session record, oldest first.
// Used by the export subcommand.
func (s *Store) ExportAllSessions() ([]model.SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, student_id, student_info, generated_question, timestamp, session_type
		 FROM sessions ORDER BY timestamp`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: query sessions: %v", model.ErrPersistence, err)
	}
	defer rows.Close()
	return scanSessions(rows)
}
