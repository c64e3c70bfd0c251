package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// PoolSource supplies the question pool for one technology.
type PoolSource interface {
	PoolForTopic(ctx context.Context, slug string) ([]QuestionRecord, error)
}

// SQLPoolSource reads question banks from the question_banks table. All
// banks for a topic are merged and deduplicated by question ID.
type SQLPoolSource struct {
	db *sql.DB
}

func NewSQLPoolSource(db *sql.DB) *SQLPoolSource { return &SQLPoolSource{db: db} }

func (s *SQLPoolSource) PoolForTopic(ctx context.Context, slug string) ([]QuestionRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT questions_json FROM question_banks WHERE technology_slug=$1 ORDER BY created_at`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pools [][]QuestionRecord
	for rows.Next() {
		var qjson string
		if err := rows.Scan(&qjson); err != nil {
			return nil, err
		}
		var qs []QuestionRecord
		if err := json.Unmarshal([]byte(qjson), &qs); err != nil {
			return nil, err
		}
		pools = append(pools, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return MergePools(pools...), nil
}

// SaveBank validates and stores a bank. The bank's questions replace
// nothing; banks accumulate and PoolForTopic merges them.
func (s *SQLPoolSource) SaveBank(ctx context.Context, b Bank) error {
	if err := ValidatePool(b.Questions); err != nil {
		return err
	}
	qjson, err := json.Marshal(b.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO question_banks (id,technology_slug,title,questions_json,created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json`,
		b.ID, b.TechnologySlug, b.Title, string(qjson), time.Now().Unix())
	return err
}

// MergePools concatenates pools keeping the first occurrence of each
// question ID. Dedup is keyed on the stable ID, never on prompt text:
// unrelated questions may share wording.
func MergePools(pools ...[]QuestionRecord) []QuestionRecord {
	seen := map[string]struct{}{}
	var out []QuestionRecord
	for _, pool := range pools {
		for _, q := range pool {
			if _, ok := seen[q.ID]; ok {
				continue
			}
			seen[q.ID] = struct{}{}
			out = append(out, q)
		}
	}
	return out
}

// ValidatePool rejects a pool containing any malformed question.
func ValidatePool(pool []QuestionRecord) error {
	for _, q := range pool {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}
