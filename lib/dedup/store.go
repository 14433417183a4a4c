package dedup

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Store persists seen post ids and content hashes to sqlite so that
// separate runs (the daemon's scheduled crawls in particular) don't
// reprocess the same posts.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

func (s Store) SeenPost(ctx context.Context, id string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM seen_post WHERE id = ?", id)
}

func (s Store) MarkPost(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(
		ctx,
		"INSERT OR IGNORE INTO seen_post (id, first_seen) VALUES (?, ?)",
		id, time.Now().Unix(),
	)
	return err
}

// CheckAndMarkPost is the persistent analogue of Set.CheckAndMark; the
// INSERT OR IGNORE makes concurrent callers race safely.
func (s Store) CheckAndMarkPost(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		"INSERT OR IGNORE INTO seen_post (id, first_seen) VALUES (?, ?)",
		id, time.Now().Unix(),
	)
	if err != nil {
		return false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted == 0, nil
}

func (s Store) SeenContent(ctx context.Context, hash string) (bool, error) {
	return s.exists(ctx, "SELECT 1 FROM seen_content WHERE hash = ?", hash)
}

func (s Store) MarkContent(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(
		ctx,
		"INSERT OR IGNORE INTO seen_content (hash, first_seen) VALUES (?, ?)",
		hash, time.Now().Unix(),
	)
	return err
}

// Load preloads every persisted post id into an in-memory Set so the
// hot path of a run never touches the database.
func (s Store) Load(ctx context.Context) (*Set, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM seen_post")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := NewSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		set.Mark(id)
	}
	return set, rows.Err()
}

func (s Store) exists(ctx context.Context, query, key string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
