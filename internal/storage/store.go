package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hammamikhairi/souschef/internal/domain"
)

// Store persists sessions and the recipe catalog in SQLite. Timestamps
// are stored as unix milliseconds.
type Store struct {
	db *sql.DB
}

var (
	_ domain.SessionStore  = (*Store)(nil)
	_ domain.RecipeCatalog = (*Store)(nil)
)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Save writes the session and its full timer set in one transaction.
// Timers are replaced wholesale; the set is small and this keeps the
// rows exactly in sync with the session without diffing.
func (s *Store) Save(ctx context.Context, session *domain.Session) error {
	recipeJSON, err := json.Marshal(session.Recipe)
	if err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}
	notes := session.Notes
	if notes == nil {
		notes = []string{}
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return fmt.Errorf("encode notes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, recipe_json, current_step, is_paused, notes_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			recipe_json = excluded.recipe_json,
			current_step = excluded.current_step,
			is_paused = excluded.is_paused,
			notes_json = excluded.notes_json,
			updated_at = excluded.updated_at`,
		session.ID, string(recipeJSON), session.CurrentStep, boolToInt(session.Paused),
		string(notesJSON), session.CreatedAt.UnixMilli(), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM timers WHERE session_id = ?`, session.ID); err != nil {
		return fmt.Errorf("clear timers: %w", err)
	}
	for _, t := range session.AllTimers() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO timers (id, session_id, label, seconds_total, started_at, status)
			VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, session.ID, t.Label, t.SecondsTotal, t.StartedAt.UnixMilli(), string(t.Status))
		if err != nil {
			return fmt.Errorf("insert timer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, id string) (*domain.Session, error) {
	var (
		recipeJSON, notesJSON string
		currentStep, paused   int
		createdAt             int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT recipe_json, current_step, is_paused, notes_json, created_at
		FROM sessions WHERE id = ?`, id).
		Scan(&recipeJSON, &currentStep, &paused, &notesJSON, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session := &domain.Session{
		ID:          id,
		CurrentStep: currentStep,
		Paused:      paused != 0,
		Timers:      make(map[string]*domain.Timer),
		CreatedAt:   time.UnixMilli(createdAt).UTC(),
	}
	if err := json.Unmarshal([]byte(recipeJSON), &session.Recipe); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	if err := json.Unmarshal([]byte(notesJSON), &session.Notes); err != nil {
		return nil, fmt.Errorf("decode notes: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, seconds_total, started_at, status
		FROM timers WHERE session_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("load timers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			t         domain.Timer
			startedAt int64
			status    string
		)
		if err := rows.Scan(&t.ID, &t.Label, &t.SecondsTotal, &startedAt, &status); err != nil {
			return nil, fmt.Errorf("scan timer: %w", err)
		}
		t.StartedAt = time.UnixMilli(startedAt).UTC()
		t.Status = domain.TimerStatus(status)
		session.Timers[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timers: %w", err)
	}
	return session, nil
}

// List returns session IDs, newest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return ids, nil
}

// SaveRecipe appends a recipe to the catalog and returns its row ID.
func (s *Store) SaveRecipe(ctx context.Context, title, description string, recipe domain.Recipe) (int64, error) {
	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return 0, fmt.Errorf("encode recipe: %w", err)
	}
	now := time.Now().UnixMilli()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (title, description, recipe_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		title, description, string(recipeJSON), now, now)
	if err != nil {
		return 0, fmt.Errorf("insert recipe: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("recipe id: %w", err)
	}
	return id, nil
}

func (s *Store) GetRecipe(ctx context.Context, id int64) (*domain.SavedRecipe, error) {
	var (
		saved                domain.SavedRecipe
		recipeJSON           string
		createdAt, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, recipe_json, created_at, updated_at
		FROM recipes WHERE id = ?`, id).
		Scan(&saved.ID, &saved.Title, &saved.Description, &recipeJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("recipe %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load recipe: %w", err)
	}
	if err := json.Unmarshal([]byte(recipeJSON), &saved.Recipe); err != nil {
		return nil, fmt.Errorf("decode recipe: %w", err)
	}
	saved.CreatedAt = time.UnixMilli(createdAt).UTC()
	saved.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &saved, nil
}

// ListRecipes returns the catalog, newest first. Recipe bodies are
// included; the catalog is small enough that pagination can wait.
func (s *Store) ListRecipes(ctx context.Context) ([]domain.SavedRecipe, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, recipe_json, created_at, updated_at
		FROM recipes ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []domain.SavedRecipe
	for rows.Next() {
		var (
			saved                domain.SavedRecipe
			recipeJSON           string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&saved.ID, &saved.Title, &saved.Description, &recipeJSON, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		if err := json.Unmarshal([]byte(recipeJSON), &saved.Recipe); err != nil {
			return nil, fmt.Errorf("decode recipe: %w", err)
		}
		saved.CreatedAt = time.UnixMilli(createdAt).UTC()
		saved.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		out = append(out, saved)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
