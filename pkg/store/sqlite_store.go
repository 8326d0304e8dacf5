package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteStore is the embedded/dev backend, migrated on construction.
type SQLiteStore struct {
	db  *sql.DB
	enc *StateEncryptor
}

func NewSQLiteStore(db *sql.DB, enc *StateEncryptor) (*SQLiteStore, error) {
	if enc == nil {
		enc = NewStateEncryptor(nil)
	}
	s := &SQLiteStore{db: db, enc: enc}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recipes (
			id TEXT PRIMARY KEY,
			manifest JSON NOT NULL,
			flow JSON NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			scope TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS permissions_grants (
			recipe_id TEXT PRIMARY KEY,
			grants_json JSON NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS execution_logs (
			id TEXT PRIMARY KEY,
			recipe_id TEXT NOT NULL,
			run_id TEXT NOT NULL,
			log_json JSON NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS state_kv (
			recipe_id TEXT NOT NULL,
			key TEXT NOT NULL,
			value_json JSON NOT NULL,
			PRIMARY KEY (recipe_id, key)
		)`,
		`CREATE TABLE IF NOT EXISTS trigger_bindings (
			recipe_id TEXT NOT NULL,
			trigger_type TEXT NOT NULL,
			binding_json JSON NOT NULL,
			PRIMARY KEY (recipe_id, trigger_type)
		)`,
		`CREATE TABLE IF NOT EXISTS policy_settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			settings_json JSON NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(context.Background(), stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) PutRecipe(ctx context.Context, r Recipe) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recipes (id, manifest, flow, enabled, scope) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET manifest=excluded.manifest, flow=excluded.flow, enabled=excluded.enabled, scope=excluded.scope`,
		r.ID, string(r.Manifest), string(r.Flow), boolToInt(r.Enabled), r.Scope)
	if err != nil {
		return fmt.Errorf("put recipe: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, manifest, flow, enabled, scope FROM recipes WHERE id = ?`, id)
	var r Recipe
	var manifest, flow string
	var enabled int
	if err := row.Scan(&r.ID, &manifest, &flow, &enabled, &r.Scope); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	r.Manifest = json.RawMessage(manifest)
	r.Flow = json.RawMessage(flow)
	r.Enabled = enabled != 0
	return &r, nil
}

func (s *SQLiteStore) ListEnabledRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, manifest, flow, enabled, scope FROM recipes WHERE enabled = 1`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []Recipe
	for rows.Next() {
		var r Recipe
		var manifest, flow string
		var enabled int
		if err := rows.Scan(&r.ID, &manifest, &flow, &enabled, &r.Scope); err != nil {
			return nil, err
		}
		r.Manifest = json.RawMessage(manifest)
		r.Flow = json.RawMessage(flow)
		r.Enabled = enabled != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) PutPermissionsGrant(ctx context.Context, g PermissionsGrant) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO permissions_grants (recipe_id, grants_json) VALUES (?, ?)
		 ON CONFLICT(recipe_id) DO UPDATE SET grants_json=excluded.grants_json`,
		g.RecipeID, string(g.GrantsJSON))
	if err != nil {
		return fmt.Errorf("put grant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPermissionsGrant(ctx context.Context, recipeID string) (*PermissionsGrant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT recipe_id, grants_json FROM permissions_grants WHERE recipe_id = ?`, recipeID)
	var g PermissionsGrant
	var grants string
	if err := row.Scan(&g.RecipeID, &grants); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get grant: %w", err)
	}
	g.GrantsJSON = json.RawMessage(grants)
	return &g, nil
}

func (s *SQLiteStore) AppendExecutionLog(ctx context.Context, row ExecutionLogRow) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO execution_logs (id, recipe_id, run_id, log_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		row.ID, row.RecipeID, row.RunID, string(row.LogJSON), row.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append execution log: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListExecutionLogs(ctx context.Context, recipeID string, limit int) ([]ExecutionLogRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipe_id, run_id, log_json, created_at FROM execution_logs WHERE recipe_id = ? ORDER BY created_at DESC LIMIT ?`,
		recipeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list execution logs: %w", err)
	}
	defer rows.Close()

	var out []ExecutionLogRow
	for rows.Next() {
		var r ExecutionLogRow
		var logJSON, createdAt string
		if err := rows.Scan(&r.ID, &r.RecipeID, &r.RunID, &logJSON, &createdAt); err != nil {
			return nil, err
		}
		r.LogJSON = json.RawMessage(logJSON)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetState(ctx context.Context, recipeID, key string) (json.RawMessage, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value_json FROM state_kv WHERE recipe_id = ? AND key = ?`, recipeID, key)
	var stored string
	if err := row.Scan(&stored); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get state: %w", err)
	}
	opened, err := s.enc.Open(recipeID, json.RawMessage(stored))
	if err != nil {
		return nil, false, fmt.Errorf("open state: %w", err)
	}
	return opened, true, nil
}

func (s *SQLiteStore) SetState(ctx context.Context, recipeID, key string, value json.RawMessage) error {
	sealed, err := s.enc.Seal(recipeID, value)
	if err != nil {
		return fmt.Errorf("seal state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO state_kv (recipe_id, key, value_json) VALUES (?, ?, ?)
		 ON CONFLICT(recipe_id, key) DO UPDATE SET value_json=excluded.value_json`,
		recipeID, key, string(sealed))
	if err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

func (s *SQLiteStore) PutTriggerBinding(ctx context.Context, b TriggerBinding) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trigger_bindings (recipe_id, trigger_type, binding_json) VALUES (?, ?, ?)
		 ON CONFLICT(recipe_id, trigger_type) DO UPDATE SET binding_json=excluded.binding_json`,
		b.RecipeID, b.TriggerType, string(b.BindingJSON))
	if err != nil {
		return fmt.Errorf("put trigger binding: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListTriggerBindings(ctx context.Context, recipeID string) ([]TriggerBinding, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT recipe_id, trigger_type, binding_json FROM trigger_bindings WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list trigger bindings: %w", err)
	}
	defer rows.Close()

	var out []TriggerBinding
	for rows.Next() {
		var b TriggerBinding
		var bindingJSON string
		if err := rows.Scan(&b.RecipeID, &b.TriggerType, &bindingJSON); err != nil {
			return nil, err
		}
		b.BindingJSON = json.RawMessage(bindingJSON)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetPolicySettings(ctx context.Context) (*PolicySettingsRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT settings_json FROM policy_settings WHERE id = 1`)
	var settings string
	if err := row.Scan(&settings); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get policy settings: %w", err)
	}
	return &PolicySettingsRow{SettingsJSON: json.RawMessage(settings)}, nil
}

func (s *SQLiteStore) SetPolicySettings(ctx context.Context, row PolicySettingsRow) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO policy_settings (id, settings_json) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET settings_json=excluded.settings_json`,
		string(row.SettingsJSON))
	if err != nil {
		return fmt.Errorf("set policy settings: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
