package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// PostgresStore is the production backend. Schema migration is the host's
// responsibility (migration tooling, not this package); PostgresStore only
// issues DML against tables matching store.go's shapes.
type PostgresStore struct {
	db  *sql.DB
	enc *StateEncryptor
}

func NewPostgresStore(db *sql.DB, enc *StateEncryptor) *PostgresStore {
	if enc == nil {
		enc = NewStateEncryptor(nil)
	}
	return &PostgresStore{db: db, enc: enc}
}

func (s *PostgresStore) PutRecipe(ctx context.Context, r Recipe) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recipes (id, manifest, flow, enabled, scope)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			manifest = EXCLUDED.manifest, flow = EXCLUDED.flow,
			enabled = EXCLUDED.enabled, scope = EXCLUDED.scope
	`, r.ID, r.Manifest, r.Flow, r.Enabled, r.Scope)
	if err != nil {
		return fmt.Errorf("put recipe: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, manifest, flow, enabled, scope FROM recipes WHERE id = $1`, id)
	var r Recipe
	if err := row.Scan(&r.ID, &r.Manifest, &r.Flow, &r.Enabled, &r.Scope); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &r, nil
}

func (s *PostgresStore) ListEnabledRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, manifest, flow, enabled, scope FROM recipes WHERE enabled`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	var out []Recipe
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.Manifest, &r.Flow, &r.Enabled, &r.Scope); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) PutPermissionsGrant(ctx context.Context, g PermissionsGrant) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO permissions_grants (recipe_id, grants_json)
		VALUES ($1, $2)
		ON CONFLICT (recipe_id) DO UPDATE SET grants_json = EXCLUDED.grants_json
	`, g.RecipeID, g.GrantsJSON)
	if err != nil {
		return fmt.Errorf("put grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPermissionsGrant(ctx context.Context, recipeID string) (*PermissionsGrant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT recipe_id, grants_json FROM permissions_grants WHERE recipe_id = $1`, recipeID)
	var g PermissionsGrant
	if err := row.Scan(&g.RecipeID, &g.GrantsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get grant: %w", err)
	}
	return &g, nil
}

func (s *PostgresStore) AppendExecutionLog(ctx context.Context, row ExecutionLogRow) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO execution_logs (id, recipe_id, run_id, log_json, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, row.ID, row.RecipeID, row.RunID, row.LogJSON, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("append execution log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListExecutionLogs(ctx context.Context, recipeID string, limit int) ([]ExecutionLogRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recipe_id, run_id, log_json, created_at FROM execution_logs
		WHERE recipe_id = $1 ORDER BY created_at DESC LIMIT $2
	`, recipeID, limit)
	if err != nil {
		return nil, fmt.Errorf("list execution logs: %w", err)
	}
	defer rows.Close()

	var out []ExecutionLogRow
	for rows.Next() {
		var r ExecutionLogRow
		if err := rows.Scan(&r.ID, &r.RecipeID, &r.RunID, &r.LogJSON, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetState(ctx context.Context, recipeID, key string) (json.RawMessage, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value_json FROM state_kv WHERE recipe_id = $1 AND key = $2`, recipeID, key)
	var stored json.RawMessage
	if err := row.Scan(&stored); err != nil {
		if err == sql.ErrNoRows {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get state: %w", err)
	}
	opened, err := s.enc.Open(recipeID, stored)
	if err != nil {
		return nil, false, fmt.Errorf("open state: %w", err)
	}
	return opened, true, nil
}

func (s *PostgresStore) SetState(ctx context.Context, recipeID, key string, value json.RawMessage) error {
	sealed, err := s.enc.Seal(recipeID, value)
	if err != nil {
		return fmt.Errorf("seal state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO state_kv (recipe_id, key, value_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (recipe_id, key) DO UPDATE SET value_json = EXCLUDED.value_json
	`, recipeID, key, sealed)
	if err != nil {
		return fmt.Errorf("set state: %w", err)
	}
	return nil
}

func (s *PostgresStore) PutTriggerBinding(ctx context.Context, b TriggerBinding) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trigger_bindings (recipe_id, trigger_type, binding_json)
		VALUES ($1, $2, $3)
		ON CONFLICT (recipe_id, trigger_type) DO UPDATE SET binding_json = EXCLUDED.binding_json
	`, b.RecipeID, b.TriggerType, b.BindingJSON)
	if err != nil {
		return fmt.Errorf("put trigger binding: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTriggerBindings(ctx context.Context, recipeID string) ([]TriggerBinding, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT recipe_id, trigger_type, binding_json FROM trigger_bindings WHERE recipe_id = $1`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("list trigger bindings: %w", err)
	}
	defer rows.Close()

	var out []TriggerBinding
	for rows.Next() {
		var b TriggerBinding
		if err := rows.Scan(&b.RecipeID, &b.TriggerType, &b.BindingJSON); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPolicySettings(ctx context.Context) (*PolicySettingsRow, error) {
	row := s.db.QueryRowContext(ctx, `SELECT settings_json FROM policy_settings WHERE id = 1`)
	var row2 PolicySettingsRow
	if err := row.Scan(&row2.SettingsJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get policy settings: %w", err)
	}
	return &row2, nil
}

func (s *PostgresStore) SetPolicySettings(ctx context.Context, row PolicySettingsRow) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO policy_settings (id, settings_json)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET settings_json = EXCLUDED.settings_json
	`, row.SettingsJSON)
	if err != nil {
		return fmt.Errorf("set policy settings: %w", err)
	}
	return nil
}
