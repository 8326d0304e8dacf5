// Package store implements the relational schema collaborator: recipes,
// their permission grants, execution logs, per-recipe key/value state,
// trigger bindings, and the single global policy_settings row.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Recipe mirrors the recipes table: id, manifest, flow, enabled, scope.
type Recipe struct {
	ID       string
	Manifest json.RawMessage
	Flow     json.RawMessage
	Enabled  bool
	Scope    string
}

// PermissionsGrant mirrors permissions_grants: recipe_id, grants_json.
type PermissionsGrant struct {
	RecipeID   string
	GrantsJSON json.RawMessage
}

// ExecutionLogRow mirrors execution_logs: id, recipe_id, run_id, log_json, created_at.
type ExecutionLogRow struct {
	ID        string
	RecipeID  string
	RunID     string
	LogJSON   json.RawMessage
	CreatedAt time.Time
}

// TriggerBinding mirrors trigger_bindings: recipe_id, trigger_type, binding_json.
type TriggerBinding struct {
	RecipeID    string
	TriggerType string
	BindingJSON json.RawMessage
}

// PolicySettingsRow mirrors the single policy_settings row (id=1, settings_json).
type PolicySettingsRow struct {
	SettingsJSON json.RawMessage
}

// Store is the full collaborator surface §6 names. Both the Postgres and
// SQLite implementations satisfy it; callers depend on the interface so a
// host can swap backends without touching executor wiring.
type Store interface {
	PutRecipe(ctx context.Context, r Recipe) error
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListEnabledRecipes(ctx context.Context) ([]Recipe, error)

	PutPermissionsGrant(ctx context.Context, g PermissionsGrant) error
	GetPermissionsGrant(ctx context.Context, recipeID string) (*PermissionsGrant, error)

	AppendExecutionLog(ctx context.Context, row ExecutionLogRow) error
	ListExecutionLogs(ctx context.Context, recipeID string, limit int) ([]ExecutionLogRow, error)

	GetState(ctx context.Context, recipeID, key string) (json.RawMessage, bool, error)
	SetState(ctx context.Context, recipeID, key string, value json.RawMessage) error

	PutTriggerBinding(ctx context.Context, b TriggerBinding) error
	ListTriggerBindings(ctx context.Context, recipeID string) ([]TriggerBinding, error)

	GetPolicySettings(ctx context.Context) (*PolicySettingsRow, error)
	SetPolicySettings(ctx context.Context, row PolicySettingsRow) error
}
