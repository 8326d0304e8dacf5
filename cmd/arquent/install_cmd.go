package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/arquent-run/arquent/pkg/config"
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/store"
)

func runInstallCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("install", flag.ContinueOnError)
	fs.SetOutput(stderr)
	recipePath := fs.String("recipe", "", "path to a recipe package (JSON or YAML)")
	enabled := fs.Bool("enabled", true, "enable the recipe immediately")
	scope := fs.String("scope", "local", "storage scope tag for this recipe")
	sqlitePath := fs.String("sqlite", "", "path to a SQLite database file (overrides ARQUENT_DATABASE_URL)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *recipePath == "" {
		fmt.Fprintln(stderr, "install: --recipe is required")
		return 2
	}

	data, err := os.ReadFile(*recipePath)
	if err != nil {
		fmt.Fprintf(stderr, "install: reading recipe: %v\n", err)
		return 1
	}
	recipe, err := manifest.LoadRecipeModel(data)
	if err != nil {
		fmt.Fprintf(stderr, "install: parsing recipe: %v\n", err)
		return 1
	}
	if recipe.Manifest.ID == "" {
		fmt.Fprintln(stderr, "install: recipe manifest has no id")
		return 1
	}

	cfg := config.Load()
	st, closeFn, err := openStore(cfg, *sqlitePath)
	if err != nil {
		fmt.Fprintf(stderr, "install: opening store: %v\n", err)
		return 1
	}
	defer closeFn()

	manifestJSON, err := json.Marshal(recipe.Manifest)
	if err != nil {
		fmt.Fprintf(stderr, "install: marshaling manifest: %v\n", err)
		return 1
	}
	flowJSON, err := json.Marshal(recipe.Flow)
	if err != nil {
		fmt.Fprintf(stderr, "install: marshaling flow: %v\n", err)
		return 1
	}

	ctx := context.Background()
	if err := st.PutRecipe(ctx, store.Recipe{
		ID:       recipe.Manifest.ID,
		Manifest: manifestJSON,
		Flow:     flowJSON,
		Enabled:  *enabled,
		Scope:    *scope,
	}); err != nil {
		fmt.Fprintf(stderr, "install: storing recipe: %v\n", err)
		return 1
	}

	grantsJSON, err := json.Marshal(recipe.Manifest.Permissions)
	if err != nil {
		fmt.Fprintf(stderr, "install: marshaling permissions: %v\n", err)
		return 1
	}
	if err := st.PutPermissionsGrant(ctx, store.PermissionsGrant{
		RecipeID:   recipe.Manifest.ID,
		GrantsJSON: grantsJSON,
	}); err != nil {
		fmt.Fprintf(stderr, "install: storing permission grant: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "installed recipe %s (scope=%s enabled=%v)\n", recipe.Manifest.ID, *scope, *enabled)
	return 0
}

// openStore opens either a SQLite or Postgres store depending on flags and
// config, matching the backend a "serve" run would use against the same
// database.
func openStore(cfg *config.Config, sqlitePath string) (store.Store, func(), error) {
	if sqlitePath != "" {
		db, err := sql.Open("sqlite", sqlitePath)
		if err != nil {
			return nil, nil, err
		}
		enc := store.NewStateEncryptor([]byte(cfg.StateEncryptionSecret))
		s, err := store.NewSQLiteStore(db, enc)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return s, func() { db.Close() }, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	enc := store.NewStateEncryptor([]byte(cfg.StateEncryptionSecret))
	return store.NewPostgresStore(db, enc), func() { db.Close() }, nil
}
