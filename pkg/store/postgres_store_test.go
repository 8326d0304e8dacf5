package store

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPostgresStore_GetRecipe(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db, nil)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "manifest", "flow", "enabled", "scope"}).
		AddRow("r1", []byte(`{"risk_level":"Low"}`), []byte(`{"actions":[]}`), true, "local")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, manifest, flow, enabled, scope FROM recipes WHERE id = $1")).
		WithArgs("r1").
		WillReturnRows(rows)

	r, err := s.GetRecipe(ctx, "r1")
	assert.NoError(t, err)
	assert.NotNil(t, r)
	assert.Equal(t, "r1", r.ID)
	assert.True(t, r.Enabled)
}

func TestPostgresStore_GetRecipe_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db, nil)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, manifest, flow, enabled, scope FROM recipes WHERE id = $1")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "manifest", "flow", "enabled", "scope"}))

	r, err := s.GetRecipe(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, r)
}

func TestPostgresStore_SetState_WithEncryptor(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db, NewStateEncryptor([]byte("a-test-master-secret-value!!")))
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO state_kv")).
		WithArgs("r1", "cursor", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = s.SetState(ctx, "r1", "cursor", json.RawMessage(`{"offset":42}`))
	assert.NoError(t, err)
}
