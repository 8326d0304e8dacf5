package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/arquent-run/arquent/pkg/datavalue"
	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/executor"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/proofstore"
	"github.com/arquent-run/arquent/pkg/store"
)

type runRequest struct {
	RecipeID     string `json:"recipe_id"`
	RunID        string `json:"run_id"`
	TriggerClass string `json:"trigger_class"`
}

// newRunsHandler serves POST /runs: load the named recipe from the store,
// take any stored runtime proof for it, and execute it, writing the
// resulting execution log.
func newRunsHandler(st store.Store, proofs proofstore.Store, exec *executor.Executor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req runRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.RecipeID == "" {
			http.Error(w, "recipe_id is required", http.StatusBadRequest)
			return
		}

		ctx := r.Context()
		rec, err := st.GetRecipe(ctx, req.RecipeID)
		if err != nil {
			http.Error(w, "loading recipe: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if rec == nil {
			http.Error(w, "recipe not found", http.StatusNotFound)
			return
		}

		recipe, decodeErr := decodeStoredRecipe(*rec)
		if decodeErr != nil {
			http.Error(w, "decoding stored recipe: "+decodeErr.Error(), http.StatusInternalServerError)
			return
		}

		triggerClass := flow.TriggerClass(req.TriggerClass)
		if triggerClass == "" {
			triggerClass = flow.UserInitiated
		}
		execCtx := execcontext.ExecutionContext{
			Input: map[string]datavalue.DataValue{},
			State: map[string]datavalue.DataValue{},
			Metadata: execcontext.ExecutionMetadata{
				RecipeID:     req.RecipeID,
				RunID:        req.RunID,
				TriggerClass: triggerClass,
			},
		}

		policy := execcontext.DefaultPolicySettings()
		if settingsRow, err := st.GetPolicySettings(ctx); err == nil && settingsRow != nil {
			_ = json.Unmarshal(settingsRow.SettingsJSON, &policy)
		}

		result, rerr := exec.ExecuteRecipeWithStoredProof(ctx, proofs, recipe, execCtx, policy, false)
		if rerr != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": rerr.Error()})
			return
		}

		logJSON, err := json.Marshal(result.Log)
		if err == nil {
			_ = st.AppendExecutionLog(ctx, store.ExecutionLogRow{
				RecipeID: req.RecipeID,
				RunID:    req.RunID,
				LogJSON:  logJSON,
			})
		}

		writeJSON(w, http.StatusOK, result.Log)
	})
}

func decodeStoredRecipe(rec store.Recipe) (manifest.RecipeModel, error) {
	var model manifest.RecipeModel
	if err := json.Unmarshal(rec.Manifest, &model.Manifest); err != nil {
		return model, err
	}
	if err := json.Unmarshal(rec.Flow, &model.Flow); err != nil {
		return model, err
	}
	return model, nil
}

// newConnectorsHandler serves GET /connectors: a readiness probe that
// dispatches one notification.send through the registry and reports
// {"ready": true} when that call succeeds. It does not list action types.
func newConnectorsHandler(registry interface {
	Dispatch(ctx context.Context, actionType string, params json.RawMessage) (map[string]datavalue.DataValue, error)
}) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		_, err := registry.Dispatch(r.Context(), "notification.send", nil)
		writeJSON(w, http.StatusOK, map[string]bool{"ready": err == nil})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
