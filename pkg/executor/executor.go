// Package executor implements §4.9: the orchestrator that sequences risk
// validation, the action-count budget, optional condition evaluation, and
// per-action schema+permission gating into a single tamper-evident
// execution log.
package executor

import (
	"context"
	"time"

	"github.com/arquent-run/arquent/pkg/datavalue"
	"github.com/arquent-run/arquent/pkg/evaluator"
	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/executionlog"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/observability"
	"github.com/arquent-run/arquent/pkg/permission"
	"github.com/arquent-run/arquent/pkg/proofstore"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
	"github.com/arquent-run/arquent/pkg/sandbox"
)

// Output is the executor's result payload. The spec never populates it
// (every run returns "output:{}"); it exists so a future connector
// integration has somewhere to put actual results without changing the
// Result shape.
type Output map[string]datavalue.DataValue

// Result pairs an Output with the ExecutionLog the run produced.
type Result struct {
	Output Output
	Log    executionlog.ExecutionLog
}

// Executor carries the ambient enrichments (tracing/metrics, a richer
// JSON-Schema registry) around the spec's pure control flow. The zero value
// is usable — every field is optional.
type Executor struct {
	Limits   sandbox.SandboxLimits
	Schemas  *manifest.SchemaRegistry // optional ambient JSON-Schema enrichment
	Observer *observability.Provider  // optional tracing/metrics
	Clock    func() time.Time
}

func New() *Executor {
	return &Executor{Limits: sandbox.DefaultSandboxLimits(), Clock: time.Now}
}

func (e *Executor) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

// ExecuteRecipe implements §4.9 steps 1-5 exactly. The first validation or
// enforcement failure aborts the run and is returned to the caller — no log
// is produced in that case, matching §7's propagation policy.
func (e *Executor) ExecuteRecipe(
	ctx context.Context,
	recipe manifest.RecipeModel,
	execCtx execcontext.ExecutionContext,
	runtimeCtx execcontext.SensitiveRuntimeContext,
	policy execcontext.PolicySettings,
	healthExternalTransmissionEnabled bool,
) (Result, *runtimeerr.RuntimeError) {
	ctx, span := e.startSpan(ctx, "executor.execute_recipe")
	defer span.end()

	actionTypes := make([]string, len(recipe.Flow.Actions))
	for i, a := range recipe.Flow.Actions {
		actionTypes[i] = a.ActionType
	}

	if rerr := e.checkRisk(recipe.Manifest, actionTypes); rerr != nil {
		e.countDenial(rerr)
		return Result{}, rerr
	}

	if rerr := e.checkBudget(len(recipe.Flow.Actions)); rerr != nil {
		e.countDenial(rerr)
		return Result{}, rerr
	}

	if skip, rerr := e.evaluateCondition(recipe.Flow.Condition, execCtx); rerr != nil {
		e.countDenial(rerr)
		return Result{}, rerr
	} else if skip {
		reason := "CONDITION_FALSE"
		return Result{
			Output: Output{},
			Log: executionlog.ExecutionLog{
				RecipeID:      execCtx.Metadata.RecipeID,
				RunID:         execCtx.Metadata.RunID,
				Status:        executionlog.StatusSkipped,
				SensitiveUsed: false,
				ReasonCode:    &reason,
				Timestamp:     e.now(),
			},
		}, nil
	}

	if rerr := e.runActions(recipe, execCtx, runtimeCtx, policy, healthExternalTransmissionEnabled); rerr != nil {
		e.countDenial(rerr)
		return Result{}, rerr
	}

	e.countDecision()
	return Result{
		Output: Output{},
		Log: executionlog.ExecutionLog{
			RecipeID:      execCtx.Metadata.RecipeID,
			RunID:         execCtx.Metadata.RunID,
			Status:        executionlog.StatusSuccess,
			SensitiveUsed: executionlog.DetectSensitiveUsage(actionTypes),
			ReasonCode:    nil,
			Timestamp:     e.now(),
		},
	}, nil
}

func (e *Executor) checkRisk(m manifest.Manifest, actionTypes []string) *runtimeerr.RuntimeError {
	return manifest.ValidateManifestRisk(m, actionTypes)
}

func (e *Executor) checkBudget(actionCount int) *runtimeerr.RuntimeError {
	return sandbox.ValidateActionBudget(actionCount, e.Limits)
}

// evaluateCondition returns (skip=true, nil) when the flow has a condition
// that evaluates to false.
func (e *Executor) evaluateCondition(cond *flow.Expression, execCtx execcontext.ExecutionContext) (bool, *runtimeerr.RuntimeError) {
	if cond == nil {
		return false, nil
	}
	scope := evaluator.BuildScope(execCtx.Input, execCtx.State)
	return !evaluator.Eval(*cond, scope), nil
}

func (e *Executor) runActions(
	recipe manifest.RecipeModel,
	execCtx execcontext.ExecutionContext,
	runtimeCtx execcontext.SensitiveRuntimeContext,
	policy execcontext.PolicySettings,
	healthExternalTransmissionEnabled bool,
) *runtimeerr.RuntimeError {
	for _, action := range recipe.Flow.Actions {
		if rerr := manifest.ValidateActionSchema(action.ActionType, action.Params); rerr != nil {
			return rerr
		}
		if e.Schemas != nil {
			var parsed any
			if rerr := decodeParams(action.Params, &parsed); rerr != nil {
				return rerr
			}
			if rerr := e.Schemas.ValidateActionParamsJSONSchema(action.ActionType, parsed); rerr != nil {
				return rerr
			}
		}
		if rerr := permission.EnforceActionPermission(
			recipe.Manifest, action.ActionType, execCtx.Metadata.TriggerClass,
			runtimeCtx, policy, healthExternalTransmissionEnabled,
		); rerr != nil {
			return rerr
		}
	}
	return nil
}

// ExecuteRecipeWithStoredProof takes the stored runtime proof for this
// recipe (if any) and delegates to ExecuteRecipe.
func (e *Executor) ExecuteRecipeWithStoredProof(
	ctx context.Context,
	store proofstore.Store,
	recipe manifest.RecipeModel,
	execCtx execcontext.ExecutionContext,
	policy execcontext.PolicySettings,
	healthExternalTransmissionEnabled bool,
) (Result, *runtimeerr.RuntimeError) {
	runtimeCtx := execcontext.SensitiveRuntimeContext{}
	if store != nil {
		if rec, ok := store.Take(ctx, execCtx.Metadata.RecipeID); ok {
			runtimeCtx = rec.RuntimeContext
		}
	}
	return e.ExecuteRecipe(ctx, recipe, execCtx, runtimeCtx, policy, healthExternalTransmissionEnabled)
}
