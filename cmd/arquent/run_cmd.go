package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arquent-run/arquent/pkg/datavalue"
	"github.com/arquent-run/arquent/pkg/execcontext"
	"github.com/arquent-run/arquent/pkg/executor"
	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/arquent-run/arquent/pkg/manifest"
)

func runRunCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	recipePath := fs.String("recipe", "", "path to a recipe package (JSON or YAML)")
	triggerClass := fs.String("trigger-class", string(flow.UserInitiated), "trigger class for this run")
	runID := fs.String("run-id", "local", "run identifier to stamp in the execution log")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *recipePath == "" {
		fmt.Fprintln(stderr, "run: --recipe is required")
		return 2
	}

	data, err := os.ReadFile(*recipePath)
	if err != nil {
		fmt.Fprintf(stderr, "run: reading recipe: %v\n", err)
		return 1
	}
	recipe, err := manifest.LoadRecipeModel(data)
	if err != nil {
		fmt.Fprintf(stderr, "run: parsing recipe: %v\n", err)
		return 1
	}

	execCtx := execcontext.ExecutionContext{
		Input: map[string]datavalue.DataValue{},
		State: map[string]datavalue.DataValue{},
		Metadata: execcontext.ExecutionMetadata{
			RecipeID:     recipe.Manifest.ID,
			RunID:        *runID,
			Trigger:      *triggerClass,
			TriggerClass: flow.TriggerClass(*triggerClass),
		},
	}

	e := executor.New()
	result, rerr := e.ExecuteRecipe(context.Background(), recipe, execCtx,
		execcontext.SensitiveRuntimeContext{}, execcontext.DefaultPolicySettings(), false)
	if rerr != nil {
		fmt.Fprintf(stderr, "run: denied: %s\n", rerr.Error())
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result.Log)
	return 0
}
