package flow_test

import (
	"encoding/json"
	"testing"

	"github.com/arquent-run/arquent/pkg/flow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTriggerClass(t *testing.T) {
	cases := []struct {
		in      string
		want    flow.TriggerClass
		wantErr bool
	}{
		{"UserInitiated", flow.UserInitiated, false},
		{"user_initiated", flow.UserInitiated, false},
		{"userInitiated", flow.UserInitiated, false},
		{"Passive", flow.Passive, false},
		{"passive", flow.Passive, false},
		{"bogus", "", true},
	}
	for _, c := range cases {
		got, err := flow.ParseTriggerClass(c.in)
		if c.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestExpression_MarshalUnmarshalRoundTrip(t *testing.T) {
	exprs := []flow.Expression{
		flow.NewLiteral(true),
		flow.NewEq("a", "b"),
		flow.NewExists("k"),
		flow.NewNot(flow.NewLiteral(false)),
		flow.NewAnd(flow.NewEq("a", "b"), flow.NewExists("a")),
		flow.NewOr(flow.NewLiteral(false), flow.NewExists("a")),
	}
	for _, e := range exprs {
		data, err := json.Marshal(e)
		require.NoError(t, err)

		var roundTripped flow.Expression
		require.NoError(t, json.Unmarshal(data, &roundTripped))
		assert.Equal(t, e, roundTripped)
	}
}

func TestRecipeFlow_UnmarshalJSON(t *testing.T) {
	raw := `{
		"trigger": {"trigger_type": "manual"},
		"actions": [{"id": "a1", "action_type": "notification.send", "params": {}}]
	}`
	var rf flow.RecipeFlow
	require.NoError(t, json.Unmarshal([]byte(raw), &rf))
	assert.Equal(t, "manual", rf.Trigger.TriggerType)
	assert.Nil(t, rf.Condition)
	assert.Len(t, rf.Actions, 1)
	assert.Equal(t, "notification.send", rf.Actions[0].ActionType)
}
