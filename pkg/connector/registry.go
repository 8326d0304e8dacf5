package connector

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/arquent-run/arquent/pkg/datavalue"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// Dispatcher performs the actual side effect for one action type. This
// repo's dispatchers are stubs — platform connector implementations are an
// out-of-scope collaborator — but the registry, trust gating, and
// trigger.* rejection around them are real.
type Dispatcher func(ctx context.Context, params json.RawMessage) (map[string]datavalue.DataValue, error)

// actionTypes is the full wire-string registry from §6.
var actionTypes = []string{
	"camera.capture", "microphone.record", "webcam.capture",
	"health.read", "health.export",
	"notification.send", "clipboard.read", "clipboard.write",
	"http.request",
	"file.read", "file.write", "file.move", "file.rename",
	"state.get", "state.set",
}

func isTriggerType(actionType string) bool {
	return strings.HasPrefix(actionType, "trigger.")
}

// Registry dispatches a validated, permission-checked action to its stub
// connector, gated by a ZeroTrustGate keyed on the action type's connector
// kind (the coarse prefix before the dot — "camera", "http", "file", ...).
type Registry struct {
	gate        *ZeroTrustGate
	dispatchers map[string]Dispatcher
}

// NewRegistry builds a Registry with a stub dispatcher for every known
// action type and a permissive default trust policy per connector kind.
func NewRegistry() *Registry {
	r := &Registry{
		gate:        NewZeroTrustGate(),
		dispatchers: make(map[string]Dispatcher, len(actionTypes)),
	}
	for _, t := range actionTypes {
		r.dispatchers[t] = stubDispatcher(t)
		r.gate.SetPolicy(&TrustPolicy{
			ConnectorID:        connectorKind(t),
			TrustLevel:         TrustLevelVerified,
			MaxTTLSeconds:      300,
			RateLimitPerMinute: 120,
			RequireProvenance:  false,
		})
	}
	return r
}

func connectorKind(actionType string) string {
	if i := strings.IndexByte(actionType, '.'); i >= 0 {
		return actionType[:i]
	}
	return actionType
}

// Register overrides the stub dispatcher for actionType, for a host that
// wires in a real platform connector.
func (r *Registry) Register(actionType string, d Dispatcher) {
	r.dispatchers[actionType] = d
}

// Dispatch routes actionType to its dispatcher after rejecting trigger.*
// types (owned by the orchestrator, never the per-action dispatcher per
// §6) and checking the zero-trust gate for its connector kind.
func (r *Registry) Dispatch(ctx context.Context, actionType string, params json.RawMessage) (map[string]datavalue.DataValue, error) {
	if isTriggerType(actionType) {
		return nil, runtimeerr.Connector("trigger action types are owned by the orchestrator: " + actionType)
	}
	decision := r.gate.CheckCall(ctx, connectorKind(actionType), "")
	if !decision.Allowed {
		return nil, runtimeerr.Connector(decision.Reason)
	}
	d, ok := r.dispatchers[actionType]
	if !ok {
		return nil, runtimeerr.Connector("no connector registered for action type: " + actionType)
	}
	return d(ctx, params)
}

// stubDispatcher returns an empty-output success, the placeholder behavior
// every action type has until a host registers a real connector.
func stubDispatcher(actionType string) Dispatcher {
	return func(ctx context.Context, params json.RawMessage) (map[string]datavalue.DataValue, error) {
		return map[string]datavalue.DataValue{}, nil
	}
}
