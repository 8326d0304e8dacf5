// Package sandbox implements file-URI confinement, network domain
// allowlisting, and the action-count budget, recording every rejected
// attempt the way the teacher's PolicyEnforcer records PolicyViolations.
package sandbox

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// SandboxLimits are the default resource caps declared by §4.3/§6.
// MaxRunDurationMs and MaxActionCPUMs are declared here but, per spec,
// enforced by surrounding infrastructure rather than this package.
type SandboxLimits struct {
	MaxActionsPerRun int
	MaxRunDurationMs int
	MaxActionCPUMs   int
}

// DefaultSandboxLimits returns {20, 2000, 200}.
func DefaultSandboxLimits() SandboxLimits {
	return SandboxLimits{MaxActionsPerRun: 20, MaxRunDurationMs: 2000, MaxActionCPUMs: 200}
}

// Violation records one rejected sandbox check, mirroring the teacher's
// PolicyViolation shape.
type Violation struct {
	Kind      string
	Detail    string
	Timestamp time.Time
}

// Enforcer accumulates Violations for audit while delegating the actual
// pass/fail decision to the package-level Enforce* functions.
type Enforcer struct {
	mu         sync.Mutex
	violations []Violation
	clock      func() time.Time
}

func NewEnforcer() *Enforcer {
	return &Enforcer{clock: time.Now}
}

func (e *Enforcer) record(kind, detail string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.violations = append(e.violations, Violation{Kind: kind, Detail: detail, Timestamp: e.clock()})
}

func (e *Enforcer) Violations() []Violation {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Violation, len(e.violations))
	copy(out, e.violations)
	return out
}

// EnforceFileSandbox implements §4.3's file-URI confinement.
func (e *Enforcer) EnforceFileSandbox(uri string, perms manifest.PermissionSet) *runtimeerr.RuntimeError {
	if !strings.HasPrefix(uri, "sandbox://") {
		e.record("FILE_SCHEME", uri)
		return runtimeerr.SandboxViolation("uri must begin with sandbox://")
	}
	// Deliberate over-approximation: substring check, not path parsing.
	if strings.Contains(uri, "..") {
		e.record("FILE_TRAVERSAL", uri)
		return runtimeerr.SandboxViolation("path traversal not allowed")
	}
	if perms.FileAccess == nil {
		e.record("FILE_PERMISSION_MISSING", uri)
		return runtimeerr.PermissionDenied(runtimeerr.CodeFilePermissionRequired, "file_access permission not declared")
	}
	for _, root := range perms.FileAccess.Roots {
		if strings.HasPrefix(uri, root) {
			return nil
		}
	}
	e.record("FILE_OUTSIDE_ROOTS", uri)
	return runtimeerr.SandboxViolation("uri outside allowed roots")
}

// EnforceNetworkAllowlist implements §4.3's network allowlist + call budget.
// callIndex is zero-based, so maxCalls is an exclusive upper bound.
func (e *Enforcer) EnforceNetworkAllowlist(rawURL string, callIndex int, perms manifest.PermissionSet) *runtimeerr.RuntimeError {
	if perms.NetworkRequest == nil {
		e.record("NETWORK_PERMISSION_MISSING", rawURL)
		return runtimeerr.PermissionDenied(runtimeerr.CodeNetworkPermissionRequired, "network_request permission not declared")
	}
	if callIndex >= int(perms.NetworkRequest.MaxCalls) {
		e.record("NETWORK_CALL_BUDGET", rawURL)
		return runtimeerr.SandboxViolation("max_calls exceeded")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		e.record("NETWORK_URL_INVALID", rawURL)
		return runtimeerr.SandboxViolation("invalid url")
	}
	host := u.Hostname()
	for _, domain := range perms.NetworkRequest.Domains {
		if host == domain {
			return nil
		}
	}
	e.record("NETWORK_DOMAIN_NOT_ALLOWED", host)
	return runtimeerr.SandboxViolation("host not in allowed domains")
}

// ValidateActionBudget implements §4.3's action-count budget.
func ValidateActionBudget(count int, limits SandboxLimits) *runtimeerr.RuntimeError {
	if count > limits.MaxActionsPerRun {
		return runtimeerr.SandboxViolation("action count exceeds max_actions_per_run")
	}
	return nil
}

// NewActionPacer backs the declared-but-core-unenforced MaxRunDurationMs /
// MaxActionCPUMs budget with a real token-bucket pace limiter: one token
// per MaxActionCPUMs, burst sized to MaxActionsPerRun. pkg/executor does not
// use it; ExecuteRecipe never blocks on a limiter, keeping the spec's
// synchronous, non-suspending control flow.
func NewActionPacer(limits SandboxLimits) *rate.Limiter {
	perAction := time.Duration(limits.MaxActionCPUMs) * time.Millisecond
	if perAction <= 0 {
		perAction = time.Millisecond
	}
	return rate.NewLimiter(rate.Every(perAction), limits.MaxActionsPerRun)
}
