// Package versioncheck enforces a manifest's min_runtime_version against
// the runtime actually executing it.
package versioncheck

import (
	"github.com/Masterminds/semver/v3"

	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// CheckMinRuntimeVersion returns a SchemaValidation error if
// minRuntimeVersion fails to parse as semver, and a Connector error if
// runtimeVersion fails to parse or is lower than minRuntimeVersion.
// An empty minRuntimeVersion is treated as "no
// constraint" (manifests authored before this field existed still load).
func CheckMinRuntimeVersion(minRuntimeVersion, runtimeVersion string) *runtimeerr.RuntimeError {
	if minRuntimeVersion == "" {
		return nil
	}
	min, err := semver.NewVersion(minRuntimeVersion)
	if err != nil {
		return runtimeerr.SchemaValidation("manifest min_runtime_version is not valid semver: " + err.Error())
	}
	running, err := semver.NewVersion(runtimeVersion)
	if err != nil {
		return runtimeerr.Connector("runtime version is not valid semver: " + err.Error())
	}
	if running.LessThan(min) {
		return runtimeerr.Connector("recipe requires runtime " + minRuntimeVersion + ", running " + runtimeVersion)
	}
	return nil
}
