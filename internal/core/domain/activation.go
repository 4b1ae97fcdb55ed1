package domain

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
)

// Environment variables derived for router activations.
const (
	EnvAPIKey    = "ANTHROPIC_API_KEY"
	EnvAuthToken = "ANTHROPIC_AUTH_TOKEN"
	EnvBaseURL   = "ANTHROPIC_BASE_URL"
)

// fallbackAuthToken is exported when a router config carries no usable APIKEY.
const fallbackAuthToken = "test"

// EnvAssignment is one environment variable to export during activation.
type EnvAssignment struct {
	Name  string
	Value string
}

// ActivationPlan is the full set of side effects activating an entry
// requires. Building a plan performs no I/O; applying it is the
// ActivationService's job, which keeps the derivation testable without
// touching the real environment.
type ActivationPlan struct {
	Entry ConfigEntry

	// Env is exported before anything else runs; Unset names variables
	// cleared at the same time so stale credentials from an earlier
	// activation cannot leak into the new session.
	Env   []EnvAssignment
	Unset []string

	// CopyTarget is where the entry's file is installed as the active
	// configuration. An existing target is backed up first when
	// BackupTarget is set.
	CopyTarget   string
	BackupTarget bool

	// Restart requests a router daemon restart after the copy.
	Restart bool
}

// BuildActivationPlan derives the activation side effects for an entry.
// claudeDir and routerDir are the directories holding the active
// settings.json and config.json respectively.
func BuildActivationPlan(entry ConfigEntry, claudeDir, routerDir string) (ActivationPlan, error) {
	plan := ActivationPlan{Entry: entry}

	switch entry.Kind {
	case KindRouter:
		env, unset, err := routerEnv(entry.RawFields)
		if err != nil {
			return ActivationPlan{}, err
		}
		plan.Env = env
		plan.Unset = unset
		plan.CopyTarget = filepath.Join(routerDir, "config.json")
		plan.Restart = true

	default:
		plan.Env = claudeEnv(entry.RawFields)
		plan.CopyTarget = filepath.Join(claudeDir, "settings.json")
		plan.BackupTarget = true
	}

	return plan, nil
}

// claudeEnv collects the string pairs of the entry's "env" object, sorted by
// name for deterministic application. A missing or malformed object yields no
// assignments; Claude settings without env overrides are legitimate.
func claudeEnv(fields map[string]interface{}) []EnvAssignment {
	obj, ok := fields["env"].(map[string]interface{})
	if !ok {
		return nil
	}

	env := make([]EnvAssignment, 0, len(obj))
	for name, value := range obj {
		if s, ok := value.(string); ok {
			env = append(env, EnvAssignment{Name: name, Value: s})
		}
	}

	sort.Slice(env, func(i, j int) bool { return env[i].Name < env[j].Name })
	return env
}

// routerEnv derives the Anthropic variables from a router config. Exactly one
// of ANTHROPIC_API_KEY / ANTHROPIC_AUTH_TOKEN is produced: the key when
// APIKEY is present and non-empty, the "test" token otherwise; the other is
// unset. A missing PORT fails the whole plan so that nothing is exported for
// a broken config.
func routerEnv(fields map[string]interface{}) ([]EnvAssignment, []string, error) {
	port, err := portField(fields)
	if err != nil {
		return nil, nil, err
	}

	var env []EnvAssignment
	var unset []string
	if key, ok := fields["APIKEY"].(string); ok && key != "" {
		env = append(env, EnvAssignment{Name: EnvAPIKey, Value: key})
		unset = append(unset, EnvAuthToken)
	} else {
		env = append(env, EnvAssignment{Name: EnvAuthToken, Value: fallbackAuthToken})
		unset = append(unset, EnvAPIKey)
	}

	env = append(env, EnvAssignment{
		Name:  EnvBaseURL,
		Value: fmt.Sprintf("http://127.0.0.1:%s", port),
	})

	return env, unset, nil
}

// portField reads PORT, which router configs store either as a string or a
// JSON number.
func portField(fields map[string]interface{}) (string, error) {
	switch v := fields["PORT"].(type) {
	case string:
		if v != "" {
			return v, nil
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", &MissingFieldError{Field: "PORT"}
}
