// Package config resolves a pmo.yml descriptor plus an optional .env file
// into a normalized, ordered list of ServiceSpec values, supporting both
// the string shorthand and the detailed mapping form a service entry can
// take.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmo-project/pmo/internal/pmoerr"
	yaml "gopkg.in/yaml.v2"
)

// Reserved is the top-level key that cannot be used as a service name; it
// doubles as the default state-directory and binary name.
const Reserved = "pmo"

// ServiceSpec is the normalized declaration of one service.
type ServiceSpec struct {
	Name string
	Cmd  string
	Cwd  string
	Env  map[string]string
}

// rawEntry is the detailed-form shape of a descriptor value; Script is the
// legacy alias for Cmd (original_source/pmo/service.py:_load_config).
type rawEntry struct {
	Cmd    string            `yaml:"cmd"`
	Script string            `yaml:"script"`
	Cwd    string            `yaml:"cwd"`
	Env    map[string]string `yaml:"env"`
}

// Warning is a non-fatal note produced while normalizing the descriptor,
// e.g. a reserved or malformed entry being dropped.
type Warning struct {
	Name   string
	Reason string
}

// Load reads descPath, and if present, the .env file next to it, and
// returns the normalized, descriptor-order service list. Order is
// preserved because numeric CLI ids are assigned by iteration order.
func Load(descPath string) ([]ServiceSpec, []Warning, error) {
	b, err := os.ReadFile(descPath)
	if err != nil {
		return nil, nil, &pmoerr.ConfigError{Path: descPath, Reason: err.Error()}
	}

	var top yaml.MapSlice
	if err := yaml.Unmarshal(b, &top); err != nil {
		return nil, nil, &pmoerr.ConfigError{Path: descPath, Reason: "not a valid YAML mapping: " + err.Error()}
	}

	descDir := filepath.Dir(descPath)
	dotenv, _ := LoadDotenv(filepath.Join(descDir, ".env")) // missing dotenv is silently skipped

	specs := make([]ServiceSpec, 0, len(top))
	var warnings []Warning
	seen := make(map[string]bool, len(top))

	for _, item := range top {
		name, ok := item.Key.(string)
		if !ok {
			warnings = append(warnings, Warning{Reason: fmt.Sprintf("non-string key %v skipped", item.Key)})
			continue
		}
		if strings.EqualFold(name, Reserved) {
			warnings = append(warnings, Warning{Name: name, Reason: "reserved name, skipped"})
			continue
		}
		if seen[name] {
			warnings = append(warnings, Warning{Name: name, Reason: "duplicate name, first definition wins"})
			continue
		}

		spec, warn, ok := normalizeEntry(name, item.Value)
		if !ok {
			warnings = append(warnings, Warning{Name: name, Reason: warn})
			continue
		}
		spec.Env = mergedEnv(dotenv, spec.Env)
		spec.Cwd = resolveCwd(descDir, spec.Cwd)
		specs = append(specs, spec)
		seen[name] = true
	}
	return specs, warnings, nil
}

// normalizeEntry turns a raw descriptor value into a ServiceSpec: strings
// become {cmd: <string>}, mappings are read for cmd|script/cwd/env,
// anything else is dropped.
func normalizeEntry(name string, raw interface{}) (ServiceSpec, string, bool) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return ServiceSpec{}, "empty command", false
		}
		return ServiceSpec{Name: name, Cmd: v}, "", true
	case yaml.MapSlice:
		entry := mapSliceToEntry(v)
		cmd := entry.Cmd
		if cmd == "" {
			cmd = entry.Script
		}
		if cmd == "" {
			return ServiceSpec{}, "detailed form missing cmd/script", false
		}
		return ServiceSpec{Name: name, Cmd: cmd, Cwd: entry.Cwd, Env: entry.Env}, "", true
	default:
		return ServiceSpec{}, "invalid configuration, skipping", false
	}
}

// mapSliceToEntry reads the known keys out of an ordered mapping and
// ignores anything else; unknown keys in detailed form are not an error.
func mapSliceToEntry(ms yaml.MapSlice) rawEntry {
	var e rawEntry
	e.Env = make(map[string]string)
	for _, item := range ms {
		key, _ := item.Key.(string)
		switch key {
		case "cmd":
			e.Cmd, _ = item.Value.(string)
		case "script":
			e.Script, _ = item.Value.(string)
		case "cwd":
			e.Cwd, _ = item.Value.(string)
		case "env":
			if sub, ok := item.Value.(yaml.MapSlice); ok {
				for _, kv := range sub {
					k, _ := kv.Key.(string)
					v := fmt.Sprintf("%v", kv.Value)
					if k != "" {
						e.Env[k] = v
					}
				}
			}
		}
	}
	return e
}

func resolveCwd(descDir, cwd string) string {
	if cwd == "" {
		return ""
	}
	if filepath.IsAbs(cwd) {
		return cwd
	}
	return filepath.Join(descDir, cwd)
}

// mergedEnv layers the dotenv file under the service's own env map; the
// caller later layers this over the parent process environment, so the
// final precedence is parent ⊕ dotenv ⊕ service, later wins.
func mergedEnv(dotenv *Dotenv, specEnv map[string]string) map[string]string {
	out := make(map[string]string, len(specEnv)+8)
	if dotenv != nil {
		for _, kv := range dotenv.Pairs {
			out[kv.Key] = kv.Value
		}
	}
	for k, v := range specEnv {
		out[k] = v
	}
	return out
}
