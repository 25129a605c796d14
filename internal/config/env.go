package config

import (
	"os"
	"sort"
)

// EffectiveEnv computes the final environment for a spawned service:
// parent process environment, overlaid by the service's own merged env map
// (already dotenv ⊕ per-service), later wins. The result is returned as a
// sorted "KEY=VALUE" slice suitable for exec.Cmd.Env.
func EffectiveEnv(spec ServiceSpec) []string {
	merged := make(map[string]string, len(spec.Env)+16)
	for _, kv := range os.Environ() {
		k, v := splitEnv(kv)
		merged[k] = v
	}
	for k, v := range spec.Env {
		merged[k] = v
	}

	out := make([]string, 0, len(merged))
	for k, v := range merged {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

func splitEnv(kv string) (string, string) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:]
		}
	}
	return kv, ""
}
