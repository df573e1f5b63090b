package bridge

import (
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// namespaceParam is the parameter name some OpenShift tools declare out of
// the expected first-argument position in their schema.
const namespaceParam = "namespace"

// AdaptArguments reconciles the agent runtime's calling convention against a
// tool's declared parameter list, producing the single argument mapping sent
// to the remote tool. It is pure: same inputs always produce the same output.
//
// Priority order:
//  1. Keyword arguments are taken verbatim.
//  2. A single positional argument that behaves as a mapping is merged in;
//     explicit keyword arguments win on key conflicts.
//  3. Otherwise positional arguments are mapped to parameter names by declared
//     order. Tools whose name contains "namespace" and declare a "namespace"
//     parameter bind the first positional argument to it regardless of its
//     declared position.
//  4. Excess positional arguments beyond the parameter count are dropped with
//     a warning, never an error.
func AdaptArguments(
	logger hclog.Logger,
	toolName string,
	params []Param,
	positional []any,
	keyword map[string]any,
) map[string]any {
	combined := make(map[string]any, len(keyword)+len(positional))
	maps.Copy(combined, keyword)

	if len(positional) == 0 {
		return combined
	}

	if len(positional) == 1 {
		if entries, ok := asMapping(positional[0]); ok {
			for k, v := range entries {
				if _, exists := combined[k]; exists {
					// Explicit keyword arguments take precedence.
					continue
				}
				combined[k] = v
			}
			return combined
		}
	}

	if len(params) == 0 {
		logger.Warn("No schema available to map positional arguments", "tool", toolName, "count", len(positional))
		return combined
	}

	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Name)
	}

	if strings.Contains(toolName, namespaceParam) && slices.Contains(names, namespaceParam) {
		combined[namespaceParam] = positional[0]
		remaining := make([]string, 0, len(names)-1)
		for _, n := range names {
			if n != namespaceParam {
				remaining = append(remaining, n)
			}
		}
		assignPositional(logger, toolName, combined, remaining, positional[1:])
		return combined
	}

	assignPositional(logger, toolName, combined, names, positional)

	return combined
}

func assignPositional(logger hclog.Logger, toolName string, combined map[string]any, names []string, values []any) {
	for i, v := range values {
		if i >= len(names) {
			logger.Warn("Dropping excess positional argument", "tool", toolName, "index", i)
			continue
		}
		combined[names[i]] = v
	}
}

// asMapping reports whether v behaves as a string-keyed mapping, returning its
// entries if so.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}

	out := make(map[string]any, rv.Len())
	for _, key := range rv.MapKeys() {
		out[key.String()] = rv.MapIndex(key).Interface()
	}
	return out, true
}
