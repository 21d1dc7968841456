package smmapi

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/smmpanel/smm-client/internal/core/domain"
)

// messageFields is the order in which error bodies are searched for a
// user-facing message.
var messageFields = []string{"error", "errors", "message", "detail", "non_field_errors"}

// ExtractMessage picks the user-facing message out of an error body. Objects
// and arrays are flattened and joined; an empty or unusable body yields
// domain.DefaultErrorMessage.
func ExtractMessage(body json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return domain.DefaultErrorMessage
	}
	for _, name := range messageFields {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if msg := flatten(raw); msg != "" {
			return msg
		}
	}
	return domain.DefaultErrorMessage
}

func flatten(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return strings.Join(collect(v), ", ")
}

// collect walks a decoded JSON value and returns its leaf strings. Object keys
// are visited in sorted order so the joined message is stable.
func collect(v any) []string {
	switch t := v.(type) {
	case nil, bool:
		return nil
	case float64:
		if t == 0 {
			return nil
		}
		return []string{fmt.Sprint(t)}
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
		return nil
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, collect(item)...)
		}
		return out
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, collect(t[k])...)
		}
		return out
	default:
		return []string{fmt.Sprint(t)}
	}
}
