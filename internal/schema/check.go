package schema

import (
	"fmt"
	"math"
	"sort"

	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/tidwall/gjson"
)

// Violation is one structural mismatch between a document and its contract
type Violation struct {
	Path   string `json:"path"` // $.dimensions.team.score
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// Check walks doc against def and returns every violation found.
// Object keys are visited in sorted order so the output is deterministic.
func Check(def jsonschema.Definition, doc gjson.Result) []Violation {
	var out []Violation
	check(def, doc, "$", &out)
	return out
}

func check(def jsonschema.Definition, v gjson.Result, path string, out *[]Violation) {
	add := func(format string, args ...interface{}) {
		*out = append(*out, Violation{Path: path, Reason: fmt.Sprintf(format, args...)})
	}

	switch def.Type {
	case jsonschema.Object:
		if !v.IsObject() {
			add("expected object, got %s", kind(v))
			return
		}
		checkObject(def, v, path, out)

	case jsonschema.Array:
		if !v.IsArray() {
			add("expected array, got %s", kind(v))
			return
		}
		if def.Items == nil {
			return
		}
		for i, item := range v.Array() {
			check(*def.Items, item, fmt.Sprintf("%s[%d]", path, i), out)
		}

	case jsonschema.Number:
		if v.Type != gjson.Number {
			add("expected number, got %s", kind(v))
		}

	case jsonschema.Integer:
		if v.Type != gjson.Number {
			add("expected integer, got %s", kind(v))
		} else if f := v.Float(); f != math.Trunc(f) {
			add("expected integer, got %v", f)
		}

	case jsonschema.String:
		if v.Type != gjson.String {
			add("expected string, got %s", kind(v))
			return
		}
		if len(def.Enum) > 0 && !contains(def.Enum, v.String()) {
			add("value %q not in %v", v.String(), def.Enum)
		}

	case jsonschema.Boolean:
		if v.Type != gjson.True && v.Type != gjson.False {
			add("expected boolean, got %s", kind(v))
		}
	}
}

func checkObject(def jsonschema.Definition, v gjson.Result, path string, out *[]Violation) {
	present := make(map[string]gjson.Result)
	var duplicates []string
	v.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if _, ok := present[name]; ok {
			if !contains(duplicates, name) {
				duplicates = append(duplicates, name)
			}
			return true
		}
		present[name] = value
		return true
	})

	// Decoders disagree on which copy of a repeated key wins
	sort.Strings(duplicates)
	for _, name := range duplicates {
		*out = append(*out, Violation{Path: path + "." + name, Reason: "duplicate field"})
	}

	required := append([]string(nil), def.Required...)
	sort.Strings(required)
	for _, name := range required {
		if _, ok := present[name]; !ok {
			*out = append(*out, Violation{Path: path + "." + name, Reason: "missing required field"})
		}
	}

	if Closed(def) {
		unknown := make([]string, 0)
		for name := range present {
			if _, ok := def.Properties[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		for _, name := range unknown {
			*out = append(*out, Violation{Path: path + "." + name, Reason: "unexpected field"})
		}
	}

	for _, name := range sortedKeys(def.Properties) {
		value, ok := present[name]
		if !ok {
			continue
		}
		check(def.Properties[name], value, path+"."+name, out)
	}
}

func kind(v gjson.Result) string {
	switch {
	case !v.Exists():
		return "nothing"
	case v.IsObject():
		return "object"
	case v.IsArray():
		return "array"
	}
	switch v.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	return "unknown"
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
