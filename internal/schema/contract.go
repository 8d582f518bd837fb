// Package schema builds the machine-checkable contract an evaluation response
// must satisfy and checks raw responses against it.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/ppiankov/ideajudge/internal/model"
)

// Fields are extra top-level properties contributed by a rubric policy.
// Every extra field is required.
type Fields map[string]jsonschema.Definition

// Str is a plain string property
func Str(description string) jsonschema.Definition {
	return jsonschema.Definition{Type: jsonschema.String, Description: description}
}

// StrList is an array of strings
func StrList(description string) jsonschema.Definition {
	return jsonschema.Definition{
		Type:        jsonschema.Array,
		Description: description,
		Items:       &jsonschema.Definition{Type: jsonschema.String},
	}
}

// Object builds an object whose properties are all required
func Object(description string, props map[string]jsonschema.Definition) jsonschema.Definition {
	return jsonschema.Definition{
		Type:        jsonschema.Object,
		Description: description,
		Properties:  props,
		Required:    sortedKeys(props),
	}
}

// ObjectList is an array of objects whose properties are all required
func ObjectList(description string, props map[string]jsonschema.Definition) jsonschema.Definition {
	item := Object("", props)
	return jsonschema.Definition{
		Type:        jsonschema.Array,
		Description: description,
		Items:       &item,
	}
}

// Dimension is the contract for one dimension assessment.
// bridgeStrategy is optional; the rest are required.
func Dimension() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"score":          {Type: jsonschema.Number, Description: "本维度得分"},
			"maxScore":       {Type: jsonschema.Number, Description: "本维度满分"},
			"scoringPoints":  StrList("得分点"),
			"weakness":       Str("短板"),
			"improvement":    Str("改进建议"),
			"bridgeStrategy": Str("非天然优势维度的桥接策略"),
		},
		Required: []string{"score", "maxScore", "scoringPoints", "weakness", "improvement"},
	}
}

// Dimensions is the closed five-key dimension object
func Dimensions() jsonschema.Definition {
	props := make(map[string]jsonschema.Definition, len(model.DimensionKeys))
	required := make([]string, 0, len(model.DimensionKeys))
	for _, key := range model.DimensionKeys {
		d := Dimension()
		d.Description = key.Label()
		props[string(key)] = d
		required = append(required, string(key))
	}
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           props,
		Required:             required,
		AdditionalProperties: false,
	}
}

// Pivots is the topic pivot list
func Pivots() jsonschema.Definition {
	return ObjectList("选题升维建议", map[string]jsonschema.Definition{
		"newTitle":  Str("新题名"),
		"logic":     Str("升维逻辑"),
		"potential": Str("获奖潜力"),
	})
}

// Build returns the top-level response contract with the policy's extra fields merged in
func Build(extra Fields) jsonschema.Definition {
	props := map[string]jsonschema.Definition{
		"overallScore":  {Type: jsonschema.Number, Description: "总分 0-100"},
		"dimensions":    Dimensions(),
		"topicPivots":   Pivots(),
		"expertComment": Str("专家总评"),
	}
	for name, def := range extra {
		props[name] = def
	}
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: props,
		Required:   sortedKeys(props),
	}
}

// JSON renders the contract as a JSON Schema document for providers
// that take the schema as text.
func JSON(def jsonschema.Definition) ([]byte, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

// Closed reports whether the object rejects unknown properties
func Closed(def jsonschema.Definition) bool {
	b, ok := def.AdditionalProperties.(bool)
	return ok && !b
}

func sortedKeys(m map[string]jsonschema.Definition) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
