package meta

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Choice is a single option-value/option-label pair.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Choices is an ordered mapping from option value to option label. It
// serialises as a JSON/YAML object whose keys keep declaration order.
type Choices []Choice

// Labels returns the option labels keyed by value.
func (c Choices) Labels() map[string]string {
	out := make(map[string]string, len(c))
	for _, choice := range c {
		out[choice.Value] = choice.Label
	}
	return out
}

// Values returns the option values in declaration order.
func (c Choices) Values() []string {
	out := make([]string, len(c))
	for idx, choice := range c {
		out[idx] = choice.Value
	}
	return out
}

// Has reports whether value is one of the declared options.
func (c Choices) Has(value string) bool {
	for _, choice := range c {
		if choice.Value == value {
			return true
		}
	}
	return false
}

func (c Choices) clone() Choices {
	return append(Choices{}, c...)
}

// MarshalJSON emits an ordered JSON object. Nil and empty Choices both
// serialise as {} so frontends can rely on an object.
func (c Choices) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for idx, choice := range c {
		if idx > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(choice.Value)
		if err != nil {
			return nil, err
		}
		label, err := json.Marshal(choice.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(label)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of string labels while preserving key order.
func (c *Choices) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*c = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("meta: options must be an object of value to label")
	}
	out := Choices{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var label any
		if err := dec.Decode(&label); err != nil {
			return err
		}
		text, err := labelString(key, label)
		if err != nil {
			return err
		}
		out = append(out, Choice{Value: key, Label: text})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*c = out
	return nil
}

// MarshalYAML emits a mapping node so YAML output keeps declaration order.
func (c Choices) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, choice := range c {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: choice.Value},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: choice.Label},
		)
	}
	return node, nil
}

// UnmarshalYAML reads a mapping of scalar labels while preserving key order.
func (c *Choices) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*c = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("meta: options must be a mapping of value to label (line %d)", node.Line)
	}
	out := make(Choices, 0, len(node.Content)/2)
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		keyNode, valueNode := node.Content[idx], node.Content[idx+1]
		if keyNode.Kind != yaml.ScalarNode || valueNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("meta: options entry must be a scalar pair (line %d)", keyNode.Line)
		}
		out = append(out, Choice{Value: keyNode.Value, Label: valueNode.Value})
	}
	*c = out
	return nil
}

func labelString(key string, label any) (string, error) {
	switch v := label.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("meta: option %q label must be a scalar", key)
	}
}
