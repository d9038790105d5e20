package meta_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-metafields/pkg/meta"
)

func TestChoices_PreservesDeclarationOrder(t *testing.T) {
	want := meta.Choices{
		{Value: "zeta", Label: "Zeta"},
		{Value: "alpha", Label: "Alpha"},
		{Value: "mid", Label: "Middle"},
	}

	var fromJSON meta.Choices
	if err := json.Unmarshal([]byte(`{"zeta":"Zeta","alpha":"Alpha","mid":"Middle"}`), &fromJSON); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json order mismatch (-want +got):\n%s", diff)
	}

	var fromYAML meta.Choices
	if err := yaml.Unmarshal([]byte("zeta: Zeta\nalpha: Alpha\nmid: Middle\n"), &fromYAML); err != nil {
		t.Fatalf("unmarshal yaml: %v", err)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml order mismatch (-want +got):\n%s", diff)
	}

	payload, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(payload) != `{"zeta":"Zeta","alpha":"Alpha","mid":"Middle"}` {
		t.Fatalf("unexpected json: %s", payload)
	}
}

func TestChoices_RejectsNonObject(t *testing.T) {
	var c meta.Choices
	if err := json.Unmarshal([]byte(`["a","b"]`), &c); err == nil {
		t.Fatalf("expected error for array options")
	}
	if err := json.Unmarshal([]byte(`{"a":{"nested":true}}`), &c); err == nil {
		t.Fatalf("expected error for nested label")
	}
	if err := yaml.Unmarshal([]byte("- a\n- b\n"), &c); err == nil {
		t.Fatalf("expected error for yaml sequence options")
	}
}

func TestChoices_Helpers(t *testing.T) {
	c := meta.Choices{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}
	if !c.Has("a") || c.Has("c") {
		t.Fatalf("unexpected Has results")
	}
	if diff := cmp.Diff([]string{"a", "b"}, c.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"a": "A", "b": "B"}, c.Labels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}
