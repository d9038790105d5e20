package meta_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metafields/pkg/meta"
	"github.com/goliatone/go-metafields/pkg/widgets"
)

func TestToRegistrationArgs(t *testing.T) {
	d := meta.MustNew(meta.Options{
		Key:           "test_key",
		ObjectSubtype: "page",
		DataType:      meta.DataTypeString,
		Description:   "Test description",
		Default:       "default_value",
	})

	want := meta.RegistrationArgs{
		"type":        "string",
		"description": "Test description",
		"single":      true,
		"default":     "default_value",
		"show_in_rest": map[string]any{
			"schema": map[string]any{
				"type":        "string",
				"description": "Test description",
				"default":     "default_value",
			},
		},
		"object_subtype": "page",
	}
	if diff := cmp.Diff(want, d.ToRegistrationArgs()); diff != "" {
		t.Fatalf("registration args mismatch (-want +got):\n%s", diff)
	}
}

func TestToRegistrationArgs_SubtypePresence(t *testing.T) {
	withSubtype := meta.MustNew(meta.Options{Key: "a", ObjectSubtype: "project"}).ToRegistrationArgs()
	if _, ok := withSubtype[meta.ArgObjectSubtype]; !ok {
		t.Fatalf("expected object_subtype when subtype declared")
	}

	withoutSubtype := meta.MustNew(meta.Options{Key: "a"}).ToRegistrationArgs()
	if _, ok := withoutSubtype[meta.ArgObjectSubtype]; ok {
		t.Fatalf("object_subtype must be absent when no subtype declared, got %#v", withoutSubtype)
	}
}

func TestToRegistrationArgs_HiddenFromRest(t *testing.T) {
	args := meta.MustNew(meta.Options{Key: "private_key", ShowInRest: meta.Bool(false)}).ToRegistrationArgs()
	if args[meta.ArgShowInRest] != false {
		t.Fatalf("expected show_in_rest false, got %#v", args[meta.ArgShowInRest])
	}
}

func TestToRestSchemaVisibility(t *testing.T) {
	hidden := meta.MustNew(meta.Options{
		Key:         "private_key",
		DataType:    meta.DataTypeInteger,
		Description: "ignored",
		ShowInRest:  meta.Bool(false),
	}).ToRestSchemaVisibility()
	if hidden.Visible || hidden.Value() != false {
		t.Fatalf("expected hidden visibility, got %#v", hidden)
	}
	payload, err := json.Marshal(hidden)
	if err != nil {
		t.Fatalf("marshal hidden: %v", err)
	}
	if string(payload) != "false" {
		t.Fatalf("hidden should marshal to false, got %s", payload)
	}

	visible := meta.MustNew(meta.Options{
		Key:         "count",
		DataType:    meta.DataTypeInteger,
		Default:     42,
		Description: "A number",
	}).ToRestSchemaVisibility()
	want := meta.SchemaFragment{Type: meta.DataTypeInteger, Description: "A number", Default: 42}
	if diff := cmp.Diff(want, visible.Schema); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
	payload, err = json.Marshal(visible)
	if err != nil {
		t.Fatalf("marshal visible: %v", err)
	}
	if got := string(payload); got != `{"schema":{"type":"integer","description":"A number","default":42}}` {
		t.Fatalf("unexpected visible payload: %s", got)
	}
}

func TestToUiConfig_ProjectStatusExample(t *testing.T) {
	d := meta.MustNew(meta.Options{
		Key:      "project_status",
		DataType: meta.DataTypeString,
		Label:    "Status",
		Default:  "draft",
		Options:  meta.Choices{{Value: "draft", Label: "Draft"}, {Value: "published", Label: "Published"}},
	})

	want := meta.UIConfig{
		Key:       "project_status",
		Label:     "Status",
		Type:      meta.DataTypeString,
		InputType: widgets.WidgetSelect,
		Options:   meta.Choices{{Value: "draft", Label: "Draft"}, {Value: "published", Label: "Published"}},
		Default:   "draft",
	}
	got := d.ToUiConfig()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ui config mismatch (-want +got):\n%s", diff)
	}

	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal ui config: %v", err)
	}
	wantJSON := `{"key":"project_status","label":"Status","description":"","type":"string","inputType":"select","options":{"draft":"Draft","published":"Published"},"default":"draft"}`
	if string(payload) != wantJSON {
		t.Fatalf("unexpected json:\nwant %s\n got %s", wantJSON, payload)
	}
}

func TestToUiConfig_InputTypeInference(t *testing.T) {
	choices := meta.Choices{{Value: "a", Label: "A"}, {Value: "b", Label: "B"}}

	cases := []struct {
		name     string
		dataType meta.DataType
		options  meta.Choices
		explicit string
		want     string
	}{
		{name: "string", dataType: meta.DataTypeString, want: "text"},
		{name: "integer", dataType: meta.DataTypeInteger, want: "number"},
		{name: "number", dataType: meta.DataTypeNumber, want: "number"},
		{name: "boolean", dataType: meta.DataTypeBoolean, want: "checkbox"},
		{name: "array", dataType: meta.DataTypeArray, want: "tags"},
		{name: "string options", dataType: meta.DataTypeString, options: choices, want: "select"},
		{name: "integer options", dataType: meta.DataTypeInteger, options: choices, want: "select"},
		{name: "boolean options", dataType: meta.DataTypeBoolean, options: choices, want: "select"},
		{name: "array options", dataType: meta.DataTypeArray, options: choices, want: "select"},
		{name: "explicit beats options", dataType: meta.DataTypeString, options: choices, explicit: "color", want: "color"},
		{name: "explicit beats type", dataType: meta.DataTypeBoolean, explicit: "toggle", want: "toggle"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d := meta.MustNew(meta.Options{Key: "field", DataType: tc.dataType, Options: tc.options, InputType: tc.explicit})
			if got := d.ToUiConfig().InputType; got != tc.want {
				t.Fatalf("input type: want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestToUiConfig_LabelFallbackAndEmptyOptions(t *testing.T) {
	cfg := meta.MustNew(meta.Options{Key: "user_department"}).ToUiConfig()
	if cfg.Label != "User Department" {
		t.Fatalf("label fallback: want %q, got %q", "User Department", cfg.Label)
	}
	if cfg.Options == nil || len(cfg.Options) != 0 {
		t.Fatalf("expected empty non-nil options, got %#v", cfg.Options)
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(map[string]any{}, decoded["options"]); diff != "" {
		t.Fatalf("options should serialise as an empty object (-want +got):\n%s", diff)
	}
}

func TestToUiConfigWith_CustomResolver(t *testing.T) {
	reg := widgets.NewEmptyRegistry()
	reg.Register("multiselect", 10, func(field widgets.Field) bool {
		return field.Type == "array" && field.OptionCount > 0
	})

	tags := meta.MustNew(meta.Options{Key: "tags", DataType: meta.DataTypeArray, Options: meta.Choices{{Value: "x", Label: "X"}}})
	if got := tags.ToUiConfigWith(reg).InputType; got != "multiselect" {
		t.Fatalf("custom resolver: want multiselect, got %q", got)
	}

	plain := meta.MustNew(meta.Options{Key: "flag", DataType: meta.DataTypeBoolean})
	if got := plain.ToUiConfigWith(reg).InputType; got != "checkbox" {
		t.Fatalf("fallback to built-in inference: want checkbox, got %q", got)
	}
	if got := plain.ToUiConfigWith(nil).InputType; got != "checkbox" {
		t.Fatalf("nil resolver: want checkbox, got %q", got)
	}
}
