package meta_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metafields/pkg/meta"
)

func TestNew_AppliesDefaults(t *testing.T) {
	d, err := meta.New(meta.Options{Key: "test_key"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if d.Key() != "test_key" {
		t.Fatalf("key: want test_key, got %q", d.Key())
	}
	if d.ObjectType() != meta.ObjectTypePost {
		t.Fatalf("object type: want post, got %q", d.ObjectType())
	}
	if subtype, ok := d.ObjectSubtype(); ok || subtype != "" {
		t.Fatalf("expected no subtype, got %q", subtype)
	}
	if d.DataType() != meta.DataTypeString {
		t.Fatalf("data type: want string, got %q", d.DataType())
	}
	if !d.Single() || !d.ShowInRest() || !d.ShowInEditor() {
		t.Fatalf("expected single/showInRest/showInEditor to default to true")
	}
	if d.Description() != "" {
		t.Fatalf("expected empty description, got %q", d.Description())
	}
	if _, ok := d.InputType(); ok {
		t.Fatalf("expected no explicit input type")
	}
}

func TestNew_CustomOptions(t *testing.T) {
	d := meta.MustNew(meta.Options{
		Key:           "project_status",
		ObjectType:    meta.ObjectTypePost,
		ObjectSubtype: "project",
		DataType:      meta.DataTypeString,
		Label:         "Status",
		Description:   "Project status",
		Default:       "draft",
		Single:        meta.Bool(true),
		ShowInRest:    meta.Bool(true),
		ShowInEditor:  meta.Bool(false),
		InputType:     "select",
		Options:       meta.Choices{{Value: "draft", Label: "Draft"}, {Value: "published", Label: "Published"}},
	})

	if subtype, ok := d.ObjectSubtype(); !ok || subtype != "project" {
		t.Fatalf("subtype: want project, got %q (ok=%v)", subtype, ok)
	}
	if d.Label() != "Status" || d.Default() != "draft" {
		t.Fatalf("unexpected label/default: %q %v", d.Label(), d.Default())
	}
	if d.ShowInEditor() {
		t.Fatalf("expected showInEditor false")
	}
	if input, ok := d.InputType(); !ok || input != "select" {
		t.Fatalf("input type: want select, got %q", input)
	}
	want := meta.Choices{{Value: "draft", Label: "Draft"}, {Value: "published", Label: "Published"}}
	if diff := cmp.Diff(want, d.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_DefaultPerDataType(t *testing.T) {
	cases := map[meta.DataType]any{
		meta.DataTypeString:  "",
		meta.DataTypeInteger: 0,
		meta.DataTypeNumber:  float64(0),
		meta.DataTypeBoolean: false,
		meta.DataTypeArray:   []any{},
	}

	for dataType, want := range cases {
		dataType, want := dataType, want
		t.Run(string(dataType), func(t *testing.T) {
			t.Parallel()
			d := meta.MustNew(meta.Options{Key: "test", DataType: dataType})
			if diff := cmp.Diff(want, d.Default()); diff != "" {
				t.Fatalf("default mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, d.ToRegistrationArgs()[meta.ArgDefault]); diff != "" {
				t.Fatalf("registration default mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNew_ValidationErrors(t *testing.T) {
	cases := []struct {
		name  string
		opts  meta.Options
		field string
	}{
		{name: "empty key", opts: meta.Options{}, field: "key"},
		{name: "blank key", opts: meta.Options{Key: "   "}, field: "key"},
		{name: "unknown data type", opts: meta.Options{Key: "k", DataType: "object"}, field: "dataType"},
		{name: "unknown object type", opts: meta.Options{Key: "k", ObjectType: "comment"}, field: "objectType"},
		{name: "empty option value", opts: meta.Options{Key: "k", Options: meta.Choices{{Value: "", Label: "None"}}}, field: "options"},
		{name: "duplicate option", opts: meta.Options{Key: "k", Options: meta.Choices{{Value: "a", Label: "A"}, {Value: "a", Label: "B"}}}, field: "options"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			d, err := meta.New(tc.opts)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !d.IsZero() {
				t.Fatalf("expected no partial descriptor")
			}
			if !errors.Is(err, meta.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *meta.ValidationError
			if !errors.As(err, &verr) || verr.Field != tc.field {
				t.Fatalf("expected validation error on %s, got %#v", tc.field, err)
			}
		})
	}
}

func TestNew_TypeMismatch(t *testing.T) {
	cases := []struct {
		name     string
		dataType meta.DataType
		value    any
	}{
		{name: "string gets int", dataType: meta.DataTypeString, value: 1},
		{name: "integer gets fraction", dataType: meta.DataTypeInteger, value: 1.5},
		{name: "integer gets string", dataType: meta.DataTypeInteger, value: "1"},
		{name: "number gets bool", dataType: meta.DataTypeNumber, value: true},
		{name: "boolean gets string", dataType: meta.DataTypeBoolean, value: "true"},
		{name: "array gets map", dataType: meta.DataTypeArray, value: map[string]any{"a": 1}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := meta.New(meta.Options{Key: "field", DataType: tc.dataType, Default: tc.value})
			if !errors.Is(err, meta.ErrTypeMismatch) {
				t.Fatalf("expected ErrTypeMismatch, got %v", err)
			}
			var mismatch *meta.TypeMismatchError
			if !errors.As(err, &mismatch) || mismatch.Key != "field" || mismatch.DataType != tc.dataType {
				t.Fatalf("unexpected mismatch error: %#v", err)
			}
		})
	}
}

func TestNew_NormalisesDecodedDefaults(t *testing.T) {
	integer := meta.MustNew(meta.Options{Key: "count", DataType: meta.DataTypeInteger, Default: float64(42)})
	if diff := cmp.Diff(any(42), integer.Default()); diff != "" {
		t.Fatalf("integer default mismatch (-want +got):\n%s", diff)
	}

	number := meta.MustNew(meta.Options{Key: "ratio", DataType: meta.DataTypeNumber, Default: 3})
	if diff := cmp.Diff(any(float64(3)), number.Default()); diff != "" {
		t.Fatalf("number default mismatch (-want +got):\n%s", diff)
	}

	fromJSON := meta.MustNew(meta.Options{Key: "limit", DataType: meta.DataTypeInteger, Default: json.Number("7")})
	if diff := cmp.Diff(any(7), fromJSON.Default()); diff != "" {
		t.Fatalf("json.Number default mismatch (-want +got):\n%s", diff)
	}

	tags := meta.MustNew(meta.Options{Key: "tags", DataType: meta.DataTypeArray, Default: []string{"a", "b"}})
	if diff := cmp.Diff([]any{"a", "b"}, tags.Default()); diff != "" {
		t.Fatalf("array default mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptor_AccessorsReturnCopies(t *testing.T) {
	d := meta.MustNew(meta.Options{
		Key:      "tags",
		DataType: meta.DataTypeArray,
		Default:  []any{"a"},
		Options:  meta.Choices{{Value: "a", Label: "A"}},
	})

	def := d.Default().([]any)
	def[0] = "mutated"
	opts := d.Options()
	opts[0].Label = "mutated"

	if diff := cmp.Diff([]any{"a"}, d.Default()); diff != "" {
		t.Fatalf("default leaked mutation (-want +got):\n%s", diff)
	}
	if d.Options()[0].Label != "A" {
		t.Fatalf("options leaked mutation: %#v", d.Options())
	}
}

func TestDescriptor_ScopeAndAsOptions(t *testing.T) {
	d := meta.MustNew(meta.Options{Key: "category_color", ObjectType: meta.ObjectTypeTerm, ObjectSubtype: "category", InputType: "color"})

	scope := d.Scope()
	if scope.String() != "term/category:category_color" {
		t.Fatalf("unexpected scope: %s", scope)
	}
	if got := meta.MustNew(meta.Options{Key: "user_department", ObjectType: meta.ObjectTypeUser}).Scope().String(); got != "user/*:user_department" {
		t.Fatalf("unexpected all-subtype scope: %s", got)
	}

	rebuilt := meta.MustNew(d.AsOptions())
	if diff := cmp.Diff(d.ToUiConfig(), rebuilt.ToUiConfig()); diff != "" {
		t.Fatalf("options round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(d.ToRegistrationArgs(), rebuilt.ToRegistrationArgs()); diff != "" {
		t.Fatalf("options round trip args mismatch (-want +got):\n%s", diff)
	}
}

func TestDescriptor_ConcurrentReaders(t *testing.T) {
	d := meta.MustNew(meta.Options{Key: "tags", DataType: meta.DataTypeArray, Options: meta.Choices{{Value: "x", Label: "X"}}})
	want := d.ToUiConfig()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = d.ToRegistrationArgs()
				_ = d.ToRestSchemaVisibility()
				if got := d.ToUiConfig(); got.InputType != want.InputType {
					t.Errorf("input type drifted: %s", got.InputType)
					return
				}
			}
		}()
	}
	wg.Wait()
}
