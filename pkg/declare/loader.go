package declare

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-metafields/pkg/catalog"
	"github.com/goliatone/go-metafields/pkg/meta"
)

// Set is the result of loading declaration files: the metadata field catalog
// plus the plugin settings, in file then declaration order.
type Set struct {
	Fields   *catalog.Catalog
	Settings []meta.Descriptor
	Sources  []string
}

// Document holds the descriptors declared by a single file.
type Document struct {
	Source   string
	Fields   []meta.Descriptor
	Settings []meta.Descriptor
}

// FieldDeclaration is the on-disk shape of one field. Pointer flags keep
// "absent" distinct from false so meta.New can apply its defaults.
type FieldDeclaration struct {
	Key           string       `json:"key" yaml:"key"`
	ObjectType    string       `json:"objectType,omitempty" yaml:"objectType,omitempty"`
	ObjectSubtype string       `json:"objectSubtype,omitempty" yaml:"objectSubtype,omitempty"`
	Type          string       `json:"type,omitempty" yaml:"type,omitempty"`
	Label         string       `json:"label,omitempty" yaml:"label,omitempty"`
	Description   string       `json:"description,omitempty" yaml:"description,omitempty"`
	Default       any          `json:"default,omitempty" yaml:"default,omitempty"`
	Single        *bool        `json:"single,omitempty" yaml:"single,omitempty"`
	ShowInRest    *bool        `json:"showInRest,omitempty" yaml:"showInRest,omitempty"`
	ShowInEditor  *bool        `json:"showInEditor,omitempty" yaml:"showInEditor,omitempty"`
	InputType     string       `json:"inputType,omitempty" yaml:"inputType,omitempty"`
	Options       meta.Choices `json:"options,omitempty" yaml:"options,omitempty"`
}

type documentFile struct {
	Fields   []FieldDeclaration `json:"fields" yaml:"fields"`
	Settings []FieldDeclaration `json:"settings" yaml:"settings"`
}

// LoadFS walks fsys and parses every JSON/YAML declaration file. Field scopes
// must be unique across files, as must setting keys. A nil fsys yields an
// empty set.
func LoadFS(fsys fs.FS) (*Set, error) {
	fields, err := catalog.New()
	if err != nil {
		return nil, err
	}
	set := &Set{Fields: fields}
	if fsys == nil {
		return set, nil
	}

	settingSources := make(map[string]string)
	err = fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDeclarationFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("declare: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return err
		}

		if err := set.Fields.Add(doc.Fields...); err != nil {
			return fmt.Errorf("declare: %s: %w", path, err)
		}
		for _, setting := range doc.Settings {
			if previous, exists := settingSources[setting.Key()]; exists {
				return fmt.Errorf("declare: %s: duplicate setting %q (first declared in %s)", path, setting.Key(), previous)
			}
			settingSources[setting.Key()] = path
		}
		set.Settings = append(set.Settings, doc.Settings...)
		set.Sources = append(set.Sources, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Parse decodes one declaration document, JSON first and YAML second, and
// builds every descriptor through meta.New.
func Parse(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("declare: file %s is empty", source)
	}

	var raw documentFile
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = documentFile{}
		if yamlErr := yaml.Unmarshal(data, &raw); yamlErr != nil {
			return Document{}, fmt.Errorf("declare: parse %s: invalid JSON or YAML: %w", source, yamlErr)
		}
	}

	doc := Document{Source: source}
	for idx, decl := range raw.Fields {
		d, err := decl.Descriptor()
		if err != nil {
			return Document{}, fmt.Errorf("declare: %s: fields[%d]: %w", source, idx, err)
		}
		doc.Fields = append(doc.Fields, d)
	}

	seen := make(map[string]struct{}, len(raw.Settings))
	for idx, decl := range raw.Settings {
		d, err := decl.Descriptor()
		if err != nil {
			return Document{}, fmt.Errorf("declare: %s: settings[%d]: %w", source, idx, err)
		}
		if _, dup := seen[d.Key()]; dup {
			return Document{}, fmt.Errorf("declare: %s: settings[%d]: duplicate setting %q", source, idx, d.Key())
		}
		seen[d.Key()] = struct{}{}
		doc.Settings = append(doc.Settings, d)
	}
	return doc, nil
}

// Descriptor validates the declaration through meta.New.
func (f FieldDeclaration) Descriptor() (meta.Descriptor, error) {
	return meta.New(meta.Options{
		Key:           f.Key,
		ObjectType:    meta.ObjectType(f.ObjectType),
		ObjectSubtype: f.ObjectSubtype,
		DataType:      meta.DataType(f.Type),
		Label:         f.Label,
		Description:   f.Description,
		Default:       f.Default,
		Single:        f.Single,
		ShowInRest:    f.ShowInRest,
		ShowInEditor:  f.ShowInEditor,
		InputType:     f.InputType,
		Options:       f.Options,
	})
}

// Declaration converts a descriptor back into its on-disk shape.
func Declaration(d meta.Descriptor) FieldDeclaration {
	opts := d.AsOptions()
	decl := FieldDeclaration{
		Key:           opts.Key,
		ObjectType:    string(opts.ObjectType),
		ObjectSubtype: opts.ObjectSubtype,
		Type:          string(opts.DataType),
		Label:         opts.Label,
		Description:   opts.Description,
		Default:       opts.Default,
		InputType:     opts.InputType,
		Options:       opts.Options,
	}
	if !d.Single() {
		decl.Single = meta.Bool(false)
	}
	if !d.ShowInRest() {
		decl.ShowInRest = meta.Bool(false)
	}
	if !d.ShowInEditor() {
		decl.ShowInEditor = meta.Bool(false)
	}
	return decl
}

func isDeclarationFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
