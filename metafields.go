package metafields

import (
	"io/fs"

	"github.com/goliatone/go-metafields/components/settingsapi"
	"github.com/goliatone/go-metafields/pkg/declare"
	"github.com/goliatone/go-metafields/pkg/meta"
	"github.com/goliatone/go-metafields/pkg/settings"
)

// Descriptor aliases meta.Descriptor, the immutable field declaration.
type Descriptor = meta.Descriptor

// Options aliases meta.Options for callers declaring fields in Go.
type Options = meta.Options

// UIConfig is the frontend widget configuration for one field.
type UIConfig = meta.UIConfig

// DeclarationSet holds the fields and settings loaded from declaration files.
type DeclarationSet = declare.Set

// NewDescriptor validates opts and returns the descriptor.
func NewDescriptor(opts Options) (Descriptor, error) {
	return meta.New(opts)
}

// LoadDeclarations reads every JSON/YAML declaration under fsys. A nil fsys
// loads the bundled declarations.
func LoadDeclarations(fsys fs.FS) (*DeclarationSet, error) {
	if fsys == nil {
		fsys = declare.EmbeddedFS()
	}
	return declare.LoadFS(fsys)
}

// NewSettingsComponent builds the settings REST component for set, with its
// registry seeded from the declared settings. fns are applied after the
// registry and catalog so callers can still override the base path, guard
// or logger.
func NewSettingsComponent(set *DeclarationSet, fns ...settingsapi.OptionFn) (*settingsapi.Component, error) {
	if set == nil {
		var err error
		if set, err = LoadDeclarations(nil); err != nil {
			return nil, err
		}
	}
	registry, err := settings.NewRegistry(set.Settings...)
	if err != nil {
		return nil, err
	}
	opts := append([]settingsapi.OptionFn{
		settingsapi.WithRegistry(registry),
		settingsapi.WithCatalog(set.Fields),
	}, fns...)
	return settingsapi.New(opts...), nil
}
