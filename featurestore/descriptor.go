package featurestore

import (
	"fmt"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Descriptor describes where a feature lives and how to load it.
//
// When decoded from a manifest an absent in_memory field means true.
type Descriptor struct {
	Domain Domain `json:"domain" yaml:"domain"`
	// Type is the node type or "src:relation:dst" edge type; empty for
	// homogeneous graphs.
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Name   string `json:"name" yaml:"name"`
	Format Format `json:"format" yaml:"format"`
	// Path is the blob name resolved through the configured BlobStore.
	Path string `json:"path" yaml:"path"`
	// InMemory loads the whole feature into memory. Columnar features with
	// InMemory=false are memory mapped; native features must be in memory.
	InMemory bool `json:"in_memory" yaml:"in_memory"`
}

// Key returns the composite key the feature is stored under.
func (d Descriptor) Key() Key {
	return Key{Domain: d.Domain, Type: d.Type, Name: d.Name}
}

// Validate checks the descriptor without touching storage.
func (d Descriptor) Validate() error {
	if !d.Domain.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, d.Domain)
	}
	if d.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDescriptor)
	}
	if d.Path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidDescriptor)
	}
	switch d.Format {
	case FormatNative:
		if !d.InMemory {
			return fmt.Errorf("%w: native features must be loaded in memory", ErrPrecondition)
		}
	case FormatColumnar:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, d.Format)
	}
	return nil
}

// descriptorFields has the fields of Descriptor without its decode methods.
type descriptorFields Descriptor

// UnmarshalJSON decodes a descriptor, defaulting in_memory to true.
func (d *Descriptor) UnmarshalJSON(b []byte) error {
	f := descriptorFields{InMemory: true}
	if err := gojson.Unmarshal(b, &f); err != nil {
		return err
	}
	*d = Descriptor(f)
	return nil
}

// UnmarshalYAML decodes a descriptor, defaulting in_memory to true.
func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	f := descriptorFields{InMemory: true}
	if err := value.Decode(&f); err != nil {
		return err
	}
	*d = Descriptor(f)
	return nil
}
