package featurestore

import (
	"fmt"
	"strings"
)

// Domain is the kind of entity a feature describes.
type Domain string

const (
	DomainNode  Domain = "node"
	DomainEdge  Domain = "edge"
	DomainGraph Domain = "graph"
)

// ParseDomain validates s as a Domain. Matching is case-insensitive.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(s))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidDomain, s)
	}
	return d, nil
}

// Valid reports whether d is one of the known domains.
func (d Domain) Valid() bool {
	switch d {
	case DomainNode, DomainEdge, DomainGraph:
		return true
	default:
		return false
	}
}

// Format is the on-disk layout of a feature file.
type Format string

const (
	// FormatNative is the compressed native format. It is always loaded
	// into memory.
	FormatNative Format = "native"
	// FormatColumnar is the raw columnar format. It is loaded into memory
	// or memory mapped.
	FormatColumnar Format = "columnar"
)

// ParseFormat validates s as a Format. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case FormatNative, FormatColumnar:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Key identifies a feature. An empty Type denotes a homogeneous graph.
type Key struct {
	Domain Domain
	Type   string
	Name   string
}

// NodeKey returns the key of a node feature.
func NodeKey(typ, name string) Key {
	return Key{Domain: DomainNode, Type: typ, Name: name}
}

// EdgeKey returns the key of an edge feature. typ is the string form of an
// edge type, "src:relation:dst".
func EdgeKey(typ, name string) Key {
	return Key{Domain: DomainEdge, Type: typ, Name: name}
}

// GraphKey returns the key of a graph-level feature.
func GraphKey(name string) Key {
	return Key{Domain: DomainGraph, Name: name}
}

func (k Key) String() string {
	if k.Type == "" {
		return fmt.Sprintf("%s/%s", k.Domain, k.Name)
	}
	return fmt.Sprintf("%s/%s/%s", k.Domain, k.Type, k.Name)
}
