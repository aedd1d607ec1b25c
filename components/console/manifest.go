package console

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// ResourceManifestDocument models a YAML/JSON manifest describing the
// resources a console deployment administers. Manifests let deployments add
// or override sections without recompiling.
type ResourceManifestDocument struct {
	Version   string             `json:"version" yaml:"version"`
	Name      string             `json:"name,omitempty" yaml:"name,omitempty"`
	Package   string             `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage  string             `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Resources []ManifestResource `json:"resources" yaml:"resources"`
	Source    string             `json:"-" yaml:"-"`
}

// ManifestResource describes a single resource entry within a manifest.
type ManifestResource struct {
	Definition  ResourceDefinition `json:"definition" yaml:"definition"`
	Endpoint    ManifestEndpoint   `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Maintainers []string           `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string           `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestEndpoint captures discovery metadata about the backend endpoints
// serving a resource.
type ManifestEndpoint struct {
	ListPath   string `json:"list_path,omitempty" yaml:"list_path,omitempty"`
	ActionPath string `json:"action_path,omitempty" yaml:"action_path,omitempty"`
	DeletePath string `json:"delete_path,omitempty" yaml:"delete_path,omitempty"`
	IDField    string `json:"id_field,omitempty" yaml:"id_field,omitempty"`
}

// LoadManifestFile reads a manifest from disk, registers it against the
// registry, and returns the document.
func (r *Registry) LoadManifestFile(path string) (*ResourceManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers definitions and endpoint metadata from a
// decoded manifest.
func (r *Registry) LoadManifestDocument(doc *ResourceManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("console: manifest document is nil")
	}
	for _, resource := range doc.Resources {
		if err := r.RegisterDefinition(resource.Definition); err != nil {
			return fmt.Errorf("console: register resource %s from %s: %w", resource.Definition.Code, doc.Source, err)
		}
		r.recordEndpointMetadata(resource.Definition.Code, resource.Endpoint)
	}
	return nil
}

// ReadManifest loads a manifest file from disk without registering it.
func ReadManifest(path string) (*ResourceManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("console: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("console: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads a manifest from any reader.
func DecodeManifest(r io.Reader) (*ResourceManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc ResourceManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("console: manifest is empty")
		}
		return nil, fmt.Errorf("console: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *ResourceManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("console: unsupported manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Resources))
	for idx, resource := range doc.Resources {
		if resource.Definition.Code == "" {
			return fmt.Errorf("console: manifest resource at index %d is missing definition.code", idx)
		}
		if resource.Definition.Name == "" {
			return fmt.Errorf("console: manifest resource %s missing definition.name", resource.Definition.Code)
		}
		if _, exists := seen[resource.Definition.Code]; exists {
			return fmt.Errorf("console: manifest duplicates resource code %s", resource.Definition.Code)
		}
		seen[resource.Definition.Code] = struct{}{}
	}
	return nil
}

func (doc *ResourceManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}

func (e ManifestEndpoint) isZero() bool {
	return e.ListPath == "" &&
		e.ActionPath == "" &&
		e.DeletePath == "" &&
		e.IDField == ""
}
