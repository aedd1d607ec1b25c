package console

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeManifest(t *testing.T) {
	const payload = `
version: 1
name: community-pack
resources:
  - definition:
      code: community.resource.venues
      name: Venues
      name_localized:
        fr: Salles
      description: Physical venues that host events.
      actions: ["approve", "reject"]
      reason_required: ["reject"]
      page_size: 25
    endpoint:
      list_path: /api/admin/venues/
      action_path: /api/admin/venues/{id}/moderate/
      id_field: id
    maintainers: ["platform-team@example.com"]
    tags: ["community"]
`
	doc, err := DecodeManifest(strings.NewReader(payload))
	require.NoError(t, err)
	require.Len(t, doc.Resources, 1)

	resource := doc.Resources[0]
	assert.Equal(t, "community.resource.venues", resource.Definition.Code)
	assert.Equal(t, "Venues", resource.Definition.Name)
	assert.Equal(t, "Salles", resource.Definition.NameLocalized["fr"])
	assert.Equal(t, []ActionKind{ActionApprove, ActionReject}, resource.Definition.Actions)
	assert.Equal(t, 25, resource.Definition.PageSize)
	assert.Equal(t, "/api/admin/venues/", resource.Endpoint.ListPath)
	assert.Equal(t, "id", resource.Endpoint.IDField)
}

func TestDecodeManifestRejectsUnknownFields(t *testing.T) {
	const payload = `
version: 1
resources:
  - definition:
      code: x.y
      name: X
    providers: []
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
}

func TestDecodeManifestEmpty(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestDecodeManifestUnsupportedVersion(t *testing.T) {
	const payload = `
version: 2
resources:
  - definition:
      code: x.y
      name: X
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest version")
}

func TestManifestDuplicateCodes(t *testing.T) {
	const payload = `
resources:
  - definition:
      code: dup.resource
      name: First
  - definition:
      code: dup.resource
      name: Second
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicates resource code")
}

func TestManifestMissingName(t *testing.T) {
	const payload = `
resources:
  - definition:
      code: x.y
`
	_, err := DecodeManifest(strings.NewReader(payload))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing definition.name")
}

func TestRegistryLoadManifestDocument(t *testing.T) {
	doc := &ResourceManifestDocument{
		Version: manifestVersionV1,
		Resources: []ManifestResource{
			{
				Definition: ResourceDefinition{
					Code:    "acme.resource.inventory",
					Name:    "Inventory",
					Actions: []ActionKind{ActionDelete},
				},
				Endpoint: ManifestEndpoint{
					ListPath: "/api/admin/inventory/",
					IDField:  "id",
				},
			},
		},
	}
	reg := NewRegistry()

	err := reg.LoadManifestDocument(doc)
	require.NoError(t, err)

	def, ok := reg.Definition("acme.resource.inventory")
	require.True(t, ok)
	assert.Equal(t, "Inventory", def.Name)

	meta, ok := reg.EndpointMetadata("acme.resource.inventory")
	require.True(t, ok)
	assert.Equal(t, "/api/admin/inventory/", meta.ListPath)
	assert.Equal(t, "id", meta.IDField)
}

func TestDocsManifestsAreValid(t *testing.T) {
	dir := filepath.Join("..", "..", "docs", "manifests")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	codes := map[string]string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		doc, err := ReadManifest(path)
		require.NoErrorf(t, err, "manifest %s should parse", path)
		for _, resource := range doc.Resources {
			if prev, exists := codes[resource.Definition.Code]; exists {
				t.Fatalf("resource code %s defined in both %s and %s", resource.Definition.Code, prev, path)
			}
			codes[resource.Definition.Code] = path
		}
	}
}
