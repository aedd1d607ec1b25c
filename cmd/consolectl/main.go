package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	console "github.com/eventops/go-admin-console/components/console"
)

type cli struct {
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a resource definition, binding stub, and manifest entry."`
}

type scaffoldCmd struct {
	Code           string   `required:"" help:"Fully-qualified resource code (e.g. acme.resource.venues)."`
	Name           string   `required:"" help:"Display name for the resource section."`
	Description    string   `required:"" help:"One-line description used in manifests."`
	ManifestPath   string   `required:"" type:"path" help:"Path to the resource manifest YAML/JSON file to update."`
	SchemaPath     string   `type:"path" help:"Optional path to a JSON schema file for the resource form."`
	Action         []string `help:"Actions the resource supports (use multiple --action flags)."`
	ReasonRequired []string `name:"reason-required" help:"Actions that require a justification."`
	PageSize       int      `default:"20" help:"Rows per page for the section."`
	ListPath       string   `help:"Backend list endpoint recorded in the manifest."`
	ActionPath     string   `help:"Backend action endpoint recorded in the manifest."`
	IDField        string   `name:"id-field" help:"Entity id field name posted with actions."`
	Tag            []string `help:"Optional tags to include in the manifest."`
	Maintainer     []string `help:"Maintainers to record in the manifest."`
	BindingOut     string   `help:"File path for the generated binding stub (defaults to components/console/bindings/<code>_binding.go)."`
	Overwrite      bool     `help:"Overwrite existing binding stub / manifest entry if present."`
	SkipBinding    bool     `name:"skip-binding" help:"Skip binding stub generation."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Resource scaffolding utility for console manifests."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("consolectl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, resource := range doc.Resources {
			if resource.Definition.Code == cmd.Code {
				return fmt.Errorf("consolectl: manifest already defines resource %s (use --overwrite to replace)", cmd.Code)
			}
		}
	}

	schema, err := cmd.loadSchema()
	if err != nil {
		return err
	}

	entry := console.ManifestResource{
		Definition: console.ResourceDefinition{
			Code:           cmd.Code,
			Name:           cmd.Name,
			Description:    cmd.Description,
			Actions:        toActionKinds(cmd.Action),
			ReasonRequired: toActionKinds(cmd.ReasonRequired),
			FormSchema:     schema,
			PageSize:       cmd.PageSize,
		},
		Endpoint: console.ManifestEndpoint{
			ListPath:   cmd.ListPath,
			ActionPath: cmd.ActionPath,
			IDField:    cmd.IDField,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	if cmd.Overwrite {
		replaced := false
		for idx := range doc.Resources {
			if doc.Resources[idx].Definition.Code == cmd.Code {
				doc.Resources[idx] = entry
				replaced = true
				break
			}
		}
		if !replaced {
			doc.Resources = append(doc.Resources, entry)
		}
	} else {
		doc.Resources = append(doc.Resources, entry)
	}

	sort.Slice(doc.Resources, func(i, j int) bool {
		return doc.Resources[i].Definition.Code < doc.Resources[j].Definition.Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipBinding {
		fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.Code, manifestPath)
		return nil
	}

	bindingPath := cmd.BindingOut
	if bindingPath == "" {
		bindingPath = filepath.Join("components", "console", "bindings", fmt.Sprintf("%s_binding.go", sanitizeFileName(cmd.Code)))
	}
	baseName := deriveBaseName(cmd.Code)
	if err := writeBindingStub(bindingPath, baseName, cmd.Code, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s and generated %s\n", cmd.Code, manifestPath, bindingPath)
	return nil
}

func (cmd *scaffoldCmd) validate() error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("consolectl: resource code %s must contain at least one '.' segment", cmd.Code)
	}
	return nil
}

func (cmd *scaffoldCmd) loadSchema() (map[string]any, error) {
	if cmd.SchemaPath == "" {
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}, nil
	}
	data, err := os.ReadFile(cmd.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("consolectl: read schema file: %w", err)
	}
	var schema map[string]any
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("consolectl: parse schema JSON: %w", err)
	}
	return schema, nil
}

func loadOrInitManifest(path string) (*console.ResourceManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			doc := &console.ResourceManifestDocument{
				Version:   console.ManifestVersion,
				Resources: []console.ManifestResource{},
				Source:    path,
			}
			return doc, nil
		}
		return nil, fmt.Errorf("consolectl: stat manifest: %w", err)
	}
	doc, err := console.ReadManifest(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func writeManifest(path string, doc *console.ResourceManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("consolectl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("consolectl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("consolectl: write manifest: %w", err)
	}
	return nil
}

func writeBindingStub(path, baseName, code string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("consolectl: binding stub %s already exists (use --overwrite or --binding-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("consolectl: mkdir binding dir: %w", err)
	}
	content := fmt.Sprintf(`package bindings

import (
	"context"

	console "github.com/eventops/go-admin-console/components/console"
	"github.com/eventops/go-admin-console/pkg/backend"
)

// Register%sBinding wires %s into a registry.
func Register%sBinding(reg console.ResourceRegistry, def console.ResourceDefinition) error {
	return reg.RegisterBinding(console.ResourceBinding{
		Definition: def,
		List: func(ctx context.Context, query backend.ListQuery) (console.SectionPage, error) {
			// Replace with the backend call serving this resource.
			return console.SectionPage{Resource: def.Code, TotalPages: 1}, nil
		},
		Submit: func(ctx context.Context, req backend.ActionRequest) error {
			// Replace with the backend action endpoint.
			return nil
		},
	})
}
`, baseName, code, baseName)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("consolectl: write binding stub: %w", err)
	}
	return nil
}

func toActionKinds(values []string) []console.ActionKind {
	kinds := make([]console.ActionKind, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(strings.ToLower(value))
		if value == "" {
			continue
		}
		kinds = append(kinds, console.ActionKind(value))
	}
	return kinds
}

func deriveBaseName(code string) string {
	parts := strings.Split(code, ".")
	slug := parts[len(parts)-1]
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = code
	}
	return strcase.ToCamel(slug)
}

func sanitizeFileName(code string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(code))
}
