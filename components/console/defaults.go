package console

import (
	"context"

	"github.com/eventops/go-admin-console/pkg/backend"
)

// Resource codes for the built-in sections, in tab order.
const (
	ResourceUsers      = "admin.resource.users"
	ResourceEvents     = "admin.resource.events"
	ResourceRefunds    = "admin.resource.refunds"
	ResourceCategories = "admin.resource.categories"
	ResourceTags       = "admin.resource.tags"
)

// DefaultResourceDefinitions returns the built-in sections of the console.
func DefaultResourceDefinitions() []ResourceDefinition {
	return []ResourceDefinition{
		{
			Code:          ResourceUsers,
			Name:          "Users",
			NameLocalized: map[string]string{"fr": "Utilisateurs", "es": "Usuarios"},
			Description:   "Platform accounts and their roles",
			Actions:       []ActionKind{ActionSuspend, ActionActivate, ActionChangeRole, ActionDelete},
			ReasonRequired: []ActionKind{
				ActionSuspend, ActionDelete,
			},
			FormSchema: createUserSchema(),
			PageSize:   20,
		},
		{
			Code:          ResourceEvents,
			Name:          "Events",
			NameLocalized: map[string]string{"fr": "Événements", "es": "Eventos"},
			Description:   "Listings under moderation review",
			Actions:       []ActionKind{ActionApprove, ActionReject, ActionDelete},
			ReasonRequired: []ActionKind{
				ActionReject, ActionDelete,
			},
			PageSize: 20,
		},
		{
			Code:          ResourceRefunds,
			Name:          "Refunds",
			NameLocalized: map[string]string{"fr": "Remboursements", "es": "Reembolsos"},
			Description:   "Ticket refund requests awaiting review",
			Actions:       []ActionKind{ActionApprove, ActionReject},
			ReasonRequired: []ActionKind{
				ActionReject,
			},
			PageSize: 20,
		},
		{
			Code:          ResourceCategories,
			Name:          "Categories",
			NameLocalized: map[string]string{"fr": "Catégories", "es": "Categorías"},
			Description:   "Event categories",
			Actions:       []ActionKind{ActionDelete},
			ReasonRequired: []ActionKind{
				ActionDelete,
			},
			FormSchema: taxonomySchema(),
			PageSize:   50,
		},
		{
			Code:          ResourceTags,
			Name:          "Tags",
			NameLocalized: map[string]string{"fr": "Étiquettes", "es": "Etiquetas"},
			Description:   "Event tags",
			Actions:       []ActionKind{ActionDelete},
			ReasonRequired: []ActionKind{
				ActionDelete,
			},
			FormSchema: taxonomySchema(),
			PageSize:   50,
		},
	}
}

func createUserSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"email", "password", "role"},
		"properties": map[string]any{
			"email":      map[string]any{"type": "string", "format": "email", "minLength": 3},
			"password":   map[string]any{"type": "string", "minLength": 8},
			"first_name": map[string]any{"type": "string"},
			"last_name":  map[string]any{"type": "string"},
			"role":       map[string]any{"type": "string", "enum": []string{"admin", "organizer", "attendee"}},
		},
	}
}

func taxonomySchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"name"},
		"properties": map[string]any{
			"name":        map[string]any{"type": "string", "minLength": 1},
			"color":       map[string]any{"type": "string", "pattern": "^#[0-9a-fA-F]{6}$"},
			"description": map[string]any{"type": "string"},
		},
	}
}

// RegisterDefaultResources binds the built-in sections against a backend
// client. Definitions come from DefaultResourceDefinitions; each binding
// carries the type-erased list projection transports render.
func RegisterDefaultResources(reg ResourceRegistry, client backend.Client) error {
	defs := map[string]ResourceDefinition{}
	for _, def := range DefaultResourceDefinitions() {
		defs[def.Code] = def
	}
	bindings := []ResourceBinding{
		{
			Definition: defs[ResourceUsers],
			List: bindPage(ResourceUsers, client.ListUsers,
				func(u backend.User) int64 { return u.ID },
				func(u backend.User) string { return u.Email },
				func(u backend.User) string {
					if u.IsActive {
						return "active"
					}
					return "suspended"
				}),
			Submit: client.ManageUser,
		},
		{
			Definition: defs[ResourceEvents],
			List: bindPage(ResourceEvents, client.ListEvents,
				func(e backend.Event) int64 { return e.ID },
				func(e backend.Event) string { return e.Title },
				func(e backend.Event) string { return e.Status }),
			Submit: client.ModerateEvent,
			Delete: client.DeleteEvent,
		},
		{
			Definition: defs[ResourceRefunds],
			List: bindPage(ResourceRefunds, client.ListRefunds,
				func(r backend.Refund) int64 { return r.ID },
				func(r backend.Refund) string { return r.EventTitle },
				func(r backend.Refund) string { return r.Status }),
			Submit: client.ProcessRefund,
		},
		{
			Definition: defs[ResourceCategories],
			List: bindPage(ResourceCategories, client.ListCategories,
				func(c backend.Category) int64 { return c.ID },
				func(c backend.Category) string { return c.Name },
				func(backend.Category) string { return "" }),
			Delete: client.DeleteCategory,
		},
		{
			Definition: defs[ResourceTags],
			List: bindPage(ResourceTags, client.ListTags,
				func(t backend.Tag) int64 { return t.ID },
				func(t backend.Tag) string { return t.Name },
				func(backend.Tag) string { return "" }),
			Delete: client.DeleteTag,
		},
	}
	for _, binding := range bindings {
		if err := reg.RegisterBinding(binding); err != nil {
			return err
		}
	}
	return nil
}

// bindPage erases the entity type from a backend list call so registries and
// transports can treat all resources uniformly.
func bindPage[T any](
	code string,
	fetch func(ctx context.Context, query backend.ListQuery) (backend.Page[T], error),
	id func(T) int64,
	label func(T) string,
	status func(T) string,
) func(ctx context.Context, query backend.ListQuery) (SectionPage, error) {
	return func(ctx context.Context, query backend.ListQuery) (SectionPage, error) {
		page, err := fetch(ctx, query)
		if err != nil {
			return SectionPage{}, err
		}
		rows := make([]Row, 0, len(page.Items))
		for _, item := range page.Items {
			rows = append(rows, Row{
				ID:     id(item),
				Label:  label(item),
				Status: status(item),
			})
		}
		return SectionPage{
			Resource:   code,
			Rows:       rows,
			Page:       query.Page,
			TotalPages: page.TotalPages,
		}, nil
	}
}
