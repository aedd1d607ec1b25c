package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
)

// SectionInput identifies one page of a resource collection.
type SectionInput struct {
	Resource string
	Filters  console.Filters
	Page     int
}

type sectionService interface {
	ResolveSection(ctx context.Context, code string, filters console.Filters, page int) (console.SectionPage, error)
}

// SectionQuery executes read-only section resolution.
type SectionQuery struct {
	service sectionService
}

// NewSectionQuery builds the query.
func NewSectionQuery(service sectionService) *SectionQuery {
	return &SectionQuery{service: service}
}

var _ gocommand.Querier[SectionInput, console.SectionPage] = (*SectionQuery)(nil)

// Query resolves the requested page.
func (q *SectionQuery) Query(ctx context.Context, input SectionInput) (console.SectionPage, error) {
	return q.service.ResolveSection(ctx, input.Resource, input.Filters, input.Page)
}
