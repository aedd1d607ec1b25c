package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	console "github.com/eventops/go-admin-console/components/console"
	"github.com/eventops/go-admin-console/pkg/backend"
)

// TrainModelsInput triggers backend model retraining.
type TrainModelsInput struct {
	Session console.SessionContext
}

type trainService interface {
	TrainModels(ctx context.Context, session console.SessionContext) error
}

// TrainModelsCommand wraps Service.TrainModels.
type TrainModelsCommand struct {
	service   trainService
	telemetry Telemetry
}

// NewTrainModelsCommand creates the command.
func NewTrainModelsCommand(service trainService, telemetry Telemetry) *TrainModelsCommand {
	return &TrainModelsCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[TrainModelsInput] = (*TrainModelsCommand)(nil)

// Execute triggers retraining.
func (c *TrainModelsCommand) Execute(ctx context.Context, msg TrainModelsInput) error {
	if c.service == nil {
		return errors.New("train command requires service")
	}
	if err := c.service.TrainModels(ctx, msg.Session); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "console.ml.trained", nil)
	return nil
}

// PredictFillRateQuery resolves an on-demand fill rate forecast.
type predictService interface {
	PredictFillRate(ctx context.Context, eventID int64) (backend.FillForecast, error)
}

// PredictFillRateQuery wraps Service.PredictFillRate as a querier.
type PredictFillRateQuery struct {
	service   predictService
	telemetry Telemetry
}

// NewPredictFillRateQuery creates the query.
func NewPredictFillRateQuery(service predictService, telemetry Telemetry) *PredictFillRateQuery {
	return &PredictFillRateQuery{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Querier[int64, backend.FillForecast] = (*PredictFillRateQuery)(nil)

// Query returns the forecast for an event.
func (q *PredictFillRateQuery) Query(ctx context.Context, eventID int64) (backend.FillForecast, error) {
	if q.service == nil {
		return backend.FillForecast{}, errors.New("predict query requires service")
	}
	forecast, err := q.service.PredictFillRate(ctx, eventID)
	if err != nil {
		return backend.FillForecast{}, err
	}
	q.telemetry.Record(ctx, "console.ml.predicted", map[string]any{"event_id": eventID})
	return forecast, nil
}
