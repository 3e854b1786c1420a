package handlers

import (
	"context"

	"go.uber.org/zap"

	"srm-backend/application/queries"
	"srm-backend/application/queries/bus"
	appservices "srm-backend/application/services"
)

// typed adapts a typed handler method to the bus
func typed[Q bus.Query, R any](handle func(context.Context, Q) (R, error)) bus.QueryHandler {
	return bus.QueryHandlerFunc(func(ctx context.Context, query bus.Query) (interface{}, error) {
		result, err := handle(ctx, query.(Q))
		if err != nil {
			return nil, err
		}
		return result, nil
	})
}

// RegisterAll registers every query handler on the bus
func RegisterAll(b *bus.QueryBus, dataset *appservices.DatasetService, maxNumber int, logger *zap.Logger) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandler
	}{
		{queries.GetGraphDataQuery{}, typed(NewGetGraphDataHandler(dataset, logger).Handle)},
		{queries.GetHeatmapQuery{}, typed(NewGetHeatmapHandler(dataset, maxNumber, logger).Handle)},
		{queries.GetEulerQuery{}, typed(NewGetEulerHandler(dataset, logger).Handle)},
		{queries.GetGroupQuery{}, typed(NewGetGroupHandler(dataset, logger).Handle)},
		{queries.TransformMatrixQuery{}, typed(NewTransformMatrixHandler(dataset, logger).Handle)},
		{queries.GetDatasetInfoQuery{}, typed(NewGetDatasetInfoHandler(dataset).Handle)},
	}

	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}
