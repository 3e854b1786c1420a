// Package di assembles the application's dependencies.
package di

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"srm-backend/application/ports"
	querybus "srm-backend/application/queries/bus"
	appservices "srm-backend/application/services"
	"srm-backend/infrastructure/config"
	"srm-backend/interfaces/http/rest"
	pkgerrors "srm-backend/pkg/errors"
	"srm-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	Collector    *observability.Collector
	Tracing      *observability.TracerProvider
	Source       ports.MatrixSource
	Dataset      *appservices.DatasetService
	QueryCache   *InMemoryCache
	QueryBus     *querybus.QueryBus
	ErrorHandler *pkgerrors.ErrorHandler
	Router       *rest.Router
}

// Shutdown stops the cache cleanup and flushes spans and logs
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error
	if c.QueryCache != nil {
		c.QueryCache.Close()
	}
	if c.Tracing != nil {
		if err := c.Tracing.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Logger != nil {
		// Sync fails on stderr/stdout for some platforms; it is not worth reporting.
		_ = c.Logger.Sync()
	}
	return errors.Join(errs...)
}
