package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/UnownHash/Flyover/locations"
	"github.com/UnownHash/Flyover/selection"
	"github.com/UnownHash/Flyover/stats_collector"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

type OverlaySource interface {
	Overlay() *geojson.FeatureCollection
}

type SelectionSource interface {
	Snapshot() *selection.Snapshot
}

type HTTPServer struct {
	logger         *logrus.Logger
	ginRouter      *gin.Engine
	catalog        *locations.Catalog
	overlay        OverlaySource
	selection      SelectionSource
	statsCollector stats_collector.StatsCollector
	resourceDir    string
}

// Run starts and runs the HTTP server until 'ctx' is cancelled or the server fails to start.
func (srv *HTTPServer) Run(ctx context.Context, address string, shutdownWaitTimeout time.Duration) error {
	httpServer := &http.Server{
		Addr:    address,
		Handler: srv.ginRouter,
	}

	doneCh := make(chan error, 1)

	go func() {
		var err error
		defer func() {
			doneCh <- err
		}()
		err = httpServer.ListenAndServe()
		if err != nil {
			if err == http.ErrServerClosed {
				err = nil
			} else {
				err = fmt.Errorf("Failed to listen and start http server: %w", err)
			}
		}
	}()

	select {
	case <-ctx.Done():
		sdCtx, sdCancelFn := context.WithTimeout(context.Background(), shutdownWaitTimeout)
		defer sdCancelFn()
		err := httpServer.Shutdown(sdCtx)
		if err != nil {
			if err == context.DeadlineExceeded {
				return errors.New("Graceful HTTP server shutdown timed out.")
			}
			return fmt.Errorf("Error during http server shutdown: %w", err)
		}
		return <-doneCh
	case err := <-doneCh:
		return err
	}
}

func (srv *HTTPServer) Handler() http.Handler {
	return srv.ginRouter
}

// NewHTTPServer builds the resource and debug server. resourceDir may be
// empty, in which case no GeoJSON is served. selection may be nil when no
// one is selecting.
func NewHTTPServer(logger *logrus.Logger, catalog *locations.Catalog, overlay OverlaySource, selection SelectionSource, statsCollector stats_collector.StatsCollector, resourceDir string) (*HTTPServer, error) {
	if catalog == nil {
		return nil, errors.New("http server needs a location catalog")
	}

	r := gin.New()
	r.Use(gin.RecoveryWithWriter(logger.Writer()))
	statsCollector.RegisterGinEngine(r)

	srv := &HTTPServer{
		logger:         logger,
		ginRouter:      r,
		catalog:        catalog,
		overlay:        overlay,
		selection:      selection,
		statsCollector: statsCollector,
		resourceDir:    resourceDir,
	}

	srv.setupRoutes()
	return srv, nil
}
