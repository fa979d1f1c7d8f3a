package stats_collector

import "github.com/gin-gonic/gin"

var _ StatsCollector = (*noopCollector)(nil)

type noopCollector struct {
}

func (col *noopCollector) Name() string                         { return "no-op" }
func (col *noopCollector) RegisterGinEngine(*gin.Engine)        {}
func (col *noopCollector) AddFetch(kind string)                 {}
func (col *noopCollector) AddFetchError(kind string, err error) {}
func (col *noopCollector) AddStaleDiscarded()                   {}
func (col *noopCollector) AddOverlayApplied()                   {}

func NewNoopStatsCollector() StatsCollector {
	return &noopCollector{}
}
