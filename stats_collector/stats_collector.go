package stats_collector

import (
	"github.com/gin-gonic/gin"
)

type StatsCollector interface {
	Name() string
	RegisterGinEngine(*gin.Engine)

	// kind is "base" or "location".
	AddFetch(kind string)
	AddFetchError(kind string, err error)
	AddStaleDiscarded()
	AddOverlayApplied()
}

type Config interface {
	GetPrometheusConfig() PrometheusConfig
}

func GetStatsCollector(cfg Config) StatsCollector {
	promConfig := cfg.GetPrometheusConfig()
	if !promConfig.Enabled {
		return NewNoopStatsCollector()
	}
	return NewPrometheusCollector(promConfig)
}
