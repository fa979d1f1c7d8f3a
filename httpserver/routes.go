package httpserver

import (
	"net/http/pprof"

	"github.com/gin-gonic/gin"
)

func (srv *HTTPServer) authorizeAPI(c *gin.Context) {
	// anything goes for now.
	c.Next()
}

func (srv *HTTPServer) setupRoutes() {
	r := srv.ginRouter

	if srv.resourceDir != "" {
		r.GET("/geojson/:file", srv.handleGetResource)
	}

	apiGroup := r.Group("/api", srv.authorizeAPI)
	apiGroup.GET("/locations", srv.handleGetLocations)
	apiGroup.GET("/selection", srv.handleGetSelection)
	apiGroup.GET("/overlay", srv.handleGetOverlay)

	debugGroup := r.Group("/debug/pprof")
	debugGroup.GET("/", func(c *gin.Context) {
		pprof.Index(c.Writer, c.Request)
	})
	debugGroup.GET("/cmdline", func(c *gin.Context) {
		pprof.Cmdline(c.Writer, c.Request)
	})
	for _, name := range []string{"heap", "goroutine", "block", "mutex", "allocs"} {
		debugGroup.GET("/"+name, gin.WrapH(pprof.Handler(name)))
	}
	debugGroup.GET("/trace", func(c *gin.Context) {
		pprof.Trace(c.Writer, c.Request)
	})
	debugGroup.GET("/profile", func(c *gin.Context) {
		pprof.Profile(c.Writer, c.Request)
	})
	debugGroup.GET("/symbol", func(c *gin.Context) {
		pprof.Symbol(c.Writer, c.Request)
	})
}
