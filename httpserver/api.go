package httpserver

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gopkg.in/guregu/null.v4"

	"github.com/UnownHash/Flyover/feature_repo"
	"github.com/UnownHash/Flyover/locations"
	"github.com/UnownHash/Flyover/selection"
)

type APIErrorResponse struct {
	Error string `json:"error"`
}

type APILocation struct {
	Id   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Zoom int     `json:"zoom"`
}

type getLocationsResponse struct {
	Locations []APILocation `json:"locations"`
}

type APISelection struct {
	LocationId   null.String `json:"location_id"`
	State        string      `json:"state"`
	Epoch        uint64      `json:"epoch"`
	FeatureCount int         `json:"feature_count"`
	Error        null.String `json:"error"`
}

func locationToAPILocation(loc locations.Location) APILocation {
	return APILocation{
		Id:   loc.Id,
		Name: loc.DisplayName,
		Lat:  loc.Lat,
		Lon:  loc.Lon,
		Zoom: loc.DefaultZoom,
	}
}

func snapshotToAPISelection(snap *selection.Snapshot) APISelection {
	if snap == nil {
		return APISelection{State: selection.PhaseIdle.String()}
	}

	apiSel := APISelection{
		LocationId:   null.NewString(snap.LocationId(), snap.Location != nil),
		State:        snap.Phase.String(),
		Epoch:        snap.Epoch,
		FeatureCount: snap.FeatureCount(),
	}
	if snap.LastError != nil {
		apiSel.Error = null.StringFrom(snap.LastError.Error())
	}
	return apiSel
}

func (srv *HTTPServer) handleGetLocations(c *gin.Context) {
	list := srv.catalog.List()
	apiLocations := make([]APILocation, len(list))

	for idx, loc := range list {
		apiLocations[idx] = locationToAPILocation(loc)
	}

	c.JSON(http.StatusOK, getLocationsResponse{apiLocations})
}

func (srv *HTTPServer) handleGetSelection(c *gin.Context) {
	var snap *selection.Snapshot
	if srv.selection != nil {
		snap = srv.selection.Snapshot()
	}
	c.JSON(http.StatusOK, snapshotToAPISelection(snap))
}

func (srv *HTTPServer) handleGetOverlay(c *gin.Context) {
	var fc any
	if srv.overlay != nil {
		if overlay := srv.overlay.Overlay(); overlay != nil {
			fc = overlay
		}
	}

	if fc == nil {
		c.JSON(http.StatusNotFound, &APIErrorResponse{
			Error: "base overlay not loaded",
		})
		return
	}

	c.JSON(http.StatusOK, fc)
}

func (srv *HTTPServer) handleGetResource(c *gin.Context) {
	file := c.Param("file")

	resourceId, ok := strings.CutSuffix(file, ".json")
	if !ok || !feature_repo.ValidResourceId(resourceId) {
		c.JSON(http.StatusNotFound, &APIErrorResponse{
			Error: "resource not found",
		})
		return
	}

	path := filepath.Join(srv.resourceDir, feature_repo.ResourceFilename(resourceId))
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			srv.logger.Warnf("GetResource: %v", err)
		}
		c.JSON(http.StatusNotFound, &APIErrorResponse{
			Error: "resource not found",
		})
		return
	}

	c.Header("Content-Type", "application/geo+json")
	c.File(path)
}
