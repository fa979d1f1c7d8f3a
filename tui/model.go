package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"github.com/UnownHash/Flyover/feature_repo"
	"github.com/UnownHash/Flyover/highlight"
	"github.com/UnownHash/Flyover/locations"
	"github.com/UnownHash/Flyover/mapview"
	"github.com/UnownHash/Flyover/selection"
	"github.com/UnownHash/Flyover/viewport"
)

const (
	BASE_LAYER     = "base"
	LOCATION_LAYER = "location"

	ANIMATION_TICK = 50 * time.Millisecond

	// status and help lines under the map
	chromeRows = 2
)

type OverlayLoader interface {
	Load(ctx context.Context) (*geojson.FeatureCollection, error)
}

type overlayLoadedMsg struct {
	fc  *geojson.FeatureCollection
	err error
}

type fetchResultMsg struct {
	result selection.Result
}

type tickMsg time.Time

var _ tea.Model = (*Model)(nil)
var _ selection.Listener = (*Model)(nil)

// Model is the terminal map. Every state change, including applying fetch
// results, happens in Update.
type Model struct {
	ctx     context.Context
	logger  *logrus.Logger
	config  Config
	catalog *locations.Catalog
	loader  OverlayLoader

	view  *mapview.Map
	coord *selection.Coordinator

	width, height int
	// last mouse cell over the map, re-hit after the view moves
	mouse   *[2]int
	focus   int
	ticking bool
	baseErr error
}

func (m *Model) Coordinator() *selection.Coordinator {
	return m.coord
}

func (m *Model) Map() *mapview.Map {
	return m.view
}

// OverlayChanged swaps the location layer. It is called by the coordinator
// from inside Update.
func (m *Model) OverlayChanged(loc locations.Location, fc *geojson.FeatureCollection) {
	if fc == nil {
		m.view.RemoveLayer(LOCATION_LAYER)
		return
	}
	layer := m.view.AddGeoJSON(LOCATION_LAYER, fc, highlight.OnEachFeature(highlight.LocationOverlayStyle))
	if skipped := layer.Skipped(); skipped > 0 {
		m.logger.Debugf("SELECT[%s]: %d feature(s) without polygon geometry not drawn", loc.Id, skipped)
	}
}

func (m *Model) Init() tea.Cmd {
	return m.loadOverlayCmd()
}

func (m *Model) loadOverlayCmd() tea.Cmd {
	ctx := m.ctx
	loader := m.loader
	return func() tea.Msg {
		fc, err := loader.Load(ctx)
		return overlayLoadedMsg{fc: fc, err: err}
	}
}

func (m *Model) fetchCmd(req selection.Request) tea.Cmd {
	coord := m.coord
	return func() tea.Msg {
		return fetchResultMsg{result: coord.Fetch(req)}
	}
}

func (m *Model) tickCmd() tea.Cmd {
	if m.ticking || !m.view.Animating() {
		return nil
	}
	m.ticking = true
	return tea.Tick(ANIMATION_TICK, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) selectLocation(loc locations.Location) tea.Cmd {
	m.focus = m.catalog.Index(loc.Id)
	req := m.coord.Select(m.ctx, loc)
	return tea.Batch(m.fetchCmd(req), m.tickCmd())
}

func (m *Model) rehover() {
	if m.mouse == nil {
		return
	}
	m.view.PointerMove(m.view.CellToPoint(m.mouse[0], m.mouse[1]))
}

func (m *Model) mapRows() int {
	rows := m.height - chromeRows
	if rows < 0 {
		return 0
	}
	return rows
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.view.Resize(m.width, m.mapRows())
		m.rehover()

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case overlayLoadedMsg:
		m.baseErr = msg.err
		if msg.fc != nil {
			m.view.AddGeoJSONBelow(BASE_LAYER, msg.fc, highlight.OnEachFeature(highlight.BaseOverlayStyle))
		}

	case fetchResultMsg:
		m.coord.Apply(msg.result)

	case tickMsg:
		m.ticking = false
		m.view.Advance()
		m.rehover()
		return m, m.tickCmd()
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	markers := m.view.Markers()

	switch msg.String() {
	case "q", "ctrl+c":
		m.coord.Close()
		return tea.Quit
	case "tab":
		if len(markers) > 0 {
			m.focus = (m.focus + 1) % len(markers)
		}
	case "shift+tab":
		if len(markers) > 0 {
			if m.focus <= 0 {
				m.focus = len(markers)
			}
			m.focus--
		}
	case "enter":
		if m.focus >= 0 && m.focus < len(markers) {
			return m.selectLocation(markers[m.focus])
		}
	case "+", "=":
		m.view.ZoomBy(1)
		m.rehover()
	case "-", "_":
		m.view.ZoomBy(-1)
		m.rehover()
	case "up", "k":
		m.view.Pan(0, -m.config.PanRows)
		m.rehover()
	case "down", "j":
		m.view.Pan(0, m.config.PanRows)
		m.rehover()
	case "left", "h":
		m.view.Pan(-m.config.PanCols, 0)
		m.rehover()
	case "right", "l":
		m.view.Pan(m.config.PanCols, 0)
		m.rehover()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Y >= m.mapRows() || msg.X >= m.width {
		m.mouse = nil
		m.view.PointerLeave()
		return nil
	}

	m.mouse = &[2]int{msg.X, msg.Y}
	m.view.PointerMove(m.view.CellToPoint(msg.X, msg.Y))

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if loc, ok := m.view.MarkerAt(msg.X, msg.Y); ok {
			return m.selectLocation(loc)
		}
	}
	return nil
}

func baseOverlayDiagnostic(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, feature_repo.ErrEmptyResult):
		return "base overlay: no matching regions"
	case errors.Is(err, feature_repo.ErrNotFound):
		return "base overlay: not found"
	case errors.Is(err, feature_repo.ErrMalformedData):
		return "base overlay: malformed data"
	}
	return "base overlay: " + err.Error()
}

func New(ctx context.Context, logger *logrus.Logger, catalog *locations.Catalog, repo feature_repo.Repository, loader OverlayLoader, statsCollector selection.StatsCollector, config Config) (*Model, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if catalog == nil || loader == nil {
		return nil, errors.New("terminal map needs a catalog and an overlay loader")
	}

	view := mapview.NewMap(config.Center(), config.Zoom)
	view.SetMarkers(catalog.List())

	m := &Model{
		ctx:     ctx,
		logger:  logger,
		config:  config,
		catalog: catalog,
		loader:  loader,
		view:    view,
		focus:   -1,
	}

	coord, err := selection.NewCoordinator(selection.CoordinatorConfig{
		Logger:         logger,
		Repository:     repo,
		Viewport:       viewport.NewController(view, config.FlyDuration()),
		StatsCollector: statsCollector,
		Listener:       m,
	})
	if err != nil {
		return nil, err
	}
	m.coord = coord

	return m, nil
}
