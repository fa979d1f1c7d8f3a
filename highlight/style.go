package highlight

type Style struct {
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fill_opacity"`
}

var (
	BaseOverlayStyle     = Style{Color: "#0066cc", Weight: 2, FillOpacity: 0.1}
	LocationOverlayStyle = Style{Color: "#444444", Weight: 1, FillOpacity: 0.2}

	// HoverWeight and HoverFillOpacity are the emphasized values every
	// hovered layer gets. The color stays the layer's own.
	HoverWeight      = 3
	HoverFillOpacity = 0.4
)

func (s Style) Emphasized() Style {
	s.Weight = HoverWeight
	s.FillOpacity = HoverFillOpacity
	return s
}
