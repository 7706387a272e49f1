package render

// ContextMode is the context layer drawn beneath triplegs.
type ContextMode int

const (
	ContextNone ContextMode = iota
	ContextStaypoints
	ContextPositionfixes
	ContextBasemap
)

func (m ContextMode) String() string {
	switch m {
	case ContextStaypoints:
		return "staypoints"
	case ContextPositionfixes:
		return "positionfixes"
	case ContextBasemap:
		return "basemap"
	}
	return "none"
}

// ResolveContext picks the context layer for a tripleg render. The first
// match wins: staypoints, then positionfixes, then a bare basemap.
func ResolveContext(opts TriplegOptions) ContextMode {
	switch {
	case opts.Staypoints != nil:
		return ContextStaypoints
	case opts.Positionfixes != nil:
		return ContextPositionfixes
	case opts.Basemap:
		return ContextBasemap
	}
	return ContextNone
}
