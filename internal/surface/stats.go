package surface

// Stats counts what happened on a surface since it was created.
type Stats struct {
	Ticks      int
	Taps       int
	Drags      int
	Flings     int
	Collisions int
	Edges      int // newly detected edge crossings
	Bounces    int // edge crossings answered by an automatic bounce
}
