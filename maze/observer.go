package maze

// Observer receives the events emitted while a maze is carved and searched.
// Callbacks run synchronously inside a step and must not mutate the grid.
type Observer interface {
	// CellVisited is called each time a cell becomes the carver's current cell.
	CellVisited(c Pos)
	// WallCarved is called whenever the wall between a and b (a's side d) is removed.
	WallCarved(a, b Pos, d Direction)
	// MazeComplete is called once, when carving finishes.
	MazeComplete(entry, exit Pos)
	// SearchStep is called on every pathfinder step with copies of the open and closed sets.
	SearchStep(current Pos, open, closed []Pos)
	// PathFound is the successful terminal pathfinder event.
	PathFound(path []Pos)
	// PathNotFound is the failed terminal pathfinder event.
	PathNotFound()
}

// NopObserver ignores every event. Embed it to implement only some callbacks.
type NopObserver struct{}

func (NopObserver) CellVisited(Pos) {}
func (NopObserver) WallCarved(Pos, Pos, Direction) {}
func (NopObserver) MazeComplete(Pos, Pos) {}
func (NopObserver) SearchStep(Pos, []Pos, []Pos) {}
func (NopObserver) PathFound([]Pos) {}
func (NopObserver) PathNotFound() {}

var _ Observer = NopObserver{}

// Observers fans every event out to each of its members in order.
type Observers []Observer

func (os Observers) CellVisited(c Pos) {
	for _, o := range os {
		o.CellVisited(c)
	}
}

func (os Observers) WallCarved(a, b Pos, d Direction) {
	for _, o := range os {
		o.WallCarved(a, b, d)
	}
}

func (os Observers) MazeComplete(entry, exit Pos) {
	for _, o := range os {
		o.MazeComplete(entry, exit)
	}
}

func (os Observers) SearchStep(current Pos, open, closed []Pos) {
	for _, o := range os {
		o.SearchStep(current, open, closed)
	}
}

func (os Observers) PathFound(path []Pos) {
	for _, o := range os {
		o.PathFound(path)
	}
}

func (os Observers) PathNotFound() {
	for _, o := range os {
		o.PathNotFound()
	}
}
