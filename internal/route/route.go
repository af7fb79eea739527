// Package route maps URL paths to the application's pages.
package route

// Page is one of the application's top-level screens.
type Page int

const (
	NotFound Page = iota
	Landing
	Tasks
	Stats
)

// Paths of the navigable pages.
const (
	PathLanding = "/"
	PathTasks   = "/app"
	PathStats   = "/stats"
)

// Resolve returns the page for an exact path match, or NotFound.
func Resolve(path string) Page {
	switch path {
	case PathLanding:
		return Landing
	case PathTasks:
		return Tasks
	case PathStats:
		return Stats
	}
	return NotFound
}

// Path returns the URL path of the page. NotFound has no path.
func (p Page) Path() string {
	switch p {
	case Landing:
		return PathLanding
	case Tasks:
		return PathTasks
	case Stats:
		return PathStats
	}
	return ""
}

// Title is the label used in navigation.
func (p Page) Title() string {
	switch p {
	case Landing:
		return "Landing"
	case Tasks:
		return "App"
	case Stats:
		return "Stats"
	}
	return "Not found"
}

func (p Page) String() string { return p.Title() }

// Nav lists the pages shown in the navigation header, in order.
func Nav() []Page {
	return []Page{Landing, Tasks, Stats}
}
