package graph

// lane is one open column: a revision that has been announced by a child
// (or opened as a new head) and not displayed yet.
type lane struct {
	rev    Rev
	strong bool
	path   string
}

// edge is an outgoing edge of the revision being laid out.
type edge struct {
	rev    Rev
	strong bool
	path   string
}

// lanes holds the column and color state shared by both graphers.
type lanes struct {
	active    []lane
	colors    map[Rev]Color
	nextColor Color
}

func newLanes() *lanes {
	return &lanes{colors: make(map[Rev]Color)}
}

func (l *lanes) newColor() Color {
	c := l.nextColor
	l.nextColor++
	return c
}

func (l *lanes) indexOf(rev Rev) int {
	return findLane(l.active, rev)
}

func (l *lanes) lookup(rev Rev) (lane, bool) {
	if i := l.indexOf(rev); i >= 0 {
		return l.active[i], true
	}
	return lane{}, false
}

// maxRev returns the newest revision still waiting in a column, or NullRev.
func (l *lanes) maxRev() Rev {
	maxRev := NullRev
	for _, ln := range l.active {
		if ln.rev > maxRev {
			maxRev = ln.rev
		}
	}
	return maxRev
}

// step lays out rev and its outgoing edges, then advances to the next row.
//
// A revision that no column is waiting for opens a new column with a fresh
// color. Its own column is replaced by the edges' targets that are not open
// yet; the first of those inherits the revision's color and every other one
// gets a new color.
func (l *lanes) step(rev Rev, edges []edge) (column int, color Color, lines []LineSegment, width int) {
	column = l.indexOf(rev)
	if column < 0 {
		l.active = append(l.active, lane{rev: rev, strong: true})
		column = len(l.active) - 1
		l.colors[rev] = l.newColor()
	}
	color = l.colors[rev]

	next := make([]lane, 0, len(l.active)+len(edges))
	next = append(next, l.active[:column]...)
	inserted := 0
	for _, e := range edges {
		if i := findLane(next, e.rev); i >= 0 {
			next[i].strong = next[i].strong || e.strong
			continue
		}
		if i := findLane(l.active[column+1:], e.rev); i >= 0 {
			// promoted below, once the tail is copied
			continue
		}
		if inserted == 0 {
			l.colors[e.rev] = color
		} else {
			l.colors[e.rev] = l.newColor()
		}
		next = append(next, lane{rev: e.rev, strong: e.strong, path: e.path})
		inserted++
	}
	tail := len(next)
	next = append(next, l.active[column+1:]...)
	for _, e := range edges {
		if e.strong {
			if i := findLane(next[tail:], e.rev); i >= 0 {
				next[tail+i].strong = true
			}
		}
	}

	nextIndex := make(map[Rev]int, len(next))
	for i, ln := range next {
		nextIndex[ln.rev] = i
	}

	lines = make([]LineSegment, 0, len(l.active)+len(edges))
	for i, ln := range l.active {
		if i == column {
			for _, e := range edges {
				lines = append(lines, LineSegment{From: i, To: nextIndex[e.rev], Color: l.colors[e.rev], Strong: e.strong})
			}
			continue
		}
		lines = append(lines, LineSegment{From: i, To: nextIndex[ln.rev], Color: l.colors[ln.rev], Strong: ln.strong})
	}

	width = max(len(l.active), len(next))
	l.active = next
	return column, color, lines, width
}

func findLane(ls []lane, rev Rev) int {
	for i, ln := range ls {
		if ln.rev == rev {
			return i
		}
	}
	return -1
}
