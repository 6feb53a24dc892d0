package tui

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// screen holds the cell geometry shared by View and mouse handling.
type screen struct {
	contentW, contentH int
	sidebarW           int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) screen() screen {
	s := screen{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	if m.showSidebar {
		s.sidebarW = sidebarWidth
		s.mapX = sidebarWidth + 1
	}
	s.mapW = max(10, s.contentW-s.sidebarW-1)
	s.mapH = s.contentH
	return s
}

func (s screen) inMap(x, y int) bool {
	return x >= s.mapX && x < s.mapX+s.mapW && y >= s.mapY && y < s.mapY+s.mapH
}
