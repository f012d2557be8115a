package app

import "github.com/charmbracelet/lipgloss"

// layoutDims holds computed layout dimensions for the UI.
type layoutDims struct {
	width            int
	height           int
	bodyHeight       int
	leftWidth        int
	rightWidth       int
	leftInnerWidth   int
	rightInnerWidth  int
	explorerHeight   int
	infoHeight       int
	explorerInnerH   int
	infoInnerH       int
	rightInnerHeight int
}

// setWindowSize updates the window dimensions and applies the layout.
func (m *Model) setWindowSize(width, height int) {
	m.windowWidth = width
	m.windowHeight = height
	m.applyLayout(m.computeLayout())
}

func (m *Model) basePaneStyle() lipgloss.Style {
	return lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
}

// computeLayout splits the body into the explorer and info column on the left
// and the viewer on the right.
func (m *Model) computeLayout() layoutDims {
	width := m.windowWidth
	height := m.windowHeight
	if width <= 0 {
		width = 120
	}
	if height <= 0 {
		height = 40
	}

	headerHeight, footerHeight := 1, 1
	bodyHeight := max(height-headerHeight-footerHeight, 8)
	frameX := m.basePaneStyle().GetHorizontalFrameSize()
	frameY := m.basePaneStyle().GetVerticalFrameSize()

	leftWidth := max(width*35/100, minLeftPaneWidth)
	rightWidth := max(width-leftWidth, minRightPaneWidth)
	if leftWidth+rightWidth > width {
		leftWidth = max(width-rightWidth, 0)
	}

	infoHeight := max(bodyHeight/3, frameY+5)
	explorerHeight := max(bodyHeight-infoHeight, frameY+1)

	return layoutDims{
		width:            width,
		height:           height,
		bodyHeight:       bodyHeight,
		leftWidth:        leftWidth,
		rightWidth:       rightWidth,
		leftInnerWidth:   max(1, leftWidth-frameX),
		rightInnerWidth:  max(1, rightWidth-frameX),
		explorerHeight:   explorerHeight,
		infoHeight:       infoHeight,
		explorerInnerH:   max(1, explorerHeight-frameY),
		infoInnerH:       max(1, infoHeight-frameY),
		rightInnerHeight: max(1, bodyHeight-frameY),
	}
}

func (m *Model) applyLayout(layout layoutDims) {
	m.viewer.Width = layout.rightInnerWidth
	m.viewer.Height = max(layout.rightInnerHeight-2, 1)
}
