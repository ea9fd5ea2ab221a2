// Package ui holds layout values and helpers shared by the panels.
package ui

const (
	// ScrollMargin is how many rows stay visible past the cursor.
	ScrollMargin = 2

	// BorderSize is what a rounded border takes on each axis.
	BorderSize = 2

	// PanelOverhead is the rows a panel spends outside its list:
	// border, title row and separator.
	PanelOverhead = BorderSize + 2
)
