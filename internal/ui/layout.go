package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width to show the list beside an
	// open detail overlay.
	LayoutSplitWidth = 90
)

// ListPaneWidth is the width of the list column in split layouts.
const ListPaneWidth = 34
