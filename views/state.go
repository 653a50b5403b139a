package views

// ViewLoaded is a custom vaxis event posted when a view finishes loading data.
// It is sent from background goroutines via PostEvent to notify the UI.
type ViewLoaded struct {
	Tab int
	Err error
}

// DashboardUpdated is posted by animation frames and refreshes when the
// displayed KPI values change, triggering a redraw.
type DashboardUpdated struct{}

// NotificationExpired is posted when the toast's display time runs out.
type NotificationExpired struct{}

// VisibilityChanged is posted when the terminal gains or loses focus.
type VisibilityChanged struct {
	Visible bool
}
