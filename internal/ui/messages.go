package ui

import (
	"suggestbox/internal/config"
	"suggestbox/internal/domain"
)

// ConfigReloadedMsg carries a freshly loaded config into the running program
type ConfigReloadedMsg struct {
	Config *config.Config
}

// searchResultMsg contains the result of a recommendation request
type searchResultMsg struct {
	token   uint64
	title   string
	results []domain.Recommendation
	err     error
}

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct {
	token uint64
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
