package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/chants/internal/ui/styles"
)

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	errorSymbol = "✕"

	repeatAllSymbol = "⟳"
	repeatOneSymbol = "⟳1"
	shuffleSymbol   = "⤮"
)

func barStyle() lipgloss.Style { return styles.T().S().Panel }

func titleStyle() lipgloss.Style { return styles.T().S().Title }

func artistStyle() lipgloss.Style { return styles.T().S().Muted }

func metaStyle() lipgloss.Style { return styles.T().S().Subtle }

func progressTimeStyle() lipgloss.Style { return styles.T().S().Muted }

func progressBarEmpty() lipgloss.Style { return styles.T().S().Subtle }

func markerStyle() lipgloss.Style { return styles.T().S().Marker }

func bufferingStyle() lipgloss.Style { return styles.T().S().Buffering }

func errorStyle() lipgloss.Style { return styles.T().S().Error }
