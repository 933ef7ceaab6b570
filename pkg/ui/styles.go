package ui

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every styled surface.
var (
	PrimaryColor   = lipgloss.Color("#2DD4BF")
	SecondaryColor = lipgloss.Color("#F59E0B")

	HighColor    = lipgloss.Color("#FF6B6B")
	MediumColor  = lipgloss.Color("#FFD93D")
	IgnoredColor = lipgloss.Color("#6C7086")

	SuccessColor = lipgloss.Color("#6BCB77")
	WarningColor = lipgloss.Color("#FFA500")
	ErrorColor   = lipgloss.Color("#FF4444")
	MutedColor   = lipgloss.Color("#6C7086")

	// Comparison bucket colors. Both parties finding an issue is the
	// healthy case, neither finding it the alarming one.
	BaselineOnlyColor = lipgloss.Color("#F59E0B")
	TopOnlyColor      = lipgloss.Color("#4D96FF")
	BothColor         = lipgloss.Color("#6BCB77")
	NeitherColor      = lipgloss.Color("#FF4444")

	GoldColor   = lipgloss.Color("#FFD700")
	SilverColor = lipgloss.Color("#C0C0C0")
	BronzeColor = lipgloss.Color("#CD7F32")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	BannerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	VersionStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor).
			MarginTop(1)

	ConfigLabelStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Width(18)

	ConfigValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF"))

	StatLabelStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	StatValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	BracketStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	FailureStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	DividerStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(MutedColor)

	ProgressValueStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)
)

// SeverityStyle returns the style for a finding severity tier.
func SeverityStyle(severity string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch severity {
	case "High", "high":
		return base.Foreground(HighColor)
	case "Medium", "medium":
		return base.Foreground(MediumColor)
	default:
		return base.Foreground(IgnoredColor).Bold(false)
	}
}

// CategoryStyle returns the style for a comparison bucket name.
func CategoryStyle(category string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch category {
	case "baseline_only":
		return base.Foreground(BaselineOnlyColor)
	case "top_wardens_only":
		return base.Foreground(TopOnlyColor)
	case "both":
		return base.Foreground(BothColor)
	case "neither":
		return base.Foreground(NeitherColor)
	default:
		return base.Foreground(MutedColor).Bold(false)
	}
}

// RankStyle returns the style for a leaderboard rank. The first three
// places get medal colors.
func RankStyle(rank int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	switch rank {
	case 1:
		return base.Foreground(GoldColor)
	case 2:
		return base.Foreground(SilverColor)
	case 3:
		return base.Foreground(BronzeColor)
	default:
		return lipgloss.NewStyle().Foreground(MutedColor)
	}
}
