package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(9)
	descStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	tagStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "completed":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	case "failed":
		return errorStyle
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("192"))
	}
}
