package tui

import (
	"github.com/charmbracelet/lipgloss"
)

type Header struct {
	title   string
	version string
	status  string
	err     string
	width   int
}

func NewHeader(title, version string) *Header {
	return &Header{
		title:   title,
		version: version,
	}
}

func (h *Header) SetStatus(status string) {
	h.status = status
	h.err = ""
}

func (h *Header) SetError(err error) {
	h.status = ""
	if err == nil {
		h.err = ""
		return
	}
	h.err = err.Error()
}

func (h *Header) View() string {
	availableSpace := h.width

	header := HeaderStyle.Render(h.title)
	availableSpace -= lipgloss.Width(header)

	version := HeaderIndicatorStyle.Render(h.version)
	availableSpace -= lipgloss.Width(version)

	var status string
	switch {
	case h.err != "":
		status = ErrorStyle.Render(h.err)
	case h.status != "":
		status = SuccessStyle.Render(h.status)
	}
	availableSpace -= lipgloss.Width(status)

	spacer := lipgloss.NewStyle().Width(max(availableSpace, 0)).Render("")
	return lipgloss.JoinHorizontal(lipgloss.Left, header, spacer, status, version)
}

func (h *Header) SetWidth(width int) {
	h.width = width
}
