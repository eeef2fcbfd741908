package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestLayout_ContentHeight(t *testing.T) {
	assert.Equal(t, 38, NewLayout(120, 40).ContentHeight())
	assert.Equal(t, MinContentHeight, NewLayout(120, 3).ContentHeight())
	assert.Equal(t, MinContentHeight, NewLayout(0, 0).ContentHeight())
}

func TestLayout_RenderHeader(t *testing.T) {
	l := NewLayout(100, 20)

	tests := []struct {
		name   string
		header Header
		want   string
	}{
		{"results", Header{Team: "Reliance", Issues: 3}, "Reliance · 3 issues"},
		{"single issue", Header{Team: "Reliance", Issues: 1}, "Reliance · 1 issue"},
		{"fetching", Header{Team: "TbM Ocean", State: "fetching"}, "TbM Ocean · fetching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := l.RenderHeader(tt.header)
			assert.Contains(t, out, Title)
			assert.Contains(t, out, tt.want)
			assert.Equal(t, 100, lipgloss.Width(out))
		})
	}

	assert.NotContains(t, l.RenderHeader(Header{}), "·")
}

func TestLayout_RenderWithFrameKeepsStatusBarLast(t *testing.T) {
	l := NewLayout(40, 10)
	content := strings.Repeat("row\n", 50)

	out := l.RenderWithFrame("HEADER", content, "STATUS")
	lines := strings.Split(out, "\n")

	assert.Len(t, lines, 10)
	assert.Equal(t, "HEADER", strings.TrimSpace(lines[0]))
	assert.Equal(t, "STATUS", strings.TrimSpace(lines[len(lines)-1]))
}
