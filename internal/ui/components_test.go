package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{name: "fits", in: "short", width: 10, want: "short"},
		{name: "exact", in: "exact", width: 5, want: "exact"},
		{name: "cut", in: "a longer title", width: 6, want: "a lon…"},
		{name: "runes", in: "héllo wörld", width: 4, want: "hél…"},
		{name: "one", in: "abc", width: 1, want: "…"},
		{name: "zero", in: "abc", width: 0, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.width))
		})
	}
}

func TestTriCheckbox(t *testing.T) {
	assert.Equal(t, "[ ]", TriCheckbox(selection.None))
	assert.Equal(t, "[✓]", TriCheckbox(selection.All))
	assert.Equal(t, "[~]", TriCheckbox(selection.Mixed))
}

func TestLabelChip(t *testing.T) {
	valid := LabelChip(models.Label{Name: "bug", Color: "d73a4a"})
	assert.Contains(t, valid, "bug")

	invalid := LabelChip(models.Label{Name: "weird", Color: "zzz"})
	assert.Equal(t, "(weird)", invalid)
}

func TestPRRow(t *testing.T) {
	open := models.PullRequest{
		ID: "PR_1", Title: "Add feature", URL: "https://github.com/o/r/pull/1",
		State: models.PRStateOpen, ReviewDecision: models.ReviewApproved,
		HeadCheck: models.CheckSuccess, MergeCheck: models.CheckNotAvailable,
	}
	merged := open
	merged.State = models.PRStateMerged

	t.Run("checked open row", func(t *testing.T) {
		row := PRRow(open, true, true, 40)
		assert.Contains(t, row, "▶")
		assert.Contains(t, row, "[✓]")
		assert.Contains(t, row, "Add feature")
		assert.Contains(t, row, "o/r/pull/1")
	})

	t.Run("ineligible row is disabled even when flagged", func(t *testing.T) {
		row := PRRow(merged, true, false, 40)
		assert.Contains(t, row, "[-]")
		assert.NotContains(t, row, "[✓]")
		assert.True(t, strings.HasPrefix(row, "  "))
	})
}

func TestYesNoButtons(t *testing.T) {
	yes := YesNoButtons(0)
	assert.Contains(t, yes, ">  YES")
	assert.NotContains(t, yes, ">  NO")

	no := YesNoButtons(1)
	assert.Contains(t, no, ">  NO")
}

func TestSpinnerWraps(t *testing.T) {
	assert.Equal(t, Spinner(0), Spinner(len(SpinnerFrames)))
}

func TestRenderBanner(t *testing.T) {
	assert.NotContains(t, RenderBanner(false), "DRY RUN")
	assert.Contains(t, RenderBanner(true), "DRY RUN")
}
