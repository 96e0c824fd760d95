// ABOUTME: Markdown transcript export for a campaign as seen by one viewer (SPEC_FULL.md §10).
// ABOUTME: Grounded on spec/store/manager.go's generateMarkdown and spec/export/yaml.go's exporter shape.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/2389-research/ttrpg-engine/engine/core"
)

// Transcript renders a viewer's visible event stream as Markdown. A new heading, titled
// with the event's content, starts at every event whose type is "time_advance"; everything
// before the first such event is grouped under a generic "Session" heading. This only
// renders what the viewer could already see: it never relaxes the visibility lattice.
func Transcript(campaignName string, events []core.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", campaignName)

	heading := "Session"
	fmt.Fprintf(&b, "## %s\n\n", heading)

	for _, e := range events {
		switch e.EventType {
		case "time_advance":
			heading = e.Content
			fmt.Fprintf(&b, "\n## %s\n\n", heading)
		case core.EventTypeRefocus:
			fmt.Fprintf(&b, "> %s\n\n", e.Content)
		default:
			fmt.Fprintf(&b, "**%s:** %s\n\n", e.ActorID, e.Content)
		}
	}

	return b.String()
}

// RenderHTML converts a rendered Markdown transcript to HTML for browser preview.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render transcript markdown: %w", err)
	}
	return buf.String(), nil
}
