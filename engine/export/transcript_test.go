// ABOUTME: Tests for the Markdown transcript exporter and its HTML preview rendering.
package export_test

import (
	"strings"
	"testing"

	"github.com/2389-research/ttrpg-engine/engine/core"
	"github.com/2389-research/ttrpg-engine/engine/export"
)

func TestTranscript_IncludesDayBoundariesAndRefocus(t *testing.T) {
	events := []core.Event{
		{ActorID: "dm", EventType: core.EventTypeUtterance, Content: "You enter the cave."},
		{ActorID: "system", EventType: core.EventTypeRefocus, Content: "[SYSTEM] Anti-ramble triggered."},
		{ActorID: "system", EventType: "time_advance", Content: "Day 2"},
		{ActorID: "player1", EventType: core.EventTypeUtterance, Content: "I light a torch."},
	}

	md := export.Transcript("Lost Mine", events)
	if !strings.Contains(md, "# Lost Mine") {
		t.Fatalf("expected campaign title heading, got:\n%s", md)
	}
	if !strings.Contains(md, "## Day 2") {
		t.Fatalf("expected day boundary heading, got:\n%s", md)
	}
	if !strings.Contains(md, "> [SYSTEM] Anti-ramble triggered.") {
		t.Fatalf("expected refocus event rendered as a blockquote, got:\n%s", md)
	}
	if !strings.Contains(md, "**player1:** I light a torch.") {
		t.Fatalf("expected utterance rendered with actor attribution, got:\n%s", md)
	}
}

func TestRenderHTML_ProducesHTMLTags(t *testing.T) {
	html, err := export.RenderHTML("# Title\n\nSome **text**.")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>") {
		t.Fatalf("expected rendered HTML tags, got:\n%s", html)
	}
}
