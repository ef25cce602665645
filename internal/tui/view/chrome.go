package view

import (
	"fmt"
	"strings"

	tuitheme "github.com/glabrego/postdeck/internal/tui/theme"
)

func Toolbar(inReader bool) string {
	if inReader {
		return "←/→ older/newer | drag to swipe | j/k scroll | o open | y copy link | esc close | ? help"
	}
	return "arrows/hjkl move | enter open | c compact | t time | r refresh | ? help | q quit"
}

func Header(title string, shown int, inReader bool, th tuitheme.Theme) string {
	mode := "deck"
	if inReader {
		mode = "reader"
	}
	return th.Title.Render(title) + " " + th.ModePill.Render(mode) + " " + th.MetaValue.Render(fmt.Sprintf("%d posts", shown))
}

func Footer(shown int, compact, relative bool, source string, th tuitheme.Theme) string {
	layout := "cards"
	if compact {
		layout = "compact"
	}
	dates := "absolute"
	if relative {
		dates = "relative"
	}
	parts := []string{
		th.MetaLabel.Render("layout") + " " + th.MetaValue.Render(layout),
		th.MetaLabel.Render("dates") + " " + th.MetaValue.Render(dates),
		th.MetaValue.Render(fmt.Sprintf("%d shown", shown)),
	}
	if source != "" {
		parts = append(parts, th.MetaLabel.Render("source")+" "+th.MetaValue.Render(source))
	}
	return strings.Join(parts, " • ")
}

func Message(loading bool, hasWarning bool, status, warning, spinner string, th tuitheme.Theme) string {
	state := "idle"
	if loading {
		state = "loading"
	}
	if hasWarning {
		state = "warning"
	}
	main := "Ready"
	if status != "" {
		main = status
	} else if hasWarning {
		main = warning
	}
	stateLabel := th.StateIdle.Render("state")
	switch state {
	case "warning":
		stateLabel = th.StateWarn.Render("state")
	case "loading":
		stateLabel = th.StateLoad.Render("state")
		if spinner != "" {
			state = spinner + " " + state
		}
	}
	return fmt.Sprintf("%s: %s | %s", stateLabel, state, th.MetaValue.Render(main))
}
