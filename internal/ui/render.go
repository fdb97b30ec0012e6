package ui

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/idilsaglam/tasks/internal/model"
)

// MaxDescriptionWidth is where long descriptions get cut with "...".
const MaxDescriptionWidth = 80

// Stats counts done and pending tasks.
func Stats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

// Header is the counts line shown above task lists.
func Header(title string, tasks []model.Task) string {
	d, p := Stats(tasks)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		current.Title.Render(title),
		current.Success.Render(current.SymDone), d,
		current.Pending.Render(current.SymPending), p,
		current.Accent.Render("Total"), len(tasks),
	)
}

// Summary is the full panel body: header, progress bar and task lines.
func Summary(title string, tasks []model.Task, group, showIDs bool) []string {
	d, p := Stats(tasks)
	lines := []string{
		Header(title, tasks),
		current.Muted.Render(ProgressBar(d, d+p, 28)),
		"",
	}
	if group {
		lines = append(lines, GroupLines(tasks, showIDs)...)
	} else {
		lines = append(lines, TaskLines(tasks, showIDs)...)
	}
	return lines
}

// Box is the checkbox symbol for a task.
func Box(t model.Task) string {
	if t.Done {
		return current.Success.Render(current.BoxChecked)
	}
	return current.Muted.Render(current.BoxUnchecked)
}

// Truncate shortens s to MaxDescriptionWidth terminal cells.
func Truncate(s string) string {
	return runewidth.Truncate(s, MaxDescriptionWidth, "...")
}

// TaskLines renders one numbered line per task, in order.
func TaskLines(tasks []model.Task, showIDs bool) []string {
	if len(tasks) == 0 {
		return []string{current.Muted.Render("no tasks")}
	}
	out := make([]string, 0, len(tasks))
	for i, t := range tasks {
		idx := current.Muted.Render(fmt.Sprintf("%2d.", i+1))
		text := Truncate(t.Description)
		if t.Done {
			text = current.Done.Render(text)
		}
		line := fmt.Sprintf("%s %s %s", idx, Box(t), text)
		if showIDs {
			line += "  " + current.Muted.Render(t.ID.String())
		}
		out = append(out, line)
	}
	return out
}

// GroupLines renders pending tasks first, then done ones.
func GroupLines(tasks []model.Task, showIDs bool) []string {
	var pend, done []model.Task
	for _, t := range tasks {
		if t.Done {
			done = append(done, t)
		} else {
			pend = append(pend, t)
		}
	}
	var lines []string
	lines = append(lines, current.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, current.Muted.Render("(none)"))
	} else {
		lines = append(lines, TaskLines(pend, showIDs)...)
	}
	lines = append(lines, "")
	lines = append(lines, current.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, current.Muted.Render("(none)"))
	} else {
		lines = append(lines, TaskLines(done, showIDs)...)
	}
	return lines
}
