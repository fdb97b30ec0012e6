package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/registry"
	"github.com/idilsaglam/tasks/internal/ui"
)

// listItem adapts model.Task to bubbles/list.Item
type listItem struct{ task model.Task }

func (i listItem) Title() string       { return i.task.Description }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.task.Description }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	text := ui.Truncate(it.task.Description)
	if it.task.Done {
		text = ui.Current().Done.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+ui.Box(it.task)+" "+text)
}

// Model is the Bubble Tea model; every change goes straight to the registry.
type Model struct {
	reg     *registry.Registry
	list    list.Model
	changed bool

	width, height int

	// Inline add
	adding bool
	ti     textinput.Model
	errMsg string
}

// New builds the interactive list over reg.
func New(reg *registry.Registry) Model {
	l := list.New(nil, itemDelegate{}, 76, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.Current().Title
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("task", "tasks")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	doneBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done"))
	delBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	extra := func() []key.Binding { return []key.Binding{addBind, doneBind, delBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task description..."
	ti.CharLimit = 200

	m := Model{reg: reg, list: l, ti: ti, width: 80, height: 24}
	m.refresh()
	return m
}

// Changed reports whether the session touched the registry.
func (m Model) Changed() bool { return m.changed }

// Run starts the program on the alternate screen and reports whether the
// registry changed before the user quit.
func Run(reg *registry.Registry) (bool, error) {
	p := tea.NewProgram(New(reg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return false, nil
	}
	return fm.changed, nil
}

// refresh reloads list items and the header from the registry.
func (m *Model) refresh() {
	tasks := m.reg.List()
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, listItem{task: t})
	}
	m.list.SetItems(items)
	m.list.Title = ui.Header("Tasks", tasks)
}

func (m *Model) selected() (model.Task, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.task, ok
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		return m, nil
	}
	if m.adding {
		return m.updateAdding(msg)
	}

	// Let the filter input have every key while the user is typing a filter.
	if km, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch km.String() {
		case "q", "esc":
			if m.list.FilterState() == list.FilterApplied {
				break
			}
			return m, tea.Quit
		case " ":
			if t, ok := m.selected(); ok && !t.Done {
				if done, err := m.reg.MarkDoneByID(t.ID); err == nil && done {
					m.changed = true
					m.refresh()
				}
			}
			return m, nil
		case "d":
			if t, ok := m.selected(); ok {
				if removed, err := m.reg.RemoveByID(t.ID); err == nil && removed {
					m.changed = true
					m.refresh()
				}
			}
			return m, nil
		case "a":
			m.adding = true
			m.errMsg = ""
			m.ti.SetValue("")
			return m, m.ti.Focus()
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			desc := strings.TrimSpace(m.ti.Value())
			if _, err := m.reg.Add(desc); err != nil {
				m.errMsg = "Description cannot be empty"
				return m, nil
			}
			m.changed = true
			m.refresh()
			m.list.Select(len(m.list.Items()) - 1)
			m.stopAdding()
			return m, nil
		case "esc":
			m.stopAdding()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) stopAdding() {
	m.adding = false
	m.errMsg = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) View() string {
	listHeight := m.height - 4
	if m.adding {
		listHeight = m.height - 6
	}
	m.list.SetSize(m.width-4, listHeight)

	content := m.list.View()
	if m.adding {
		bar := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.Current().BorderColor).
			Padding(0, 1)
		title := "Add new task"
		if m.errMsg != "" {
			title += " - " + ui.Current().Error.Render(m.errMsg)
		}
		content += "\n" + bar.Render(title+"\n"+m.ti.View())
	}
	return ui.PanelString(content)
}
