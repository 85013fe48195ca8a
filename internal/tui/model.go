// Package tui renders the task board: one bucket per status, backed by the
// entity store's selectors.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/store"
	"github.com/taskdeck/taskdeck/internal/syncer"
)

// taskItem adapts a task to the bubbles list item interface.
type taskItem struct {
	task *domain.Task
}

func (i taskItem) Title() string {
	return fmt.Sprintf("#%s %s", i.task.ID, i.task.Title)
}

func (i taskItem) Description() string {
	if n := len(i.task.SubtaskIDs); n > 0 {
		return fmt.Sprintf("%s · %d subtask(s)", i.task.Priority, n)
	}
	return string(i.task.Priority)
}

func (i taskItem) FilterValue() string {
	return i.task.Title
}

// syncedMsg signals that a refresh completed.
type syncedMsg struct{}

// Model is the board's bubbletea model.
type Model struct {
	store       *store.Store
	syncer      *syncer.Controller
	projectRoot string
	list        list.Model
	keys        KeyMap
	statuses    []domain.Status
	bucket      int
	width       int
	height      int
}

// NewModel creates the board model over the given store.
func NewModel(st *store.Store, sc *syncer.Controller, projectRoot string) Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	m := Model{
		store:       st,
		syncer:      sc,
		projectRoot: projectRoot,
		list:        l,
		keys:        DefaultKeyMap(),
		statuses:    domain.AllStatuses(),
	}
	m.reload()
	return m
}

// Init starts the initial sync.
func (m Model) Init() tea.Cmd {
	return m.syncCmd()
}

// syncCmd refreshes the store from the task file off the UI goroutine.
func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		m.syncer.SyncWithFileSystem(context.Background(), m.projectRoot)
		return syncedMsg{}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case syncedMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.PrevBucket):
			m.bucket = (m.bucket + len(m.statuses) - 1) % len(m.statuses)
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.NextBucket):
			m.bucket = (m.bucket + 1) % len(m.statuses)
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.syncCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	m.updateSelection()
	return m, cmd
}

// reload repopulates the list from the active status bucket.
func (m *Model) reload() {
	tasks := m.store.TasksByStatus(m.statuses[m.bucket])
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t})
	}
	m.list.SetItems(items)
	m.updateSelection()
}

// updateSelection mirrors the cursor into the store's selection state.
func (m *Model) updateSelection() {
	if item, ok := m.list.SelectedItem().(taskItem); ok {
		m.store.SelectTask(item.task.ID)
		return
	}
	m.store.SelectTask("")
}

// View renders the board.
func (m Model) View() string {
	var tabs []string
	counts := m.store.Counts()
	for i, st := range m.statuses {
		label := fmt.Sprintf("%s (%d)", st.Display(), counts[st])
		if i == m.bucket {
			tabs = append(tabs, activeTab.Foreground(StatusColor(st)).Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}

	header := headerStyle.Render("taskdeck") + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	footer := helpStyle.Render("←/→ status · ↑/↓ move · r refresh · q quit")
	if msg := m.store.Err(); msg != "" {
		footer = errorStyle.Render(msg)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), footer)
}
