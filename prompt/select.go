package prompt

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	listWidth     = 60
	maxListHeight = 20
)

// Item is one entry of a selection list
type Item struct {
	Title       string
	Description string
}

// item adapts Item to the bubbles list
type item struct {
	title       string
	description string
	index       int
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.description }
func (i item) FilterValue() string { return i.title }

type selectModel struct {
	list     list.Model
	selected int
	aborted  bool
}

func newSelectModel(title string, items []Item) selectModel {
	listItems := make([]list.Item, len(items))
	for i, it := range items {
		listItems[i] = item{title: it.Title, description: it.Description, index: i}
	}

	// default delegate rows take three lines, plus title, status and help
	height := min(len(items)*3+8, maxListHeight)

	l := list.New(listItems, list.NewDefaultDelegate(), listWidth, height)
	l.Title = title
	l.SetShowStatusBar(false)

	return selectModel{list: l, selected: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(min(msg.Height-2, maxListHeight))

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.aborted = true
			return m, tea.Quit
		case "enter":
			if i, ok := m.list.SelectedItem().(item); ok {
				m.selected = i.index
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.selected >= 0 || m.aborted {
		return ""
	}
	return m.list.View()
}

// Selected returns the index of the chosen item
func (m selectModel) Selected() (int, error) {
	if m.selected < 0 {
		return -1, ErrUserAborted
	}
	return m.selected, nil
}

func (m selectModel) finished() bool {
	return m.selected >= 0 || m.aborted
}
