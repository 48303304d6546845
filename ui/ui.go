package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

const maxPreviewLength = 60

var (
	breadcrumbStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#4D756F", Dark: "#A5FAEC"})
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#2E6B38", Dark: "#66F27D"})
	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#5C5C5C", Dark: "#9B9B9B"})
)

// Browse runs an interactive browser over tree until the user quits.
func Browse(title string, tree value.Value) error {
	program := tea.NewProgram(newBrowser(title, tree), tea.WithAltScreen())

	_, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}

	return nil
}

type frame struct {
	label   string
	entries *list.Model
}

type browser struct {
	Width  int
	Height int

	title  string
	frames []frame

	keyMap keyMap
	help   help.Model
}

func newBrowser(title string, tree value.Value) browser {
	keyMap := defaultKeyMap()

	screen := browser{
		title:  title,
		keyMap: keyMap,
		help:   help.New(),
	}

	screen.frames = []frame{{label: title, entries: newEntryList(tree, keyMap)}}

	return screen
}

func newEntryList(container value.Value, keyMap keyMap) *list.Model {
	newList := list.New(entryItems(container), entryItemDelegate{}, 20, 20)
	newList.SetShowTitle(false)
	newList.SetFilteringEnabled(false)
	newList.SetShowStatusBar(false)
	newList.SetShowHelp(false)

	newList.KeyMap = list.KeyMap{
		CursorUp:   keyMap.moveUp,
		CursorDown: keyMap.moveDown,
		NextPage:   keyMap.nextPage,
		PrevPage:   keyMap.previousPage,
	}

	return &newList
}

func entryItems(container value.Value) []list.Item {
	items := make([]list.Item, 0)

	switch container := container.(type) {
	case value.List:
		for i, item := range container {
			items = append(items, entryItem{label: fmt.Sprintf("[%d]", i), entry: item})
		}
	case value.Dict:
		for key, entry := range container.All() {
			items = append(items, entryItem{label: value.ByteString(key).String(), entry: entry})
		}
	default:
		items = append(items, entryItem{label: "value", entry: container})
	}

	return items
}

func (screen browser) Init() tea.Cmd {
	return nil
}

func (screen browser) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	command := tea.Batch()

	current := screen.frames[len(screen.frames)-1].entries

	var listCmd tea.Cmd
	*current, listCmd = current.Update(message)
	command = tea.Batch(command, listCmd)

	switch message := message.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(message, screen.keyMap.quit):
			command = tea.Batch(command, tea.Quit)
		case key.Matches(message, screen.keyMap.toggleHelp):
			screen.help.ShowAll = !screen.help.ShowAll
		case key.Matches(message, screen.keyMap.descend):
			screen = screen.descend()
		case key.Matches(message, screen.keyMap.ascend):
			if len(screen.frames) > 1 {
				screen.frames = screen.frames[:len(screen.frames)-1]
			}
		}
	case tea.WindowSizeMsg:
		screen.Width = message.Width
		screen.Height = message.Height
	}

	return screen, command
}

func (screen browser) descend() browser {
	current := screen.frames[len(screen.frames)-1].entries

	selected, ok := current.SelectedItem().(entryItem)
	if !ok {
		return screen
	}

	switch selected.entry.(type) {
	case value.List, value.Dict:
	default:
		return screen
	}

	logrus.WithField("path", screen.breadcrumb()+" / "+selected.label).Debug("opening container")

	frames := make([]frame, len(screen.frames), len(screen.frames)+1)
	copy(frames, screen.frames)
	screen.frames = append(frames, frame{label: selected.label, entries: newEntryList(selected.entry, screen.keyMap)})

	return screen
}

func (screen browser) breadcrumb() string {
	labels := make([]string, 0, len(screen.frames))
	for _, frame := range screen.frames {
		labels = append(labels, frame.label)
	}

	return strings.Join(labels, " / ")
}

func (screen browser) View() string {
	screen.help.Width = screen.Width

	header := breadcrumbStyle.Render(screen.breadcrumb())
	help := screen.help.View(screen.keyMap)

	current := screen.frames[len(screen.frames)-1].entries
	current.SetSize(screen.Width, screen.Height-lipgloss.Height(header)-lipgloss.Height(help))

	return header + "\n" + current.View() + "\n" + help
}

type entryItem struct {
	label string
	entry value.Value
}

func (item entryItem) FilterValue() string { return item.label }

type entryItemDelegate struct{}

func (d entryItemDelegate) Height() int {
	return 1
}

func (d entryItemDelegate) Spacing() int {
	return 0
}

func (d entryItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d entryItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(entryItem)
	if !ok {
		return
	}

	marker := "  "
	if index == m.Index() {
		marker = "┆ "
	}

	fmt.Fprintf(w, "%s%s  %s", marker, labelStyle.Render(item.label), summaryStyle.Render(summarize(item.entry)))
}

// summarize describes an entry in a single line.
func summarize(entry value.Value) string {
	switch entry := entry.(type) {
	case value.Integer:
		return entry.String()
	case value.ByteString:
		if text, ok := entry.Text(); ok {
			if runes := []rune(text); len(runes) > maxPreviewLength {
				return fmt.Sprintf("%q... (%s)", string(runes[:maxPreviewLength]), humanize.Bytes(uint64(len(entry))))
			}

			return entry.String()
		}

		return fmt.Sprintf("binary, %s", humanize.Bytes(uint64(len(entry))))
	case value.List:
		return fmt.Sprintf("list, %s items", humanize.Comma(int64(len(entry))))
	case value.Dict:
		return fmt.Sprintf("dictionary, %s entries", humanize.Comma(int64(entry.Len())))
	}

	return "<nil>"
}
