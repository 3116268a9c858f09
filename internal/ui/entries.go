package ui

import (
	"fmt"
	"sort"
	"strings"

	"daylog/internal/config"
	"daylog/internal/day"
	"daylog/internal/search"
	"daylog/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type entryMode int

const (
	modeList entryMode = iota
	modeSearch
	modeNote
	modeTags
)

// EntriesPane lists the entries of the selected day, or every entry matching
// the search box when a query is set. Newest first in both cases.
type EntriesPane struct {
	all    []storage.Entry
	shown  []storage.Entry
	date   day.Date
	query  string
	cursor int

	mode        entryMode
	pendingNote string
	search      textinput.Model
	note        textinput.Model
	tags        textinput.Model

	focused bool
	width   int
	height  int

	store  storage.EntryStore
	userID string
	styles *Styles

	keys      EntryKeyMap
	inputKeys InputKeyMap
}

// NewEntriesPane creates an entries pane showing date.
func NewEntriesPane(store storage.EntryStore, userID string, styles *Styles, keyCfg *config.KeysConfig, date day.Date) *EntriesPane {
	newInput := func(placeholder string, limit int) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = limit
		ti.Width = 40
		return ti
	}
	return &EntriesPane{
		date:      date,
		search:    newInput("Search notes and tags", 100),
		note:      newInput("What did you get done?", 5000),
		tags:      newInput("tags, comma or space separated", 200),
		store:     store,
		userID:    userID,
		styles:    styles,
		keys:      NewEntryKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetEntries replaces the user's full history.
func (p *EntriesPane) SetEntries(entries []storage.Entry) {
	p.all = entries
	p.refilter()
}

// SetDate changes the day whose entries are listed.
func (p *EntriesPane) SetDate(d day.Date) {
	if d == p.date {
		return
	}
	p.date = d
	p.cursor = 0
	p.refilter()
}

// Date returns the listed day.
func (p *EntriesPane) Date() day.Date { return p.date }

// Query returns the active search query.
func (p *EntriesPane) Query() string { return p.query }

// Shown returns the entries currently listed.
func (p *EntriesPane) Shown() []storage.Entry { return p.shown }

// IsInputMode reports whether a text field has the keyboard.
func (p *EntriesPane) IsInputMode() bool { return p.mode != modeList }

// IsAdding reports whether an entry is being composed.
func (p *EntriesPane) IsAdding() bool { return p.mode == modeNote || p.mode == modeTags }

// IsSearching reports whether the search box has the keyboard.
func (p *EntriesPane) IsSearching() bool { return p.mode == modeSearch }

// Selected returns the entry under the cursor, or nil.
func (p *EntriesPane) Selected() *storage.Entry {
	if p.cursor < 0 || p.cursor >= len(p.shown) {
		return nil
	}
	e := p.shown[p.cursor]
	return &e
}

// SetSize sets the pane dimensions.
func (p *EntriesPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	for _, ti := range []*textinput.Model{&p.search, &p.note, &p.tags} {
		ti.Width = max(10, width-12)
	}
}

// SetFocused sets whether this pane is focused.
func (p *EntriesPane) SetFocused(focused bool) { p.focused = focused }

// StartAdding opens the note field for a new entry on the listed day.
func (p *EntriesPane) StartAdding() tea.Cmd {
	p.mode = modeNote
	p.note.Reset()
	p.tags.Reset()
	p.pendingNote = ""
	p.note.Focus()
	return textinput.Blink
}

func (p *EntriesPane) cancelInput() {
	p.mode = modeList
	p.note.Blur()
	p.tags.Blur()
	p.search.Blur()
	p.note.Reset()
	p.tags.Reset()
	p.pendingNote = ""
}

func (p *EntriesPane) refilter() {
	if q := strings.TrimSpace(p.query); q != "" {
		p.shown = search.Apply(p.all, search.Filter{Query: q})
	} else {
		p.shown = entriesOn(p.all, p.date)
	}
	if p.cursor >= len(p.shown) {
		p.cursor = max(0, len(p.shown)-1)
	}
}

// entriesOn returns the entries dated d, most recently created first.
func entriesOn(entries []storage.Entry, d day.Date) []storage.Entry {
	date := d.String()
	var out []storage.Entry
	for _, e := range entries {
		if e.Date == date {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Update handles messages for the entries pane.
func (p *EntriesPane) Update(msg tea.Msg) tea.Cmd {
	if p.mode != modeList {
		return p.updateInput(msg)
	}
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.shown) > 0 {
				p.cursor = min(p.cursor+1, len(p.shown)-1)
			}

		case key.Matches(msg, p.keys.Up):
			p.cursor = max(p.cursor-1, 0)

		case key.Matches(msg, p.keys.Add):
			return p.StartAdding()

		case key.Matches(msg, p.keys.Search):
			p.mode = modeSearch
			p.search.SetValue(p.query)
			p.search.CursorEnd()
			p.search.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.Delete):
			if e := p.Selected(); e != nil {
				return deleteEntryCmd(p.store, p.userID, e.ID)
			}
		}
	}
	return nil
}

func (p *EntriesPane) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, p.inputKeys.Cancel):
			if p.mode == modeSearch {
				p.query = ""
				p.search.Reset()
				p.refilter()
			}
			p.cancelInput()
			return nil

		case key.Matches(keyMsg, p.inputKeys.Confirm):
			switch p.mode {
			case modeSearch:
				p.search.Blur()
				p.mode = modeList
				p.cursor = 0
			case modeNote:
				p.pendingNote = strings.TrimSpace(p.note.Value())
				p.note.Blur()
				p.mode = modeTags
				p.tags.Focus()
				return textinput.Blink
			case modeTags:
				in := storage.EntryInput{
					Date: p.date.String(),
					Note: p.pendingNote,
					Tags: storage.SplitTags(p.tags.Value()),
				}
				p.cancelInput()
				return addEntryCmd(p.store, p.userID, in)
			}
			return nil
		}
	}

	switch p.mode {
	case modeSearch:
		p.search, cmd = p.search.Update(msg)
		if q := p.search.Value(); q != p.query {
			p.query = q
			p.cursor = 0
			p.refilter()
		}
	case modeNote:
		p.note, cmd = p.note.Update(msg)
	case modeTags:
		p.tags, cmd = p.tags.Update(msg)
	}
	return cmd
}

// headerRows is the pane-local row of the first entry: top border, title
// and its margin, separator.
const headerRows = 4

func (p *EntriesPane) visibleRows() int {
	rows := p.height - 6
	if rows < 3 {
		rows = 5
	}
	return rows
}

func (p *EntriesPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.shown) == 0 {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.shown)-1)
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}
		rows := p.visibleRows()
		row := msg.Y - headerRows
		if row < 0 || row >= rows {
			return nil
		}
		start := 0
		if p.cursor >= rows {
			start = p.cursor - rows + 1
		}
		if idx := start + row; idx < len(p.shown) {
			p.cursor = idx
		}
	}
	return nil
}

// View renders the entries pane.
func (p *EntriesPane) View() string {
	var b strings.Builder
	searching := strings.TrimSpace(p.query) != ""

	title := "📝 ENTRIES · " + p.date.Format("Mon, Jan 2")
	if searching {
		title = fmt.Sprintf("🔎 SEARCH %q · %s", p.query, plural(len(p.shown), "match", "matches"))
	}
	b.WriteString(p.styles.PaneTitleStyle.Render(truncateText(title, max(p.width-4, 10))))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	muted := lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true)
	switch {
	case len(p.shown) == 0 && searching:
		b.WriteString(muted.Render("  No matches."))
		b.WriteString("\n")
	case len(p.shown) == 0:
		b.WriteString(muted.Render("  Nothing logged this day. Press 'a' to add an entry."))
		b.WriteString("\n")
	default:
		rows := p.visibleRows()
		start := 0
		if p.cursor >= rows {
			start = p.cursor - rows + 1
		}
		for i := start; i < len(p.shown) && i < start+rows; i++ {
			b.WriteString(p.renderLine(p.shown[i], searching, i == p.cursor && p.focused && p.mode == modeList))
			b.WriteString("\n")
		}
	}

	switch p.mode {
	case modeSearch:
		b.WriteString("\n" + p.styles.InputPromptStyle.Render("/ ") + p.search.View() + "\n")
	case modeNote:
		b.WriteString("\n" + p.styles.InputPromptStyle.Render("Note: ") + p.note.View() + "\n")
	case modeTags:
		b.WriteString("\n" + p.styles.InputPromptStyle.Render("Tags: ") + p.tags.View() + "\n")
	}

	return p.styles.pane(p.focused, p.width, p.height, b.String())
}

// renderLine lays out one entry: [date] note [#tags] [images], cut to the
// pane width by display cells.
func (p *EntriesPane) renderLine(e storage.Entry, withDate, selected bool) string {
	available := max(p.width-6, 10)

	var suffix []string
	for _, t := range e.Tags {
		suffix = append(suffix, "#"+t)
	}
	if n := len(e.Images); n > 0 {
		suffix = append(suffix, fmt.Sprintf("🖼 %d", n))
	}
	tail := strings.Join(suffix, " ")

	prefix := ""
	if withDate {
		prefix = e.Date + " "
	}

	note := strings.Join(strings.Fields(e.Note), " ")
	if note == "" {
		note = "(no note)"
	}
	noteWidth := available - runewidth.StringWidth(prefix)
	if tail != "" {
		noteWidth -= runewidth.StringWidth(tail) + 1
	}
	note = runewidth.Truncate(note, max(noteWidth, 5), "..")

	if selected {
		line := prefix + note
		if tail != "" {
			line += " " + tail
		}
		return p.styles.EntrySelectedStyle.Render(" " + line + " ")
	}

	line := " "
	if prefix != "" {
		line += p.styles.EntryDateStyle.Render(prefix)
	}
	line += p.styles.EntryStyle.Render(note)
	if len(e.Tags) > 0 || len(e.Images) > 0 {
		var parts []string
		for _, t := range e.Tags {
			parts = append(parts, p.styles.EntryTagStyle.Render("#"+t))
		}
		if n := len(e.Images); n > 0 {
			parts = append(parts, p.styles.EntryImageStyle.Render(fmt.Sprintf("🖼 %d", n)))
		}
		line += " " + strings.Join(parts, " ")
	}
	return line
}
