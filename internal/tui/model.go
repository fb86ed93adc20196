package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rshade/dataviewer/internal/logging"
	"github.com/rshade/dataviewer/internal/record"
	"github.com/rshade/dataviewer/internal/source"
	"github.com/rshade/dataviewer/internal/tui/detail"
	listview "github.com/rshade/dataviewer/internal/tui/list"
)

// Focus identifies which pane receives keys.
type Focus int

const (
	// FocusSelector routes keys to the source selector.
	FocusSelector Focus = iota
	// FocusTable routes keys to the table.
	FocusTable
	// FocusFilter routes keys to the filter prompt.
	FocusFilter
)

const (
	// SentinelLabel is the "no selection" option shown first in the selector.
	SentinelLabel = "-- Choose API --"

	defaultWidth         = 100
	defaultHeight        = 30
	filterInputCharLimit = 128
	filterInputWidth     = 40
)

// sourceOption is one selector row; an empty url is the sentinel.
type sourceOption struct {
	label string
	url   string
}

// dataLoadedMsg carries the outcome of one load. Results are applied in
// arrival order with no staleness check, so the last load to finish wins.
type dataLoadedMsg struct {
	requestID string
	url       string
	records   []record.Record
	err       error
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the diagnostic logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Model) {
		m.logger = logging.ComponentLogger(logger, "viewer")
	}
}

// WithEndpoints replaces the compiled-in endpoint list.
func WithEndpoints(endpoints []source.Endpoint) Option {
	return func(m *Model) {
		m.endpoints = endpoints
	}
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		m.copyFn = write
	}
}

// Model is the Bubble Tea model for the data viewer.
//
//nolint:recvcheck // Bubble Tea requires value receivers for Init/Update/View interface methods.
type Model struct {
	ctx       context.Context
	loader    source.Loader
	logger    zerolog.Logger
	copyFn    func(string) error
	endpoints []source.Endpoint

	// Source selector
	selector    listview.Model[sourceOption]
	selectedURL string
	inFlight    int
	spinner     spinner.Model

	// Dataset and table
	dataset []record.Record
	grid    grid
	table   table.Model

	// Detail
	selectedRecord *record.Record
	overlay        detail.Overlay

	// Input
	focus       Focus
	filterInput textinput.Model
	keys        KeyMap
	help        help.Model
	status      string

	width    int
	height   int
	quitting bool
}

// New creates a viewer that loads data through loader.
func New(ctx context.Context, loader source.Loader, opts ...Option) Model {
	m := Model{
		ctx:       ctx,
		loader:    loader,
		logger:    zerolog.Nop(),
		copyFn:    clipboard.WriteAll,
		endpoints: source.Endpoints(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		overlay:   detail.New(overlayStyles()),
		width:     defaultWidth,
		height:    defaultHeight,
		focus:     FocusSelector,
	}
	for _, opt := range opts {
		opt(&m)
	}

	options := make([]sourceOption, 0, len(m.endpoints)+1)
	options = append(options, sourceOption{label: SentinelLabel})
	for _, ep := range m.endpoints {
		options = append(options, sourceOption{label: ep.Label, url: ep.URL})
	}
	m.selector = listview.New(options, 0, renderSourceOption)

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = SubtleStyle

	m.filterInput = textinput.New()
	m.filterInput.Placeholder = "text, or field=text"
	m.filterInput.CharLimit = filterInputCharLimit
	m.filterInput.Width = filterInputWidth

	m.grid = newGrid(nil)
	m.rebuildTable(true)
	m.overlay.SetSize(m.width, m.height)
	return m
}

// Init implements tea.Model. Nothing loads until a source is chosen.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.overlay.SetSize(msg.Width, msg.Height)
		m.rebuildTable(false)
		return m, nil

	case dataLoadedMsg:
		m.handleLoaded(msg)
		return m, nil

	case spinner.TickMsg:
		if m.inFlight == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.overlay.Visible() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	m.status = ""

	if m.overlay.Visible() {
		return m.handleOverlayKey(msg)
	}
	if m.focus == FocusFilter {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.SwitchPane):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.Pick):
		index := int(msg.Runes[0] - '0')
		if index >= m.selector.Len() {
			return m, nil
		}
		m.selector.SetCursor(index)
		return m, m.commitSelection()
	}

	if m.focus == FocusSelector {
		return m.handleSelectorKey(msg)
	}
	return m.handleTableKey(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSelector && !m.grid.empty() {
		m.focus = FocusTable
		m.table.Focus()
		return
	}
	m.focus = FocusSelector
	m.table.Blur()
}

func (m Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Commit) {
		return m, m.commitSelection()
	}
	var cmd tea.Cmd
	m.selector, cmd = m.selector.Update(msg)
	return m, cmd
}

// commitSelection publishes the highlighted option. A non-empty URL starts
// exactly one load, even when it equals the current selection.
func (m *Model) commitSelection() tea.Cmd {
	opt, ok := m.selector.Item()
	if !ok {
		return nil
	}
	m.selectedURL = opt.url
	if opt.url == "" {
		m.logger.Debug().Msg("source selection cleared")
		return nil
	}
	return m.startLoad(opt.url)
}

// startLoad returns a command performing one load of url. In-flight loads are
// never cancelled.
func (m *Model) startLoad(url string) tea.Cmd {
	requestID := logging.NewTraceID()
	ctx := logging.ContextWithTraceID(m.ctx, requestID)
	ctx = m.logger.WithContext(ctx)
	loader := m.loader

	m.inFlight++
	m.logger.Info().
		Str("url", url).
		Str("request_id", requestID).
		Int("in_flight", m.inFlight).
		Msg("loading data source")

	load := func() tea.Msg {
		records, err := loader.Load(ctx, url)
		return dataLoadedMsg{requestID: requestID, url: url, records: records, err: err}
	}
	if m.inFlight == 1 {
		return tea.Batch(load, m.spinner.Tick)
	}
	return load
}

// handleLoaded applies a load result. Failures are logged and otherwise
// invisible: the dataset stays as it was. Success replaces the dataset
// wholesale and leaves the selected record alone.
func (m *Model) handleLoaded(msg dataLoadedMsg) {
	if m.inFlight > 0 {
		m.inFlight--
	}

	if msg.err != nil {
		m.logger.Error().
			Err(msg.err).
			Str("url", msg.url).
			Str("request_id", msg.requestID).
			Msg("error fetching data")
		return
	}

	m.dataset = msg.records
	m.grid = newGrid(msg.records)
	if m.grid.empty() && m.focus != FocusSelector {
		m.focus = FocusSelector
		m.filterInput.Blur()
	}
	m.rebuildTable(true)

	m.logger.Info().
		Str("url", msg.url).
		Str("request_id", msg.requestID).
		Int("records", len(msg.records)).
		Int("columns", len(m.grid.columns)).
		Msg("dataset replaced")
}

func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.grid.empty() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Activate):
		m.activateRow(m.table.Cursor())
		return m, nil
	case key.Matches(msg, m.keys.PrevColumn):
		m.grid.moveFocus(-1)
		m.rebuildTable(false)
		return m, nil
	case key.Matches(msg, m.keys.NextColumn):
		m.grid.moveFocus(1)
		m.rebuildTable(false)
		return m, nil
	case key.Matches(msg, m.keys.Sort):
		m.grid.cycleSort()
		m.rebuildTable(true)
		return m, nil
	case key.Matches(msg, m.keys.Filter):
		return m, m.openFilter()
	case key.Matches(msg, m.keys.ClearAll):
		m.grid.clearFilters()
		m.rebuildTable(true)
		return m, nil
	case key.Matches(msg, m.keys.Widen):
		m.resizeColumn(resizeStep)
		return m, nil
	case key.Matches(msg, m.keys.Narrow):
		m.resizeColumn(-resizeStep)
		return m, nil
	case key.Matches(msg, m.keys.NextPage):
		if m.grid.nextPage() {
			m.rebuildTable(true)
		}
		return m, nil
	case key.Matches(msg, m.keys.PrevPage):
		if m.grid.prevPage() {
			m.rebuildTable(true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// resizeColumn grows or shrinks the focused column from its rendered width.
func (m *Model) resizeColumn(delta int) {
	widths := columnWidths(m.grid, m.width-paneChrome)
	if m.grid.focusCol >= len(widths) {
		return
	}
	if m.grid.resizeFocused(widths[m.grid.focusCol], delta) {
		m.rebuildTable(false)
	}
}

// activateRow selects the record at the page-relative index and shows the overlay.
func (m *Model) activateRow(index int) {
	rows := m.grid.pageRows()
	if index < 0 || index >= len(rows) {
		return
	}
	rec := rows[index]
	m.selectedRecord = &rec
	m.overlay.Show(m.selectedRecord)
	m.logger.Debug().Int("page", m.grid.page+1).Int("row", index).Msg("row activated")
}

func (m *Model) openFilter() tea.Cmd {
	col, ok := m.grid.focusedColumn()
	if !ok || !col.Filterable {
		return nil
	}
	m.filterInput.SetValue(m.grid.filters[col.Field])
	m.filterInput.CursorEnd()
	m.focus = FocusFilter
	return m.filterInput.Focus()
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ApplyFilter):
		if field, query, ok := m.grid.parseFilter(m.filterInput.Value()); ok {
			m.grid.setFilter(field, query)
		}
		m.closeFilter()
		m.rebuildTable(true)
		return m, nil
	case key.Matches(msg, m.keys.CancelFilter):
		m.closeFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) closeFilter() {
	m.filterInput.Blur()
	m.filterInput.SetValue("")
	m.focus = FocusTable
	m.table.Focus()
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Dismiss):
		m.overlay.Dismiss()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
		return m, nil
	}

	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)
	return m, cmd
}

func (m *Model) copySelected() {
	if m.selectedRecord == nil {
		return
	}
	data, err := m.selectedRecord.MarshalJSON()
	if err == nil {
		err = m.copyFn(string(data))
	}
	if err != nil {
		m.logger.Warn().Err(err).Msg("copy to clipboard failed")
		return
	}
	m.status = "Copied record JSON to clipboard"
}

// Dataset returns the current dataset in response order.
func (m Model) Dataset() []record.Record {
	return m.dataset
}

// Columns returns the columns derived from the current dataset.
func (m Model) Columns() []record.Column {
	return m.grid.columns
}

// SelectedURL returns the last committed source URL, "" for none.
func (m Model) SelectedURL() string {
	return m.selectedURL
}

// SelectedRecord returns the last activated record, or nil.
func (m Model) SelectedRecord() *record.Record {
	return m.selectedRecord
}

// OverlayState returns the detail overlay state.
func (m Model) OverlayState() detail.State {
	return m.overlay.State()
}

// Focus returns the pane receiving keys.
func (m Model) Focus() Focus {
	return m.focus
}

// InFlight returns the number of loads not yet resolved.
func (m Model) InFlight() int {
	return m.inFlight
}
