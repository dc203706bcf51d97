// Package tui is the terminal front-end of the dashboard builder.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/goliatone/go-dashboard-builder/components/builder"
)

// Service is the part of the Controller the terminal front-end drives.
type Service interface {
	builder.LayoutService
	builder.ElementSink
	builder.CanvasController
	LoadLayouts(ctx context.Context) builder.State
	DeleteElement(ctx context.Context, id string) error
	SelectType(ctx context.Context, t builder.ElementType) error
	CancelEdit(ctx context.Context)
	Registry() builder.DefinitionRegistry
	Now() time.Time
}

var _ Service = (*builder.Controller)(nil)

// Options wires the model.
type Options struct {
	Context context.Context
	Service Service
	Canvas  *builder.Canvas
	Notices *builder.NoticeLog
	Logger  *zap.Logger
}

// Model is the root Bubble Tea model: a layout sidebar, the canvas and the
// modal forms.
type Model struct {
	ctx         context.Context
	svc         Service
	canvas      *builder.Canvas
	manager     *builder.LayoutManager
	editor      *builder.Editor
	notices     *builder.NoticeLog
	logger      *zap.Logger
	keys        keyMap
	help        help.Model
	overlays    OverlayStack
	selected    string
	status      string
	statusLevel builder.NoticeLevel
	busy        bool
	width       int
	height      int
}

var _ tea.Model = (*Model)(nil)

// New builds the model.
func New(opts Options) (*Model, error) {
	if opts.Service == nil {
		return nil, errors.New("tui: service is required")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Canvas == nil {
		opts.Canvas = builder.NewCanvas(opts.Service, nil, nil)
	}
	if opts.Notices == nil {
		opts.Notices = builder.NewNoticeLog(0)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Model{
		ctx:     opts.Context,
		svc:     opts.Service,
		canvas:  opts.Canvas,
		manager: builder.NewLayoutManager(opts.Service, builder.Confirmed(true)),
		editor:  builder.NewEditor(opts.Service.Registry(), opts.Service.Now),
		notices: opts.Notices,
		logger:  opts.Logger,
		keys:    defaultKeyMap(),
		help:    help.New(),
	}, nil
}

// Selected returns the id of the highlighted element.
func (m *Model) Selected() string {
	return m.selected
}

// Status returns the last status line.
func (m *Model) Status() string {
	return m.status
}

// Overlays exposes the open modals.
func (m *Model) Overlays() *OverlayStack {
	return &m.overlays
}

// Init loads the layouts.
func (m *Model) Init() tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		state := m.svc.LoadLayouts(m.ctx)
		return LayoutsLoadedMsg{Count: len(state.Layouts)}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case DismissModalMsg:
		m.closeModal()
		return m, nil
	case LayoutsLoadedMsg:
		m.busy = false
		m.setStatus(builder.NoticeInfo, fmt.Sprintf("Loaded %d layout(s)", msg.Count))
		m.syncSelection()
		return m, nil
	case CreateLayoutMsg:
		m.overlays.Pop()
		return m, m.remote("create", func(ctx context.Context) error {
			_, err := m.manager.Create(ctx, msg.Form)
			return err
		})
	case RenameLayoutMsg:
		m.overlays.Pop()
		return m, m.remote("rename", func(ctx context.Context) error {
			return m.manager.Rename(ctx, msg.ID, msg.Form)
		})
	case DeleteLayoutMsg:
		m.overlays.Pop()
		return m, m.remote("delete", func(ctx context.Context) error {
			_, err := m.manager.Delete(ctx, msg.ID)
			return err
		})
	case ApplyDefaultsMsg:
		m.overlays.Pop()
		_, err := m.manager.ReplaceWithDefaults(m.ctx)
		m.report("Default elements loaded", err)
		return m, nil
	case SubmitElementMsg:
		m.overlays.Pop()
		m.editor.Sync(m.svc.State())
		m.editor.SetForm(msg.Form)
		err := m.editor.Submit(m.ctx, m.svc)
		m.report("Element saved", err)
		return m, nil
	case OpDoneMsg:
		m.busy = false
		m.report(opMessage(msg.Op), msg.Err)
		return m, nil
	case tea.KeyMsg:
		if m.overlays.Len() > 0 {
			cmd, _ := m.overlays.UpdateTop(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	if m.overlays.Len() > 0 {
		cmd, _ := m.overlays.UpdateTop(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.PrevLayout):
		m.cycleLayout(-1)
	case key.Matches(msg, k.NextLayout):
		m.cycleLayout(1)
	case key.Matches(msg, k.NewLayout):
		m.openModal(NewLayoutFormModal("", builder.LayoutForm{}))
	case key.Matches(msg, k.RenameLayout):
		id := m.svc.State().CurrentLayoutID
		form, err := m.manager.RenameForm(id)
		if err != nil {
			m.report("", err)
			break
		}
		m.openModal(NewLayoutFormModal(id, form))
	case key.Matches(msg, k.DeleteLayout):
		m.confirmDelete()
	case key.Matches(msg, k.Save):
		if m.busy {
			break
		}
		return m, m.remote("save", m.manager.Save)
	case key.Matches(msg, k.Defaults):
		m.openModal(NewConfirmModal("Load defaults?", builder.DefaultsPrompt, func() tea.Msg {
			return ApplyDefaultsMsg{}
		}))
	case key.Matches(msg, k.AddElement):
		m.startCreate(msg.String())
	case key.Matches(msg, k.NextElement):
		m.cycleElement(1)
	case key.Matches(msg, k.PrevElement):
		m.cycleElement(-1)
	case key.Matches(msg, k.Edit):
		m.startEdit()
	case key.Matches(msg, k.DeleteElement):
		if m.selected != "" {
			m.report("Element deleted", m.svc.DeleteElement(m.ctx, m.selected))
		}
	case key.Matches(msg, k.MoveLeft):
		m.nudge(-1, 0, 0, 0)
	case key.Matches(msg, k.MoveRight):
		m.nudge(1, 0, 0, 0)
	case key.Matches(msg, k.MoveUp):
		m.nudge(0, -1, 0, 0)
	case key.Matches(msg, k.MoveDown):
		m.nudge(0, 1, 0, 0)
	case key.Matches(msg, k.Wider):
		m.nudge(0, 0, 1, 0)
	case key.Matches(msg, k.Narrower):
		m.nudge(0, 0, -1, 0)
	case key.Matches(msg, k.Taller):
		m.nudge(0, 0, 0, 1)
	case key.Matches(msg, k.Shorter):
		m.nudge(0, 0, 0, -1)
	case key.Matches(msg, k.Cancel):
		m.svc.CancelEdit(m.ctx)
	}
	return m, nil
}

func (m *Model) openModal(v View) {
	m.overlays.Push(v)
}

// closeModal pops the top modal. Closing an element form leaves edit mode.
func (m *Model) closeModal() {
	top, ok := m.overlays.Pop()
	if !ok {
		return
	}
	if _, isForm := top.(*ElementFormModal); isForm {
		m.svc.CancelEdit(m.ctx)
	}
}

func (m *Model) cycleLayout(step int) {
	options := m.manager.Options()
	if len(options) < 2 {
		return
	}
	idx := 0
	for i, o := range options {
		if o.Current {
			idx = i
			break
		}
	}
	next := options[(idx+step+len(options))%len(options)]
	if err := m.manager.Select(m.ctx, next.ID); err != nil {
		m.report("", err)
		return
	}
	m.syncSelection()
}

func (m *Model) confirmDelete() {
	if !m.manager.CanDelete() {
		m.setStatus(builder.NoticeError, "The only layout cannot be deleted")
		return
	}
	current, ok := m.svc.State().Current()
	if !ok {
		return
	}
	id := current.ID
	m.openModal(NewConfirmModal("Delete layout?", builder.DeletePrompt(current.Name), func() tea.Msg {
		return DeleteLayoutMsg{ID: id}
	}))
}

func (m *Model) startCreate(digit string) {
	n, err := strconv.Atoi(digit)
	defs := m.svc.Registry().Definitions()
	if err != nil || n < 1 || n > len(defs) {
		return
	}
	t := defs[n-1].Type
	if err := m.svc.SelectType(m.ctx, t); err != nil {
		m.report("", err)
		return
	}
	m.openModal(NewElementFormModal(builder.Form{Type: t}, false))
}

func (m *Model) startEdit() {
	if m.selected == "" {
		return
	}
	current, ok := m.svc.CurrentLayout()
	if !ok {
		return
	}
	el, ok := current.Element(m.selected)
	if !ok {
		return
	}
	if err := m.svc.BeginEdit(m.ctx, el.ID); err != nil {
		m.report("", err)
		return
	}
	m.openModal(NewElementFormModal(builder.FormFor(el), true))
}

func (m *Model) cycleElement(step int) {
	current, ok := m.svc.CurrentLayout()
	if !ok || len(current.Placements) == 0 {
		m.selected = ""
		return
	}
	idx := -1
	for i, p := range current.Placements {
		if p.ID == m.selected {
			idx = i
			break
		}
	}
	n := len(current.Placements)
	switch {
	case idx < 0:
		idx = 0
	default:
		idx = (idx + step + n) % n
	}
	m.selected = current.Placements[idx].ID
}

// nudge moves or resizes the selected element by the given deltas.
func (m *Model) nudge(dx, dy, dw, dh int) {
	if m.selected == "" {
		return
	}
	current, ok := m.svc.CurrentLayout()
	if !ok {
		return
	}
	p, ok := current.Placement(m.selected)
	if !ok {
		return
	}
	var err error
	if dw != 0 || dh != 0 {
		_, err = m.canvas.Resize(m.ctx, p.ID, p.W+dw, p.H+dh)
	} else {
		_, err = m.canvas.Move(m.ctx, p.ID, p.X+dx, p.Y+dy)
	}
	if err != nil {
		m.report("", err)
	}
}

func (m *Model) remote(op string, fn func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	m.setStatus(builder.NoticeInfo, opProgress(op))
	ctx := m.ctx
	return func() tea.Msg {
		return OpDoneMsg{Op: op, Err: fn(ctx)}
	}
}

// report shows the newest controller notice, the error or the success text.
func (m *Model) report(success string, err error) {
	defer m.syncSelection()
	if notices := m.notices.Drain(); len(notices) > 0 {
		last := notices[len(notices)-1]
		m.setStatus(last.Level, last.Message)
		return
	}
	if err != nil {
		m.logger.Debug("builder action failed", zap.Error(err))
		m.setStatus(builder.NoticeError, err.Error())
		return
	}
	if success != "" {
		m.setStatus(builder.NoticeSuccess, success)
	}
}

func (m *Model) setStatus(level builder.NoticeLevel, text string) {
	m.statusLevel = level
	m.status = text
}

// syncSelection keeps the highlighted element on the current layout.
func (m *Model) syncSelection() {
	current, ok := m.svc.CurrentLayout()
	if !ok {
		m.selected = ""
		return
	}
	if _, exists := current.Placement(m.selected); exists {
		return
	}
	m.selected = ""
	if len(current.Placements) > 0 {
		m.selected = current.Placements[0].ID
	}
}

func opProgress(op string) string {
	switch op {
	case "create":
		return "Creating layout..."
	case "rename":
		return "Renaming layout..."
	case "delete":
		return "Deleting layout..."
	case "save":
		return "Saving layout..."
	}
	return op + "..."
}

func opMessage(op string) string {
	switch op {
	case "delete":
		return "Layout deleted"
	case "save":
		return "Layout saved"
	}
	return ""
}

// View implements tea.Model.
func (m *Model) View() string {
	if top, ok := m.overlays.Peek(); ok {
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, top.View())
		}
		return top.View()
	}
	width := m.width
	if width <= 0 {
		width = 120
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		Styles.Sidebar.Render(m.sidebarView()),
		" ",
		m.canvasView(width-sidebarWidth-3),
	)
	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) headerView() string {
	title := Styles.Title.Render("Dashboard Builder")
	current, ok := m.svc.CurrentLayout()
	if !ok {
		return title
	}
	name := current.Name
	if current.IsDefault() {
		name += " (unsaved)"
	}
	header := title + Styles.Muted.Render("  ·  ") + Styles.Normal.Render(name)
	if current.Description != "" {
		header += "\n" + Styles.Muted.Render(current.Description)
	}
	return header
}

func (m *Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(Styles.Section.Render("Layouts") + "\n")
	for _, o := range m.manager.Options() {
		line := fmt.Sprintf("%s (%d)", o.Name, o.Elements)
		if o.Unsaved {
			line += " *"
		}
		if o.Current {
			b.WriteString(Styles.Selected.Render("> "+line) + "\n")
			continue
		}
		b.WriteString(Styles.Muted.Render("  "+line) + "\n")
	}
	b.WriteString("\n" + Styles.Section.Render("Add element") + "\n")
	selectedType := m.svc.State().SelectedType
	for i, def := range m.svc.Registry().Definitions() {
		line := fmt.Sprintf("%d %s %s", i+1, def.Icon, def.Label)
		if def.Type == selectedType {
			b.WriteString(Styles.Selected.Render(line) + "\n")
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(def.Color)).Render(line) + "\n")
	}
	if editing := m.svc.State().EditingElement; editing != nil {
		b.WriteString("\n" + Styles.Section.Render("Editing") + "\n" + editing.ID + "\n")
	}
	return b.String()
}

func (m *Model) canvasView(width int) string {
	cells, err := m.canvas.Cells()
	if err != nil {
		if errors.Is(err, builder.ErrNoCurrentLayout) {
			return Styles.Empty.Render("Loading layouts...")
		}
		return Styles.Error.Render(err.Error())
	}
	return renderCanvas(cells, m.selected, width)
}

func (m *Model) statusView() string {
	if m.status == "" {
		return ""
	}
	switch m.statusLevel {
	case builder.NoticeSuccess:
		return Styles.Success.Render(m.status)
	case builder.NoticeError:
		return Styles.Error.Render(m.status)
	}
	return Styles.Muted.Render(m.status)
}
