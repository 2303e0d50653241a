// Package tui is the terminal front end: a search box, a list of recipe
// cards, a detail overlay and the login and signup forms.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pageza/recipe-finder/internal/app"
	"github.com/pageza/recipe-finder/internal/click"
	"github.com/pageza/recipe-finder/internal/service"
	"github.com/pageza/recipe-finder/internal/view"
	"go.uber.org/zap"
)

type mode int

const (
	modeResults mode = iota
	modeSearch
	modeDetail
	modeLogin
	modeSignup
)

// Screen geometry used for mouse hit-testing. Columns within a control row
// come from the rendered glyphs, see controlAt.
const (
	resultsTop = 4
	cardHeight = 4
)

type opDoneMsg struct {
	op  string
	err error
}

// Model is the bubbletea model of the client
type Model struct {
	app    *app.App
	ctx    context.Context
	keys   keyMap
	logger *zap.Logger

	width  int
	height int
	mode   mode

	search   textinput.Model
	selected int
	offset   int
	detailID string

	login  *form
	signup *form

	identity string
	loggedIn bool
	status   string

	pressed     *view.Card
	pressTarget click.Target
	pressButton tea.MouseButton
}

// New creates the model for a wired App
func New(ctx context.Context, a *app.App, logger *zap.Logger) *Model {
	search := textinput.New()
	search.Placeholder = "ingredients, e.g. chicken,rice"
	search.Prompt = "search › "
	search.CharLimit = 256
	search.Focus()

	return &Model{
		app:    a,
		ctx:    ctx,
		keys:   defaultKeys(),
		logger: logger,
		mode:   modeSearch,
		search: search,
		login:  newLoginForm(),
		signup: newSignupForm(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.restore())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.search.Width = max(msg.Width-12, 10)
		m.clamp()
		return m, nil

	case redrawMsg:
		m.clamp()
		return m, nil

	case openDetailMsg:
		if _, ok := m.app.Registry.Pair(msg.recipeID); ok {
			m.detailID = msg.recipeID
			m.mode = modeDetail
			m.search.Blur()
		}
		return m, nil

	case showFormMsg:
		return m, m.openForm(msg.form)

	case dismissFormMsg:
		if m.formMode(msg.form) == m.mode {
			m.mode = modeResults
		}
		return m, nil

	case resetFormMsg:
		m.formFor(msg.form).reset()
		return m, nil

	case formMessageMsg:
		m.formFor(msg.form).message = msg.message
		return m, nil

	case identityMsg:
		m.identity = msg.firstName
		return m, nil

	case accountMsg:
		m.loggedIn = msg.loggedIn
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil

	case opDoneMsg:
		m.finish(msg)
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeDetail:
			return m, m.updateDetail(msg)
		case modeLogin, modeSignup:
			return m, m.updateForm(msg)
		default:
			return m, m.updateResults(msg)
		}
	}

	if m.mode == modeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	if f := m.activeForm(); f != nil {
		return m, f.update(msg)
	}
	return m, nil
}

func (m *Model) finish(msg opDoneMsg) {
	if msg.err == nil {
		if msg.op == "search" {
			m.selected, m.offset = 0, 0
			m.status = ""
		}
		return
	}
	var verr *service.ValidationError
	var serr *service.ServerError
	switch {
	case errors.Is(msg.err, service.ErrToggleInFlight), errors.Is(msg.err, view.ErrDetached):
	case errors.As(msg.err, &verr):
	case errors.As(msg.err, &serr) && (msg.op == "login" || msg.op == "signup"):
	default:
		m.status = fmt.Sprintf("%s failed: %v", msg.op, msg.err)
	}
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		query := m.search.Value()
		if strings.TrimSpace(query) == "" {
			return nil
		}
		m.mode = modeResults
		m.search.Blur()
		m.status = "Searching…"
		return m.run("search", func(ctx context.Context) error {
			return m.app.Search.Search(ctx, query)
		})
	case key.Matches(msg, m.keys.Back):
		m.mode = modeResults
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *Model) updateResults(msg tea.KeyMsg) tea.Cmd {
	cards := m.app.Registry.Cards()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.FocusSearch):
		m.mode = modeSearch
		return m.search.Focus()
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
		m.clamp()
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(cards)-1 {
			m.selected++
		}
		m.clamp()
	case key.Matches(msg, m.keys.Open):
		if c := m.selectedCard(cards); c != nil {
			m.detailID = c.RecipeID
			m.mode = modeDetail
		}
	case key.Matches(msg, m.keys.Save):
		if c := m.selectedCard(cards); c != nil {
			return m.run("save", c.ActivateSave)
		}
	case key.Matches(msg, m.keys.Goto):
		if c := m.selectedCard(cards); c != nil {
			_ = c.ActivateGoto()
		}
	case key.Matches(msg, m.keys.Login):
		if !m.loggedIn {
			return m.openForm(service.FormLogin)
		}
	case key.Matches(msg, m.keys.Signup):
		if !m.loggedIn {
			return m.openForm(service.FormSignup)
		}
	case key.Matches(msg, m.keys.Logout):
		if m.loggedIn {
			return m.run("logout", m.app.Auth.Logout)
		}
	}
	return nil
}

func (m *Model) updateDetail(msg tea.KeyMsg) tea.Cmd {
	pair, ok := m.app.Registry.Pair(m.detailID)
	if !ok {
		m.mode = modeResults
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeResults
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Save):
		return m.run("save", pair.Detail.ActivateSave)
	case key.Matches(msg, m.keys.Goto):
		_ = pair.Detail.ActivateGoto()
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	f := m.activeForm()
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeResults
		m.app.Auth.Close(f.kind)
		return nil
	case key.Matches(msg, m.keys.NextField):
		return f.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return f.move(-1)
	case key.Matches(msg, m.keys.Submit):
		if f.kind == service.FormSignup {
			form := f.signup()
			return m.run("signup", func(ctx context.Context) error {
				return m.app.Auth.Signup(ctx, form)
			})
		}
		identifier, password := f.value(0), f.value(1)
		return m.run("login", func(ctx context.Context) error {
			return m.app.Auth.Login(ctx, identifier, password)
		})
	}
	return f.update(msg)
}

// handleMouse maps pointer events onto the card and detail controls
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.mode == modeResults && m.offset > 0 {
			m.offset--
		}
		return nil
	case tea.MouseButtonWheelDown:
		if m.mode == modeResults && m.offset < m.app.Registry.Len()-1 {
			m.offset++
		}
		return nil
	}

	switch m.mode {
	case modeResults:
		return m.mouseResults(msg)
	case modeDetail:
		return m.mouseDetail(msg)
	}
	return nil
}

func (m *Model) mouseResults(msg tea.MouseMsg) tea.Cmd {
	card, target, hit := m.hitCard(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if m.pressed != nil {
			m.pressed.Leave()
		}
		m.pressed = nil
		if !hit {
			return nil
		}
		m.pressed, m.pressTarget, m.pressButton = card, target, msg.Button
		card.Press(click.Event{Button: buttonOf(msg.Button), Target: target})
		return nil

	case tea.MouseActionMotion:
		if m.pressed != nil && (!hit || card != m.pressed) {
			m.pressed.Leave()
			m.pressed = nil
		}
		return nil

	case tea.MouseActionRelease:
		pressed := m.pressed
		m.pressed = nil
		if pressed == nil || !hit || card != pressed {
			if pressed != nil {
				pressed.Leave()
			}
			return nil
		}
		button := msg.Button
		if button == tea.MouseButtonNone {
			button = m.pressButton
		}
		card.Release(click.Event{Button: buttonOf(button), Target: target})

		if button != tea.MouseButtonLeft || target != m.pressTarget {
			return nil
		}
		switch target {
		case click.TargetSaveControl:
			return m.run("save", card.ActivateSave)
		case click.TargetGotoControl:
			_ = card.ActivateGoto()
		}
	}
	return nil
}

func (m *Model) mouseDetail(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionRelease {
		if msg.Action == tea.MouseActionPress {
			m.pressButton = msg.Button
		}
		return nil
	}
	button := msg.Button
	if button == tea.MouseButtonNone {
		button = m.pressButton
	}
	top, left := m.detailControlsOrigin()
	if button != tea.MouseButtonLeft || msg.Y != top {
		return nil
	}
	pair, ok := m.app.Registry.Pair(m.detailID)
	if !ok {
		m.mode = modeResults
		return nil
	}
	switch controlAt(msg.X - left) {
	case click.TargetSaveControl:
		return m.run("save", pair.Detail.ActivateSave)
	case click.TargetGotoControl:
		_ = pair.Detail.ActivateGoto()
	}
	return nil
}

// bodyTop is the screen row where the results or detail body starts
func (m *Model) bodyTop() int {
	return lipgloss.Height(m.headerView())
}

// detailControlsOrigin is the screen cell of the first control glyph in the
// detail overlay
func (m *Model) detailControlsOrigin() (row, col int) {
	row = m.bodyTop() + detailStyle.GetBorderTopSize() + detailStyle.GetPaddingTop()
	col = detailStyle.GetBorderLeftSize() + detailStyle.GetPaddingLeft()
	return row, col
}

// controlAt maps a column, relative to the start of a control row, onto the
// save or go-to glyph
func controlAt(x int) click.Target {
	saveWidth := lipgloss.Width(saveGlyph(view.SaveControl{}))
	gotoStart := saveWidth + 1
	switch {
	case x >= 0 && x < saveWidth:
		return click.TargetSaveControl
	case x >= gotoStart && x < gotoStart+lipgloss.Width(gotoGlyph()):
		return click.TargetGotoControl
	}
	return click.TargetSurface
}

// hitCard finds the card and the part of it under a screen cell
func (m *Model) hitCard(x, y int) (*view.Card, click.Target, bool) {
	if y < resultsTop || x < 0 || x >= m.cardWidth()+2 {
		return nil, click.TargetSurface, false
	}
	row := (y - resultsTop) / cardHeight
	if row >= m.visibleCards() {
		return nil, click.TargetSurface, false
	}
	cards := m.app.Registry.Cards()
	idx := m.offset + row
	if idx >= len(cards) {
		return nil, click.TargetSurface, false
	}

	target := click.TargetSurface
	if (y-resultsTop)%cardHeight == cardStyle.GetBorderTopSize()+cardStyle.GetPaddingTop() {
		target = controlAt(x - cardStyle.GetBorderLeftSize() - cardStyle.GetPaddingLeft())
	}
	return cards[idx], target, true
}

func buttonOf(b tea.MouseButton) click.Button {
	switch b {
	case tea.MouseButtonLeft:
		return click.ButtonPrimary
	case tea.MouseButtonRight:
		return click.ButtonSecondary
	case tea.MouseButtonMiddle:
		return click.ButtonMiddle
	default:
		return click.ButtonNone
	}
}

// run executes fn off the event loop
func (m *Model) run(op string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m *Model) restore() tea.Cmd {
	return m.run("restore", m.app.Auth.Restore)
}

func (m *Model) openForm(kind service.Form) tea.Cmd {
	m.search.Blur()
	m.mode = m.formMode(kind)
	return m.formFor(kind).open()
}

func (m *Model) formMode(kind service.Form) mode {
	if kind == service.FormSignup {
		return modeSignup
	}
	return modeLogin
}

func (m *Model) formFor(kind service.Form) *form {
	if kind == service.FormSignup {
		return m.signup
	}
	return m.login
}

func (m *Model) activeForm() *form {
	switch m.mode {
	case modeLogin:
		return m.login
	case modeSignup:
		return m.signup
	}
	return nil
}

func (m *Model) selectedCard(cards []*view.Card) *view.Card {
	if m.selected < 0 || m.selected >= len(cards) {
		return nil
	}
	return cards[m.selected]
}

// clamp keeps the selection inside the results and on screen
func (m *Model) clamp() {
	n := m.app.Registry.Len()
	if m.selected >= n {
		m.selected = max(n-1, 0)
	}
	visible := m.visibleCards()
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+visible {
		m.offset = m.selected - visible + 1
	}
	if m.offset > max(n-1, 0) {
		m.offset = max(n-1, 0)
	}
}

func (m *Model) cardWidth() int {
	w := m.width
	if w <= 0 {
		w = 80
	}
	return max(w-2, 20)
}

func (m *Model) visibleCards() int {
	h := m.height
	if h <= 0 {
		h = 24
	}
	return max((h-resultsTop-1)/cardHeight, 1)
}

func (m *Model) headerView() string {
	header := titleStyle.Render("Recipe Finder") + "  " + accountStyle.Render(m.accountRegion())
	status := statusStyle.MaxWidth(m.cardWidth() + 2).Render(m.status)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.search.View(), status, "")
}

func (m *Model) View() string {
	var body, help string
	switch m.mode {
	case modeDetail:
		body = m.detailView()
		help = helpLine(m.keys.Save, m.keys.Goto, m.keys.Back)
	case modeLogin:
		body = m.login.view()
	case modeSignup:
		body = m.signup.view()
	case modeSearch:
		body = m.resultsView()
		help = helpLine(m.keys.Submit, m.keys.Back)
	default:
		body = m.resultsView()
		help = helpLine(m.keys.FocusSearch, m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Save, m.keys.Goto, m.keys.Quit)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		helpStyle.Render(help),
	)
}

func (m *Model) accountRegion() string {
	if m.loggedIn {
		return fmt.Sprintf("Hi, %s · o logout", m.identity)
	}
	return "l login · u sign up"
}

func (m *Model) resultsView() string {
	if empty, ok := m.app.Registry.Empty(); ok {
		return dimStyle.Render(empty.Message())
	}
	cards := m.app.Registry.Cards()
	if len(cards) == 0 {
		return dimStyle.Render("Type ingredients separated by commas and press enter.")
	}

	end := min(m.offset+m.visibleCards(), len(cards))
	rendered := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rendered = append(rendered, m.cardView(cards[i], i == m.selected && m.mode == modeResults))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m *Model) cardView(c *view.Card, selected bool) string {
	width := m.cardWidth()
	inner := lipgloss.NewStyle().MaxWidth(width - 2)

	controls := saveGlyph(c.SaveControl()) + " " + gotoGlyph() + " "
	top := inner.Render(controls + labelStyle.Render(c.Label))
	summary := inner.Render(dimStyle.Render(c.Summary))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(width).Height(2).Render(top + "\n" + summary)
}

func (m *Model) detailView() string {
	pair, ok := m.app.Registry.Pair(m.detailID)
	if !ok {
		return dimStyle.Render("This recipe is no longer in the results.")
	}
	d := pair.Detail

	lines := []string{
		saveGlyph(d.SaveControl()) + " " + gotoGlyph() + " " + dimStyle.Render("save · open recipe"),
		labelStyle.Render(d.Label),
	}
	var meta []string
	if d.CuisineType != "" {
		meta = append(meta, d.CuisineType)
	}
	if d.MealType != "" {
		meta = append(meta, d.MealType)
	}
	if d.Calories > 0 {
		meta = append(meta, fmt.Sprintf("%.0f kcal", d.Calories))
	}
	if len(meta) > 0 {
		lines = append(lines, dimStyle.Render(strings.Join(meta, " · ")))
	}
	lines = append(lines, "", labelStyle.Render("Ingredients"))
	for _, ing := range d.Ingredients {
		lines = append(lines, "• "+ing)
	}
	if len(d.HealthLabels) > 0 {
		lines = append(lines, "", labelStyle.Render("Health labels"), strings.Join(d.HealthLabels, ", "))
	}
	lines = append(lines, "", dimStyle.Render(d.URL))

	return detailStyle.Width(m.cardWidth()).Render(strings.Join(lines, "\n"))
}

func saveGlyph(s view.SaveControl) string {
	if s.Saved {
		return savedStyle.Render("[♥]")
	}
	return unsavedStyle.Render("[♡]")
}

func gotoGlyph() string {
	return gotoStyle.Render("[↗]")
}
