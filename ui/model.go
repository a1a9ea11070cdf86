// Package ui is the terminal client of the messenger.
// It reads snapshots through the service, re-renders on forwarded events
// and never touches the conversation store directly.
package ui

import (
	"msn-reimagined/auth"
	"msn-reimagined/directory"
	"msn-reimagined/domain"
	"msn-reimagined/emoticon"
	"msn-reimagined/services"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
)

// Session is the part of auth.Session the client drives.
type Session interface {
	Login(req auth.LoginRequest) (domain.LocalUser, error)
	Logout() error
	User() (domain.LocalUser, bool)
}

type focus int

const (
	focusLogin focus = iota
	focusBuddies
	focusSearch
	focusChat
)

const (
	sidebarWidth = 36
	shakeFrames  = 6
)

type shakeMsg struct{}

type Model struct {
	service   services.IMessengerService
	session   Session
	emoticons *emoticon.Replacer
	now       func() time.Time

	theme         Theme
	styles        Styles
	width, height int

	focus        focus
	loginField   int
	nameInput    textinput.Model
	emailInput   textinput.Model
	searchInput  textinput.Model
	messageInput textinput.Model
	transcript   viewport.Model

	user     domain.LocalUser
	contacts []domain.Contact
	convs    domain.Conversations
	cursor   int
	active   string
	shake    int
	status   string
}

func NewModel(service services.IMessengerService, session Session, emoticons *emoticon.Replacer,
	settings Settings, now func() time.Time) Model {
	theme, err := ParseTheme(settings.Theme)
	if err != nil {
		theme = ThemeLight
	}

	nameInput := textinput.New()
	nameInput.Placeholder = "Display name"
	nameInput.CharLimit = 64
	nameInput.Width = 30
	nameInput.Focus()

	emailInput := textinput.New()
	emailInput.Placeholder = "you@hotmail.com"
	emailInput.CharLimit = 128
	emailInput.Width = 30

	searchInput := textinput.New()
	searchInput.Placeholder = "Search contacts..."
	searchInput.CharLimit = 64
	searchInput.Width = sidebarWidth - 6

	messageInput := textinput.New()
	messageInput.Placeholder = "Type a message..."
	messageInput.CharLimit = 1000
	messageInput.Width = 50

	m := Model{
		service:      service,
		session:      session,
		emoticons:    emoticons,
		now:          now,
		theme:        theme,
		styles:       NewStyles(theme),
		nameInput:    nameInput,
		emailInput:   emailInput,
		searchInput:  searchInput,
		messageInput: messageInput,
		transcript:   viewport.New(50, 12),
		convs:        domain.Conversations{},
	}
	if user, ok := session.User(); ok {
		m.user = user
		m.focus = focusBuddies
		m.nameInput.Blur()
		m.refresh()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case EventMsg:
		if m.focus != focusLogin {
			m.refresh()
		}
		return m, nil

	case shakeMsg:
		if m.shake > 0 {
			m.shake--
			return m, shakeTick()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.focus {
		case focusLogin:
			return m.updateLogin(msg)
		case focusSearch:
			return m.updateSearch(msg)
		case focusChat:
			return m.updateChat(msg)
		default:
			return m.updateBuddies(msg)
		}
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.loginField = 1 - m.loginField
		if m.loginField == 0 {
			m.emailInput.Blur()
			return m, m.nameInput.Focus()
		}
		m.nameInput.Blur()
		return m, m.emailInput.Focus()

	case "enter":
		user, err := m.session.Login(auth.LoginRequest{Name: m.nameInput.Value(), Email: m.emailInput.Value()})
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.user = user
		m.status = ""
		m.focus = focusBuddies
		m.nameInput.Blur()
		m.emailInput.Blur()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	if m.loginField == 0 {
		m.nameInput, cmd = m.nameInput.Update(msg)
	} else {
		m.emailInput, cmd = m.emailInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateBuddies(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	buddies := m.buddies()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(buddies)-1 {
			m.cursor++
		}
	case "/":
		m.focus = focusSearch
		return m, m.searchInput.Focus()
	case "t":
		m.theme = m.theme.Toggle()
		m.styles = NewStyles(m.theme)
	case "L":
		return m.logout()
	case "enter":
		if len(buddies) > 0 {
			return m.openChat(buddies[m.cursor].ID)
		}
	case "tab":
		if visible := m.convs.Visible(); len(visible) > 0 {
			m.active = visible[0]
			m.focus = focusChat
			m.renderTranscript()
			return m, m.messageInput.Focus()
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searchInput.SetValue("")
		fallthrough
	case "enter":
		m.searchInput.Blur()
		m.focus = focusBuddies
		m.cursor = 0
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.cursor = 0
	m.refresh()
	return m, cmd
}

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.messageInput.Blur()
		m.focus = focusBuddies
		return m, nil

	case "enter":
		if err := m.service.SendMessage(m.active, m.messageInput.Value()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = ""
		m.messageInput.SetValue("")
		m.refresh()
		return m, nil

	case "ctrl+n":
		if err := m.service.Nudge(m.active); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.refresh()
		m.shake = shakeFrames
		return m, shakeTick()

	case "ctrl+w":
		_ = m.service.CloseChat(m.active)
		return m.leaveChat()

	case "ctrl+t":
		_ = m.service.MinimizeChat(m.active)
		return m.leaveChat()

	case "tab":
		m.active = m.nextVisible(m.active)
		m.renderTranscript()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.messageInput, cmd = m.messageInput.Update(msg)
	return m, cmd
}

// openChat focuses the chat with contactID, restoring it from the tab strip if minimized.
func (m Model) openChat(contactID string) (tea.Model, tea.Cmd) {
	var err error
	if conv, ok := m.convs[contactID]; ok && conv.Minimized {
		err = m.service.MinimizeChat(contactID)
	} else {
		err = m.service.OpenChat(contactID)
	}
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.active = contactID
	m.focus = focusChat
	m.refresh()
	return m, m.messageInput.Focus()
}

// leaveChat moves to another visible window or back to the buddy list.
func (m Model) leaveChat() (tea.Model, tea.Cmd) {
	m.refresh()
	if visible := m.convs.Visible(); len(visible) > 0 {
		m.active = visible[0]
		m.renderTranscript()
		return m, nil
	}
	m.active = ""
	m.focus = focusBuddies
	m.messageInput.Blur()
	return m, nil
}

func (m Model) logout() (tea.Model, tea.Cmd) {
	if err := m.session.Logout(); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.user = domain.LocalUser{}
	m.convs = domain.Conversations{}
	m.contacts = nil
	m.active = ""
	m.cursor = 0
	m.focus = focusLogin
	m.loginField = 0
	m.emailInput.Blur()
	return m, m.nameInput.Focus()
}

func (m Model) nextVisible(current string) string {
	visible := m.convs.Visible()
	if len(visible) == 0 {
		return ""
	}
	_, idx, found := lo.FindIndexOf(visible, func(id string) bool { return id == current })
	if !found {
		return visible[0]
	}
	return visible[(idx+1)%len(visible)]
}

// buddies flattens the presence groups in display order.
func (m Model) buddies() []domain.Contact {
	return lo.FlatMap(directory.GroupByPresence(m.contacts), func(g directory.Group, _ int) []domain.Contact {
		return g.Contacts
	})
}

func (m *Model) refresh() {
	if contacts, err := m.service.Contacts(m.searchInput.Value()); err == nil {
		m.contacts = contacts
	}
	if convs, err := m.service.Conversations(); err == nil {
		m.convs = convs
	}
	if n := len(m.buddies()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	if conv, ok := m.convs[m.active]; !ok || conv.Minimized {
		m.active = ""
		if m.focus == focusChat {
			m.active = m.nextVisible("")
		}
		if m.active == "" && m.focus == focusChat {
			m.focus = focusBuddies
			m.messageInput.Blur()
		}
	}
	m.renderTranscript()
}

func (m *Model) resize() {
	chatWidth := max(m.width-sidebarWidth-6, 20)
	m.transcript.Width = chatWidth - 4
	m.transcript.Height = max(m.height-10, 5)
	m.messageInput.Width = chatWidth - 6
	m.renderTranscript()
}

func (m *Model) renderTranscript() {
	conv, ok := m.convs[m.active]
	if !ok {
		m.transcript.SetContent("")
		return
	}
	m.transcript.SetContent(m.renderMessages(conv))
	m.transcript.GotoBottom()
}

func shakeTick() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(time.Time) tea.Msg { return shakeMsg{} })
}
