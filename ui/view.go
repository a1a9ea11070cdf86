package ui

import (
	"fmt"
	"msn-reimagined/directory"
	"msn-reimagined/domain"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

const logo = `
 __  __ ___ _  _
|  \/  / __| \| |  Messenger
| |\/| \__ \ .' |  reimagined
|_|  |_|___/_|\_|
`

func (m Model) View() string {
	if m.focus == focusLogin {
		return m.viewLogin()
	}

	sidebar := m.styles.Sidebar.Width(sidebarWidth).Render(m.viewBuddies())
	pane := m.viewWelcome()
	if m.active != "" {
		pane = m.viewChat()
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane)

	parts := []string{m.viewHeader(), body}
	if tabs := m.viewTabs(); tabs != "" {
		parts = append(parts, tabs)
	}
	parts = append(parts, m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(logo))
	b.WriteString("\n\n")
	b.WriteString(m.nameInput.View())
	b.WriteString("\n")
	b.WriteString(m.emailInput.View())
	b.WriteString("\n\n")
	if m.status != "" {
		b.WriteString(m.styles.Error.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render("tab switch field • enter sign in • ctrl+c quit"))
	return m.styles.Box.Render(b.String())
}

func (m Model) viewHeader() string {
	status := m.user.Presence.Label()
	if m.user.StatusMessage != "" {
		status += " - " + m.user.StatusMessage
	}
	return m.styles.Title.Render(fmt.Sprintf("%s %s", PresenceDot(m.user.Presence), m.user.Name)) +
		m.styles.Muted.Render(status)
}

func (m Model) viewBuddies() string {
	var b strings.Builder
	if m.focus == focusSearch || m.searchInput.Value() != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	groups := directory.GroupByPresence(m.contacts)
	if len(groups) == 0 {
		b.WriteString(m.styles.Muted.Render("No contacts found"))
		return b.String()
	}

	index := 0
	for _, group := range groups {
		b.WriteString(m.styles.Group.Render(fmt.Sprintf("%s (%d)", group.Presence.Label(), len(group.Contacts))))
		b.WriteString("\n")
		for _, contact := range group.Contacts {
			line := fmt.Sprintf("%s %s", PresenceDot(contact.Presence), contact.Name)
			if _, open := m.convs[contact.ID]; open {
				line += " 💬"
			}
			line += "\n" + m.styles.Muted.Render("  "+truncate(m.emoticons.Render(contact.StatusMessage), sidebarWidth-6))
			if index == m.cursor && m.focus != focusChat {
				b.WriteString(m.styles.Selected.Render(line))
			} else {
				b.WriteString(m.styles.Item.Render(line))
			}
			b.WriteString("\n")
			index++
		}
	}
	return b.String()
}

func (m Model) viewWelcome() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Welcome, %s!", m.user.Name)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("Pick a buddy and press enter to start chatting."))
	if online := lo.CountBy(m.contacts, func(c domain.Contact) bool { return c.IsOnline() }); online > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d of your contacts are online.", online)))
	}
	return m.styles.Window.MarginLeft(1).Render(b.String())
}

func (m Model) viewChat() string {
	conv := m.convs[m.active]
	contact := conv.Contact

	header := m.styles.Header.Render(fmt.Sprintf("%s %s  %s", PresenceDot(contact.Presence), contact.Name,
		m.styles.Muted.Render(contact.LastSeenText(m.now()))))

	input := m.messageInput.View()
	if m.status != "" {
		input += "\n" + m.styles.Error.Render(m.status)
	}
	content := lipgloss.JoinVertical(lipgloss.Left, header, m.transcript.View(), input)

	// A nudge shakes the window from side to side
	offset := 1
	if m.shake > 0 && m.shake%2 == 0 {
		offset = 3
	}
	return m.styles.Window.MarginLeft(offset).Render(content)
}

func (m Model) renderMessages(conv domain.Conversation) string {
	if len(conv.Messages) == 0 {
		return m.styles.Muted.Render(fmt.Sprintf("Start a conversation with %s", conv.Contact.Name))
	}
	lines := make([]string, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		at := msg.CreatedAt.Format("15:04")
		switch {
		case msg.IsSystem():
			lines = append(lines, m.styles.System.Render(fmt.Sprintf("%s  %s", at, msg.Body)))
		case msg.FromLocalUser():
			lines = append(lines, m.styles.Own.Render(fmt.Sprintf("%s  %s:", at, msg.Sender))+" "+m.emoticons.Render(msg.Body))
		default:
			lines = append(lines, m.styles.Buddy.Render(fmt.Sprintf("%s  %s:", at, msg.Sender))+" "+m.emoticons.Render(msg.Body))
		}
	}
	return strings.Join(lines, "\n")
}

// viewTabs renders the minimized tab strip.
func (m Model) viewTabs() string {
	minimized := m.convs.Minimized()
	if len(minimized) == 0 {
		return ""
	}
	tabs := make([]string, 0, len(minimized))
	for _, id := range minimized {
		conv := m.convs[id]
		label := fmt.Sprintf("%s %s", PresenceDot(conv.Contact.Presence), conv.Contact.Name)
		if n := len(conv.Messages); n > 0 {
			label += fmt.Sprintf(" (%d)", n)
		}
		tabs = append(tabs, m.styles.Tab.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewFooter() string {
	help := "↑/↓ select • enter open • / search • tab chats • t theme • L sign out • q quit"
	switch m.focus {
	case focusChat:
		help = "enter send • ctrl+n nudge • ctrl+t minimize • ctrl+w close • tab next • esc buddies"
	case focusSearch:
		help = "type to filter • enter keep • esc clear"
	}
	return m.styles.Muted.Render(help)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
