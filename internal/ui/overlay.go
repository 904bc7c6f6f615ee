package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/careminder/internal/emoji"
	"github.com/yildizm/careminder/internal/notify"
)

// overlayMessages rotate while a long upload is running
var overlayMessages = []string{
	"Fetching the latest tail-wagging updates...",
	"Warming up the paw printer for your documents...",
	"Our resident pup is double-checking every page...",
	"Almost there, treats are motivating the review team...",
	"Lining up the leashes, your file is nearly ready...",
}

// toast is the transient notification shown in the footer
type toast struct {
	notify.Notification
	id int
}

// flushNotifications turns queued notifications into a toast. The latest one wins.
func (a *App) flushNotifications() tea.Cmd {
	a.inboxMu.Lock()
	queued := a.inbox
	a.inbox = nil
	a.inboxMu.Unlock()

	if len(queued) == 0 {
		return nil
	}

	a.toastSeq++
	id := a.toastSeq
	a.toast = &toast{Notification: queued[len(queued)-1], id: id}

	return a.opts.Tick(a.opts.ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// Toast returns the visible notification, if any
func (a *App) Toast() (notify.Notification, bool) {
	if a.toast == nil {
		return notify.Notification{}, false
	}
	return a.toast.Notification, true
}

// ensureOverlayTick starts rotating overlay messages when the overlay appears
func (a *App) ensureOverlayTick() tea.Cmd {
	if a.overlayLive || !a.pending.OverlayVisible() {
		return nil
	}
	a.overlayLive = true
	a.overlayIdx = 0
	return a.overlayTick()
}

func (a *App) overlayTick() tea.Cmd {
	return a.opts.Tick(a.opts.OverlayInterval, func(t time.Time) tea.Msg {
		return overlayTickMsg(t)
	})
}

func (a *App) handleOverlayTick() tea.Cmd {
	if !a.pending.OverlayVisible() {
		a.overlayLive = false
		return nil
	}
	a.overlayIdx = (a.overlayIdx + 1) % len(overlayMessages)
	return a.overlayTick()
}

func (a *App) renderOverlay() string {
	s := a.styles

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		s.Render(s.Header, emoji.GetEmoji("paw")+" "+a.spinner.View()),
		"",
		s.Render(s.Header, overlayMessages[a.overlayIdx]),
		"",
		s.Render(s.Muted, "Your upload is syncing with the care team. Keep this window open until it finishes."),
	)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, s.Render(s.Overlay, content))
}

func (a *App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	icon := emoji.GetEmoji(string(a.toast.Severity))
	return a.styles.Render(a.styles.Severity(a.toast.Severity), icon+" "+a.toast.Message)
}
