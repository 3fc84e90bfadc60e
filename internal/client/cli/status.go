package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/hirehub/internal/client/services"
)

// getStatus renders the prompt decoration: name, role and unread count of
// the signed-in user.
func (a *App) getStatus() string {
	if a.auth.State() == services.StateRestoring {
		return "(restoring)"
	}

	u := a.auth.CurrentUser()
	if u == nil {
		return ""
	}

	parts := []string{u.Name}
	if u.Role != "" {
		parts = append(parts, u.Role.Label())
	}
	if n := a.panel.UnreadCount(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unread", n))
	}
	return "(" + strings.Join(parts, " | ") + ")"
}
