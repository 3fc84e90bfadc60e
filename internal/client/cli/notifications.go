package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/hirehub/internal/client/models"
)

// panelInteraction tells the panel where the last interaction happened.
func (a *App) panelInteraction(inside bool) {
	a.panel.HandlePointer(inside)
}

// Notifications opens the panel and prints it.
func (a *App) Notifications(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.panel.Open()
	a.renderPanel()
	return nil
}

// Refresh reloads the list and prints it.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.panel.Fetch(ctx)
	a.panel.Open()
	a.renderPanel()
	return nil
}

// Read marks one notification read.
func (a *App) Read(ctx context.Context, id string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if err := a.panel.MarkRead(ctx, models.StringID(id)); err != nil {
		return err
	}
	if a.panel.IsOpen() {
		a.renderPanel()
	}
	return nil
}

func (a *App) renderPanel() {
	items := a.panel.Items()

	fmt.Fprintf(a.out, "Notifications (%d unread)\n", models.CountUnread(items))
	switch {
	case a.panel.Loading():
		fmt.Fprintln(a.out, "  Loading...")
	case len(items) == 0:
		fmt.Fprintln(a.out, "  No notifications")
	}
	for _, n := range items {
		mark := "*"
		if n.Read {
			mark = " "
		}
		fmt.Fprintf(a.out, "  %s %-24s %s", mark, n.ID.String(), n.Message)
		if !n.CreatedAt.IsZero() {
			fmt.Fprintf(a.out, "  (%s)", n.CreatedAt.Local().Format(time.DateTime))
		}
		fmt.Fprintln(a.out)
	}
}
