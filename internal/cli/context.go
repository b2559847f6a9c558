// Package cli provides the command-line interface for the scrape application.
package cli

import (
	"context"
	"sync"

	"github.com/law-makers/scrape/internal/app"
	"github.com/spf13/cobra"
)

// ctxKey is used for storing app context in cobra commands
type ctxKey string

const appKey ctxKey = "app"

var (
	appMu     sync.Mutex
	activeApp *app.Application
)

// SetApp stores the Application in the command's context. It is also kept
// package-wide so it can be closed when the command finishes.
func SetApp(cmd *cobra.Command, a *app.Application) {
	appMu.Lock()
	activeApp = a
	appMu.Unlock()

	if cmd == nil {
		return
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey, a))
}

// GetAppFromCmd retrieves the Application stored by SetApp, or nil
func GetAppFromCmd(cmd *cobra.Command) *app.Application {
	if cmd == nil || cmd.Context() == nil {
		return nil
	}
	a, _ := cmd.Context().Value(appKey).(*app.Application)
	return a
}

// closeApp shuts the active application down, if any
func closeApp() {
	appMu.Lock()
	a := activeApp
	activeApp = nil
	appMu.Unlock()

	if a == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTPTimeout*3)
	defer cancel()
	_ = a.Close(ctx)
}
