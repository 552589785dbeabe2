// Package cli implements pmctl, the terminal client of projectboard.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dimitrije/projectboard/internal/client"
	"github.com/dimitrije/projectboard/internal/session"
	"github.com/spf13/cobra"
)

// EnvAPIURL overrides client.DefaultBaseURL.
const EnvAPIURL = "PMCTL_API_URL"

var errNotSignedIn = errors.New("not signed in; run 'pmctl login' first")

// env is what every command runs against. Tests swap in their own.
type env struct {
	api      *client.Client
	sessions *session.FileStore
	out      io.Writer
	now      func() time.Time
}

// NewRootCommand builds the pmctl command tree around api and sessions.
func NewRootCommand(api *client.Client, sessions *session.FileStore) *cobra.Command {
	e := &env{api: api, sessions: sessions, now: time.Now}

	root := &cobra.Command{
		Use:   "pmctl",
		Short: "Manage projectboard projects from the terminal",
		Long: `pmctl signs in to a projectboard server and shows your projects,
their deadlines and kanban boards.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			e.out = cmd.OutOrStdout()
		},
	}

	root.AddCommand(
		registerCmd(e),
		loginCmd(e),
		logoutCmd(e),
		whoamiCmd(e),
		renameCmd(e),
		projectsCmd(e),
		projectCmd(e),
		boardCmd(e),
		taskCmd(e),
		moveCmd(e),
	)
	return root
}

// Execute runs pmctl against the configured server and session file.
func Execute() error {
	baseURL := os.Getenv(EnvAPIURL)
	if baseURL == "" {
		baseURL = client.DefaultBaseURL
	}

	path, err := session.DefaultPath()
	if err != nil {
		return err
	}

	return NewRootCommand(client.New(baseURL, nil), session.NewFileStore(path)).Execute()
}

// authed runs fn with the cached access token. A 401 triggers one refresh of
// the token pair, which is written back to the session file before retrying.
func (e *env) authed(ctx context.Context, fn func(api *client.Client) error) error {
	snap, err := e.sessions.Load()
	if err != nil {
		return err
	}
	if snap == nil {
		return errNotSignedIn
	}

	err = fn(e.api.WithToken(snap.AccessToken))
	if !client.IsUnauthorized(err) || snap.RefreshToken == "" {
		return err
	}

	refreshed, rerr := e.api.Refresh(ctx, snap.RefreshToken)
	if rerr != nil {
		if client.IsUnauthorized(rerr) {
			_ = e.sessions.Clear()
			return errNotSignedIn
		}
		return rerr
	}
	if err := e.saveSession(refreshed); err != nil {
		return err
	}
	return fn(e.api.WithToken(refreshed.AccessToken))
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}
