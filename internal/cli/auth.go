package cli

import (
	"github.com/dimitrije/projectboard/internal/client"
	"github.com/dimitrije/projectboard/internal/session"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/spf13/cobra"
)

func (e *env) saveSession(resp *dto.AuthResponse) error {
	return e.sessions.Save(&session.Snapshot{
		User:         resp.User,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		SavedAt:      e.now().UTC(),
	})
}

func registerCmd(e *env) *cobra.Command {
	var req dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := e.api.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := e.saveSession(resp); err != nil {
				return err
			}
			e.printf("%s\n", successStyle.Render("Welcome, "+resp.User.Name+"!"))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name (defaults to the email local part)")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password, at least 6 characters")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func loginCmd(e *env) *cobra.Command {
	var req dto.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := e.api.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := e.saveSession(resp); err != nil {
				return err
			}
			e.printf("%s\n", successStyle.Render("Signed in as "+resp.User.Name))
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.sessions.Load()
			if err != nil {
				return err
			}
			if snap != nil && snap.RefreshToken != "" {
				// the local session goes regardless of what the server says
				_ = e.api.Logout(cmd.Context(), snap.RefreshToken)
			}
			if err := e.sessions.Clear(); err != nil {
				return err
			}
			e.printf("Signed out\n")
			return nil
		},
	}
}

// whoamiCmd prints the cached profile straight away, then asks the server
// and rewrites the cache when the profile changed.
func whoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := e.sessions.Load()
			if err != nil {
				return err
			}
			if snap == nil {
				return errNotSignedIn
			}
			e.printf("%s\n", renderUser(snap.User))

			var fresh *dto.UserResponse
			err = e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				fresh, err = api.Me(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			// authed may have refreshed the tokens
			if snap, err = e.sessions.Load(); err != nil || snap == nil {
				return err
			}
			if *fresh != snap.User {
				snap.User = *fresh
				snap.SavedAt = e.now().UTC()
				if err := e.sessions.Save(snap); err != nil {
					return err
				}
				e.printf("%s\n", renderUser(*fresh))
			}
			return nil
		},
	}
}

func renameCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <new name>",
		Short: "Change your display name everywhere",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var user *dto.UserResponse
			err := e.authed(cmd.Context(), func(api *client.Client) error {
				var err error
				user, err = api.Rename(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				return err
			}

			snap, err := e.sessions.Load()
			if err != nil {
				return err
			}
			if snap != nil {
				snap.User = *user
				if err := e.sessions.Save(snap); err != nil {
					return err
				}
			}
			e.printf("%s\n", successStyle.Render("Renamed to "+user.Name))
			return nil
		},
	}
}
