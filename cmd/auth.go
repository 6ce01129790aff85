package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s0up4200/marquee/store"
)

// errLoginFailed is returned after a rejected login has been rendered
var errLoginFailed = errors.New("login failed")

var (
	loginUsername string
	loginPassword string
	loginTimeout  time.Duration
)

// loginCmd represents the login command
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session for later commands",
	Long: `Log in with a username and password. The password is prompted for
without echo when it is not given as a flag.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd represents the logout command
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the current session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

// whoamiCmd represents the whoami command
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	loginCmd.Flags().DurationVar(&loginTimeout, "timeout", 30*time.Second, "give up waiting for the login after this long")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	c := app.component

	c.Username = loginUsername
	if c.Username == "" {
		username, err := promptLine(out, cmd.InOrStdin(), "Username: ")
		if err != nil {
			return err
		}
		c.Username = username
	}

	c.Password = loginPassword
	if c.Password == "" && stdinIsTTY() {
		password, err := promptPassword(out, "Password: ")
		if err != nil {
			return err
		}
		c.Password = password
	}

	if err := c.Login(); err != nil {
		return err
	}
	logger.Debug().Str("username", c.Username).Msg("Login dispatched")

	ctx, cancel := context.WithTimeout(cmd.Context(), loginTimeout)
	defer cancel()

	st, err := c.Await(ctx)
	if err != nil {
		return fmt.Errorf("login did not complete: %w", err)
	}
	if err := c.Render(out); err != nil {
		return err
	}
	if st.Error != nil {
		return errLoginFailed
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	wasLoggedIn := store.IsAuthenticated(app.store.State())
	app.component.Logout()

	if wasLoggedIn {
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
	}
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	return app.component.Render(cmd.OutOrStdout())
}
