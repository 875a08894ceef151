package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"igmobile/pkg/instagram"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	Long: `Log in with the account's user name and password.

The password is taken from the configuration or IGMOBILE_PASSWORD; otherwise
you are prompted for it. Only the session is stored, never a prompted password
outside the state store.`,
	Example: `  igmobile login -u alice
  IGMOBILE_PASSWORD=secret igmobile login -u alice`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Account.Username == "" {
			return fmt.Errorf("no account selected: use --username or IGMOBILE_USERNAME")
		}
		if cfg.Account.Password == "" {
			fmt.Fprintf(os.Stderr, "Password for %s: ", cfg.Account.Username)
			password, err := readPassword()
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			cfg.Account.Password = password
		}

		return withClient(cmd.Context(), func(ctx context.Context, c *instagram.Client) error {
			if err := c.Login(ctx); err != nil {
				return err
			}
			user := c.Session().LoggedInUser
			out.Success(fmt.Sprintf("Logged in as %s", user.UserName))
			out.Info("User ID", user.Pk)
			out.Info("Device", c.Device().HardwareModel)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session on the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			if err := c.Logout(ctx); err != nil {
				return err
			}
			out.Success("Logged out")
			return nil
		}))
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd.Context(), requireLogin(func(ctx context.Context, c *instagram.Client) error {
			me, err := c.GetCurrentUser(ctx)
			if err != nil {
				return err
			}
			out.Item(me.UserName, me.FullName, "pk "+me.Pk)
			if me.Email != "" {
				out.Info("Email", me.Email)
			}
			if me.Biography != "" {
				out.Info("Biography", me.Biography)
			}
			return nil
		}))
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// readPassword reads without echo from a terminal and falls back to a line
// from stdin.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err == nil {
			return string(password), nil
		}
	}

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
