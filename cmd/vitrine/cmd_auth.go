package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"vitrine/internal/auth"
)

var registerFullName string

// loginCmd authenticates against the backend and persists the session token
var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and persist the session token",
	Long: `Authenticate with the backend and store the session token locally.

The password is read from the terminal without echo (or from stdin when
piped). The token survives restarts; run 'vitrine logout' to drop it.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

// registerCmd creates a new account
var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create a new account",
	Long: `Create a new account on the backend.

Registration does not log you in; follow up with 'vitrine login'.`,
	Args: cobra.ExactArgs(1),
	RunE: runRegister,
}

// logoutCmd drops the local session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and delete the stored token",
	RunE:  runLogout,
}

// whoamiCmd shows the current session
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently authenticated user",
	RunE:  runWhoami,
}

func init() {
	registerCmd.Flags().StringVar(&registerFullName, "name", "", "full name for the new account")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email := args[0]

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	if err := app.Session.Login(cmd.Context(), email, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fmt.Errorf("invalid email or password")
		}
		return err
	}

	user := app.Session.User()
	fmt.Printf("✓ Logged in as %s", user.Email)
	if user.IsAdmin {
		fmt.Print(" (admin)")
	}
	fmt.Println()
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	email := args[0]

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := app.Session.Register(cmd.Context(), email, password, registerFullName); err != nil {
		return err
	}

	fmt.Printf("✓ Account created for %s\n", email)
	fmt.Println("Run 'vitrine login' to start a session.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	app.Session.Logout()
	fmt.Println("✓ Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	if !app.Session.HasToken() {
		fmt.Println("Not logged in.")
		return nil
	}

	// A stored token is only trusted once the backend confirms it.
	if err := app.Session.FetchMe(cmd.Context()); err != nil {
		fmt.Println("Session expired. Run 'vitrine login' again.")
		return nil
	}

	user := app.Session.User()
	fmt.Printf("Email: %s\n", user.Email)
	if user.FullName != "" {
		fmt.Printf("Name:  %s\n", user.FullName)
	}
	if user.IsAdmin {
		fmt.Println("Role:  admin")
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal, and
// falls back to a plain line read when input is piped.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
