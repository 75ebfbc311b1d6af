package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dori/projectflow/internal/api"
	"github.com/dori/projectflow/internal/app"
)

var (
	loginEmail    string
	loginPassword string
	loginName     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in, creating the account on first use",
	Long: `Sign in and store the session with the rest of the data.

Signing in with an unknown email creates the account, named after the
part of the email before the @. Pass --name to register with a display
name instead.

Examples:
  projectflow login --email ada@example.com --password secret
  projectflow login --email ada@example.com --password secret --name "Ada Lovelace"`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (required)")
	loginCmd.Flags().StringVar(&loginName, "name", "", "Register a new account with this display name")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, err := openApp(p, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	ctx := cmd.Context()

	if loginName != "" {
		ok, err := a.State.Register(ctx, loginName, loginEmail, loginPassword)
		if errors.Is(err, api.ErrUserExists) {
			return p.Error("User already exists",
				"An account with this email is already registered.",
				"Sign in without --name")
		}
		if !ok {
			return p.Error("Registration failed", "The account could not be created.")
		}
	} else if !a.State.Login(ctx, loginEmail, loginPassword) {
		return p.Error("Invalid email or password", "",
			"Check the email and password and try again")
	}

	user := a.State.User()
	p.Success("Signed in as %s <%s>", user.Name, user.Email)
	p.Info("%d projects", len(a.State.Projects()))
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, err := openApp(p, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := requireUser(cmd.Context(), a, p); err != nil {
		return err
	}
	if !a.State.Logout(cmd.Context()) {
		return p.Error("Failed to sign out", "The session could not be cleared.")
	}
	p.Success("Signed out")
	return nil
}
