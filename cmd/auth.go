/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/mytherion/client/internal/validation"
	"github.com/spf13/cobra"
)

func newRegisterCmd(a *app) *cobra.Command {
	var form validation.RegisterForm

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Long: `Create an account. The account has to be verified before logging in:

	mytherion register --email you@example.com --username you --password ... --confirm-password ...
	mytherion verify-email <token>
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate().Err(); err != nil {
				return err
			}
			user, err := a.store.Auth.Register(cmd.Context(), form.Request())
			if err != nil {
				return err
			}
			a.printf("Registered %s. Check %s for a verification link.\n", user.Username, user.Email)
			return nil
		},
	}

	registerCmd.Flags().StringVar(&form.Email, "email", "", "email address")
	registerCmd.Flags().StringVar(&form.Username, "username", "", "public username (3-32 characters)")
	registerCmd.Flags().StringVar(&form.Password, "password", "", "password (8-72 characters)")
	registerCmd.Flags().StringVar(&form.ConfirmPassword, "confirm-password", "", "password again")
	return registerCmd
}

func newLoginCmd(a *app) *cobra.Command {
	form := validation.LoginForm{
		Email:    a.cfg.Session.Email,
		Password: a.cfg.Session.Password,
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long: `Start a session. The session lives as long as the process, so logging in
is most useful inside "mytherion shell". Defaults come from MYTHERION_EMAIL
and MYTHERION_PASSWORD.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.Validate().Err(); err != nil {
				return err
			}
			user, err := a.store.Auth.Login(cmd.Context(), form.Request())
			if err != nil {
				return err
			}
			a.printf("Logged in as %s.\n", user.Username)
			return nil
		},
	}

	loginCmd.Flags().StringVar(&form.Email, "email", form.Email, "email address")
	loginCmd.Flags().StringVar(&form.Password, "password", form.Password, "password")
	return loginCmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Auth.Logout(cmd.Context()); err != nil {
				return err
			}
			a.printf("Logged out.\n")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			renderUser(a.out, a.store.Auth.State().User)
			return nil
		},
	}
}

func newVerifyEmailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify-email <token>",
		Short: "Verify an email address and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.store.Auth.VerifyEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printf("Email verified. Logged in as %s.\n", user.Username)
			return nil
		},
	}
}

func newResendVerificationCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resend-verification <email>",
		Short: "Send a new verification link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.Auth.ResendVerification(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.printf("If %s belongs to an unverified account, a new link is on its way.\n", args[0])
			return nil
		},
	}
}
