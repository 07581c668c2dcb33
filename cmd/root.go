/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mytherion/client/config"
	"github.com/mytherion/client/internal/api"
	"github.com/mytherion/client/internal/logger"
	"github.com/mytherion/client/internal/services"
	"github.com/mytherion/client/internal/store"
	"github.com/mytherion/client/internal/validation"
	"github.com/spf13/cobra"
)

// errNotAuthenticated is returned by commands that need a session.
var errNotAuthenticated = errors.New("not logged in: run `mytherion login` or set MYTHERION_EMAIL and MYTHERION_PASSWORD")

// app is the state shared by every command of one process. In the shell
// it outlives the command tree, so the session carries over between lines.
type app struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store

	in     io.Reader
	lines  *bufio.Reader
	out    io.Writer
	errOut io.Writer

	logLevel string
	inShell  bool
}

func newApp(cfg config.Config) *app {
	return &app{
		cfg:    cfg,
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
}

// setup builds the logger and the store once per process.
func (a *app) setup() error {
	if a.store != nil {
		return nil
	}

	opts := logger.Options{Out: a.errOut, Development: a.cfg.Development()}
	raw := a.logLevel
	if raw == "" {
		raw = a.cfg.LogLevel
	}
	if raw != "" {
		level, err := logger.ParseLevel(raw)
		if err != nil {
			return err
		}
		opts.Level = &level
	}
	a.log = logger.New(opts).Child(logger.Fields{"app": "mytherion"})

	client, err := api.New(api.Config{BaseURL: a.cfg.API.BaseURL, Logger: a.log})
	if err != nil {
		return err
	}
	a.log.Debug("API client ready", logger.Fields{"baseUrl": client.BaseURL()})
	a.store = store.New(store.DepsFrom(services.New(client, a.log), a.log))
	return nil
}

// requireSession makes sure the store holds an authenticated session.
// Configured credentials take precedence over probing an existing cookie.
func (a *app) requireSession(ctx context.Context) error {
	auth := a.store.Auth.State()
	if auth.IsAuthenticated {
		return nil
	}

	if a.cfg.HasCredentials() {
		form := validation.LoginForm{Email: a.cfg.Session.Email, Password: a.cfg.Session.Password}
		if err := form.Validate().Err(); err != nil {
			return err
		}
		_, err := a.store.Auth.Login(ctx, form.Request())
		return err
	}

	if !auth.IsInitialized {
		if _, err := a.store.Auth.CheckAuth(ctx); err == nil {
			return nil
		}
	}
	return errNotAuthenticated
}

// readLine returns the next input line without its line ending.
func (a *app) readLine() (string, error) {
	if a.lines == nil {
		a.lines = bufio.NewReader(a.in)
	}
	line, err := a.lines.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// confirm asks a yes/no question; anything but y or yes declines.
func (a *app) confirm(question string) bool {
	a.printf("%s [y/N] ", question)
	answer, err := a.readLine()
	if err != nil {
		a.printf("\n")
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mytherion",
		Short: "Command line client for the Mytherion worldbuilding API",
		Long: `Manage Mytherion accounts, projects and entities from the terminal. Usage:

	mytherion login --email you@example.com --password ...
	mytherion projects list
	mytherion shell
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", a.logLevel, "minimum log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newVerifyEmailCmd(a),
		newResendVerificationCmd(a),
		newProjectsCmd(a),
		newEntitiesCmd(a),
		newServeFakeCmd(a),
	)
	if !a.inShell {
		rootCmd.AddCommand(newShellCmd(a))
	}
	return rootCmd
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(cfg)
	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
