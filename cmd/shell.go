/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mytherion/client/internal/logger"
	"github.com/spf13/cobra"
)

const shellPrompt = "mytherion> "

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively in one session",
		Long: `Run commands interactively. The session cookie and list filters are kept
between lines, so log in once and keep working:

	mytherion> login --email you@example.com --password ...
	mytherion> projects create --name "Eldoria"
	mytherion> exit
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runShell(cmd)
		},
	}
}

func (a *app) runShell(cmd *cobra.Command) error {
	a.inShell = true
	defer func() { a.inShell = false }()

	ctx := cmd.Context()
	a.log.Debug("Shell started")

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		a.printf("%s", shellPrompt)
		line, err := a.readLine()
		if errors.Is(err, io.EOF) {
			a.printf("\n")
			return nil
		}
		if err != nil {
			return err
		}

		args, err := splitLine(line)
		if err != nil {
			fmt.Fprintf(a.errOut, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		}

		root := newRootCmd(a)
		root.SetArgs(args)
		if err := root.ExecuteContext(ctx); err != nil {
			a.log.Debug("Shell command failed", logger.Fields{"command": args[0]})
			fmt.Fprintf(a.errOut, "Error: %v\n", err)
		}
	}
}

// splitLine splits a shell line on spaces. Double quotes group words and
// a doubled quote inside them stands for a literal one.
func splitLine(line string) ([]string, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	r := csv.NewReader(strings.NewReader(line))
	r.Comma = ' '
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot parse line: %w", err)
	}

	args := make([]string, 0, len(fields))
	for _, field := range fields {
		if field != "" {
			args = append(args, field)
		}
	}
	return args, nil
}
