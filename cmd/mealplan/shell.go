package mealplan

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run commands against one live store (undo/redo work here)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if activeSession != nil {
			return fmt.Errorf("already in a shell")
		}
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		activeSession = s
		defer func() {
			activeSession = nil
			_ = s.Close()
		}()
		return runShell(cmd)
	},
}

func runShell(cmd *cobra.Command) error {
	root := cmd.Root()
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	silenceErrors, silenceUsage := root.SilenceErrors, root.SilenceUsage
	root.SilenceErrors, root.SilenceUsage = true, true
	defer func() {
		root.SilenceErrors, root.SilenceUsage = silenceErrors, silenceUsage
	}()

	fmt.Fprintln(out, "mealplan shell. Type 'help' for commands, 'exit' to quit.")
	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "mealplan> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		args, err := splitArgs(in.Text())
		if err != nil {
			fmt.Fprintln(errOut, "error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "exit", "quit":
			return nil
		case "shell":
			fmt.Fprintln(errOut, "error: already in a shell")
			continue
		}
		resetFlags(root, root)
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			fmt.Fprintln(errOut, "error:", err)
		}
	}
}

// resetFlags puts every subcommand flag back to its default so one shell line
// does not leak into the next. Root persistent flags keep the values the
// shell was started with.
func resetFlags(root, c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if root.PersistentFlags().Lookup(f.Name) == f {
			return
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(root, sub)
	}
}

// splitArgs splits a shell line into words. Single quotes are literal,
// double quotes allow backslash escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
