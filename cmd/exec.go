package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joelmoss/svnscm/internal/svn"
	"github.com/spf13/cobra"
)

var (
	execCwd        string
	execInput      string
	execEncoding   string
	execLine       string
	execTranscript string
	execNoLog      bool
)

var execCmd = &cobra.Command{
	Use:     "exec [flags] [--] ARGS...",
	Aliases: []string{"x"},
	Short:   "Run svn with the given arguments",
	Long:    "Run svn in the current directory and print its standard output. The command line and any stderr text are logged to standard error.",
	Example: "  svnscm exec -- status -v\n  svnscm exec --line 'log -l 5 \"my file.txt\"'\n  echo 'message' | svnscm exec --input - -- commit -F -",
	RunE: func(cmd *cobra.Command, args []string) error {
		if execLine == "" && len(args) == 0 {
			return errors.New("nothing to run: pass svn arguments or --line")
		}

		opts := svn.Options{
			Cwd:      execCwd,
			Input:    execInput,
			Encoding: execEncoding,
			NoLog:    execNoLog,
		}
		if execInput == "-" {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			opts.Input = string(b)
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		sess, err := newService().Open(cmd.Context())
		if err != nil {
			return err
		}
		defer sess.Dispose()

		if execTranscript != "" {
			f, err := os.OpenFile(execTranscript, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			d := sess.OnLog()(func(line string) { _, _ = io.WriteString(f, line) })
			defer d.Dispose()
		}

		var res svn.ExecutionResult
		if execLine != "" {
			res, err = sess.ExecLine(cmd.Context(), cwd, execLine, opts)
		} else {
			res, err = sess.Exec(cmd.Context(), cwd, args, opts)
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Stdout)

		var execErr *svn.ExecutionError
		if errors.As(err, &execErr) {
			// stderr has already been logged
			return fmt.Errorf("svn exited with code %d", execErr.ExitCode)
		}
		return err
	},
}

func init() {
	execCmd.Flags().StringVarP(&execCwd, "cwd", "C", "", "Run svn in this directory instead of the current one")
	execCmd.Flags().StringVar(&execInput, "input", "", "Text to write to svn's standard input ('-' reads it from stdin)")
	execCmd.Flags().StringVar(&execEncoding, "encoding", svn.DefaultEncoding, "Character encoding of svn's standard output")
	execCmd.Flags().StringVar(&execLine, "line", "", "Shell-style svn command line to run instead of ARGS")
	execCmd.Flags().StringVar(&execTranscript, "transcript", "", "Append every log event to this file")
	execCmd.Flags().BoolVar(&execNoLog, "no-log", false, "Do not log the command line or stderr")
	rootCmd.AddCommand(execCmd)
}
