package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/kolkov/scriptbox"
	"github.com/kolkov/scriptbox/value"
)

func newReplCmd(g *globals) *cobra.Command {
	var entityPath string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Evaluate scripts interactively against one entity",
		Long: `Start an interactive session. Declarations persist between inputs and
every input gets a fresh budget. Unfinished input continues on the next line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := g.options(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			entity, err := loadEntity(entityPath)
			if err != nil {
				return err
			}
			facade := opts.FacadeName
			if facade == "" {
				facade = scriptbox.DefaultFacadeName
			}
			r := &repl{
				session: scriptbox.NewSession(map[string]value.Value{facade: value.ObjectOf(entity)}, opts),
				opts:    opts,
				out:     cmd.OutOrStdout(),
				errOut:  cmd.ErrOrStderr(),
			}
			if in := cmd.InOrStdin(); in != os.Stdin || !isInteractive() {
				return r.runBuffered(bufio.NewReader(in))
			}
			return r.runInteractive()
		},
	}
	cmd.Flags().StringVarP(&entityPath, "entity", "e", "", "YAML file holding the entity fields")
	return cmd
}

type repl struct {
	session *scriptbox.Session
	opts    *scriptbox.Options
	out     io.Writer
	errOut  io.Writer
	buffer  strings.Builder
}

// feed adds a line to the pending input and evaluates it once it parses.
// It reports whether more input is needed.
func (r *repl) feed(line string, final bool) (more bool) {
	r.buffer.WriteString(line)
	r.buffer.WriteString("\n")
	src := r.buffer.String()

	prog, err := scriptbox.ParseWith(src, r.opts)
	if err != nil {
		if isIncomplete(err) && !final {
			return true
		}
		fmt.Fprintf(r.errOut, "%v\n", err)
		r.buffer.Reset()
		return false
	}
	r.buffer.Reset()

	v, err := r.session.Run(prog)
	if err != nil {
		fmt.Fprintf(r.errOut, "%v\n", err)
		return false
	}
	if strings.TrimSpace(src) != "" {
		fmt.Fprintln(r.out, v)
	}
	return false
}

// isIncomplete reports whether the input ended before the construct did.
func isIncomplete(err error) bool {
	var se *scriptbox.SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	return strings.Contains(se.Message, "end of input") || strings.Contains(se.Message, "unterminated comment")
}

func (r *repl) runBuffered(reader *bufio.Reader) error {
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)
		if line != "" || r.buffer.Len() > 0 {
			r.feed(strings.TrimSuffix(line, "\n"), eof)
		}
		if eof {
			return nil
		}
	}
}

func (r *repl) runInteractive() error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)
	state.SetCompleter(func(line string) []string {
		return complete(line, r.session.Names())
	})

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	for {
		prompt := "> "
		if r.buffer.Len() > 0 {
			prompt = ". "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(r.out)
				r.buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Fprintln(r.out)
				return nil
			default:
				return err
			}
		}
		if !r.feed(input, false) {
			if trimmed := strings.TrimSpace(input); trimmed != "" {
				state.AppendHistory(trimmed)
			}
		}
	}
}

// complete offers the visible names that extend the last word of line.
func complete(line string, names []string) []string {
	i := strings.LastIndexFunc(line, func(r rune) bool {
		return !(r == '_' || r == '$' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z')
	})
	head, word := line[:i+1], line[i+1:]
	if word == "" {
		return nil
	}
	var out []string
	for _, name := range names {
		if strings.HasPrefix(name, word) {
			out = append(out, head+name)
		}
	}
	return out
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".scriptbox_history")
}

func isInteractive() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
