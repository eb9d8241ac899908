package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yndnr/memkv-go/internal/cli/connection"
	"github.com/yndnr/memkv-go/internal/cli/output"
)

// Prompt is printed before every line.
const Prompt = "memkv> "

// errExit ends the loop.
var errExit = errors.New("exit")

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	completer *Completer
	history   *History
	mgr       *connection.Manager
	server    string
}

// Option configures a REPL.
type Option func(*REPL)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(r *REPL) {
		r.input = in
		r.output = out
	}
}

// WithHistory replaces the default history.
func WithHistory(h *History) Option {
	return func(r *REPL) {
		r.history = h
	}
}

// New creates a REPL that talks to server through mgr.
func New(mgr *connection.Manager, server string, opts ...Option) *REPL {
	r := &REPL{
		input:     os.Stdin,
		output:    os.Stdout,
		completer: NewCompleter(),
		mgr:       mgr,
		server:    server,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.history == nil {
		r.history = NewHistory("")
	}
	return r
}

// Run starts the REPL loop. It returns at exit, quit, end of input or
// when ctx is cancelled, saving the history on the way out.
func (r *REPL) Run(ctx context.Context) error {
	if err := r.history.Load(); err != nil {
		fmt.Fprintf(r.output, "warning: load history: %v\n", err)
	}
	defer func() {
		r.mgr.Disconnect()
		if err := r.history.Save(); err != nil {
			fmt.Fprintf(r.output, "warning: save history: %v\n", err)
		}
	}()

	if _, err := r.mgr.Connect(ctx, r.server); err != nil {
		fmt.Fprintf(r.output, "Could not connect to %s: %v\n", r.server, err)
	}

	reader := bufio.NewReader(r.input)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(r.output, Prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		line = strings.TrimSpace(line)
		if line != "" {
			r.history.Add(line)
			if err := r.execute(ctx, line); err != nil {
				if errors.Is(err, errExit) {
					return nil
				}
				fmt.Fprintf(r.output, "(error) %v\n", err)
			}
		}

		if eof {
			fmt.Fprintln(r.output)
			return nil
		}
	}
}

func (r *REPL) execute(ctx context.Context, line string) error {
	args, err := SplitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit":
		return errExit
	case "help":
		return r.help(args[1:])
	case "history":
		for i := r.history.Len() - 1; i >= 0; i-- {
			fmt.Fprintf(r.output, "%4d  %s\n", r.history.Len()-i, r.history.Get(i))
		}
		return nil
	case "connect":
		addr := r.server
		if len(args) > 1 {
			addr = args[1]
		}
		if _, err := r.mgr.Connect(ctx, addr); err != nil {
			return err
		}
		r.server = addr
		fmt.Fprintf(r.output, "Connected to %s\n", addr)
		return nil
	case "disconnect":
		if !r.mgr.IsConnected() {
			fmt.Fprintln(r.output, "Not connected")
			return nil
		}
		r.mgr.Disconnect()
		fmt.Fprintln(r.output, "Disconnected")
		return nil
	}

	client, err := r.client(ctx)
	if err != nil {
		return err
	}
	reply, err := client.Do(ctx, args...)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.output, output.FormatFrame(reply))
	return nil
}

// client returns the current connection, redialling when the server closed
// the previous one.
func (r *REPL) client(ctx context.Context) (*connection.Client, error) {
	if r.mgr.IsConnected() {
		return r.mgr.Current(), nil
	}
	c, err := r.mgr.Connect(ctx, r.server)
	if err != nil {
		return nil, fmt.Errorf("not connected: %w", err)
	}
	return c, nil
}

func (r *REPL) help(args []string) error {
	prefix := ""
	if len(args) > 0 {
		prefix = args[0]
	}
	matches := r.completer.Complete(prefix)
	if len(matches) == 0 {
		return fmt.Errorf("no command matches %q", prefix)
	}
	fmt.Fprintf(r.output, "Commands: %s\n", strings.Join(matches, ", "))
	fmt.Fprintln(r.output, "Anything else is sent to the server as is.")
	return nil
}

// SplitArgs splits a line into arguments. Double-quoted arguments honor
// \n, \r, \t, \" and \\ escapes. Single-quoted arguments are literal apart
// from \'.
func SplitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			escaped = false
			if quote == '"' {
				switch ch {
				case 'n':
					ch = '\n'
				case 'r':
					ch = '\r'
				case 't':
					ch = '\t'
				}
				cur.WriteRune(ch)
			} else if ch == '\'' {
				cur.WriteRune(ch)
			} else {
				cur.WriteRune('\\')
				cur.WriteRune(ch)
			}
		case quote != 0 && ch == '\\':
			escaped = true
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(ch)
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 || escaped {
		return nil, errors.New("unbalanced quotes")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
