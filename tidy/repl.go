package tidy

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sort"
	"strings"
)

var precounts map[string]int
var postcounts map[string]int

func CountPreHook(ev *Evaluator, name string, args []Sexp) {
	precounts[name] += 1
}

func CountPostHook(ev *Evaluator, name string, retval Sexp) {
	postcounts[name] += 1
}

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

var continuationPrompt = "... "

// Session is a repl's evaluator plus the data every line is
// evaluated against.
type Session struct {
	Ev   *Evaluator
	Data Sexp
	Out  io.Writer
}

func NewSession(ev *Evaluator, data Sexp) *Session {
	return &Session{Ev: ev, Data: data, Out: OurStdout}
}

// EvalLine evaluates the expressions read from one complete input.
// With data loaded each goes through EvalTidy; otherwise it is a
// plain evaluation in the global frame.
func (s *Session) EvalLine(xs []Sexp) (Sexp, error) {
	var res Sexp = SexpNull
	var err error
	for _, x := range xs {
		if s.Data != nil {
			res, err = s.Ev.EvalTidy(x, s.Data, s.Ev.Global())
		} else {
			res, err = s.Ev.Eval(x, s.Ev.Global())
		}
		if err != nil {
			return SexpNull, err
		}
	}
	return res, nil
}

func (pr *Prompter) getExpression(reader *bufio.Reader, noLiner bool) (readin string, xs []Sexp, err error) {
	var line, nextline string

	if noLiner {
		fmt.Print(pr.prompt)
		line, err = getLine(reader)
	} else {
		line, err = pr.Getline(nil)
	}
	if err != nil {
		return "", nil, err
	}

	xs, err = ParseString(line)
	for err == UnexpectedEnd {
		if noLiner {
			fmt.Print(continuationPrompt)
			nextline, err = getLine(reader)
		} else {
			nextline, err = pr.Getline(&continuationPrompt)
		}
		if err != nil {
			return "", nil, err
		}
		line += "\n" + nextline
		xs, err = ParseString(line)
	}
	if err != nil {
		return line, nil, err
	}
	return line, xs, nil
}

// Command handles a dot-command; it reports whether line was one.
func (s *Session) Command(line string) (handled bool, quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], ".") {
		return false, false
	}
	switch parts[0] {
	case ".quit":
		return true, true
	case ".verb":
		Verbose = !Verbose
		fmt.Fprintf(s.Out, "verbose: %v.\n", Verbose)
	case ".trace":
		s.Ev.Trace = !s.Ev.Trace
		fmt.Fprintf(s.Out, "trace: %v.\n", s.Ev.Trace)
	case ".ls":
		out, err := s.Ev.Global().Show(NewPrintState(), "global")
		if err != nil {
			fmt.Fprintln(s.Out, err)
		} else {
			fmt.Fprint(s.Out, out)
		}
	case ".data":
		if s.Data == nil {
			fmt.Fprintln(s.Out, "no data loaded.")
			break
		}
		dict, err := AsDictionary(s.Data, true)
		if err != nil {
			fmt.Fprintln(s.Out, err)
			break
		}
		fmt.Fprintf(s.Out, "data columns: %s\n", strings.Join(dict.Names(), " "))
	case ".nodata":
		s.Data = nil
		fmt.Fprintln(s.Out, "data cleared.")
	default:
		// .data$x and friends are expressions
		return false, false
	}
	return true, false
}

func (s *Session) printResult(expr Sexp) {
	if expr == SexpNull {
		return
	}
	fmt.Fprintln(s.Out, expr.SexpString(nil))
}

func Repl(s *Session, cfg *TidyConfig) {
	var reader *bufio.Reader
	if cfg.NoLiner {
		reader = bufio.NewReader(os.Stdin)
	}

	if !cfg.Quiet {
		if cfg.Sandboxed {
			fmt.Printf("tidy [sandbox mode] version %s\n", Version())
		} else {
			fmt.Printf("tidy version %s\n", Version())
		}
		fmt.Printf("press tab to get completion suggestions. Ctrl-d to exit.\n")
	}
	var pr *Prompter
	if !cfg.NoLiner {
		pr = NewPrompter(cfg.Prompt, CompletionWords(s.Ev))
		defer pr.Close()
	} else {
		pr = &Prompter{prompt: cfg.Prompt}
	}

	for {
		line, exprsInput, err := pr.getExpression(reader, cfg.NoLiner)
		if err != nil {
			if err == io.EOF {
				return
			}
			fmt.Println(err)
			continue
		}

		handled, quit := s.Command(strings.TrimSpace(line))
		if quit {
			return
		}
		if handled {
			continue
		}

		expr, err := s.EvalLine(exprsInput)
		if err != nil {
			fmt.Println(ErrorMessage(err))
			continue
		}
		s.printResult(expr)
	}
}

// ErrorMessage puts the user-facing message of err first.
func ErrorMessage(err error) string {
	var stop *StopError
	if errors.As(err, &stop) {
		return "Error: " + stop.Msg
	}
	return "Error: " + err.Error()
}

func runScript(s *Session, fname string, cfg *TidyConfig) error {
	by, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	xs, err := ParseString(string(by))
	if err != nil {
		return err
	}
	_, err = s.EvalLine(xs)
	if cfg.CountFuncCalls {
		reportCounts()
	}
	return err
}

func reportCounts() {
	names := make([]string, 0, len(precounts))
	for name := range precounts {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("Pre:")
	for _, name := range names {
		fmt.Printf("\t%s: %d\n", name, precounts[name])
	}
	fmt.Println("Post:")
	for _, name := range names {
		fmt.Printf("\t%s: %d\n", name, postcounts[name])
	}
}

// NewConfiguredEvaluator builds the evaluator cfg describes.
func NewConfiguredEvaluator(cfg *TidyConfig) *Evaluator {
	var ev *Evaluator
	if cfg.Sandboxed {
		ev = NewEvaluatorSandbox()
	} else {
		ev = NewEvaluator()
	}
	ev.Trace = cfg.Trace
	ev.MaxDepth = cfg.MaxDepth
	if cfg.Verbose {
		Verbose = true
	}

	precounts = make(map[string]int)
	postcounts = make(map[string]int)
	if cfg.CountFuncCalls {
		ev.AddPreHook(CountPreHook)
		ev.AddPostHook(CountPostHook)
	}
	return ev
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *TidyConfig) {
	ev := NewConfiguredEvaluator(cfg)

	data, err := cfg.LoadDataSource(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading data: %v\n", err)
		os.Exit(1)
	}
	s := NewSession(ev, data)

	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer pprof.StopCPUProfile()
	}

	if cfg.Command != "" {
		xs, err := ParseString(cfg.Command)
		if err == nil {
			var res Sexp
			res, err = s.EvalLine(xs)
			if err == nil {
				s.printResult(res)
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", ErrorMessage(err))
			os.Exit(1)
		}
		return
	}

	runRepl := true
	args := cfg.Flags.Args()
	if len(args) > 0 {
		runRepl = false
		err := runScript(s, args[0], cfg)
		if err != nil {
			fmt.Println(ErrorMessage(err))
			if cfg.ExitOnFailure {
				os.Exit(-1)
			}
			runRepl = true
		}
	}
	if runRepl {
		Repl(s, cfg)
	}

	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer f.Close()

		err = pprof.Lookup("heap").WriteTo(f, 1)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
	}
}
