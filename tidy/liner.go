package tidy

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glycerine/liner"
)

var historyFile = filepath.Join(os.Getenv("HOME"), ".tidyhist")

// Prompter reads repl input through liner, keeping history across
// sessions in historyFile.
type Prompter struct {
	prompt string
	state  *liner.State
}

// CompletionWords offers "(name " for every function bound in the
// evaluator's base frame, plus the two pronouns.
func CompletionWords(ev *Evaluator) []string {
	words := []string{".data$", ".env$"}
	for _, sym := range ev.BaseEnv().Symbols() {
		v, _ := ev.BaseEnv().GetLocal(sym)
		if _, isFn := v.(*SexpFunction); isFn {
			words = append(words, "("+sym.Name()+" ")
		}
	}
	sort.Strings(words)
	return words
}

// completeFrom completes the last word of line, where a word starts
// at an open paren or after a space.
func completeFrom(words []string, line string) []string {
	head, frag := "", line
	if i := strings.LastIndexAny(line, "( "); i >= 0 {
		if line[i] == ' ' {
			head, frag = line[:i+1], line[i+1:]
		} else {
			head, frag = line[:i], line[i:]
		}
	}
	var out []string
	for _, w := range words {
		if strings.HasPrefix(w, frag) {
			out = append(out, head+w)
		}
	}
	return out
}

func NewPrompter(prompt string, words []string) *Prompter {
	p := &Prompter{prompt: prompt, state: liner.NewLiner()}
	p.state.SetCtrlCAborts(false)
	p.state.SetCompleter(func(line string) []string {
		return completeFrom(words, line)
	})
	if f, err := os.Open(historyFile); err == nil {
		p.state.ReadHistory(f)
		f.Close()
	}
	return p
}

// Close saves history and gives the terminal back.
func (p *Prompter) Close() {
	defer p.state.Close()
	f, err := os.Create(historyFile)
	if err != nil {
		log.Printf("tidy: cannot save history: %v", err)
		return
	}
	p.state.WriteHistory(f)
	f.Close()
}

// Getline prompts with prompt, or the default prompt when nil.
func (p *Prompter) Getline(prompt *string) (string, error) {
	use := p.prompt
	if prompt != nil {
		use = *prompt
	}
	line, err := p.state.Prompt(use)
	if err != nil {
		return "", err
	}
	p.state.AppendHistory(line)
	return line, nil
}
