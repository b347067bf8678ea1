package shell

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const prompt = "tabledb> "

var keywords = []string{
	".help", ".tables", ".schema", ".create", ".load", ".exit",
	"insert", "select", "where", "and", "limit",
}

func complete(line string) []string {
	i := strings.LastIndexByte(line, ' ') + 1
	prefix := strings.ToLower(line[i:])
	var completions []string
	for _, keyword := range keywords {
		if prefix != "" && strings.HasPrefix(keyword, prefix) {
			completions = append(completions, line[:i]+keyword)
		}
	}
	return completions
}

// Interact reads commands with line editing until .exit or EOF.  History is
// loaded from and saved to historyPath unless it is empty.
func (s *Session) Interact(historyPath string) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = line.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = line.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	fmt.Fprintln(s.out, "Type '.help' for commands.")
	for {
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			continue
		} else if err == io.EOF {
			fmt.Fprintln(s.out)
			return nil
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)
		exit, err := s.Run(input)
		if err != nil {
			fmt.Fprintln(s.out, "ERROR:", err)
		}
		if exit {
			return nil
		}
	}
}
