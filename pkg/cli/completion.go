package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chzyer/readline"

	"github.com/psaab/jprune/pkg/cmdtree"
)

// graphCompleter adapts the command tree to readline tab completion.
type graphCompleter struct {
	cli *CLI
}

func (gc *graphCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	words, partial := splitLine(text)

	cands := cmdtree.CandidatesFor(cmdtree.ShellTree, words, partial, gc.cli.graph)
	if len(cands) == 0 {
		return nil, 0
	}
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = c.Name
	}
	sort.Strings(names)

	if len(names) == 1 {
		suffix := names[0][len(partial):]
		return [][]rune{[]rune(suffix + " ")}, len(partial)
	}

	// Several matches: list them above the prompt, then extend the line
	// by their shared prefix.
	cmdtree.WriteHelp(gc.cli.rl.Stdout(), cands)
	cp := cmdtree.CommonPrefix(names)
	suffix := cp[len(partial):]
	if suffix == "" {
		return nil, 0
	}
	return [][]rune{[]rune(suffix)}, len(partial)
}

// helpListener implements the '?' key: list what could follow at the
// cursor, then restore the line without the '?'.
func helpListener(c *CLI) readline.Listener {
	return readline.FuncListener(func(line []rune, pos int, key rune) ([]rune, int, bool) {
		if key != '?' || pos < 1 {
			return line, pos, false
		}
		// Strip the '?' that readline already inserted.
		clean := make([]rune, 0, len(line)-1)
		clean = append(clean, line[:pos-1]...)
		clean = append(clean, line[pos:]...)
		text := string(clean[:pos-1])

		words, partial := splitLine(text)
		cands := cmdtree.CandidatesFor(cmdtree.ShellTree, words, partial, c.graph)
		if len(cands) == 0 {
			fmt.Fprintln(c.rl.Stdout(), "  (no help available)")
			return clean, pos - 1, true
		}
		cmdtree.WriteHelp(c.rl.Stdout(), cands)
		return clean, pos - 1, true
	})
}

// splitLine separates the completed words from the word being typed.
func splitLine(text string) ([]string, string) {
	words := strings.Fields(text)
	if len(words) > 0 && !strings.HasSuffix(text, " ") {
		return words[:len(words)-1], words[len(words)-1]
	}
	return words, ""
}
