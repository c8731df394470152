package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Source is one configuration input. Common sources hold the shared
// baseline inherited by every router; entities declared in them are
// protected from deletion.
type Source struct {
	Name   string
	Common bool
	Input  io.Reader
}

// ErrNoPrimary is returned when Parse is given only common sources.
var ErrNoPrimary = errors.New("no primary configuration source")

const inactiveMarker = "inactive:"

func stripInactive(line string) (string, bool) {
	if !strings.HasPrefix(line, inactiveMarker) {
		return line, false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, inactiveMarker)), true
}

// Parser reads flattened Junos-style configuration text line by line and
// populates a Graph with the entities and references it finds. It does not
// build a full syntax tree: block structure is tracked only as brace depth,
// which is what lets it accept partial or filtered configuration dumps.
type Parser struct {
	graph *Graph
}

func NewParser(g *Graph) *Parser {
	return &Parser{graph: g}
}

// Parse reads every source into the graph. Common sources are read before
// the primary regardless of the order given, so shared entities carry
// their protected state before router-specific declarations merge into
// them.
func (p *Parser) Parse(sources []Source) error {
	primaries := 0
	for _, s := range sources {
		if !s.Common {
			primaries++
		}
	}
	if primaries == 0 {
		return ErrNoPrimary
	}
	for _, s := range sources {
		if s.Common {
			if err := p.parseSource(s); err != nil {
				return err
			}
		}
	}
	for _, s := range sources {
		if !s.Common {
			if err := p.parseSource(s); err != nil {
				return err
			}
		}
	}
	return nil
}

type lineScanner struct {
	name string
	sc   *bufio.Scanner
	line int
}

func newLineScanner(src Source) *lineScanner {
	sc := bufio.NewScanner(src.Input)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &lineScanner{name: src.Name, sc: sc}
}

func (s *lineScanner) next() (string, bool) {
	if !s.sc.Scan() {
		return "", false
	}
	s.line++
	return s.sc.Text(), true
}

func (p *Parser) parseSource(src Source) error {
	ls := newLineScanner(src)
	ifaceDepth := 0
	for {
		raw, ok := ls.next()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if ifaceDepth > 0 {
			ifaceDepth = p.interfacesLine(trimmed, ifaceDepth)
			continue
		}
		line, inactive := stripInactive(trimmed)
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		if len(f) == 2 && f[0] == "interfaces" && f[1] == "{" {
			ifaceDepth = 1
			continue
		}
		kind, known := ParseKind(f[0])
		if !known {
			continue
		}
		if kindTable[kind].singleLine {
			if len(f) >= 3 && strings.HasSuffix(line, ";") && !strings.HasPrefix(f[1], "[") {
				ent := p.graph.Declare(Key{Kind: kind, Name: f[1]}, inactive, src.Common)
				ent.Body = []string{raw}
			}
			continue
		}
		if len(f) == 3 && f[2] == "{" {
			p.parseBlock(ls, src, kind, f[1], inactive, raw)
		}
	}
	if err := ls.sc.Err(); err != nil {
		return fmt.Errorf("read %s: %w", src.Name, err)
	}
	slog.Info("parsed configuration source",
		"source", src.Name, "common", src.Common, "lines", ls.line)
	return nil
}

// parseBlock consumes a block declaration from the line after its opener
// through the matching closing brace. Depth increases on any line ending in
// an opening brace and decreases on a bare closing brace; every other line
// is offered to the kind's extraction rule. At end of input before the
// block closes, what was read still counts, with a warning.
func (p *Parser) parseBlock(ls *lineScanner, src Source, kind Kind, name string, inactive bool, opener string) {
	start := ls.line
	ks := kindTable[kind]
	ent := p.graph.Declare(Key{Kind: kind, Name: name}, inactive, src.Common)
	body := []string{opener}
	neighbors := 0
	depth := 1
	closed := false
	for {
		raw, ok := ls.next()
		if !ok {
			break
		}
		trimmed := strings.TrimSpace(raw)
		body = append(body, raw)
		if trimmed == "}" {
			depth--
			if depth == 0 {
				closed = true
				break
			}
			continue
		}
		line, lineInactive := stripInactive(trimmed)
		if ks.countsNeighbors && !inactive && !lineInactive && isNeighborLine(line) {
			neighbors++
		}
		if strings.HasSuffix(line, "{") {
			depth++
			continue
		}
		if ks.extract != nil {
			ks.extract(p.graph, ent, line, lineInactive)
		}
	}
	if !closed {
		slog.Warn("unterminated block",
			"kind", kind.String(), "name", name, "source", src.Name, "line", start)
	}
	ent.Body = body
	if ks.countsNeighbors {
		ent.ActiveNeighbors = neighbors
	}
}

// isNeighborLine matches the two shapes a neighbor statement takes: a
// single-line "neighbor <addr>;" or a block opener "neighbor <addr> {".
func isNeighborLine(line string) bool {
	f := strings.Fields(line)
	if len(f) == 0 || f[0] != "neighbor" {
		return false
	}
	if len(f) == 2 && strings.HasSuffix(f[1], ";") {
		return true
	}
	return len(f) == 3 && f[2] == "{"
}

// interfacesLine processes one line inside the interfaces hierarchy and
// returns the new depth. Entity declarations are not recognized here; the
// only thing read out is input and output filter application, recorded
// against the filter under the synthetic interfaces referrer.
func (p *Parser) interfacesLine(trimmed string, depth int) int {
	if trimmed == "}" {
		return depth - 1
	}
	line, _ := stripInactive(trimmed)
	if strings.HasSuffix(line, "{") {
		return depth + 1
	}
	f := strings.Fields(line)
	if len(f) == 2 && (f[0] == "input" || f[0] == "output") && strings.HasSuffix(f[1], ";") {
		name := strings.TrimSuffix(f[1], ";")
		if name != "" {
			p.graph.AddReferrer(Key{Kind: KindFilter, Name: name}, InterfacesKey)
		}
	}
	return depth
}
