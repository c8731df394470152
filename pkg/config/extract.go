package config

import "strings"

// extractFunc inspects one body line of a declaration and records the
// references it carries. Lines arrive trimmed with any leading "inactive:"
// marker already stripped; lineInactive reports whether the marker was
// present.
type extractFunc func(g *Graph, owner *Entity, line string, lineInactive bool)

func wordChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') || ch == '_'
}

// isRefName reports whether tok is a bare entity name: a word character
// followed by word characters or hyphens. Boolean operators, bracket
// fragments and address literals all fail this.
func isRefName(tok string) bool {
	if tok == "" || !wordChar(tok[0]) {
		return false
	}
	for i := 1; i < len(tok); i++ {
		if !wordChar(tok[i]) && tok[i] != '-' {
			return false
		}
	}
	return true
}

func refToken(tok string) string {
	return strings.TrimSuffix(tok, ";")
}

func policyExprSep(r rune) bool {
	switch r {
	case ' ', '\t', '[', ']', '(', ')':
		return true
	}
	return false
}

// extractGroupLine handles import and export statements in a bgp group
// body. The policy expression may be a single name, a bracketed list, or a
// parenthesized boolean chain; every bare name in it becomes an edge to a
// policy-statement, deduplicated within the line.
func extractGroupLine(g *Graph, owner *Entity, line string, _ bool) {
	f := strings.Fields(line)
	if len(f) < 2 || (f[0] != "import" && f[0] != "export") {
		return
	}
	expr := strings.TrimSpace(line[len(f[0]):])
	seen := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(expr, policyExprSep) {
		tok = refToken(tok)
		if !isRefName(tok) || seen[tok] {
			continue
		}
		seen[tok] = true
		g.AddEdge(owner.Key(), Key{Kind: KindPolicyStatement, Name: tok})
	}
}

// extractPolicyLine handles one body line of a policy-statement. Match
// conditions naming another object and then-policy chaining both create
// edges. A bracketed community operand is an inline value set, not a
// reference.
func extractPolicyLine(g *Graph, owner *Entity, line string, _ bool) {
	f := strings.Fields(line)
	if len(f) < 3 {
		return
	}
	switch f[0] {
	case "from":
		name := refToken(f[2])
		switch f[1] {
		case "prefix-list":
			g.AddEdge(owner.Key(), Key{Kind: KindPrefixList, Name: name})
		case "community":
			if !strings.HasPrefix(f[2], "[") {
				g.AddEdge(owner.Key(), Key{Kind: KindCommunity, Name: name})
			}
		case "as-path":
			g.AddEdge(owner.Key(), Key{Kind: KindASPath, Name: name})
		case "as-path-group":
			g.AddEdge(owner.Key(), Key{Kind: KindASPathGroup, Name: name})
		}
	case "then":
		if f[1] == "policy" {
			g.AddEdge(owner.Key(), Key{Kind: KindPolicyStatement, Name: refToken(f[2])})
		}
	}
}

// extractFilterLine handles one body line of a firewall filter. The policer
// keyword may appear anywhere in the line; the following token is the
// referenced policer. Names are deduplicated within the line.
func extractFilterLine(g *Graph, owner *Entity, line string, _ bool) {
	f := strings.Fields(line)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(f); i++ {
		if f[i] != "policer" {
			continue
		}
		name := refToken(f[i+1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		g.AddEdge(owner.Key(), Key{Kind: KindPolicer, Name: name})
	}
}

// extractASPathGroupLine handles one body line of an as-path-group. Member
// lines declare the named as-path in place: the entity is created declared,
// inherits the group's inactive and common state unless the line carries
// its own marker, and records the group as a referrer.
func extractASPathGroupLine(g *Graph, owner *Entity, line string, lineInactive bool) {
	f := strings.Fields(line)
	if len(f) < 3 || f[0] != "as-path" || !strings.HasSuffix(line, ";") {
		return
	}
	key := Key{Kind: KindASPath, Name: f[1]}
	ent := g.Declare(key, owner.Inactive || lineInactive, owner.Common)
	raw := line
	if lineInactive {
		raw = "inactive: " + line
	}
	ent.Body = []string{raw}
	g.AddEdge(owner.Key(), key)
}
