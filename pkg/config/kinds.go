// Package config implements the Junos-style configuration reader and the
// named-entity dependency graph it feeds.
package config

// Kind identifies the type of a named configuration entity.
type Kind int

const (
	KindGroup Kind = iota // protocols bgp group
	KindPolicyStatement
	KindPrefixList
	KindCommunity
	KindASPath
	KindASPathGroup
	KindFilter
	KindPolicer
	// KindInterfaces is the synthetic referrer recorded for filters applied
	// under the interfaces hierarchy. It is never declared and never stored
	// in the graph.
	KindInterfaces
)

func (k Kind) String() string {
	switch k {
	case KindGroup:
		return "group"
	case KindPolicyStatement:
		return "policy-statement"
	case KindPrefixList:
		return "prefix-list"
	case KindCommunity:
		return "community"
	case KindASPath:
		return "as-path"
	case KindASPathGroup:
		return "as-path-group"
	case KindFilter:
		return "filter"
	case KindPolicer:
		return "policer"
	case KindInterfaces:
		return "interfaces"
	default:
		return "unknown"
	}
}

// kindSpec describes how one entity kind is declared, what references its
// body can carry, when it may be deleted, and the path used in delete
// directives. Adding a kind is a table change, not new control flow.
type kindSpec struct {
	singleLine      bool        // declared as "<kind> <name> <value>;" on one line
	countsNeighbors bool        // body lines of the form "neighbor <addr>" are tallied
	extract         extractFunc // per-line reference extraction for block bodies
	deletable       func(*Entity) bool
	deletePath      string
}

var kindTable = map[Kind]kindSpec{
	KindGroup: {
		countsNeighbors: true,
		extract:         extractGroupLine,
		// Groups are kept while any neighbor in them is active, no matter
		// how few things reference them.
		deletable:  func(e *Entity) bool { return e.ActiveNeighbors == 0 },
		deletePath: "group",
	},
	KindPolicyStatement: {
		extract:    extractPolicyLine,
		deletePath: "policy-options policy-statement",
	},
	KindPrefixList: {
		deletePath: "policy-options prefix-list",
	},
	KindCommunity: {
		singleLine: true,
		deletePath: "policy-options community",
	},
	KindASPath: {
		singleLine: true,
		deletePath: "policy-options as-path",
	},
	KindASPathGroup: {
		extract:    extractASPathGroupLine,
		deletePath: "policy-options as-path-group",
	},
	KindFilter: {
		extract:    extractFilterLine,
		deletePath: "firewall filter",
	},
	KindPolicer: {
		deletePath: "firewall policer",
	},
}

// declKeywords maps declaration keywords in configuration text to kinds.
// KindInterfaces is deliberately absent.
var declKeywords = map[string]Kind{
	"group":            KindGroup,
	"policy-statement": KindPolicyStatement,
	"prefix-list":      KindPrefixList,
	"community":        KindCommunity,
	"as-path":          KindASPath,
	"as-path-group":    KindASPathGroup,
	"filter":           KindFilter,
	"policer":          KindPolicer,
}

// ParseKind resolves a kind keyword ("policy-statement", "filter", ...).
func ParseKind(s string) (Kind, bool) {
	k, ok := declKeywords[s]
	return k, ok
}

// Kinds returns every declarable kind, in declaration-keyword order.
func Kinds() []Kind {
	return []Kind{
		KindGroup,
		KindPolicyStatement,
		KindPrefixList,
		KindCommunity,
		KindASPath,
		KindASPathGroup,
		KindFilter,
		KindPolicer,
	}
}

// DeletePath returns the configuration path used in delete directives for
// this kind. Groups emit the bare "group" literal rather than a fully
// qualified protocols path; consumers that load the directive stream back
// into a router session are expected to normalize it.
func (k Kind) DeletePath() string {
	return kindTable[k].deletePath
}
