package config

import (
	"errors"
	"strings"
	"testing"
)

func parseString(t *testing.T, input string) *Graph {
	t.Helper()
	g := NewGraph()
	p := NewParser(g)
	if err := p.Parse([]Source{{Name: "test.conf", Input: strings.NewReader(input)}}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return g
}

func mustEntity(t *testing.T, g *Graph, kind Kind, name string) *Entity {
	t.Helper()
	e, ok := g.Lookup(Key{Kind: kind, Name: name})
	if !ok {
		t.Fatalf("entity %s:%s not found", kind, name)
	}
	return e
}

func sameKeys(got, want []Key) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestGroupDeclaration(t *testing.T) {
	g := parseString(t, `
protocols {
    bgp {
        group EDGE {
            type external;
            import [ IMPORT-A IMPORT-B ];
            export EXPORT-MAIN;
            neighbor 192.0.2.1;
            inactive: neighbor 192.0.2.2;
            neighbor 192.0.2.3 {
                peer-as 65001;
            }
        }
    }
}
`)
	e := mustEntity(t, g, KindGroup, "EDGE")
	if !e.Declared {
		t.Error("expected EDGE to be declared")
	}
	if e.Inactive {
		t.Error("expected EDGE to be active")
	}
	if e.ActiveNeighbors != 2 {
		t.Errorf("expected 2 active neighbors, got %d", e.ActiveNeighbors)
	}
	want := []Key{
		{KindPolicyStatement, "IMPORT-A"},
		{KindPolicyStatement, "IMPORT-B"},
		{KindPolicyStatement, "EXPORT-MAIN"},
	}
	if !sameKeys(e.References, want) {
		t.Errorf("expected references %v, got %v", want, e.References)
	}
	if len(e.Body) != 10 {
		t.Errorf("expected 10 body lines, got %d", len(e.Body))
	}
	if !strings.Contains(e.Body[0], "group EDGE {") {
		t.Errorf("expected body to open with group declaration, got %q", e.Body[0])
	}
	if e.Body[len(e.Body)-1] != "        }" {
		t.Errorf("expected body to end at closing brace, got %q", e.Body[len(e.Body)-1])
	}

	imp := mustEntity(t, g, KindPolicyStatement, "IMPORT-A")
	if !imp.Missing() {
		t.Error("expected IMPORT-A to be a missing placeholder")
	}
	if !sameKeys(imp.ReferencedBy, []Key{{KindGroup, "EDGE"}}) {
		t.Errorf("expected IMPORT-A referenced by EDGE, got %v", imp.ReferencedBy)
	}
}

func TestInactiveGroupNeighbors(t *testing.T) {
	g := parseString(t, `
inactive: group STALE {
    neighbor 10.0.0.1;
    neighbor 10.0.0.2;
}
`)
	e := mustEntity(t, g, KindGroup, "STALE")
	if !e.Inactive {
		t.Error("expected STALE to be inactive")
	}
	if e.ActiveNeighbors != 0 {
		t.Errorf("expected 0 active neighbors in inactive group, got %d", e.ActiveNeighbors)
	}
	if !e.Deletable() {
		t.Error("expected inactive group with no active neighbors to be deletable")
	}
}

func TestSingleLineDeclarations(t *testing.T) {
	g := parseString(t, `
policy-options {
    community SITE members 65000:100;
    as-path LOCAL "^$";
    community [ 65000:1 ] members whatever;
}
`)
	c := mustEntity(t, g, KindCommunity, "SITE")
	if !c.Declared || c.Inactive {
		t.Errorf("expected SITE declared and active, got declared=%v inactive=%v", c.Declared, c.Inactive)
	}
	if len(c.Body) != 1 || !strings.Contains(c.Body[0], "members 65000:100") {
		t.Errorf("expected single-line body, got %v", c.Body)
	}
	mustEntity(t, g, KindASPath, "LOCAL")
	if g.Len() != 2 {
		t.Errorf("expected 2 entities, got %d", g.Len())
	}
}

func TestPolicyStatementReferences(t *testing.T) {
	g := parseString(t, `
policy-options {
    policy-statement CUST-IN {
        term 10 {
            from prefix-list CUST-NETS;
            from community SITE;
            from as-path LOCAL;
            from as-path-group UPSTREAMS;
        }
        term 20 {
            from community [ 65000:1 65000:2 ];
            then policy CHAIN-NEXT;
        }
        then accept;
    }
}
`)
	e := mustEntity(t, g, KindPolicyStatement, "CUST-IN")
	want := []Key{
		{KindPrefixList, "CUST-NETS"},
		{KindCommunity, "SITE"},
		{KindASPath, "LOCAL"},
		{KindASPathGroup, "UPSTREAMS"},
		{KindPolicyStatement, "CHAIN-NEXT"},
	}
	if !sameKeys(e.References, want) {
		t.Errorf("expected references %v, got %v", want, e.References)
	}
	if _, ok := g.Lookup(Key{KindCommunity, "["}); ok {
		t.Error("inline community set must not become an entity")
	}
}

func TestFilterPolicerReferences(t *testing.T) {
	g := parseString(t, `
firewall {
    family inet {
        filter PROTECT {
            term limit {
                then {
                    policer RATE-10M;
                    accept;
                }
            }
            term other {
                then policer RATE-10M;
            }
        }
        policer RATE-10M {
            if-exceeding {
                bandwidth-limit 10m;
            }
            then discard;
        }
    }
}
`)
	e := mustEntity(t, g, KindFilter, "PROTECT")
	want := []Key{
		{KindPolicer, "RATE-10M"},
		{KindPolicer, "RATE-10M"},
	}
	if !sameKeys(e.References, want) {
		t.Errorf("expected one reference per line, got %v", e.References)
	}
	pol := mustEntity(t, g, KindPolicer, "RATE-10M")
	if pol.Missing() {
		t.Error("expected RATE-10M to be declared")
	}
	if len(pol.ReferencedBy) != 2 {
		t.Errorf("expected 2 referrers, got %v", pol.ReferencedBy)
	}
}

func TestASPathGroupMembers(t *testing.T) {
	g := parseString(t, `
policy-options {
    as-path-group UPSTREAMS {
        as-path TRANSIT "^65010 .*";
        inactive: as-path OLD-TRANSIT "^65020 .*";
    }
    inactive: as-path-group RETIRED {
        as-path GONE "^65030 .*";
    }
}
`)
	grp := mustEntity(t, g, KindASPathGroup, "UPSTREAMS")
	want := []Key{
		{KindASPath, "TRANSIT"},
		{KindASPath, "OLD-TRANSIT"},
	}
	if !sameKeys(grp.References, want) {
		t.Errorf("expected member references %v, got %v", want, grp.References)
	}

	transit := mustEntity(t, g, KindASPath, "TRANSIT")
	if !transit.Declared || transit.Inactive {
		t.Errorf("expected TRANSIT declared and active, got declared=%v inactive=%v",
			transit.Declared, transit.Inactive)
	}
	if len(transit.Body) != 1 || !strings.Contains(transit.Body[0], "^65010") {
		t.Errorf("expected member line as body, got %v", transit.Body)
	}
	if !sameKeys(transit.ReferencedBy, []Key{{KindASPathGroup, "UPSTREAMS"}}) {
		t.Errorf("expected TRANSIT referenced by UPSTREAMS, got %v", transit.ReferencedBy)
	}

	old := mustEntity(t, g, KindASPath, "OLD-TRANSIT")
	if !old.Inactive {
		t.Error("expected OLD-TRANSIT to inherit the line's inactive marker")
	}
	gone := mustEntity(t, g, KindASPath, "GONE")
	if !gone.Inactive {
		t.Error("expected GONE to inherit the group's inactive state")
	}
}

func TestInterfacesFilterReferences(t *testing.T) {
	g := parseString(t, `
interfaces {
    xe-0/0/0 {
        unit 0 {
            family inet {
                filter {
                    input EDGE-IN;
                    output EDGE-OUT;
                }
            }
        }
        unit 1 {
            policer INNER {
                rate 1m;
            }
        }
    }
}
firewall {
    family inet {
        filter EDGE-IN {
            term all {
                then accept;
            }
        }
    }
}
`)
	in := mustEntity(t, g, KindFilter, "EDGE-IN")
	if in.Missing() {
		t.Error("expected EDGE-IN to be declared after the interfaces block")
	}
	if !sameKeys(in.ReferencedBy, []Key{InterfacesKey}) {
		t.Errorf("expected EDGE-IN referenced by interfaces, got %v", in.ReferencedBy)
	}
	out := mustEntity(t, g, KindFilter, "EDGE-OUT")
	if !out.Missing() {
		t.Error("expected EDGE-OUT to stay a placeholder")
	}
	if _, ok := g.Lookup(Key{KindPolicer, "INNER"}); ok {
		t.Error("declarations inside interfaces must not be recognized")
	}
	if _, ok := g.Lookup(InterfacesKey); ok {
		t.Error("the interfaces referrer must not be stored as an entity")
	}
}

func TestCommonSourceMerge(t *testing.T) {
	common := `
policy-statement SHARED {
    term a {
        then accept;
    }
}
`
	primary := `
inactive: policy-statement SHARED {
    then reject;
}
policy-statement LOCAL-ONLY {
    then accept;
}
`
	g := NewGraph()
	p := NewParser(g)
	// Primary listed first; Parse must still read the common source first.
	err := p.Parse([]Source{
		{Name: "router.conf", Input: strings.NewReader(primary)},
		{Name: "common.conf", Common: true, Input: strings.NewReader(common)},
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	shared := mustEntity(t, g, KindPolicyStatement, "SHARED")
	if !shared.Common {
		t.Error("expected SHARED to keep its common flag")
	}
	if !shared.Inactive {
		t.Error("expected the primary redeclaration's inactive state to win")
	}
	if len(shared.Body) != 3 || !strings.Contains(shared.Body[1], "reject") {
		t.Errorf("expected the primary body to overwrite, got %v", shared.Body)
	}
	local := mustEntity(t, g, KindPolicyStatement, "LOCAL-ONLY")
	if local.Common {
		t.Error("expected LOCAL-ONLY not to be common")
	}
}

func TestNoPrimarySource(t *testing.T) {
	p := NewParser(NewGraph())
	err := p.Parse([]Source{
		{Name: "common.conf", Common: true, Input: strings.NewReader("")},
	})
	if !errors.Is(err, ErrNoPrimary) {
		t.Fatalf("expected ErrNoPrimary, got %v", err)
	}
}

func TestUnterminatedBlock(t *testing.T) {
	g := parseString(t, `
policy-statement OPEN {
    from prefix-list NETS;
`)
	e := mustEntity(t, g, KindPolicyStatement, "OPEN")
	if !e.Declared {
		t.Error("expected a truncated block to still declare its entity")
	}
	if !sameKeys(e.References, []Key{{KindPrefixList, "NETS"}}) {
		t.Errorf("expected references from the partial body, got %v", e.References)
	}
	if len(e.Body) != 2 {
		t.Errorf("expected 2 body lines, got %d", len(e.Body))
	}
}
