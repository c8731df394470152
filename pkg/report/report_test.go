package report

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/psaab/jprune/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGraph() *config.Graph {
	g := config.NewGraph()
	edge := g.Declare(config.Key{Kind: config.KindGroup, Name: "EDGE"}, false, false)
	edge.ActiveNeighbors = 2
	g.AddEdge(edge.Key(), config.Key{Kind: config.KindPolicyStatement, Name: "IMPORT-A"})
	g.Declare(config.Key{Kind: config.KindPolicyStatement, Name: "IMPORT-A"}, false, true)
	g.AddEdge(config.Key{Kind: config.KindPolicyStatement, Name: "IMPORT-A"},
		config.Key{Kind: config.KindPrefixList, Name: "NETS"})
	g.Declare(config.Key{Kind: config.KindPolicyStatement, Name: "STALE"}, true, false)
	return g
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, testGraph(), Options{Width: 100})
	out := buf.String()

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "KIND")
	assert.Contains(t, lines[0], "REFERENCES")

	// Sorted order: the group row first, then policies, then the
	// missing prefix-list placeholder.
	assert.Contains(t, lines[1], "group")
	assert.Contains(t, lines[1], "EDGE")
	assert.Contains(t, lines[1], "policy-statement:IMPORT-A")
	assert.Contains(t, lines[2], "IMPORT-A")
	assert.Contains(t, lines[2], " C ")
	assert.Contains(t, lines[3], "STALE")
	assert.Contains(t, lines[3], " I ")
	assert.Contains(t, lines[4], "NETS")
	assert.Contains(t, lines[4], " M ")

	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 100, "line %q exceeds the width limit", line)
	}
}

func TestRenderTruncates(t *testing.T) {
	g := config.NewGraph()
	long := g.Declare(config.Key{
		Kind: config.KindPolicyStatement,
		Name: "A-VERY-LONG-POLICY-NAME-THAT-DOES-NOT-FIT",
	}, false, false)
	for _, n := range []string{"AAAA", "BBBB", "CCCC", "DDDD", "EEEE"} {
		g.AddEdge(long.Key(), config.Key{Kind: config.KindPrefixList, Name: n})
	}

	var buf bytes.Buffer
	Render(&buf, g, Options{Width: 70})
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.LessOrEqual(t, len(line), 70, "line %q exceeds the width limit", line)
	}
	assert.Contains(t, buf.String(), "...")
	assert.NotContains(t, buf.String(), "A-VERY-LONG-POLICY-NAME-THAT-DOES-NOT-FIT")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, testGraph(), []string{"unterminated block kind=group name=X"})
	out := buf.String()

	totals := ""
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "total") {
			totals = line
			break
		}
	}
	require.NotEmpty(t, totals, "summary must include a totals row")
	assert.Equal(t, []string{"total", "4", "1", "1"}, strings.Fields(totals))

	assert.Contains(t, out, "Unused entities:")
	assert.Contains(t, out, "group EDGE")
	assert.Contains(t, out, "policy-statement STALE")
	assert.Contains(t, out, "Missing entities:")
	assert.Contains(t, out, "prefix-list NETS")
	assert.Contains(t, out, "Parse warnings:")
	assert.Contains(t, out, "unterminated block kind=group name=X")
}

func TestRenderSummaryEmptySections(t *testing.T) {
	g := config.NewGraph()
	a := g.Declare(config.Key{Kind: config.KindCommunity, Name: "A"}, false, false)
	g.AddEdge(config.Key{Kind: config.KindCommunity, Name: "B"}, a.Key())
	g.Declare(config.Key{Kind: config.KindCommunity, Name: "B"}, false, false)
	g.AddEdge(a.Key(), config.Key{Kind: config.KindCommunity, Name: "B"})

	var buf bytes.Buffer
	RenderSummary(&buf, g, nil)
	assert.Contains(t, buf.String(), "Unused entities:\n  None")
	assert.Contains(t, buf.String(), "Missing entities:\n  None")
	assert.Contains(t, buf.String(), "Parse warnings:\n  None")
}

func TestRenderDetail(t *testing.T) {
	g := testGraph()
	imp, ok := g.Lookup(config.Key{Kind: config.KindPolicyStatement, Name: "IMPORT-A"})
	require.True(t, ok)
	imp.Body = []string{"policy-statement IMPORT-A {", "}"}

	var buf bytes.Buffer
	RenderDetail(&buf, imp)
	out := buf.String()
	assert.Contains(t, out, "policy-statement IMPORT-A")
	assert.Contains(t, out, "state:         active")
	assert.Contains(t, out, "common:        true")
	assert.Contains(t, out, "references:    prefix-list:NETS")
	assert.Contains(t, out, "referenced by: group:EDGE")
	assert.Contains(t, out, "body:")

	missing, ok := g.Lookup(config.Key{Kind: config.KindPrefixList, Name: "NETS"})
	require.True(t, ok)
	buf.Reset()
	RenderDetail(&buf, missing)
	assert.Contains(t, buf.String(), "state:         missing")
	assert.Contains(t, buf.String(), "references:    None")
}

func TestTerminalWidthFallback(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "notatty")
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, DefaultWidth, TerminalWidth(f))
}
