package graph

import (
	"reflect"
	"strings"
	"testing"
)

func buildSnapshot(edges map[string][]string, extra ...string) *Snapshot {
	b := NewBuilder()
	seen := make(map[string]bool)
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			b.AddModule(ModuleInfo{ID: id, Language: "python"})
		}
	}
	for from, targets := range edges {
		add(from)
		for _, to := range targets {
			add(to)
			b.AddEdge(from, to)
		}
	}
	for _, id := range extra {
		add(id)
	}
	return b.Build()
}

func TestBuildDeterministicOrdering(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"zeta":  {"alpha", "mid"},
		"alpha": {"mid"},
	})

	want := []string{"alpha", "mid", "zeta"}
	if got := s.Nodes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Nodes() = %v, want %v", got, want)
	}
	if got := s.ImportsOf("zeta"); !reflect.DeepEqual(got, []string{"alpha", "mid"}) {
		t.Fatalf("ImportsOf(zeta) = %v", got)
	}
	if got := s.ImportersOf("mid"); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Fatalf("ImportersOf(mid) = %v", got)
	}
	if s.EdgeCount() != 3 {
		t.Fatalf("EdgeCount() = %d, want 3", s.EdgeCount())
	}
}

func TestBuildDropsDanglingEdges(t *testing.T) {
	b := NewBuilder()
	b.AddModule(ModuleInfo{ID: "app"})
	b.AddEdge("app", "ghost")
	b.AddEdge("phantom", "app")
	s := b.Build()

	if s.EdgeCount() != 0 {
		t.Fatalf("EdgeCount() = %d, want 0", s.EdgeCount())
	}
}

func TestBuildDeduplicatesEdges(t *testing.T) {
	b := NewBuilder()
	b.AddModule(ModuleInfo{ID: "a"})
	b.AddModule(ModuleInfo{ID: "b"})
	b.AddEdge("a", "b")
	b.AddEdge("a", "b")
	s := b.Build()

	if s.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", s.EdgeCount())
	}
}

func TestFindCyclesAcyclic(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"b"},
		"b": {"c"},
	})
	if cycles := FindCycles(s, 0); len(cycles) != 0 {
		t.Fatalf("acyclic graph reported cycles: %v", cycles)
	}
}

func TestFindCyclesMutualPair(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})
	cycles := FindCycles(s, 0)
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a", "b"}) {
		t.Fatalf("cycle = %v, want [a b]", cycles[0])
	}
}

func TestFindCyclesSelfImport(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"loop": {"loop"},
	})
	cycles := FindCycles(s, 0)
	if len(cycles) != 1 || !reflect.DeepEqual(cycles[0], []string{"loop"}) {
		t.Fatalf("self import not reported as length-1 cycle: %v", cycles)
	}
}

func TestFindCyclesDisjoint(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"b"},
		"b": {"a"},
		"x": {"y"},
		"y": {"z"},
		"z": {"x"},
	})
	cycles := FindCycles(s, 0)
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a", "b"}) {
		t.Fatalf("first cycle = %v", cycles[0])
	}
	if !reflect.DeepEqual(cycles[1], []string{"x", "y", "z"}) {
		t.Fatalf("second cycle = %v", cycles[1])
	}
}

func TestFindCyclesNormalizedFromAnyStart(t *testing.T) {
	// The same triangle reached from different entry points must dedupe
	// to one canonical rotation.
	s := buildSnapshot(map[string][]string{
		"m": {"b"},
		"b": {"c"},
		"c": {"b", "m"},
	})
	cycles := FindCycles(s, 0)
	for _, c := range cycles {
		min := c[0]
		for _, n := range c {
			if n < min {
				t.Fatalf("cycle %v does not start at smallest member", c)
			}
		}
	}
	counts := make(map[string]int)
	for _, c := range cycles {
		counts[strings.Join(c, ",")]++
	}
	for key, n := range counts {
		if n > 1 {
			t.Fatalf("cycle %s reported %d times", key, n)
		}
	}
}

func TestFindCyclesLengthBound(t *testing.T) {
	edges := map[string][]string{
		"m0": {"m1"},
		"m1": {"m2"},
		"m2": {"m3"},
		"m3": {"m4"},
		"m4": {"m0"},
	}
	s := buildSnapshot(edges)
	if cycles := FindCycles(s, 3); len(cycles) != 0 {
		t.Fatalf("cycle longer than bound reported: %v", cycles)
	}
	if cycles := FindCycles(s, 5); len(cycles) != 1 {
		t.Fatalf("cycle within bound not reported: %v", cycles)
	}
}

func TestComputeMetricsLinearChain(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"b"},
		"b": {"c"},
	})
	metrics, err := ComputeMetrics(s, SortByName)
	if err != nil {
		t.Fatal(err)
	}

	byModule := make(map[string]Metric)
	for _, m := range metrics {
		byModule[m.Module] = m
	}
	if m := byModule["a"]; m.FanIn != 0 || m.FanOut != 1 || m.Instability != 1.0 {
		t.Fatalf("a = %+v", m)
	}
	if m := byModule["b"]; m.FanIn != 1 || m.FanOut != 1 || m.Instability != 0.5 {
		t.Fatalf("b = %+v", m)
	}
	if m := byModule["c"]; m.FanIn != 1 || m.FanOut != 0 || m.Instability != 0.0 {
		t.Fatalf("c = %+v", m)
	}
}

func TestComputeMetricsEdgeConservation(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"b", "c"},
		"b": {"c"},
		"c": {"a"},
	})
	metrics, err := ComputeMetrics(s, SortByName)
	if err != nil {
		t.Fatal(err)
	}

	var sumIn, sumOut int
	for _, m := range metrics {
		sumIn += m.FanIn
		sumOut += m.FanOut
		if m.Instability < 0 || m.Instability > 1 {
			t.Fatalf("instability out of range: %+v", m)
		}
	}
	if sumIn != s.EdgeCount() || sumOut != s.EdgeCount() {
		t.Fatalf("fan sums %d/%d, want %d", sumIn, sumOut, s.EdgeCount())
	}
}

func TestComputeMetricsIsolatedModule(t *testing.T) {
	s := buildSnapshot(nil, "lonely")
	metrics, err := ComputeMetrics(s, SortByName)
	if err != nil {
		t.Fatal(err)
	}
	if len(metrics) != 1 || metrics[0].Instability != 0.0 {
		t.Fatalf("isolated module metrics = %v", metrics)
	}
}

func TestComputeMetricsSorting(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"hub"},
		"b": {"hub"},
		"c": {"hub"},
	})

	metrics, err := ComputeMetrics(s, SortByFanIn)
	if err != nil {
		t.Fatal(err)
	}
	if metrics[0].Module != "hub" {
		t.Fatalf("fan_in sort put %s first", metrics[0].Module)
	}
	// Ties keep ascending module order.
	if metrics[1].Module != "a" || metrics[2].Module != "b" {
		t.Fatalf("tie order wrong: %v", metrics)
	}

	if _, err := ComputeMetrics(s, "bogus"); err == nil {
		t.Fatal("invalid sort key accepted")
	}
}

func TestComputeMetricsStableModule(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"d"},
		"b": {"d"},
		"c": {"d"},
	})
	metrics, err := ComputeMetrics(s, SortByInstability)
	if err != nil {
		t.Fatal(err)
	}
	last := metrics[len(metrics)-1]
	if last.Module != "d" || last.FanIn != 3 || last.FanOut != 0 || last.Instability != 0.0 {
		t.Fatalf("most stable module = %+v", last)
	}
	for _, o := range Orphans(s) {
		if o.Module == "d" {
			t.Fatal("d has fan-in and must not be an orphan")
		}
	}
}

func TestOrphanClassification(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"main": {"lib"},
	}, "script")

	orphans := Orphans(s)
	if len(orphans) != 2 {
		t.Fatalf("got %d orphans, want 2: %v", len(orphans), orphans)
	}
	if orphans[0].Module != "main" || orphans[0].Kind != EntryPoint {
		t.Fatalf("main = %+v", orphans[0])
	}
	if orphans[1].Module != "script" || orphans[1].Kind != Standalone {
		t.Fatalf("script = %+v", orphans[1])
	}
}

func TestRenderTreeLinear(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"app":     {"app.db", "app.web"},
		"app.web": {"app.db"},
	})
	out, err := RenderTree(s, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"app",
		"|-- app.db",
		"`-- app.web",
		"    `-- app.db",
	}, "\n")
	if out != want {
		t.Fatalf("tree:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderTreeCycleTerminates(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})
	out, err := RenderTree(s, "a", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"a",
		"`-- b",
		"    `-- a [circular]",
	}, "\n")
	if out != want {
		t.Fatalf("tree:\n%s\nwant:\n%s", out, want)
	}
}

func TestRenderTreeAllInCycles(t *testing.T) {
	// No zero-fan-in roots: every module is shown as a root.
	s := buildSnapshot(map[string][]string{
		"a": {"b"},
		"b": {"a"},
	})
	out, err := RenderTree(s, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "a\n") || !strings.Contains(out, "\nb\n") {
		t.Fatalf("expected both cycle members as roots:\n%s", out)
	}
}

func TestRenderTreeDepthBound(t *testing.T) {
	s := buildSnapshot(map[string][]string{
		"a": {"b"},
		"b": {"c"},
		"c": {"d"},
	})
	out, err := RenderTree(s, "a", 2)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "d") {
		t.Fatalf("depth bound ignored:\n%s", out)
	}
	if !strings.Contains(out, "c") {
		t.Fatalf("expected node at max depth to be printed:\n%s", out)
	}
}

func TestRenderTreeUnknownStart(t *testing.T) {
	s := buildSnapshot(nil, "only")
	if _, err := RenderTree(s, "missing", 0); err == nil {
		t.Fatal("unknown start module accepted")
	}
}

func TestSnapshotIdempotence(t *testing.T) {
	edges := map[string][]string{
		"a": {"b"},
		"b": {"a", "c"},
	}
	s1 := buildSnapshot(edges)
	s2 := buildSnapshot(edges)

	if !reflect.DeepEqual(s1.Nodes(), s2.Nodes()) {
		t.Fatal("node sets differ across identical builds")
	}
	if !reflect.DeepEqual(s1.Edges(), s2.Edges()) {
		t.Fatal("edge sets differ across identical builds")
	}
	c1 := FindCycles(s1, 0)
	c2 := FindCycles(s2, 0)
	if !reflect.DeepEqual(c1, c2) {
		t.Fatal("cycle outputs differ across identical builds")
	}
}

func TestCycleChain(t *testing.T) {
	if got := CycleChain([]string{"a", "b"}); got != "a -> b -> a" {
		t.Fatalf("chain not closed: %q", got)
	}
	if got := CycleChain([]string{"loop"}); got != "loop -> loop" {
		t.Fatalf("self-loop chain wrong: %q", got)
	}
	if got := CycleChain(nil); got != "" {
		t.Fatalf("empty cycle produced %q", got)
	}
}
