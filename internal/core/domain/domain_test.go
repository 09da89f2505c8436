package domain

import "testing"

func TestSeverityTableResolve(t *testing.T) {
	table := DefaultSeverityTable()

	tests := []struct {
		category Category
		want     Severity
	}{
		{"database", SeverityHigh},
		{"auth", SeverityMedium},
		{"api", SeverityHigh},
		{"infra", SeverityCritical},
		{"storage", SeverityMedium},
		{"security", SeverityCritical},
		{"network", SeverityLow},
		{"", SeverityLow},
		{"Database", SeverityLow},
	}

	for _, tt := range tests {
		if got := table.Resolve(tt.category); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}

func TestSeverityTableNilResolvesDefault(t *testing.T) {
	var table SeverityTable
	if got := table.Resolve("database"); got != DefaultSeverity {
		t.Errorf("nil table Resolve = %q, want %q", got, DefaultSeverity)
	}
}

func TestDefaultSeverityTableIsCopy(t *testing.T) {
	a := DefaultSeverityTable()
	a["database"] = SeverityLow
	if b := DefaultSeverityTable(); b["database"] != SeverityHigh {
		t.Errorf("default table mutated through a copy: %q", b["database"])
	}
}

func TestSeverityRank(t *testing.T) {
	if !(SeverityCritical.Rank() > SeverityHigh.Rank() &&
		SeverityHigh.Rank() > SeverityMedium.Rank() &&
		SeverityMedium.Rank() > SeverityLow.Rank()) {
		t.Fatal("severity ranks are not strictly ordered")
	}
	if Severity("urgent").Valid() {
		t.Error("unknown severity reported as valid")
	}
}

func TestActionFor(t *testing.T) {
	tests := map[Severity]Action{
		SeverityCritical: ActionEscalate,
		SeverityHigh:     ActionInvestigate,
		SeverityMedium:   ActionNone,
		SeverityLow:      ActionNone,
		"":               ActionNone,
	}
	for sev, want := range tests {
		if got := ActionFor(sev); got != want {
			t.Errorf("ActionFor(%q) = %q, want %q", sev, got, want)
		}
	}
}

func TestSeverityStatsAdd(t *testing.T) {
	var s SeverityStats
	s.Add(SeverityCritical, 2)
	s.Add(SeverityLow, 1)
	s.Add("bogus", 1)

	want := SeverityStats{Total: 4, Critical: 2, Low: 1}
	if s != want {
		t.Errorf("stats = %+v, want %+v", s, want)
	}
}
