package schema

import (
	"strings"
	"testing"
)

func TestTablesMatchDDL(t *testing.T) {
	if len(createTables) != len(Tables) {
		t.Fatalf("have %d create statements for %d tables", len(createTables), len(Tables))
	}
	for i, name := range Tables {
		if !strings.Contains(createTables[i], "CREATE TABLE "+name) {
			t.Errorf("createTables[%d] does not create %s", i, name)
		}
	}
}

func TestIndexesTargetKnownTables(t *testing.T) {
	known := map[string]bool{}
	for _, name := range Tables {
		known[name] = true
	}
	for _, ddl := range createIndexes {
		rest := ddl[strings.Index(ddl, " ON ")+4:]
		table := rest[:strings.Index(rest, "(")]
		if !known[table] {
			t.Errorf("index targets unknown table %q: %s", table, ddl)
		}
	}
}

func TestDependenciesPrecedeDependents(t *testing.T) {
	pos := map[string]int{}
	for i, name := range Tables {
		pos[name] = i
	}
	if pos["transactions"] < pos["customers"] || pos["transactions"] < pos["merchants"] {
		t.Errorf("transactions must follow its referenced tables")
	}
	if pos["chargebacks"] < pos["transactions"] || pos["case_events"] < pos["chargebacks"] {
		t.Errorf("tables out of dependency order: %v", Tables)
	}
}
