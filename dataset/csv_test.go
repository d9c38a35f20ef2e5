package dataset

import (
	"strings"
	"testing"
)

func csvSchema(t *testing.T) *Schema {
	t.Helper()
	return MustSchema(
		ColumnSpec{Name: "title", Kind: KindIdentifier, Role: RoleIdentifier},
		ColumnSpec{Name: "genre", Kind: KindCategorical, Role: RoleFeature},
		ColumnSpec{Name: "runtime", Kind: KindNumeric, Role: RoleFeature},
		ColumnSpec{Name: "score", Kind: KindNumeric, Role: RoleTarget},
	)
}

func TestLoadCSV(t *testing.T) {
	input := strings.Join([]string{
		"title,genre,runtime,score",
		"Alpha,Drama,110,70",
		"Beta,Comedy,NA,55",
		"Gamma,Drama,95,61.5",
	}, "\n")

	d, err := LoadCSV(strings.NewReader(input), csvSchema(t))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}

	if f, ok := d.Row(0)["runtime"].Float(); !ok || f != 110 {
		t.Errorf("row 0 runtime = %v, %v, want 110", f, ok)
	}
	if !d.Row(1)["runtime"].IsMissing() {
		t.Error("row 1 runtime should be missing")
	}
	if l, ok := d.Row(2)["genre"].Level(); !ok || l != "Drama" {
		t.Errorf("row 2 genre = %v, %v, want Drama", l, ok)
	}
	if f, ok := d.Row(2)["score"].Float(); !ok || f != 61.5 {
		t.Errorf("row 2 score = %v, %v, want 61.5", f, ok)
	}
}

func TestLoadCSVRejectsUnknownHeader(t *testing.T) {
	input := "title,genre,runtime,score,budget\nAlpha,Drama,110,70,5"
	if _, err := LoadCSV(strings.NewReader(input), csvSchema(t)); err == nil {
		t.Fatal("LoadCSV() should fail on a header column not in the schema")
	}
}

func TestLoadCSVRejectsUnparsableCell(t *testing.T) {
	input := "title,genre,runtime,score\nAlpha,Drama,long,70"
	if _, err := LoadCSV(strings.NewReader(input), csvSchema(t)); err == nil {
		t.Fatal("LoadCSV() should fail on a non-numeric runtime cell")
	}
}
