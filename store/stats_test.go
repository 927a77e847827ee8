package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cppla/homelab/testutil"
)

func TestTotals_ExcludeDrafts(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	parks := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	voting := testutil.CreateTestItem(t, db, "Voting", "1.25", 8, true)

	testutil.CreateTestEntry(t, db, "2024-01-01", parks.ID, 2, 10, false)
	testutil.CreateTestEntry(t, db, "2024-01-02", parks.ID, 1, 4, false)
	testutil.CreateTestEntry(t, db, "2024-01-01", voting.ID, 3, 8, false)
	testutil.CreateTestEntry(t, db, "2024-01-02", voting.ID, 5, 40, true)

	totals, err := p.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.TotalEntries != 3 {
		t.Errorf("Expected 3 non-draft entries, got %d", totals.TotalEntries)
	}
	if totals.TotalSigs != 22 {
		t.Errorf("Expected 22 signatures, got %d", totals.TotalSigs)
	}
	// 10*0.50 + 4*0.50 + 8*1.25
	if !totals.TotalEarnings.Equal(decimal.NewFromInt(17)) {
		t.Errorf("Expected earnings 17, got %s", totals.TotalEarnings)
	}

	// The draft row still shows up in listings.
	rows, _ := p.ListEntries(ctx)
	if len(rows) != 4 {
		t.Errorf("Expected drafts to stay listed, got %d rows", len(rows))
	}
}

func TestTotals_Empty(t *testing.T) {
	p := NewPetitions(testutil.OpenPetitionsDB(t))

	totals, err := p.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.TotalEntries != 0 || totals.TotalSigs != 0 || !totals.TotalEarnings.IsZero() {
		t.Errorf("Expected zero totals, got %+v", totals)
	}
}

func TestTotals_DraftToggleRemovesEarnings(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	item := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	entry := testutil.CreateTestEntry(t, db, "2024-01-01", item.ID, 2, 10, false)

	totals, _ := p.Totals(ctx)
	if !totals.TotalEarnings.Equal(testutil.Dec("5.00")) {
		t.Fatalf("Expected 5.00 before toggle, got %s", totals.TotalEarnings)
	}

	if _, err := p.ToggleEntryDraft(ctx, entry.ID); err != nil {
		t.Fatalf("ToggleEntryDraft: %v", err)
	}

	totals, _ = p.Totals(ctx)
	if !totals.TotalEarnings.IsZero() || totals.TotalEntries != 0 {
		t.Errorf("Expected draft to leave totals empty, got %+v", totals)
	}
	rows, _ := p.ListEntries(ctx)
	if len(rows) != 1 || !rows[0].IsDraft {
		t.Errorf("Expected the draft row to remain visible, got %+v", rows)
	}
}

func TestStatsByItem(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)

	parks := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	voting := testutil.CreateTestItem(t, db, "Voting", "1.25", 8, true)
	idle := testutil.CreateTestItem(t, db, "Idle", "9.00", 1, true)

	testutil.CreateTestEntry(t, db, "2024-01-01", parks.ID, 2, 10, false)
	testutil.CreateTestEntry(t, db, "2024-01-02", parks.ID, 1, 4, false)
	testutil.CreateTestEntry(t, db, "2024-01-01", voting.ID, 3, 8, false)
	testutil.CreateTestEntry(t, db, "2024-01-01", idle.ID, 1, 100, true)

	rows, err := p.StatsByItem(context.Background())
	if err != nil {
		t.Fatalf("StatsByItem: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rollups (draft-only item omitted), got %d: %+v", len(rows), rows)
	}

	if rows[0].Name != "Voting" || rows[0].EntryCount != 1 || rows[0].TotalSigs != 8 || !rows[0].TotalEarnings.Equal(testutil.Dec("10")) {
		t.Errorf("Unexpected first rollup: %+v", rows[0])
	}
	if rows[1].Name != "Parks" || rows[1].EntryCount != 2 || rows[1].TotalSigs != 14 || !rows[1].TotalEarnings.Equal(testutil.Dec("7")) {
		t.Errorf("Unexpected second rollup: %+v", rows[1])
	}
}

func TestStats_ExactDecimalEarnings(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	dime := testutil.CreateTestItem(t, db, "Library", "0.10", 5, true)
	testutil.CreateTestEntry(t, db, "2024-01-01", dime.ID, 1, 3, false)
	testutil.CreateTestEntry(t, db, "2024-01-02", dime.ID, 1, 4, false)

	totals, err := p.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if got := totals.TotalEarnings.String(); got != "0.7" {
		t.Errorf("Expected exact earnings 0.7, got %s", got)
	}

	byItem, err := p.StatsByItem(ctx)
	if err != nil {
		t.Fatalf("StatsByItem: %v", err)
	}
	if len(byItem) != 1 || byItem[0].TotalEarnings.String() != "0.7" {
		t.Errorf("Expected one rollup row with earnings 0.7, got %+v", byItem)
	}
}
