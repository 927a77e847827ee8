package store

import (
	"context"
	"errors"
	"testing"

	"github.com/cppla/homelab/models"
	"github.com/cppla/homelab/testutil"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestCreateEntry_EarningsFromCurrentPrice(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	item := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	day := mustDate(t, "2024-01-01")

	id, err := p.CreateEntry(ctx, &models.Entry{Date: day, ItemID: item.ID, Books: 2, Signatures: 10})
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected a generated id")
	}

	byItem, err := p.ListEntriesForDate(ctx, day)
	if err != nil {
		t.Fatalf("ListEntriesForDate: %v", err)
	}
	row, ok := byItem[item.ID]
	if !ok {
		t.Fatalf("Expected an entry for item %d, got %v", item.ID, byItem)
	}
	if row.ID != id || row.Books != 2 || row.Signatures != 10 || row.IsDraft {
		t.Errorf("Unexpected row %+v", row)
	}
	if !row.Earnings.Equal(testutil.Dec("5.00")) {
		t.Errorf("Expected earnings 5.00, got %s", row.Earnings)
	}
	if row.Date.String() != "2024-01-01" {
		t.Errorf("Expected date 2024-01-01, got %s", row.Date)
	}

	// Earnings follow the current price, not the price at entry time.
	if err := db.Model(&models.Item{}).Where("id = ?", item.ID).Update("price_per_sig", testutil.Dec("1.25")).Error; err != nil {
		t.Fatalf("reprice: %v", err)
	}
	byItem, _ = p.ListEntriesForDate(ctx, day)
	if got := byItem[item.ID].Earnings; !got.Equal(testutil.Dec("12.50")) {
		t.Errorf("Expected repriced earnings 12.50, got %s", got)
	}

	other, _ := p.ListEntriesForDate(ctx, mustDate(t, "2024-01-02"))
	if len(other) != 0 {
		t.Errorf("Expected no entries on another day, got %d", len(other))
	}
}

func TestCreateEntry_Duplicate(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	item := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	day := mustDate(t, "2024-01-01")

	if _, err := p.CreateEntry(ctx, &models.Entry{Date: day, ItemID: item.ID, Books: 1, Signatures: 5}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := p.CreateEntry(ctx, &models.Entry{Date: day, ItemID: item.ID, Books: 3, Signatures: 15, IsDraft: true})
	if !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("Expected ErrDuplicateEntry, got %v", err)
	}

	// Same item on another day is fine.
	if _, err := p.CreateEntry(ctx, &models.Entry{Date: mustDate(t, "2024-01-02"), ItemID: item.ID, Books: 1, Signatures: 5}); err != nil {
		t.Errorf("Expected a new day to be accepted, got %v", err)
	}
}

func TestCreateEntry_UnknownItem(t *testing.T) {
	p := NewPetitions(testutil.OpenPetitionsDB(t))

	_, err := p.CreateEntry(context.Background(), &models.Entry{Date: mustDate(t, "2024-01-01"), ItemID: 42, Books: 1, Signatures: 1})
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Expected ErrItemNotFound, got %v", err)
	}
}

func TestCreateEntry_InactiveItemAllowed(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)

	item := testutil.CreateTestItem(t, db, "Zoning", "3.00", 12, false)
	if _, err := p.CreateEntry(context.Background(), &models.Entry{Date: mustDate(t, "2024-01-01"), ItemID: item.ID, Books: 1, Signatures: 2}); err != nil {
		t.Errorf("Expected inactive items to remain valid references, got %v", err)
	}
}

func TestListEntries_Order(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)

	a := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	b := testutil.CreateTestItem(t, db, "Voting", "2.00", 8, true)

	old := testutil.CreateTestEntry(t, db, "2024-01-01", a.ID, 1, 10, false)
	first := testutil.CreateTestEntry(t, db, "2024-01-03", a.ID, 1, 10, false)
	second := testutil.CreateTestEntry(t, db, "2024-01-03", b.ID, 2, 16, true)

	rows, err := p.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	want := []uint{second.ID, first.ID, old.ID}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i, id := range want {
		if rows[i].ID != id {
			t.Errorf("row %d: expected id %d, got %d", i, id, rows[i].ID)
		}
	}
	if rows[0].ItemName != "Voting" || !rows[0].PricePerSig.Equal(testutil.Dec("2.00")) {
		t.Errorf("Expected joined item data, got %+v", rows[0])
	}
	if !rows[0].IsDraft || !rows[0].Earnings.Equal(testutil.Dec("32")) {
		t.Errorf("Expected draft row with earnings 32, got draft=%v earnings=%s", rows[0].IsDraft, rows[0].Earnings)
	}
}

func TestListEntries_Empty(t *testing.T) {
	p := NewPetitions(testutil.OpenPetitionsDB(t))

	rows, err := p.ListEntries(context.Background())
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", rows)
	}
}

func TestUpdateEntry(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	item := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	entry := testutil.CreateTestEntry(t, db, "2024-01-01", item.ID, 1, 5, false)

	if err := p.UpdateEntry(ctx, entry.ID, 4, 20, true); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	var got models.Entry
	db.First(&got, entry.ID)
	if got.Books != 4 || got.Signatures != 20 || !got.IsDraft {
		t.Errorf("Unexpected entry after update: %+v", got)
	}

	// Same values again must still succeed.
	if err := p.UpdateEntry(ctx, entry.ID, 4, 20, true); err != nil {
		t.Errorf("Idempotent update failed: %v", err)
	}

	if err := p.UpdateEntryCounts(ctx, entry.ID, 6, 30); err != nil {
		t.Fatalf("UpdateEntryCounts: %v", err)
	}
	db.First(&got, entry.ID)
	if got.Books != 6 || got.Signatures != 30 || !got.IsDraft {
		t.Errorf("Expected counts updated and draft kept, got %+v", got)
	}

	if err := p.UpdateEntry(ctx, 999, 1, 1, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestToggleEntryDraft(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	item := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	entry := testutil.CreateTestEntry(t, db, "2024-01-01", item.ID, 1, 5, false)

	draft, err := p.ToggleEntryDraft(ctx, entry.ID)
	if err != nil || !draft {
		t.Fatalf("Expected draft=true, got %v (err %v)", draft, err)
	}
	draft, err = p.ToggleEntryDraft(ctx, entry.ID)
	if err != nil || draft {
		t.Fatalf("Expected draft=false, got %v (err %v)", draft, err)
	}

	if _, err := p.ToggleEntryDraft(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)
	ctx := context.Background()

	item := testutil.CreateTestItem(t, db, "Parks", "0.50", 5, true)
	keep := testutil.CreateTestEntry(t, db, "2024-01-01", item.ID, 1, 10, false)
	drop := testutil.CreateTestEntry(t, db, "2024-01-02", item.ID, 1, 6, false)

	before, _ := p.Totals(ctx)

	if err := p.DeleteEntry(ctx, drop.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}

	rows, _ := p.ListEntries(ctx)
	if len(rows) != 1 || rows[0].ID != keep.ID {
		t.Fatalf("Expected only entry %d to remain, got %+v", keep.ID, rows)
	}

	after, _ := p.Totals(ctx)
	if after.TotalEntries != before.TotalEntries-1 || after.TotalSigs != 10 {
		t.Errorf("Unexpected totals after delete: %+v", after)
	}
	if !after.TotalEarnings.Equal(testutil.Dec("5")) {
		t.Errorf("Expected remaining earnings 5, got %s", after.TotalEarnings)
	}

	if err := p.DeleteEntry(ctx, drop.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListEntriesOn_CatalogOrderAndExactEarnings(t *testing.T) {
	db := testutil.OpenPetitionsDB(t)
	p := NewPetitions(db)

	dime := testutil.CreateTestItem(t, db, "Library", "0.10", 5, true)
	pricey := testutil.CreateTestItem(t, db, "Voting", "2.00", 8, true)
	testutil.CreateTestEntry(t, db, "2024-01-01", dime.ID, 1, 3, false)
	testutil.CreateTestEntry(t, db, "2024-01-01", pricey.ID, 1, 8, false)
	testutil.CreateTestEntry(t, db, "2024-01-02", pricey.ID, 1, 8, false)

	rows, err := p.ListEntriesOn(context.Background(), mustDate(t, "2024-01-01"))
	if err != nil {
		t.Fatalf("ListEntriesOn: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows for the day, got %d", len(rows))
	}
	if rows[0].ItemID != pricey.ID || rows[1].ItemID != dime.ID {
		t.Errorf("Expected highest rate first, got items %d, %d", rows[0].ItemID, rows[1].ItemID)
	}
	if got := rows[1].Earnings.String(); got != "0.3" {
		t.Errorf("Expected exact earnings 0.3, got %s", got)
	}
}
