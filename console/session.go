// Package console runs the operator's interactive daily logging session.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/cppla/homelab/models"
)

const rule = "------------------------------------------------------------------------------------------"

var errInvalidInput = errors.New("invalid input")

// Ledger is what the session needs from the petitions store.
type Ledger interface {
	ListActiveItems(ctx context.Context) ([]models.Item, error)
	ListEntriesForDate(ctx context.Context, date models.Date) (map[uint]models.EntryView, error)
	CreateEntry(ctx context.Context, entry *models.Entry) (uint, error)
	UpdateEntryCounts(ctx context.Context, id uint, books, signatures int) error
	ToggleEntryDraft(ctx context.Context, id uint) (bool, error)
	DeleteEntry(ctx context.Context, id uint) error
}

// Session reads choices from in and writes the daily board to out.
type Session struct {
	ledger Ledger
	in     *bufio.Reader
	out    io.Writer
	today  func() models.Date

	faint *color.Color
	ok    *color.Color
	bad   *color.Color
	head  *color.Color
}

// NewSession builds a session against ledger. today defaults to models.Today.
func NewSession(ledger Ledger, in io.Reader, out io.Writer, today func() models.Date) *Session {
	if today == nil {
		today = models.Today
	}
	return &Session{
		ledger: ledger,
		in:     bufio.NewReader(in),
		out:    out,
		today:  today,
		faint:  color.New(color.Faint),
		ok:     color.New(color.FgGreen),
		bad:    color.New(color.FgRed),
		head:   color.New(color.FgCyan, color.Bold),
	}
}

// Run loops until the operator submits an empty selection or input ends.
func (s *Session) Run(ctx context.Context) error {
	for {
		items, entries, err := s.board(ctx)
		if err != nil {
			return err
		}

		choice, err := s.prompt(fmt.Sprintf("\nSelect petition (1-%d, Enter to quit): ", len(items)))
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "" {
			return nil
		}

		idx, err := strconv.Atoi(choice)
		if err != nil {
			s.bad.Fprintln(s.out, "Invalid input")
			continue
		}
		if idx < 1 || idx > len(items) {
			s.bad.Fprintln(s.out, "Invalid selection")
			continue
		}

		item := items[idx-1]
		if existing, ok := entries[item.ID]; ok {
			err = s.edit(ctx, item, existing)
		} else {
			err = s.add(ctx, item)
		}
		switch {
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, errInvalidInput):
			s.bad.Fprintln(s.out, "Invalid input")
		case err != nil:
			s.bad.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

// board prints today's items with their logged status and the non-draft totals.
func (s *Session) board(ctx context.Context) ([]models.Item, map[uint]models.EntryView, error) {
	today := s.today()
	items, err := s.ledger.ListActiveItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list items: %w", err)
	}
	entries, err := s.ledger.ListEntriesForDate(ctx, today)
	if err != nil {
		return nil, nil, fmt.Errorf("list entries: %w", err)
	}

	s.head.Fprintf(s.out, "\n%s\n", today.Format("Monday, January 02, 2006"))
	fmt.Fprintln(s.out, "Available Petitions:")
	fmt.Fprintln(s.out, rule)

	var totalSigs int
	totalEarnings := decimal.Zero
	for i, item := range items {
		line := fmt.Sprintf("%2d. %-15s ($%5s/sig)", i+1, item.Name, item.PricePerSig.StringFixed(2))
		if e, ok := entries[item.ID]; ok {
			status := fmt.Sprintf(" <- %d books, %3d sigs, $%7s", e.Books, e.Signatures, e.Earnings.StringFixed(2))
			if e.IsDraft {
				status += " (DRAFT)"
			} else {
				totalSigs += e.Signatures
				totalEarnings = totalEarnings.Add(e.Earnings)
			}
			line += s.ok.Sprint(status)
		}
		fmt.Fprintln(s.out, line)
	}

	fmt.Fprintln(s.out, rule)
	fmt.Fprintf(s.out, "%-45s %3d sigs  $%7s\n", "TOTALS:", totalSigs, totalEarnings.StringFixed(2))
	fmt.Fprintln(s.out, rule)
	return items, entries, nil
}

func (s *Session) add(ctx context.Context, item models.Item) error {
	s.head.Fprintf(s.out, "\n%s\n", item.Name)

	books, sigs, err := s.readCounts(item, "Books: ", "Signatures")
	if err != nil {
		return err
	}
	draft, err := s.prompt("Draft? [n]: ")
	if err != nil {
		return err
	}
	isDraft := strings.EqualFold(draft, "y")

	entry := &models.Entry{Date: s.today(), ItemID: item.ID, Books: books, Signatures: sigs, IsDraft: isDraft}
	if _, err := s.ledger.CreateEntry(ctx, entry); err != nil {
		return err
	}

	suffix := ""
	if isDraft {
		suffix = " (DRAFT)"
	}
	s.ok.Fprintf(s.out, "Added: %s - %d books, %d sigs%s\n", item.Name, books, sigs, suffix)
	return nil
}

// edit runs the per-entry menu until the operator goes back or deletes the entry.
func (s *Session) edit(ctx context.Context, item models.Item, existing models.EntryView) error {
	for {
		s.head.Fprintf(s.out, "\n%s\n", item.Name)
		fmt.Fprintf(s.out, "   Current: %d books, %d sigs", existing.Books, existing.Signatures)
		if existing.IsDraft {
			fmt.Fprint(s.out, " (DRAFT)")
		}
		fmt.Fprintln(s.out)
		fmt.Fprintln(s.out, "   1. Update books/signatures")
		if existing.IsDraft {
			fmt.Fprintln(s.out, "   2. Convert to REAL")
		} else {
			fmt.Fprintln(s.out, "   2. Convert to DRAFT")
		}
		fmt.Fprintln(s.out, "   3. Delete entry")
		s.faint.Fprintln(s.out, "   Enter to go back")

		choice, err := s.prompt("\n   Select: ")
		if err != nil {
			return err
		}

		switch choice {
		case "":
			return nil
		case "1":
			books, sigs, err := s.readCounts(item, "   New books: ", "   New signatures")
			if errors.Is(err, errInvalidInput) {
				s.bad.Fprintln(s.out, "   Invalid input")
				continue
			}
			if err != nil {
				return err
			}
			if err := s.ledger.UpdateEntryCounts(ctx, existing.ID, books, sigs); err != nil {
				return err
			}
			existing.Books, existing.Signatures = books, sigs
			s.ok.Fprintln(s.out, "   Updated")
		case "2":
			draft, err := s.ledger.ToggleEntryDraft(ctx, existing.ID)
			if err != nil {
				return err
			}
			existing.IsDraft = draft
			status := "REAL"
			if draft {
				status = "DRAFT"
			}
			s.ok.Fprintf(s.out, "   Converted to %s\n", status)
		case "3":
			confirm, err := s.prompt("   Delete? [n]: ")
			if err != nil {
				return err
			}
			if !strings.EqualFold(confirm, "y") {
				s.faint.Fprintln(s.out, "   Cancelled")
				continue
			}
			if err := s.ledger.DeleteEntry(ctx, existing.ID); err != nil {
				return err
			}
			s.ok.Fprintln(s.out, "   Deleted")
			return nil
		default:
			s.bad.Fprintln(s.out, "   Invalid selection")
		}
	}
}

// readCounts asks for books, then signatures defaulting to the item's expected count.
func (s *Session) readCounts(item models.Item, booksLabel, sigsLabel string) (int, int, error) {
	raw, err := s.prompt(booksLabel)
	if err != nil {
		return 0, 0, err
	}
	books, err := parseCount(raw)
	if err != nil {
		return 0, 0, err
	}

	expected := item.ExpectedSignatures(books)
	raw, err = s.prompt(fmt.Sprintf("%s [%d]: ", sigsLabel, expected))
	if err != nil {
		return 0, 0, err
	}
	if raw == "" {
		return books, expected, nil
	}
	sigs, err := parseCount(raw)
	if err != nil {
		return 0, 0, err
	}
	return books, sigs, nil
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func parseCount(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errInvalidInput
	}
	return n, nil
}
