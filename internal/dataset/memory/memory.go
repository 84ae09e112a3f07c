// Package memory provides an in-memory dataset backend for development
// and tests, optionally seeded from plain-text files.
package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"anita/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Transaction
}

func New(seed []core.Transaction) *Store {
	s := &Store{nextID: 1}
	for _, t := range seed {
		t.ID = s.nextID
		s.nextID++
		s.items = append(s.items, t)
	}
	return s
}

// NewFromFiles seeds the store from data/seed_transactions.txt when
// present; lines are "YYYY-MM-DD;description;amount;category". Falls
// back to a small sample dataset so the dashboard renders out of the box.
func NewFromFiles(base string) *Store {
	seed := readSeedFile(filepath.Join(base, "seed_transactions.txt"))
	if len(seed) == 0 {
		now := time.Now()
		y, m := now.Year(), int(now.Month())
		seed = []core.Transaction{
			{Date: core.NewDate(y, m, 1), Description: "Rent", Amount: core.Money{Cents: 85000}, Category: "Housing"},
			{Date: core.NewDate(y, m, 3), Description: "Groceries", Amount: core.Money{Cents: 12350}, Category: "Food"},
			{Date: core.NewDate(y, m, 5), Description: "Metro pass", Amount: core.Money{Cents: 3900}, Category: "Transport"},
			{Date: core.NewDate(y, m, 8), Description: "Dinner out", Amount: core.Money{Cents: 5420}, Category: "Food"},
			{Date: core.NewDate(y, m, 12), Description: "Streaming", Amount: core.Money{Cents: 1299}, Category: "Entertainment"},
		}
	}
	return New(seed)
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.items = append(s.items, t)
	return fmt.Sprintf("mem:%d", t.ID), nil
}

// ListTransactions returns the month's transactions, newest first.
func (s *Store) ListTransactions(_ context.Context, year, month int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []core.Transaction
	for _, t := range s.items {
		if t.Date.Year() == year && t.Date.Month() == month {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out, nil
}

// ReadCategoryBreakdown aggregates the month's transactions per
// category, largest first, matching the SQLite adapter's ordering.
func (s *Store) ReadCategoryBreakdown(_ context.Context, year, month int) (core.CategoryBreakdown, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := map[string]int64{}
	for _, t := range s.items {
		if t.Date.Year() == year && t.Date.Month() == month {
			totals[t.Category] += t.Amount.Cents
		}
	}

	breakdown := core.CategoryBreakdown{Year: year, Month: month}
	for name, cents := range totals {
		breakdown.ByCategory = append(breakdown.ByCategory, core.CategoryAmount{
			Name:   name,
			Amount: core.Money{Cents: cents},
		})
		breakdown.Total.Cents += cents
	}
	sort.SliceStable(breakdown.ByCategory, func(i, j int) bool {
		a, b := breakdown.ByCategory[i], breakdown.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})
	return breakdown, nil
}

// ListCategories returns the distinct categories, alphabetically.
func (s *Store) ListCategories(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[string]struct{}{}
	var out []string
	for _, t := range s.items {
		if _, ok := seen[t.Category]; !ok {
			seen[t.Category] = struct{}{}
			out = append(out, t.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func readSeedFile(path string) []core.Transaction {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []core.Transaction
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ";")
		if len(parts) != 4 {
			continue
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		cents, err := core.ParseDecimalToCents(parts[2])
		if err != nil {
			continue
		}
		out = append(out, core.Transaction{
			Date:        core.Date{Time: date},
			Description: strings.TrimSpace(parts[1]),
			Amount:      core.Money{Cents: cents},
			Category:    strings.TrimSpace(parts[3]),
		})
	}
	return out
}
