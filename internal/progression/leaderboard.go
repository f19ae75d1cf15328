package progression

import (
	"cmp"
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/levelupapp/levelup-server/internal/domain"
)

// foldString case-folds s. A cases.Caser carries state, so each call gets its own.
func foldString(s string) string {
	return cases.Fold().String(s)
}

// Rank orders entries by key. Unknown keys fall back to XP ordering.
// The input is read once per iteration of the result, so the result is
// restartable whenever the input is.
func Rank(entries iter.Seq[domain.LeaderboardEntry], key domain.SortKey) iter.Seq[domain.LeaderboardEntry] {
	return func(yield func(domain.LeaderboardEntry) bool) {
		sorted := slices.Collect(entries)
		switch key {
		case domain.SortByName:
			slices.SortStableFunc(sorted, compareByName)
		default:
			slices.SortStableFunc(sorted, compareByXP)
		}
		for _, e := range sorted {
			if !yield(e) {
				return
			}
		}
	}
}

func compareByXP(a, b domain.LeaderboardEntry) int {
	if c := cmp.Compare(b.TotalXP, a.TotalXP); c != 0 {
		return c
	}
	return cmp.Compare(a.UserID, b.UserID)
}

func compareByName(a, b domain.LeaderboardEntry) int {
	if c := cmp.Compare(foldString(a.DisplayName), foldString(b.DisplayName)); c != 0 {
		return c
	}
	return cmp.Compare(a.UserID, b.UserID)
}

// Filter keeps entries whose display name contains query, ignoring case.
// An empty query passes everything through.
func Filter(entries iter.Seq[domain.LeaderboardEntry], query string) iter.Seq[domain.LeaderboardEntry] {
	if query == "" {
		return entries
	}
	needle := foldString(query)
	return func(yield func(domain.LeaderboardEntry) bool) {
		for e := range entries {
			if !strings.Contains(foldString(e.DisplayName), needle) {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Top yields at most n entries. n <= 0 yields everything.
func Top(entries iter.Seq[domain.LeaderboardEntry], n int) iter.Seq[domain.LeaderboardEntry] {
	if n <= 0 {
		return entries
	}
	return func(yield func(domain.LeaderboardEntry) bool) {
		i := 0
		for e := range entries {
			if !yield(e) {
				return
			}
			i++
			if i >= n {
				return
			}
		}
	}
}
