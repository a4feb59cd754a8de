package internal

import (
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyBase = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

// TestProperty_NoDuplicatesAfterClean checks that cleaning leaves no two
// identical rows and no repeated event_id
func TestProperty_NoDuplicatesAfterClean(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("cleaned rows are unique by content and event_id", prop.ForAll(
		func(ids []int, users []int) bool {
			n := len(ids)
			if len(users) < n {
				n = len(users)
			}
			records := make([][]string, 0, n)
			for i := 0; i < n; i++ {
				records = append(records, event(
					fmt.Sprintf("e%d", ids[i]),
					propertyBase.Add(time.Duration(ids[i])*time.Minute).Format(time.RFC3339),
					fmt.Sprintf("user%d", users[i]),
					"login", "success", "low", "10.0.0.1",
				))
			}
			table := newEventTable(records...)

			out, stats, err := NewCleaner(DefaultConfig()).Clean(table)
			if err != nil {
				return false
			}

			seenIDs := make(map[string]bool)
			seenRows := make(map[string]bool)
			for _, r := range out.Rows {
				id := out.Get(r, ColEventID)
				key := fmt.Sprint(r.Values)
				if seenIDs[id] || seenRows[key] {
					return false
				}
				seenIDs[id] = true
				seenRows[key] = true
			}
			return stats.RowsIn-stats.RowsOut == stats.DuplicatesRemoved+stats.DuplicateIDsRemoved
		},
		gen.SliceOf(gen.IntRange(0, 8)),
		gen.SliceOf(gen.IntRange(0, 2)),
	))

	properties.TestingRun(t)
}

// TestProperty_SessionInvariant checks that two consecutive events of a user
// share a session exactly when their gap is within the threshold
func TestProperty_SessionInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("sessions split only on gaps above the threshold", prop.ForAll(
		func(gaps []int, gapMinutes int) bool {
			cfg := DefaultConfig()
			cfg.SessionGap = time.Duration(gapMinutes) * time.Minute

			records := make([][]string, 0, len(gaps)+1)
			ts := propertyBase
			records = append(records, event("e0", ts.Format(time.RFC3339), "alice", "x", "success", "low", "1.1.1.1"))
			wantSessions := 1
			for i, g := range gaps {
				ts = ts.Add(time.Duration(g) * time.Minute)
				records = append(records, event(fmt.Sprintf("e%d", i+1), ts.Format(time.RFC3339), "alice", "x", "success", "low", "1.1.1.1"))
				if g > gapMinutes {
					wantSessions++
				}
			}

			out, stats, err := NewFeatureEngineer(cfg).Engineer(newEventTable(records...))
			if err != nil || stats.Sessions != wantSessions {
				return false
			}

			ids := column(out, ColSessionID)
			for i, g := range gaps {
				same := ids[i] == ids[i+1]
				if same != (g <= gapMinutes) {
					return false
				}
			}

			// Every row of a session carries the session's size and span
			sizes := make(map[string]int)
			for _, id := range ids {
				sizes[id]++
			}
			for i, r := range out.Rows {
				if out.Get(r, ColSessionEventCount) != strconv.Itoa(sizes[ids[i]]) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 120)),
		gen.IntRange(1, 90),
	))

	properties.TestingRun(t)
}

// TestProperty_UserEventCount checks user_event_count_total against a direct count
func TestProperty_UserEventCount(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("user_event_count_total equals the user's row count", prop.ForAll(
		func(users []int) bool {
			records := make([][]string, 0, len(users))
			for i, u := range users {
				ts := propertyBase.Add(time.Duration(i) * time.Hour)
				records = append(records, event(fmt.Sprintf("e%d", i), ts.Format(time.RFC3339), fmt.Sprintf("u%d", u), "x", "success", "low", "1.1.1.1"))
			}

			out, stats, err := NewFeatureEngineer(DefaultConfig()).Engineer(newEventTable(records...))
			if err != nil {
				return false
			}

			want := make(map[string]int)
			for _, r := range out.Rows {
				want[out.Get(r, ColUserID)]++
			}
			for _, r := range out.Rows {
				if out.Get(r, ColUserEventCountTotal) != strconv.Itoa(want[out.Get(r, ColUserID)]) {
					return false
				}
			}
			return stats.Users == len(want)
		},
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}

// TestProperty_NormalizedCategoricalsInVocabulary checks that whatever the
// raw labels, normalized status and severity are always canonical
func TestProperty_NormalizedCategoricalsInVocabulary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	labels := []string{"CRIT", "High", "warning", "bogus", "", " Low ", "info", "weird", "SUCCESS", "denied", "ok", "maybe"}

	properties.Property("status and severity stay in their vocabularies", prop.ForAll(
		func(status, severity int) bool {
			table := newEventTable(event("e1", "2024-03-01T10:00:00Z", "a", "x", labels[status], labels[severity], "1.1.1.1"))
			out, _, err := NewNormalizer(cfgWith(ValidateOff, false)).Normalize(table)
			if err != nil {
				return false
			}
			return len(ValidateSchema(out, RequiredColumns)) == 0
		},
		gen.IntRange(0, len(labels)-1),
		gen.IntRange(0, len(labels)-1),
	))

	properties.TestingRun(t)
}
