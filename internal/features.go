package internal

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// FeatureStats summarizes the engineered features
type FeatureStats struct {
	Users    int `json:"users" yaml:"users"`
	Sessions int `json:"sessions" yaml:"sessions"`
}

// FeatureEngineer appends derived analytic columns to a normalized table
type FeatureEngineer struct {
	cfg Config
}

// NewFeatureEngineer creates a new FeatureEngineer
func NewFeatureEngineer(cfg Config) *FeatureEngineer {
	return &FeatureEngineer{cfg: cfg}
}

// Engineer adds severity_score, the per-user aggregates and the session
// features. No rows are removed and row order is preserved.
func (f *FeatureEngineer) Engineer(t *Table) (*Table, FeatureStats, error) {
	if err := f.ensureTimes(t); err != nil {
		return nil, FeatureStats{}, err
	}

	f.AddSeverityScore(t)
	groups := groupByUser(t)
	f.AddUserEventFrequency(t, groups)
	f.AddUserActivityBaseline(t, groups)
	sessions := f.AddSessionFeatures(t, groups)

	stats := FeatureStats{Users: len(groups.order), Sessions: sessions}
	Logger().Debug("features complete",
		zap.Int("users", stats.Users),
		zap.Int("sessions", stats.Sessions),
	)
	return t, stats, nil
}

// AddSeverityScore maps canonical severity to its ordinal score.
// Unknown severities are left empty.
func (f *FeatureEngineer) AddSeverityScore(t *Table) {
	sevIdx := t.ColumnIndex(ColSeverity)
	out := t.AddColumn(ColSeverityScore, "")
	if sevIdx < 0 {
		return
	}
	for _, r := range t.Rows {
		if score, ok := SeverityScores[r.Values[sevIdx]]; ok {
			r.Values[out] = strconv.Itoa(score)
		}
	}
}

// AddUserEventFrequency writes each user's total event count onto their rows
func (f *FeatureEngineer) AddUserEventFrequency(t *Table, groups *userGroups) {
	out := t.AddColumn(ColUserEventCountTotal, "")
	for _, user := range groups.order {
		rows := groups.rows[user]
		count := strconv.Itoa(len(rows))
		for _, i := range rows {
			t.Rows[i].Values[out] = count
		}
	}
}

// AddUserActivityBaseline writes each user's average events per active UTC day
func (f *FeatureEngineer) AddUserActivityBaseline(t *Table, groups *userGroups) {
	out := t.AddColumn(ColUserDailyAvgEvents, "")
	for _, user := range groups.order {
		rows := groups.rows[user]
		days := make(map[string]struct{})
		for _, i := range rows {
			days[t.Rows[i].Time.UTC().Format("2006-01-02")] = struct{}{}
		}
		avg := formatFloat(float64(len(rows)) / float64(len(days)))
		for _, i := range rows {
			t.Rows[i].Values[out] = avg
		}
	}
}

// AddSessionFeatures splits each user's events into sessions on inactivity
// gaps longer than the configured threshold and returns the session count
func (f *FeatureEngineer) AddSessionFeatures(t *Table, groups *userGroups) int {
	idOut := t.AddColumn(ColSessionID, "")
	countOut := t.AddColumn(ColSessionEventCount, "")
	durOut := t.AddColumn(ColSessionDuration, "")

	total := 0
	for _, user := range groups.order {
		ordered := append([]int(nil), groups.rows[user]...)
		// Stable sort keeps input order for identical timestamps
		sort.SliceStable(ordered, func(a, b int) bool {
			return t.Rows[ordered[a]].Time.Before(t.Rows[ordered[b]].Time)
		})

		for n, session := range splitSessions(t, ordered, f.cfg.SessionGap) {
			first := t.Rows[session[0]].Time
			last := t.Rows[session[len(session)-1]].Time
			id := fmt.Sprintf("%s_session_%d", user, n)
			count := strconv.Itoa(len(session))
			duration := formatFloat(last.Sub(first).Seconds())
			for _, i := range session {
				t.Rows[i].Values[idOut] = id
				t.Rows[i].Values[countOut] = count
				t.Rows[i].Values[durOut] = duration
			}
			total++
		}
	}
	return total
}

// ensureTimes parses timestamps for rows the Normalizer did not touch
func (f *FeatureEngineer) ensureTimes(t *Table) error {
	idx := t.ColumnIndex(ColTimestamp)
	for _, r := range t.Rows {
		if !r.Time.IsZero() {
			continue
		}
		if idx < 0 {
			return &SchemaError{Columns: []string{ColTimestamp}}
		}
		ts, err := ParseTimestamp(r.Values[idx])
		if err != nil {
			return &ParseError{Line: r.Line, Column: ColTimestamp, Value: r.Values[idx], Err: err}
		}
		r.Time = ts
	}
	return nil
}

// splitSessions cuts time-ordered row indices wherever the gap exceeds gap
func splitSessions(t *Table, ordered []int, gap time.Duration) [][]int {
	var sessions [][]int
	var current []int
	for k, i := range ordered {
		if k > 0 && t.Rows[i].Time.Sub(t.Rows[ordered[k-1]].Time) > gap {
			sessions = append(sessions, current)
			current = nil
		}
		current = append(current, i)
	}
	if len(current) > 0 {
		sessions = append(sessions, current)
	}
	return sessions
}

// userGroups maps each user id to its row indices in table order
type userGroups struct {
	order []string
	rows  map[string][]int
}

func groupByUser(t *Table) *userGroups {
	g := &userGroups{rows: make(map[string][]int)}
	idx := t.ColumnIndex(ColUserID)
	for i, r := range t.Rows {
		user := Unknown
		if idx >= 0 {
			user = r.Values[idx]
		}
		if _, ok := g.rows[user]; !ok {
			g.order = append(g.order, user)
		}
		g.rows[user] = append(g.rows[user], i)
	}
	return g
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
