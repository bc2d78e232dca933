package journal

import "sort"

// DaySummary aggregates one calendar day of trading for the calendar view.
type DaySummary struct {
	Day     string  `json:"day"` // YYYY-MM-DD
	Trades  int     `json:"trades"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	NetWins int     `json:"net_wins"` // wins minus losses
	NetGain float64 `json:"net_gain"`
}

// Calendar aggregates the log by calendar day, oldest day first.
func (j *Journal) Calendar() []DaySummary {
	j.mu.Lock()
	defer j.mu.Unlock()

	byDay := make(map[string]*DaySummary)
	for _, r := range j.records {
		day := r.RecordedAt.Format("2006-01-02")
		s, ok := byDay[day]
		if !ok {
			s = &DaySummary{Day: day}
			byDay[day] = s
		}
		s.Trades++
		if r.Outcome {
			s.Wins++
		} else {
			s.Losses++
		}
		s.NetWins = s.Wins - s.Losses
		s.NetGain += r.Gain
	}

	days := make([]DaySummary, 0, len(byDay))
	for _, s := range byDay {
		days = append(days, *s)
	}
	sort.Slice(days, func(i, k int) bool { return days[i].Day < days[k].Day })
	return days
}
