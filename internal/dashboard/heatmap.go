package dashboard

import (
	"strings"
	"time"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/models"
)

// Cell is one day of the heatmap.
type Cell struct {
	Date    string
	Filled  bool
	InRange bool
}

// Heatmap is a grid of whole weeks, Sunday first, covering Start..End.
type Heatmap struct {
	Start  time.Time
	End    time.Time
	Weeks  [][7]Cell
	Filled int
}

// Epoch is the first day drawn by the heatmap, in loc.
func Epoch(loc *time.Location) time.Time {
	t, _ := time.ParseInLocation(constants.DateFormat, constants.HeatmapEpoch, loc)
	return t
}

// HabitHeatmap lays out h's logs from the epoch through now.
func HabitHeatmap(h models.Habit, now time.Time) Heatmap {
	return BuildHeatmap(h.Logs, Epoch(now.Location()), now)
}

// BuildHeatmap marks a cell filled when some log carries its date. Several
// logs on one day fill the cell once. Logs outside the window are ignored.
func BuildHeatmap(logs []models.HabitLog, start, end time.Time) Heatmap {
	start = truncateDay(start)
	end = truncateDay(end)

	dates := make(map[string]struct{}, len(logs))
	for _, l := range logs {
		d := l.Date
		if len(d) > len(constants.DateFormat) {
			d = d[:len(constants.DateFormat)]
		}
		dates[d] = struct{}{}
	}

	hm := Heatmap{Start: start, End: end}
	if end.Before(start) {
		return hm
	}

	day := start.AddDate(0, 0, -int(start.Weekday()))
	for !day.After(end) {
		var week [7]Cell
		for i := range week {
			date := day.Format(constants.DateFormat)
			inRange := !day.Before(start) && !day.After(end)
			_, logged := dates[date]
			week[i] = Cell{Date: date, InRange: inRange, Filled: inRange && logged}
			if week[i].Filled {
				hm.Filled++
			}
			day = day.AddDate(0, 0, 1)
		}
		hm.Weeks = append(hm.Weeks, week)
	}
	return hm
}

// MonthLabels maps a week index to the month that begins within it.
func (h Heatmap) MonthLabels() map[int]string {
	labels := map[int]string{}
	for i, week := range h.Weeks {
		for _, c := range week {
			if !c.InRange || len(c.Date) < 10 || c.Date[8:10] != "01" {
				continue
			}
			t, err := time.Parse(constants.DateFormat, c.Date)
			if err == nil {
				labels[i] = t.Format("Jan")
			}
		}
	}
	if len(h.Weeks) > 0 {
		if _, ok := labels[0]; !ok {
			labels[0] = h.Start.Format("Jan")
		}
	}
	return labels
}

// Render draws the grid with days as rows and weeks as columns, with
// month names above the first week of each month.
func (hm Heatmap) Render(filled, empty, outside string) string {
	var b strings.Builder
	labels := hm.MonthLabels()

	header := make([]byte, len(hm.Weeks)+8)
	for i := range header {
		header[i] = ' '
	}
	for week, name := range labels {
		pos := week + 4
		if pos+len(name) <= len(header) {
			copy(header[pos:], name)
		}
	}
	b.WriteString(strings.TrimRight(string(header), " "))
	b.WriteString("\n")

	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	for d := 0; d < 7; d++ {
		b.WriteString(days[d])
		b.WriteString(" ")
		for _, week := range hm.Weeks {
			cell := week[d]
			switch {
			case !cell.InRange:
				b.WriteString(outside)
			case cell.Filled:
				b.WriteString(filled)
			default:
				b.WriteString(empty)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Tail keeps the last n weeks. Start moves to the first day still shown.
func (hm Heatmap) Tail(n int) Heatmap {
	if n <= 0 || n >= len(hm.Weeks) {
		return hm
	}
	out := Heatmap{End: hm.End, Weeks: hm.Weeks[len(hm.Weeks)-n:]}
	for _, week := range out.Weeks {
		for _, c := range week {
			if c.Filled {
				out.Filled++
			}
		}
	}
	first := out.Weeks[0][0]
	if t, err := time.ParseInLocation(constants.DateFormat, first.Date, hm.Start.Location()); err == nil && t.After(hm.Start) {
		out.Start = t
	} else {
		out.Start = hm.Start
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
