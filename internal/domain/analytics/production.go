package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/furnitureops/backend/internal/domain/production"
)

// StageLoad summarises the unfinished work sitting in one production stage
type StageLoad struct {
	Stage          production.Stage `json:"stage"`
	ActiveItems    int              `json:"active_items"`
	Units          int              `json:"units"`
	AvgDaysInStage float64          `json:"avg_days_in_stage"`
	MaxDaysInStage float64          `json:"max_days_in_stage"`
	OverdueItems   int              `json:"overdue_items"`
}

// BottleneckReport lists stage loads slowest first. Bottleneck is the first
// entry, or nil when nothing is in production.
type BottleneckReport struct {
	GeneratedAt  time.Time   `json:"generated_at"`
	Stages       []StageLoad `json:"stages"`
	Bottleneck   *StageLoad  `json:"bottleneck"`
	ActiveItems  int         `json:"active_items"`
	OverdueItems int         `json:"overdue_items"`
}

// BuildBottlenecks aggregates active tracking rows per stage
func BuildBottlenecks(now time.Time, rows []production.Tracking) BottleneckReport {
	type acc struct {
		load  StageLoad
		total float64
	}
	byStage := map[production.Stage]*acc{}
	report := BottleneckReport{GeneratedAt: now}

	for i := range rows {
		row := &rows[i]
		if row.IsCompleted() {
			continue
		}
		a, ok := byStage[row.Stage]
		if !ok {
			a = &acc{load: StageLoad{Stage: row.Stage}}
			byStage[row.Stage] = a
		}
		days := row.DaysInStage(now)
		a.load.ActiveItems++
		a.load.Units += row.Quantity
		a.total += days
		if days > a.load.MaxDaysInStage {
			a.load.MaxDaysInStage = days
		}
		if row.IsOverdue(now) {
			a.load.OverdueItems++
			report.OverdueItems++
		}
		report.ActiveItems++
	}

	report.Stages = make([]StageLoad, 0, len(byStage))
	for _, a := range byStage {
		a.load.AvgDaysInStage = round1(a.total / float64(a.load.ActiveItems))
		a.load.MaxDaysInStage = round1(a.load.MaxDaysInStage)
		report.Stages = append(report.Stages, a.load)
	}
	sort.Slice(report.Stages, func(i, j int) bool {
		a, b := report.Stages[i], report.Stages[j]
		if a.AvgDaysInStage != b.AvgDaysInStage {
			return a.AvgDaysInStage > b.AvgDaysInStage
		}
		return a.Stage.Index() < b.Stage.Index()
	})
	if len(report.Stages) > 0 {
		top := report.Stages[0]
		report.Bottleneck = &top
	}
	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
