package ai

import (
	"fmt"
	"strings"

	"github.com/talgya/ironwake/internal/engine"
)

const (
	maxRecords    = 10
	reportRecords = 5 // how many recent records Format includes
)

// CycleRecord captures what happened in a single decision cycle.
type CycleRecord struct {
	Tick      uint64  `json:"tick"`
	Time      float64 `json:"time"`
	Action    string  `json:"action"`
	Level     string  `json:"level"`
	Wood      int     `json:"wood"`
	Food      int     `json:"food"`
	Army      int     `json:"army"`
	Rationale string  `json:"rationale,omitempty"`
}

// CycleMemory keeps a ring of recent decision cycles.
type CycleMemory struct {
	Records []CycleRecord `json:"records"`
}

// Record adds a cycle record, trimming to maxRecords.
func (m *CycleMemory) Record(r CycleRecord) {
	m.Records = append(m.Records, r)
	if len(m.Records) > maxRecords {
		m.Records = m.Records[len(m.Records)-maxRecords:]
	}
}

// Last returns the most recent record.
func (m *CycleMemory) Last() (CycleRecord, bool) {
	if len(m.Records) == 0 {
		return CycleRecord{}, false
	}
	return m.Records[len(m.Records)-1], true
}

// Format summarises the last few cycles for reports.
func (m *CycleMemory) Format() string {
	if len(m.Records) == 0 {
		return ""
	}

	var b strings.Builder
	start := max(0, len(m.Records)-reportRecords)
	for _, r := range m.Records[start:] {
		fmt.Fprintf(&b, "- %s: action=%s level=%s wood=%d food=%d army=%d",
			engine.MatchClock(r.Time), r.Action, r.Level, r.Wood, r.Food, r.Army)
		if r.Rationale != "" {
			fmt.Fprintf(&b, " (%s)", r.Rationale)
		}
		b.WriteString("\n")
	}
	return b.String()
}
