package service

import (
	"time"

	"studio-booking/config"
)

// ── 测试辅助 ──

// testNow 2025-06-02 为周一
var testNow = time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

func testScheduleConfig() *config.ScheduleConfig {
	return &config.ScheduleConfig{
		Timezone:          "UTC",
		SlotMinutes:       60,
		MinLeadTime:       15 * time.Minute,
		OpenHour:          9,
		CloseHour:         21,
		SaturdayCloseHour: 13,
	}
}

func testRules() *ScheduleRules {
	return NewScheduleRules(testScheduleConfig())
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, 6, day, hour, minute, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
