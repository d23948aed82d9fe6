package review

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/TrainingReg/internal/core"
)

var baseTime = time.Date(2024, 12, 1, 9, 0, 0, 0, time.UTC)

func ptr(s string) *string { return &s }

// makeRecords returns n records created one minute apart, newest first.
func makeRecords(n int) []core.Registration {
	out := make([]core.Registration, n)
	for i := range n {
		out[n-1-i] = core.Registration{
			ID:                    fmt.Sprintf("id-%02d", i),
			FullName:              fmt.Sprintf("Person %02d", i),
			CorporateEmail:        fmt.Sprintf("person%02d@empresa.com", i),
			Department:            "RH",
			AutomationFamiliarity: "low",
			ParticipationDay:      "11/12",
			CreatedAt:             baseTime.Add(time.Duration(i) * time.Minute),
		}
	}
	return out
}

func names(rs []core.Registration) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.FullName
	}
	return out
}
