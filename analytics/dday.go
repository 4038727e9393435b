package analytics

import "strconv"

type Severity string

const (
	SeveritySafe       Severity = "safe"
	SeverityInfo       Severity = "info"
	SeverityWarning    Severity = "warning"
	SeverityDanger     Severity = "danger"
	SeverityDangerDark Severity = "danger-dark"
)

// DdayStatus is the display bucket for a D-day value.
type DdayStatus struct {
	Label    string   `json:"label"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func GetDdayStatus(dday int) DdayStatus {
	switch {
	case dday > 7:
		return DdayStatus{Label: "D-" + strconv.Itoa(dday), Message: "plenty of time left", Severity: SeveritySafe}
	case dday > 3:
		return DdayStatus{Label: "D-" + strconv.Itoa(dday), Message: "start preparing soon", Severity: SeverityInfo}
	case dday > 0:
		return DdayStatus{Label: "D-" + strconv.Itoa(dday), Message: "haircut time is approaching", Severity: SeverityWarning}
	case dday == 0:
		return DdayStatus{Label: "D-Day", Message: "today is haircut day", Severity: SeverityDanger}
	default:
		return DdayStatus{Label: "D+" + strconv.Itoa(-dday), Message: "the scheduled date has passed", Severity: SeverityDangerDark}
	}
}
