package models

import "time"

type HairLength string

const (
	HairShort  HairLength = "short"
	HairMedium HairLength = "medium"
	HairLong   HairLength = "long"
)

// NotificationDayOptions are the D-day offsets a user may be reminded on.
var NotificationDayOptions = []int{7, 3, 1, 0}

// DefaultNotificationDays is applied at onboarding.
var DefaultNotificationDays = []int{3, 1, 0}

// UserProfile holds the user's cycle configuration. Only CutCycleDays is read by
// the cycle analytics; HairLength selects the recommended-cycle display value.
type UserProfile struct {
	Nickname            string     `json:"nickname"`
	HairLength          HairLength `json:"hairLength"`
	CutCycleDays        int        `json:"cutCycleDays"`
	NotificationEnabled bool       `json:"notificationEnabled"`
	NotificationDays    []int      `json:"notificationDays"`
	Phone               string     `json:"phone,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// NotifiesOn reports whether a reminder is wanted when the D-day equals dday.
func (p UserProfile) NotifiesOn(dday int) bool {
	if !p.NotificationEnabled {
		return false
	}
	for _, d := range p.NotificationDays {
		if d == dday {
			return true
		}
	}
	return false
}
