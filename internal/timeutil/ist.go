package timeutil

import (
	"log"
	"time"
)

// All entry and payment dates are recorded in Indian Standard Time since
// the app serves Indian farm operators.
var istLocation *time.Location

func init() {
	var err error
	istLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		log.Printf("[Time] Failed to load Asia/Kolkata, using fixed offset: %v", err)
		istLocation = time.FixedZone("IST", 5*3600+30*60)
	}
}

func IST() *time.Location {
	return istLocation
}

func NowIST() time.Time {
	return time.Now().In(istLocation)
}

// FormatDate renders a date the way it appears on receipts: 02 Jan 2006.
func FormatDate(t time.Time) string {
	return t.In(istLocation).Format("02 Jan 2006")
}

// ParseDate accepts the YYYY-MM-DD wire format and anchors it in IST.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, istLocation)
}
