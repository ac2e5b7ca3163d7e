// Package jalali formats dates in the Solar Hijri calendar used in Iran.
package jalali

import (
	"fmt"
	"time"

	ptime "github.com/yaa110/go-persian-calendar"
)

// Date renders t as YYYY/MM/DD in the Solar Hijri calendar, using ASCII
// digits. The calendar day is taken in t's location.
func Date(t time.Time) string {
	pt := ptime.New(t)
	return fmt.Sprintf("%04d/%02d/%02d", pt.Year(), int(pt.Month()), pt.Day())
}
