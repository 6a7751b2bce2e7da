package formatting

import (
	"fmt"
	"time"
)

// FormatDateTime форматирует дату и время
func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

// FormatRemaining остаток времени до срока, для просрочки со знаком минус
func FormatRemaining(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	d = d.Truncate(time.Minute)
	hours := int(d / time.Hour)
	mins := int((d % time.Hour) / time.Minute)
	if hours == 0 {
		return fmt.Sprintf("%s%d мин", sign, mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%s%d ч", sign, hours)
	}
	return fmt.Sprintf("%s%d ч %d мин", sign, hours, mins)
}
