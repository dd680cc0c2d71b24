// Package calendar converts Gregorian dates to the Solar Hijri calendar
// used in Afghanistan and formats them with Dari month and weekday names.
// The arithmetic follows the standard jalaali 33-year break-table
// algorithm over Julian day numbers, valid for Jalali years 1178-3177.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Date is a Solar Hijri calendar date.
type Date struct {
	Year  int
	Month int // 1 = Hamal
	Day   int
}

var monthNames = [12]string{
	"حمل", "ثور", "جوزا", "سرطان", "اسد", "سنبله",
	"میزان", "عقرب", "قوس", "جدی", "دلو", "حوت",
}

// weekdayNames is indexed by time.Weekday (Sunday = 0).
var weekdayNames = [7]string{
	"یکشنبه", "دوشنبه", "سه‌شنبه", "چهارشنبه", "پنجشنبه", "جمعه", "شنبه",
}

// breaks lists the Jalali years where the 33-year leap cycle resets.
var breaks = []int{
	-61, 9, 38, 199, 426, 686, 756, 818, 1111, 1181, 1210,
	1635, 2060, 2097, 2192, 2262, 2324, 2394, 2456, 3178,
}

// ToJalali converts a Gregorian calendar date.
func ToJalali(gy, gm, gd int) (Date, error) {
	return d2j(g2d(gy, gm, gd))
}

// ToGregorian converts a Solar Hijri date back to Gregorian.
func ToGregorian(d Date) (gy, gm, gd int, err error) {
	jdn, err := j2d(d)
	if err != nil {
		return 0, 0, 0, err
	}
	gy, gm, gd = d2g(jdn)
	return gy, gm, gd, nil
}

// FromTime converts the calendar date of t in its own location.
func FromTime(t time.Time) (Date, error) {
	return ToJalali(t.Year(), int(t.Month()), t.Day())
}

// MonthName returns the Afghan name of month m (1-12), or "" out of range.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// FormatDate renders t like the clinic form header: weekday, day, month
// name and year with Extended Arabic-Indic digits, e.g.
// "جمعه، ۵ جدی ۱۴۰۴". Dates outside the supported range fall back to the
// Gregorian YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	d, err := FromTime(t)
	if err != nil {
		return t.Format("2006-01-02")
	}
	day := weekdayNames[int(t.Weekday())]
	return fmt.Sprintf("%s، %s %s %s",
		day,
		PersianDigits(fmt.Sprintf("%d", d.Day)),
		MonthName(d.Month),
		PersianDigits(fmt.Sprintf("%d", d.Year)),
	)
}

// PersianDigits replaces ASCII digits with Extended Arabic-Indic ones.
func PersianDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return '۰' + (r - '0')
		}
		return r
	}, s)
}

type cycle struct {
	leap  int // leap offset of the year within its cycle
	gy    int // Gregorian year of the 1st of Farvardin
	march int // day of March of the 1st of Farvardin
}

func jalCal(jy int) (cycle, error) {
	if jy < breaks[0] || jy >= breaks[len(breaks)-1] {
		return cycle{}, fmt.Errorf("calendar: jalali year %d out of supported range", jy)
	}

	gy := jy + 621
	leapJ := -14
	jp := breaks[0]
	jump := 0

	for i := 1; i < len(breaks); i++ {
		jm := breaks[i]
		jump = jm - jp
		if jy < jm {
			break
		}
		leapJ += jump/33*8 + jump%33/4
		jp = jm
	}

	n := jy - jp
	leapJ += n/33*8 + (n%33+3)/4
	if jump%33 == 4 && jump-n == 4 {
		leapJ++
	}

	leapG := gy/4 - (gy/100+1)*3/4 - 150
	march := 20 + leapJ - leapG

	if jump-n < 6 {
		n = n - jump + (jump+4)/33*33
	}
	leap := ((n+1)%33 - 1) % 4
	if leap == -1 {
		leap = 4
	}

	return cycle{leap: leap, gy: gy, march: march}, nil
}

func j2d(d Date) (int, error) {
	c, err := jalCal(d.Year)
	if err != nil {
		return 0, err
	}
	return g2d(c.gy, 3, c.march) + (d.Month-1)*31 - d.Month/7*(d.Month-7) + d.Day - 1, nil
}

func d2j(jdn int) (Date, error) {
	gy, _, _ := d2g(jdn)
	jy := gy - 621
	c, err := jalCal(jy)
	if err != nil {
		return Date{}, err
	}

	k := jdn - g2d(c.gy, 3, c.march)
	if k >= 0 {
		if k <= 185 {
			return Date{Year: jy, Month: 1 + k/31, Day: k%31 + 1}, nil
		}
		k -= 186
	} else {
		jy--
		k += 179
		if c.leap == 1 {
			k++
		}
	}
	return Date{Year: jy, Month: 7 + k/30, Day: k%30 + 1}, nil
}

// g2d computes the Julian day number of a Gregorian calendar date.
func g2d(gy, gm, gd int) int {
	d := (gy+(gm-8)/6+100100)*1461/4 + (153*mod(gm+9, 12)+2)/5 + gd - 34840408
	return d - (gy+100100+(gm-8)/6)/100*3/4 + 752
}

func d2g(jdn int) (gy, gm, gd int) {
	j := 4*jdn + 139361631
	j += (4*jdn+183187720)/146097*3/4*4 - 3908
	i := mod(j, 1461)/4*5 + 308
	gd = mod(i, 153)/5 + 1
	gm = mod(i/153, 12) + 1
	gy = j/1461 - 100100 + (8-gm)/6
	return gy, gm, gd
}

// mod is a remainder that follows the truncated-division convention the
// algorithm's constants were derived with.
func mod(a, b int) int {
	return a - a/b*b
}
