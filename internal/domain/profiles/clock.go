package profiles

import "time"

// ParseClock parsea un reloj "HH:MM" y devuelve hora y minuto.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}
