package models

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// FormatoFecha es el formato de las fechas sin hora en JSON
const FormatoFecha = "2006-01-02"

// Fecha es una fecha sin hora. Se guarda como DATE y se serializa como
// "2006-01-02".
type Fecha time.Time

// NuevaFecha convierte t en *Fecha; nil se conserva.
func NuevaFecha(t *time.Time) *Fecha {
	if t == nil {
		return nil
	}
	y, m, d := t.Date()
	f := Fecha(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &f
}

func (f Fecha) Time() time.Time { return time.Time(f) }

func (f Fecha) String() string { return time.Time(f).Format(FormatoFecha) }

func (f Fecha) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

func (f *Fecha) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.ParseInLocation(FormatoFecha, s, time.UTC)
	if err != nil {
		return fmt.Errorf("fecha %q: %w", s, err)
	}
	*f = Fecha(t)
	return nil
}

// Scan implementa sql.Scanner
func (f *Fecha) Scan(value any) error {
	var nt sql.NullTime
	if err := nt.Scan(value); err != nil {
		return err
	}
	*f = Fecha(nt.Time)
	return nil
}

// Value implementa driver.Valuer
func (f Fecha) Value() (driver.Value, error) {
	y, m, d := time.Time(f).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func (Fecha) GormDataType() string { return "date" }
