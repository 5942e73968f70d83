package validate

import (
	"testing"
	"time"
)

func TestNIT(t *testing.T) {
	valid := []string{"123456-7", "1-K", "998877-k", "12345678-0"}
	for _, nit := range valid {
		if !NIT(nit) {
			t.Fatalf("expected %q to be valid", nit)
		}
	}

	invalid := []string{"", "123456", "123456-", "-7", "abc-7", "123456-X", "123456-77", "123456 7"}
	for _, nit := range invalid {
		if NIT(nit) {
			t.Fatalf("expected %q to be invalid", nit)
		}
	}
}

func TestExtractDateFromFreeText(t *testing.T) {
	date, ok := ExtractDate("La instancia fue creada el 15/01/2026 por el operador")
	if !ok {
		t.Fatalf("expected a date")
	}
	want := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Fatalf("expected %v, got %v", want, date)
	}

	if _, ok := ExtractDate("sin fecha"); ok {
		t.Fatalf("expected no date in plain text")
	}
	if _, ok := ExtractDate("99/99/2026"); ok {
		t.Fatalf("expected invalid calendar date to be rejected")
	}
}

func TestExtractDateTimeFromFreeText(t *testing.T) {
	ts, ok := ExtractDateTime("Consumo registrado el 15/01/2026 14:30 UTC")
	if !ok {
		t.Fatalf("expected a timestamp")
	}
	want := time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ts)
	}

	// A bare date does not satisfy the timestamp format.
	if _, ok := ExtractDateTime("15/01/2026"); ok {
		t.Fatalf("expected bare date to be rejected")
	}
}

func TestFormatRoundtrip(t *testing.T) {
	ts := time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)

	if got := FormatDate(ts); got != "15/01/2026" {
		t.Fatalf("expected 15/01/2026, got %q", got)
	}
	if got := FormatDateTime(ts); got != "15/01/2026 14:30" {
		t.Fatalf("expected 15/01/2026 14:30, got %q", got)
	}

	// Formatted timestamps extract back to the same instant.
	back, ok := ExtractDateTime(FormatDateTime(ts))
	if !ok || !back.Equal(ts) {
		t.Fatalf("expected roundtrip to %v, got %v ok=%v", ts, back, ok)
	}
}

func TestNormalizeEnum(t *testing.T) {
	got, ok := NormalizeEnum("  hardware ", "Hardware", "Software")
	if !ok || got != "Hardware" {
		t.Fatalf("expected canonical Hardware, got %q ok=%v", got, ok)
	}

	got, ok = NormalizeEnum("firmware", "Hardware", "Software")
	if ok {
		t.Fatalf("expected no match, got %q", got)
	}
}
