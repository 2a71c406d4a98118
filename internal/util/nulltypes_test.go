package util

import (
	"testing"
	"time"
)

func TestNullStringFromValue(t *testing.T) {
	if v := NullStringFromValue("hello"); !v.Valid || v.String != "hello" {
		t.Errorf("NullStringFromValue(hello) = %+v", v)
	}
	if v := NullStringFromValue(""); v.Valid {
		t.Errorf("NullStringFromValue(\"\") should be invalid, got %+v", v)
	}
}

func TestNullInt64FromPtr(t *testing.T) {
	n := int64(42)
	if v := NullInt64FromPtr(&n); !v.Valid || v.Int64 != 42 {
		t.Errorf("NullInt64FromPtr(&42) = %+v", v)
	}
	if v := NullInt64FromPtr(nil); v.Valid {
		t.Errorf("NullInt64FromPtr(nil) should be invalid, got %+v", v)
	}
}

func TestNullTimeFromPtr(t *testing.T) {
	now := time.Now()
	if v := NullTimeFromPtr(&now); !v.Valid || !v.Time.Equal(now) {
		t.Errorf("NullTimeFromPtr(&now) = %+v", v)
	}
	if v := NullTimeFromPtr(nil); v.Valid {
		t.Errorf("NullTimeFromPtr(nil) should be invalid, got %+v", v)
	}
}

func TestParseNullInt64(t *testing.T) {
	if v := ParseNullInt64("7"); !v.Valid || v.Int64 != 7 {
		t.Errorf("ParseNullInt64(7) = %+v", v)
	}
	if v := ParseNullInt64(""); v.Valid {
		t.Errorf("ParseNullInt64(\"\") should be invalid, got %+v", v)
	}
	if v := ParseNullInt64("abc"); v.Valid {
		t.Errorf("ParseNullInt64(abc) should be invalid, got %+v", v)
	}
}
