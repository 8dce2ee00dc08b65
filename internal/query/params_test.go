package query

import (
	"net/http/httptest"
	"testing"
)

func TestParseCommonParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/mail", nil)
	p := parseCommonParams(r)
	if p.forward {
		t.Fatal("default order should be descending")
	}
	if p.limit != defaultLimit {
		t.Fatalf("limit = %d, want %d", p.limit, defaultLimit)
	}
	if p.exclusiveStart != nil {
		t.Fatalf("exclusiveStart = %#v, want nil", p.exclusiveStart)
	}
	if p.from != "" || p.to != "" {
		t.Fatalf("from/to should be empty without both params")
	}
}

func TestParseCommonParamsOrderAsc(t *testing.T) {
	r := httptest.NewRequest("GET", "/mail?order=asc", nil)
	if p := parseCommonParams(r); !p.forward {
		t.Fatal("order=asc should set forward=true")
	}
}

func TestParseCommonParamsLimitClamped(t *testing.T) {
	cases := map[string]int32{
		"0":    minLimit,
		"-5":   minLimit,
		"500":  maxLimit,
		"37":   37,
		"junk": defaultLimit,
	}
	for raw, want := range cases {
		r := httptest.NewRequest("GET", "/mail?limit="+raw, nil)
		if p := parseCommonParams(r); p.limit != want {
			t.Errorf("limit=%q => %d, want %d", raw, p.limit, want)
		}
	}
}

func TestParseCommonParamsRequiresBothFromTo(t *testing.T) {
	r := httptest.NewRequest("GET", "/mail?from=2025-01-01", nil)
	p := parseCommonParams(r)
	if p.from != "" || p.to != "" {
		t.Fatal("from without to should not activate filtering")
	}
}

func TestParseCommonParamsFromToExtendsUpperBound(t *testing.T) {
	r := httptest.NewRequest("GET", "/mail?from=2025-01-01&to=2025-01-31", nil)
	p := parseCommonParams(r)
	if p.from != "2025-01-01" {
		t.Fatalf("from = %q", p.from)
	}
	want := "2025-01-31" + "￿"
	if p.to != want {
		t.Fatalf("to = %q, want %q", p.to, want)
	}
}
