package util

import (
	"reflect"
	"testing"
)

func TestNormalizeSymbol(t *testing.T) {
	cases := map[string]string{
		"btc":       "BTCUSDT",
		"BTC/USDT":  "BTCUSDT",
		"eth-usdt":  "ETHUSDT",
		" solusdc ": "SOLUSDC",
		"BTCUSDT":   "BTCUSDT",
		"":          "",
	}
	for in, want := range cases {
		if got := NormalizeSymbol(in); got != want {
			t.Fatalf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitSymbols(t *testing.T) {
	got := SplitSymbols("btc, eth,btc,,sol")
	want := []string{"BTCUSDT", "ETHUSDT", "SOLUSDT"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitSymbols = %v, want %v", got, want)
	}
	if SplitSymbols("") != nil {
		t.Fatal("empty input should yield nil")
	}
}

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("empty: want 7, got %d", got)
	}
	if got := ParseIntDefault("12", 7); got != 12 {
		t.Fatalf("valid: want 12, got %d", got)
	}
	if got := ParseIntDefault("x", 7); got != 7 {
		t.Fatalf("invalid: want 7, got %d", got)
	}
}
