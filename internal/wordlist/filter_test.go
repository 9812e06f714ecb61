package wordlist

import "testing"

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterGermanKeepsUmlauts(t *testing.T) {
	filter := FilterForLang("de")
	for _, word := range []string{"Straße", "grün", "Haus"} {
		if !filter(word) {
			t.Fatalf("expected %q to pass german filter", word)
		}
	}
	for _, word := range []string{"", "co-op", "bei 3"} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	got := Filter([]string{"b", "x1", "a"}, FilterForLang("en"))
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Fatalf("unexpected filter result: %v", got)
	}
}
