package components

import (
	"strings"
	"testing"

	"github.com/rsinha/cashguard/internal/tui/theme"
)

func TestLayoutRowSumsExactly(t *testing.T) {
	cases := []struct {
		total, n int
	}{
		{100, 3},
		{97, 4},
		{10, 1},
		{7, 7},
	}
	for _, tc := range cases {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Errorf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
}

func TestCardRowHeightMatchesTallest(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Wallet", "Content", 22)
	tallCard := ContentCard("Day log", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := len(strings.Split(shortCard, "\n"))
	tallLines := len(strings.Split(tallCard, "\n"))
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	if got := len(strings.Split(joined, "\n")); got != tallLines {
		t.Errorf("joined height = %d, want tallest card height %d", got, tallLines)
	}
}

func TestMetricCardShowsHint(t *testing.T) {
	theme.SetActive("flexoki-dark")

	card := MetricCard(Metric{Label: "Daily Wallet", Value: "₹170.83", Hint: "30 days left"}, 26)
	if !strings.Contains(card, "₹170.83") {
		t.Errorf("card missing value: %q", card)
	}
	if !strings.Contains(card, "30 days left") {
		t.Errorf("card missing hint: %q", card)
	}
}
