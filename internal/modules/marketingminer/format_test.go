package marketingminer

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFormatSuggestionsFullRecord(t *testing.T) {
	data := json.RawMessage(`{"keywords":[{"keyword":"seo","search_volume":1000,"cpc":{"value":2.5,"currency_code":"USD"},"difficulty":45,"serp_features":["featured_snippet","paa"]}]}`)

	got := formatSuggestions(data, true)
	want := "Klíčové slovo: seo | Hledanost: 1000 | CPC: 2.5 USD | Obtížnost: 45 | SERP features: featured_snippet, paa"
	if got != want {
		t.Errorf("formatSuggestions() = %q, want %q", got, want)
	}
}

func TestFormatSuggestionsWithoutExtended(t *testing.T) {
	data := json.RawMessage(`{"keywords":[{"keyword":"seo","search_volume":1000,"cpc":{"value":2.5,"currency_code":"USD"},"difficulty":45,"serp_features":["featured_snippet","paa"]}]}`)

	got := formatSuggestions(data, false)
	want := "Klíčové slovo: seo | Hledanost: 1000 | CPC: 2.5 USD"
	if got != want {
		t.Errorf("formatSuggestions() = %q, want %q", got, want)
	}
}

func TestFormatSuggestionsFieldPresence(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			"keyword only",
			`{"keywords":[{"keyword":"seo"}]}`,
			"Klíčové slovo: seo",
		},
		{
			"zero search volume is still shown",
			`{"keywords":[{"keyword":"seo","search_volume":0}]}`,
			"Klíčové slovo: seo | Hledanost: 0",
		},
		{
			"missing keyword falls back to N/A",
			`{"keywords":[{"search_volume":10}]}`,
			"Klíčové slovo: N/A | Hledanost: 10",
		},
		{
			"null cpc is skipped",
			`{"keywords":[{"keyword":"seo","cpc":null}]}`,
			"Klíčové slovo: seo",
		},
		{
			"empty cpc object is skipped",
			`{"keywords":[{"keyword":"seo","cpc":{}}]}`,
			"Klíčové slovo: seo",
		},
		{
			"empty serp features are skipped even when extended",
			`{"keywords":[{"keyword":"seo","serp_features":[]}]}`,
			"Klíčové slovo: seo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatSuggestions(json.RawMessage(tt.data), true); got != tt.want {
				t.Errorf("formatSuggestions() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatSuggestionsEmpty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty keywords", `{"keywords":[]}`},
		{"missing keywords", `{}`},
		{"null data", `null`},
		{"non-object data", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSuggestions(json.RawMessage(tt.data), false)
			if got != msgNoSuggestionData {
				t.Errorf("formatSuggestions() = %q, want %q", got, msgNoSuggestionData)
			}
		})
	}
}

func TestFormatSuggestionsSkipsMalformedEntries(t *testing.T) {
	data := json.RawMessage(`{"keywords":["bogus",42,{"keyword":"seo"},null,{"keyword":"sem"}]}`)

	got := formatSuggestions(data, false)
	want := "Klíčové slovo: seo\nKlíčové slovo: sem"
	if got != want {
		t.Errorf("formatSuggestions() = %q, want %q", got, want)
	}
}

func TestFormatSearchVolumeFullRecord(t *testing.T) {
	data := json.RawMessage(`[{"keyword":"seo","search_volume":12100,"cpc":{"value":1.2,"currency_code":"CZK"},"yoy_change":0.0523,"peak_month":"listopad","monthly_sv":{"2025-01":9900,"2025-02":12100}}]`)

	got := formatSearchVolume(data)
	want := strings.Join([]string{
		"Klíčové slovo: seo",
		"Hledanost: 12100",
		"CPC: 1.2 CZK",
		"Meziroční změna: 5.23%",
		"Nejsilnější měsíc: listopad",
		"Měsíční hledanost:",
		"  - Měsíc 2025-01: 9900",
		"  - Měsíc 2025-02: 12100",
	}, "\n")
	if got != want {
		t.Errorf("formatSearchVolume() =\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatSearchVolumeMinimalRecord(t *testing.T) {
	got := formatSearchVolume(json.RawMessage(`[{"keyword":"seo"}]`))
	want := "Klíčové slovo: seo\nHledanost: N/A"
	if got != want {
		t.Errorf("formatSearchVolume() = %q, want %q", got, want)
	}
}

func TestFormatSearchVolumeIgnoresExtraElements(t *testing.T) {
	data := json.RawMessage(`[{"keyword":"first","search_volume":1},{"keyword":"second","search_volume":2}]`)

	got := formatSearchVolume(data)
	if strings.Contains(got, "second") {
		t.Errorf("second element should be ignored, got %q", got)
	}
	if !strings.Contains(got, "first") {
		t.Errorf("first element missing from %q", got)
	}
}

func TestFormatSearchVolumeEmpty(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty list", `[]`},
		{"null data", `null`},
		{"non-list data", `{"keyword":"seo"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatSearchVolume(json.RawMessage(tt.data))
			if got != msgNoVolumeData {
				t.Errorf("formatSearchVolume() = %q, want %q", got, msgNoVolumeData)
			}
		})
	}
}

func TestFormatSearchVolumeYoYRounding(t *testing.T) {
	tests := []struct {
		yoy  string
		want string
	}{
		{"0.0523", "Meziroční změna: 5.23%"},
		{"-0.1", "Meziroční změna: -10.00%"},
		{"0", "Meziroční změna: 0.00%"},
	}

	for _, tt := range tests {
		data := json.RawMessage(`[{"keyword":"seo","yoy_change":` + tt.yoy + `}]`)
		got := formatSearchVolume(data)
		if !strings.Contains(got, tt.want) {
			t.Errorf("yoy_change=%s: output %q does not contain %q", tt.yoy, got, tt.want)
		}
	}
}

func TestMonthlyEntriesPreserveOrder(t *testing.T) {
	raw := json.RawMessage(`{"2024-12":100,"2024-01":200,"2024-06":300}`)

	entries := monthlyEntries(raw)
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	wantOrder := []string{"2024-12", "2024-01", "2024-06"}
	for i, want := range wantOrder {
		if entries[i].label != want {
			t.Errorf("entries[%d].label = %q, want %q", i, entries[i].label, want)
		}
	}
}

func TestMonthlyEntriesNonObject(t *testing.T) {
	if got := monthlyEntries(json.RawMessage(`[1,2]`)); got != nil {
		t.Errorf("monthlyEntries() = %v, want nil", got)
	}
	if got := monthlyEntries(nil); got != nil {
		t.Errorf("monthlyEntries(nil) = %v, want nil", got)
	}
}
