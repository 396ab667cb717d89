package marketingminer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-faster/jx"
)

// Fixed output messages.
const (
	msgNoSuggestionData = "Nebyla nalezena žádná data pro tento dotaz."
	msgNoVolumeData     = "Nebyla nalezena žádná data pro toto klíčové slovo."
	msgUnexpectedFormat = "Neočekávaný formát odpovědi z API"
)

// cpcValue is the cost-per-click sub-object attached to keyword records.
type cpcValue struct {
	Value        *json.Number `json:"value"`
	CurrencyCode string       `json:"currency_code"`
}

// empty reports whether the field should be treated as absent. An empty
// object counts as absent, matching the upstream contract.
func (c *cpcValue) empty() bool {
	return c == nil || (c.Value == nil && c.CurrencyCode == "")
}

func (c *cpcValue) render() string {
	val := "N/A"
	if c.Value != nil {
		val = c.Value.String()
	}
	return fmt.Sprintf("CPC: %s %s", val, c.CurrencyCode)
}

// keywordRecord models one entry of data.keywords. Pointer fields keep
// "absent" distinguishable from "present but zero"; json.Number preserves
// the upstream numeric literal verbatim.
type keywordRecord struct {
	Keyword      *string      `json:"keyword"`
	SearchVolume *json.Number `json:"search_volume"`
	CPC          *cpcValue    `json:"cpc"`
	Difficulty   *json.Number `json:"difficulty"`
	SERPFeatures []string     `json:"serp_features"`
}

// volumeRecord models one entry of the search-volume data list. monthly_sv
// stays raw so its key order can be preserved when rendering.
type volumeRecord struct {
	Keyword      *string         `json:"keyword"`
	SearchVolume *json.Number    `json:"search_volume"`
	CPC          *cpcValue       `json:"cpc"`
	YoYChange    *float64        `json:"yoy_change"`
	PeakMonth    *string         `json:"peak_month"`
	MonthlySV    json.RawMessage `json:"monthly_sv"`
}

// formatSuggestions renders data.keywords as one pipe-separated line per
// record. Malformed (non-object) entries are dropped without aborting the
// rest of the output.
func formatSuggestions(data json.RawMessage, includeExtended bool) string {
	var payload struct {
		Keywords []json.RawMessage `json:"keywords"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Keywords) == 0 {
		return msgNoSuggestionData
	}

	var lines []string
	for _, raw := range payload.Keywords {
		if jx.DecodeBytes(raw).Next() != jx.Object {
			continue
		}
		var rec keywordRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		lines = append(lines, renderKeywordLine(rec, includeExtended))
	}
	return strings.Join(lines, "\n")
}

// renderKeywordLine composes the present fields in fixed order. Difficulty
// and SERP features only appear when extended data was requested, even if
// the upstream response carries them anyway.
func renderKeywordLine(rec keywordRecord, includeExtended bool) string {
	segments := []string{fmt.Sprintf("Klíčové slovo: %s", strOrNA(rec.Keyword))}

	if rec.SearchVolume != nil {
		segments = append(segments, fmt.Sprintf("Hledanost: %s", rec.SearchVolume.String()))
	}
	if !rec.CPC.empty() {
		segments = append(segments, rec.CPC.render())
	}
	if includeExtended && rec.Difficulty != nil {
		segments = append(segments, fmt.Sprintf("Obtížnost: %s", rec.Difficulty.String()))
	}
	if includeExtended && len(rec.SERPFeatures) > 0 {
		segments = append(segments, fmt.Sprintf("SERP features: %s", strings.Join(rec.SERPFeatures, ", ")))
	}

	return strings.Join(segments, " | ")
}

// formatSearchVolume renders the first element of the data list as a
// multi-line summary. The upstream returns a single-element list for this
// query shape; extra elements are ignored.
func formatSearchVolume(data json.RawMessage) string {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil || len(entries) == 0 {
		return msgNoVolumeData
	}

	var rec volumeRecord
	if err := json.Unmarshal(entries[0], &rec); err != nil {
		return msgUnexpectedFormat
	}

	lines := []string{
		fmt.Sprintf("Klíčové slovo: %s", strOrNA(rec.Keyword)),
		fmt.Sprintf("Hledanost: %s", numOrNA(rec.SearchVolume)),
	}
	if !rec.CPC.empty() {
		lines = append(lines, rec.CPC.render())
	}
	if rec.YoYChange != nil {
		// Upstream sends a fraction, not a percentage.
		lines = append(lines, fmt.Sprintf("Meziroční změna: %.2f%%", *rec.YoYChange*100))
	}
	if rec.PeakMonth != nil && *rec.PeakMonth != "" {
		lines = append(lines, fmt.Sprintf("Nejsilnější měsíc: %s", *rec.PeakMonth))
	}
	if months := monthlyEntries(rec.MonthlySV); len(months) > 0 {
		lines = append(lines, "Měsíční hledanost:")
		for _, e := range months {
			lines = append(lines, fmt.Sprintf("  - Měsíc %s: %s", e.label, e.volume))
		}
	}

	return strings.Join(lines, "\n")
}

type monthEntry struct {
	label  string
	volume string
}

// monthlyEntries decodes the monthly_sv object preserving document order,
// which an encoding/json map would lose.
func monthlyEntries(raw json.RawMessage) []monthEntry {
	if len(raw) == 0 {
		return nil
	}
	d := jx.DecodeBytes(raw)
	if d.Next() != jx.Object {
		return nil
	}

	var entries []monthEntry
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		v, err := d.Raw()
		if err != nil {
			return err
		}
		entries = append(entries, monthEntry{
			label:  string(key),
			volume: strings.Trim(v.String(), `"`),
		})
		return nil
	}); err != nil {
		return nil
	}
	return entries
}

func strOrNA(s *string) string {
	if s == nil {
		return "N/A"
	}
	return *s
}

func numOrNA(n *json.Number) string {
	if n == nil {
		return "N/A"
	}
	return n.String()
}
