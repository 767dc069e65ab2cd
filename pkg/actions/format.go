package actions

import (
	"fmt"
	"strings"

	"github.com/veil-labs/veilmarket/pkg/record"
)

// filterByMaxPrice keeps listings whose public price amount does not exceed
// the cap. Price is a public attribute, so the amount arrives in plaintext.
func filterByMaxPrice(records []record.Record, maxPrice float64) []record.Record {
	out := records[:0]
	for _, rec := range records {
		price, ok := rec["price"].(map[string]interface{})
		if !ok {
			continue
		}
		amount, ok := price["amount"].(float64)
		if !ok {
			continue
		}
		if amount <= maxPrice {
			out = append(out, rec)
		}
	}
	return out
}

// formatListings renders the public attributes of each listing. Encrypted
// fields come back as share wrappers and are never rendered.
func formatListings(records []record.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d available listing(s):\n", len(records))
	for _, rec := range records {
		id, _ := rec["_id"].(string)
		category, _ := rec["category"].(string)
		fmt.Fprintf(&b, "- %s [%s]", id, category)

		if details, ok := rec["service_details"].(map[string]interface{}); ok {
			if title, ok := details["title"].(string); ok && title != "" {
				fmt.Fprintf(&b, " %s", title)
			}
			switch duration := details["duration_minutes"].(type) {
			case float64:
				fmt.Fprintf(&b, ", %.0f min", duration)
			case int:
				fmt.Fprintf(&b, ", %d min", duration)
			}
		}
		if avail, ok := rec["availability"].(map[string]interface{}); ok {
			date, _ := avail["date"].(string)
			start, _ := avail["start_time"].(string)
			if date != "" {
				fmt.Fprintf(&b, ", %s", date)
				if start != "" {
					fmt.Fprintf(&b, " %s", start)
				}
			}
		}
		if price, ok := rec["price"].(map[string]interface{}); ok {
			if amount, ok := price["amount"].(float64); ok {
				currency, _ := price["currency"].(string)
				fmt.Fprintf(&b, ", %.2f %s", amount, currency)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
