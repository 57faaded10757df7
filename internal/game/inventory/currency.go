package inventory

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatSovereigns renders a sovereign balance with digit grouping,
// e.g. "1,250 Sovereigns".
func FormatSovereigns(n int) string {
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), plural(n, "Sovereign"))
}

// FormatShards renders a soul shard balance, e.g. "1 Soul Shard".
func FormatShards(n int) string {
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), plural(n, "Soul Shard"))
}

// FormatCost renders a two-currency price, omitting a zero shard component.
func FormatCost(sovereigns, shards int) string {
	if shards == 0 {
		return FormatSovereigns(sovereigns)
	}
	return FormatSovereigns(sovereigns) + " + " + FormatShards(shards)
}

// plural returns the singular form if n == 1, otherwise appends "s".
func plural(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}
