package tokenlist

import (
	"strings"
)

// Coalesce merges a manually supplied record into a discovered one, field by field. A field of manual
// wins only when it is set: non-empty strings, non-zero chain id and decimals. Extensions are merged
// key by key with manual keys winning.
func Coalesce(discovered, manual TokenRecord) TokenRecord {
	out := discovered.Clone()

	if manual.ChainID != 0 {
		out.ChainID = manual.ChainID
	}
	if s := strings.TrimSpace(manual.Address); s != "" {
		out.Address = s
	}
	if s := strings.TrimSpace(manual.Name); s != "" {
		out.Name = s
	}
	if s := strings.TrimSpace(manual.Symbol); s != "" {
		out.Symbol = s
	}
	if manual.Decimals != 0 {
		out.Decimals = manual.Decimals
	}
	if s := strings.TrimSpace(manual.LogoURI); s != "" {
		out.LogoURI = s
	}
	if len(manual.Extensions) > 0 {
		if out.Extensions == nil {
			out.Extensions = make(map[string]any, len(manual.Extensions))
		}
		for k, v := range manual.Extensions {
			out.Extensions[k] = v
		}
	}

	return out
}

// MergeBySymbol combines discovered tokens with manually supplied ones, matching on the case-insensitive
// symbol. A manual record that matches is coalesced onto the first discovered record with that symbol,
// keeping the discovered spelling of the symbol. Only discovered symbols are matched: manual records
// without a discovered counterpart are appended in their given order, even when they share a symbol.
// The returned slice holds the discovered tokens first, in their original order.
func MergeBySymbol(discovered, manual []TokenRecord) []TokenRecord {
	out := make([]TokenRecord, 0, len(discovered)+len(manual))
	bySymbol := make(map[string]int, len(discovered))

	for _, t := range discovered {
		sym := symbolKey(t.Symbol)
		if _, ok := bySymbol[sym]; !ok && sym != "" {
			bySymbol[sym] = len(out)
		}
		out = append(out, t.Clone())
	}

	for _, m := range manual {
		if idx, ok := bySymbol[symbolKey(m.Symbol)]; ok {
			symbol := out[idx].Symbol
			out[idx] = Coalesce(out[idx], m)
			out[idx].Symbol = symbol
			continue
		}
		out = append(out, m.Clone())
	}

	return out
}

func symbolKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Dedupe keeps the first record for every (chain id, address) pair and returns the dropped ones.
func Dedupe(tokens []TokenRecord) (kept, dropped []TokenRecord) {
	seen := make(map[string]struct{}, len(tokens))
	kept = make([]TokenRecord, 0, len(tokens))
	for _, t := range tokens {
		key := t.Key()
		if _, ok := seen[key]; ok {
			dropped = append(dropped, t)
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, t)
	}
	return kept, dropped
}

// MergeByAddress keeps every record of current and adds the records of added whose address is not
// present yet.
func MergeByAddress(current, added []TokenRecord) []TokenRecord {
	merged := make([]TokenRecord, 0, len(current)+len(added))
	merged = append(merged, current...)
	merged = append(merged, added...)
	out, _ := Dedupe(merged)
	return out
}
