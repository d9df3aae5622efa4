package classify

import "github.com/firmscout/firmscout/internal/types"

// Classify runs every matcher in the given set over the recovered strings and
// returns the category -> hits mapping. Each category's hit list is
// deduplicated by exact value in first-seen order; categories with no hits
// are omitted entirely. Categories are not mutually exclusive: one string may
// land in several.
func Classify(strings []types.RecoveredString, set Set) types.Classification {
	matchers := ForSet(set)
	out := types.Classification{}
	seen := make(map[string]map[string]bool, len(matchers))
	for _, rs := range strings {
		for _, m := range matchers {
			hits := m.Apply(rs.Value)
			if len(hits) == 0 {
				continue
			}
			dedup := seen[m.ID]
			if dedup == nil {
				dedup = map[string]bool{}
				seen[m.ID] = dedup
			}
			for _, h := range hits {
				if h == "" || dedup[h] {
					continue
				}
				dedup[h] = true
				out[m.ID] = append(out[m.ID], h)
			}
		}
	}
	return out
}

// ClassifyValues is Classify for plain strings, used where the source
// encoding is uniform and irrelevant (recon mode scans ASCII only).
func ClassifyValues(values []string, set Set) types.Classification {
	rs := make([]types.RecoveredString, len(values))
	for i, v := range values {
		rs[i] = types.RecoveredString{Value: v, Encoding: types.EncASCII}
	}
	return Classify(rs, set)
}
