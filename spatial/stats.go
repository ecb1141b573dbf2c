package spatial

// AreaBucket counts records whose area falls in [Min, Max) m². Max 0 means unbounded.
type AreaBucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max,omitempty"`
	Count int     `json:"count"`
}

// Stats summarizes the loaded index. The voltage counts are exclusive:
// a record tagged with both classes counts only towards Both.
type Stats struct {
	TotalCount     int          `json:"totalCount"`
	TotalArea      float64      `json:"totalArea"`
	Both           int          `json:"both"`
	Mittelspannung int          `json:"mittelspannung"`
	Niederspannung int          `json:"niederspannung"`
	Untagged       int          `json:"untagged"`
	AreaBuckets    []AreaBucket `json:"areaBuckets"`
}

// Stats computes summary statistics over all records.
func (s *Store) Stats() Stats {
	return ComputeStats(s.Records())
}

// ComputeStats computes summary statistics over records. Areas are in m².
func ComputeStats(records []Record) Stats {
	st := Stats{
		TotalCount: len(records),
		AreaBuckets: []AreaBucket{
			{Label: "< 10 km²", Min: 0, Max: 10e6},
			{Label: "10-100 km²", Min: 10e6, Max: 100e6},
			{Label: "100-500 km²", Min: 100e6, Max: 500e6},
			{Label: "> 500 km²", Min: 500e6},
		},
	}

	for _, r := range records {
		st.TotalArea += r.Area

		ms, ns := r.HasTag(TagMittelspannung), r.HasTag(TagNiederspannung)
		switch {
		case ms && ns:
			st.Both++
		case ms:
			st.Mittelspannung++
		case ns:
			st.Niederspannung++
		default:
			st.Untagged++
		}

		for i := range st.AreaBuckets {
			b := &st.AreaBuckets[i]
			if r.Area >= b.Min && (b.Max == 0 || r.Area < b.Max) {
				b.Count++
				break
			}
		}
	}
	return st
}
