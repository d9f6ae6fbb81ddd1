package portscan

// Aggregate applies the reporting policy to sealed records. With
// showAll false only open ports survive; an address with nothing open
// keeps its record with an empty port list, so callers still see the
// host was scanned. Record order is preserved and the inputs are
// never mutated.
func Aggregate(records []ScanRecord, showAll bool) []ScanRecord {
	if showAll {
		return records
	}

	out := make([]ScanRecord, 0, len(records))
	for _, r := range records {
		filtered := ScanRecord{
			Address:  r.Address,
			Hostname: r.Hostname,
		}
		for _, p := range r.Ports {
			if p.State == PortStateOpen {
				filtered.Ports = append(filtered.Ports, p)
			}
		}
		out = append(out, filtered)
	}
	return out
}

// CountOpen tallies open ports across records.
func CountOpen(records []ScanRecord) int {
	n := 0
	for _, r := range records {
		for _, p := range r.Ports {
			if p.State == PortStateOpen {
				n++
			}
		}
	}
	return n
}
