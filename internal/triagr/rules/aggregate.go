package rules

// IPDiversity maps user_id to the count of distinct client address values
// seen across one whole batch. The N/A sentinel counts as a value, the
// same way the address column would tally in a spreadsheet pivot.
type IPDiversity map[string]int

// BuildIPDiversity runs the batch-level aggregate pass. The compromise
// rule needs the full batch before any single event can be judged.
func BuildIPDiversity(events []Event) IPDiversity {
	seen := make(map[string]map[string]struct{})
	for _, evt := range events {
		user := eventString(evt, "user_id")
		ip := eventString(evt, "client_ip")
		if user == "" || ip == "" {
			continue
		}
		if seen[user] == nil {
			seen[user] = make(map[string]struct{})
		}
		seen[user][ip] = struct{}{}
	}
	diversity := make(IPDiversity, len(seen))
	for user, ips := range seen {
		diversity[user] = len(ips)
	}
	return diversity
}
