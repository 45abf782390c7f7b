package loyalty

// MaxActivity is the number of activity entries the document retains.
const MaxActivity = 200

// RecentActivityDisplay is how many entries the admin view shows.
const RecentActivityDisplay = 8

// AppendActivity prepends a new entry stamped with a fresh id and the current
// time, then drops anything past MaxActivity.
func AppendActivity(doc *Document, env Env, typ ActivityType, who string, meta map[string]any) ActivityEntry {
	entry := ActivityEntry{
		ID:   env.IDs.Generate(),
		TS:   env.nowMillis(),
		Type: typ,
		Who:  who,
		Meta: meta,
	}

	next := append([]ActivityEntry{entry}, doc.Activity...)
	if len(next) > MaxActivity {
		next = next[:MaxActivity]
	}
	doc.Activity = next

	return entry
}

// RecentActivity returns up to n of the newest entries.
// A non-positive n returns everything retained.
func RecentActivity(doc *Document, n int) []ActivityEntry {
	if n <= 0 || n > len(doc.Activity) {
		n = len(doc.Activity)
	}
	out := make([]ActivityEntry, n)
	copy(out, doc.Activity[:n])
	return out
}
