package engine

// Profile is the typed view of a user the scoring engine works on.
// Repositories build it from the store with interest/skill names
// already resolved; the engine never touches the database.
//
// Age, City and Bio are optional. A nil field zeroes that factor's
// contribution instead of penalizing the pair.
type Profile struct {
	UserID         uint64
	FirstName      string
	LastName       string
	Age            *int
	City           *string
	Bio            *string
	ProfilePicture *string
	Interests      []string // original casing, set semantics
	Skills         []string // original casing, set semantics
	Complete       bool
}

// foldSet lower-cases names into a set for case-insensitive matching.
func foldSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[lower(n)] = struct{}{}
	}
	return set
}

// commonNames returns the names of b that also appear in a, keeping
// b's original casing for display.
func commonNames(a, b []string) []string {
	in := foldSet(a)
	var out []string
	seen := make(map[string]struct{})
	for _, n := range b {
		key := lower(n)
		if _, ok := in[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
