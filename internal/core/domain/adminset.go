package domain

// AdminSet is the configured collection of privileged addresses that always
// resolve to admin access regardless of datastore state. Membership checks are
// exact-string: no case folding or whitespace trimming is applied, matching the
// rest of the email handling in this service (known limitation, kept
// deliberately so the policy has a single, predictable comparison rule).
type AdminSet struct {
	emails map[string]struct{}
}

// NewAdminSet builds an AdminSet from the given addresses, skipping empties.
func NewAdminSet(emails ...string) AdminSet {
	set := AdminSet{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if e == "" {
			continue
		}
		set.emails[e] = struct{}{}
	}
	return set
}

// Contains reports whether email is in the privileged set.
func (s AdminSet) Contains(email string) bool {
	_, ok := s.emails[email]
	return ok
}

// Emails returns the members of the set. Order is not defined.
func (s AdminSet) Emails() []string {
	out := make([]string, 0, len(s.emails))
	for e := range s.emails {
		out = append(out, e)
	}
	return out
}
