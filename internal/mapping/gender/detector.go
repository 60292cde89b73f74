// Package gender provides the best-effort name-gender inference capability
// used by the fake-data generator. The zero-value Neutral detector is a
// valid implementation that never infers anything.
package gender

import (
	"math/rand"
	"strings"

	"privasee/internal/domain"
	"privasee/internal/port"
)

// Neutral is a GenderDetector that always answers unknown. It is the
// default when no inference capability is configured.
type Neutral struct{}

// Classify implements port.GenderDetector.
func (Neutral) Classify(string) domain.Gender { return domain.GenderUnknown }

// Table classifies names against an embedded table of common given names.
type Table struct {
	names map[string]domain.Gender
}

// New builds the table-backed detector.
func New() *Table {
	t := &Table{names: make(map[string]domain.Gender, len(maleNames)+len(femaleNames))}
	for _, n := range maleNames {
		t.names[n] = domain.GenderMale
	}
	for _, n := range femaleNames {
		// Ambiguous names stay unknown rather than flip-flopping
		if _, dup := t.names[n]; dup {
			t.names[n] = domain.GenderUnknown
			continue
		}
		t.names[n] = domain.GenderFemale
	}
	return t
}

// Classify infers a gender from the first token of name. Inconclusive
// lookups return GenderUnknown.
func (t *Table) Classify(name string) domain.Gender {
	first := firstToken(name)
	if first == "" {
		return domain.GenderUnknown
	}
	if g, ok := t.names[first]; ok {
		return g
	}
	return domain.GenderUnknown
}

// RandomFirstName picks a first name matching g from the embedded table.
// The second return is false when g is unknown.
func RandomFirstName(g domain.Gender, r *rand.Rand) (string, bool) {
	var pool []string
	switch g {
	case domain.GenderMale:
		pool = maleNames
	case domain.GenderFemale:
		pool = femaleNames
	default:
		return "", false
	}
	n := pool[r.Intn(len(pool))]
	return strings.ToUpper(n[:1]) + n[1:], true
}

func firstToken(name string) string {
	fields := strings.Fields(strings.TrimSpace(name))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

var _ port.GenderDetector = Neutral{}
var _ port.GenderDetector = (*Table)(nil)

var maleNames = []string{
	"james", "john", "robert", "michael", "william", "david", "richard",
	"joseph", "thomas", "charles", "christopher", "daniel", "matthew",
	"anthony", "mark", "donald", "steven", "paul", "andrew", "joshua",
	"kenneth", "kevin", "brian", "george", "edward", "ronald", "timothy",
	"jason", "jeffrey", "ryan", "jacob", "gary", "nicholas", "eric",
	"jonathan", "stephen", "larry", "justin", "scott", "brandon", "benjamin",
	"samuel", "gregory", "frank", "alexander", "raymond", "patrick", "jack",
	"dennis", "jerry", "tyler", "aaron", "jose", "adam", "henry", "nathan",
	"douglas", "zachary", "peter", "kyle", "walter", "ethan", "jeremy",
	"harold", "keith", "christian", "roger", "noah", "gerald", "carl",
	"terry", "sean", "austin", "arthur", "lawrence", "jesse", "dylan",
	"bryan", "joe", "jordan", "billy", "bruce", "albert", "willie", "gabriel",
	"logan", "alan", "juan", "wayne", "roy", "ralph", "randy", "eugene",
	"vincent", "russell", "elijah", "louis", "bobby", "philip", "jon",
}

var femaleNames = []string{
	"mary", "patricia", "jennifer", "linda", "elizabeth", "barbara", "susan",
	"jessica", "sarah", "karen", "nancy", "lisa", "betty", "margaret",
	"sandra", "ashley", "kimberly", "emily", "donna", "michelle", "dorothy",
	"carol", "amanda", "melissa", "deborah", "stephanie", "rebecca", "sharon",
	"laura", "cynthia", "kathleen", "amy", "shirley", "angela", "helen",
	"anna", "brenda", "pamela", "nicole", "emma", "samantha", "katherine",
	"christine", "debra", "rachel", "catherine", "carolyn", "janet", "ruth",
	"maria", "heather", "diane", "virginia", "julie", "joyce", "victoria",
	"olivia", "kelly", "christina", "lauren", "joan", "evelyn", "judith",
	"megan", "cheryl", "andrea", "hannah", "martha", "jacqueline", "frances",
	"gloria", "ann", "teresa", "kathryn", "sara", "janice", "jean", "alice",
	"madison", "doris", "abigail", "julia", "judy", "grace", "denise",
	"amber", "marilyn", "beverly", "danielle", "theresa", "sophia", "marie",
	"diana", "brittany", "natalie", "isabella", "charlotte", "rose", "alexis",
}
