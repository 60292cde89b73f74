package mapping

import (
	"strings"

	"privasee/internal/domain"
	"privasee/internal/mapping/gender"
)

// rule pairs a category predicate with a value generator. The table is
// evaluated in order, first match wins; predicates receive the lowercased
// category name.
type rule struct {
	match    func(category string) bool
	generate func(g *Generator, category, originalText string) string
}

func containsAny(subs ...string) func(string) bool {
	return func(category string) bool {
		for _, s := range subs {
			if strings.Contains(category, s) {
				return true
			}
		}
		return false
	}
}

var fakeDataRules = []rule{
	{containsAny("name"), generateName},
	{containsAny("email", "e-mail"), func(g *Generator, _, _ string) string {
		return g.faker.Email()
	}},
	{containsAny("phone", "telephone", "mobile"), func(g *Generator, _, _ string) string {
		return g.faker.PhoneFormatted()
	}},
	{containsAny("address"), generateAddress},
	{containsAny("ssn", "social security"), func(g *Generator, _, _ string) string {
		return g.faker.SSN()
	}},
	{containsAny("date", "dob", "birth", "birthday"), func(g *Generator, _, original string) string {
		return g.sameYearDate(original)
	}},
	{containsAny("company", "organization", "employer"), func(g *Generator, _, _ string) string {
		return g.faker.Company()
	}},
	{containsAny("job", "title", "position"), func(g *Generator, _, _ string) string {
		return g.faker.JobTitle()
	}},
	{containsAny("credit", "card"), func(g *Generator, _, _ string) string {
		return g.faker.CreditCardNumber(nil)
	}},
	{containsAny("account", "bank"), func(g *Generator, _, _ string) string {
		return g.faker.AchAccount()
	}},
	{containsAny("license", "licence"), func(g *Generator, _, _ string) string {
		return strings.ToUpper(g.faker.Lexify("???")) + g.faker.Numerify("####")
	}},
	{containsAny("url", "website"), func(g *Generator, _, _ string) string {
		return g.faker.URL()
	}},
	{containsAny("ip"), func(g *Generator, _, _ string) string {
		return g.faker.IPv4Address()
	}},
	{containsAny("username", "user"), func(g *Generator, _, _ string) string {
		return g.faker.Username()
	}},
}

// generateName keeps the inferred gender of the original where the
// capability is conclusive, and branches on which name part the category
// asks for.
func generateName(g *Generator, category, originalText string) string {
	detected := g.gender.Classify(originalText)

	switch {
	case strings.Contains(category, "last"),
		strings.Contains(category, "surname"),
		strings.Contains(category, "family"):
		return g.faker.LastName()
	case strings.Contains(category, "first"),
		strings.Contains(category, "given"),
		strings.Contains(category, "middle"):
		return g.firstName(detected)
	default:
		return g.firstName(detected) + " " + g.faker.LastName()
	}
}

func (g *Generator) firstName(detected domain.Gender) string {
	if name, ok := gender.RandomFirstName(detected, g.rand); ok {
		return name
	}
	return g.faker.FirstName()
}

func generateAddress(g *Generator, category, _ string) string {
	switch {
	case strings.Contains(category, "street"):
		return g.faker.Street()
	case strings.Contains(category, "city"):
		return g.faker.City()
	case strings.Contains(category, "state"):
		return g.faker.State()
	case strings.Contains(category, "zip"), strings.Contains(category, "postal"):
		return g.faker.Zip()
	default:
		addr := g.faker.Address()
		return strings.ReplaceAll(addr.Address, "\n", ", ")
	}
}
