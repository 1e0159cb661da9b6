package variables

import (
	"math/rand/v2"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jaswdr/faker/v2"
)

// fakers bundles the random sources. gofakeit has no gendered names, so
// those come from the faker person generator.
type fakers struct {
	fake   *gofakeit.Faker
	person faker.Person
}

func newFakers(seed uint64) *fakers {
	f := faker.New()
	if seed != 0 {
		f = faker.NewWithSeed(rand.NewPCG(seed, seed))
	}
	return &fakers{fake: gofakeit.New(seed), person: f.Person()}
}

type generator func(f *fakers) string

// fake adapts a gofakeit method to a generator.
func fake(fn func(*gofakeit.Faker) string) generator {
	return func(f *fakers) string { return fn(f.fake) }
}

// randomKeys maps the random-content variable keys to their generators.
// Every call produces a fresh value.
var randomKeys = map[string]generator{
	"random_first_name":        fake((*gofakeit.Faker).FirstName),
	"random_first_name_male":   func(f *fakers) string { return f.person.FirstNameMale() },
	"random_first_name_female": func(f *fakers) string { return f.person.FirstNameFemale() },
	"random_last_name":         fake((*gofakeit.Faker).LastName),
	"random_name":              fake((*gofakeit.Faker).Name),
	"random_name_male":         func(f *fakers) string { return f.person.NameMale() },
	"random_name_female":       func(f *fakers) string { return f.person.NameFemale() },
	"random_email":             fake((*gofakeit.Faker).Email),
	"random_email_local_part": func(f *fakers) string {
		local, _, _ := strings.Cut(f.fake.Email(), "@")
		return local
	},
	"random_city":               fake((*gofakeit.Faker).City),
	"random_country":            fake((*gofakeit.Faker).Country),
	"random_phone":              fake((*gofakeit.Faker).Phone),
	"random_state_abbreviation": fake((*gofakeit.Faker).StateAbr),
	"random_state":              fake((*gofakeit.Faker).State),
	"random_zip_code":           fake((*gofakeit.Faker).Zip),
	"random_word":               fake((*gofakeit.Faker).Word),
	"random_text": func(f *fakers) string {
		return f.fake.LoremIpsumSentence(f.fake.IntRange(1, 20))
	},
	"random_paragraph": func(f *fakers) string {
		return f.fake.LoremIpsumParagraph(f.fake.IntRange(1, 20), f.fake.IntRange(1, 5), 12, "\n")
	},
}
