package handler

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/lucasjones/reggen"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

// DateLayout is how date inputs are typed into the page (DDMMYYYY).
const DateLayout = "02012006"

// regexpLimit bounds repetition operators when generating from a pattern.
const regexpLimit = 10

// Older scenarios name faker generators with dotted category paths.
var fakerAliases = map[string]string{
	"name.firstName":        "firstname",
	"name.lastName":         "lastname",
	"name.findName":         "name",
	"internet.email":        "email",
	"internet.userName":     "username",
	"internet.url":          "url",
	"internet.password":     "password",
	"phone.phoneNumber":     "phone",
	"address.city":          "city",
	"address.zipCode":       "zip",
	"address.streetAddress": "street",
	"address.country":       "country",
	"company.companyName":   "company",
	"lorem.word":            "word",
	"lorem.sentence":        "sentence",
	"random.number":         "number:1,1000",
	"date.past":             "date",
}

// Resolver produces the values typed or picked by input and select handlers.
// Values are random by design so repeated iterations exercise varied input;
// seed it for reproducible runs.
type Resolver struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	faker *gofakeit.Faker
}

// NewResolver creates a resolver. A zero seed draws one from the clock.
func NewResolver(seed int64) *Resolver {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Resolver{
		rnd:   rand.New(rand.NewSource(seed)),
		faker: gofakeit.New(seed),
	}
}

// Input resolves the text for an input action: the literal, faker or date
// value when set, otherwise a string matching the constraining pattern.
func (r *Resolver) Input(in *scenario.Input) (string, error) {
	if in == nil {
		return "", unknownInput("input payload is missing")
	}
	if in.Value != nil {
		switch in.Value.Source {
		case scenario.ValueLiteral, "":
			return in.Value.Text, nil
		case scenario.ValueFaker:
			return r.Fake(in.Value.Text)
		case scenario.ValueDate:
			return FormatDate(in.Value.Text)
		default:
			return "", unknownInput(fmt.Sprintf("unsupported value source %q", in.Value.Source))
		}
	}
	if in.Constrains != nil && in.Constrains.Regexp != "" {
		return r.Matching(in.Constrains.Regexp)
	}
	return "", unknownInput(fmt.Sprintf("input %s has neither value nor constrains.regexp", in.Selector))
}

// Fake runs the named gofakeit generator.
func (r *Resolver) Fake(generator string) (string, error) {
	name := strings.TrimSpace(generator)
	if alias, ok := fakerAliases[name]; ok {
		name = alias
	}
	if name == "" {
		return "", unknownInput("faker generator name is empty")
	}
	pattern := "{" + strings.ToLower(name) + "}"

	r.mu.Lock()
	out := r.faker.Generate(pattern)
	r.mu.Unlock()

	if out == pattern {
		return "", unknownInput(fmt.Sprintf("unknown faker generator %q", generator))
	}
	return out, nil
}

// Matching generates a random string matching pattern.
func (r *Resolver) Matching(pattern string) (string, error) {
	gen, err := reggen.NewGenerator(pattern)
	if err != nil {
		return "", unknownInput(fmt.Sprintf("invalid regexp %q: %v", pattern, err))
	}
	r.mu.Lock()
	gen.SetSeed(r.rnd.Int63())
	r.mu.Unlock()
	return gen.Generate(regexpLimit), nil
}

// Pick returns one of values chosen uniformly at random.
func (r *Resolver) Pick(values []string) (string, bool) {
	if len(values) == 0 {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return values[r.rnd.Intn(len(values))], true
}

// FormatDate converts an ISO date or timestamp into DateLayout.
func FormatDate(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", unknownInput(fmt.Sprintf("date %q is not ISO 8601", value))
}

func unknownInput(msg string) error {
	return &scenario.DomainError{Code: scenario.ErrCodeUnknownInput, Message: msg}
}
