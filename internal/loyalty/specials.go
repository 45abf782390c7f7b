package loyalty

import (
	"time"
)

// MaxSpecials is the number of specials the document retains.
const MaxSpecials = 20

// DateKeyLayout is the canonical calendar-day format used to schedule specials.
const DateKeyLayout = "2006-01-02"

// DateKey returns the date-key of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// SpecialInput is the admin form for a new special.
type SpecialInput struct {
	Title string `json:"title" yaml:"title" validate:"required"`
	Price string `json:"price" yaml:"price"`
	Desc  string `json:"desc" yaml:"desc"`
	Day   string `json:"day" yaml:"day"`
}

// AddSpecial prepends a special and keeps only the newest MaxSpecials.
//
// A blank title is a validation error. A blank day means today. A day that is
// not a YYYY-MM-DD date-key is a validation error. Older entries past the
// limit are dropped without archival.
func AddSpecial(doc *Document, env Env, in SpecialInput) (Special, error) {
	in.Title = normalizeText(in.Title)
	if err := validateStruct(in); err != nil {
		return Special{}, err
	}

	day := in.Day
	if day == "" {
		day = DateKey(env.Clock.Now())
	} else if _, err := time.Parse(DateKeyLayout, day); err != nil {
		return Special{}, NewValidationError("day", "day must be a date in YYYY-MM-DD form")
	}

	sp := Special{
		ID:    env.IDs.Generate(),
		Title: in.Title,
		Price: normalizeText(in.Price),
		Desc:  normalizeText(in.Desc),
		Day:   day,
	}

	next := append([]Special{sp}, doc.Specials...)
	if len(next) > MaxSpecials {
		next = next[:MaxSpecials]
	}
	doc.Specials = next

	return sp, nil
}

// SpecialsForDay returns the specials scheduled on key, in stored order.
// Matching is exact string equality on the date-key.
func SpecialsForDay(doc *Document, key string) []Special {
	out := []Special{}
	for _, sp := range doc.Specials {
		if sp.Day == key {
			out = append(out, sp)
		}
	}
	return out
}

// ListToday returns the specials scheduled on the date-key of now.
func ListToday(doc *Document, now time.Time) []Special {
	return SpecialsForDay(doc, DateKey(now))
}
