// Package vcardimport turns vCard address book exports into person details.
// Only cards with a name, a full birthday and a GENDER of M or F are usable.
package vcardimport

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-vcard"

	lifespan "lifeclock/internal/lifespan/models"
	"lifeclock/internal/person/models"
	dErrors "lifeclock/pkg/domain-errors"
)

// MaxCards bounds a single import.
const MaxCards = 200

// Result holds the usable cards in file order and how many were skipped.
type Result struct {
	Details []models.Details
	Skipped int
}

// Parse decodes every card in r. Cards that cannot become a person are
// counted in Skipped; malformed vCard syntax fails the whole import.
func Parse(r io.Reader, today time.Time) (Result, error) {
	dec := vcard.NewDecoder(r)
	var res Result
	for n := 0; ; n++ {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid vCard data")
		}
		if n >= MaxCards {
			return Result{}, dErrors.New(dErrors.CodeBadRequest, "too many vCards in one import")
		}
		d, ok := toDetails(card, today)
		if !ok {
			res.Skipped++
			continue
		}
		res.Details = append(res.Details, d)
	}
	if len(res.Details) == 0 && res.Skipped == 0 {
		return Result{}, dErrors.New(dErrors.CodeBadRequest, "no vCards found")
	}
	return res, nil
}

func toDetails(card vcard.Card, today time.Time) (models.Details, bool) {
	name := models.NormalizeName(displayName(card))
	if models.ValidateName(name) != nil {
		return models.Details{}, false
	}

	sex, ok := sexOf(card)
	if !ok {
		return models.Details{}, false
	}

	birth, ok := parseBirthday(card.Value(vcard.FieldBirthday))
	if !ok || birth.After(today.UTC()) {
		return models.Details{}, false
	}
	return models.Details{Name: name, Sex: sex, BirthDate: birth}, true
}

func displayName(card vcard.Card) string {
	if fn := card.PreferredValue(vcard.FieldFormattedName); strings.TrimSpace(fn) != "" {
		return fn
	}
	if n := card.Name(); n != nil {
		return strings.TrimSpace(n.GivenName + " " + n.FamilyName)
	}
	return ""
}

func sexOf(card vcard.Card) (lifespan.Sex, bool) {
	sex, _ := card.Gender()
	switch sex {
	case vcard.SexMale:
		return lifespan.SexMale, true
	case vcard.SexFemale:
		return lifespan.SexFemale, true
	default:
		return "", false
	}
}

// parseBirthday accepts the basic (19900401) and extended (1990-04-01) date
// forms, optionally followed by a time part. Year-less dates are rejected.
func parseBirthday(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	if date, _, found := strings.Cut(v, "T"); found {
		v = date
	}
	for _, layout := range []string{"20060102", "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
