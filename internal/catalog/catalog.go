// Package catalog defines the card library that rangers are built from.
// The library ships embedded as TOML and can be replaced by a file.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/BurntSushi/toml"

	"rangers/internal/deck"
	"rangers/internal/models"
)

//go:embed cards.toml
var embedded string

type CardDef struct {
	Name   string   `toml:"name"`
	Type   string   `toml:"type"`
	Set    string   `toml:"set"`
	Aspect string   `toml:"aspect"`
	Cost   *int     `toml:"cost"`
	Tags   []string `toml:"tags"`
	Expert bool     `toml:"expert"`
}

type Catalog struct {
	Cards []CardDef `toml:"card"`
}

// Default returns the embedded card library.
func Default() (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(embedded, &c); err != nil {
		return nil, fmt.Errorf("error parsing embedded catalog: %w", err)
	}
	return &c, nil
}

// Load reads a catalog from path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	var c Catalog
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	return &c, nil
}

// Models converts the definitions to catalog cards without ids.
func (c *Catalog) Models() []models.Card {
	cards := make([]models.Card, 0, len(c.Cards))
	for _, d := range c.Cards {
		tags := d.Tags
		if tags == nil {
			tags = []string{}
		}
		cards = append(cards, models.Card{
			Name:      d.Name,
			CardType:  models.CardType(d.Type),
			SourceSet: d.Set,
			Aspect:    d.Aspect,
			Cost:      d.Cost,
			Tags:      tags,
			IsExpert:  d.Expert,
		})
	}
	return cards
}

// Filter returns the definitions matching cardType and set. Empty values
// match everything.
func (c *Catalog) Filter(cardType, set string) []CardDef {
	var out []CardDef
	for _, d := range c.Cards {
		if cardType != "" && d.Type != cardType {
			continue
		}
		if set != "" && d.Set != set {
			continue
		}
		out = append(out, d)
	}
	return out
}

type CheckResults struct {
	Errors   []string
	Warnings []string
}

func (r *CheckResults) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *CheckResults) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Check verifies that every ranger choice the builder offers can be
// satisfied by the library.
func (c *Catalog) Check() CheckResults {
	var r CheckResults

	validSets := map[string][]string{
		string(models.CardTypePersonality): deck.Aspects,
		string(models.CardTypeBackground):  deck.Backgrounds,
		string(models.CardTypeSpecialty):   deck.Specialties,
		string(models.CardTypeRole):        deck.Specialties,
	}

	names := make(map[string]bool)
	for i, d := range c.Cards {
		if d.Name == "" {
			r.errorf("card #%d has no name", i+1)
			continue
		}
		if names[d.Name] {
			r.errorf("duplicate card name '%s'", d.Name)
		}
		names[d.Name] = true

		sets, ok := validSets[d.Type]
		if !ok {
			r.errorf("'%s' has unknown type '%s'", d.Name, d.Type)
			continue
		}
		if !containsString(sets, d.Set) {
			r.errorf("'%s' has set '%s', not valid for %s cards", d.Name, d.Set, d.Type)
		}

		if d.Type == string(models.CardTypeRole) {
			if d.Expert {
				r.warnf("role card '%s' is marked expert", d.Name)
			}
			continue
		}
		if d.Aspect == "" {
			r.warnf("'%s' has no aspect", d.Name)
		} else if !containsString(deck.Aspects, d.Aspect) {
			r.errorf("'%s' has unknown aspect '%s'", d.Name, d.Aspect)
		}
		if d.Cost != nil && (*d.Cost < 0 || *d.Cost > 3) {
			r.warnf("'%s' has unusual cost %d", d.Name, *d.Cost)
		}
	}

	for _, aspect := range deck.Aspects {
		if len(c.Filter(string(models.CardTypePersonality), aspect)) == 0 {
			r.errorf("no personality card for aspect %s", aspect)
		}
	}
	for _, set := range deck.Backgrounds {
		if n := len(c.Filter(string(models.CardTypeBackground), set)); n < 5 {
			r.errorf("background set %s has %d cards, need at least 5", set, n)
		}
	}
	for _, set := range deck.Specialties {
		if n := len(c.Filter(string(models.CardTypeSpecialty), set)); n < 5 {
			r.errorf("specialty set %s has %d cards, need at least 5", set, n)
		}
		if len(c.Filter(string(models.CardTypeRole), set)) == 0 {
			r.errorf("specialty set %s has no role card", set)
		}
	}

	return r
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
