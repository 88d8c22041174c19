package dialect

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tuannm99/novaddl/internal/logicalplan"
)

type profileFile struct {
	Profiles []profileSpec `yaml:"profiles"`
}

type profileSpec struct {
	Name     string            `yaml:"name"`
	Base     string            `yaml:"base"`
	Quote    string            `yaml:"quote"`
	Features []string          `yaml:"features"`
	Types    map[string]string `yaml:"types"`
}

// LoadProfiles reads extra profiles from YAML and adds them to c:
//
//	profiles:
//	  - name: duckdb
//	    base: ansi
//	    quote: '"'
//	    features: [if_not_exists, if_exists]
//	    types: {int64: BIGINT, json: JSON}
//
// A profile with a base starts as a copy of it; listed features replace the
// base's features and listed types override single entries.
func (c *Catalog) LoadProfiles(r io.Reader) error {
	var pf profileFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.Wrap(err, "dialect: decode profiles")
	}

	for _, ps := range pf.Profiles {
		p, err := ps.build(c)
		if err != nil {
			return errors.Wrapf(err, "dialect: profile %q", ps.Name)
		}
		c.Add(p)
	}
	return nil
}

func (s profileSpec) build(c *Catalog) (Profile, error) {
	name := strings.ToLower(strings.TrimSpace(s.Name))
	if name == "" {
		return Profile{}, errors.New("name is required")
	}

	var p Profile
	if s.Base != "" {
		base, ok := c.Lookup(Name(s.Base))
		if !ok {
			return Profile{}, errors.Errorf("unknown base %q", s.Base)
		}
		p = base
	}
	p.Name = Name(name)

	switch utf8.RuneCountInString(s.Quote) {
	case 0:
	case 1:
		p.QuoteOpen, p.QuoteClose = s.Quote, s.Quote
	case 2:
		_, size := utf8.DecodeRuneInString(s.Quote)
		p.QuoteOpen, p.QuoteClose = s.Quote[:size], s.Quote[size:]
	default:
		return Profile{}, errors.Errorf("quote %q must be one or two characters", s.Quote)
	}

	if s.Features != nil {
		p.Features = 0
		for _, f := range s.Features {
			feat, err := ParseFeature(f)
			if err != nil {
				return Profile{}, err
			}
			p.Features |= feat
		}
	}

	for k, v := range s.Types {
		t, err := logicalplan.ParseFieldType(k)
		if err != nil {
			return Profile{}, err
		}
		p.Types[t] = v
	}
	return p, nil
}
