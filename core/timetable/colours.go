package timetable

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// ColourRule colours a class whose description contains Key.
type ColourRule struct {
	Key    string
	Colour string
}

// ParseColourRules parses the colours setting, a JSON object body without braces
// (`"math":"#547384","science":"#8A439C",`), keeping the configured order.
// Rules with an empty key are skipped.
func ParseColourRules(setting string) ([]ColourRule, error) {
	body := strings.TrimRight(strings.TrimSpace(setting), ",")
	if body == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader("{" + body + "}"))
	if _, err := dec.Token(); err != nil { // {
		return nil, errors.Wrap(err, "reading colour rules")
	}

	var rules []ColourRule
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "reading colour rule key")
		}
		var colour string
		if err := dec.Decode(&colour); err != nil {
			return nil, errors.Wrapf(err, "reading colour for %q", keyTok)
		}
		key := strings.TrimSpace(keyTok.(string))
		if key == "" {
			continue
		}
		rules = append(rules, ColourRule{Key: key, Colour: strings.TrimSpace(colour)})
	}

	if _, err := dec.Token(); err != nil { // }
		return nil, errors.Wrap(err, "reading colour rules")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after colour rules")
	}
	return rules, nil
}

// matchColour returns the colour of the first rule whose key is found
// (case-insensitively) in desc.
func matchColour(rules []ColourRule, desc string) string {
	desc = strings.ToLower(desc)
	for _, r := range rules {
		if strings.Contains(desc, strings.ToLower(r.Key)) {
			return r.Colour
		}
	}
	return ""
}
