package locale

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// supported lists the languages with a bundled table, best match first.
var supported = []language.Tag{language.AmericanEnglish}

var tables = map[language.Tag]map[Key]string{
	language.AmericanEnglish: enUS,
}

var matcher = language.NewMatcher(supported)

func init() {
	for tag, table := range tables {
		if err := Validate(table); err != nil {
			panic(fmt.Sprintf("locale: bundled %s table is malformed: %v", tag, err))
		}
	}
}

// Catalog resolves message keys for one language.
type Catalog struct {
	tag       language.Tag
	table     map[Key]string
	overrides map[Key]string
}

// NewCatalog returns the catalog best matching the preferred language tags
// (BCP 47 strings such as "en-US" or an Accept-Language style list). Unknown
// or empty preferences fall back to en-US.
func NewCatalog(preferred ...string) *Catalog {
	_, idx := language.MatchStrings(matcher, preferred...)
	if idx < 0 || idx >= len(supported) {
		idx = 0
	}
	tag := supported[idx]
	return &Catalog{tag: tag, table: tables[tag]}
}

// Tag returns the BCP 47 tag of the resolved language.
func (c *Catalog) Tag() string {
	return c.tag.String()
}

// Override replaces the template for k. The replacement must consume the same
// number of arguments as the key declares.
func (c *Catalog) Override(k Key, template string) error {
	want := Arity(k)
	if want < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownKey, k)
	}
	if got := Placeholders(template); got != want {
		return fmt.Errorf("%w: %s takes %d argument(s), override uses %d", ErrArity, k, want, got)
	}
	if c.overrides == nil {
		c.overrides = make(map[Key]string)
	}
	c.overrides[k] = template
	return nil
}

// T formats the message for k with args. An unknown key renders as the key
// itself so a missing string is visible rather than blank.
func (c *Catalog) T(k Key, args ...any) string {
	if tmpl, ok := c.overrides[k]; ok {
		return Format(tmpl, args...)
	}
	tmpl, ok := c.table[k]
	if !ok {
		return string(k)
	}
	return Format(tmpl, args...)
}

// Has reports whether the catalog carries a template for k.
func (c *Catalog) Has(k Key) bool {
	_, ok := c.table[k]
	return ok
}

// Sentinel errors for table validation.
var (
	ErrMissingKey = errors.New("missing message key")
	ErrUnknownKey = errors.New("unknown message key")
	ErrArity      = errors.New("placeholder count mismatch")
)

// Validate checks that table defines every declared key, no undeclared keys,
// and that each template consumes exactly the declared number of arguments.
func Validate(table map[Key]string) error {
	var problems []error

	keys := make([]string, 0, len(arity))
	for k := range arity {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, name := range keys {
		k := Key(name)
		tmpl, ok := table[k]
		if !ok {
			problems = append(problems, fmt.Errorf("%w: %s", ErrMissingKey, k))
			continue
		}
		if got, want := Placeholders(tmpl), arity[k]; got != want {
			problems = append(problems, fmt.Errorf("%w: %s declares %d, template uses %d", ErrArity, k, want, got))
		}
	}

	extra := make([]string, 0)
	for k := range table {
		if !Known(k) {
			extra = append(extra, string(k))
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		problems = append(problems, fmt.Errorf("%w: %s", ErrUnknownKey, name))
	}

	return errors.Join(problems...)
}

// Format substitutes args into template. "%s" takes the next sequential
// argument, "%N$s" takes argument N (1-based) and "%%" is a literal percent.
// Missing arguments render as "%!s(MISSING)".
func Format(template string, args ...any) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(template); i++ {
		c := template[i]
		if c != '%' || i+1 >= len(template) {
			b.WriteByte(c)
			continue
		}
		if template[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		idx, width, ok := parseVerb(template[i+1:])
		if !ok {
			b.WriteByte(c)
			continue
		}
		if idx < 0 {
			idx = next
			next++
		}
		if idx < len(args) {
			fmt.Fprint(&b, args[idx])
		} else {
			b.WriteString("%!s(MISSING)")
		}
		i += width
	}
	return b.String()
}

// Placeholders returns the number of arguments template consumes.
func Placeholders(template string) int {
	next, maxPos := 0, 0
	for i := 0; i < len(template); i++ {
		if template[i] != '%' || i+1 >= len(template) {
			continue
		}
		if template[i+1] == '%' {
			i++
			continue
		}
		idx, width, ok := parseVerb(template[i+1:])
		if !ok {
			continue
		}
		if idx < 0 {
			next++
		} else if idx+1 > maxPos {
			maxPos = idx + 1
		}
		i += width
	}
	if maxPos > next {
		return maxPos
	}
	return next
}

// parseVerb recognizes "s" and "N$s" at the start of s. It returns the
// zero-based positional index (-1 for sequential) and the verb width.
func parseVerb(s string) (idx, width int, ok bool) {
	if s == "" {
		return 0, 0, false
	}
	if s[0] == 's' {
		return -1, 1, true
	}
	n, j := 0, 0
	for j < len(s) && s[j] >= '0' && s[j] <= '9' {
		n = n*10 + int(s[j]-'0')
		j++
	}
	if j == 0 || n == 0 || j+1 >= len(s) || s[j] != '$' || s[j+1] != 's' {
		return 0, 0, false
	}
	return n - 1, j + 2, true
}
