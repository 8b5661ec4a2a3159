package routes

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Variable is the Python identifier bound to the mapping literal.
const Variable = "app_routes"

const defaultHeader = "# Users can modify this dictionary to change route prefixes\n"

var (
	// ErrNoMapping is returned when the file has no app_routes assignment.
	ErrNoMapping = errors.New("no app_routes mapping found")
	// ErrMalformed is returned when the mapping literal cannot be read.
	ErrMalformed = errors.New("malformed app_routes mapping")
)

var assignPattern = regexp.MustCompile(`(?m)^` + Variable + `\s*=\s*\{`)

// Entry is a single name → prefix pair.
type Entry struct {
	Name   string
	Prefix string
}

// Registry is an ordered name → prefix mapping plus the file text around it.
//
// A parsed registry keeps the literal's body as written; entries added later
// are spliced in before the closing brace so comments and layout survive.
type Registry struct {
	head     string
	open     string
	body     string
	tail     string
	parsed   bool
	entries  []Entry
	index    map[string]int
	warnings []string

	// Offset in body just past the last parsed value, or -1.
	lastValue int
	// Whether a comma follows the last parsed value.
	lastComma bool
	// Number of entries read from the file.
	stored int
}

// New returns an empty registry with the default file header.
func New() *Registry {
	return &Registry{
		head:      defaultHeader,
		open:      Variable + " = {",
		tail:      "\n",
		index:     make(map[string]int),
		lastValue: -1,
	}
}

// DefaultPrefix returns the prefix an app is mounted under when the registry
// has no explicit entry for it.
func DefaultPrefix(name string) string {
	return "/" + name
}

// Add inserts name → prefix. It returns false, leaving the registry
// unchanged, when name is already present.
func (r *Registry) Add(name, prefix string) bool {
	if _, ok := r.index[name]; ok {
		return false
	}
	r.index[name] = len(r.entries)
	r.entries = append(r.entries, Entry{Name: name, Prefix: prefix})
	return true
}

// Get returns the prefix registered for name.
func (r *Registry) Get(name string) (string, bool) {
	i, ok := r.index[name]
	if !ok {
		return "", false
	}
	return r.entries[i].Prefix, true
}

// Lookup returns the registered prefix for name, or DefaultPrefix(name).
func (r *Registry) Lookup(name string) string {
	if p, ok := r.Get(name); ok {
		return p
	}
	return DefaultPrefix(name)
}

// Entries returns a copy of the entries in insertion order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries.
func (r *Registry) Len() int { return len(r.entries) }

// Warnings returns non-fatal problems found while parsing, such as
// duplicate keys.
func (r *Registry) Warnings() []string { return r.warnings }

// Bytes serializes the registry. A parsed literal is written back as read,
// with added entries appended before the closing brace. Otherwise an empty
// mapping renders as "app_routes = {}" and entries go one per line.
func (r *Registry) Bytes() []byte {
	var b strings.Builder
	b.WriteString(r.head)
	b.WriteString(r.open)
	b.WriteString(r.renderBody())
	b.WriteByte('}')
	b.WriteString(r.tail)
	return []byte(b.String())
}

func (r *Registry) renderBody() string {
	added := r.entries[r.stored:]
	if r.parsed && len(added) == 0 {
		return r.body
	}

	body := r.body
	if r.lastValue >= 0 && !r.lastComma {
		body = body[:r.lastValue] + "," + body[r.lastValue:]
	}

	nl := strings.LastIndexByte(body, '\n')
	if nl < 0 {
		if strings.TrimSpace(body) == "" {
			if len(added) == 0 {
				return ""
			}
			return "\n" + entryLines(added)
		}
		// Single-line literal stays on one line.
		items := make([]string, len(added))
		for i, e := range added {
			items[i] = quote(e.Name) + ": " + quote(e.Prefix)
		}
		return strings.TrimRight(body, " \t") + " " + strings.Join(items, ", ")
	}

	// Insert after the last line break unless the closing brace shares a
	// line with an entry.
	if strings.TrimSpace(body[nl+1:]) == "" {
		return body[:nl+1] + entryLines(added) + body[nl+1:]
	}
	return body + "\n" + entryLines(added)
}

func entryLines(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "    %s: %s,\n", quote(e.Name), quote(e.Prefix))
	}
	return b.String()
}

// Parse reads a registry file. On duplicate keys the last one wins, as in
// Python, and a warning is recorded.
func Parse(data []byte) (*Registry, error) {
	text := string(data)
	loc := assignPattern.FindStringIndex(text)
	if loc == nil {
		return nil, ErrNoMapping
	}

	r := &Registry{
		head:      text[:loc[0]],
		open:      text[loc[0]:loc[1]],
		parsed:    true,
		index:     make(map[string]int),
		lastValue: -1,
	}

	s := &scanner{src: text, pos: loc[1], line: 1 + strings.Count(text[:loc[1]], "\n")}
	for {
		s.skipSpace()
		if s.eof() {
			return nil, s.errorf("unterminated mapping")
		}
		if s.peek() == '}' {
			break
		}

		key, err := s.readString()
		if err != nil {
			return nil, err
		}
		s.skipSpace()
		if s.eof() || s.peek() != ':' {
			return nil, s.errorf("expected ':' after key %q", key)
		}
		s.pos++
		s.skipSpace()
		value, err := s.readString()
		if err != nil {
			return nil, err
		}
		r.lastValue = s.pos - loc[1]
		r.lastComma = false

		if i, ok := r.index[key]; ok {
			r.entries[i].Prefix = value
			r.warnings = append(r.warnings, fmt.Sprintf("duplicate key %q on line %d overrides the earlier entry", key, s.line))
		} else {
			r.Add(key, value)
		}

		s.skipSpace()
		if s.eof() {
			return nil, s.errorf("unterminated mapping")
		}
		switch s.peek() {
		case ',':
			s.pos++
			r.lastComma = true
		case '}':
		default:
			return nil, s.errorf("expected ',' or '}' after value for %q", key)
		}
	}

	r.body = text[loc[1]:s.pos]
	r.tail = text[s.pos+1:]
	r.stored = len(r.entries)
	return r, nil
}

// Load reads and parses the registry at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading route registry: %w", err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return r, nil
}

// Save writes the registry to path.
func (r *Registry) Save(path string) error {
	if err := os.WriteFile(path, r.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing route registry: %w", err)
	}
	return nil
}

// Ensure creates an empty registry at path when no file exists there.
// It reports whether the file was created.
func Ensure(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("checking route registry: %w", err)
	}
	if err := New().Save(path); err != nil {
		return false, err
	}
	return true, nil
}

// quote renders s as a double-quoted Python string literal. Go's escape
// sequences are a subset of Python's.
func quote(s string) string {
	return strconv.Quote(s)
}
