package analyzer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Category is one named phrase list of a lexicon, e.g. "protocol_phrases".
type Category struct {
	Name    string
	Phrases []string
}

// Lexicon is an ordered set of phrase categories. The zero value is empty.
// A Lexicon is never modified after construction.
type Lexicon struct {
	categories []Category
}

// NewLexicon copies cats, running every phrase through Normalize so it is
// compared in the same form as the utterances it is matched against.
func NewLexicon(cats ...Category) (Lexicon, error) {
	out := make([]Category, 0, len(cats))
	for _, c := range cats {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return Lexicon{}, fmt.Errorf("%w: category without name", ErrInvalidLexicon)
		}
		phrases := make([]string, 0, len(c.Phrases))
		for _, p := range c.Phrases {
			norm := Normalize(p)
			if norm == "" {
				return Lexicon{}, fmt.Errorf("%w: empty phrase %q in %q", ErrInvalidLexicon, p, name)
			}
			p = norm
			phrases = append(phrases, p)
		}
		out = append(out, Category{Name: name, Phrases: phrases})
	}
	return Lexicon{categories: out}, nil
}

func mustLexicon(cats ...Category) Lexicon {
	l, err := NewLexicon(cats...)
	if err != nil {
		panic(err)
	}
	return l
}

// Categories returns a copy of the categories in declaration order.
func (l Lexicon) Categories() []Category {
	out := make([]Category, len(l.categories))
	for i, c := range l.categories {
		out[i] = Category{Name: c.Name, Phrases: append([]string(nil), c.Phrases...)}
	}
	return out
}

// Size is the total number of phrases across all categories.
func (l Lexicon) Size() int {
	n := 0
	for _, c := range l.categories {
		n += len(c.Phrases)
	}
	return n
}

// score adds one point per occurrence of every phrase in text.
func (l Lexicon) score(text string) float64 {
	var s float64
	for _, c := range l.categories {
		for _, p := range c.Phrases {
			s += float64(strings.Count(text, p))
		}
	}
	return s
}

func (l *Lexicon) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d: expected mapping of categories", ErrInvalidLexicon, value.Line)
	}
	cats := make([]Category, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var phrases []string
		if err := value.Content[i+1].Decode(&phrases); err != nil {
			return fmt.Errorf("%w: category %q: %v", ErrInvalidLexicon, value.Content[i].Value, err)
		}
		cats = append(cats, Category{Name: value.Content[i].Value, Phrases: phrases})
	}
	lex, err := NewLexicon(cats...)
	if err != nil {
		return err
	}
	*l = lex
	return nil
}

func (l Lexicon) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range l.categories {
		var list yaml.Node
		if err := list.Encode(c.Phrases); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: c.Name},
			&list,
		)
	}
	return node, nil
}

type wordSet map[string]struct{}

// newWordSet stores words the way tokens yields them.
func newWordSet(words ...string) (wordSet, error) {
	s := make(wordSet, len(words))
	for _, w := range words {
		t := strings.Trim(Normalize(w), terminators)
		if t == "" {
			return nil, fmt.Errorf("%w: empty word %q", ErrInvalidLexicon, w)
		}
		s[t] = struct{}{}
	}
	return s, nil
}

func mustWordSet(words ...string) wordSet {
	s, err := newWordSet(words...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s wordSet) count(toks []string) int {
	n := 0
	for _, t := range toks {
		if _, ok := s[t]; ok {
			n++
		}
	}
	return n
}

func sortedWords(s wordSet) []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Lexicons is the reference data shared by the classifier and the scorer.
type Lexicons struct {
	employee     Lexicon
	customer     Lexicon
	anger        wordSet
	frustration  wordSet
	satisfaction wordSet
	urgency      wordSet
	offensive    wordSet
}

func (l *Lexicons) Employee() Lexicon { return l.employee }
func (l *Lexicons) Customer() Lexicon { return l.customer }

var (
	defaultOnce     sync.Once
	defaultLexicons *Lexicons
)

// DefaultLexicons returns the built-in English lexicons. The value is built
// once and shared; callers must treat it as read-only.
func DefaultLexicons() *Lexicons {
	defaultOnce.Do(func() {
		defaultLexicons = &Lexicons{
			employee: mustLexicon(
				Category{Name: "protocol_phrases", Phrases: []string{
					"thank you for calling",
					"how may i help",
					"how can i help",
					"how can i assist",
					"is there anything else",
					"have a great day",
					"have a nice day",
					"thank you for your patience",
					"thank you for holding",
					"please hold",
					"welcome to",
					"for verification purposes",
					"can i have your",
					"could you verify",
				}},
				Category{Name: "technical_terms", Phrases: []string{
					"account number",
					"reference number",
					"ticket number",
					"order number",
					"tracking number",
					"our system",
					"escalate",
					"warranty",
					"invoice",
					"troubleshoot",
					"reset your",
					"verification",
					"replacement",
					"billing cycle",
				}},
				Category{Name: "professional_phrases", Phrases: []string{
					"happy to help",
					"i apologize for the inconvenience",
					"i understand your",
					"let me check",
					"let me look into",
					"rest assured",
					"i will make sure",
					"i can help you with",
					"certainly",
					"absolutely",
					"our records show",
					"we apologize",
				}},
			),
			customer: mustLexicon(
				Category{Name: "complaint_phrases", Phrases: []string{
					"this is ridiculous",
					"unacceptable",
					"still waiting",
					"not working",
					"doesnt work",
					"never received",
					"been waiting",
					"worst service",
					"waste of time",
					"charged twice",
					"wrong item",
					"no one called back",
					"nobody called back",
				}},
				Category{Name: "personal_phrases", Phrases: []string{
					"my order",
					"my account",
					"my card",
					"my bill",
					"my package",
					"my phone",
					"my internet",
					"my money",
					"i ordered",
					"i paid",
					"i bought",
					"i called",
				}},
				Category{Name: "emotional_phrases", Phrases: []string{
					"frustrated",
					"upset",
					"annoyed",
					"disappointed",
					"fed up",
					"sick of",
					"terrible",
					"awful",
					"horrible",
				}},
				Category{Name: "urgency_phrases", Phrases: []string{
					"right now",
					"as soon as possible",
					"asap",
					"urgent",
					"emergency",
					"cant wait",
					"need it now",
				}},
			),
			anger:        mustWordSet("angry", "mad", "furious", "outraged"),
			frustration:  mustWordSet("frustrated", "annoying", "difficult"),
			satisfaction: mustWordSet("happy", "satisfied", "pleased"),
			urgency:      mustWordSet("urgent", "asap", "immediately"),
			offensive:    mustWordSet("idiot", "idiots", "stupid", "moron", "dumb", "damn", "crap", "jerk", "pathetic"),
		}
	})
	return defaultLexicons
}

type lexiconFile struct {
	Employee  *Lexicon            `yaml:"employee,omitempty"`
	Customer  *Lexicon            `yaml:"customer,omitempty"`
	Emotions  map[string][]string `yaml:"emotions,omitempty"`
	Offensive []string            `yaml:"offensive,omitempty"`
}

// LoadLexicons reads a YAML lexicon file. Sections missing from the file
// fall back to the defaults.
func LoadLexicons(r io.Reader) (*Lexicons, error) {
	var f lexiconFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}

	def := DefaultLexicons()
	out := *def
	if f.Employee != nil {
		out.employee = *f.Employee
	}
	if f.Customer != nil {
		out.customer = *f.Customer
	}
	for name, words := range f.Emotions {
		set, err := newWordSet(words...)
		if err != nil {
			return nil, fmt.Errorf("emotion %s: %w", name, err)
		}
		switch name {
		case "anger":
			out.anger = set
		case "frustration":
			out.frustration = set
		case "satisfaction":
			out.satisfaction = set
		case "urgency":
			out.urgency = set
		default:
			return nil, fmt.Errorf("%w: unknown emotion %q", ErrInvalidLexicon, name)
		}
	}
	if f.Offensive != nil {
		set, err := newWordSet(f.Offensive...)
		if err != nil {
			return nil, fmt.Errorf("offensive: %w", err)
		}
		out.offensive = set
	}
	return &out, nil
}

// LoadLexiconsFile is LoadLexicons on the file at path.
func LoadLexiconsFile(path string) (*Lexicons, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon: %w", err)
	}
	defer f.Close()
	lex, err := LoadLexicons(f)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// WriteYAML dumps the lexicons in the format LoadLexicons reads.
func (l *Lexicons) WriteYAML(w io.Writer) error {
	f := lexiconFile{
		Employee: &l.employee,
		Customer: &l.customer,
		Emotions: map[string][]string{
			"anger":        sortedWords(l.anger),
			"frustration":  sortedWords(l.frustration),
			"satisfaction": sortedWords(l.satisfaction),
			"urgency":      sortedWords(l.urgency),
		},
		Offensive: sortedWords(l.offensive),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
