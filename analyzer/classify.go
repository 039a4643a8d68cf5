package analyzer

import "regexp"

// Speaker is the role an utterance is attributed to.
type Speaker string

const (
	SpeakerEmployee Speaker = "employee"
	SpeakerCustomer Speaker = "customer"
)

const (
	ruleBonus         = 0.5
	neutralConfidence = 0.5
)

var (
	rePoliteRequest = regexp.MustCompile(`may i|could you please|would you mind`)
	reFormalNotice  = regexp.MustCompile(`according to|as per|please be advised`)
	rePossessive    = regexp.MustCompile(`\bmy\s+\w+`)
	reRepeatedPunct = regexp.MustCompile(`[!?]{2,}`)
)

// Classification is the speaker decision for one utterance.
type Classification struct {
	Speaker       Speaker `json:"speaker"`
	Confidence    float64 `json:"confidence"`
	EmployeeScore float64 `json:"employee_score"`
	CustomerScore float64 `json:"customer_score"`
}

// Classifier attributes utterances to employee or customer from lexicon
// hits and a few phrasing rules.
type Classifier struct {
	lex *Lexicons
}

func NewClassifier(lex *Lexicons) *Classifier {
	if lex == nil {
		lex = DefaultLexicons()
	}
	return &Classifier{lex: lex}
}

// Classify never fails. Equal scores resolve to SpeakerCustomer; with no
// evidence at all the confidence is 0.5.
func (c *Classifier) Classify(utterance string) Classification {
	text := Normalize(utterance)

	emp := c.lex.employee.score(text)
	cust := c.lex.customer.score(text)

	if rePoliteRequest.MatchString(text) {
		emp += ruleBonus
	}
	if reRepeatedPunct.MatchString(utterance) {
		cust += ruleBonus
	}
	if rePossessive.MatchString(text) {
		cust += ruleBonus
	}
	if reFormalNotice.MatchString(text) {
		emp += ruleBonus
	}

	out := Classification{
		Speaker:       SpeakerCustomer,
		Confidence:    neutralConfidence,
		EmployeeScore: emp,
		CustomerScore: cust,
	}
	if emp > cust {
		out.Speaker = SpeakerEmployee
	}
	if total := emp + cust; total > 0 {
		out.Confidence = max(emp, cust) / total
	}
	return out
}
