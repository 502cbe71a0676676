package registration

import (
	"strings"

	"github.com/mark3labs/handyhire/internal/api"
)

// Question is a multiple-choice assessment item.
type Question struct {
	Prompt  string
	Options []string
	Answer  string
}

var electricianBank = []Question{
	{
		Prompt:  "What is the standard household supply voltage in Nepal?",
		Options: []string{"110 V", "230 V", "400 V", "12 V"},
		Answer:  "230 V",
	},
	{
		Prompt:  "Which device protects a circuit from overcurrent?",
		Options: []string{"Transformer", "Capacitor", "Circuit breaker", "Relay"},
		Answer:  "Circuit breaker",
	},
	{
		Prompt:  "What colour is the protective earth conductor in modern wiring?",
		Options: []string{"Red", "Blue", "Green and yellow", "Black"},
		Answer:  "Green and yellow",
	},
	{
		Prompt:  "Before working on a circuit you should first:",
		Options: []string{"Test it is live", "Isolate and verify it is dead", "Wear rubber gloves only", "Turn off the lights"},
		Answer:  "Isolate and verify it is dead",
	},
}

var plumberBank = []Question{
	{
		Prompt:  "What does a P-trap under a sink prevent?",
		Options: []string{"Low pressure", "Sewer gases entering the room", "Pipe freezing", "Water hammer"},
		Answer:  "Sewer gases entering the room",
	},
	{
		Prompt:  "Which tape is used to seal threaded pipe joints?",
		Options: []string{"Duct tape", "PTFE tape", "Electrical tape", "Masking tape"},
		Answer:  "PTFE tape",
	},
	{
		Prompt:  "What is the usual cause of water hammer?",
		Options: []string{"A valve closing suddenly", "A blocked vent", "Hard water", "A loose tap washer"},
		Answer:  "A valve closing suddenly",
	},
	{
		Prompt:  "Which pipe material is typically used for drain lines?",
		Options: []string{"Copper", "PVC", "Galvanised steel", "PEX"},
		Answer:  "PVC",
	},
}

// Questions returns the question bank for a trade, nil for unknown trades.
func Questions(st api.ServiceType) []Question {
	switch st {
	case api.Electrician:
		return electricianBank
	case api.Plumber:
		return plumberBank
	}
	return nil
}

// IsCorrect compares an answer with the stored one, ignoring case and
// surrounding space.
func (q Question) IsCorrect(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), q.Answer)
}

// Grade counts correct answers and reports whether the count reaches
// threshold. Missing answers count as wrong.
func Grade(questions []Question, answers []string, threshold int) (score int, pass bool) {
	for i, q := range questions {
		if i < len(answers) && q.IsCorrect(answers[i]) {
			score++
		}
	}
	return score, score >= threshold
}

// AllAnswered reports whether every question has a non-empty answer.
func AllAnswered(questions []Question, answers []string) bool {
	if len(answers) < len(questions) {
		return false
	}
	for i := range questions {
		if strings.TrimSpace(answers[i]) == "" {
			return false
		}
	}
	return true
}
