// ABOUTME: Keyword instruction parser for free-form bot messages.
// ABOUTME: Extracts an action, a metric, an amount and a date from text.
package chatbot

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/antarcticrainforest/babymeasure/internal/models"
)

// Action is what the sender wants done.
type Action string

const (
	ActionLog    Action = "log"
	ActionGet    Action = "get"
	ActionEdit   Action = "edit"
	ActionDelete Action = "del"
	ActionNone   Action = ""
)

// Instruction is the parsed form of a chat message.
type Instruction struct {
	Action Action
	Metric models.Metric
	Value  *float64
	When   time.Time // zero means "now" for logs, "last" for queries
	Greet  bool      // message was only a greeting
	Nappy  bool      // a nappy was mentioned without pee/poop content
}

var greetings = map[string]bool{
	"hi": true, "hola": true, "hallo": true, "hello": true,
	"hey": true, "hei": true, "hej": true, "whassup": true,
}

var actionWords = map[string]Action{
	"set": ActionLog, "put": ActionLog, "log": ActionLog,
	"logg": ActionLog, "add": ActionLog, "record": ActionLog,
	"adjust": ActionEdit, "edit": ActionEdit, "change": ActionEdit,
	"del": ActionDelete, "delete": ActionDelete, "remove": ActionDelete,
	"get": ActionGet, "when": ActionGet, "what": ActionGet,
	"how": ActionGet, "tell": ActionGet, "show": ActionGet,
	"last": ActionGet,
}

var metricWords = map[string]models.Metric{
	"formula": models.MetricFormula, "bottle": models.MetricFormula,
	"milk": models.MetricBreastMilk, "breastmilk": models.MetricBreastMilk,
	"nursing": models.MetricBreastFeeding, "feeding": models.MetricBreastFeeding,
	"breastfeeding": models.MetricBreastFeeding, "fed": models.MetricBreastFeeding,
	"weight": models.MetricWeight, "heavy": models.MetricWeight,
	"light": models.MetricWeight, "weighs": models.MetricWeight,
	"height": models.MetricHeight, "length": models.MetricHeight,
	"long": models.MetricHeight, "tall": models.MetricHeight,
	"small": models.MetricHeight,
	"head": models.MetricHead, "size": models.MetricHead,
	"pee": models.MetricPee,
	"poop": models.MetricPoop, "poo": models.MetricPoop,
}

var dateLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02",
	"02.01.2006",
	time.RFC3339,
}

// Parse extracts an instruction from a chat message. Unknown words are
// ignored so that "how heavy is she?" and "weight?" both work.
func Parse(text string) Instruction {
	words := splitWords(text)

	var inst Instruction
	sawContent := false

	for _, word := range words {
		if greetings[word] {
			continue
		}
		sawContent = true

		if a, ok := actionWords[word]; ok && inst.Action == ActionNone {
			inst.Action = a
			continue
		}
		// A bare nappy mention stays metricless unless pee/poop is
		// named too, the responder asks back for the content type.
		if word == "nappy" || word == "nappie" || word == "diaper" || word == "daiper" {
			inst.Nappy = true
			continue
		}
		if m, ok := metricWords[word]; ok && inst.Metric == "" {
			inst.Metric = m
			continue
		}
		if inst.Value == nil {
			if v, err := strconv.ParseFloat(word, 64); err == nil {
				value := v
				inst.Value = &value
				continue
			}
		}
		if inst.When.IsZero() {
			if t, ok := parseWhen(word); ok {
				inst.When = t
			}
		}
	}

	if !sawContent && len(words) > 0 {
		inst.Greet = true
	}
	if inst.Action == ActionNone && inst.Metric != "" && inst.Value != nil {
		inst.Action = ActionLog
	}
	if inst.Action == ActionNone && inst.Metric != "" {
		inst.Action = ActionGet
	}
	return inst
}

func splitWords(text string) []string {
	var words []string
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		word := strings.TrimFunc(raw, func(r rune) bool {
			return unicode.IsPunct(r) && r != '-' && r != ':' && r != '.'
		})
		// Strip trailing sentence punctuation that survives the
		// trim because of the date/time exceptions above.
		word = strings.TrimRight(word, ".?!:")
		if word != "" {
			words = append(words, word)
		}
	}
	return words
}

func parseWhen(word string) (time.Time, bool) {
	switch word {
	case "today", "now":
		return time.Now(), true
	case "yesterday":
		return time.Now().AddDate(0, 0, -1), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, word, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
