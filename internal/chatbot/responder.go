// ABOUTME: Executes parsed chat instructions against the record store.
// ABOUTME: Shared by the Telegram bot and the HTTP /api/bot endpoint.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/antarcticrainforest/babymeasure/internal/babyerr"
	"github.com/antarcticrainforest/babymeasure/internal/models"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

// Responder answers chat messages for one subject.
type Responder struct {
	store   storage.Store
	subject string
}

// NewResponder creates a Responder bound to the default subject.
func NewResponder(store storage.Store, subject string) *Responder {
	if subject == "" {
		subject = models.DefaultSubject
	}
	return &Responder{store: store, subject: subject}
}

const helpText = "You can log and query entries, for example:\n" +
	"  \"log 120 formula\"\n" +
	"  \"log weight 4.2\"\n" +
	"  \"log poop\"\n" +
	"  \"what was the last weight?\"\n" +
	"Metrics: weight, height, head, formula, breastmilk, breastfeeding, pee, poop"

// Reply parses the message and executes it against the store.
func (r *Responder) Reply(ctx context.Context, text string) string {
	inst := Parse(text)

	switch {
	case inst.Greet:
		return "Hi! " + helpText
	case inst.Nappy && inst.Metric == "":
		return "Was it pee or poop?"
	case inst.Action == ActionNone || (inst.Metric == "" && inst.Action != ActionGet):
		return "Sorry, I didn't get that. " + helpText
	}

	switch inst.Action {
	case ActionLog:
		return r.log(ctx, inst)
	case ActionGet:
		return r.get(ctx, inst)
	case ActionEdit:
		return r.edit(ctx, inst)
	case ActionDelete:
		return r.delete(ctx, inst)
	}
	return helpText
}

func (r *Responder) log(ctx context.Context, inst Instruction) string {
	if !inst.Metric.IsEvent() && inst.Value == nil {
		return fmt.Sprintf("How much? Tell me the %s value, e.g. \"log %s 120\".",
			inst.Metric, inst.Metric)
	}

	value := 1.0
	if inst.Value != nil {
		value = *inst.Value
	}
	m := models.NewMeasurement(r.subject, inst.Metric, value)
	if !inst.When.IsZero() {
		m.WithRecordedAt(inst.When)
	}

	if err := r.store.AddMeasurement(ctx, m); err != nil {
		return errorReply(err)
	}
	if m.Metric.IsEvent() {
		return fmt.Sprintf("Got it, logged a %s nappy for %s.", m.Metric, m.Subject)
	}
	return fmt.Sprintf("Got it, logged %s %s %s for %s.",
		trimFloat(m.Value), m.Unit, m.Metric, m.Subject)
}

func (r *Responder) get(ctx context.Context, inst Instruction) string {
	if inst.Metric == "" {
		return "Which metric? " + helpText
	}
	m, err := r.store.LatestMeasurement(ctx, r.subject, inst.Metric)
	if err != nil {
		if errors.Is(err, babyerr.ErrNotFound) {
			return fmt.Sprintf("No %s entries yet.", inst.Metric)
		}
		return errorReply(err)
	}
	when := m.RecordedAt.Format("Mon 15:04")
	if m.Metric.IsEvent() {
		return fmt.Sprintf("Last %s was at %s.", m.Metric, when)
	}
	return fmt.Sprintf("Last %s: %s %s at %s.", m.Metric, trimFloat(m.Value), m.Unit, when)
}

func (r *Responder) edit(ctx context.Context, inst Instruction) string {
	if inst.Value == nil {
		return "What should the new value be?"
	}
	last, err := r.store.LatestMeasurement(ctx, r.subject, inst.Metric)
	if err != nil {
		if errors.Is(err, babyerr.ErrNotFound) {
			return fmt.Sprintf("No %s entries to edit.", inst.Metric)
		}
		return errorReply(err)
	}
	updated, err := r.store.UpdateMeasurementValue(ctx, last.ID.String(), *inst.Value)
	if err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Changed the last %s entry to %s %s.",
		updated.Metric, trimFloat(updated.Value), updated.Unit)
}

func (r *Responder) delete(ctx context.Context, inst Instruction) string {
	last, err := r.store.LatestMeasurement(ctx, r.subject, inst.Metric)
	if err != nil {
		if errors.Is(err, babyerr.ErrNotFound) {
			return fmt.Sprintf("No %s entries to delete.", inst.Metric)
		}
		return errorReply(err)
	}
	if err := r.store.DeleteMeasurement(ctx, last.ID.String()); err != nil {
		return errorReply(err)
	}
	return fmt.Sprintf("Deleted the last %s entry.", last.Metric)
}

func errorReply(err error) string {
	if errors.Is(err, babyerr.ErrUnavailable) {
		return "The database is not reachable right now, try again later."
	}
	return "Something went wrong: " + err.Error()
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
