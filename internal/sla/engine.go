// Package sla evaluates open work orders against active SLA definitions and
// records response-time violations. Per violation the state only moves
// forward: no violation, violated but unnotified, violated and notified.
package sla

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/maintworks/facility-api/internal/models"
	"github.com/maintworks/facility-api/internal/notification"
	"github.com/maintworks/facility-api/internal/repository"
)

// Stats summarizes one violation check run.
type Stats struct {
	Definitions int `json:"definitions"`
	Evaluated   int `json:"evaluated"`
	Violations  int `json:"violations"`
	Notified    int `json:"notified"`
	Errors      int `json:"errors"`
}

type Engine struct {
	repo       repository.SLARepository
	dispatcher notification.Dispatcher
	clock      clock.Clock
	logger     zerolog.Logger
}

func NewEngine(repo repository.SLARepository, dispatcher notification.Dispatcher, clk clock.Clock, logger zerolog.Logger) *Engine {
	return &Engine{
		repo:       repo,
		dispatcher: dispatcher,
		clock:      clk,
		logger:     logger.With().Str("component", "sla_engine").Logger(),
	}
}

// CheckResponseTimeViolations runs one evaluation pass over every active
// work-order SLA definition. A definition's failure is logged and counted
// without aborting the batch; only the initial definition listing is an
// infrastructure failure. Cancellation is cooperative between definitions.
func (e *Engine) CheckResponseTimeViolations(ctx context.Context) (Stats, error) {
	var stats Stats

	definitions, err := e.repo.ListActiveWorkOrderDefinitions(ctx)
	if err != nil {
		return stats, errors.Wrap(err, "list active SLA definitions")
	}

	for _, def := range definitions {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.Definitions++
		if err := e.checkDefinition(ctx, def, &stats); err != nil {
			stats.Errors++
			e.logger.Error().Err(err).
				Str("sla_definition_id", def.ID).
				Str("company_id", def.CompanyID).
				Msg("SLA definition check failed")
		}
	}

	e.logger.Info().
		Int("definitions", stats.Definitions).
		Int("evaluated", stats.Evaluated).
		Int("violations", stats.Violations).
		Int("notified", stats.Notified).
		Int("errors", stats.Errors).
		Msg("SLA response time check complete")
	return stats, nil
}

func (e *Engine) checkDefinition(ctx context.Context, def models.SLADefinition, stats *Stats) error {
	candidates, err := e.repo.ListCandidateWorkOrders(ctx, def)
	if err != nil {
		return errors.Wrapf(err, "list candidate work orders for SLA %s", def.ID)
	}

	now := e.clock.Now()
	for _, order := range candidates {
		stats.Evaluated++

		// The candidate query already scopes by company, category, and
		// priority; re-verify against the definition anyway so a stale read
		// can never record a false violation.
		if !def.Matches(order) {
			continue
		}
		if def.ResponseTimeHours == nil {
			continue
		}

		violatedAt := order.CreatedAt.Add(time.Duration(*def.ResponseTimeHours) * time.Hour)
		if now.Before(violatedAt) {
			continue
		}

		violation, err := e.repo.FindOrCreateViolation(ctx, order.ID, def.ID, models.ViolationTypeResponseTime, violatedAt)
		if err != nil {
			stats.Errors++
			e.logger.Error().Err(err).
				Str("work_order_id", order.ID).
				Str("sla_definition_id", def.ID).
				Msg("failed to record SLA violation")
			continue
		}
		if violation.NotifiedAt != nil {
			// Already handled on a previous run.
			continue
		}
		stats.Violations++

		if e.notifyViolation(ctx, def, order, violation, now) {
			stats.Notified++
		}
	}
	return nil
}

// notifyViolation dispatches the violation notification and marks the record
// notified only after dispatch succeeds. Failures leave notified_at unset so
// the next run retries.
func (e *Engine) notifyViolation(ctx context.Context, def models.SLADefinition, order models.WorkOrder, violation models.SLAViolation, now time.Time) bool {
	recipients := recipientSet(order)
	if len(recipients) == 0 {
		e.logger.Warn().
			Str("work_order_id", order.ID).
			Str("sla_definition_id", def.ID).
			Msg("SLA violation has no recipients; notification deferred")
		return false
	}

	payload := notification.Payload{
		CompanyID: order.CompanyID,
		Type:      models.NotificationTypeWorkOrder,
		Action:    models.NotificationActionSLAViolation,
		Title:     "SLA response time exceeded",
		Message:   fmt.Sprintf("Work order %q exceeded its %dh response time.", order.Title, *def.ResponseTimeHours),
		Data: map[string]interface{}{
			"work_order_id":       order.ID,
			"sla_definition_id":   def.ID,
			"violation_type":      string(models.ViolationTypeResponseTime),
			"violated_at":         violation.ViolatedAt,
			"response_time_hours": *def.ResponseTimeHours,
		},
	}
	if err := e.dispatcher.Notify(ctx, recipients, payload); err != nil {
		e.logger.Warn().Err(err).
			Str("work_order_id", order.ID).
			Str("sla_definition_id", def.ID).
			Msg("SLA violation notification failed; will retry next run")
		return false
	}

	if err := e.repo.MarkViolationNotified(ctx, violation.ID, now); err != nil {
		e.logger.Error().Err(err).
			Str("violation_id", violation.ID).
			Msg("failed to mark violation notified")
		return false
	}
	return true
}

// recipientSet is {created_by, assigned_to} minus nils, deduplicated.
func recipientSet(order models.WorkOrder) []string {
	var recipients []string
	seen := make(map[string]struct{}, 2)
	for _, user := range []*string{order.CreatedBy, order.AssignedTo} {
		if user == nil || *user == "" {
			continue
		}
		if _, dup := seen[*user]; dup {
			continue
		}
		seen[*user] = struct{}{}
		recipients = append(recipients, *user)
	}
	return recipients
}
