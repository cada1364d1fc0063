package planner

import (
	"context"
	"time"

	"github.com/Eventra-Labs/Convoy/internal/events"
	"github.com/Eventra-Labs/Convoy/internal/metrics"
	"github.com/Eventra-Labs/Convoy/internal/store"
)

// timeoutLoop catches requests stuck in running, typically after a crash
// mid-run, and marks them failed so the event staff sees the outcome
// instead of a spinner.
func (p *Planner) timeoutLoop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.checkTimeouts(ctx)
		}
	}
}

func (p *Planner) checkTimeouts(ctx context.Context) {
	running, err := p.store.GetRunningPlanRequests(ctx)
	if err != nil {
		p.logger.Error("failed to get running plans for timeout check", "error", err)
		return
	}

	deadline := p.cfg.RunDeadline()
	now := time.Now()
	for _, req := range running {
		if req.StartedAt == nil || now.Sub(*req.StartedAt) <= deadline {
			continue
		}

		p.logger.Warn("plan run timed out", "plan_id", req.ID, "event_id", req.EventID)

		completedAt := now
		req.Status = store.PlanFailed
		req.Error = "plan run exceeded deadline"
		req.CompletedAt = &completedAt
		if err := p.store.UpdatePlanRequest(ctx, req); err != nil {
			p.logger.Error("failed to mark plan as timed out", "plan_id", req.ID, "error", err)
			continue
		}
		p.emit(ctx, events.PlanTimeoutEvent{PlanID: req.ID.String(), EventID: req.EventID})
		metrics.PlanRuns.WithLabelValues("timed_out").Inc()
	}
}
