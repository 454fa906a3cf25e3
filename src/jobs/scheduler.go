package jobs

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

type ScheduleConfig struct {
	AutoFillCron    string
	AssignCron      string
	ReconcileCron   string // empty disables the periodic sweep
	DefaultSurveyID string // empty disables the monthly assignment
}

func NewScheduler(redisAddr string, loc *time.Location) *asynq.Scheduler {
	return asynq.NewScheduler(asynq.RedisClientOpt{Addr: redisAddr}, &asynq.SchedulerOpts{Location: loc})
}

// RegisterSchedules adds the monthly cron entries and returns their ids.
func RegisterSchedules(s *asynq.Scheduler, cfg ScheduleConfig) ([]string, error) {
	var ids []string

	autoFill, err := NewAutoFillTask(nil)
	if err != nil {
		return nil, err
	}
	id, err := s.Register(cfg.AutoFillCron, autoFill, asynq.Unique(time.Hour))
	if err != nil {
		return nil, fmt.Errorf("register auto-fill schedule %q: %w", cfg.AutoFillCron, err)
	}
	ids = append(ids, id)

	if cfg.DefaultSurveyID != "" {
		assign, err := NewAssignMonthlyTask(cfg.DefaultSurveyID)
		if err != nil {
			return nil, err
		}
		id, err := s.Register(cfg.AssignCron, assign, asynq.Unique(time.Hour))
		if err != nil {
			return nil, fmt.Errorf("register assignment schedule %q: %w", cfg.AssignCron, err)
		}
		ids = append(ids, id)
	}

	if cfg.ReconcileCron != "" {
		reconcile, err := NewReconcileTask(false)
		if err != nil {
			return nil, err
		}
		id, err := s.Register(cfg.ReconcileCron, reconcile)
		if err != nil {
			return nil, fmt.Errorf("register reconcile schedule %q: %w", cfg.ReconcileCron, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
