package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"StockCompass/internal/notifier"
	"StockCompass/internal/updater"
)

// Scheduler runs the update pipeline on a cron cadence.
type Scheduler struct {
	Cron    *cron.Cron
	Updater *updater.Updater
}

func New(u *updater.Updater) *Scheduler {
	return &Scheduler{
		Cron:    cron.New(cron.WithSeconds()),
		Updater: u,
	}
}

// RegisterUpdate schedules the market data update task.
func (s *Scheduler) RegisterUpdate(cronSpec string) error {
	if _, err := s.Cron.AddFunc(cronSpec, s.updateTask); err != nil {
		return fmt.Errorf("register update task: %w", err)
	}
	return nil
}

func (s *Scheduler) updateTask() {
	jobID, started := s.Updater.TriggerAsync(updater.TriggerCron)
	if !started {
		log.Printf("[WARN] scheduled update skipped, run %s still in flight", jobID)
		return
	}
	log.Printf("[INFO] scheduled update started: %s", jobID)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "更新行情", "/update":
		jobID, started := s.Updater.TriggerAsync(updater.TriggerAdmin)
		if !started {
			return fmt.Sprintf("⏳ 已有更新在执行: %s", jobID)
		}
		return fmt.Sprintf("✅ 更新已启动: %s", jobID)
	case "查看状态", "/status":
		st := s.Updater.Status()
		if st.Running {
			return fmt.Sprintf("⏳ 更新进行中: %s", st.RunningJob)
		}
		if st.LastRun == nil {
			return "暂无更新记录"
		}
		return notifier.FormatUpdateReport(st.LastRun)
	default:
		return "可用命令:\n• 更新行情 (/update)\n• 查看状态 (/status)"
	}
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}
