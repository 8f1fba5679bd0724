// Package scheduler periodically exports the category report and mails it.
package scheduler

import (
	"context"
	"fmt"

	"github.com/Dan9191/bank-analytics/internal/config"
	"github.com/Dan9191/bank-analytics/internal/logging"
	"github.com/Dan9191/bank-analytics/internal/report"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReportBuilder builds and exports the category report.
type ReportBuilder interface {
	CategoryReport(category, date string) (report.SpendingTable, error)
	ReportFile() string
}

// Mailer sends an exported report file.
type Mailer interface {
	SendReport(to, category, attachmentPath string) error
}

type Scheduler struct {
	cron      *cron.Cron
	reports   ReportBuilder
	mailer    Mailer
	category  string
	recipient string
	log       logrus.FieldLogger
}

// New registers the report job on cfg.ReportCron, a standard five field
// cron expression. mailer may be nil to only export.
func New(cfg *config.Config, reports ReportBuilder, mailer Mailer, log logrus.FieldLogger) (*Scheduler, error) {
	log = logging.Component(log, "scheduler")
	cronLog := cron.PrintfLogger(log)

	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cronLog),
			cron.SkipIfStillRunning(cronLog),
		)),
		reports:   reports,
		mailer:    mailer,
		category:  cfg.ReportCategory,
		recipient: cfg.ReportRecipient,
		log:       log,
	}

	if _, err := s.cron.AddFunc(cfg.ReportCron, s.Run); err != nil {
		return nil, fmt.Errorf("invalid REPORT_CRON %q: %w", cfg.ReportCron, err)
	}
	return s, nil
}

// Run exports the report once and mails it when a mailer is configured.
func (s *Scheduler) Run() {
	log := s.log.WithField("category", s.category)

	table, err := s.reports.CategoryReport(s.category, "")
	if err != nil {
		log.WithError(err).Error("scheduled report failed")
		return
	}
	log.Infof("scheduled report exported with %d rows", len(table))

	if s.mailer == nil || s.recipient == "" {
		return
	}
	if err := s.mailer.SendReport(s.recipient, s.category, s.reports.ReportFile()); err != nil {
		log.WithError(err).Error("failed to mail scheduled report")
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule; the returned context is done once a running job
// has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
