package scheduler

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"SplitChart/internal/chart"
	"SplitChart/internal/logger"
	"SplitChart/internal/notifier"
	"SplitChart/internal/render"
)

// Scheduler manages the periodic chart refresh.
type Scheduler struct {
	Cron       *cron.Cron
	Engine     *chart.Engine
	Renderer   render.Renderer
	OutputFile string
	Ctx        context.Context

	log *logrus.Entry
}

// NewScheduler creates a new Scheduler. outputFile may be empty.
func NewScheduler(ctx context.Context, e *chart.Engine, r render.Renderer, outputFile string) *Scheduler {
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Engine:     e,
		Renderer:   r,
		OutputFile: outputFile,
		Ctx:        ctx,
		log:        logger.Component("scheduler"),
	}
}

// Register adds the refresh task on refreshCron (with a seconds field).
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	p, err := s.Engine.Refresh(s.Ctx)
	if err != nil {
		// the engine keeps the previous pass; nothing else to do here
		return
	}
	s.log.WithFields(logrus.Fields{
		"pass":     p.ID,
		"segments": len(p.Segments),
	}).Info("chart refreshed")

	if s.OutputFile == "" || s.Renderer == nil {
		return
	}
	if err := s.writeOutput(p); err != nil {
		s.log.WithError(err).Error("write chart output")
	}
}

// writeOutput renders p next to the output file and renames it into place,
// so readers never see a partial image.
func (s *Scheduler) writeOutput(p *chart.Pass) error {
	var buf bytes.Buffer
	if err := s.Renderer.Render(&buf, p, nil); err != nil {
		return err
	}
	dir := filepath.Dir(s.OutputFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".chart-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.OutputFile); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return usage
	}
	switch fields[0] {
	case "/status":
		return notifier.FormatPassSummary(s.Engine.Store.Current())
	case "/refresh":
		s.refreshTask()
		return notifier.FormatPassSummary(s.Engine.Store.Current())
	case "/reference":
		if len(fields) != 2 {
			return fmt.Sprintf("reference is %.2f\nusage: /reference <value>", s.Engine.Reference())
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Sprintf("not a number: %q", fields[1])
		}
		if _, err := s.Engine.SetReference(v); err != nil {
			return "❌ " + err.Error()
		}
		return notifier.FormatPassSummary(s.Engine.Store.Current())
	default:
		return usage
	}
}

const usage = "Available commands:\n• /status\n• /refresh\n• /reference <value>"
