// Package scheduler runs saved generation schedules on cron and delivers the
// resulting notes to Discord.
package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/chris/rednote/internal/agent"
	"github.com/chris/rednote/internal/db"
	"github.com/chris/rednote/internal/render"
	"github.com/robfig/cron/v3"
)

const (
	defaultScheduleName = "daily-note"
	reloadInterval      = 5 * time.Minute
	runTimeout          = 10 * time.Minute
)

// Generator produces one note for a product.
type Generator interface {
	Generate(ctx context.Context, product, style string) (*agent.Result, error)
}

type Scheduler struct {
	cron       *cron.Cron
	webhookURL string
	db         *db.DB
	gen        Generator
	dmSend     func(userID, content string) error
	httpClient *http.Client
	mu         sync.Mutex
	entryIDs   map[int64]cron.EntryID // scheduleID -> cron entry
	done       chan struct{}
}

func New(database *db.DB, gen Generator, webhookURL string, dmSend func(userID, content string) error) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		webhookURL: webhookURL,
		db:         database,
		gen:        gen,
		dmSend:     dmSend,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		entryIDs:   make(map[int64]cron.EntryID),
		done:       make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.loadSchedules()
	s.cron.Start()

	// Reload periodically to pick up schedules added from the CLI.
	go func() {
		t := time.NewTicker(reloadInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.loadSchedules()
			case <-s.done:
				return
			}
		}
	}()

	slog.Info("scheduler started")
}

// Stop halts the cron and waits for running generations to finish.
func (s *Scheduler) Stop() {
	close(s.done)
	<-s.cron.Stop().Done()
}

// SeedDefaultSchedule inserts a daily schedule for product if the schedules
// table is empty.
func (s *Scheduler) SeedDefaultSchedule(cronExpr, product, style string) {
	if cronExpr == "" || product == "" {
		return
	}
	schedules, err := s.db.ListSchedules(false)
	if err != nil {
		slog.Warn("scheduler: checking schedules", "err", err)
		return
	}
	if len(schedules) > 0 {
		return
	}
	if _, err := s.db.CreateSchedule(defaultScheduleName, cronExpr, product, style); err != nil {
		slog.Warn("scheduler: seeding default schedule", "err", err)
		return
	}
	slog.Info("scheduler: seeded default schedule", "cron", cronExpr, "product", product)
}

func (s *Scheduler) loadSchedules() int {
	schedules, err := s.db.ListSchedules(true)
	if err != nil {
		slog.Warn("scheduler: loading schedules", "err", err)
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-register everything. Diffing is not worth it at this scale.
	for _, entryID := range s.entryIDs {
		s.cron.Remove(entryID)
	}
	s.entryIDs = make(map[int64]cron.EntryID)

	for _, sched := range schedules {
		entryID, err := s.cron.AddFunc(sched.CronExpr, func() {
			s.RunSchedule(context.Background(), sched)
		})
		if err != nil {
			slog.Warn("scheduler: invalid cron", "cron", sched.CronExpr, "schedule", sched.Name, "err", err)
			continue
		}
		s.entryIDs[sched.ID] = entryID
	}

	slog.Info("scheduler: loaded schedules", "count", len(s.entryIDs))
	return len(s.entryIDs)
}

// RunSchedule generates one note for sched and delivers it.
func (s *Scheduler) RunSchedule(ctx context.Context, sched db.Schedule) error {
	log := slog.With("schedule", sched.Name, "product", sched.Product)
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	res, err := s.gen.Generate(ctx, sched.Product, sched.Style)
	if err != nil {
		log.Error("scheduler: generation failed", "err", err)
		return err
	}

	if err := s.db.RecordScheduleRun(sched.ID); err != nil {
		log.Warn("scheduler: recording run", "err", err)
	}

	s.deliver(log, render.Markdown(res.Artifact))
	log.Info("scheduler: completed", "run_id", res.RunID, "rounds", res.Rounds)
	return nil
}

func (s *Scheduler) deliver(log *slog.Logger, content string) {
	// DM first
	if s.dmSend != nil {
		userID, err := s.db.GetSetting("discord_user_id")
		if err == nil && userID != "" {
			if err := s.dmSend(userID, content); err != nil {
				log.Warn("DM send failed", "err", err)
			} else {
				return
			}
		}
	}
	// then webhook
	if s.webhookURL != "" {
		if err := s.postWebhook(content); err != nil {
			log.Warn("webhook failed", "err", err)
		}
		return
	}
	log.Warn("no delivery method available (no DM user and no webhook)")
}

func (s *Scheduler) postWebhook(content string) error {
	body, _ := json.Marshal(map[string]string{"content": content}) // map[string]string marshal cannot fail
	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
