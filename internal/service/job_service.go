package service

import (
	"time"

	"garage/internal/log"
	"garage/internal/repository"
)

type JobService struct {
	Repo *repository.SessionRepository
	TTL  time.Duration
	log  log.Logger
	now  func() time.Time
}

func NewJobService(repo *repository.SessionRepository, ttl time.Duration, logger log.Logger) *JobService {
	return &JobService{Repo: repo, TTL: ttl, log: logger, now: time.Now}
}

// EvictIdleSessions drops estimator sessions idle for longer than TTL.
func (s *JobService) EvictIdleSessions() int {
	removed := s.Repo.DeleteIdleSince(s.now().Add(-s.TTL))
	if removed > 0 {
		s.log.Info("cron job: evicted idle sessions", "removed", removed, "remaining", s.Repo.Count())
	} else {
		s.log.Debug("cron job: no idle sessions to evict")
	}
	return removed
}
