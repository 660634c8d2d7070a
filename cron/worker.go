package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gamecentre/config"
	sessionRepo "gamecentre/database/repository/session"
	"gamecentre/models"
	"gamecentre/services/notification"

	"github.com/hibiken/asynq"
)

const TypeExpiryWarning = "session:expiring_soon"

// ExpiryWarningPayload identifies which session the warning belongs to.
type ExpiryWarningPayload struct {
	SessionID string `json:"sessionId"`
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// ReminderScheduler enqueues expiry warnings for delivery at a future time.
type ReminderScheduler struct {
	client *asynq.Client
}

// NewReminderScheduler returns a scheduler backed by the task queue Redis DB.
func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{client: asynq.NewClient(redisOpts())}
}

// ScheduleExpiryWarning queues the five-minutes-remaining warning for an
// active session, processed at the given time.
func (s *ReminderScheduler) ScheduleExpiryWarning(sessionID string, at time.Time) error {
	payload, err := json.Marshal(ExpiryWarningPayload{SessionID: sessionID})
	if err != nil {
		return fmt.Errorf("failed to marshal warning payload: %w", err)
	}
	task := asynq.NewTask(TypeExpiryWarning, payload)
	if _, err := s.client.Enqueue(task, asynq.ProcessAt(at)); err != nil {
		return fmt.Errorf("failed to enqueue expiry warning: %w", err)
	}
	return nil
}

// InitExpiryWarningWorker runs the async worker in background.
func InitExpiryWarningWorker(sessions sessionRepo.SessionRepository, notifSvc notification.Service) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpiryWarning, handleExpiryWarningTask(sessions, notifSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[ExpiryWarningWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ExpiryWarningWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ExpiryWarningWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleExpiryWarningTask(sessions sessionRepo.SessionRepository, notifSvc notification.Service) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExpiryWarningPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ExpiryWarningHandler] Invalid payload: %v", err)
			return err
		}

		sess, err := sessions.GetByID(ctx, p.SessionID)
		if err != nil {
			// Session vanished; nothing to warn about.
			log.Printf("[ExpiryWarningHandler] Session %s not found: %v", p.SessionID, err)
			return nil
		}
		if sess.Status != models.SessionActive {
			// Ended early; the warning is stale.
			return nil
		}

		payload := map[string]string{"remainingMinutes": "5"}
		if sess.EndTime != nil {
			payload["endTime"] = sess.EndTime.Format(time.RFC3339)
		}
		if err := notifSvc.Notify(ctx, notification.KindExpiringSoon, p.SessionID, payload); err != nil {
			log.Printf("[ExpiryWarningHandler] Failed to notify: %v", err)
		}
		return nil
	}
}
