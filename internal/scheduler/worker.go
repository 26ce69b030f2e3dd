package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	clientsrepo "travelquote_backend/internal/clients/repository"
	"travelquote_backend/internal/email"
	identityrepo "travelquote_backend/internal/identity/repository"
	"travelquote_backend/internal/quotations/domain"
	quotationsrepo "travelquote_backend/internal/quotations/repository"
	"travelquote_backend/platform/config"
	"travelquote_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	quotations quotationsrepo.Store
	clients    *clientsrepo.Repository
	users      *identityrepo.Repository
	sender     email.Sender
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		quotations: quotationsrepo.New(pool),
		clients:    clientsrepo.New(pool),
		users:      identityrepo.New(pool),
		sender:     sender,
		log:        log,
	}

	mux.HandleFunc(TaskFollowUpReminder, w.handleFollowUpReminder)

	return w, nil
}

// handleFollowUpReminder fires after the configured delay. The reminder
// only goes out if the quotation is still waiting on the client.
func (w *Worker) handleFollowUpReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		return err
	}

	quotationID, err := uuid.Parse(payload.QuotationID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		return err
	}

	q, err := w.quotations.Get(ctx, quotationID)
	if errors.Is(err, quotationsrepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if q.Status != domain.StatusSent {
		return nil
	}

	user, err := w.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, identityrepo.ErrNotFound) {
			return nil
		}
		return err
	}

	clientName := "the client"
	if client, err := w.clients.Get(ctx, q.ClientID); err == nil {
		clientName = client.Name
	}

	err = w.sender.SendFollowUpReminder(ctx, user.Email, email.FollowUpData{
		RecipientName: user.Name,
		Destination:   q.Destination,
		ClientName:    clientName,
		SentAgoDays:   daysSince(q.UpdatedAt),
	})
	if err != nil {
		return err
	}

	w.log.Info("follow-up reminder sent", "quotation_id", quotationID)
	return nil
}

func daysSince(t time.Time) int {
	days := int(time.Since(t).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
