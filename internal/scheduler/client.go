package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoassist_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

const queueName = "crm"

type Client struct {
	client *asynq.Client
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	return &Client{client: asynq.NewClient(opt)}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// EnqueueCRMSync schedules a CRM sync for a lead. Tasks for the same lead
// within the deduplication window collapse into one, so bursts of messages
// produce a single sync.
func (c *Client) EnqueueCRMSync(ctx context.Context, leadID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewCRMSyncLeadTask(CRMSyncLeadPayload{LeadID: leadID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.Queue(queueName),
		asynq.TaskID("crm-sync-"+leadID.String()),
		asynq.Retention(time.Minute),
		asynq.MaxRetry(5),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		// A sync for this lead is already pending.
		return nil
	}
	return err
}

// EnqueueProvisionLabels schedules a one-off label provisioning run.
func (c *Client) EnqueueProvisionLabels(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewProvisionLabelsTask()
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(queueName), asynq.MaxRetry(3))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
