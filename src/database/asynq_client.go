package database

import (
	"github.com/hibiken/asynq"
)

// InitAsynq initializes Asynq client only if Redis is configured
func InitAsynq(addr string) *asynq.Client {
	if addr == "" {
		return nil
	}
	return asynq.NewClient(asynq.RedisClientOpt{Addr: addr})
}
