package service

import (
	"context"
	"time"

	"github.com/niqqow96/Backend-PKROnchain/internal/config"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/admin"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/escrow"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/game"
	"github.com/niqqow96/Backend-PKROnchain/internal/service/lock"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Game   *game.Service
	Escrow *escrow.Service
	Admin  *admin.Service
	Locker lock.Locker
}

// NewContainer wires the services. A nil rdb selects process-local table
// locks, which is only safe with a single server instance.
func NewContainer(db *gorm.DB, rdb *redis.Client) *Container {
	var locker lock.Locker = lock.NewLocalLocker()
	buffer := 0
	if conf := config.GlobalConfig; conf != nil {
		if rdb != nil {
			ttl := time.Duration(conf.Redis.LockTTLSeconds) * time.Second
			locker = lock.NewRedisLocker(rdb, ttl)
		}
		buffer = conf.Game.StateFeedBuffer
	}

	escrowSvc := escrow.NewService(db)
	ledger := func(tx *gorm.DB) game.EscrowGateway { return escrowSvc.Ledger(tx) }
	return &Container{
		Game:   game.NewService(db, locker, ledger, game.NewHub(buffer)),
		Escrow: escrowSvc,
		Admin:  admin.NewService(db),
		Locker: locker,
	}
}

func (c *Container) Start(ctx context.Context) error {
	return c.Admin.EnsureDefaultAdmin(ctx)
}
