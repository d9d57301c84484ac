package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"kbbridge/internal/config"
	"kbbridge/internal/model"
	mysqlClient "kbbridge/internal/platform/mysql"
	rabbitmqClient "kbbridge/internal/platform/rabbitmq"
	redisClient "kbbridge/internal/platform/redis"
	"kbbridge/internal/repository"
	"kbbridge/internal/worker"
)

type App struct {
	Config          *config.Config
	MySQL           *gorm.DB
	Redis           *redis.Client
	MQConn          *amqp.Connection
	MessageWorker   *worker.PersistWorker
	SyncEventWorker *worker.PersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Instance{},
		&model.Collection{},
		&model.Document{},
		&model.Chunk{},
		&model.ChatAssistant{},
		&model.Agent{},
		&model.LLMModel{},
		&model.ChatMessage{},
		&model.SyncEvent{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Sync.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir failed: %w", err)
	}

	messageWorker := worker.NewChatMessageWorker(mqConn, repository.NewChatMessageRepository(mysqlDB), cfg.RabbitMQ.MessagePersistQueue)
	if err := messageWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start message worker failed: %w", err)
	}

	syncEventWorker := worker.NewSyncEventWorker(mqConn, repository.NewSyncEventRepository(mysqlDB), cfg.RabbitMQ.SyncEventQueue)
	if err := syncEventWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start sync event worker failed: %w", err)
	}

	return &App{
		Config:          cfg,
		MySQL:           mysqlDB,
		Redis:           redisCli,
		MQConn:          mqConn,
		MessageWorker:   messageWorker,
		SyncEventWorker: syncEventWorker,
		StartedAt:       time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MessageWorker != nil {
		a.MessageWorker.Close()
	}
	if a.SyncEventWorker != nil {
		a.SyncEventWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
