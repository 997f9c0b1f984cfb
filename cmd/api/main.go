package main

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baumsteiger-allgaeu/site/api/internal/config"
	"github.com/baumsteiger-allgaeu/site/api/internal/infrastructure/smtp"
	"github.com/baumsteiger-allgaeu/site/api/internal/server"
)

func main() {
	cfg := config.Load()

	relay, err := smtp.NewRelay(smtp.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		TLS:      cfg.SMTP.TLS,
		Timeout:  cfg.SMTP.Timeout,
	})
	if err != nil {
		cfg.ServerLog.Fatalf("SMTP リレーの設定が不正です: %v", err)
	}

	var client *mongo.Client
	if cfg.FailureLogEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MongoTimeout)
		defer cancel()

		clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
		client, err = mongo.Connect(ctx, clientOptions)
		if err != nil {
			cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
		}
	} else {
		cfg.ServerLog.Printf("MONGO_URI が未設定のため送信失敗の記録は無効です")
	}

	app := server.New(cfg, client, relay)
	if err := app.Run(); err != nil {
		log.Fatalf("サーバー起動に失敗: %v", err)
	}
}
