//go:build lambda

package main

import (
	"log"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"cramomatic/internal/api"
	"cramomatic/internal/config"
	"cramomatic/internal/lambda"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger, err := cfg.BuildLogger(false)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	tables, err := cfg.Tables()
	if err != nil {
		logger.Fatal("load tables", zap.Error(err))
	}
	svc := api.NewService(tables, logger, cfg.GetCacheTTL(), cfg.GetCacheCleanupInterval())
	awslambda.Start(lambda.NewHandler(svc, logger).Handle)
}
