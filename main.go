package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/model"
	"github.com/agadjuka/LookTown-cloud.ru/internal/assistant/repo"
	"github.com/agadjuka/LookTown-cloud.ru/internal/core"
	"github.com/agadjuka/LookTown-cloud.ru/internal/salon"
	logx "github.com/agadjuka/LookTown-cloud.ru/pkg/logger"
	pkgredis "github.com/agadjuka/LookTown-cloud.ru/pkg/redis"
)

// AppConfig defines all configurable parameters for the assistant, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Assistant configs
	Classifier   model.ClassifierModelConfig
	Step         model.StepModelConfig
	Prompt       model.SalonPromptConfig
	Conversation model.ConversationConfig

	// ThreadID identifies the client thread for this CLI session.
	ThreadID string `envconfig:"THREAD_ID" default:"local-thread"`
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(envCfg.Environment)})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	svc, err := assistant.Build(ctx, assistant.BuildConfig{
		APIKey:       envCfg.APIKey,
		BaseURL:      envCfg.BaseURL,
		Classifier:   envCfg.Classifier,
		Step:         envCfg.Step,
		Prompt:       envCfg.Prompt,
		Conversation: envCfg.Conversation,
		Salon:        salon.NewDemo(),
		History:      repo.NewRedisHistoryRepository(rdb, ttl),
		Checkpoints:  repo.NewRedisCheckpointRepository(rdb, ttl),
	})
	if err != nil {
		log.Fatalf("Failed to build assistant: %v", err)
	}

	fmt.Printf("Салон «%s» на связи. Напишите сообщение (/new — новый диалог, /exit — выход).\n", envCfg.Prompt.SalonName)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/exit":
			return
		case line == "/new":
			if err := svc.Reset(ctx, envCfg.ThreadID); err != nil {
				fmt.Printf("Ошибка сброса диалога: %v\n", err)
				continue
			}
			fmt.Println("Начали новый диалог.")
		default:
			reply, err := svc.Process(ctx, envCfg.ThreadID, line)
			if err != nil {
				fmt.Printf("Ошибка: %v\n", err)
				continue
			}
			fmt.Println(reply)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin: %v", err)
	}
}
