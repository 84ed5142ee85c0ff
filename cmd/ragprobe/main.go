// ragprobe 对单个文档执行一轮检索+补全，用于联调引擎链路
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/patenthub/backend-go/internal/config"
	"github.com/patenthub/backend-go/internal/database"
	"github.com/patenthub/backend-go/internal/di"
	"github.com/patenthub/backend-go/internal/logger"
	"github.com/patenthub/backend-go/internal/services"
)

func main() {
	patentID := flag.String("patent", "", "document id to chat against")
	question := flag.String("q", "", "question to ask")
	model := flag.String("model", "", "optional model override")
	flag.Parse()

	if *patentID == "" || *question == "" {
		log.Fatal("usage: ragprobe -patent <id> -q <question> [-model <model>]")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.InitLogger(); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()
	defer database.CloseDB()
	defer database.CloseRedis()

	container, err := di.BuildContainer()
	if err != nil {
		log.Fatalf("failed to build container: %v", err)
	}

	err = container.Invoke(func(chat *services.ChatService) error {
		resp, err := chat.Chat(context.Background(), &services.ChatRequest{
			PatentID:      *patentID,
			Message:       *question,
			ModelOverride: *model,
		})
		if err != nil {
			return err
		}

		fmt.Printf("model:    %s\n", resp.Provider)
		fmt.Printf("degraded: %v\n", resp.Degraded)
		fmt.Printf("reply:\n%s\n", resp.Reply)
		for i, c := range resp.Citations {
			fmt.Printf("\n[citation %d]\n%s\n", i+1, c)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("chat failed: %v", err)
	}
}
