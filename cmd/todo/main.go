// タスク管理サービスのエントリポイント。
// タスクのCRUDと一括完了をJSON APIとして提供する。
// トークン署名用の秘密鍵は環境変数TODO_JWT_SECRETで必ず指定する。
package main

import (
	"log"
	"os"

	"github.com/asakura-dev/todo/internal/todo"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg, err := todo.ConfigFromEnv()
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := todo.NewServer(port, cfg)
	if err != nil {
		log.Fatalf("タスクサーバーの初期化に失敗: %v", err)
	}
	defer server.Close()

	log.Printf("タスクサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("タスクサービスの起動に失敗: %v", err)
	}
}
