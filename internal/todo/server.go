package todo

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asakura-dev/todo/pkg/middleware"
)

// Config はサーバー起動に必要な設定。プロセス起動時に一度だけ読み込む。
type Config struct {
	// DBPath はSQLiteデータベースのデータソース。
	DBPath string
	// JWTSecret はトークン署名用の共有秘密鍵。必須であり、
	// ハードコードされたデフォルト値は存在しない。
	JWTSecret string
	// AllowedOrigins はCORSで許可するオリジン。
	AllowedOrigins []string
}

// ConfigFromEnv は環境変数から設定を読み込む。
// TODO_JWT_SECRETが未設定の場合はエラーを返す。
func ConfigFromEnv() (Config, error) {
	secret := os.Getenv("TODO_JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("環境変数TODO_JWT_SECRETが設定されていません")
	}

	return Config{
		DBPath:         getEnvOr("TODO_DB_PATH", "/data/todo.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),
		JWTSecret:      secret,
		AllowedOrigins: []string{getEnvOr("FRONTEND_URL", "http://localhost:3000")},
	}, nil
}

// Server はタスク管理サービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// service はタスクの業務ロジック。
	service *Service
	// store はSQLiteデータベースへの接続。
	store *SQLiteStore
	// jwtSecret はJWT署名用の秘密鍵。
	jwtSecret string
}

// NewServer は新しいタスクサーバーを生成する。
// SQLiteデータベースへの接続とマイグレーションの適用を行う。
func NewServer(port string, cfg Config) (*Server, error) {
	store, err := NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("ストアの初期化に失敗: %w", err)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router:    router,
		port:      port,
		service:   NewService(store),
		store:     store,
		jwtSecret: cfg.JWTSecret,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Handler はルーティング設定済みのHTTPハンドラを返す。
// テストや外部のHTTPサーバーへの組み込みに使用する。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close はサーバーが保持するリソースを解放する。
func (s *Server) Close() error {
	return s.store.Close()
}

// route は1つのエンドポイントの定義。
// requiresAuthがtrueのルートのみJWT認証を通してディスパッチされる。
type route struct {
	method       string
	path         string
	requiresAuth bool
	handler      gin.HandlerFunc
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	authRequired := middleware.JWTAuth(s.jwtSecret)

	// 認証が必要なのは一覧取得のみ。その他のルートは既存仕様を
	// 維持して認証なしで公開する。
	routes := []route{
		{http.MethodGet, "/todos", true, s.handleList()},
		{http.MethodGet, "/todos/:id", false, s.handleGetByID()},
		{http.MethodPost, "/todos", false, s.handleCreate()},
		{http.MethodPut, "/todos/:id", false, s.handleUpdate()},
		{http.MethodDelete, "/todos/:id", false, s.handleDelete()},
		{http.MethodPost, "/todos/complete-multiple", false, s.handleCompleteMany()},
		{http.MethodPost, "/todos/init", false, s.handleInit()},
	}

	api := s.router.Group("/api")
	for _, r := range routes {
		if r.requiresAuth {
			api.Handle(r.method, r.path, authRequired, r.handler)
			continue
		}
		api.Handle(r.method, r.path, r.handler)
	}

	// トークン発行エンドポイント（認証不要）
	auth := s.router.Group("/auth")
	{
		auth.POST("/token", s.handleIssueToken())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "todo"})
	})
}

// taskRequest はタスクの作成・更新リクエストのJSON構造。
type taskRequest struct {
	// Description はタスクの内容。
	Description string `json:"description"`
	// Completed はタスクが完了済みかどうか。
	Completed bool `json:"completed"`
}

// issueTokenRequest はトークン発行リクエストのJSON構造。
type issueTokenRequest struct {
	// Username はトークンに埋め込むユーザー名。
	Username string `json:"username" binding:"required"`
}

// handleList はタスク一覧取得を処理するハンドラを返す。
// このルートのみJWT認証が必須。結果は常にID昇順。
func (s *Server) handleList() gin.HandlerFunc {
	return func(c *gin.Context) {
		tasks, err := s.service.List(c.Request.Context())
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, tasks)
	}
}

// handleGetByID はタスク詳細取得を処理するハンドラを返す。
func (s *Server) handleGetByID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		task, err := s.service.GetByID(c.Request.Context(), id)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if task == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "タスクが見つかりません"})
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// handleCreate はタスク作成を処理するハンドラを返す。
func (s *Server) handleCreate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req taskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		task, err := s.service.Create(c.Request.Context(), req.Description)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, task)
	}
}

// handleUpdate はタスク更新を処理するハンドラを返す。
// descriptionとcompletedを同一の作業単位の中で上書きする。
func (s *Server) handleUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req taskRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		task, err := s.service.Update(c.Request.Context(), id, req.Description, req.Completed)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if task == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "タスクが見つかりません"})
			return
		}
		c.JSON(http.StatusOK, task)
	}
}

// handleDelete はタスク削除を処理するハンドラを返す。
func (s *Server) handleDelete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		deleted, err := s.service.Delete(c.Request.Context(), id)
		if err != nil {
			s.respondError(c, err)
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, gin.H{"error": "タスクが見つかりません"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// handleCompleteMany は複数タスクの一括完了を処理するハンドラを返す。
// ボディはタスクIDの配列。全件が1つの作業単位としてコミットされる。
func (s *Server) handleCompleteMany() gin.HandlerFunc {
	return func(c *gin.Context) {
		var ids []int64
		if err := c.ShouldBindJSON(&ids); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		if err := s.service.CompleteMany(c.Request.Context(), ids); err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "タスクを完了済みにしました"})
	}
}

// handleInit はデモ用初期データの投入を処理するハンドラを返す。
func (s *Server) handleInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.service.SeedTestData(c.Request.Context()); err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "初期データを投入しました"})
	}
}

// handleIssueToken はJWTトークンの発行を処理するハンドラを返す。
func (s *Server) handleIssueToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req issueTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("リクエストが不正です: %v", err)})
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "トークンの発行に失敗しました"})
			log.Printf("JWT生成エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":    token,
			"username": req.Username,
		})
	}
}

// respondError はサービス層のエラーをHTTPステータスにマッピングする。
// 内部の詳細はレスポンスに含めず、ログにのみ出力する。
func (s *Server) respondError(c *gin.Context, err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
		return
	}

	log.Printf("ストアエラー: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "サーバー内部でエラーが発生しました"})
}

// parseID はパスパラメータのタスクIDを解釈する。
// 数値として解釈できない場合は404を返してリクエストを終了する。
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "タスクが見つかりません"})
		return 0, false
	}
	return id, true
}

// getEnvOr は環境変数の値を返す。未設定の場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
