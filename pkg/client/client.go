package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Task はAPIがやり取りするタスクのJSON構造。
type Task struct {
	// ID はタスクの一意識別子。サーバーが採番するまではnil。
	ID *int64 `json:"id"`
	// Description はタスクの内容。
	Description string `json:"description"`
	// Completed はタスクが完了済みかどうか。
	Completed bool `json:"completed"`
}

// Client はタスク管理サービスへのHTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サービスのベースURL。
	baseURL string
	// token はリクエストに付与するBearerトークン。空の場合は付与しない。
	token string
}

// New は新しいタスクサービス用クライアントを生成する。
// baseURLには接続先のベースURL（例: "http://localhost:8080"）を指定する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
	}
}

// SetToken は以降のリクエストに付与するBearerトークンを設定する。
func (c *Client) SetToken(token string) {
	c.token = token
}

// IssueToken は指定ユーザー名のJWTトークンを発行する。
// 発行したトークンはSetTokenで設定するまでリクエストには付与されない。
func (c *Client) IssueToken(ctx context.Context, username string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/token",
		map[string]string{"username": username}, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// List は全タスクをID昇順で取得する。認証必須のエンドポイントのため、
// 事前にSetTokenで有効なトークンを設定しておく必要がある。
func (c *Client) List(ctx context.Context) ([]Task, error) {
	var tasks []Task
	if err := c.doJSON(ctx, http.MethodGet, "/api/todos", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get は指定IDのタスクを取得する。存在しない場合は(nil, nil)。
func (c *Client) Get(ctx context.Context, id int64) (*Task, error) {
	var task Task
	found, err := c.doJSONMaybe(ctx, http.MethodGet, fmt.Sprintf("/api/todos/%d", id), nil, &task)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &task, nil
}

// Create は新しいタスクを作成し、採番されたIDを含むタスクを返す。
func (c *Client) Create(ctx context.Context, description string) (*Task, error) {
	var task Task
	if err := c.doJSON(ctx, http.MethodPost, "/api/todos",
		Task{Description: description}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update は指定IDのタスクのdescriptionとcompletedを上書きする。
// 対象が存在しない場合は(nil, nil)。
func (c *Client) Update(ctx context.Context, id int64, description string, completed bool) (*Task, error) {
	var task Task
	found, err := c.doJSONMaybe(ctx, http.MethodPut, fmt.Sprintf("/api/todos/%d", id),
		Task{Description: description, Completed: completed}, &task)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &task, nil
}

// Delete は指定IDのタスクを削除する。
// 削除できた場合はtrue、対象が存在しない場合はfalseを返す。
func (c *Client) Delete(ctx context.Context, id int64) (bool, error) {
	return c.doJSONMaybe(ctx, http.MethodDelete, fmt.Sprintf("/api/todos/%d", id), nil, nil)
}

// CompleteMany は指定された全IDのタスクを一括で完了済みにする。
func (c *Client) CompleteMany(ctx context.Context, ids []int64) error {
	return c.doJSON(ctx, http.MethodPost, "/api/todos/complete-multiple", ids, nil)
}

// Init はデモ用の初期データを投入する。
func (c *Client) Init(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/todos/init", nil, nil)
}

// doJSON はJSON形式のHTTPリクエストを実行する共通処理。
// 2xx以外のステータスはエラーとして返す。
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	_, err := c.do(ctx, method, path, body, result, false)
	return err
}

// doJSONMaybe は404を「対象なし」の通常の結果として扱うHTTPリクエストを
// 実行する。対象が存在した場合はtrueを返す。
func (c *Client) doJSONMaybe(ctx context.Context, method, path string, body any, result any) (bool, error) {
	return c.do(ctx, method, path, body, result, true)
}

// do はHTTPリクエストを組み立てて実行する。
func (c *Client) do(ctx context.Context, method, path string, body any, result any, allowNotFound bool) (bool, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("リクエストボディのシリアライズに失敗: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return false, fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	if allowNotFound && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("HTTPエラー: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return false, fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
		}
	}
	return true, nil
}
