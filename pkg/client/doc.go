// Package client はタスク管理サービスのHTTP APIを呼び出すGoクライアントを提供する。
//
// トークンの発行、タスクのCRUD、一括完了の各エンドポイントに対応する。
// SetTokenでBearerトークンを設定すると、以降のリクエストに
// Authorizationヘッダーが付与される。
package client
