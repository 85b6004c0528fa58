// Package todo はタスク管理サービスの内部実装を提供する。
//
// タスクのCRUDと複数タスクの一括完了を、1リクエストにつき1つの
// 作業単位（トランザクション）として実行する。一覧取得のみJWT認証が
// 必須であり、その他のルートは認証なしでアクセスできる。
package todo
