// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWT認証トークンの発行と検証、パニックリカバリ、CORS設定、
// リクエストIDの付与を含む。認証ミドルウェアはステートレスであり、
// トークンの有効期限はリクエストごとに現在時刻で再評価される。
package middleware
