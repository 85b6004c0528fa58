package todo

import "fmt"

// ValidationError は入力値が業務ルールを満たさない場合のエラー。
// HTTPレイヤーでは400 Bad Requestにマッピングされる。
type ValidationError struct {
	// Reason は検証に失敗した理由。
	Reason string
}

// Error はエラーメッセージを返す。
func (e *ValidationError) Error() string {
	return fmt.Sprintf("入力値が不正です: %s", e.Reason)
}

// StoreError は永続化層で発生した障害を表す。
// 作業単位のロールバック後に返され、HTTPレイヤーでは500にマッピングされる。
type StoreError struct {
	// Op は失敗した操作の名前。
	Op string
	// Err は元となったストアのエラー。
	Err error
}

// Error はエラーメッセージを返す。
func (e *StoreError) Error() string {
	return fmt.Sprintf("ストア操作に失敗: %s: %v", e.Op, e.Err)
}

// Unwrap は元のエラーを返す。
func (e *StoreError) Unwrap() error {
	return e.Err
}
