package todo

import "context"

// Store はタスクの永続化層への薄いインターフェース。
// 読み取り専用の操作と、作業単位（トランザクション）の開始を提供する。
type Store interface {
	// ListTasks は全タスクをID昇順で返す。
	ListTasks(ctx context.Context) ([]Task, error)
	// GetTask は指定IDのタスクを返す。存在しない場合は(nil, nil)。
	GetTask(ctx context.Context, id int64) (*Task, error)
	// InTx はfnを1つの作業単位の中で実行する。
	// fnがnilを返した場合のみコミットし、エラーまたはパニック時は
	// いかなる経路でも必ずロールバックする。
	InTx(ctx context.Context, fn func(tx TaskTx) error) error
	// Close はストアへの接続を閉じる。
	Close() error
}

// TaskTx は1つの作業単位の中で使用できるタスク操作。
// InTxに渡したfnの外では使用してはならない。
type TaskTx interface {
	// GetTask は指定IDのタスクを返す。存在しない場合は(nil, nil)。
	GetTask(ctx context.Context, id int64) (*Task, error)
	// InsertTask はタスクを新規保存し、採番されたIDをt.IDに設定する。
	InsertTask(ctx context.Context, t *Task) error
	// UpdateTask は指定IDのタスクを上書きする。
	// 更新された行数を返す（対象が存在しない場合は0）。
	UpdateTask(ctx context.Context, id int64, description string, completed bool) (int64, error)
	// DeleteTask は指定IDのタスクを削除する。
	DeleteTask(ctx context.Context, id int64) error
}
