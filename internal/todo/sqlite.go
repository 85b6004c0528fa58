package todo

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore はStoreのSQLite実装。
type SQLiteStore struct {
	// db はSQLiteデータベース接続。
	db *sql.DB
}

// NewSQLiteStore は指定されたデータソースへ接続し、スキーマを適用した
// SQLiteストアを生成する。
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close はデータベース接続を閉じる。
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListTasks は全タスクをID昇順で返す。
func (s *SQLiteStore) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, completed FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("タスク一覧の取得に失敗: %w", err)
	}
	defer rows.Close()

	tasks := make([]Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("タスク一覧の読み取りに失敗: %w", err)
	}
	return tasks, nil
}

// GetTask は指定IDのタスクを返す。存在しない場合は(nil, nil)。
func (s *SQLiteStore) GetTask(ctx context.Context, id int64) (*Task, error) {
	return getTask(ctx, s.db, id)
}

// InTx はfnを1つのトランザクション内で実行する。
// fnがnilを返した場合のみコミットする。エラー・パニックを含む
// その他すべての終了経路ではロールバックする。
func (s *SQLiteStore) InTx(ctx context.Context, fn func(tx TaskTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("トランザクションの開始に失敗: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqliteTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("コミットに失敗: %w", err)
	}
	committed = true
	return nil
}

// sqliteTx はTaskTxのSQLite実装。1つのトランザクションに束縛される。
type sqliteTx struct {
	tx *sql.Tx
}

// GetTask は指定IDのタスクをトランザクション内で取得する。
func (t *sqliteTx) GetTask(ctx context.Context, id int64) (*Task, error) {
	return getTask(ctx, t.tx, id)
}

// InsertTask はタスクを新規保存し、採番されたIDをt.IDに設定する。
func (t *sqliteTx) InsertTask(ctx context.Context, task *Task) error {
	res, err := t.tx.ExecContext(ctx,
		`INSERT INTO tasks (description, completed) VALUES (?, ?)`,
		task.Description, task.Completed)
	if err != nil {
		return fmt.Errorf("タスクの保存に失敗: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("採番されたIDの取得に失敗: %w", err)
	}
	task.ID = &id
	return nil
}

// UpdateTask は指定IDのタスクを上書きし、更新された行数を返す。
func (t *sqliteTx) UpdateTask(ctx context.Context, id int64, description string, completed bool) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE tasks SET description = ?, completed = ? WHERE id = ?`,
		description, completed, id)
	if err != nil {
		return 0, fmt.Errorf("タスクの更新に失敗: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("更新行数の取得に失敗: %w", err)
	}
	return affected, nil
}

// DeleteTask は指定IDのタスクを削除する。
func (t *sqliteTx) DeleteTask(ctx context.Context, id int64) error {
	if _, err := t.tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("タスクの削除に失敗: %w", err)
	}
	return nil
}

// querier は*sql.DBと*sql.Txの両方で満たされる読み取りインターフェース。
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getTask は1件のタスクを取得する共通処理。存在しない場合は(nil, nil)。
func getTask(ctx context.Context, q querier, id int64) (*Task, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, description, completed FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// rowScanner は*sql.Rowと*sql.Rowsの両方で満たされるスキャン用インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask は1行をTaskに変換する。
func scanTask(row rowScanner) (*Task, error) {
	var (
		id          int64
		description string
		completed   bool
	)
	if err := row.Scan(&id, &description, &completed); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("タスクの読み取りに失敗: %w", err)
	}
	return &Task{ID: &id, Description: description, Completed: completed}, nil
}
