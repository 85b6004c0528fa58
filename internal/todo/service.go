package todo

import (
	"context"
	"errors"
	"strings"
)

// errTaskNotFound は対象タスクが存在しない場合に作業単位を中断するための
// 内部センチネル。呼び出し元へは「見つからない」という通常の結果値に
// 変換され、エラーとしては伝播しない。
var errTaskNotFound = errors.New("task not found")

// Service はタスクに関する業務ロジックを提供する。
// 各公開操作は1つの作業単位（トランザクション）として実行され、
// 途中で失敗した場合は部分的な状態を残さない。
type Service struct {
	// store はタスクの永続化層。
	store Store
}

// NewService は新しいタスクサービスを生成する。
func NewService(store Store) *Service {
	return &Service{store: store}
}

// List は全タスクをID昇順で返す。読み取りのみのためトランザクションは不要。
func (s *Service) List(ctx context.Context) ([]Task, error) {
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list", Err: err}
	}
	return tasks, nil
}

// GetByID は指定IDのタスクを返す。存在しない場合は(nil, nil)。
func (s *Service) GetByID(ctx context.Context, id int64) (*Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "get", Err: err}
	}
	return task, nil
}

// Create は新しいタスクを1つの作業単位の中で保存し、採番されたIDを
// 設定して返す。descriptionが空の場合はValidationErrorを返し、
// 何も保存しない。
func (s *Service) Create(ctx context.Context, description string) (*Task, error) {
	if strings.TrimSpace(description) == "" {
		return nil, &ValidationError{Reason: "descriptionは必須です"}
	}

	task := &Task{Description: description}
	if err := s.store.InTx(ctx, func(tx TaskTx) error {
		return tx.InsertTask(ctx, task)
	}); err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}
	return task, nil
}

// Update は指定IDのタスクのdescriptionとcompletedを上書きする。
// 読み取りと書き込みは同じ作業単位の中で行う。対象が存在しない場合は
// 作業単位を中断し、(nil, nil)を返す（エラーにはしない）。
func (s *Service) Update(ctx context.Context, id int64, description string, completed bool) (*Task, error) {
	var updated *Task
	err := s.store.InTx(ctx, func(tx TaskTx) error {
		current, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return errTaskNotFound
		}

		if _, err := tx.UpdateTask(ctx, id, description, completed); err != nil {
			return err
		}
		updated = &Task{ID: current.ID, Description: description, Completed: completed}
		return nil
	})
	if errors.Is(err, errTaskNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &StoreError{Op: "update", Err: err}
	}
	return updated, nil
}

// Delete は指定IDのタスクを1つの作業単位の中で削除する。
// 削除できた場合はtrue、対象が存在しない場合は作業単位を中断して
// falseを返す（エラーにはしない）。
func (s *Service) Delete(ctx context.Context, id int64) (bool, error) {
	err := s.store.InTx(ctx, func(tx TaskTx) error {
		current, err := tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return errTaskNotFound
		}
		return tx.DeleteTask(ctx, id)
	})
	if errors.Is(err, errTaskNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &StoreError{Op: "delete", Err: err}
	}
	return true, nil
}

// CompleteMany は指定された全IDのタスクを1つの作業単位の中で
// 完了済みにする。存在しないIDは黙ってスキップする。ストア障害が
// 発生した場合はバッチ全体をロールバックし、どのタスクも完了済みに
// ならない。
func (s *Service) CompleteMany(ctx context.Context, ids []int64) error {
	err := s.store.InTx(ctx, func(tx TaskTx) error {
		for _, id := range ids {
			current, err := tx.GetTask(ctx, id)
			if err != nil {
				return err
			}
			if current == nil {
				// 存在しないIDはスキップする
				continue
			}
			if _, err := tx.UpdateTask(ctx, id, current.Description, true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &StoreError{Op: "complete-many", Err: err}
	}
	return nil
}

// SeedTestData はデモ用の初期データを投入する。
// 3件のCreateをそれぞれ独立した作業単位として実行するため、
// この操作全体としてはアトミックではない。
func (s *Service) SeedTestData(ctx context.Context) error {
	for _, description := range []string{
		"開発環境を構築する",
		"APIを実装する",
		"アプリケーションを検証する",
	} {
		if _, err := s.Create(ctx, description); err != nil {
			return err
		}
	}
	return nil
}
