package todo

// Task は1件のタスクを表す。
type Task struct {
	// ID はタスクの一意識別子。ストアが採番するまではnil。
	// 採番後に書き換えられることはない。
	ID *int64 `json:"id"`
	// Description はタスクの内容。空文字列は許可しない。
	Description string `json:"description"`
	// Completed はタスクが完了済みかどうか。作成時はfalse。
	Completed bool `json:"completed"`
}
