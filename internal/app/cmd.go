package app

import "slices"

// Command はアプリケーションの起動モードを表す。
type Command string

const (
	// CommandServe はREST APIサーバーを起動する。
	CommandServe Command = "serve"
	// CommandWorker は期限切れトークンの定期削除ワーカーを起動する。
	CommandWorker Command = "worker"
	// CommandMigrate はデータベースマイグレーションを適用して終了する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中のサーバーの/healthを確認して終了する。
	// distroless環境でのDockerヘルスチェック用。
	CommandHealthcheck Command = "healthcheck"
)

// commands はサポートするサブコマンドの一覧。
var commands = []Command{CommandServe, CommandWorker, CommandMigrate, CommandHealthcheck}

// ParseCommand はコマンドライン引数の先頭からサブコマンドを解析する。
// 2つ目の戻り値は引数がサポート外のコマンドだった場合にfalseになる。
// 引数が空またはサポート外の場合はCommandServeを返す。
func ParseCommand(args []string) (Command, bool) {
	if len(args) == 0 {
		return CommandServe, true
	}
	cmd := Command(args[0])
	if !slices.Contains(commands, cmd) {
		return CommandServe, false
	}
	return cmd, true
}

// NeedsConfig は環境変数からの設定読み込みが必要かどうかを返す。
// healthcheckはSERVER_PORTのみ参照するため、必須設定がなくても動作する。
func (c Command) NeedsConfig() bool {
	return c != CommandHealthcheck
}
