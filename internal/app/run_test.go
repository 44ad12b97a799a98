package app

import (
	"bytes"
	"strings"
	"testing"
)

// TestRun_CommandsRequiringDB は各サブコマンドがDB接続に失敗したときエラーを返すことを検証する。
func TestRun_CommandsRequiringDB(t *testing.T) {
	for _, args := range [][]string{{"serve"}, {"worker"}, {}, {"unknown"}} {
		t.Run(strings.Join(append([]string{"run"}, args...), " "), func(t *testing.T) {
			setTestEnv(t)

			var buf bytes.Buffer
			err := Run(&buf, args)
			if err == nil {
				t.Fatal("接続できないDBでエラーが返されるべき")
			}
			if !strings.Contains(err.Error(), "database") {
				t.Errorf("エラーにDB関連の内容が含まれていない: %v", err)
			}
		})
	}
}

func TestRun_UnknownCommandLogsWarning(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	_ = Run(&buf, []string{"bogus"})

	if !strings.Contains(buf.String(), "unknown command") {
		t.Errorf("未知のコマンドの警告が出力されていない: %s", buf.String())
	}
}

func TestRun_MigrateWithUnreachableDB_ReturnsError(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	if err := Run(&buf, []string{"migrate"}); err == nil {
		t.Fatal("Run(migrate) should fail without a database")
	}
}

func TestRun_WithMissingEnv_ReturnsError(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run with missing env should return error")
	}
}

func TestRun_HealthcheckSkipsConfig(t *testing.T) {
	// 必須環境変数がなくても設定エラーにはならず、接続エラーになる
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SERVER_PORT", "1")

	var buf bytes.Buffer
	err := Run(&buf, []string{"healthcheck"})
	if err == nil {
		t.Fatal("サーバーが起動していない状態でhealthcheckが成功した")
	}
	if !strings.Contains(err.Error(), "health check failed") {
		t.Errorf("err = %v", err)
	}
}
