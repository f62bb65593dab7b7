package logs

import (
	"os"
	"path/filepath"
	"testing"

	"TownBuilder/internal/shared/serverconfig"
)

func TestInit_写入滚动文件(t *testing.T) {
	file := filepath.Join(t.TempDir(), "town.log")
	err := Init("TestInit", serverconfig.LogConfig{FileDir: file, Level: "debug", MaxSize: 1})
	if err != nil {
		t.Fatalf("Init err=%v", err)
	}
	Info("hello town")
	Sync()

	raw, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file err=%v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("期望日志文件非空")
	}
}
