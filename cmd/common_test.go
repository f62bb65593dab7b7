package cmd

import (
	"testing"

	"go.uber.org/zap"

	"TownBuilder/internal/shared/logs"
	"TownBuilder/internal/shared/serverconfig"
)

func TestReadConfig(t *testing.T) {
	if _, err := serverconfig.Load(""); err != nil {
		t.Fatalf("load conf: %v", err)
	}
	conf := serverconfig.Snapshot()
	if conf.Sim.TownID != 1 || conf.Storage.Driver != "memory" {
		t.Fatalf("unexpected conf: %+v", conf)
	}
	conf.Log.FileDir = ""
	if err := logs.Init("TestReadConfig", conf.Log); err != nil {
		t.Fatalf("init logs: %v", err)
	}
	logs.Info("conf", zap.Any("sim", conf.Sim))
}
