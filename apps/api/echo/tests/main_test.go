package tests

import (
	"log"
	"os"
	"testing"

	"github.com/trezcool/ajira/core"
	logsvc "github.com/trezcool/ajira/services/logger"
)

var (
	conf   *core.Config
	logger core.Logger
)

func TestMain(m *testing.M) {
	conf = core.NewConfig()
	conf.TestMode = true
	conf.Debug = false

	logger = logsvc.NewRollbarLogger(log.New(os.Stdout, "API-TEST : ", log.LstdFlags), conf)
	core.ParseEmailTemplates(logger)

	os.Exit(m.Run())
}
