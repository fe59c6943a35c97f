package main

import (
	"github.com/yasmagic/elasticrtc-tools/cmd"
	"github.com/yasmagic/elasticrtc-tools/pkg/logger"
)

func main() {
	logger.RecoverAndLog(cmd.Execute)
}
