// main is the entry point of the statdeck CLI.
package main

import (
	"github.com/huangsam/statdeck/cmd"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseStores()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
