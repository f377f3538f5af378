// main is the entry point for the fdr CLI.
package main

import (
	"github.com/huangsam/fdr/cmd"
	"github.com/huangsam/fdr/internal/contract"
	"github.com/huangsam/fdr/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	err := cmd.Execute()

	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseCaching()

	if err != nil {
		contract.LogFatal("fdr failed", err)
	}
}
