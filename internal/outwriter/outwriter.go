// Package outwriter renders analysis batches, legends and headers for the console
// and for files.
package outwriter

import (
	"fmt"

	"github.com/huangsam/repoviz/internal/contract"
)

// LogAnalysisHeader prints a concise, 2-line header before a run starts.
func LogAnalysisHeader(cfg *contract.Config) {
	// Line 1: what is being analyzed and through which provider
	fmt.Println(headerLine(cfg, "🔎", fmt.Sprintf("Repo: %s (Provider: %s)", cfg.Locator, cfg.Provider)))

	// Line 2: the encoding parameters
	fmt.Println(headerLine(cfg, "🎨", fmt.Sprintf("Extension: %s | Yellow > %d | Red > %d",
		cfg.Extension, cfg.Thresholds.Yellow, cfg.Thresholds.Red)))
}
