// Command add-debug-logs inserts debug console.log calls into
// decideNPCAction in scripts/gemini-api.mjs. Re-running it is a no-op.
package main

import (
	"os"

	"github.com/questionwho42-jpg/foundry-ia/internal/cli"
)

func main() {
	os.Exit(cli.RunScript("debug-logs"))
}
