// Command add-method appends the decideNPCAction method to the GeminiAPI
// class in scripts/gemini-api.mjs. It exits without writing when the method
// already exists.
package main

import (
	"os"

	"github.com/questionwho42-jpg/foundry-ia/internal/cli"
)

func main() {
	os.Exit(cli.RunScript("add-method"))
}
