// Command fix-combat-ai raises the decideNPCAction token limit from 2048 to
// 5000 and reads NPC attacks from itemTypes.melee instead of system.actions.
package main

import (
	"os"

	"github.com/questionwho42-jpg/foundry-ia/internal/cli"
)

func main() {
	os.Exit(cli.RunScript("combat-fix"))
}
