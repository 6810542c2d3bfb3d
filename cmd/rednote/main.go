package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

const usage = `rednote - generate RedNote (小红书) product notes with a tool-calling agent

Prerequisites:
  - Set DEEPSEEK_API_KEY (or OPENAI_API_KEY / ANTHROPIC_API_KEY with LLM_PROVIDER)
  - (Optional) DATABASE_PATH, MAX_ITERATIONS, MODEL_TIMEOUT, DEFAULT_STYLE, SIMULATE_LATENCY
  - (Optional) DISCORD_BOT_TOKEN, DISCORD_WEBHOOK_URL, GENERATE_CRON for 'serve'

Usage: rednote <command> [flags]

Commands:
  g|generate [-style s] [-max n] [-json] <product>   Generate one note and store it
  f|format   [file|-]                                 Render a JSON note as Markdown (no file: demo note)
  history    [-product p] [-n 10]                     List stored notes
  products   [list | set <name> <details>]            Show or edit the product catalog
  schedule   [list | add <name> <cron> <product> [style] | remove <name> | enable <name> | disable <name>]
  serve                                               Run the Discord bot and the scheduler
  h|help                                              Show this help

Examples:
  - rednote generate 深海蓝藻保湿面膜
  - rednote generate -style 专业 -json 美白精华 > note.json
  - rednote format note.json
  - rednote schedule add morning "0 9 * * *" 深海蓝藻保湿面膜 活泼甜美
`

var errUsage = errors.New("invalid usage")

func main() {
	ancli.SetupSlog()
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		fmt.Print(usage)
		return 1
	}
	cmd, rest := args[0], args[1:]

	var err error
	switch cmd {
	case "g", "generate":
		err = generateCmd(rest)
	case "f", "format":
		err = formatCmd(rest)
	case "history":
		err = historyCmd(rest)
	case "products":
		err = productsCmd(rest)
	case "schedule":
		err = scheduleCmd(rest)
	case "serve":
		err = serveCmd(rest)
	case "h", "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	default:
		ancli.PrintErr(fmt.Sprintf("unknown command: %q\n", cmd))
		fmt.Print(usage)
		return 1
	}

	if errors.Is(err, errUsage) {
		ancli.PrintErr(fmt.Sprintf("%v\n", err))
		return 2
	}
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("%s: %v\n", cmd, err))
		return 1
	}
	return 0
}
