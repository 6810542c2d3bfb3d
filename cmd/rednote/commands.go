package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
	"github.com/chris/rednote/config"
	"github.com/chris/rednote/internal/agent"
	"github.com/chris/rednote/internal/db"
	"github.com/chris/rednote/internal/discord"
	"github.com/chris/rednote/internal/render"
	"github.com/chris/rednote/internal/scheduler"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

const demoNote = `{
  "title": "✨28天告别暗沉！这瓶美白精华让我素颜也敢出门🌟",
  "body": "姐妹们！混油皮+熬夜党的痘印终于淡了💖\n\n🌟 烟酰胺+VC衍生物，提亮肤色看得见\n💧 质地轻薄秒吸收，一点都不黏\n\n早晚洁面后按压2-3滴，后面叠保湿就好啦～",
  "hashtags": ["#美白精华", "#提亮肤色", "#淡化痘印", "#护肤好物", "#素颜自由"],
  "emojis": ["✨", "💖", "🌟", "💧", "🌿"]
}`

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func generateCmd(args []string) error {
	cfg := config.Load()
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	style := fs.String("style", cfg.DefaultStyle, "tone and style of the note")
	maxIter := fs.Int("max", cfg.MaxIterations, "maximum model rounds")
	asJSON := fs.Bool("json", false, "print the note as JSON instead of Markdown")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	product := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if product == "" {
		return fmt.Errorf("%w: generate needs a product name", errUsage)
	}
	cfg.MaxIterations = *maxIter

	database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	gen, err := newGenerator(cfg, database)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { shutdown.Monitor(cancel) }()

	start := time.Now()
	res, err := gen.Generate(ctx, product, *style)
	if err != nil {
		return err
	}

	if *asJSON {
		out := render.JSON(res.Artifact)
		if stdoutIsTerminal() {
			out = render.Color(out)
		}
		fmt.Print(string(out))
	} else {
		fmt.Println(render.Markdown(res.Artifact))
	}
	if stdoutIsTerminal() {
		ancli.Okf("generated in %d round(s), %v (run %s)\n", res.Rounds, time.Since(start).Round(time.Millisecond), res.RunID)
	}
	return nil
}

func formatCmd(args []string) error {
	var raw []byte
	var err error
	switch {
	case len(args) == 0:
		raw = []byte(demoNote)
	case args[0] == "-":
		raw, err = io.ReadAll(os.Stdin)
	default:
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading note: %w", err)
	}
	fmt.Println(render.MarkdownFromJSON(string(raw)))
	return nil
}

func historyCmd(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	product := fs.String("product", "", "only notes for this product")
	limit := fs.Int("n", 10, "number of notes")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	database, err := openStore(config.Load())
	if err != nil {
		return err
	}
	defer database.Close()

	notes, err := database.ListNotes(*product, *limit)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Println("no notes yet")
		return nil
	}
	for _, n := range notes {
		fmt.Printf("%4d  %-12s  %s  [%s]  %s\n", n.ID, since(n.CreatedAt), n.Product, n.Style, n.Title)
	}
	return nil
}

// since renders a sqlite UTC timestamp relative to now.
func since(ts string) string {
	t, err := time.ParseInLocation(time.DateTime, ts, time.UTC)
	if err != nil {
		return ts
	}
	return humanize.Time(t)
}

func productsCmd(args []string) error {
	database, err := openStore(config.Load())
	if err != nil {
		return err
	}
	defer database.Close()

	if len(args) == 0 || args[0] == "list" {
		products, err := database.ListProducts()
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%s\n  %s\n", p.Name, p.Details)
		}
		return nil
	}
	if args[0] != "set" || len(args) < 3 {
		return fmt.Errorf("%w: products [list | set <name> <details>]", errUsage)
	}
	name, details := args[1], strings.Join(args[2:], " ")
	return setProduct(database, name, details)
}

// setProduct updates the entry called name or creates it.
func setProduct(database *db.DB, name, details string) error {
	products, err := database.ListProducts()
	if err != nil {
		return err
	}
	for _, p := range products {
		if p.Name == name {
			if err := database.UpdateProduct(p.ID, map[string]any{"details": details}); err != nil {
				return err
			}
			ancli.PrintOK(fmt.Sprintf("updated %s\n", name))
			return nil
		}
	}
	if _, err := database.CreateProduct(name, details); err != nil {
		return err
	}
	ancli.PrintOK(fmt.Sprintf("added %s\n", name))
	return nil
}

func scheduleCmd(args []string) error {
	cfg := config.Load()
	database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	if len(args) == 0 || args[0] == "list" {
		schedules, err := database.ListSchedules(false)
		if err != nil {
			return err
		}
		if len(schedules) == 0 {
			fmt.Println("no schedules")
		}
		for _, s := range schedules {
			state := "on"
			if !s.Enabled {
				state = "off"
			}
			last := "never"
			if s.LastRun != "" {
				last = since(s.LastRun)
			}
			fmt.Printf("%-16s %-3s %-14s %s [%s] last run %s\n", s.Name, state, s.CronExpr, s.Product, s.Style, last)
		}
		return nil
	}

	switch args[0] {
	case "add":
		if len(args) < 4 {
			return fmt.Errorf("%w: schedule add <name> <cron> <product> [style]", errUsage)
		}
		style := cfg.DefaultStyle
		if len(args) > 4 {
			style = args[4]
		}
		if _, err := database.CreateSchedule(args[1], args[2], args[3], style); err != nil {
			return err
		}
		ancli.PrintOK(fmt.Sprintf("scheduled %s (%s)\n", args[1], args[2]))
	case "remove":
		if len(args) < 2 {
			return fmt.Errorf("%w: schedule remove <name>", errUsage)
		}
		if err := database.DeleteSchedule(args[1]); err != nil {
			return err
		}
		ancli.PrintOK(fmt.Sprintf("removed %s\n", args[1]))
	case "enable", "disable":
		if len(args) < 2 {
			return fmt.Errorf("%w: schedule %s <name>", errUsage, args[0])
		}
		return setScheduleEnabled(database, args[1], args[0] == "enable")
	default:
		return fmt.Errorf("%w: unknown schedule action %q", errUsage, args[0])
	}
	return nil
}

func setScheduleEnabled(database *db.DB, name string, enabled bool) error {
	schedules, err := database.ListSchedules(false)
	if err != nil {
		return err
	}
	for _, s := range schedules {
		if s.Name != name {
			continue
		}
		v := 0
		if enabled {
			v = 1
		}
		return database.UpdateSchedule(s.ID, map[string]any{"enabled": v})
	}
	return fmt.Errorf("no schedule named %q", name)
}

func serveCmd(_ []string) error {
	cfg := config.Load()
	if cfg.DiscordToken == "" && cfg.DiscordWebhook == "" {
		return fmt.Errorf("%w: serve needs DISCORD_BOT_TOKEN or DISCORD_WEBHOOK_URL", errUsage)
	}

	database, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	gen, err := newGenerator(cfg, database)
	if err != nil {
		return err
	}

	var dmSend func(userID, content string) error
	if cfg.DiscordToken != "" {
		bot, err := discord.NewBot(cfg.DiscordToken, gen, database, cfg.DefaultStyle)
		if err != nil {
			return err
		}
		defer bot.Close()
		dmSend = bot.SendDM
	}

	sched := scheduler.New(database, gen, cfg.DiscordWebhook, dmSend)
	sched.SeedDefaultSchedule(cfg.GenerateCron, cfg.ScheduleProduct, cfg.DefaultStyle)
	sched.Start()
	defer sched.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { shutdown.Monitor(cancel) }()

	ancli.PrintOK("rednote is running. Press Ctrl+C to exit.\n")
	<-ctx.Done()
	ancli.PrintOK("shutting down.\n")
	return nil
}

var _ scheduler.Generator = (*agent.Generator)(nil)
