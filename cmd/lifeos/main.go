package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"lifeos/internal/config"
	"lifeos/internal/content"
	"lifeos/internal/dialogue"
	"lifeos/internal/logger"
	"lifeos/internal/repository"
	"lifeos/internal/service"
	"lifeos/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	// keep command output readable unless LOG_MODE asks for more
	logMode := cfg.LogMode
	if logMode == "" {
		logMode = logger.ModeCLI
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := content.Default()
	if err != nil {
		log.Fatal("Failed to load content catalog", "error", err)
	}

	kv, err := store.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store", "engine", cfg.StoreEngine, "error", err)
	}
	defer kv.Close()

	log.Debug("Store opened", "engine", cfg.StoreEngine, "namespace", cfg.StoreNamespace)

	profiles := repository.NewProfileRepository(kv)
	engine := service.NewEngine(profiles, catalog, log, service.WithLocation(cfg.Location()))

	if err := run(ctx, engine, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, engine *service.Engine, cmd string, args []string) error {
	if cmd == "login" {
		if len(args) != 1 {
			return errors.New("usage: lifeos login <username>")
		}
		session, err := engine.Login(ctx, args[0])
		if err != nil {
			return err
		}
		printStatus(session)
		return nil
	}

	session, ok, err := engine.Resume(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("no profile is logged in; run: lifeos login <username>")
	}
	switch cmd {
	case "logout":
		return session.Logout(ctx)

	case "status":
		printStatus(session)

	case "lesson":
		if len(args) != 1 {
			return errors.New("usage: lifeos lesson <lesson-id>")
		}
		outcome, err := session.FinishLesson(ctx, args[0])
		if err != nil {
			return err
		}
		if !outcome.Granted {
			fmt.Println("Lesson already completed, no reward this time.")
			return nil
		}
		fmt.Printf("+%d XP, +%d coins\n", outcome.XP, outcome.Coins)
		printBadges(engine.Catalog(), outcome.NewBadges)

	case "habit":
		if len(args) != 1 {
			return errors.New("usage: lifeos habit <habit-id>")
		}
		done, err := session.ToggleHabit(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s done today: %v\n", args[0], done)

	case "quest":
		if len(args) != 1 {
			return errors.New("usage: lifeos quest <quest-id>")
		}
		reward, err := session.ClaimQuest(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("+%d XP, +%d coins\n", reward.XP, reward.Coins)

	case "buy":
		if len(args) != 1 {
			return errors.New("usage: lifeos buy <item-id>")
		}
		if err := session.Purchase(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Purchased", args[0])

	case "budget":
		allowance, err := intArg(args, 0, "usage: lifeos budget <allowance>")
		if err != nil {
			return err
		}
		b, err := session.SetBudget(ctx, allowance)
		if err != nil {
			return err
		}
		fmt.Printf("save %d, spend %d, invest %d\n", b.Save, b.Spend, b.Invest)

	case "goal":
		target, err := intArg(args, 1, "usage: lifeos goal <name> <target>")
		if err != nil {
			return err
		}
		if err := session.AddSavingsGoal(ctx, args[0], target); err != nil {
			return err
		}
		badges, err := session.EvaluateBadges(ctx)
		if err != nil {
			return err
		}
		printBadges(engine.Catalog(), badges)

	case "save":
		index, err := intArg(args, 0, "usage: lifeos save <goal-index> <amount>")
		if err != nil {
			return err
		}
		amount, err := intArg(args, 1, "usage: lifeos save <goal-index> <amount>")
		if err != nil {
			return err
		}
		goal, err := session.AddToSavingsGoal(ctx, index, amount)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d/%d (%d%%)\n", goal.Name, goal.Saved, goal.Target, goal.Percent())

	case "scenario":
		if len(args) != 1 {
			return errors.New("usage: lifeos scenario <scenario-id>")
		}
		return playScenario(ctx, engine, session, args[0])

	case "assess":
		return takeAssessment(ctx, engine, session)

	default:
		printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func intArg(args []string, i int, usage string) (int, error) {
	if len(args) <= i {
		return 0, errors.New(usage)
	}
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", args[i])
	}
	return n, nil
}

func printStatus(session *service.Session) {
	p, ok := session.Profile()
	if !ok {
		return
	}
	progress := session.Progress()
	fmt.Printf("%s %s  level %d (%d/%d XP, %d%%)\n", p.Avatar, p.Username, progress.Level, progress.Current, progress.Needed, progress.Percent)
	fmt.Printf("coins %d  streak %d (best %d)  freezes %d\n", p.Coins, p.Streak, p.LongestStreak, p.StreakFreezes)
	fmt.Printf("lessons %d  badges %s\n", len(p.CompletedLessons), strings.Join(p.Badges, ", "))
}

func printBadges(catalog *content.Catalog, ids []string) {
	for _, id := range ids {
		if badge, ok := catalog.Badge(id); ok {
			fmt.Printf("Badge earned: %s %s\n", badge.Emoji, badge.Name)
		}
	}
}

// readChoice prompts until the user enters a number in [1, n]
func readChoice(in *bufio.Scanner, n int) (int, error) {
	for {
		fmt.Printf("> ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return 0, err
			}
			return 0, errors.New("input closed")
		}
		choice, err := strconv.Atoi(strings.TrimSpace(in.Text()))
		if err == nil && choice >= 1 && choice <= n {
			return choice - 1, nil
		}
		fmt.Printf("Enter a number from 1 to %d\n", n)
	}
}

func playScenario(ctx context.Context, engine *service.Engine, session *service.Session, id string) error {
	walker, err := session.StartScenario(id)
	if err != nil {
		return err
	}
	in := bufio.NewScanner(os.Stdin)

	for !walker.Finished() {
		if err := ctx.Err(); err != nil {
			return err
		}
		node, _ := walker.Current()
		prompt, ok := node.(content.PromptNode)
		if !ok {
			break
		}
		fmt.Printf("[%s] %s\n", prompt.Speaker, prompt.Text)
		for i, c := range prompt.Choices {
			fmt.Printf("  %d. %s\n", i+1, c.Text)
		}
		choice, err := readChoice(in, len(prompt.Choices))
		if err != nil {
			return err
		}
		if err := walker.Choose(choice); err != nil {
			return err
		}
	}

	result := walker.Result()
	if last := lastTurn(result); last != nil && last.Choice < 0 {
		fmt.Printf("[%s] %s\n", last.Speaker, last.Text)
	}
	outcome, err := session.FinishScenario(ctx, result)
	if err != nil {
		return err
	}
	fmt.Printf("Confidence %d%%  +%d XP, +%d coins\n", outcome.Confidence, outcome.XP, outcome.Coins)
	printBadges(engine.Catalog(), outcome.NewBadges)
	return nil
}

func lastTurn(r dialogue.Result) *dialogue.Turn {
	if len(r.Transcript) == 0 {
		return nil
	}
	return &r.Transcript[len(r.Transcript)-1]
}

func takeAssessment(ctx context.Context, engine *service.Engine, session *service.Session) error {
	in := bufio.NewScanner(os.Stdin)
	answers := make(map[string]int)
	for i, q := range engine.Catalog().SkillTest() {
		fmt.Printf("%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Printf("  %d. %s\n", j+1, opt.Text)
		}
		choice, err := readChoice(in, len(q.Options))
		if err != nil {
			return err
		}
		answers[q.ID] = choice
	}

	result, err := session.RecordAssessment(ctx, answers)
	if err != nil {
		return err
	}
	fmt.Printf("Overall %d%%\n", result.Overall)
	for _, c := range engine.Catalog().Categories() {
		if pct, ok := result.Categories[c.ID]; ok {
			fmt.Printf("  %s %s: %d%%\n", c.Emoji, c.Name, pct)
		}
	}
	return nil
}

func printUsage() {
	fmt.Println("LifeOS")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  lifeos login <username>          Log in, creating the profile if needed")
	fmt.Println("  lifeos logout                    Log out the active profile")
	fmt.Println("  lifeos status                    Show level, coins, streak and badges")
	fmt.Println("  lifeos lesson <lesson-id>        Complete a lesson")
	fmt.Println("  lifeos habit <habit-id>          Toggle a habit for today")
	fmt.Println("  lifeos quest <quest-id>          Claim a quest reward")
	fmt.Println("  lifeos buy <item-id>             Buy a shop item")
	fmt.Println("  lifeos budget <allowance>        Split an allowance 50/30/20")
	fmt.Println("  lifeos goal <name> <target>      Add a savings goal")
	fmt.Println("  lifeos save <index> <amount>     Add money to a savings goal")
	fmt.Println("  lifeos scenario <scenario-id>    Play a dialogue scenario")
	fmt.Println("  lifeos assess                    Take the skill test")
}
