package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/zachmeador/pineneedle/internal/api"
	"github.com/zachmeador/pineneedle/internal/bot"
	"github.com/zachmeador/pineneedle/internal/config"
	"github.com/zachmeador/pineneedle/internal/jobprocessor"
	"github.com/zachmeador/pineneedle/internal/pdf"
	"github.com/zachmeador/pineneedle/pkg/logger"
	"github.com/zachmeador/pineneedle/pkg/types"
)

const usage = `pineneedle - personal resume generation assistant

Usage:
  pineneedle ingest [file]              parse a job posting (file or stdin)
  pineneedle list                       list stored job postings
  pineneedle delete <job-id>            delete a job posting
  pineneedle generate <job-id>          generate a tailored resume
  pineneedle versions <job-id>          list archived resume versions
  pineneedle export <job-id>            export a resume version to PDF
  pineneedle profile <list|create|switch|delete> [name]
  pineneedle tones                      list available tones
  pineneedle serve                      run the HTTP API server
  pineneedle bot                        run the Discord bot

Flags vary per command; run a command with -h for details.`

func main() {
	logger.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	env := config.Load()
	svc, err := jobprocessor.New(env, pdf.NewRenderer(), nil)
	if err != nil {
		slog.Error("Failed to initialize workspace", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := run(ctx, svc, os.Args[1], os.Args[2:]); err != nil {
		slog.Error("Command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *jobprocessor.Service, command string, args []string) error {
	switch command {
	case "ingest":
		return runIngest(ctx, svc, args)
	case "list":
		return runList(svc)
	case "delete":
		if len(args) < 1 {
			return fmt.Errorf("usage: pineneedle delete <job-id>")
		}
		return svc.DeletePosting(args[0])
	case "generate":
		return runGenerate(ctx, svc, args)
	case "versions":
		return runVersions(svc, args)
	case "export":
		return runExport(ctx, svc, args)
	case "profile":
		return runProfile(svc, args)
	case "tones":
		return runTones(svc)
	case "serve":
		return runServe(svc, args)
	case "bot":
		return runBot(svc)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func runIngest(ctx context.Context, svc *jobprocessor.Service, args []string) error {
	var raw []byte
	var err error
	if len(args) > 0 {
		raw, err = os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
	} else {
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
	}

	posting, err := svc.IngestPosting(ctx, string(raw), nil)
	if err != nil {
		return err
	}

	fmt.Printf("Saved %s at %s (id %s)\n", posting.Title, posting.Company, posting.ID)
	return nil
}

func runList(svc *jobprocessor.Service) error {
	postings, skipped, err := svc.ListPostings()
	if err != nil {
		return err
	}
	if len(postings) == 0 {
		fmt.Println("No job postings stored.")
		return nil
	}
	for _, p := range postings {
		location := p.Location
		if location == "" {
			location = "remote"
		}
		fmt.Printf("%s  %-24s %-32s %s\n", p.ID, p.Company, p.Title, location)
	}
	if skipped > 0 {
		fmt.Printf("(%d unreadable posting files skipped)\n", skipped)
	}
	return nil
}

func runGenerate(ctx context.Context, svc *jobprocessor.Service, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	tone := fs.String("tone", "", "tone name or free-form tone description")
	templateName := fs.String("template", "", "template name (default: default)")
	feedback := fs.String("feedback", "", "revision feedback for regeneration")
	provider := fs.String("provider", "", "model provider override")
	model := fs.String("model", "", "model name override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: pineneedle generate <job-id> [flags]")
	}

	req := types.GenerationRequest{
		JobPostingID: fs.Arg(0),
		Tone:         *tone,
		UserFeedback: *feedback,
	}
	if *provider != "" && *model != "" {
		req.ModelConfig = &types.ModelConfig{Provider: *provider, ModelName: *model, Temperature: 0.7}
	}

	_, path, err := svc.GenerateResume(ctx, req, *templateName)
	if err != nil {
		return err
	}
	fmt.Printf("Resume archived at %s\n", path)
	return nil
}

func runVersions(svc *jobprocessor.Service, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: pineneedle versions <job-id>")
	}
	versions, err := svc.ListVersions(args[0])
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		fmt.Println("No resume versions for this job.")
		return nil
	}
	for _, v := range versions {
		fmt.Printf("%s  %s\n", v.Timestamp, v.Path)
	}
	return nil
}

func runExport(ctx context.Context, svc *jobprocessor.Service, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	version := fs.String("version", "", "version timestamp (default: latest)")
	style := fs.String("style", "professional", "pdf style")
	force := fs.Bool("force", false, "re-render even if a PDF already exists")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: pineneedle export <job-id> [flags]")
	}

	result, err := svc.ExportPDF(ctx, fs.Arg(0), *version, *style, *force)
	if err != nil {
		return err
	}
	if result.Reused {
		fmt.Printf("PDF already exists at %s (%d bytes); use -force to re-render\n", result.Path, result.SizeBytes)
	} else {
		fmt.Printf("Exported %s (%d bytes)\n", result.Path, result.SizeBytes)
	}
	return nil
}

func runProfile(svc *jobprocessor.Service, args []string) error {
	if len(args) < 1 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		profiles, err := svc.ListProfiles()
		if err != nil {
			return err
		}
		current, err := svc.CurrentProfile()
		if err != nil {
			return err
		}
		for _, p := range profiles {
			marker := " "
			if p.Name == current.Name {
				marker = "*"
			}
			fmt.Printf("%s %-16s %s\n", marker, p.Name, p.DisplayName)
		}
		return nil
	case "create":
		if len(args) < 2 {
			return fmt.Errorf("usage: pineneedle profile create <name> [display name]")
		}
		displayName := args[1]
		if len(args) > 2 {
			displayName = args[2]
		}
		return svc.CreateProfile(args[1], displayName, "")
	case "switch":
		if len(args) < 2 {
			return fmt.Errorf("usage: pineneedle profile switch <name>")
		}
		return svc.SwitchProfile(args[1])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: pineneedle profile delete <name>")
		}
		return svc.DeleteProfile(args[1])
	default:
		return fmt.Errorf("unknown profile subcommand %q", args[0])
	}
}

func runTones(svc *jobprocessor.Service) error {
	tones, skipped := svc.ListTones()
	if len(tones) == 0 {
		fmt.Println("No tones defined. Add YAML files under the tones directory.")
		return nil
	}
	for _, t := range tones {
		fmt.Printf("%-16s %s\n", t.Name, t.Description)
	}
	if skipped > 0 {
		fmt.Printf("(%d unreadable tone files skipped)\n", skipped)
	}
	return nil
}

func runServe(svc *jobprocessor.Service, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	port := fs.Int("port", defaultPort(), "port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	server := api.NewServer(*port, svc)
	slog.Info("Server initialized", "port", *port)
	return server.Start()
}

func defaultPort() int {
	if portEnv := os.Getenv("PORT"); portEnv != "" {
		if p, err := strconv.Atoi(portEnv); err == nil {
			return p
		}
	}
	return 8080
}

func runBot(svc *jobprocessor.Service) error {
	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		return fmt.Errorf("DISCORD_BOT_TOKEN environment variable is required")
	}

	b, err := bot.New(token, svc)
	if err != nil {
		return err
	}
	if err := b.Start(); err != nil {
		return err
	}
	defer b.Close()
	select {}
}
