package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/yourusername/copilot-core/config"
	"github.com/yourusername/copilot-core/internal/analyzer"
	"github.com/yourusername/copilot-core/internal/cache"
	"github.com/yourusername/copilot-core/internal/contextmgr"
	"github.com/yourusername/copilot-core/internal/copilot"
	"github.com/yourusername/copilot-core/internal/indexer"
	"github.com/yourusername/copilot-core/internal/llm"
	"github.com/yourusername/copilot-core/internal/logger"
	"github.com/yourusername/copilot-core/internal/plugins"
	"github.com/yourusername/copilot-core/storage"
	"github.com/yourusername/copilot-core/internal/template"
	"github.com/yourusername/copilot-core/models"
)

var version = "1.0.0"

type app struct {
	config   *config.Manager
	engine   *copilot.Engine
	plugins  *plugins.Manager
	indexer  *indexer.CodeIndexer
	watcher  *indexer.Watcher
	store    storage.HistoryStore
	logger   *zap.Logger
	userID   string
	language string
}

func main() {
	fmt.Printf("🤖 Copilot Core v%s\n", version)

	_ = godotenv.Load()

	application, err := newApp()
	if err != nil {
		fmt.Printf("❌ Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer application.close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		fmt.Println("\n👋 Shutting down...")
		cancel()
	}()

	showWelcome()
	application.runInteractive(ctx)
}

func newApp() (*app, error) {
	configManager := config.NewManager(nil)
	if err := configManager.Load(); err != nil {
		return nil, err
	}
	cfg, err := configManager.Get()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	configManager = config.NewManager(log)
	configManager.Set(cfg)
	if !configManager.Validate() {
		log.Warn("configuration has validation problems, continuing with what loaded")
	}

	var store storage.HistoryStore
	if cfg.Storage.DatabasePath != "" {
		sqliteStore, err := storage.NewSQLiteStore(cfg.Storage.DatabasePath)
		if err != nil {
			log.Warn("sqlite unavailable, falling back to in-memory history", zap.Error(err))
			store = storage.NewMemoryStore()
		} else {
			store = sqliteStore
		}
	} else {
		store = storage.NewMemoryStore()
	}

	codeIndexer := indexer.NewCodeIndexer()
	watcher, err := indexer.NewWatcher(codeIndexer, cfg.App.Extensions, cfg.App.ExcludeDirs, log)
	if err != nil {
		return nil, err
	}

	contextCache := cache.NewContextCache(cfg.Context.CacheTTL, cfg.Context.CacheMaxSize)
	contexts := contextmgr.NewManager(contextCache, codeIndexer, store, log)

	pluginManager := plugins.NewManager(log)
	if err := pluginManager.Initialize(); err != nil {
		return nil, err
	}
	for _, disabled := range cfg.Plugins.Disabled {
		pluginManager.UnregisterPlugin(disabled)
	}

	providers, err := llm.NewManager(llm.ProvidersConfig{
		Primary:       cfg.AI.Provider,
		FallbackOrder: cfg.AI.FallbackOrder,
		OpenAI:        cfg.AI.OpenAI,
	}, log)
	if err != nil {
		return nil, err
	}

	engine := copilot.NewEngine(
		contexts,
		template.NewEngine(log),
		llm.NewCodeGenerator(providers, log),
		analyzer.NewCodeAnalyzer(log),
		log,
	)

	return &app{
		config:   configManager,
		engine:   engine,
		plugins:  pluginManager,
		indexer:  codeIndexer,
		watcher:  watcher,
		store:    store,
		logger:   log,
		userID:   "default-user",
		language: "javascript",
	}, nil
}

func (a *app) close() {
	a.watcher.Close()
	a.plugins.Shutdown()
	a.store.Close()
	_ = a.logger.Sync()
}

func (a *app) runInteractive(ctx context.Context) {
	promptColor := color.New(color.FgCyan, color.Bold)
	scanner := bufio.NewScanner(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		promptColor.Print("copilot> ")
		if !scanner.Scan() {
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		command, arg := splitCommand(input)
		switch command {
		case "quit", "exit", "q":
			fmt.Println("👋 Goodbye!")
			return
		case "help", "h":
			showHelp()
		case "index":
			a.runIndexing(ctx, arg)
		case "files":
			a.showFiles()
		case "lang":
			a.setLanguage(arg)
		case "analyze":
			a.analyzeFile(arg)
		case "context":
			a.showProjectContext(arg)
		default:
			a.generate(ctx, input)
		}
	}
}

func splitCommand(input string) (string, string) {
	parts := strings.SplitN(input, " ", 2)
	command := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return command, ""
	}
	return command, strings.TrimSpace(parts[1])
}

func (a *app) generate(ctx context.Context, prompt string) {
	if err := a.engine.RecordPrompt(a.userID, prompt); err != nil {
		a.logger.Warn("failed to record prompt", zap.Error(err))
	}

	generated, err := a.engine.GenerateCode(ctx, &models.CodeGenerationRequest{
		Prompt:   prompt,
		Language: a.language,
		Context:  &models.CodeContext{UserID: a.userID},
	})
	if err != nil {
		color.Red("❌ %v\n", err)
		return
	}

	color.New(color.FgGreen).Printf("✅ Generated (%s, confidence %.2f)\n",
		generated.Metadata.Source, generated.Confidence)
	if generated.Code != "" {
		color.New(color.FgYellow).Printf("\n📝 Code (%s):\n", a.language)
		fmt.Println(generated.Code)
	}
	if generated.Explanation != "" {
		fmt.Printf("\n%s\n", generated.Explanation)
	}
	for _, suggestion := range generated.Suggestions {
		fmt.Printf("  💡 %s\n", suggestion)
	}
}

func (a *app) runIndexing(ctx context.Context, root string) {
	if root == "" {
		cfg, err := a.config.Get()
		if err != nil {
			color.Red("❌ %v\n", err)
			return
		}
		root = cfg.App.ProjectRoot
	}

	paths, err := a.collectFiles(root)
	if err != nil {
		color.Red("❌ Indexing failed: %v\n", err)
		return
	}

	bar := progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
	)
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			a.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			continue
		}
		a.indexer.IndexFile(path, string(content))
		_ = bar.Add(1)
	}
	fmt.Println()

	if err := a.watcher.Start(ctx, root); err != nil {
		a.logger.Warn("file watcher unavailable", zap.Error(err))
	}
	color.Green("✅ Indexed %d files under %s\n", len(paths), root)
}

func (a *app) collectFiles(root string) ([]string, error) {
	cfg, err := a.config.Get()
	if err != nil {
		return nil, err
	}

	extensions := make(map[string]bool, len(cfg.App.Extensions))
	for _, ext := range cfg.App.Extensions {
		extensions[ext] = true
	}
	excluded := make(map[string]bool, len(cfg.App.ExcludeDirs))
	for _, dir := range cfg.App.ExcludeDirs {
		excluded[dir] = true
	}

	var paths []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if excluded[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Size() > cfg.Context.MaxFileSize {
			return nil
		}
		if extensions[filepath.Ext(path)] {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

func (a *app) showFiles() {
	files := a.indexer.Files()
	if len(files) == 0 {
		color.Yellow("No files indexed yet. Run \"index <path>\" first.\n")
		return
	}
	for _, path := range files {
		fmt.Printf("  📄 %s\n", path)
	}
	fmt.Printf("%d files indexed\n", len(files))
}

func (a *app) setLanguage(language string) {
	if language == "" {
		fmt.Printf("Current language: %s\n", a.language)
		return
	}
	if _, ok := a.plugins.GetPlugin(language); !ok {
		color.Yellow("⚠ No plugin for %q; generation will rely on the AI provider.\n", language)
	}
	a.language = language
	color.Green("✅ Language set to %s\n", language)
}

func (a *app) analyzeFile(path string) {
	if path == "" {
		color.Red("Usage: analyze <file>\n")
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		color.Red("❌ %v\n", err)
		return
	}

	language := a.plugins.DetectLanguage(path, string(content))
	if language == "" {
		color.Red("❌ Could not detect the language of %s\n", path)
		return
	}

	result, err := a.engine.AnalyzeCode(string(content), language, path)
	if err != nil {
		color.Red("❌ %v\n", err)
		return
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("\n📊 Analysis of %s (%s)\n", path, language)
	fmt.Printf("  Complexity: %d\n", result.Complexity)
	fmt.Printf("  Dependencies: %s\n", strings.Join(result.Dependencies, ", "))
	fmt.Printf("  Exports: %s\n", strings.Join(result.Exports, ", "))
	for _, pattern := range result.Patterns {
		fmt.Printf("  🔍 %s %q at line %d\n", pattern.Type, pattern.Name, pattern.Location.Start)
	}
	for _, issue := range result.Issues {
		color.Yellow("  ⚠ line %d: %s\n", issue.Location.Line, issue.Message)
	}
}

func (a *app) showProjectContext(root string) {
	if root == "" {
		root = "."
	}
	project, err := a.engine.GetProjectContext(root)
	if err != nil {
		color.Red("❌ %v\n", err)
		return
	}

	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("\n🗂 Project context for %s\n", root)
	fmt.Printf("  Language:  %s\n", project.Language)
	if project.Framework != "" {
		fmt.Printf("  Framework: %s\n", project.Framework)
	}
	fmt.Printf("  Files:     %d\n", len(project.Structure.Files))
	if len(project.Dependencies) > 0 {
		fmt.Printf("  Dependencies: %s\n", strings.Join(project.Dependencies, ", "))
	}
}

func showWelcome() {
	fmt.Println("Type a prompt to generate code, or a command:")
	showHelp()
}

func showHelp() {
	yellow := color.New(color.FgYellow)
	yellow.Println("  index [path]    index project files (and watch for changes)")
	yellow.Println("  files           list indexed files")
	yellow.Println("  lang <name>     set the generation language")
	yellow.Println("  analyze <file>  analyze a source file")
	yellow.Println("  context [path]  show the detected project context")
	yellow.Println("  help            show this help")
	yellow.Println("  quit            exit")
}
