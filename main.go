package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"foldertree/internal/config"
	"foldertree/internal/logging"
	"foldertree/internal/model"
	"foldertree/internal/tui"
	"foldertree/internal/web"
	"foldertree/internal/workspace"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/tcnksm/go-latest"
	"go.uber.org/zap"
)

const (
	releaseOwner = "foldertree"
	releaseRepo  = "foldertree"
)

func checkUpdate(currentVer string) {
	githubTag := &latest.GithubTag{
		Owner:      releaseOwner,
		Repository: releaseRepo,
	}

	res, err := latest.Check(githubTag, currentVer)
	if err != nil {
		return // Silently fail
	}

	if res.Outdated {
		fmt.Printf("\n✨ A new version is available: %s (you have %s)\n", res.Current, currentVer)
		fmt.Printf("👉 Download it from https://github.com/%s/%s/releases\n", releaseOwner, releaseRepo)
	} else if pflag.Lookup("update").Changed {
		fmt.Printf("✅ You are using the latest version: %s\n", currentVer)
	}
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: foldertree [options]\n\n")
		fmt.Fprintf(os.Stderr, "foldertree shows a pinned set of folders as one live tree.\n")
		fmt.Fprintf(os.Stderr, "Expanded folders are remembered between runs and the tree\n")
		fmt.Fprintf(os.Stderr, "refreshes itself when files change on disk.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  foldertree                 # Start TUI mode\n")
		fmt.Fprintf(os.Stderr, "  foldertree --add ~/notes   # Pin a folder\n")
		fmt.Fprintf(os.Stderr, "  foldertree --list          # Print the tree to stdout\n")
		fmt.Fprintf(os.Stderr, "  foldertree --web           # Serve the tree on http://localhost:8080\n")
	}

	configFlag := pflag.StringP("config", "c", "", "Settings file (default $XDG_CONFIG_HOME/foldertree/config.yaml)")
	stateDirFlag := pflag.String("state-dir", "", "Directory for remembered expansion state and the log file")
	webFlag := pflag.BoolP("web", "w", false, "Start Web Mode")
	addrFlag := pflag.String("addr", "localhost:8080", "Listen address for Web Mode")
	listFlag := pflag.BoolP("list", "l", false, "Print the tree once, descending into expanded folders")
	addFlag := pflag.String("add", "", "Add a root folder and exit")
	removeFlag := pflag.String("remove", "", "Remove a root folder from the list and exit")
	showHiddenFlag := pflag.Bool("show-hidden", false, "Show dotfiles for this run")
	logLevelFlag := pflag.String("log-level", "", "Log level: debug, info, warn, error")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	updateFlag := pflag.BoolP("update", "u", false, "Check for latest version")
	helpFlag := pflag.BoolP("help", "h", false, "Show this help message")
	pflag.Parse()

	if *helpFlag {
		pflag.Usage()
		return
	}

	if *versionFlag {
		fmt.Printf("foldertree version %s\n", model.Version)
		return
	}

	if *updateFlag {
		checkUpdate(model.Version)
		return
	}

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *configFlag != "" {
		env.ConfigPath = model.ExpandTilde(*configFlag)
	}
	if *stateDirFlag != "" {
		env.StateDir = model.ExpandTilde(*stateDirFlag)
		if os.Getenv("FOLDERTREE_LOG_FILE") == "" {
			env.LogFile = filepath.Join(env.StateDir, "foldertree.log")
		}
	}
	if *logLevelFlag != "" {
		env.LogLevel = *logLevelFlag
	}

	interactive := !*webFlag && !*listFlag && *addFlag == "" && *removeFlag == ""
	logger := newLogger(env, interactive)
	defer logger.Sync()

	opts := workspace.Options{
		ConfigPath:  env.ConfigPath,
		StateDir:    env.StateDir,
		Logger:      logger,
		WatchConfig: interactive || *webFlag,
	}
	if pflag.Lookup("show-hidden").Changed {
		show := *showHiddenFlag
		opts.ShowHidden = &show
	}

	ws, err := workspace.Open(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	code := 0
	switch {
	case *addFlag != "":
		code = runFolderCommand(ws.AddFolder, *addFlag)
	case *removeFlag != "":
		code = runFolderCommand(ws.RemoveFolder, *removeFlag)
	case *listFlag:
		runListMode(ws)
	case *webFlag:
		code = runWebMode(ws, *addrFlag, logger)
	default:
		code = runTuiMode(ws)
	}

	if err := ws.Close(); err != nil {
		logger.Warn("close workspace", zap.Error(err))
	}
	if code != 0 {
		os.Exit(code)
	}
}

// newLogger sends logs to a file while the TUI owns the terminal and to
// stderr otherwise.
func newLogger(env config.Env, interactive bool) *zap.Logger {
	if !interactive {
		cfg := logging.DefaultConfig()
		cfg.Level = env.LogLevel
		return logging.NewOrNop(cfg)
	}
	if err := os.MkdirAll(filepath.Dir(env.LogFile), 0o755); err != nil {
		return zap.NewNop()
	}
	return logging.NewOrNop(logging.FileConfig(env.LogLevel, env.LogFile))
}

func runFolderCommand(action func(string) (string, error), path string) int {
	msg, err := action(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Println(msg)
	return 0
}

func runListMode(ws *workspace.Workspace) {
	rows := tui.Flatten(context.Background(), ws.Host())
	if len(rows) == 0 {
		fmt.Println("No folders configured. Add one with --add <path>.")
		return
	}
	for _, row := range rows {
		fmt.Printf("%s%s %s\n", strings.Repeat("  ", row.Depth), row.State.Icon, row.State.Label)
	}
}

func runWebMode(ws *workspace.Workspace, addr string, logger *zap.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := web.StartServer(ctx, addr, ws, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func runTuiMode(ws *workspace.Workspace) int {
	m := tui.InitialModel(ws)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		return 1
	}
	return 0
}
