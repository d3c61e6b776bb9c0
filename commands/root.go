package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/castgrep/internal/config"
	"github.com/penwyp/castgrep/internal/searcher"
	"github.com/penwyp/castgrep/internal/util"
)

var (
	// Logging related
	debug bool

	// Matching
	caseInsensitive bool
	maxCount        int

	// Output related
	listOnly    bool
	lineNumbers bool
	colorMode   string
	fullScreen  bool
	timezone    string

	// Input selection
	channel string
	follow  bool

	rootCmd = &cobra.Command{
		Use:   "castgrep <pattern> [file...]",
		Short: "Search terminal session recordings for on-screen text",
		Long: `castgrep searches asciicast terminal recordings for a text pattern and
reports when the pattern was visible on screen, as time-ranged match spans.

Raw recording bytes are full of control sequences, partial redraws and cursor
movement, so a naive text search over the log is useless. castgrep replays the
recording through a terminal emulator and matches against the reconstructed
screen instead.

Examples:
  castgrep 'error' session.cast                 # Search a recording
  castgrep -i 'warn(ing)?' a.cast b.cast.gz     # Case-insensitive, many files
  castgrep -n 'panic' session.cast              # Show line numbers
  castgrep -l 'token' *.cast                    # Only names of matching files
  castgrep -F 'deploy' session.cast             # Print the whole frame
  castgrep --channel input 'rm -rf' session.cast # Search recorded keystrokes
  castgrep -f 'FAIL' live.cast                  # Follow a growing recording`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
)

const defaultLogFile = "~/.castgrep/logs/app.log"

func init() {
	// Matching
	rootCmd.Flags().BoolVarP(&caseInsensitive, "case-insensitive", "i", false,
		"Make the search case-insensitive")
	rootCmd.Flags().IntVarP(&maxCount, "max-count", "m", 0,
		"Stop a file after this many matches (0 = unlimited)")

	// Output configuration
	rootCmd.Flags().BoolVarP(&listOnly, "files-with-matches", "l", false,
		"Print only the names of files containing matches")
	rootCmd.Flags().BoolVarP(&lineNumbers, "line-number", "n", false,
		"Prefix matching lines with their line number")
	rootCmd.Flags().StringVar(&colorMode, "color", "",
		"Highlight matches (auto, always, never)")
	rootCmd.Flags().BoolVarP(&fullScreen, "full-screen", "F", false,
		"Print the whole reconstructed frame for each match")
	rootCmd.Flags().StringVar(&timezone, "timezone", "",
		"Timezone for match timestamps (e.g. Local, UTC, Asia/Shanghai)")

	// Input selection
	rootCmd.Flags().StringVar(&channel, "channel", "",
		"Recording channel to search (output, input)")
	rootCmd.Flags().BoolVarP(&follow, "follow", "f", false,
		"Keep searching as the recording grows")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	// Determine log level based on debug flag
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		logFile = ""
	}
	util.InitLogger(logLevel, logFile, debug)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, cfg)

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return err
	}

	files := args[1:]
	searchConfig := &searcher.Config{
		Pattern:         args[0],
		Files:           files,
		CaseInsensitive: caseInsensitive,
		MaxCount:        maxCount,
		ListOnly:        listOnly,
		LineNumbers:     lineNumbers,
		Color:           cfg.Color,
		FullScreen:      fullScreen,
		Channel:         cfg.Channel,
		Follow:          follow,
	}

	s, err := searcher.New(searchConfig)
	if err != nil {
		return err
	}
	return s.Run()
}

// applyFlagOverrides gives explicit command-line flags the last word
// over config file and environment values.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("color") {
		cfg.Color = colorMode
	}
	if cmd.Flags().Changed("timezone") {
		cfg.Timezone = timezone
	}
	if cmd.Flags().Changed("channel") {
		cfg.Channel = channel
	}
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
