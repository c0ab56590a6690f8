package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"ewintr.nl/ytsum/config"
	"ewintr.nl/ytsum/fetch"
	"ewintr.nl/ytsum/process"
	"ewintr.nl/ytsum/storage"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"
	"golang.org/x/term"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	ExitOK         = 0
	ExitCLIError   = 1
	ExitRunAborted = 2
)

const channelPrompt = "Enter YouTube channel URL or ID: "

// ExitError wraps an error with a process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// flagKeys maps command line flags to their configuration key.
var flagKeys = map[string]string{
	"transcripts-dir": "transcripts_dir",
	"summaries-dir":   "summaries_dir",
	"log-file":        "log_file",
	"log-level":       "log_level",
	"log-stderr":      "log_stderr",
	"model":           "openai_model",
	"max-tokens":      "max_tokens",
}

func newRootCmd() *cobra.Command {
	def := config.Default()
	root := &cobra.Command{
		Use:   "ytsum [channel-url-or-id]",
		Short: "Save transcripts and summaries of all videos of a YouTube channel",
		Long: "ytsum lists every video of a YouTube channel, saves its transcript and a summary\n" +
			"generated by a language model as text files. Without an argument the channel is read\n" +
			"from standard input.\n\n" +
			"API keys are read from " + config.EnvPrefix + "_YOUTUBE_API_KEY and " + config.EnvPrefix + "_OPENAI_API_KEY\n" +
			"or from the config file.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runRoot,
	}

	fs := root.Flags()
	fs.String("config", "", "Path to config file (default ./ytsum.yaml when present)")
	fs.String("transcripts-dir", def.TranscriptsDir, "Folder for transcripts")
	fs.String("summaries-dir", def.SummariesDir, "Folder for summaries")
	fs.String("log-file", def.LogFile, "Log file, appended to")
	fs.String("log-level", def.LogLevel, "Log level: debug, info, warn, error")
	fs.Bool("log-stderr", def.LogStderr, "Also write log lines to stderr")
	fs.String("model", def.OpenAIModel, "Model used for summaries")
	fs.Int("max-tokens", def.MaxTokens, "Maximum length of a summary in tokens")

	return root
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return config.Config{}, err
		}
	}
	path, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(v, path); err != nil {
		return config.Config{}, err
	}

	return config.Load(v)
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	var input string
	if len(args) == 1 {
		input = args[0]
	} else {
		input, err = readChannelInput(cmd.InOrStdin(), cmd.OutOrStdout(), isTerminal())
		if err != nil {
			return &ExitError{Code: ExitCLIError, Err: err}
		}
	}

	logger, logFile, err := newLogger(cfg.LogFile, cfg.LogLevel, cfg.LogStderr)
	if err != nil {
		return &ExitError{Code: ExitCLIError, Err: err}
	}
	defer logFile.Close()

	pipeline, err := newPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		logger.Error("unable to create pipeline", slog.String("error", err.Error()))
		return &ExitError{Code: ExitCLIError, Err: err}
	}

	report, err := pipeline.Run(cmd.Context(), input)
	if err != nil {
		return &ExitError{Code: ExitRunAborted, Err: err}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "processed %d videos: %d transcripts, %d summaries, %d skipped (see %s)\n",
		report.Videos, report.Transcripts, report.Summaries, report.Skipped, cfg.LogFile)

	return nil
}

func newPipeline(ctx context.Context, cfg config.Config, logger *slog.Logger) (*process.Pipeline, error) {
	ytClient, err := youtube.NewService(ctx, option.WithAPIKey(cfg.YoutubeAPIKey))
	if err != nil {
		return nil, fmt.Errorf("unable to create youtube service: %w", err)
	}
	yt := fetch.NewYoutube(ytClient)

	openAIConfig := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		openAIConfig.BaseURL = cfg.OpenAIBaseURL
	}
	summarizer := process.NewOpenAISummarizer(openai.NewClientWithConfig(openAIConfig), cfg.OpenAIModel, cfg.MaxTokens)

	transcripter := fetch.NewTranscripter(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.Languages)

	return process.NewPipeline(cfg, yt, yt, transcripter, yt, summarizer, storage.NewFiles(), logger), nil
}

// readChannelInput reads a single line. The prompt is only shown when a
// person is typing.
func readChannelInput(in io.Reader, out io.Writer, interactive bool) (string, error) {
	if interactive {
		fmt.Fprint(out, channelPrompt)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading channel: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no channel given")
	}

	return line, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
