package process

import (
	"context"
	"fmt"

	"ewintr.nl/ytsum/config"
	"ewintr.nl/ytsum/fetch"
	"ewintr.nl/ytsum/model"
	"ewintr.nl/ytsum/storage"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

type Pipeline struct {
	channels    fetch.ChannelResolver
	lister      fetch.ChannelReader
	transcripts fetch.TranscriptFetcher
	metadata    fetch.MetadataFetcher
	summarizer  Summarizer
	files       storage.TextRepository
	cfg         config.Config
	logger      *slog.Logger
}

func NewPipeline(cfg config.Config, channels fetch.ChannelResolver, lister fetch.ChannelReader, transcripts fetch.TranscriptFetcher, metadata fetch.MetadataFetcher, summarizer Summarizer, files storage.TextRepository, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		channels:    channels,
		lister:      lister,
		transcripts: transcripts,
		metadata:    metadata,
		summarizer:  summarizer,
		files:       files,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run processes every video of the channel, one after the other. Problems
// with a single video are logged and the run continues with the next one.
// The run stops when the channel cannot be resolved or listed, or when a
// file cannot be written.
func (p *Pipeline) Run(ctx context.Context, channelInput string) (model.Report, error) {
	var report model.Report
	logger := p.logger.With(slog.String("run", uuid.NewString()))

	logger.Info("resolving channel", slog.String("input", channelInput))
	channelID, err := p.channels.ResolveChannel(ctx, channelInput)
	if err != nil {
		logger.Error("failed to get channel id", slog.String("input", channelInput), slog.String("error", err.Error()))
		return report, fmt.Errorf("failed to resolve channel %q: %w", channelInput, err)
	}
	logger = logger.With(slog.String("channel", string(channelID)))
	logger.Info("listing videos")

	for ytID, err := range fetch.ChannelVideos(ctx, p.lister, channelID) {
		if err != nil {
			logger.Error("failed to list videos", slog.String("error", err.Error()))
			return report, err
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		video := &model.Video{
			ID:               uuid.New(),
			Status:           model.StatusNew,
			YoutubeID:        ytID,
			YoutubeChannelID: channelID,
		}
		procErr := p.process(ctx, logger, video)
		report.Add(video)
		if procErr != nil {
			logger.Error("aborting run", slog.String("video", string(ytID)), slog.String("error", procErr.Error()))
			return report, procErr
		}
	}
	if err := ctx.Err(); err != nil {
		logger.Error("run cancelled", slog.String("error", err.Error()))
		return report, err
	}

	logger.Info("run finished",
		slog.Int("videos", report.Videos),
		slog.Int("transcripts", report.Transcripts),
		slog.Int("summaries", report.Summaries),
		slog.Int("skipped", report.Skipped),
	)

	return report, nil
}

// Process takes a single video through all stages. Only a failure to write
// a file is returned, everything else is logged and ends the processing of
// this video.
func (p *Pipeline) Process(ctx context.Context, video *model.Video) error {
	return p.process(ctx, p.logger, video)
}

func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, video *model.Video) error {
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	logger = logger.With(slog.String("video", string(video.YoutubeID)), slog.String("id", video.ID.String()))
	logger.Debug("processing video")

	transcript, err := p.transcripts.FetchTranscript(ctx, video.YoutubeID)
	if err != nil {
		logger.Error("failed to retrieve transcript", slog.String("error", err.Error()))
		return nil
	}
	video.Transcript = transcript.Text()
	if video.Transcript == "" {
		logger.Error("failed to retrieve transcript", slog.String("error", "transcript is empty"))
		return nil
	}

	mds, err := p.metadata.FetchMetadata(ctx, []model.YoutubeVideoID{video.YoutubeID})
	if err != nil {
		logger.Error("failed to fetch metadata", slog.String("error", err.Error()))
		return nil
	}
	md, ok := mds[video.YoutubeID]
	if !ok {
		logger.Error("failed to fetch metadata", slog.String("error", "video not found"))
		return nil
	}
	video.YoutubeTitle = md.Title
	video.YoutubeChannelTitle = md.ChannelTitle
	filename := model.Filename(md.ChannelTitle, md.Title)

	if err := p.files.Save(p.cfg.TranscriptsDir, filename, video.Transcript); err != nil {
		return err
	}
	video.Status = model.StatusFetched
	logger.Info("saved transcript", slog.String("file", filename))

	summary, err := p.summarizer.Summarize(ctx, video.Transcript)
	if err != nil {
		logger.Error("failed to generate summary", slog.String("error", err.Error()))
		return nil
	}
	video.Summary = summary

	if err := p.files.Save(p.cfg.SummariesDir, filename, video.Summary); err != nil {
		return err
	}
	video.Status = model.StatusReady
	logger.Info("processed and saved transcript and summary", slog.String("file", filename))

	return nil
}
