// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences one digest run: locate the newest episode,
// fetch its transcript cache-first, summarize it through the AI backend,
// and deliver the summary to the webhook. Stages run strictly one after
// another; the only suspend points are outbound calls and retry backoffs.
package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/digest-relay/internal/deliver"
	"github.com/pdiddy/digest-relay/internal/httpcall"
	"github.com/pdiddy/digest-relay/internal/locate"
	"github.com/pdiddy/digest-relay/internal/summarize"
	"github.com/pdiddy/digest-relay/internal/transcript"
	"github.com/pdiddy/digest-relay/pkg/types"
)

// Outcome is the terminal state of a run. "No new video" and "empty
// transcript" are normal outcomes, not errors.
type Outcome string

const (
	OutcomeDelivered       Outcome = "delivered"
	OutcomeNoNewVideo      Outcome = "no-new-video"
	OutcomeEmptyTranscript Outcome = "empty-transcript"
)

// Stage names carried by StageError.
const (
	StageLocate          = "locate"
	StageFetchTranscript = "fetch-transcript"
	StageSummarize       = "summarize"
	StageDeliver         = "deliver"
)

// StageError marks which stage failed a run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// TranscriptSource resolves a watch link to a transcript document and
// reports whether the cache served it. Satisfied by transcript.Source.
type TranscriptSource interface {
	Document(ctx context.Context, link string) (*types.TranscriptDocument, bool, error)
}

// Summarizer produces a reply for transcript text. Satisfied by
// summarize.Client.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (*types.AIReply, error)
}

// Deliverer sends a titled summary to the destination. Satisfied by
// deliver.Sender.
type Deliverer interface {
	Deliver(ctx context.Context, title, message string) (deliver.Stats, error)
}

// DetailResolver resolves one watch link to a candidate. The Data API
// backend implements it; the feed backend has no per-video endpoint.
type DetailResolver interface {
	DetailByLink(ctx context.Context, cfg types.LocateConfig, link string) (*types.VideoCandidate, error)
}

// Pipeline owns one run's collaborators. Construct with New, or fill the
// fields directly in tests.
type Pipeline struct {
	Cfg         *types.PipelineConfig
	Backend     locate.Backend
	Transcripts TranscriptSource
	Summarizer  Summarizer
	Sender      Deliverer
	Log         *zap.SugaredLogger
}

// New wires the production collaborators from cfg. Every outbound call
// shares one retry policy; each stage gets an HTTP client with its own
// timeout.
func New(cfg *types.PipelineConfig, log *zap.SugaredLogger) *Pipeline {
	policy := httpcall.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		Logger:      log,
	}

	var backend locate.Backend
	if cfg.Locate.Backend == types.LocateBackendFeed {
		backend = &locate.FeedBackend{Client: stageClient(cfg.Locate.HTTPConfig), Policy: policy}
	} else {
		backend = &locate.DataAPIBackend{Client: stageClient(cfg.Locate.HTTPConfig), Policy: policy}
	}

	return &Pipeline{
		Cfg:     cfg,
		Backend: backend,
		Transcripts: &transcript.Source{
			Cfg:    cfg.Transcript,
			Client: stageClient(cfg.Transcript.HTTPConfig),
			Policy: policy,
			Cache:  &transcript.Cache{Dir: cfg.Transcript.CacheDir, Log: log},
			Log:    log,
		},
		Summarizer: &summarize.Client{
			Cfg:    cfg.Summarize,
			Client: stageClient(cfg.Summarize.HTTPConfig),
			Policy: policy,
			Log:    log,
		},
		Sender: &deliver.Sender{
			Cfg:    cfg.Deliver,
			Client: stageClient(cfg.Deliver.HTTPConfig),
			Policy: policy,
			Log:    log,
		},
		Log: log,
	}
}

func stageClient(cfg types.HTTPConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout}
}

// Run processes the channel's latest matching episode. Finding nothing new
// is a normal terminal outcome, not an error.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	p.log().Infow("locating latest episode",
		"backend", p.Backend.Name(),
		"channel_id", p.Cfg.Locate.ChannelID,
		"title_prefix", p.Cfg.Locate.TitlePrefix)

	candidates, err := p.Backend.Recent(ctx, p.Cfg.Locate)
	if err != nil {
		return nil, &StageError{Stage: StageLocate, Err: err}
	}

	video := locate.SelectLatest(candidates, p.Cfg.Locate.TitlePrefix)
	if video == nil {
		p.log().Infow("no new episode found",
			"candidates", len(candidates), "title_prefix", p.Cfg.Locate.TitlePrefix)
		return &Report{Outcome: OutcomeNoNewVideo}, nil
	}

	p.log().Infow("episode located",
		"video_id", video.ID, "title", video.Title, "published_at", video.PublishedAt)
	return p.process(ctx, video)
}

// RunLink processes one video on demand, bypassing the channel search. The
// locate backend must resolve single links (the Data API backend does).
func (p *Pipeline) RunLink(ctx context.Context, link string) (*Report, error) {
	resolver, ok := p.Backend.(DetailResolver)
	if !ok {
		return nil, &StageError{
			Stage: StageLocate,
			Err:   fmt.Errorf("locate backend %q cannot resolve a single link; use the api backend", p.Backend.Name()),
		}
	}

	video, err := resolver.DetailByLink(ctx, p.Cfg.Locate, link)
	if err != nil {
		return nil, &StageError{Stage: StageLocate, Err: err}
	}

	p.log().Infow("video resolved", "video_id", video.ID, "title", video.Title)
	return p.process(ctx, video)
}

// process runs the shared tail of both entry points: transcript, summary,
// delivery.
func (p *Pipeline) process(ctx context.Context, video *types.VideoCandidate) (*Report, error) {
	report := &Report{Video: video}

	doc, cacheHit, err := p.Transcripts.Document(ctx, video.Link)
	if err != nil {
		return nil, &StageError{Stage: StageFetchTranscript, Err: err}
	}
	report.CacheHit = cacheHit

	text := transcript.Flatten(doc)
	report.TranscriptChars = len([]rune(text))
	if strings.TrimSpace(text) == "" {
		p.log().Infow("transcript is empty, nothing to summarize", "video_id", video.ID)
		report.Outcome = OutcomeEmptyTranscript
		return report, nil
	}

	p.log().Infow("transcript ready",
		"video_id", video.ID,
		"segments", len(doc.Segments),
		"chars", report.TranscriptChars,
		"cache_hit", cacheHit)

	reply, err := p.Summarizer.Summarize(ctx, text)
	if err != nil {
		return nil, &StageError{Stage: StageSummarize, Err: err}
	}
	report.SessionID = reply.SessionID
	report.ContextUsed = reply.ContextUsed

	stats, err := p.Sender.Deliver(ctx, video.Title, reply.Answer)
	if err != nil {
		return nil, &StageError{Stage: StageDeliver, Err: err}
	}
	report.Embeds = stats.Embeds
	report.Batches = stats.Batches
	report.Outcome = OutcomeDelivered

	p.log().Infow("summary delivered",
		"video_id", video.ID, "embeds", stats.Embeds, "batches", stats.Batches)
	return report, nil
}

func (p *Pipeline) log() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}
