package main

import (
	"benritz/ustreasury/internal/collect"
	"benritz/ustreasury/internal/config"
	"benritz/ustreasury/internal/logging"
	"benritz/ustreasury/internal/types"
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

// handler evaluates the securities in each SQS record and stores them as
// parquet under the configured s3:// destination.
type handler struct {
	putter   collect.ObjectPutter
	dst      *collect.S3Path
	holidays types.HolidaySet
	solver   types.Solver
	logger   *zap.Logger
	now      func() time.Time
}

func (h *handler) processRecord(ctx context.Context, rec events.SQSMessage) error {
	collected, err := collect.DecodeMessage(rec.Body, civil.DateOf(h.now()))
	if err != nil {
		return err
	}

	collected.Evaluate(h.holidays, h.solver, h.logger)

	if len(collected.Succeeded()) == 0 {
		return fmt.Errorf("%w: all %d securities failed", collect.ErrNoRows, len(collected.Securities))
	}

	outPath, err := collect.StoreToS3(ctx, collected, h.putter, h.dst)
	if err != nil {
		return err
	}

	h.logger.Info("stored data",
		zap.String("messageId", rec.MessageId),
		zap.String("path", outPath),
		zap.Int("failed", len(collected.Failures())),
	)

	return nil
}

func (h *handler) Handle(ctx context.Context, request events.SQSEvent) (events.SQSEventResponse, error) {
	resp := events.SQSEventResponse{}

	for _, rec := range request.Records {
		if err := h.processRecord(ctx, rec); err != nil {
			h.logger.Error("failed to process record", zap.String("messageId", rec.MessageId), zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: rec.MessageId,
			})
		}
	}

	return resp, nil
}

func newHandler(ctx context.Context) (*handler, error) {
	cfg, err := config.Load("")
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Output.Destination == "" {
		return nil, fmt.Errorf("%s_OUTPUT_DESTINATION is not set", config.EnvPrefix)
	}

	dst, err := collect.ParseS3(cfg.Output.Destination)
	if err != nil {
		return nil, fmt.Errorf("invalid output destination: %w", err)
	}

	holidays, err := cfg.Holidays()
	if err != nil {
		return nil, err
	}

	client, err := collect.NewS3Client(ctx, cfg.Output.Profile)
	if err != nil {
		return nil, err
	}

	return &handler{
		putter:   client,
		dst:      dst,
		holidays: holidays,
		solver:   cfg.SolverSettings(),
		logger:   logger.Named("collect-data"),
		now:      time.Now,
	}, nil
}

func main() {
	h, err := newHandler(context.Background())
	if err != nil {
		panic("failed to initialize handler: " + err.Error())
	}

	lambda.Start(h.Handle)
}
