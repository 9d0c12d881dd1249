package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/arthur-debert/textilize/pkg/cascade"
	"github.com/arthur-debert/textilize/pkg/errors"
	"github.com/arthur-debert/textilize/pkg/logging"
	"github.com/arthur-debert/textilize/pkg/postprocess"
	"github.com/arthur-debert/textilize/pkg/preprocess"
	"github.com/arthur-debert/textilize/pkg/rules"
	"golang.org/x/sync/errgroup"
)

// Options configures a Pipeline
type Options struct {
	// Jobs bounds how many units RunBatch processes at once; values below 1 mean 1
	Jobs int
}

// Pipeline converts units using resolved rule sets and a Converter
type Pipeline struct {
	resolver  cascade.Resolver
	pre       *preprocess.Preprocessor
	post      *postprocess.PostProcessor
	converter Converter
	jobs      int
}

// New assembles a pipeline
func New(resolver cascade.Resolver, pre *preprocess.Preprocessor, converter Converter, opts Options) *Pipeline {
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Pipeline{
		resolver:  resolver,
		pre:       pre,
		post:      postprocess.New(),
		converter: converter,
		jobs:      jobs,
	}
}

// Run processes one unit through every stage
func (p *Pipeline) Run(ctx context.Context, u Unit) (err error) {
	logger := logging.GetLogger("pipeline").With().Str("unit", u.Name).Logger()
	ctx = logging.WithContext(ctx, logger)
	defer logging.LogOperationStart(logger, "run")()

	defer func() {
		if err != nil {
			err = unitError(err, u.Name)
			logger.Debug().Err(err).Msg("Unit failed")
		}
	}()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "batch cancelled")
	}

	src, err := u.Open()
	if err != nil {
		return errors.Wrap(err, errors.ErrIO, "opening source")
	}
	defer src.Close()

	preRules, err := p.resolver.Resolve(ctx, rules.StagePreprocess, u.Location)
	if err != nil {
		return err
	}
	preprocessed, err := p.pre.Process(ctx, src, preRules)
	if err != nil {
		return err
	}

	converted, err := p.converter.Convert(ctx, preprocessed)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrConversion) {
			return err
		}
		return errors.Wrap(err, errors.ErrConversion, "converting fragment")
	}

	postRules, err := p.resolver.Resolve(ctx, rules.StagePostprocess, u.Location)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	if err := p.post.Process(ctx, converted, postRules, &out); err != nil {
		return err
	}

	sink, err := u.Create()
	if err != nil {
		return errors.Wrap(err, errors.ErrIO, "creating output")
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, errors.ErrIO, "closing output")
		}
	}()

	if _, err := out.WriteTo(sink); err != nil {
		return errors.Wrap(err, errors.ErrIO, "writing output")
	}

	logger.Info().
		Int("preRules", preRules.Len()).
		Int("postRules", postRules.Len()).
		Msg("Unit converted")
	return nil
}

// RunBatch runs every unit and reports each result in input order
func (p *Pipeline) RunBatch(ctx context.Context, units []Unit) Report {
	logger := logging.GetLogger("pipeline")
	defer logging.LogOperationStart(logger, "batch")()

	results := make([]Result, len(units))

	var g errgroup.Group
	g.SetLimit(p.jobs)
	for i, u := range units {
		g.Go(func() error {
			start := time.Now()
			err := p.Run(ctx, u)
			results[i] = Result{Unit: u.Name, Err: err, Duration: time.Since(start)}
			// never fail the group: a failed unit must not stop its siblings
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Results: results}
	logger.Info().
		Int("units", len(units)).
		Int("failed", len(report.Failed())).
		Int("jobs", p.jobs).
		Msg("Batch finished")
	return report
}

func unitError(err error, name string) error {
	code := errors.GetErrorCode(err)
	if code == errors.ErrUnknown {
		code = errors.ErrInternal
	}
	return errors.Wrapf(err, code, "unit %s", name).WithDetail(errors.DetailUnit, name)
}
