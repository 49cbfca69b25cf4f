// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package documents is the document generation use case shared by the HTTP
// server and the CLI: validate the request, assemble and encode the .docx,
// derive the download filename, and log the outcome.
package documents

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/apa-generator/internal/apa"
	"github.com/pdiddy/apa-generator/internal/assemble"
	"github.com/pdiddy/apa-generator/internal/validate"
	"github.com/pdiddy/apa-generator/pkg/types"
)

// FileSuffix ends every generated filename.
const FileSuffix = "_apa.docx"

// Result is one generated document.
type Result struct {
	// Filename is the suggested download name, "<slug>_apa.docx".
	Filename string

	// Data is the encoded .docx package.
	Data []byte

	// Warnings are advisory APA style notes about the input.
	Warnings []string
}

// Service generates documents. It is safe for concurrent use.
type Service struct {
	assembler *assemble.Assembler
	validator *validate.Validator
	language  types.Language
	log       logrus.FieldLogger
}

// Option configures a Service.
type Option func(*Service)

// WithLayout replaces the APA layout table.
func WithLayout(l apa.Layout) Option {
	return func(s *Service) { s.assembler = assemble.New(l) }
}

// WithLanguage sets the label language used when a request does not name one.
func WithLanguage(lang types.Language) Option {
	return func(s *Service) {
		if lang != "" {
			s.language = lang
		}
	}
}

// NewService returns a Service logging to log. A nil log discards output.
func NewService(log logrus.FieldLogger, opts ...Option) *Service {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	s := &Service{
		assembler: assemble.New(apa.DefaultLayout()),
		validator: validate.New(),
		language:  types.LangEnglish,
		log:       log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Generate validates cfg and produces the .docx. Validation failures are
// returned as *validate.Error. When ctx ends first its error is returned and
// the result is discarded.
func (s *Service) Generate(ctx context.Context, cfg types.DocumentConfig) (*Result, error) {
	log := s.log.WithFields(logrus.Fields{"type": cfg.Type, "title": cfg.Title})
	if err := s.validator.Document(cfg); err != nil {
		log.WithError(err).Warn("rejected document")
		return nil, err
	}
	if cfg.Language == "" {
		cfg.Language = s.language
	}

	start := time.Now()
	log.Info("generating document")
	data, err := s.run(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("document generation failed")
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"bytes":    len(data),
		"duration": time.Since(start).String(),
	}).Info("document generated")

	return &Result{
		Filename: Filename(cfg.Title),
		Data:     data,
		Warnings: validate.Advise(cfg),
	}, nil
}

// run executes the assembler in its own goroutine so a caller's deadline is
// honored even though encoding itself cannot be interrupted.
func (s *Service) run(ctx context.Context, cfg types.DocumentConfig) ([]byte, error) {
	type outcome struct {
		data []byte
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		data, err := s.assembler.Generate(cfg, cfg.References)
		done <- outcome{data, err}
	}()
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("generating document: %w", ctx.Err())
	case o := <-done:
		return o.data, o.err
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases title and replaces whitespace runs with underscores.
func Slug(title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(title), "_")
}

// Filename returns the download name for a document titled title.
func Filename(title string) string {
	return Slug(title) + FileSuffix
}
