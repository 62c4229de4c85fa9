package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/hedyserv/hedyserv/internal/common/httpx"
	"github.com/hedyserv/hedyserv/internal/webserv/content"
)

//go:embed templates/index.html
var templatesFS embed.FS

var lessonTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// lessonView is the view-model handed to the page template.
type lessonView struct {
	Level         int
	Lang          string
	PageTitle     string
	RunButton     string
	AdvanceButton string
	EnterText     string
	Enter         string
	Commands      []string
	IntroText     string
	StartCode     string
	NextLevel     *int
}

// lessonPage resolves and renders the lesson page for the requested
// level and language. Content-resolution failures degrade to an in-band
// {Error} payload rather than an error page.
func (s *Service) lessonPage(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()
	lang := requestedLanguage(r)

	level := 1
	if arg := r.URL.Query().Get("level"); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil {
			return inBandError(content.ErrInvalidLevel.New("invalid level: " + arg).Error()), nil
		}
		level = parsed
	}

	// all records, all languages: the max level spans the full set
	records, cerr := s.store.Levels()
	if cerr != nil {
		log.Ctx(ctx).Error().Err(cerr).Msg("unable to load level content")
		return inBandError(cerr.Error()), nil
	}
	bundle, _, cerr := s.store.Bundle(lang)
	if cerr != nil {
		log.Ctx(ctx).Error().Err(cerr).Msg("unable to load text bundle")
		return inBandError(cerr.Error()), nil
	}
	record, cerr := content.LevelForLanguage(records, level, lang)
	if cerr != nil {
		log.Ctx(ctx).Warn().Err(cerr).Int("level", level).Str("lang", lang).Msg("no lesson content")
		return inBandError(cerr.Error()), nil
	}

	view := &lessonView{
		Level:         level,
		Lang:          lang,
		PageTitle:     bundle.PageTitle,
		RunButton:     bundle.RunButton,
		AdvanceButton: bundle.AdvanceButton,
		EnterText:     bundle.EnterText,
		Enter:         bundle.Enter,
		Commands:      record.Commands,
		IntroText:     record.IntroText,
		StartCode:     record.StartCode,
	}
	if maxLevel := content.MaxLevel(records); level != maxLevel {
		next := level + 1
		view.NextLevel = &next
	}

	var buf bytes.Buffer
	if err := lessonTemplate.Execute(&buf, view); err != nil {
		return nil, err
	}
	return &httpx.Response{
		StatusCode:  http.StatusOK,
		Response:    buf.String(),
		ContentType: httpx.ContentTypeHTML,
	}, nil
}
