package web

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"interview-summarizer/internal/interviews"
	"interview-summarizer/internal/sessions"
	"interview-summarizer/internal/shared/server/middleware"
)

// formOverhead leaves room for the multipart envelope and text fields.
const formOverhead = 1 << 20

// analyzer runs the upload flow shared by the page and the JSON API.
type analyzer struct {
	service   *interviews.Service
	sessions  *sessions.Manager
	maxUpload int64
}

// run reads the multipart form, analyzes the file and stores the result in
// the session. The previous result stays untouched when anything fails.
func (a *analyzer) run(c *gin.Context) (interviews.Analysis, error) {
	sessionID := middleware.SessionIDFromContext(c)
	if err := a.sessions.Begin(sessionID); err != nil {
		return interviews.Analysis{}, err
	}
	var stored *interviews.Analysis
	defer func() { a.sessions.Finish(sessionID, stored) }()

	if a.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, a.maxUpload+formOverhead)
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return interviews.Analysis{}, a.tooLarge()
		}
		if errors.Is(err, http.ErrMissingFile) {
			return interviews.Analysis{}, interviews.ErrFileRequired
		}
		return interviews.Analysis{}, fmt.Errorf("%w: %v", interviews.ErrFileRequired, err)
	}
	if a.maxUpload > 0 && header.Size > a.maxUpload {
		return interviews.Analysis{}, a.tooLarge()
	}
	c.Set(middleware.FileKindKey, fileKind(header.Filename))

	session, _ := a.sessions.Get(sessionID)
	formKey := strings.TrimSpace(c.PostForm("api_key"))
	apiKey := formKey
	if apiKey == "" {
		apiKey = session.APIKey
	}
	language := strings.TrimSpace(c.PostForm("language"))
	if language == "" {
		language = string(session.Language)
	}

	file, err := header.Open()
	if err != nil {
		return interviews.Analysis{}, fmt.Errorf("%w: %v", interviews.ErrStorage, err)
	}
	defer file.Close()

	analysis, err := a.service.Analyze(c.Request.Context(), interviews.AnalyzeRequest{
		Owner:    sessionID,
		APIKey:   apiKey,
		Language: language,
		FileName: header.Filename,
		Body:     file,
	})
	if err != nil {
		return interviews.Analysis{}, err
	}
	c.Set(middleware.AnalysisIDKey, analysis.ID)
	stored = &analysis
	// The choices a run was made with become the session's settings.
	_, _ = a.sessions.Update(sessionID, func(s *sessions.Session) {
		s.Language = analysis.Language
		if formKey != "" {
			s.APIKey = formKey
		}
	})
	return analysis, nil
}

func (a *analyzer) tooLarge() error {
	return fmt.Errorf("%w: limit is %d MB", errFileTooLarge, a.maxUpload>>20)
}

// current returns the session's last analysis.
func (a *analyzer) current(c *gin.Context) (*interviews.Analysis, error) {
	session, ok := a.sessions.Get(middleware.SessionIDFromContext(c))
	if !ok || session.Last == nil {
		return nil, errNoResult
	}
	return session.Last, nil
}

// download sends one artifact of the session's last analysis.
func (a *analyzer) download(c *gin.Context) error {
	analysis, err := a.current(c)
	if err != nil {
		return err
	}
	kind, err := interviews.ParseArtifactKind(c.Param("kind"))
	if err != nil {
		return err
	}
	artifact, err := interviews.BuildArtifact(*analysis, kind)
	if err != nil {
		return err
	}
	c.Set(middleware.AnalysisIDKey, analysis.ID)
	c.Header("Content-Disposition", contentDisposition(artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Body)
	return nil
}
