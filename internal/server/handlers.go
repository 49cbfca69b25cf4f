// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/apa-generator/internal/docx"
	"github.com/pdiddy/apa-generator/internal/documents"
	"github.com/pdiddy/apa-generator/internal/validate"
	"github.com/pdiddy/apa-generator/pkg/types"
)

// WarningsHeader carries the number of advisory APA warnings for a generated
// document. The warnings themselves are repeated in WarningHeader values.
const (
	WarningsHeader = "X-APA-Warnings"
	WarningHeader  = "X-APA-Warning"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "apa-generator",
		"version":   s.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) generate(c *gin.Context) {
	var cfg types.DocumentConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}

	ctx := c.Request.Context()
	if s.cfg.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerateTimeout)
		defer cancel()
	}

	res, err := s.svc.Generate(ctx, cfg)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Header(WarningsHeader, strconv.Itoa(len(res.Warnings)))
	for _, w := range res.Warnings {
		c.Writer.Header().Add(WarningHeader, w)
	}
	attach(c, res)
}

func (s *Server) sample(c *gin.Context) {
	res, err := s.svc.Sample()
	if err != nil {
		s.fail(c, err)
		return
	}
	attach(c, res)
}

// fail maps a generation error to a response. Validation problems are the
// caller's; everything else is reported without internals.
func (s *Server) fail(c *gin.Context, err error) {
	var verr *validate.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorBody{Error: "validation failed", Details: verr.Messages()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, errorBody{Error: "document generation timed out"})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		loggerFor(c, s.log).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, errorBody{Error: "document generation failed"})
	}
}

// encodeExtValue percent-encodes s as an RFC 5987 ext-value, leaving only
// attr-chars literal.
func encodeExtValue(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isAttrChar(ch) {
			b.WriteByte(ch)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", ch)
	}
	return b.String()
}

func isAttrChar(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", ch) >= 0
}

var filenameQuotes = strings.NewReplacer(`"`, "", `\`, "", "\r", "", "\n", "")

func attach(c *gin.Context, res *documents.Result) {
	c.Header("Content-Disposition", `attachment; filename="`+filenameQuotes.Replace(res.Filename)+
		`"; filename*=UTF-8''`+encodeExtValue(res.Filename))
	c.Data(http.StatusOK, docx.MIMEType, res.Data)
}
