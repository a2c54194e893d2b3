package handler

import (
	"io"
	"net/http"

	"gaportal/internal/middleware"
	"gaportal/internal/resource"
	"gaportal/internal/service"
	"gaportal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// maxUploadSize caps evidence, proofs and visitor photos.
const maxUploadSize = 10 << 20

func currentActor(c *gin.Context) service.Actor {
	sess := middleware.CurrentSession(c)
	if sess == nil {
		return service.Actor{}
	}
	return service.Actor{User: sess.User(), Client: sess.Client}
}

func bindFilter(c *gin.Context) resource.Filter {
	var f resource.Filter
	_ = c.ShouldBindQuery(&f)
	return f
}

// fail writes err as the page's alert. Refused and upstream failures keep their status; anything
// else is a gateway fault.
func fail(c *gin.Context, err error) {
	var failure *resource.Error
	if errors.As(err, &failure) {
		c.JSON(failure.Status, response.Error(failure.Status, failure.Message))
		return
	}
	log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Something went wrong"))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// readUpload returns the uploaded file in field, or nil when the form has none.
func readUpload(c *gin.Context, field string) (*service.Evidence, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if header.Size > maxUploadSize {
		return nil, errors.Errorf("%s is larger than 10 MB", field)
	}
	f, err := header.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", field)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxUploadSize))
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", field)
	}
	return &service.Evidence{Filename: header.Filename, Content: content}, nil
}
