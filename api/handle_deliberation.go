package api

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/getplenum/plenum-backend/dto"
	"github.com/getplenum/plenum-backend/models"
	"github.com/getplenum/plenum-backend/usecases"
)

// DeliberationForm is the multipart variant of the creation payload: the JSON
// body travels in the "body" field and attachments come as regular file parts.
type DeliberationForm struct {
	Body  string                  `form:"body" binding:"required"`
	Files []*multipart.FileHeader `form:"attachments"`
}

func handlePostDeliberation(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var body dto.CreateDeliberationBody
		var err error
		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			body, err = parseDeliberationForm(c)
		} else {
			err = c.ShouldBindJSON(&body)
			if err != nil {
				err = errors.Wrap(models.BadParameterError, err.Error())
			}
		}
		if presentError(ctx, c, err) {
			return
		}

		usecase := uc.NewDeliberationUsecase()
		result, err := usecase.Deliberate(ctx, dto.AdaptDeliberationRequest(body))
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptDeliberationResultDto(result))
	}
}

func parseDeliberationForm(c *gin.Context) (dto.CreateDeliberationBody, error) {
	var form DeliberationForm
	if err := c.ShouldBind(&form); err != nil {
		return dto.CreateDeliberationBody{}, errors.Wrap(models.BadParameterError, err.Error())
	}

	var body dto.CreateDeliberationBody
	if err := json.Unmarshal([]byte(form.Body), &body); err != nil {
		return dto.CreateDeliberationBody{}, errors.Wrap(models.BadParameterError,
			"could not parse the body form field as JSON")
	}

	for _, fileHeader := range form.Files {
		attachment, err := readAttachment(fileHeader)
		if err != nil {
			return dto.CreateDeliberationBody{}, err
		}
		body.Attachments = append(body.Attachments, attachment)
	}
	return body, nil
}

func readAttachment(fileHeader *multipart.FileHeader) (dto.AttachmentDto, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return dto.AttachmentDto{}, errors.Wrapf(models.BadParameterError,
			"could not open the file %s", fileHeader.Filename)
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return dto.AttachmentDto{}, errors.Wrapf(models.BadParameterError,
			"could not read the file %s", fileHeader.Filename)
	}

	mediaType := fileHeader.Header.Get("Content-Type")
	kind := models.AttachmentKindText
	if strings.HasPrefix(mediaType, "image/") {
		kind = models.AttachmentKindImage
	}

	return dto.AttachmentDto{
		Kind:      string(kind),
		MediaType: mediaType,
		Payload:   payload,
	}, nil
}

type DeliberationInput struct {
	Id string `uri:"deliberation_id" binding:"required,uuid"`
}

func handleGetDeliberation(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var input DeliberationInput
		if err := c.ShouldBindUri(&input); err != nil {
			presentError(ctx, c, errors.Wrap(models.BadParameterError, err.Error()))
			return
		}

		usecase := uc.NewDeliberationUsecase()
		log, err := usecase.GetDeliberation(ctx, uuid.MustParse(input.Id))
		if presentError(ctx, c, err) {
			return
		}

		c.JSON(http.StatusOK, dto.AdaptDeliberationLogDto(log))
	}
}
