package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/enw/img2audio/application/ports/inbound"
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/domain"
	"github.com/enw/img2audio/infrastructure/gin_interface/dto"
	"github.com/enw/img2audio/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	imageFormField = "image"
	maxImageBytes  = 10 << 20
)

type StoryController interface {
	Health(c *gin.Context)
	CreateStory(c *gin.Context)
	StreamStory(c *gin.Context)
	GetStory(c *gin.Context)
	GetStoryAudio(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type storyController struct {
	logger     outbound.LoggerPort
	pipeline   inbound.StoryPipelinePort
	workerPool outbound.TaskDispatcher
	registry   outbound.RunRegistryPort
	audioStore outbound.AudioStorePort
}

func NewStoryController(
	logger outbound.LoggerPort,
	workerPool outbound.TaskDispatcher,
	pipeline inbound.StoryPipelinePort,
	registry outbound.RunRegistryPort,
	audioStore outbound.AudioStorePort,
) StoryController {
	return &storyController{
		logger:     logger,
		pipeline:   pipeline,
		workerPool: workerPool,
		registry:   registry,
		audioStore: audioStore,
	}
}

type pipelineResult struct {
	run *domain.StoryRun
	err error
}

func (s *storyController) CreateStory(c *gin.Context) {
	image, ok := s.readImage(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	runID := uuid.NewString()
	logger := s.requestLogger(c, runID)

	results := make(chan pipelineResult, 1)
	err := s.workerPool.Submit(func() {
		run, err := s.pipeline.Run(ctx, inbound.RunPipelineParams{
			RunID: runID,
			Image: image,
		})
		if run != nil {
			s.registry.Put(run)
		}
		results <- pipelineResult{run: run, err: err}
	})
	if err != nil {
		logger.Error(err, "Failed to submit story run")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "server is busy, try again later"})
		return
	}

	select {
	case <-ctx.Done():
		logger.Warn("Client went away before the story was ready")
	case res := <-results:
		if res.err != nil {
			c.AbortWithStatusJSON(statusFor(res.err), newErrorResponse(res.run, res.err))
			return
		}
		logger.InfoWithFields("Story run completed", map[string]interface{}{
			"audio_size": res.run.Audio.Size,
		})
		c.JSON(http.StatusCreated, dto.NewCreateStoryResponse(res.run))
	}
}

type streamMessage struct {
	event   string
	payload interface{}
}

// StreamStory runs the pipeline and pushes an event after each stage so the
// caption shows up long before the audio is ready.
func (s *storyController) StreamStory(c *gin.Context) {
	image, ok := s.readImage(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	runID := uuid.NewString()
	logger := s.requestLogger(c, runID)

	// Room for every stage event plus a trailing error, so the worker never
	// blocks on a client that stopped reading.
	messages := make(chan streamMessage, 4)
	observer := inbound.ObserverFunc(func(event domain.StageEvent) {
		messages <- streamMessage{event: stageEventName(event.Stage), payload: dto.NewStageEventResponse(event)}
	})

	err := s.workerPool.Submit(func() {
		defer close(messages)
		run, err := s.pipeline.Run(ctx, inbound.RunPipelineParams{
			RunID:    runID,
			Image:    image,
			Observer: observer,
		})
		if run != nil {
			s.registry.Put(run)
		}
		if err != nil {
			messages <- streamMessage{event: "error", payload: newErrorResponse(run, err)}
		}
	})
	if err != nil {
		logger.Error(err, "Failed to submit story run")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "server is busy, try again later"})
		return
	}

	c.Status(http.StatusOK)
	for {
		select {
		case <-ctx.Done():
			logger.Warn("Client closed the story stream")
			return
		case msg, open := <-messages:
			if !open {
				return
			}
			c.SSEvent(msg.event, msg.payload)
			c.Writer.Flush()
		}
	}
}

func (s *storyController) GetStory(c *gin.Context) {
	run, ok := s.registry.Get(c.Param("id"))
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "story not found"})
		return
	}
	c.JSON(http.StatusOK, dto.NewStoryRunResponse(run))
}

func (s *storyController) GetStoryAudio(c *gin.Context) {
	run, ok := s.registry.Get(c.Param("id"))
	if !ok || run.Audio == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "audio not found"})
		return
	}

	reader, err := s.audioStore.Open(c.Request.Context(), run.Audio.Location)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to open audio artifact", map[string]interface{}{
			"run_id":   run.ID,
			"location": run.Audio.Location,
		})
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "audio is no longer available"})
		return
	}
	defer func(reader io.ReadCloser) {
		if err := reader.Close(); err != nil {
			s.logger.Error(err, "Failed to close audio artifact")
		}
	}(reader)

	// Length is left to the transport: in fixed-path mode a later run may
	// already have replaced the bytes this run recorded.
	c.DataFromReader(http.StatusOK, -1, run.Audio.ContentType, reader, map[string]string{
		"Content-Disposition": fmt.Sprintf(`inline; filename="%s.flac"`, run.ID),
	})
}

func (s *storyController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *storyController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", s.Health)
	g.POST("/stories", s.CreateStory)
	g.POST("/stories/stream", middleware.SSEMiddleware(), s.StreamStory)
	g.GET("/stories/:id", s.GetStory)
	g.GET("/stories/:id/audio", s.GetStoryAudio)
}

func (s *storyController) readImage(c *gin.Context) (domain.ImageAsset, bool) {
	fileHeader, err := c.FormFile(imageFormField)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "multipart field \"image\" is required",
			Kind:  domain.InvalidInputKind,
		})
		return domain.ImageAsset{}, false
	}
	if fileHeader.Size > maxImageBytes {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "image is too large",
			Kind:  domain.InvalidInputKind,
		})
		return domain.ImageAsset{}, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Error(err, "Failed to open uploaded image")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "could not read image", Kind: domain.InvalidInputKind})
		return domain.ImageAsset{}, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		s.logger.Error(err, "Failed to read uploaded image")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "could not read image", Kind: domain.InvalidInputKind})
		return domain.ImageAsset{}, false
	}

	image, err := domain.NewImageAsset(fileHeader.Filename, data)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error(), Kind: domain.KindOf(err)})
		return domain.ImageAsset{}, false
	}
	return image, true
}

func (s *storyController) requestLogger(c *gin.Context, runID string) outbound.LoggerPort {
	fields := map[string]interface{}{"run_id": runID}
	if userID := c.GetString(middleware.ContextUserIDKey); userID != "" {
		fields["user_id"] = userID
	}
	return s.logger.With(fields)
}

func stageEventName(stage domain.Stage) string {
	if stage == domain.SpeechStage {
		return "audio"
	}
	return string(stage)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrWriteFailure):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrRemoteUnavailable),
		errors.Is(err, domain.ErrMalformedResponse),
		errors.Is(err, domain.ErrGenerationRejected):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func newErrorResponse(run *domain.StoryRun, err error) dto.ErrorResponse {
	res := dto.ErrorResponse{
		Error: err.Error(),
		Kind:  domain.KindOf(err),
	}
	var stageErr *domain.StageError
	if errors.As(err, &stageErr) {
		res.Stage = string(stageErr.Stage)
	}
	if run != nil {
		res.ID = run.ID
		res.Caption = run.Caption
		res.Story = run.Story
	}
	return res
}
