package main

import (
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/enw/img2audio/application/ports/outbound"
	"github.com/enw/img2audio/application/services"
	"github.com/enw/img2audio/config"
	"github.com/enw/img2audio/infrastructure/adapters"
	"github.com/enw/img2audio/infrastructure/gin_interface/controllers"
	"github.com/enw/img2audio/middleware"
	mockgenerator "github.com/enw/img2audio/mock"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	conf, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	zeroLogger := adapters.NewZerologWrapper(conf.Server.AppEnv)

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(conf.Server.WorkerPoolSize, ants.WithPanicHandler(panicHandler), ants.WithNonblocking(true))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	audioStore, err := newAudioStore(conf.Storage, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create audio store")
	}

	describer, completion, synthesizer := newInferenceAdapters(conf, zeroLogger)

	captioner := services.NewImageCaptioner(zeroLogger, describer)

	storyGenerator := services.NewStoryGenerator(zeroLogger, completion, services.GenerationSettings{
		Model:       storyModel(conf),
		Temperature: conf.Story.Temperature,
		MaxWords:    conf.Story.MaxWords,
	})

	speaker := services.NewSpeaker(zeroLogger, synthesizer, audioStore)

	storyPipeline := services.NewStoryPipeline(zeroLogger, captioner, storyGenerator, speaker)

	runRegistry := adapters.NewCacheRunRegistry(conf.Server.ResultTtl, audioStore, zeroLogger)

	storyController := controllers.NewStoryController(zeroLogger, workerPool, storyPipeline, runRegistry, audioStore)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	if conf.Server.JwksUrl != "" {
		authHandler, err := middleware.NewAuthHandler(conf.Server.JwksUrl, zeroLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		defer authHandler.Close()
		router.Use(authHandler.AuthMiddleware())
	} else {
		zeroLogger.Warn("JWKS_URL is not set, the API is unauthenticated")
	}

	router.Use(middleware.RateLimitMiddleware(conf.Server.RateLimitPerSecond, conf.Server.RateLimitBurst))

	storyController.RegisterRoutes(router)

	zeroLogger.InfoWithFields("Starting server", map[string]interface{}{
		"addr":      conf.Server.Addr,
		"mock":      conf.Mock,
		"captioner": conf.Captioner.Mode,
		"provider":  conf.Story.Provider,
		"store":     conf.Storage.Backend,
	})

	err = router.Run(conf.Server.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}

func newAudioStore(conf *config.StorageConfig, logger outbound.LoggerPort) (outbound.AudioStorePort, error) {
	if conf.Backend != config.S3AudioStoreBackend {
		return adapters.NewFileAudioStore(conf, logger), nil
	}

	awsConfig := aws.NewConfig().WithRegion(conf.S3.Region)
	if conf.S3.Endpoint != "" {
		awsConfig = awsConfig.WithEndpoint(conf.S3.Endpoint).WithS3ForcePathStyle(true)
	}

	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *awsConfig,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}

	return adapters.NewS3AudioStore(s3.New(sess), conf.S3, logger), nil
}

func newInferenceAdapters(conf *config.Config, logger outbound.LoggerPort) (
	outbound.ImageDescriberPort, outbound.CompletionPort, outbound.SpeechSynthesizerPort) {
	if conf.Mock {
		logger.Warn("PIPELINE_MOCK is set, using offline inference adapters")
		offline := mockgenerator.NewOffline(mockgenerator.DefaultDelay)
		return offline.Describer, offline.Completion, offline.Synthesizer
	}

	contentFetcher := adapters.NewContentFetcher(logger, conf.RemoteCallTimeout)

	var describer outbound.ImageDescriberPort
	switch conf.Captioner.Mode {
	case config.LocalCaptionerMode:
		imageStore := adapters.NewFileImageStore(conf.Captioner.ImageDir, logger)
		describer = adapters.NewLocalCaptioner(imageStore, conf.Captioner, conf.RemoteCallTimeout, logger)
	default:
		describer = adapters.NewHuggingFaceCaptioner(contentFetcher, conf.HuggingFace, conf.RemoteCallTimeout, logger)
	}

	var completion outbound.CompletionPort
	switch conf.Story.Provider {
	case config.GeminiStoryProvider:
		completion = adapters.NewGeminiCompletion(conf.Gemini, conf.RemoteCallTimeout, logger)
	default:
		completion = adapters.NewOpenAICompletion(conf.Gpt, conf.RemoteCallTimeout, logger)
	}

	synthesizer := adapters.NewHuggingFaceSpeech(contentFetcher, conf.HuggingFace, conf.RemoteCallTimeout, logger)

	return describer, completion, synthesizer
}

func storyModel(conf *config.Config) string {
	switch {
	case conf.Gpt != nil:
		return conf.Gpt.Model
	case conf.Gemini != nil:
		return conf.Gemini.Model
	default:
		return "offline"
	}
}
