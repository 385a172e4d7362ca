package mode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/khaledhikmat/vs-activity/model"
	"github.com/khaledhikmat/vs-activity/pipeline"
	"github.com/khaledhikmat/vs-activity/service/lgr"
)

// Server exposes the upload form and the analyses API until canxCtx is cancelled.
func Server(canxCtx context.Context, svcs pipeline.ServicesFactory, _ []string) error {
	srv := &http.Server{
		Addr:              svcs.CfgSvc.GetHTTPAddr(),
		Handler:           NewRouter(svcs),
		ReadHeaderTimeout: 20 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		lgr.Logger.Info("server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case <-canxCtx.Done():
		lgr.Logger.Info(
			"server context cancelled",
		)
	case err, ok := <-listenErr:
		if ok {
			return fmt.Errorf("error listening on %s: %w", srv.Addr, err)
		}
		return nil
	}

	shutdownCtx, shutdownFn := context.WithTimeout(context.Background(), time.Duration(svcs.CfgSvc.GetModeMaxShutdownTime())*time.Second)
	defer shutdownFn()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	lgr.Logger.Info("server stopped")
	return nil
}

func NewRouter(svcs pipeline.ServicesFactory) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexPage))
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"classifier": svcs.ClassifierSvc.Name(),
		})
	})

	apiV1 := r.Group("/api/v1")
	{
		analyses := apiV1.Group("/analyses")
		analyses.POST("", limitBody(svcs.CfgSvc.GetSettings().MaxUploadMB), analyze(svcs))
		analyses.GET("", func(c *gin.Context) {
			stats, err := svcs.DataSvc.RetrieveAnalysisStats()
			if err != nil {
				lgr.Logger.Error("error retrieving analysis stats", slog.Any("error", err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error: Failed to retrieve analyses."})
				return
			}
			c.JSON(http.StatusOK, stats)
		})
	}

	return r
}

func analyze(svcs pipeline.ServicesFactory) gin.HandlerFunc {
	return func(c *gin.Context) {
		activity := c.PostForm("activity")

		var trimLength *float64
		if raw := strings.TrimSpace(c.PostForm("trim_length")); raw != "" {
			trim, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Error: invalid trim length %q.", raw)})
				return
			}
			trimLength = &trim
		}

		pathA, err := storeUpload(c, svcs, "video_a")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": model.UserMessage(err)})
			return
		}
		defer removeUpload(svcs, pathA)

		pathB, err := storeUpload(c, svcs, "video_b")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": model.UserMessage(err)})
			return
		}
		defer removeUpload(svcs, pathB)

		report, err := pipeline.Analyze(c.Request.Context(), svcs, model.AnalysisRequest{
			VideoA:     pathA,
			VideoB:     pathB,
			Activity:   activity,
			TrimLength: trimLength,
		})
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": model.UserMessage(err)})
			return
		}

		c.JSON(http.StatusOK, report)
	}
}

func storeUpload(c *gin.Context, svcs pipeline.ServicesFactory, field string) (string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("missing %s upload: %w", field, err)
	}

	path, err := storeFile(svcs, header)
	if err != nil {
		if !errors.Is(err, model.ErrValidation) {
			procError(svcs.DataSvc, model.GenError("server", err, map[string]interface{}{
				"field":    field,
				"filename": header.Filename,
			}, "error storing upload"))
		}
		return "", err
	}
	return path, nil
}

func storeFile(svcs pipeline.ServicesFactory, header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return svcs.StorageSvc.StoreFile(header.Filename, file)
}

func removeUpload(svcs pipeline.ServicesFactory, path string) {
	if err := svcs.StorageSvc.Remove(path); err != nil {
		lgr.Logger.Warn("error removing upload", slog.String("path", path), slog.Any("error", err))
	}
}

func limitBody(maxMB int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMB<<20)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		lgr.Logger.Info("request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
