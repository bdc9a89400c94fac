package handlers

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FileCleanupService removes generated files older than maxAge from the
// local output directory.
type FileCleanupService struct {
	outputDir string
	maxAge    time.Duration
	interval  time.Duration
	logger    *zap.Logger
	now       func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewFileCleanupService(outputDir string, maxAge, interval time.Duration, logger *zap.Logger) *FileCleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &FileCleanupService{
		outputDir: outputDir,
		maxAge:    maxAge,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

func (fcs *FileCleanupService) Start() {
	fcs.ticker = time.NewTicker(fcs.interval)
	fcs.wg.Add(1)
	go func() {
		defer fcs.wg.Done()
		for {
			select {
			case <-fcs.done:
				return
			case <-fcs.ticker.C:
				fcs.CleanupOldFiles()
			}
		}
	}()
	fcs.logger.Info("file cleanup service started",
		zap.String("dir", fcs.outputDir),
		zap.Duration("max_age", fcs.maxAge),
		zap.Duration("interval", fcs.interval),
	)
}

// Stop ends the cleanup loop and waits for a running pass to finish. It is
// safe to call more than once.
func (fcs *FileCleanupService) Stop() {
	fcs.stopOnce.Do(func() {
		if fcs.ticker != nil {
			fcs.ticker.Stop()
		}
		close(fcs.done)
		fcs.wg.Wait()
		fcs.logger.Info("file cleanup service stopped")
	})
}

// CleanupOldFiles removes expired files and returns how many were deleted.
// Directories left empty are removed too, the root excepted.
func (fcs *FileCleanupService) CleanupOldFiles() int {
	if _, err := os.Stat(fcs.outputDir); errors.Is(err, fs.ErrNotExist) {
		return 0
	}

	removed := 0
	var dirs []string
	err := filepath.WalkDir(fcs.outputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != fcs.outputDir {
				dirs = append(dirs, path)
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if fcs.now().Sub(info.ModTime()) > fcs.maxAge {
			fcs.logger.Debug("removing expired file", zap.String("path", path))
			if err := os.Remove(path); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		fcs.logger.Warn("cleanup failed", zap.String("dir", fcs.outputDir), zap.Error(err))
	}

	// Deepest first; Remove fails harmlessly on directories that still hold files.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}

	if removed > 0 {
		fcs.logger.Info("expired files removed", zap.Int("count", removed))
	}
	return removed
}
