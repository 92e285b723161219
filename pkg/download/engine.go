package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/RunanywhereAI/sdks-sub010/pkg/logging"
	"github.com/RunanywhereAI/sdks-sub010/pkg/runanywhereerrors"
	"github.com/RunanywhereAI/sdks-sub010/pkg/storage"
)

// progressReportThreshold is the byte-count boundary at which the engine
// emits a new Progress event for an otherwise-unchanged state (spec §4.4:
// "at most once per 1 MiB or on state transition").
const progressReportThreshold = 1 << 20

// ProgressFunc receives progress updates for every task the engine manages.
// It is called synchronously from the download goroutine; implementations
// that need to do expensive work should hand off to their own goroutine.
type ProgressFunc func(Progress)

// SpaceChecker reports bytes available at a destination path, used for the
// pre-flight space check. Satisfied by storage.FreeBytes.
type SpaceChecker func(path string) (uint64, error)

// Engine is the download orchestrator (C4). A single Engine manages a
// bounded pool of concurrent transfers drawn from a priority queue.
type Engine struct {
	client       *http.Client
	storageMgr   *storage.Manager
	spaceChecker SpaceChecker
	log          logging.Logger
	onProgress   ProgressFunc

	mu            sync.Mutex
	queue         *taskQueue
	running       map[string]*activeTask
	maxConcurrent int
	paused        bool
	dispatchCh    chan struct{}

	wg sync.WaitGroup
}

type activeTask struct {
	task       *Task
	cancel     context.CancelFunc
	wantCancel bool
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithHTTPClient overrides the default *http.Client (e.g. for custom
// transports, auth headers, or test doubles).
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) { e.client = c }
}

// WithMaxConcurrent sets the initial concurrent-download cap.
func WithMaxConcurrent(n int) Option {
	return func(e *Engine) { e.maxConcurrent = n }
}

// WithSpaceChecker overrides the free-space probe used for the pre-flight
// check (defaults to storage.FreeBytes).
func WithSpaceChecker(fn SpaceChecker) Option {
	return func(e *Engine) { e.spaceChecker = fn }
}

// WithProgressFunc registers the callback invoked for every progress event.
func WithProgressFunc(fn ProgressFunc) Option {
	return func(e *Engine) { e.onProgress = fn }
}

// NewEngine constructs an Engine backed by storageMgr for final placement
// of completed downloads.
func NewEngine(storageMgr *storage.Manager, log logging.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	e := &Engine{
		client:        &http.Client{Timeout: 0},
		storageMgr:    storageMgr,
		spaceChecker:  storage.FreeBytes,
		log:           logging.WithComponent(log, "download.engine"),
		queue:         newTaskQueue(),
		running:       make(map[string]*activeTask),
		maxConcurrent: 2,
		dispatchCh:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	go e.dispatchLoop()
	return e
}

// Enqueue adds a task to the priority queue and returns immediately; the
// transfer itself runs asynchronously on the engine's worker pool.
func (e *Engine) Enqueue(t Task) {
	e.mu.Lock()
	e.queue.push(&t)
	e.mu.Unlock()
	e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StateQueued, UpdatedAt: time.Now()})
	e.kick()
}

// Cancel stops a task, whether queued or already running, and reports it
// as cancelled.
func (e *Engine) Cancel(taskID string) bool {
	e.mu.Lock()
	if e.queue.remove(taskID) {
		e.mu.Unlock()
		e.report(Progress{TaskID: taskID, State: StateCancelled, UpdatedAt: time.Now()})
		return true
	}
	active, ok := e.running[taskID]
	if ok {
		active.wantCancel = true
	}
	e.mu.Unlock()
	if !ok {
		return false
	}
	active.cancel()
	return true
}

// SetMaxConcurrent changes the concurrency cap, taking effect for future
// dispatch decisions; it does not interrupt already-running transfers.
func (e *Engine) SetMaxConcurrent(n int) {
	if n < 1 {
		n = 1
	}
	e.mu.Lock()
	e.maxConcurrent = n
	e.mu.Unlock()
	e.kick()
}

// PauseAll cancels every active transfer (recording a resume hint for each)
// and stops the dispatcher from starting new ones until ResumeAll is
// called. Queued-but-not-started tasks remain queued.
func (e *Engine) PauseAll() {
	e.mu.Lock()
	e.paused = true
	active := make([]*activeTask, 0, len(e.running))
	for _, a := range e.running {
		active = append(active, a)
	}
	e.mu.Unlock()

	for _, a := range active {
		a.cancel()
	}
}

// ResumeAll re-enables dispatch. Tasks paused mid-transfer resume from
// their recorded ResumeHint.
func (e *Engine) ResumeAll() {
	e.mu.Lock()
	e.paused = false
	e.mu.Unlock()
	e.kick()
}

// Wait blocks until every currently running and queued task has reached a
// terminal state. Intended for graceful shutdown and tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

func (e *Engine) kick() {
	select {
	case e.dispatchCh <- struct{}{}:
	default:
	}
}

func (e *Engine) dispatchLoop() {
	for range e.dispatchCh {
		for {
			e.mu.Lock()
			if e.paused || len(e.running) >= e.maxConcurrent {
				e.mu.Unlock()
				break
			}
			t, ok := e.queue.pop()
			if !ok {
				e.mu.Unlock()
				break
			}
			ctx, cancel := context.WithCancel(context.Background())
			e.running[t.ID] = &activeTask{task: t, cancel: cancel}
			e.mu.Unlock()

			e.wg.Add(1)
			go e.run(ctx, t)
		}
	}
}

func (e *Engine) run(ctx context.Context, t *Task) {
	defer e.wg.Done()
	defer func() {
		e.mu.Lock()
		delete(e.running, t.ID)
		e.mu.Unlock()
		e.kick()
	}()

	maxRetries := t.RetryCount
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := t.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	for attempt := 1; ; attempt++ {
		err := e.attempt(ctx, t, attempt)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			if e.wasExplicitlyCancelled(t.ID) {
				e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StateCancelled, Attempt: attempt, UpdatedAt: time.Now()})
				return
			}
			e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StatePaused, Attempt: attempt, Err: ctx.Err(), UpdatedAt: time.Now()})
			e.requeueForPause(t)
			return
		}
		if !shouldRetry(err, attempt, maxRetries) {
			e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StateFailed, Attempt: attempt, Err: err, UpdatedAt: time.Now()})
			return
		}
		delay := backoff(retryDelay, attempt)
		e.log.WithField("task_id", t.ID).WithField("attempt", attempt).WithField("delay", delay).
			Warn("download attempt failed, retrying")
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			if e.wasExplicitlyCancelled(t.ID) {
				e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StateCancelled, Attempt: attempt, UpdatedAt: time.Now()})
				return
			}
			e.requeueForPause(t)
			return
		}
	}
}

// wasExplicitlyCancelled reports whether the running task's context was
// cancelled via Cancel (as opposed to PauseAll).
func (e *Engine) wasExplicitlyCancelled(taskID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	active, ok := e.running[taskID]
	return ok && active.wantCancel
}

func (e *Engine) requeueForPause(t *Task) {
	e.mu.Lock()
	e.queue.push(t)
	e.mu.Unlock()
}

func (e *Engine) attempt(ctx context.Context, t *Task, attempt int) error {
	if err := e.checkSpace(t); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return runanywhereerrors.Wrap(runanywhereerrors.KindInvalidURL, err)
	}

	var startOffset int64
	if t.Resume.BytesWritten > 0 {
		startOffset = t.Resume.BytesWritten
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", startOffset))
		if t.Resume.ETag != "" {
			req.Header.Set("If-Range", t.Resume.ETag)
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return runanywhereerrors.Wrap(runanywhereerrors.KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return runanywhereerrors.HTTP(resp.StatusCode)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if resp.StatusCode == http.StatusPartialContent {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
		startOffset = 0
	}
	out, err := os.OpenFile(t.TempPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open temp file: %w", err)
	}
	defer out.Close()

	totalBytes := resp.ContentLength + startOffset
	hasher := sha256.New()
	if startOffset > 0 {
		if existing, err := os.Open(t.TempPath); err == nil {
			io.CopyN(hasher, existing, startOffset)
			existing.Close()
		}
	}

	received := startOffset
	lastReported := received
	buf := make([]byte, 32*1024)
	e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StateActive, BytesReceived: received, TotalBytes: totalBytes, Attempt: attempt, UpdatedAt: time.Now()})

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return runanywhereerrors.Wrap(runanywhereerrors.KindPartialDownload, werr)
			}
			hasher.Write(buf[:n])
			received += int64(n)
			t.Resume.BytesWritten = received
			if received-lastReported >= progressReportThreshold {
				lastReported = received
				e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StateActive, BytesReceived: received, TotalBytes: totalBytes, Attempt: attempt, UpdatedAt: time.Now()})
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return runanywhereerrors.Wrap(runanywhereerrors.KindConnectionLost, readErr)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	if t.Checksum != "" {
		sum := hex.EncodeToString(hasher.Sum(nil))
		if sum != t.Checksum {
			return runanywhereerrors.New(runanywhereerrors.KindChecksumMismatch,
				fmt.Sprintf("expected %s, got %s", t.Checksum, sum))
		}
	}

	if e.storageMgr != nil {
		if err := e.storageMgr.MoveIntoStorage(t.ModelID, t.TempPath, t.DestPath); err != nil {
			return err
		}
	} else if err := os.Rename(t.TempPath, t.DestPath); err != nil {
		return fmt.Errorf("finalize download: %w", err)
	}

	e.report(Progress{TaskID: t.ID, ModelID: t.ModelID, State: StateCompleted, BytesReceived: received, TotalBytes: totalBytes, Attempt: attempt, UpdatedAt: time.Now()})
	return nil
}

func (e *Engine) checkSpace(t *Task) error {
	if e.spaceChecker == nil || t.EstimatedSize <= 0 {
		return nil
	}
	free, err := e.spaceChecker(t.TempPath)
	if err != nil {
		return nil
	}
	required := t.EstimatedSize - t.Resume.BytesWritten
	if required < 0 {
		required = 0
	}
	if free < uint64(required) {
		return runanywhereerrors.New(runanywhereerrors.KindInsufficientSpace, "not enough free space to continue download")
	}
	return nil
}

func (e *Engine) report(p Progress) {
	if e.onProgress != nil {
		e.onProgress(p)
	}
}
