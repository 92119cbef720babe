package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	stdatomic "sync/atomic"
	"time"

	"github.com/narender4sm/inspector-assistant/internal/config"
	"github.com/narender4sm/inspector-assistant/internal/model/contract"

	"github.com/natefinch/atomic"
)

type Operation int

const (
	OpAppendEvent Operation = iota
	OpSaveSession
	OpGetSession
	OpListSessions
	OpReadTranscript
	OpDeleteSession
)

type Request struct {
	Op       Operation
	Payload  interface{}
	Result   chan error
	Response chan interface{}
}

type AppendEventPayload struct {
	SessionID string
	Data      []byte // JSON line
}

type SaveSessionPayload struct {
	Session *SessionMeta
}

type GetSessionPayload struct {
	SessionID string
}

type ReadTranscriptPayload struct {
	SessionID string
	Limit     int // 0 = all
}

type DeleteSessionPayload struct {
	SessionID string
}

// Worker serializes every store mutation through a single goroutine: the
// transcript files and the session index have exactly one writer. It also
// implements the orchestrator's transcript sink.
type Worker struct {
	basePath     string
	inbox        chan Request
	fileLock     *FileLock
	quit         chan struct{}
	wg           sync.WaitGroup
	sessionIndex *SessionIndex
	running      stdatomic.Bool
}

type RuntimeConfig struct {
	LockTimeout  time.Duration
	LockRetry    time.Duration
	LockMaxRetry int
	InboxSize    int
}

func NewWorker(basePath string, runtimeCfg RuntimeConfig) (*Worker, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store dir %s: %w", basePath, err)
	}

	if runtimeCfg.LockTimeout <= 0 {
		lockTimeout, err := config.DurationOrDefault("", config.DefaultStoreLockTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse default store lock timeout: %w", err)
		}
		runtimeCfg.LockTimeout = lockTimeout
	}
	if runtimeCfg.LockRetry <= 0 {
		lockRetry, err := config.DurationOrDefault("", config.DefaultStoreLockRetry)
		if err != nil {
			return nil, fmt.Errorf("parse default store lock retry: %w", err)
		}
		runtimeCfg.LockRetry = lockRetry
	}
	if runtimeCfg.LockMaxRetry <= 0 {
		runtimeCfg.LockMaxRetry = config.DefaultStoreLockMaxRetry
	}
	if runtimeCfg.InboxSize <= 0 {
		runtimeCfg.InboxSize = config.DefaultStoreInboxSize
	}

	fileLock, err := NewFileLock(basePath, &FileLockConfig{
		LockTimeout:  runtimeCfg.LockTimeout,
		LockRetry:    runtimeCfg.LockRetry,
		LockMaxRetry: runtimeCfg.LockMaxRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	sessionIndex := &SessionIndex{Sessions: make(map[string]SessionMeta)}
	indexPath := filepath.Join(basePath, "index.json")
	if data, err := os.ReadFile(indexPath); err == nil {
		if err := json.Unmarshal(data, sessionIndex); err != nil {
			slog.Warn("Failed to parse session index, starting fresh", "error", err)
			sessionIndex = &SessionIndex{Sessions: make(map[string]SessionMeta)}
		}
	}

	return &Worker{
		basePath:     basePath,
		inbox:        make(chan Request, runtimeCfg.InboxSize),
		fileLock:     fileLock,
		quit:         make(chan struct{}),
		sessionIndex: sessionIndex,
	}, nil
}

func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

func (w *Worker) loop() {
	slog.Info("Store worker started", "path", w.basePath)
	w.running.Store(true)
	defer func() {
		w.running.Store(false)
		w.wg.Done()
	}()

	for {
		select {
		case req := <-w.inbox:
			err := w.handle(req)
			if req.Result != nil {
				req.Result <- err
			}
		case <-w.quit:
			slog.Info("Store worker stopping")
			return
		}
	}
}

func (w *Worker) handle(req Request) error {
	switch req.Op {
	case OpAppendEvent:
		p, ok := req.Payload.(AppendEventPayload)
		if !ok {
			return fmt.Errorf("invalid payload for AppendEvent")
		}
		return w.appendTranscript(p.SessionID, p.Data)
	case OpSaveSession:
		p, ok := req.Payload.(SaveSessionPayload)
		if !ok {
			return fmt.Errorf("invalid payload for SaveSession")
		}
		w.sessionIndex.Sessions[p.Session.ID] = *p.Session
		return w.saveSessionIndex()
	case OpGetSession:
		p, ok := req.Payload.(GetSessionPayload)
		if !ok {
			return fmt.Errorf("invalid payload for GetSession")
		}
		if req.Response != nil {
			if sess, ok := w.sessionIndex.Sessions[p.SessionID]; ok {
				req.Response <- &sess
			} else {
				req.Response <- nil
			}
		}
		return nil
	case OpListSessions:
		if req.Response != nil {
			req.Response <- w.listSessions()
		}
		return nil
	case OpReadTranscript:
		p, ok := req.Payload.(ReadTranscriptPayload)
		if !ok {
			return fmt.Errorf("invalid payload for ReadTranscript")
		}
		events, err := w.readTranscript(p.SessionID, p.Limit)
		if req.Response != nil {
			req.Response <- events
		}
		return err
	case OpDeleteSession:
		p, ok := req.Payload.(DeleteSessionPayload)
		if !ok {
			return fmt.Errorf("invalid payload for DeleteSession")
		}
		return w.deleteSession(p.SessionID)
	default:
		return fmt.Errorf("unknown operation: %d", req.Op)
	}
}

func (w *Worker) listSessions() []SessionMeta {
	sessions := make([]SessionMeta, 0, len(w.sessionIndex.Sessions))
	for _, meta := range w.sessionIndex.Sessions {
		sessions = append(sessions, meta)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions
}

func (w *Worker) readTranscript(sessionID string, limit int) ([]Event, error) {
	path := filepath.Join(w.basePath, sessionID+".jsonl")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Event{}, nil
		}
		return nil, err
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	events := make([]Event, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			slog.Warn("Skipping malformed transcript line", "session", sessionID, "error", err)
			continue
		}
		events = append(events, ev)
	}

	if limit > 0 && len(events) > limit {
		return events[len(events)-limit:], nil
	}
	return events, nil
}

func (w *Worker) saveSessionIndex() error {
	path := filepath.Join(w.basePath, "index.json")
	data, err := json.MarshalIndent(w.sessionIndex, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

func (w *Worker) appendTranscript(sessionID string, data []byte) error {
	path := filepath.Join(w.basePath, sessionID+".jsonl")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}
	if _, err := f.WriteString("\n"); err != nil {
		return err
	}
	return f.Sync()
}

func (w *Worker) deleteSession(sessionID string) error {
	path := filepath.Join(w.basePath, sessionID+".jsonl")
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	delete(w.sessionIndex.Sessions, sessionID)
	return w.saveSessionIndex()
}

// Public API for other components

func (w *Worker) AppendEvent(sessionID string, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	res := make(chan error, 1)
	w.inbox <- Request{
		Op:      OpAppendEvent,
		Payload: AppendEventPayload{SessionID: sessionID, Data: data},
		Result:  res,
	}
	return <-res
}

// RecordMessage appends one conversation turn to the session's transcript and
// bumps the session's index entry. It satisfies the orchestrator's sink.
func (w *Worker) RecordMessage(_ context.Context, sessionID string, msg contract.Message) error {
	if err := w.AppendEvent(sessionID, NewEvent(msg)); err != nil {
		return err
	}

	meta, err := w.GetSession(sessionID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if meta == nil {
		meta = &SessionMeta{ID: sessionID, CreatedAt: now}
	}
	meta.UpdatedAt = now
	meta.Turns++
	return w.SaveSession(meta)
}

func (w *Worker) SaveSession(session *SessionMeta) error {
	res := make(chan error, 1)
	w.inbox <- Request{
		Op:      OpSaveSession,
		Payload: SaveSessionPayload{Session: session},
		Result:  res,
	}
	return <-res
}

func (w *Worker) GetSession(id string) (*SessionMeta, error) {
	res := make(chan error, 1)
	resp := make(chan interface{}, 1)
	w.inbox <- Request{
		Op:       OpGetSession,
		Payload:  GetSessionPayload{SessionID: id},
		Result:   res,
		Response: resp,
	}
	if err := <-res; err != nil {
		return nil, err
	}
	val := <-resp
	if val == nil {
		return nil, nil
	}
	return val.(*SessionMeta), nil
}

// ListSessions returns every indexed session, most recently updated first.
func (w *Worker) ListSessions() ([]SessionMeta, error) {
	res := make(chan error, 1)
	resp := make(chan interface{}, 1)
	w.inbox <- Request{
		Op:       OpListSessions,
		Result:   res,
		Response: resp,
	}
	if err := <-res; err != nil {
		return nil, err
	}
	return (<-resp).([]SessionMeta), nil
}

func (w *Worker) ReadTranscript(sessionID string, limit int) ([]Event, error) {
	res := make(chan error, 1)
	resp := make(chan interface{}, 1)
	w.inbox <- Request{
		Op:       OpReadTranscript,
		Payload:  ReadTranscriptPayload{SessionID: sessionID, Limit: limit},
		Result:   res,
		Response: resp,
	}
	if err := <-res; err != nil {
		return nil, err
	}
	return (<-resp).([]Event), nil
}

func (w *Worker) DeleteSession(sessionID string) error {
	res := make(chan error, 1)
	w.inbox <- Request{
		Op:      OpDeleteSession,
		Payload: DeleteSessionPayload{SessionID: sessionID},
		Result:  res,
	}
	return <-res
}

func (w *Worker) Stop() {
	slog.Info("Store worker Stop called", "path", w.basePath, "lock_held", w.fileLock.IsLocked())

	close(w.quit)
	w.wg.Wait()

	if w.fileLock.IsLocked() {
		w.fileLock.Unlock()
	}
}

func (w *Worker) IsRunning() bool {
	return w.fileLock.IsLocked() && w.running.Load()
}
