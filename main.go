// docuchat TUI - chat with your PDF documents from the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/docuchat/docuchat-tui/internal/config"
	"github.com/docuchat/docuchat-tui/internal/docproc"
	"github.com/docuchat/docuchat-tui/internal/gemini"
	"github.com/docuchat/docuchat-tui/internal/logging"
	"github.com/docuchat/docuchat-tui/internal/model"
	"github.com/docuchat/docuchat-tui/internal/ui/chat"
	"github.com/docuchat/docuchat-tui/internal/ui/components"
	"github.com/docuchat/docuchat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

// send delivers a message to the running program from a goroutine.
func send(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	args := os.Args[1:]
	if len(args) == 1 && (args[0] == "--version" || args[0] == "-v") {
		fmt.Printf("docuchat %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfg := config.Global()

	level := zapcore.InfoLevel
	if parsed, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
		level = parsed
	}
	// The TUI owns the terminal, so logs go to a file only.
	logging.Init(cfg.LogPath(), level)
	defer logging.Sync()

	logging.L().Info("starting docuchat",
		zap.String("version", Version),
		zap.String("model", cfg.Gemini.Model))

	theme := styles.NewTheme()
	client := gemini.NewClient(&gemini.ClientConfig{
		BaseURL:     cfg.Gemini.BaseURL,
		APIKey:      cfg.Gemini.APIKey,
		Model:       cfg.Gemini.Model,
		Temperature: cfg.Gemini.Temperature,
		Timeout:     time.Duration(cfg.Gemini.ConnectTimeoutSecs) * time.Second,
	})

	m := NewModel(theme, cfg, gemini.NewManager(client), args)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	programMu.Lock()
	programRef = p
	programMu.Unlock()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running docuchat: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// APPLICATION MODEL
// =============================================================================

// State represents the current application state.
type State int

const (
	StateUpload     State = iota // Document selection screen
	StateProcessing              // Parsing PDFs and initializing the session
	StateChat                    // Chat view
	StateError                   // Error display
)

// Model is the main Bubble Tea model for the application.
type Model struct {
	state State

	theme *styles.Theme

	width  int
	height int

	// Screens
	upload       components.Upload
	chatModel    chat.Model
	errorDisplay components.ErrorDisplay
	procSpinner  components.Spinner

	// Domain state
	config       *config.Config
	geminiMgr    *gemini.Manager
	docs         *model.DocumentStore
	conversation *model.Conversation
	processor    *docproc.Processor

	// Paths handed over on the command line, processed at startup.
	startupPaths []string

	// Failures from the last batch, surfaced once in the chat view.
	batchNotice string

	cancelStream context.CancelFunc

	logger *zap.Logger
}

// NewModel creates the application model.
func NewModel(theme *styles.Theme, cfg *config.Config, mgr *gemini.Manager, paths []string) Model {
	opts := docproc.DefaultOptions()
	opts.MinTextChars = cfg.Processing.MinTextChars
	opts.ThumbnailWidth = cfg.Processing.ThumbnailWidth

	return Model{
		state:        StateUpload,
		theme:        theme,
		upload:       components.NewUpload(theme),
		procSpinner:  components.NewProcessingSpinner(),
		config:       cfg,
		geminiMgr:    mgr,
		docs:         model.NewDocumentStore(),
		processor:    docproc.NewProcessor(opts),
		startupPaths: paths,
		logger:       logging.Named("app"),
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// batchDoneMsg reports the outcome of a document processing batch.
type batchDoneMsg struct {
	docs     []*model.Document
	batchErr *docproc.BatchError
}

// sessionInitMsg reports the outcome of chat session initialization.
type sessionInitMsg struct {
	err error
}

// reinitDoneMsg reports the outcome of the history-clear re-init.
type reinitDoneMsg struct {
	err error
}

// =============================================================================
// INIT
// =============================================================================

// Init starts the program.
func (m Model) Init() tea.Cmd {
	// A missing key is unrecoverable: there is nothing to chat with.
	if !m.config.HasAPIKey() {
		return func() tea.Msg { return missingKeyMsg{} }
	}
	if len(m.startupPaths) > 0 {
		paths := m.startupPaths
		return tea.Sequence(
			m.upload.Init(),
			func() tea.Msg { return components.StartAnalysisMsg{Paths: paths} },
		)
	}
	return m.upload.Init()
}

// missingKeyMsg switches to the terminal missing-credential error.
type missingKeyMsg struct{}

// =============================================================================
// UPDATE
// =============================================================================

// Update routes messages by application state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		m.upload.SetSize(msg.Width, msg.Height)
		m.chatModel.SetSize(msg.Width, msg.Height)
		m.errorDisplay.SetSize(msg.Width, msg.Height)
		return m, nil

	case missingKeyMsg:
		m.errorDisplay = components.MissingAPIKeyError()
		m.errorDisplay.SetSize(m.width, m.height)
		m.state = StateError
		m.logger.Error("no API key configured")
		return m, nil

	case components.StartAnalysisMsg:
		return m.startProcessing(msg.Paths)

	case batchDoneMsg:
		return m.finishProcessing(msg)

	case sessionInitMsg:
		return m.finishSessionInit(msg.err)

	case reinitDoneMsg:
		// A failed re-init after history clear is deliberately swallowed:
		// the session keeps working with the previous backend state.
		if msg.err != nil {
			m.logger.Warn("session re-init after clear failed", zap.Error(msg.err))
		}
		return m, nil

	case chat.SubmitMsg:
		return m.startStream(msg.Content)

	case chat.ClearHistoryRequestMsg:
		return m.clearHistory()

	case chat.ResetRequestMsg:
		return m.reset()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancelStream != nil {
				m.cancelStream()
			}
			return m, tea.Quit
		}
	}

	return m.updateState(msg)
}

// updateState forwards a message to the active screen.
func (m Model) updateState(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateUpload:
		m.upload, cmd = m.upload.Update(msg)

	case StateProcessing:
		m.procSpinner, cmd = m.procSpinner.Update(msg)

	case StateChat:
		m.chatModel, cmd = m.chatModel.Update(msg)

	case StateError:
		// The error state is terminal (configuration missing); the only
		// way out is quitting. Recoverable failures surface inline on
		// the screen they belong to instead.
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, cmd
}

// =============================================================================
// DOCUMENT PROCESSING
// =============================================================================

// startProcessing kicks off the PDF batch in the background.
func (m Model) startProcessing(paths []string) (tea.Model, tea.Cmd) {
	m.state = StateProcessing
	m.procSpinner.SetDetail(fmt.Sprintf("%d file(s)", len(paths)))

	processor := m.processor
	workers := m.config.Processing.MaxBatchWorkers
	batchCmd := func() tea.Msg {
		docs, err := processor.ProcessBatch(context.Background(), paths, workers)
		var batchErr *docproc.BatchError
		errors.As(err, &batchErr)
		return batchDoneMsg{docs: docs, batchErr: batchErr}
	}

	return m, tea.Batch(m.procSpinner.Start(), batchCmd)
}

// finishProcessing stores parsed documents and initializes the session.
// A batch where every file failed is an error; partial failure proceeds
// with the surviving documents.
func (m Model) finishProcessing(msg batchDoneMsg) (tea.Model, tea.Cmd) {
	m.procSpinner.Stop()

	added := 0
	for _, doc := range msg.docs {
		if m.docs.Add(doc) {
			added++
		}
	}

	m.batchNotice = ""
	if msg.batchErr != nil {
		m.logger.Warn("batch completed with failures",
			zap.Int("failed", len(msg.batchErr.Failures)),
			zap.Int("processed", added))
		m.batchNotice = summarizeFailures(msg.batchErr)
	}

	if m.docs.Count() == 0 {
		// Every file failed: stay on the upload screen with the failure
		// summary inline, so the user can retry with other files.
		message := "no documents could be processed"
		if m.batchNotice != "" {
			message = m.batchNotice
		}
		m.upload.SetNotice(message)
		m.state = StateUpload
		return m, nil
	}

	m.logger.Info("documents ready",
		zap.Int("count", m.docs.Count()),
		zap.Int("token_estimate", m.docs.TokenEstimate()))

	mgr := m.geminiMgr
	docsContext := m.docs.CombinedContext()
	initCmd := func() tea.Msg {
		return sessionInitMsg{err: mgr.Init(context.Background(), docsContext)}
	}

	return m, initCmd
}

// finishSessionInit moves to the chat screen once the backend accepted the
// document context.
func (m Model) finishSessionInit(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		// Back to the upload screen; the store keeps its documents so a
		// retry does not re-stage anything.
		m.upload.SetNotice(err.Error())
		m.state = StateUpload
		return m, nil
	}

	m.conversation = model.NewConversation()
	m.chatModel = chat.New(m.theme, m.conversation, m.docs, m.config)
	m.chatModel.SetSize(m.width, m.height)
	if m.batchNotice != "" {
		m.chatModel.SetNotice(m.batchNotice)
	}
	m.state = StateChat
	return m, nil
}

// summarizeFailures renders a one-line description of batch failures.
func summarizeFailures(batchErr *docproc.BatchError) string {
	names := make([]string, 0, len(batchErr.Failures))
	for _, f := range batchErr.Failures {
		names = append(names, f.Path)
	}
	return fmt.Sprintf("skipped %d file(s): %s", len(names), strings.Join(names, ", "))
}

// =============================================================================
// STREAMING
// =============================================================================

// startStream sends a user message and streams the response back into the
// conversation via program messages.
func (m Model) startStream(content string) (tea.Model, tea.Cmd) {
	if m.conversation == nil {
		return m, nil
	}

	convID := m.conversation.ID
	msgID := m.conversation.AddPendingModelMessage()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelStream = cancel

	mgr := m.geminiMgr
	streamCmd := func() tea.Msg {
		defer cancel()
		err := mgr.SendStream(ctx, content, func(chunk gemini.StreamChunk) {
			if chunk.Text != "" {
				send(chat.StreamTokenMsg{
					ConversationID: convID,
					MessageID:      msgID,
					Token:          chunk.Text,
				})
			}
		})
		return chat.StreamCompleteMsg{ConversationID: convID, MessageID: msgID, Err: err}
	}

	startCmd := func() tea.Msg {
		return chat.StreamStartMsg{ConversationID: convID, MessageID: msgID}
	}

	return m, tea.Sequence(startCmd, streamCmd)
}

// =============================================================================
// HISTORY AND RESET
// =============================================================================

// clearHistory empties the transcript and re-initializes the backend
// session over the same documents. The re-init runs in the background and
// its failure is logged, not surfaced: from the user's point of view the
// history is simply gone.
func (m Model) clearHistory() (tea.Model, tea.Cmd) {
	if m.conversation == nil {
		return m, nil
	}

	m.conversation.Clear()
	m.chatModel.OnHistoryCleared()
	m.logger.Info("history cleared")

	mgr := m.geminiMgr
	docsContext := m.docs.CombinedContext()
	reinitCmd := func() tea.Msg {
		return reinitDoneMsg{err: mgr.Init(context.Background(), docsContext)}
	}
	return m, reinitCmd
}

// reset drops all documents and the session and returns to the upload
// screen.
func (m Model) reset() (tea.Model, tea.Cmd) {
	if m.cancelStream != nil {
		m.cancelStream()
		m.cancelStream = nil
	}

	m.docs.Clear()
	m.conversation = nil
	m.geminiMgr.Discard()
	m.batchNotice = ""

	m.upload = components.NewUpload(m.theme)
	m.upload.SetSize(m.width, m.height)
	m.state = StateUpload
	m.logger.Info("reset to upload")

	return m, m.upload.Init()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active screen.
func (m Model) View() string {
	switch m.state {
	case StateUpload:
		return m.theme.Container.Render(m.upload.View())

	case StateProcessing:
		content := m.procSpinner.View()
		if m.width > 0 && m.height > 0 {
			return m.theme.App.Render(lipgloss.Place(
				m.width, m.height,
				lipgloss.Center, lipgloss.Center,
				content))
		}
		return content

	case StateChat:
		return m.theme.App.Render(m.chatModel.View())

	case StateError:
		return m.theme.App.Render(m.errorDisplay.View())
	}
	return ""
}
