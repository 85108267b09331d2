package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"bazelrc-lsp/internal/bazelversion"
	"bazelrc-lsp/internal/format"
	"bazelrc-lsp/internal/log"
	"bazelrc-lsp/internal/workspace"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// Settings are the user-tunable parts of the analysis.
type Settings struct {
	Format format.Options
	// BazelVersion overrides version detection when non-empty.
	BazelVersion string
	// MaxDiagnostics caps diagnostics per document; zero means unlimited.
	MaxDiagnostics int
}

// ServerOptions configures LSP server behavior.
type ServerOptions struct {
	Logger   log.Logger
	Settings Settings
	// Probe checks import targets; nil uses the local filesystem.
	Probe workspace.Probe
	// Detector finds the Bazel version of a workspace; nil uses the
	// process environment and the filesystem.
	Detector *bazelversion.Detector
	// Version is reported to the client as the server version.
	Version string
}

// Server handles stdio JSON-RPC for the bazelrc language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex
	log    log.Logger

	probe    workspace.Probe
	detector *bazelversion.Detector
	version  string

	mu                sync.Mutex
	settings          Settings
	settingsGen       uint64
	workspaceRoot     string
	encoding          posEncoding
	initialized       bool
	shutdownRequested bool

	// docs maps a document URI to its latest *snapshot.
	docs sync.Map
	// warned remembers version warnings already shown to the user.
	warned sync.Map

	requests sync.WaitGroup
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	probe := opts.Probe
	if probe == nil {
		probe = workspace.OSProbe{}
	}
	detector := opts.Detector
	if detector == nil {
		detector = &bazelversion.Detector{}
	}
	return &Server{
		in:       bufio.NewReader(in),
		out:      bufio.NewWriter(out),
		log:      opts.Logger,
		probe:    probe,
		detector: detector,
		version:  opts.Version,
		settings: opts.Settings,
	}
}

// Run serves LSP messages until the client exits or closes the stream.
// Requests are answered concurrently; notifications are handled in order.
func (s *Server) Run(ctx context.Context) error {
	defer s.requests.Wait()
	for ctx.Err() == nil {
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.log.Warn("failed to parse message", "err", err)
			continue
		}
		if msg.Method == "" {
			// response to a server-initiated request
			continue
		}
		if err := s.dispatch(&msg); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Server) dispatch(msg *rpcMessage) error {
	if isRequest(msg.Method) && len(msg.ID) > 0 {
		if !s.isInitialized() {
			return s.sendError(msg.ID, codeNotInitialized, "server not initialized")
		}
		s.requests.Go(func() {
			if err := s.handleRequest(msg); err != nil {
				s.log.Error("request failed", "method", msg.Method, "err", err)
			}
		})
		return nil
	}
	return s.handleMessage(msg)
}

func isRequest(method string) bool {
	switch method {
	case "textDocument/hover",
		"textDocument/completion",
		"textDocument/definition",
		"textDocument/documentLink",
		"textDocument/formatting",
		"textDocument/rangeFormatting",
		"textDocument/foldingRange",
		"textDocument/semanticTokens/full",
		"textDocument/codeAction":
		return true
	}
	return false
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		if s.isShutdown() {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "workspace/didChangeConfiguration":
		return s.handleDidChangeConfiguration(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "$/cancelRequest", "$/setTrace":
		return nil
	default:
		if len(msg.ID) > 0 {
			return s.sendError(msg.ID, codeMethodNotFound, "method not found")
		}
		return nil
	}
}

func (s *Server) handleRequest(msg *rpcMessage) error {
	switch msg.Method {
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "textDocument/documentLink":
		return s.handleDocumentLink(msg)
	case "textDocument/formatting":
		return s.handleFormatting(msg)
	case "textDocument/rangeFormatting":
		return s.handleRangeFormatting(msg)
	case "textDocument/foldingRange":
		return s.handleFoldingRange(msg)
	case "textDocument/semanticTokens/full":
		return s.handleSemanticTokens(msg)
	case "textDocument/codeAction":
		return s.handleCodeAction(msg)
	}
	return s.sendError(msg.ID, codeMethodNotFound, "method not found")
}

// decodeParams unmarshals the params of msg into v, answering the request
// with an invalid params error when that fails.
func (s *Server) decodeParams(msg *rpcMessage, v any) (bool, error) {
	if len(msg.Params) == 0 {
		return true, nil
	}
	if err := json.Unmarshal(msg.Params, v); err != nil {
		if len(msg.ID) == 0 {
			s.log.Warn("invalid notification params", "method", msg.Method, "err", err)
			return false, nil
		}
		return false, s.sendError(msg.ID, codeInvalidParams, "invalid params")
	}
	return true, nil
}

func (s *Server) handleInitialize(msg *rpcMessage) error {
	var params initializeParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	root := ""
	if params.RootURI != "" {
		root = uriToPath(params.RootURI)
	}
	if root == "" && params.RootPath != "" {
		root = params.RootPath
	}
	if root == "" && len(params.WorkspaceFolders) > 0 {
		root = uriToPath(params.WorkspaceFolders[0].URI)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	enc := negotiateEncoding(params.Capabilities.General.PositionEncodings)

	s.mu.Lock()
	s.workspaceRoot = root
	s.encoding = enc
	s.initialized = true
	s.mu.Unlock()

	if len(params.InitializationOptions) > 0 {
		if err := s.applySettings(params.InitializationOptions); err != nil {
			s.showMessage(messageTypeError, fmt.Sprintf("Invalid settings: %v", err))
		}
	}
	s.log.Info("initialized", slog.String("root", root), slog.String("encoding", enc.String()))

	result := initializeResult{
		ServerInfo: serverInfo{Name: "bazelrc-lsp", Version: s.version},
		Capabilities: serverCapabilities{
			PositionEncoding: enc.String(),
			TextDocumentSync: textDocumentSyncOptions{
				OpenClose: true,
				Change:    2,
				Save:      saveOptions{IncludeText: true},
			},
			HoverProvider: true,
			CompletionProvider: &completionOptions{
				TriggerCharacters: []string{"-"},
			},
			DefinitionProvider:              true,
			DocumentFormattingProvider:      true,
			DocumentRangeFormattingProvider: true,
			DocumentLinkProvider:            &struct{}{},
			FoldingRangeProvider:            true,
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semanticTokensLegend{
					TokenTypes:     semanticTokenTypes,
					TokenModifiers: semanticTokenModifiers,
				},
				Full: true,
			},
			CodeActionProvider: &codeActionOptions{CodeActionKinds: []string{"quickfix"}},
		},
	}
	return s.sendResponse(msg.ID, result)
}

func (s *Server) handleShutdown(msg *rpcMessage) error {
	s.mu.Lock()
	s.shutdownRequested = true
	s.mu.Unlock()
	return s.sendResponse(msg.ID, nil)
}

func (s *Server) handleDidOpen(msg *rpcMessage) error {
	var params didOpenTextDocumentParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	doc := params.TextDocument
	if doc.URI == "" {
		return nil
	}
	return s.update(doc.URI, doc.Version, doc.Text)
}

func (s *Server) handleDidChange(msg *rpcMessage) error {
	var params didChangeTextDocumentParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	uri := params.TextDocument.URI
	prev := s.snapshot(uri)
	if prev == nil {
		s.log.Warn("change for unknown document", "uri", uri)
		return nil
	}
	text := applyChanges(string(prev.file.Content), params.ContentChanges, s.currentEncoding())
	return s.update(uri, params.TextDocument.Version, text)
}

func (s *Server) handleDidSave(msg *rpcMessage) error {
	var params didSaveTextDocumentParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	uri := params.TextDocument.URI
	prev := s.snapshot(uri)
	if prev == nil {
		return nil
	}
	text := string(prev.file.Content)
	if params.Text != nil {
		text = *params.Text
	}
	// imported files may have appeared since the last edit
	return s.update(uri, prev.version, text)
}

func (s *Server) handleDidClose(msg *rpcMessage) error {
	var params didCloseTextDocumentParams
	if ok, err := s.decodeParams(msg, &params); !ok {
		return err
	}
	uri := params.TextDocument.URI
	if _, loaded := s.docs.LoadAndDelete(uri); loaded {
		return s.sendPublish(uri, nil, nil)
	}
	return nil
}

// update analyzes a new version of uri, stores it and publishes its
// diagnostics.
func (s *Server) update(uri string, version int, text string) error {
	snap := s.analyze(uri, version, text)
	s.docs.Store(uri, snap)
	if snap.resolution.Warning != "" {
		if _, seen := s.warned.LoadOrStore(snap.resolution.Warning, struct{}{}); !seen {
			s.log.Warn(snap.resolution.Warning, "uri", uri)
			s.showMessage(messageTypeWarning, snap.resolution.Warning)
		}
	}
	return s.publish(snap)
}

func (s *Server) snapshot(uri string) *snapshot {
	v, ok := s.docs.Load(uri)
	if !ok {
		return nil
	}
	return v.(*snapshot)
}

func (s *Server) isInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Server) isShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shutdownRequested
}

func (s *Server) currentEncoding() posEncoding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encoding
}

func (s *Server) sendResponse(id json.RawMessage, result any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	return s.send(msg)
}

func (s *Server) sendError(id json.RawMessage, code int, message string) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error": rpcError{
			Code:    code,
			Message: message,
		},
	}
	return s.send(msg)
}

func (s *Server) sendNotification(method string, params any) error {
	msg := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	return s.send(msg)
}

func (s *Server) sendPublish(uri string, version *int, list []lspDiagnostic) error {
	if list == nil {
		list = []lspDiagnostic{}
	}
	return s.sendNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: list,
	})
}

func (s *Server) showMessage(typ int, message string) {
	if err := s.sendNotification("window/showMessage", showMessageParams{Type: typ, Message: message}); err != nil {
		s.log.Error("failed to show message", "err", err)
	}
}

func (s *Server) send(msg any) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}
