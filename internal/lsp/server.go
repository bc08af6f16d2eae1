// Package lsp serves BBCode diagnostics over the Language Server Protocol.
package lsp

import (
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/open-cli-collective/bbcode-lint/internal/config"
	"github.com/open-cli-collective/bbcode-lint/pkg/bbcode"
)

const lsName = "bbl"

// Options configures a Server.
type Options struct {
	Version  string
	Config   *config.Config
	Registry *bbcode.Registry
	Trie     *bbcode.Trie
}

// Server lints open documents and publishes the results as diagnostics.
type Server struct {
	handler protocol.Handler
	server  *server.Server
	opts    Options
	log     commonlog.Logger

	mu   sync.Mutex
	docs map[protocol.DocumentUri]string
}

// NewServer creates a language server. Nil options fall back to the
// built-in grammar and constants with every diagnostic enabled.
func NewServer(opts Options) *Server {
	if opts.Config == nil {
		opts.Config = &config.Config{}
	}
	if opts.Registry == nil {
		opts.Registry = bbcode.DefaultRegistry()
	}
	if opts.Trie == nil {
		opts.Trie = bbcode.DefaultTrie()
	}

	s := &Server{
		opts: opts,
		log:  commonlog.GetLogger(lsName + ".lsp"),
		docs: make(map[protocol.DocumentUri]string),
	}
	s.handler = protocol.Handler{
		Initialize:             s.initialize,
		Initialized:            s.initialized,
		Shutdown:               s.shutdown,
		SetTrace:               s.setTrace,
		TextDocumentDidOpen:    s.didOpen,
		TextDocumentDidChange:  s.didChange,
		TextDocumentDidClose:   s.didClose,
		TextDocumentDidSave:    s.didSave,
		TextDocumentCompletion: s.completion,
	}
	s.server = server.NewServer(&s.handler, lsName, false)
	return s
}

// RunStdio serves a single client over stdin and stdout.
func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

// RunTCP serves clients connecting to address.
func (s *Server) RunTCP(address string) error {
	return s.server.RunTCP(address)
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	change := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &change,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.True},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"[", "/"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.opts.Version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.log.Infof("client initialized, %d tags known", len(s.opts.Registry.Names()))
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) didOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *Server) didChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	s.mu.Lock()
	text := applyChanges(s.docs[params.TextDocument.URI], params.ContentChanges)
	s.mu.Unlock()

	s.update(ctx, params.TextDocument.URI, text)
	return nil
}

func (s *Server) didSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	if params.Text != nil {
		s.update(ctx, params.TextDocument.URI, *params.Text)
	}
	return nil
}

func (s *Server) didClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	delete(s.docs, params.TextDocument.URI)
	s.mu.Unlock()

	s.publish(ctx, params.TextDocument.URI, []protocol.Diagnostic{})
	return nil
}

func (s *Server) completion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	s.mu.Lock()
	text, ok := s.docs[params.TextDocument.URI]
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}

	inTag, closing := tagPrefix(text, offsetAt(text, params.Position))
	if !inTag {
		return nil, nil
	}

	kind := protocol.CompletionItemKindKeyword
	var items []protocol.CompletionItem
	for _, name := range s.opts.Registry.Names() {
		tags := s.opts.Registry.Tags(name)
		shapes := make([]string, 0, len(tags))
		for _, d := range tags {
			shapes = append(shapes, strings.ToLower(d.Shape.String()))
		}
		if closing && len(tags) == 1 && tags[0].Shape == bbcode.NodeOmission {
			continue
		}
		detail := strings.Join(shapes, ", ")
		items = append(items, protocol.CompletionItem{
			Label:  name,
			Kind:   &kind,
			Detail: &detail,
		})
	}
	return items, nil
}

// update stores text for uri and publishes its diagnostics.
func (s *Server) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()

	diags := s.Diagnose(text)
	s.log.Debugf("%s: %d diagnostics", uri, len(diags))
	s.publish(ctx, uri, diags)
}

func (s *Server) publish(ctx *glsp.Context, uri protocol.DocumentUri, diags []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

// Diagnose lints text and converts the enabled messages to LSP diagnostics.
// The result is never nil so clients clear stale diagnostics.
func (s *Server) Diagnose(text string) []protocol.Diagnostic {
	doc := bbcode.Parse(text, bbcode.WithGrammar(s.opts.Registry), bbcode.WithTrie(s.opts.Trie))
	msgs := s.opts.Config.Filter(doc.Messages)

	source := lsName
	diags := make([]protocol.Diagnostic, 0, len(msgs))
	for _, m := range msgs {
		sev := severity(m.Severity)
		diags = append(diags, protocol.Diagnostic{
			Range: protocol.Range{
				Start: positionAt(text, m.Pos.Offset),
				End:   positionAt(text, m.Pos.Offset+m.Span),
			},
			Severity: &sev,
			Code:     &protocol.IntegerOrString{Value: m.Name},
			Source:   &source,
			Message:  m.Text,
		})
	}
	return diags
}

func severity(s bbcode.Severity) protocol.DiagnosticSeverity {
	switch s {
	case bbcode.SeverityError:
		return protocol.DiagnosticSeverityError
	case bbcode.SeverityWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityHint
	}
}
