package codebase

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/jsdocgen/config"
	"github.com/dhamidi/jsdocgen/diag"
)

const lsName = "jsdocgen"

type LSPServer struct {
	codebase *Codebase
	cfg      *config.Config
	handler  protocol.Handler
	server   *server.Server
	version  string

	mu   sync.Mutex
	open map[string]protocol.DocumentUri
}

func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	ls := &LSPServer{
		cfg:     cfg,
		version: version,
		open:    make(map[string]protocol.DocumentUri),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
		TextDocumentHover:      ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.codebase = New(rootDir, ls.cfg)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{".", "{"},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.codebase.ScanAll(); err != nil {
		log.Errorf("%s", err)
	}
	log.Infof("scanned %d files below %s", len(ls.codebase.Files()), ls.codebase.RootDir())
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	ls.open[path] = params.TextDocument.URI
	ls.mu.Unlock()
	ls.update(ctx, path, []byte(params.TextDocument.Text))
	return nil
}

// textDocumentDidChange expects full sync, so the last change carries the
// whole document.
func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || len(params.ContentChanges) == 0 {
		return nil
	}
	whole, ok := params.ContentChanges[len(params.ContentChanges)-1].(protocol.TextDocumentContentChangeEventWhole)
	if !ok {
		log.Debugf("ignoring incremental change to %s", path)
		return nil
	}
	ls.update(ctx, path, []byte(whole.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.mu.Lock()
	delete(ls.open, path)
	ls.mu.Unlock()
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.update(ctx, path, []byte(*params.Text))
		return nil
	}
	if err := ls.codebase.ScanFile(path); err != nil {
		log.Warningf("%s", err)
	}
	ls.publishDiagnostics(ctx)
	return nil
}

func (ls *LSPServer) update(ctx *glsp.Context, path string, content []byte) {
	ls.codebase.UpdateFile(path, content)
	ls.publishDiagnostics(ctx)
}

// publishDiagnostics sends the diagnostics of every open document. A
// change in one file can add or clear diagnostics in another.
func (ls *LSPServer) publishDiagnostics(ctx *glsp.Context) {
	ls.mu.Lock()
	uris := make(map[string]protocol.DocumentUri, len(ls.open))
	paths := make([]string, 0, len(ls.open))
	for path, uri := range ls.open {
		uris[path] = uri
		paths = append(paths, path)
	}
	ls.mu.Unlock()
	sort.Strings(paths)

	for _, path := range paths {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uris[path],
			Diagnostics: toProtocolDiagnostics(ls.codebase.Diagnostics(path)),
		})
	}
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	text := ls.codebase.Hover(path, int(params.Position.Line)+1)
	if text == "" {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}, nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	completions := ls.codebase.CompletionsAtPoint(path, int(params.Position.Line)+1, int(params.Position.Character))
	if len(completions) == 0 {
		return nil, nil
	}
	items := make([]protocol.CompletionItem, len(completions))
	for i, c := range completions {
		items[i] = completionItem(c)
	}
	return items, nil
}

func completionItem(c CompletionItem) protocol.CompletionItem {
	kind := toProtocolKind(c.Kind)
	format := protocol.InsertTextFormatPlainText
	return protocol.CompletionItem{
		Label:            c.Label,
		Kind:             &kind,
		Detail:           &c.Detail,
		InsertText:       &c.InsertText,
		InsertTextFormat: &format,
	}
}

func toProtocolKind(kind CompletionKind) protocol.CompletionItemKind {
	switch kind {
	case CompletionKindClass:
		return protocol.CompletionItemKindClass
	case CompletionKindEnum:
		return protocol.CompletionItemKindEnum
	case CompletionKindTypedef:
		return protocol.CompletionItemKindStruct
	default:
		return protocol.CompletionItemKindText
	}
}

// toProtocolDiagnostics converts diagnostics to LSP positions, which are
// 0-based. A diagnostic without a column covers its whole line.
func toProtocolDiagnostics(ds []diag.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(ds))
	for _, d := range ds {
		line := protocol.UInteger(max(d.Pos.Line-1, 0))
		start := protocol.Position{Line: line, Character: protocol.UInteger(max(d.Pos.Column-1, 0))}
		end := protocol.Position{Line: line + 1}
		if d.Pos.Column > 0 {
			end = protocol.Position{Line: line, Character: start.Character + 1}
		}
		severity := toProtocolSeverity(d.Severity)
		source := lsName
		out = append(out, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: string(d.Kind)},
			Source:   &source,
			Message:  d.Message,
		})
	}
	return out
}

func toProtocolSeverity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.SevError:
		return protocol.DiagnosticSeverityError
	case diag.SevWarning:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
